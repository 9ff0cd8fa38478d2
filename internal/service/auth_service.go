package service

import (
	"context"
	"errors"
	"fmt"

	"descartables/internal/domain"
	"descartables/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService defines the interface for credential checks
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
}

type authService struct {
	accountRepo repository.AccountRepository
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(accountRepo repository.AccountRepository) AuthService {
	return &authService{accountRepo: accountRepo}
}

// Authenticate returns the principal for username when password matches its
// stored hash. An unknown username and a wrong password are indistinguishable.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account.Principal(), nil
}

// RequireRole succeeds only for a principal holding exactly role.
func RequireRole(principal *domain.Principal, role domain.Role) error {
	if principal == nil || principal.Role != role {
		return ErrAccessDenied
	}
	return nil
}
