package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"descartables/internal/domain"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

// scanAccount reads one usuarios row and checks its role.
func scanAccount(scan func(dest ...any) error) (*domain.Account, error) {
	var (
		account = &domain.Account{}
		rol     string
	)
	if err := scan(&account.ID, &account.Username, &account.PasswordHash, &rol); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(rol)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", account.ID, err)
	}
	account.Role = role
	return account, nil
}

// FindByUsername retrieves an account by its unique username
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, rol
		FROM usuarios
		WHERE username = $1
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, username).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by username: %w", err)
	}

	return account, nil
}

// FindByID retrieves an account by ID. The session middleware calls it on
// every signed-in request.
func (r *accountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, rol
		FROM usuarios
		WHERE id = $1
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}

	return account, nil
}
