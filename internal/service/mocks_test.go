package service

import (
	"context"
	"errors"

	"descartables/internal/domain"
	"descartables/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var errStoreDown = errors.New("store unavailable")

// Mock repositories for testing
type mockProductRepository struct {
	products []*domain.Product
	nextID   int64
	failWith error
}

func newMockProductRepository(seed ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{nextID: 1}
	for _, p := range seed {
		_ = m.Create(context.Background(), p)
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, p := range m.products {
		if p.Code == product.Code {
			return repository.ErrDuplicateCode
		}
	}
	product.ID = m.nextID
	m.nextID++
	stored := *product
	m.products = append(m.products, &stored)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, p := range m.products {
		if p.Code == product.Code {
			p.Description = product.Description
			p.ImageRef = product.ImageRef
			p.Price = product.Price
			product.ID = p.ID
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *mockProductRepository) DeleteByCode(ctx context.Context, code string) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i, p := range m.products {
		if p.Code == code {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, p := range m.products {
		if p.ID == id {
			found := *p
			return &found, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, p := range m.products {
		if p.Code == code {
			found := *p
			return &found, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		found := *p
		out = append(out, &found)
	}
	return out, nil
}

type mockAccountRepository struct {
	accounts map[string]*domain.Account
	failWith error
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *mockAccountRepository) add(id int64, username, password string, role domain.Role) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	m.accounts[username] = &domain.Account{ID: id, Username: username, PasswordHash: string(hash), Role: role}
}

func (m *mockAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	account, ok := m.accounts[username]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return account, nil
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, account := range m.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}
