package transport

import (
	"context"
	"sync"

	"descartables/internal/domain"
	"descartables/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// In-memory repositories for handler tests
type memProductRepository struct {
	mu       sync.Mutex
	products []domain.Product
	nextID   int64
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{nextID: 1}
}

func (m *memProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Code == product.Code {
			return repository.ErrDuplicateCode
		}
	}
	product.ID = m.nextID
	m.nextID++
	m.products = append(m.products, *product)
	return nil
}

func (m *memProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].Code == product.Code {
			product.ID = m.products[i].ID
			m.products[i] = *product
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *memProductRepository) DeleteByCode(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].Code == code {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *memProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *memProductRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Code == code {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *memProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		found := p
		out = append(out, &found)
	}
	return out, nil
}

type memAccountRepository struct {
	accounts []domain.Account
}

func newMemAccountRepository() *memAccountRepository {
	repo := &memAccountRepository{}
	repo.add(1, "admin", "admin123", domain.RoleAdmin)
	repo.add(2, "user", "user123", domain.RoleUser)
	return repo
}

func (m *memAccountRepository) add(id int64, username, password string, role domain.Role) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	m.accounts = append(m.accounts, domain.Account{ID: id, Username: username, PasswordHash: string(hash), Role: role})
}

func (m *memAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (m *memAccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}
