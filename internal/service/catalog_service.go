package service

import (
	"context"
	"fmt"

	"descartables/internal/domain"
	"descartables/internal/repository"

	"github.com/shopspring/decimal"
)

// maxPrice is the first value that no longer fits NUMERIC(12, 2).
var maxPrice = decimal.New(1, 10)

// CatalogService defines the interface for catalog management
type CatalogService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, code string, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, code string) error
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductByCode(ctx context.Context, code string) (*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// ParsePrice accepts a decimal string that is zero or positive and rounds it
// to cents.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	price = price.Round(2)
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, ErrInvalidPrice
	}
	return price, nil
}

// CreateProduct validates input and inserts it. A code already in the
// catalog yields repository.ErrDuplicateCode and nothing is stored.
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	input = input.Normalize()

	price, err := ParsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Code:        input.Code,
		Description: input.Description,
		ImageRef:    input.ImageRef,
		Price:       price,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct replaces description, image and price of the product with
// code. input.Code is ignored.
func (s *catalogService) UpdateProduct(ctx context.Context, code string, input ProductInput) (*domain.Product, error) {
	input = input.Normalize()
	input.Code = code

	price, err := ParsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Code:        code,
		Description: input.Description,
		ImageRef:    input.ImageRef,
		Price:       price,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes the product with code. Carts that already hold it
// keep their snapshot.
func (s *catalogService) DeleteProduct(ctx context.Context, code string) error {
	return s.productRepo.DeleteByCode(ctx, code)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	return s.productRepo.FindByCode(ctx, code)
}
