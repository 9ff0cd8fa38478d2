package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"descartables/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateCode   = errors.New("product code already exists")
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	DeleteByCode(ctx context.Context, code string) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, codigo, descripcion, foto, precio`

func scanProduct(scan func(dest ...any) error) (*domain.Product, error) {
	product := &domain.Product{}
	err := scan(
		&product.ID,
		&product.Code,
		&product.Description,
		&product.ImageRef,
		&product.Price,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a new product and sets its generated ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO productos (codigo, descripcion, foto, precio)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Code,
		product.Description,
		product.ImageRef,
		product.Price,
	).Scan(&product.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update rewrites description, image and price of the product with
// product.Code. The code itself is the lookup key and is never changed.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE productos
		SET descripcion = $2, foto = $3, precio = $4
		WHERE codigo = $1
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Code,
		product.Description,
		product.ImageRef,
		product.Price,
	).Scan(&product.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// DeleteByCode removes a product from the catalog
func (r *productRepository) DeleteByCode(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM productos WHERE codigo = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, id)

	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

func (r *productRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM productos WHERE codigo = $1`, code)

	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by code: %w", err)
	}

	return product, nil
}

// List returns the whole catalog ordered by id
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM productos ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
