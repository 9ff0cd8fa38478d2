package repository

import (
	"context"
	"testing"

	"descartables/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueCode(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func countProducts(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM productos").Scan(&n))
	return n
}

// Feature: catalog-cart, Property 13: Product creation preserves attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	repo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("created products are listed once with the same fields and a fresh id", prop.ForAll(
		func(description string, cents int64, withImage bool) bool {
			ctx := context.Background()

			product := &domain.Product{
				Code:        uniqueCode("P"),
				Description: description,
				Price:       decimal.New(cents, -2),
			}
			if withImage {
				product.ImageRef = "https://img.example/" + product.Code
			}

			before, err := repo.List(ctx)
			if err != nil {
				t.Logf("FAIL: list before: %v", err)
				return false
			}

			if err := repo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer repo.DeleteByCode(ctx, product.Code)

			for _, p := range before {
				if p.ID == product.ID {
					t.Logf("FAIL: id %d reused", product.ID)
					return false
				}
			}

			after, err := repo.List(ctx)
			if err != nil {
				t.Logf("FAIL: list after: %v", err)
				return false
			}

			matches := 0
			for _, p := range after {
				if p.Code != product.Code {
					continue
				}
				matches++
				if p.ID != product.ID || p.Description != description ||
					p.ImageRef != product.ImageRef || !p.Price.Equal(product.Price) {
					t.Logf("FAIL: attributes mismatch: %+v vs %+v", p, product)
					return false
				}
			}
			return matches == 1
		},
		gen.RegexMatch(`[A-Za-z ]{1,40}`),
		gen.Int64Range(0, 9999999),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateDuplicateCodeLeavesStoreUnchanged(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	code := uniqueCode("DUP")
	first := &domain.Product{Code: code, Description: "Original", Price: decimal.RequireFromString("1.00")}
	require.NoError(t, repo.Create(ctx, first))
	defer repo.DeleteByCode(ctx, code)

	total := countProducts(t)

	err := repo.Create(ctx, &domain.Product{Code: code, Description: "Copy", Price: decimal.RequireFromString("2.00")})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	assert.Equal(t, total, countProducts(t))
	stored, err := repo.FindByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Description)
}

func TestUpdateByCode(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	code := uniqueCode("UPD")
	created := &domain.Product{Code: code, Description: "Before", Price: decimal.RequireFromString("1.00")}
	require.NoError(t, repo.Create(ctx, created))
	defer repo.DeleteByCode(ctx, code)

	update := &domain.Product{
		Code:        code,
		Description: "After",
		ImageRef:    "https://img.example/after.png",
		Price:       decimal.RequireFromString("3.25"),
	}
	require.NoError(t, repo.Update(ctx, update))
	assert.Equal(t, created.ID, update.ID)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, code, stored.Code)
	assert.Equal(t, "After", stored.Description)
	assert.Equal(t, "https://img.example/after.png", stored.ImageRef)
	assert.Equal(t, "3.25", stored.Price.StringFixed(2))
}

func TestUpdateMissingCode(t *testing.T) {
	repo := NewProductRepository(testDB)

	err := repo.Update(context.Background(), &domain.Product{Code: uniqueCode("NOPE"), Description: "x"})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteByCode(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	code := uniqueCode("DEL")
	require.NoError(t, repo.Create(ctx, &domain.Product{Code: code, Description: "Gone", Price: decimal.Zero}))

	require.NoError(t, repo.DeleteByCode(ctx, code))

	_, err := repo.FindByCode(ctx, code)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, repo.DeleteByCode(ctx, code), ErrProductNotFound)
}

func TestListIsOrderedByID(t *testing.T) {
	repo := NewProductRepository(testDB)

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	for i := 1; i < len(products); i++ {
		assert.Less(t, products[i-1].ID, products[i].ID)
	}
}

func TestSeededCatalog(t *testing.T) {
	repo := NewProductRepository(testDB)

	vasos, err := repo.FindByCode(context.Background(), "VAS001")
	require.NoError(t, err)
	assert.Equal(t, "Vasos desechables de 200ml", vasos.Description)
	assert.Equal(t, "0.50", vasos.Price.StringFixed(2))
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(context.Background(), -1)

	assert.ErrorIs(t, err, ErrProductNotFound)
}
