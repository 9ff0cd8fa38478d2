package database

import (
	"context"
	"database/sql"
	"fmt"

	"descartables/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedAccount struct {
	username string
	password string
	role     domain.Role
}

var seedAccounts = []seedAccount{
	{"admin", "admin123", domain.RoleAdmin},
	{"user", "user123", domain.RoleUser},
}

var seedProducts = []domain.Product{
	{Code: "VAS001", Description: "Vasos desechables de 200ml", ImageRef: "https://via.placeholder.com/100x100/FF6B6B/FFFFFF?text=Vasos", Price: decimal.RequireFromString("0.50")},
	{Code: "PLA001", Description: "Platos desechables redondos", ImageRef: "https://via.placeholder.com/100x100/4ECDC4/FFFFFF?text=Platos", Price: decimal.RequireFromString("0.30")},
	{Code: "SERV001", Description: "Paquete de servilletas desechables", ImageRef: "https://via.placeholder.com/100x100/45B7D1/FFFFFF?text=Servilletas", Price: decimal.RequireFromString("0.20")},
	{Code: "CUB001", Description: "Cubiertos plásticos desechables (tenedor, cuchillo, cuchara)", ImageRef: "https://via.placeholder.com/100x100/96CEB4/FFFFFF?text=Cubiertos", Price: decimal.RequireFromString("0.25")},
	{Code: "BOL001", Description: "Bolsas desechables para basura", ImageRef: "https://via.placeholder.com/100x100/FECA57/FFFFFF?text=Bolsas", Price: decimal.RequireFromString("0.15")},
}

// Seed fills usuarios and productos with the initial rows, each table only
// when it is empty. Both tables are seeded in one transaction.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	accounts, err := countRows(ctx, tx, "usuarios")
	if err != nil {
		return err
	}
	if accounts == 0 {
		for _, a := range seedAccounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash seed password: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO usuarios (username, password_hash, rol) VALUES ($1, $2, $3)`,
				a.username, string(hash), string(a.role),
			); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", a.username, err)
			}
		}
		logger.Info("Seeded accounts", zap.Int("count", len(seedAccounts)))
	}

	products, err := countRows(ctx, tx, "productos")
	if err != nil {
		return err
	}
	if products == 0 {
		for _, p := range seedProducts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO productos (codigo, descripcion, foto, precio) VALUES ($1, $2, $3, $4)`,
				p.Code, p.Description, p.ImageRef, p.Price,
			); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Code, err)
			}
		}
		logger.Info("Seeded products", zap.Int("count", len(seedProducts)))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

func countRows(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	var n int
	// table is one of the fixed names above, never user input
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
