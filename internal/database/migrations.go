package database

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations executes all pending migrations found at the root of fsys.
func RunMigrations(db *sql.DB, fsys fs.FS, logger *zap.Logger) error {
	if err := prepareGoose(fsys); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...")

	if err := goose.Up(db, "."); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// GetMigrationStatus prints the current migration status through goose's logger.
func GetMigrationStatus(db *sql.DB, fsys fs.FS) error {
	if err := prepareGoose(fsys); err != nil {
		return err
	}

	return goose.Status(db, ".")
}

func prepareGoose(fsys fs.FS) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
