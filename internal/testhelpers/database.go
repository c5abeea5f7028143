package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver

	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// RunMigrations executes the schema migration on a test database
// connection. Integration tests that need a real PostgreSQL call this
// after connecting; unit tests use sqlmock and skip it.
func RunMigrations(ctx context.Context, db *sql.DB, log logger.Logger) error {
	_, filename, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(filename), "..", "..", "migrations")

	migrationFile := filepath.Join(migrationsPath, "001_init.sql")
	sqlBytes, err := os.ReadFile(migrationFile)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}

	if _, execErr := db.ExecContext(ctx, string(sqlBytes)); execErr != nil {
		return fmt.Errorf("execute migration: %w", execErr)
	}

	if log != nil {
		log.Info("Migrations applied",
			logger.String("migration_file", migrationFile),
		)
	}

	return nil
}
