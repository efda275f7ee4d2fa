package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultMigrationsPath is relative to the working directory of the binaries.
const DefaultMigrationsPath = "file://migrations"

// RunMigrations applies every pending "up" migration found at migrationsPath.
func RunMigrations(databaseURL, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(databaseURL, migrationsPath, logger, func(m *migrate.Migrate) error {
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No new migrations to apply.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("Database migrations applied successfully.")
		return nil
	})
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(databaseURL, migrationsPath string, steps int, logger *slog.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	return withMigrator(databaseURL, migrationsPath, logger, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		logger.Info("Database migrations rolled back.", slog.Int("steps", steps))
		return nil
	})
}

// MigrationVersion reports the applied schema version and whether it is dirty.
func MigrationVersion(databaseURL, migrationsPath string, logger *slog.Logger) (uint, bool, error) {
	var version uint
	var dirty bool
	err := withMigrator(databaseURL, migrationsPath, logger, func(m *migrate.Migrate) error {
		v, d, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		version, dirty = v, d
		return err
	})
	return version, dirty, err
}

func withMigrator(databaseURL, migrationsPath string, logger *slog.Logger, fn func(*migrate.Migrate) error) error {
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	runErr := fn(m)

	// Check for dirty migrations after running.
	sourceErr, dbErr := m.Close()
	if runErr != nil {
		return runErr
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}
	return nil
}
