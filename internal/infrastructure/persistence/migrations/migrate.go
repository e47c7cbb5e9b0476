// Package migrations provides database migration functionality
// using golang-migrate for schema versioning
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator handles database migrations
type Migrator struct {
	db      *sql.DB
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// OpenDB opens a database/sql handle through the pgx driver
func OpenDB(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// New creates a new migrator instance
func New(db *sql.DB, databaseName string, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    databaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		db:      db,
		migrate: m,
		logger:  logger,
	}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	start := time.Now()
	m.logger.Info("Running database migrations")

	currentVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to run",
				zap.Uint("current_version", currentVersion),
			)
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := m.Version()

	m.logger.Info("Migrations completed successfully",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Down rolls back one migration
func (m *Migrator) Down() error {
	m.logger.Info("Rolling back one migration")

	if err := m.migrate.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	m.logger.Info("Migration rolled back successfully")
	return nil
}

// Reset rolls back all migrations
func (m *Migrator) Reset() error {
	m.logger.Warn("Resetting all migrations")

	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}

	m.logger.Info("All migrations reset successfully")
	return nil
}

// Version returns the current migration version
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Force sets a specific migration version
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version",
		zap.Int("version", version),
	)

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version: %w", err)
	}

	return nil
}

// Close closes the migrator
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()

	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}

	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}

	return nil
}

// UpTo opens url, applies every pending migration and closes the connection
func UpTo(url, databaseName string, logger *zap.Logger) error {
	db, err := OpenDB(url)
	if err != nil {
		return err
	}

	m, err := New(db, databaseName, logger)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	return m.Up()
}
