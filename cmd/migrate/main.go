// Package main applies the planner schema and optionally seeds demo data.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/infrastructure/persistence/migrations"
	"github.com/larderly/planner/internal/infrastructure/persistence/postgres"
	"github.com/larderly/planner/internal/infrastructure/persistence/sqlite"
	"github.com/larderly/planner/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	configFile := flag.String("config", "", "Configuration file path")
	direction := flag.String("direction", "up", "Migration direction for PostgreSQL (up, down, reset, version)")
	force := flag.Int("force", -1, "Force the migration version and exit")
	seed := flag.Bool("seed", false, "Seed demo users, foods, pantry items and recipes")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      "console",
		Development: cfg.App.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	var db *gorm.DB
	switch cfg.Database.Driver {
	case "postgres":
		if err := migratePostgres(cfg.Database, *direction, *force, zl); err != nil {
			zl.Fatal("Migration failed", zap.Error(err))
		}
		if !*seed {
			return
		}
		db, err = postgres.Open(cfg.Database, zl)
	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path, gormLogger.Warn)
		zl.Info("SQLite schema migrated", zap.String("path", cfg.Database.Path))
	}
	if err != nil {
		zl.Fatal("Failed to open database", zap.Error(err))
	}

	if *seed {
		s, err := sqlite.SeedDatabase(db)
		if err != nil {
			zl.Fatal("Failed to seed database", zap.Error(err))
		}
		if s == nil {
			zl.Info("Database already has users, skipping seed")
			return
		}
		zl.Info("Seeded demo data",
			zap.String("chef_id", s.ChefID.String()),
			zap.String("home_cook_id", s.HomeCookID.String()),
		)
	}
}

func migratePostgres(cfg config.DatabaseConfig, direction string, force int, zl *zap.Logger) error {
	db, err := migrations.OpenDB(cfg.URL())
	if err != nil {
		return err
	}

	m, err := migrations.New(db, cfg.Database, zl)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	if force >= 0 {
		return m.Force(force)
	}

	switch direction {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "reset":
		return m.Reset()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
}
