// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larderly/planner/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects GORM to the primary database and registers any configured
// read replicas with dbresolver. Reads outside a transaction go to the
// replicas; writes and transactional reads stay on the primary.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN(cfg.Host)), &gorm.Config{
		Logger:                 newGORMLogger(cfg.LogLevel, log),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, len(cfg.Replicas))
		for i, host := range cfg.Replicas {
			replicas[i] = postgres.Open(cfg.DSN(host))
		}

		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.StrictRoundRobinPolicy(),
		}).
			SetMaxOpenConns(cfg.MaxOpenConns).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetConnMaxLifetime(cfg.ConnMaxLifetime))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}

		log.Info("Read replicas configured", zap.Int("replica_count", len(cfg.Replicas)))
	}

	log.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return db, nil
}

// NewPool opens a pgx pool for the hand-written read paths
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}
	return pool, nil
}

func newGORMLogger(level string, log *zap.Logger) logger.Interface {
	logLevel := logger.Silent
	switch level {
	case "debug", "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	}

	return logger.New(
		&gormLogWriter{logger: log},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// gormLogWriter routes GORM output through zap
type gormLogWriter struct {
	logger *zap.Logger
}

// Printf implements logger.Writer
func (w *gormLogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	case strings.Contains(msg, "Error"), strings.Contains(msg, "ERROR"):
		w.logger.Error("GORM error", zap.String("message", msg))
	default:
		w.logger.Debug("GORM log", zap.String("message", msg))
	}
}
