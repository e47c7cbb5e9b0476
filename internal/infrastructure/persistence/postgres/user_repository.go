package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// UserRepository answers user existence checks straight from the pool
type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) outbound.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Exists checks if a user exists by ID
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id.String()).Scan(&exists); err != nil {
		r.logger.Error("Failed to check user existence",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return false, err
	}

	return exists, nil
}
