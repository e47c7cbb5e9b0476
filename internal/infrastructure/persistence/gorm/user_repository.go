package gorm

import (
	"context"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/ports/outbound"
	"gorm.io/gorm"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Exists checks if a user exists
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := conn(ctx, r.db).Model(&UserModel{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
