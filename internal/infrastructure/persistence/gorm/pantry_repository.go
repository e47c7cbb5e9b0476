package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"gorm.io/gorm"
)

// PantryRepository implements pantry reads and writes using GORM
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

// GetPantryItems returns the user's items with food and category, oldest first
func (r *PantryRepository) GetPantryItems(ctx context.Context, userID uuid.UUID) (pantry.Snapshot, error) {
	var models []PantryItemModel
	result := conn(ctx, r.db).
		Preload("Food.Category").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	snapshot := make(pantry.Snapshot, 0, len(models))
	for _, m := range models {
		snapshot = append(snapshot, ModelToPantryItem(m))
	}
	return snapshot, nil
}

// Create creates a new pantry item
func (r *PantryRepository) Create(ctx context.Context, item *pantry.Item) error {
	return conn(ctx, r.db).Omit("Food").Create(PantryItemToModel(item)).Error
}

// FoodRepository implements the food repository interface using GORM
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *gorm.DB) outbound.FoodRepository {
	return &FoodRepository{db: db}
}

// FindByID returns nil, nil when the food does not exist
func (r *FoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Food, error) {
	var model FoodModel
	result := conn(ctx, r.db).Preload("Category").First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	food := ModelToFood(model)
	return &food, nil
}

// Create creates a new food
func (r *FoodRepository) Create(ctx context.Context, food *pantry.Food) error {
	return conn(ctx, r.db).Omit("Category").Create(FoodToModel(food)).Error
}

// CategoryExists checks if a category exists
func (r *FoodRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := conn(ctx, r.db).Model(&CategoryModel{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
