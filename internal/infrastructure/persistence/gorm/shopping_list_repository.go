package gorm

import (
	"context"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/shopping"
	"github.com/larderly/planner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShoppingListRepository implements the shopping list repository interface using GORM
type ShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *gorm.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// ListByUser returns the user's items with food and category preloaded
func (r *ShoppingListRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]shopping.Item, error) {
	var models []ShoppingListItemModel
	result := conn(ctx, r.db).
		Preload("Food.Category").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]shopping.Item, 0, len(models))
	for _, m := range models {
		items = append(items, ModelToShoppingItem(m))
	}
	return items, nil
}

// FoodIDsByUser returns the set of foods already on the user's list
func (r *ShoppingListRepository) FoodIDsByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	result := conn(ctx, r.db).
		Model(&ShoppingListItemModel{}).
		Where("user_id = ? AND food_id IS NOT NULL", userID).
		Pluck("food_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	present := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		present[id] = struct{}{}
	}
	return present, nil
}

// DeleteByUser removes every item on the user's list
func (r *ShoppingListRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("user_id = ?", userID).Delete(&ShoppingListItemModel{})
	return result.RowsAffected, result.Error
}

// CreateBatch inserts items in one statement per batch
func (r *ShoppingListRepository) CreateBatch(ctx context.Context, items []shopping.Item) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]ShoppingListItemModel, 0, len(items))
	for _, item := range items {
		models = append(models, ShoppingItemToModel(item))
	}
	return conn(ctx, r.db).Omit(clause.Associations).CreateInBatches(&models, 100).Error
}
