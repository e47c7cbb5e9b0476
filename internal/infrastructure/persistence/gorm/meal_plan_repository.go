package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

func orderedEntries(db *gorm.DB) *gorm.DB {
	return db.Order("meal_plan_entries.position ASC")
}

// Create inserts the plan and its entries
func (r *MealPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	model := MealPlanToModel(plan)
	db := conn(ctx, r.db)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	if len(model.Entries) > 0 {
		if err := db.Omit(clause.Associations).Create(&model.Entries).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a plan with its entries in order
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	return r.find(conn(ctx, r.db).Preload("Entries", orderedEntries), id)
}

// FindWithRecipes retrieves a plan with entry recipes, ingredients and foods
func (r *MealPlanRepository) FindWithRecipes(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	db := conn(ctx, r.db).
		Preload("Entries", orderedEntries).
		Preload("Entries.Recipe").
		Preload("Entries.Recipe.Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position ASC")
		}).
		Preload("Entries.Recipe.Ingredients.Food.Category")
	return r.find(db, id)
}

func (r *MealPlanRepository) find(db *gorm.DB, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ModelToMealPlan(model), nil
}

// Save updates the plan row, removes entries that are no longer part of the
// plan and upserts the rest with their current positions.
func (r *MealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	model := MealPlanToModel(plan)
	db := conn(ctx, r.db)

	if err := db.Model(&MealPlanModel{}).Where("id = ?", model.ID).Updates(map[string]interface{}{
		"start_date": model.StartDate,
		"updated_at": model.UpdatedAt,
	}).Error; err != nil {
		return err
	}

	keep := make([]uuid.UUID, 0, len(model.Entries))
	for _, e := range model.Entries {
		keep = append(keep, e.ID)
	}

	stale := db.Where("meal_plan_id = ?", model.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&MealPlanEntryModel{}).Error; err != nil {
		return err
	}

	if len(model.Entries) == 0 {
		return nil
	}
	return db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"recipe_id", "position", "notes", "cooked"}),
		}).
		Create(&model.Entries).Error
}

// Delete removes the plan and its entries. It reports whether a plan row existed.
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db := conn(ctx, r.db)

	if err := db.Where("meal_plan_id = ?", id).Delete(&MealPlanEntryModel{}).Error; err != nil {
		return false, err
	}

	result := db.Where("id = ?", id).Delete(&MealPlanModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
