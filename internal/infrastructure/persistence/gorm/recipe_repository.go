package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

func withIngredients(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position ASC")
		}).
		Preload("Ingredients.Food.Category")
}

// GetRecipes returns the user's catalog ordered by creation time
func (r *RecipeRepository) GetRecipes(ctx context.Context, userID uuid.UUID) ([]recipe.Recipe, error) {
	var models []RecipeModel
	result := withIngredients(conn(ctx, r.db)).
		Where("owner_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]recipe.Recipe, 0, len(models))
	for _, m := range models {
		recipes = append(recipes, ModelToRecipe(m))
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe owned by userID
func (r *RecipeRepository) GetRecipe(ctx context.Context, id, userID uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	result := withIngredients(conn(ctx, r.db)).
		Where("id = ? AND owner_id = ?", id, userID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	rec := ModelToRecipe(model)
	return &rec, nil
}

// Create creates a recipe together with its ingredients
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	db := conn(ctx, r.db)

	if err := db.Omit("Ingredients").Create(model).Error; err != nil {
		return err
	}
	if len(model.Ingredients) > 0 {
		if err := db.Omit("Food").Create(&model.Ingredients).Error; err != nil {
			return err
		}
	}

	rec.CreatedAt = model.CreatedAt
	rec.UpdatedAt = model.UpdatedAt
	return nil
}

// ReplaceIngredients removes every ingredient of the recipe and inserts the new list
func (r *RecipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []recipe.Ingredient) error {
	db := conn(ctx, r.db)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&RecipeIngredientModel{}).Error; err != nil {
		return err
	}

	models := IngredientsToModels(recipeID, ingredients)
	if len(models) > 0 {
		if err := db.Omit("Food").Create(&models).Error; err != nil {
			return err
		}
	}

	return db.Model(&RecipeModel{}).Where("id = ?", recipeID).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
