package inbound

import (
	"context"

	"github.com/google/uuid"
)

// PantryService manages pantry items
type PantryService interface {
	AddItem(ctx context.Context, cmd AddPantryItemCommand) (*PantryItemDTO, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]PantryItemDTO, error)
}

// RecipeService manages the recipe catalog entries the planner draws from
type RecipeService interface {
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	ReplaceIngredients(ctx context.Context, cmd ReplaceIngredientsCommand) (*RecipeDTO, error)
}

// FoodInput references a food either by id or by name for creation.
// Exactly one of FoodID and NewFoodName must be set.
type FoodInput struct {
	FoodID      *uuid.UUID
	NewFoodName string
	CategoryID  *uuid.UUID
}

// AddPantryItemCommand adds a stocked food
type AddPantryItemCommand struct {
	UserID   uuid.UUID `validate:"required"`
	Food     FoodInput
	Quantity float64 `validate:"gte=0"`
	Unit     *string
}

// CreateRecipeCommand creates a recipe with its ingredient set
type CreateRecipeCommand struct {
	OwnerID      uuid.UUID `validate:"required"`
	Title        string    `validate:"required,max=200"`
	Instructions string
	Source       *string
	Ingredients  []IngredientInput `validate:"dive"`
}

// ReplaceIngredientsCommand swaps a recipe's whole ingredient set
type ReplaceIngredientsCommand struct {
	RecipeID    uuid.UUID         `validate:"required"`
	UserID      uuid.UUID         `validate:"required"`
	Ingredients []IngredientInput `validate:"dive"`
}

// IngredientInput is one ingredient of a recipe command
type IngredientInput struct {
	Food     FoodInput
	Quantity float64 `validate:"gte=0"`
	Unit     *string
}

// PantryItemDTO is a stocked food
type PantryItemDTO struct {
	ID       uuid.UUID
	FoodID   uuid.UUID
	FoodName string
	Quantity float64
	Unit     *string
}

// RecipeDTO is a catalog recipe
type RecipeDTO struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Instructions string
	Source       *string
	Ingredients  []IngredientDTO
}

// IngredientDTO is one recipe ingredient
type IngredientDTO struct {
	FoodID   uuid.UUID
	FoodName string
	Quantity float64
	Unit     *string
}
