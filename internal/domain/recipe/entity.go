// Package recipe contains the recipe catalog model as seen by the planner.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/pantry"
)

// Recipe belongs to exactly one owner and carries an ordered ingredient list.
type Recipe struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Instructions string
	Source       *string
	Ingredients  []Ingredient
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ingredient is a food reference with an amount. Units are informational.
type Ingredient struct {
	ID       uuid.UUID
	FoodID   uuid.UUID
	Food     pantry.Food
	Quantity float64
	Unit     *string
}

// NewRecipe creates a recipe without ingredients.
func NewRecipe(ownerID uuid.UUID, title, instructions string, source *string) (*Recipe, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Recipe{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(title),
		Instructions: instructions,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewIngredient creates an ingredient for a resolved food.
func NewIngredient(food pantry.Food, quantity float64, unit *string) (Ingredient, error) {
	if quantity < 0 {
		return Ingredient{}, ErrInvalidQuantity
	}
	return Ingredient{
		ID:       uuid.New(),
		FoodID:   food.ID,
		Food:     food,
		Quantity: quantity,
		Unit:     unit,
	}, nil
}

// ReplaceIngredients swaps the whole ingredient set.
func (r *Recipe) ReplaceIngredients(ingredients []Ingredient) error {
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if _, dup := seen[ing.FoodID]; dup {
			return ErrDuplicateIngredient
		}
		seen[ing.FoodID] = struct{}{}
	}
	r.Ingredients = ingredients
	r.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy reports whether userID owns the recipe.
func (r Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.OwnerID == userID
}

// FoodIDs returns the distinct food ids of the ingredients in order.
func (r Recipe) FoodIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.Ingredients))
	ids := make([]uuid.UUID, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if _, ok := seen[ing.FoodID]; ok {
			continue
		}
		seen[ing.FoodID] = struct{}{}
		ids = append(ids, ing.FoodID)
	}
	return ids
}

// Foods returns the ingredient foods keyed by id.
func (r Recipe) Foods() map[uuid.UUID]pantry.Food {
	foods := make(map[uuid.UUID]pantry.Food, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		foods[ing.FoodID] = ing.Food
	}
	return foods
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return ErrTitleRequired
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}
