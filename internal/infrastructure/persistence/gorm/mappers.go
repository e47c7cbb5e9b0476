package gorm

import (
	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/domain/shopping"
)

// ModelToFood converts a GORM food model to a domain food
func ModelToFood(m FoodModel) pantry.Food {
	food := pantry.Food{
		ID:         m.ID,
		Name:       m.Name,
		CategoryID: m.CategoryID,
	}
	if m.Category != nil {
		food.Category = &pantry.Category{ID: m.Category.ID, Name: m.Category.Name}
	}
	return food
}

// FoodToModel converts a domain food to a GORM model
func FoodToModel(f *pantry.Food) *FoodModel {
	return &FoodModel{
		ID:         f.ID,
		Name:       f.Name,
		CategoryID: f.CategoryID,
	}
}

// ModelToPantryItem converts a GORM pantry item to a domain item
func ModelToPantryItem(m PantryItemModel) pantry.Item {
	return pantry.Item{
		ID:       m.ID,
		UserID:   m.UserID,
		FoodID:   m.FoodID,
		Food:     ModelToFood(m.Food),
		Quantity: m.Quantity,
		Unit:     m.Unit,
	}
}

// PantryItemToModel converts a domain pantry item to a GORM model
func PantryItemToModel(item *pantry.Item) *PantryItemModel {
	return &PantryItemModel{
		ID:       item.ID,
		UserID:   item.UserID,
		FoodID:   item.FoodID,
		Quantity: item.Quantity,
		Unit:     item.Unit,
	}
}

// ModelToRecipe converts a GORM recipe with preloaded ingredients
func ModelToRecipe(m RecipeModel) recipe.Recipe {
	r := recipe.Recipe{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Title:        m.Title,
		Instructions: m.Instructions,
		Source:       m.Source,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Ingredients:  make([]recipe.Ingredient, 0, len(m.Ingredients)),
	}
	for _, ing := range m.Ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{
			ID:       ing.ID,
			FoodID:   ing.FoodID,
			Food:     ModelToFood(ing.Food),
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return r
}

// RecipeToModel converts a domain recipe and its ingredients to GORM models
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	m := &RecipeModel{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Title:        r.Title,
		Instructions: r.Instructions,
		Source:       r.Source,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	m.Ingredients = IngredientsToModels(r.ID, r.Ingredients)
	return m
}

// IngredientsToModels converts ingredients keeping their order
func IngredientsToModels(recipeID uuid.UUID, ingredients []recipe.Ingredient) []RecipeIngredientModel {
	out := make([]RecipeIngredientModel, 0, len(ingredients))
	for i, ing := range ingredients {
		out = append(out, RecipeIngredientModel{
			ID:       ing.ID,
			RecipeID: recipeID,
			FoodID:   ing.FoodID,
			Position: i,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return out
}

// ModelToMealPlan rebuilds the aggregate. Entry recipes are mapped when
// they were preloaded.
func ModelToMealPlan(m MealPlanModel) *mealplan.MealPlan {
	entries := make([]mealplan.Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entry := mealplan.Entry{
			ID:       e.ID,
			Notes:    e.Notes,
			RecipeID: e.RecipeID,
			Cooked:   e.Cooked,
		}
		if e.Recipe != nil {
			r := ModelToRecipe(*e.Recipe)
			entry.Recipe = &r
		}
		entries = append(entries, entry)
	}
	return mealplan.Restore(m.ID, m.UserID, m.StartDate, entries, m.CreatedAt, m.UpdatedAt)
}

// MealPlanToModel converts the aggregate without loaded recipes
func MealPlanToModel(p *mealplan.MealPlan) *MealPlanModel {
	m := &MealPlanModel{
		ID:        p.ID(),
		UserID:    p.UserID(),
		StartDate: p.StartDate(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
	for i, e := range p.Entries() {
		m.Entries = append(m.Entries, MealPlanEntryModel{
			ID:         e.ID,
			MealPlanID: p.ID(),
			RecipeID:   e.RecipeID,
			Position:   i,
			Notes:      e.Notes,
			Cooked:     e.Cooked,
		})
	}
	return m
}

// ModelToShoppingItem converts a GORM shopping list item
func ModelToShoppingItem(m ShoppingListItemModel) shopping.Item {
	item := shopping.Item{
		ID:        m.ID,
		UserID:    m.UserID,
		FoodID:    m.FoodID,
		Purchased: m.Purchased,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
	if m.Food != nil {
		food := ModelToFood(*m.Food)
		item.Food = &food
	}
	return item
}

// ShoppingItemToModel converts a domain shopping list item
func ShoppingItemToModel(item shopping.Item) ShoppingListItemModel {
	return ShoppingListItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		FoodID:    item.FoodID,
		Purchased: item.Purchased,
		Notes:     item.Notes,
		CreatedAt: item.CreatedAt,
	}
}
