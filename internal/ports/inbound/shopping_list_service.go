package inbound

import (
	"context"

	"github.com/google/uuid"
)

// ShoppingListService derives and reads shopping lists
type ShoppingListService interface {
	GenerateShoppingList(ctx context.Context, cmd GenerateShoppingListCommand) error
	GetShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItemDTO, error)
}

// GenerateShoppingListCommand merges a plan's missing foods into the
// user's list. Restart discards the existing list first.
type GenerateShoppingListCommand struct {
	PlanID  uuid.UUID
	UserID  uuid.UUID
	Restart bool
}

// ShoppingListItemDTO is one line of a shopping list
type ShoppingListItemDTO struct {
	ID           uuid.UUID
	FoodID       *uuid.UUID
	FoodName     string
	CategoryName string
	Purchased    bool
	Notes        *string
}
