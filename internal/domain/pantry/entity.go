// Package pantry models foods, their categories and the items a user keeps
// in stock.
package pantry

import (
	"strings"

	"github.com/google/uuid"
)

// Category groups foods for display and shopping-list ordering.
type Category struct {
	ID   uuid.UUID
	Name string
}

// Food is a shared reference entity. Its identity never changes once
// created; name and category are used for matching and display.
type Food struct {
	ID         uuid.UUID
	Name       string
	CategoryID *uuid.UUID
	Category   *Category
}

// NewFood creates a food with a fresh identity.
func NewFood(name string, categoryID *uuid.UUID) (*Food, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFoodNameRequired
	}
	return &Food{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
	}, nil
}

// CategoryName returns the category name or "" when uncategorized.
func (f Food) CategoryName() string {
	if f.Category == nil {
		return ""
	}
	return f.Category.Name
}

// Item is a stocked food belonging to exactly one user.
type Item struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	FoodID   uuid.UUID
	Food     Food
	Quantity float64
	Unit     *string
}

// NewItem creates a pantry item for an already resolved food.
func NewItem(userID uuid.UUID, food Food, quantity float64, unit *string) (*Item, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	return &Item{
		ID:       uuid.New(),
		UserID:   userID,
		FoodID:   food.ID,
		Food:     food,
		Quantity: quantity,
		Unit:     unit,
	}, nil
}

// Snapshot is a point-in-time read of a user's pantry.
type Snapshot []Item

// Clone returns an independent copy that can be depleted freely.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// HasFoodNamed reports whether any item's food name equals name ignoring case.
func (s Snapshot) HasFoodNamed(name string) bool {
	for _, item := range s {
		if strings.EqualFold(item.Food.Name, name) {
			return true
		}
	}
	return false
}

// StockedFoodIDs returns the set of food ids present in the snapshot.
func (s Snapshot) StockedFoodIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(s))
	for _, item := range s {
		ids[item.FoodID] = struct{}{}
	}
	return ids
}

// RemoveFirstByFoodID removes at most one item referencing foodID and
// reports whether one was removed.
func (s *Snapshot) RemoveFirstByFoodID(foodID uuid.UUID) bool {
	items := *s
	for i, item := range items {
		if item.FoodID == foodID {
			*s = append(items[:i:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// ItemsForFoods returns the items whose food id is in foodIDs, in snapshot order.
func (s Snapshot) ItemsForFoods(foodIDs []uuid.UUID) []Item {
	wanted := make(map[uuid.UUID]struct{}, len(foodIDs))
	for _, id := range foodIDs {
		wanted[id] = struct{}{}
	}

	var out []Item
	for _, item := range s {
		if _, ok := wanted[item.FoodID]; ok {
			out = append(out, item)
		}
	}
	return out
}

// FoodNames returns the distinct food names in snapshot order.
func (s Snapshot) FoodNames() []string {
	seen := make(map[string]struct{}, len(s))
	names := make([]string, 0, len(s))
	for _, item := range s {
		key := strings.ToLower(item.Food.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, item.Food.Name)
	}
	return names
}
