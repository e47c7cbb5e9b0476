// Package shopping models a user's shopping list and the rules for
// deriving it from a meal plan.
package shopping

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/domain/recipe"
)

// Item is a shopping-list line. Items without a food are free text.
type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FoodID    *uuid.UUID
	Food      *pantry.Food
	Purchased bool
	Notes     *string
	CreatedAt time.Time
}

// NewFoodItem creates an unpurchased item for food.
func NewFoodItem(userID uuid.UUID, food pantry.Food) Item {
	foodID := food.ID
	return Item{
		ID:        uuid.New(),
		UserID:    userID,
		FoodID:    &foodID,
		Food:      &food,
		CreatedAt: time.Now(),
	}
}

// NeededFoods accumulates foods missing from the pantry keyed by food id,
// keeping first-insertion order for deterministic output.
type NeededFoods struct {
	order []uuid.UUID
	foods map[uuid.UUID]pantry.Food
}

// NewNeededFoods creates an empty accumulator
func NewNeededFoods() *NeededFoods {
	return &NeededFoods{foods: make(map[uuid.UUID]pantry.Food)}
}

// AddMissing adds the foods of r that are not in stocked. A recipe whose
// foods are all stocked contributes nothing. It returns the number of
// foods the recipe was missing.
func (n *NeededFoods) AddMissing(r recipe.Recipe, stocked map[uuid.UUID]struct{}) int {
	required := r.FoodIDs()
	if len(required) == 0 {
		return 0
	}

	foods := r.Foods()
	missing := 0
	for _, id := range required {
		if _, ok := stocked[id]; ok {
			continue
		}
		missing++
		if _, seen := n.foods[id]; !seen {
			n.order = append(n.order, id)
		}
		n.foods[id] = foods[id]
	}
	return missing
}

// Len returns the number of distinct needed foods
func (n *NeededFoods) Len() int {
	return len(n.order)
}

// Foods returns the needed foods in insertion order.
func (n *NeededFoods) Foods() []pantry.Food {
	out := make([]pantry.Food, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.foods[id])
	}
	return out
}

// Without returns the needed foods whose id is not in present.
func (n *NeededFoods) Without(present map[uuid.UUID]struct{}) []pantry.Food {
	var out []pantry.Food
	for _, id := range n.order {
		if _, ok := present[id]; ok {
			continue
		}
		out = append(out, n.foods[id])
	}
	return out
}

// Sort orders items by category name then food name. Items without a
// food or category go last.
func Sort(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, hasI := categoryKey(items[i])
		cj, hasJ := categoryKey(items[j])
		if hasI != hasJ {
			return hasI
		}
		if ci != cj {
			return ci < cj
		}
		return foodKey(items[i]) < foodKey(items[j])
	})
}

func categoryKey(item Item) (string, bool) {
	if item.Food == nil || item.Food.Category == nil {
		return "", false
	}
	return strings.ToLower(item.Food.Category.Name), true
}

func foodKey(item Item) string {
	if item.Food == nil {
		return ""
	}
	return strings.ToLower(item.Food.Name)
}
