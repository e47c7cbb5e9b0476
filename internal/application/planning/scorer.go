package planning

import (
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/domain/recipe"
)

// pointsPerStockedIngredient is awarded for every ingredient whose food
// name is present in the pantry.
const pointsPerStockedIngredient = 2

// Score rates how much of r the pantry already covers. Ingredients match
// pantry items by food name, ignoring case. Quantities are not considered.
func Score(r recipe.Recipe, snapshot pantry.Snapshot) int {
	score := 0
	for _, ing := range r.Ingredients {
		if snapshot.HasFoodNamed(ing.Food.Name) {
			score += pointsPerStockedIngredient
		}
	}
	return score
}
