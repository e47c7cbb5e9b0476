package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.uber.org/zap"
)

// Selector picks catalog recipes by pantry coverage.
type Selector struct {
	users   outbound.UserRepository
	recipes outbound.RecipeReader
	pantry  outbound.PantryReader
	logger  *zap.Logger
}

// NewSelector creates a greedy selector over the given readers
func NewSelector(
	users outbound.UserRepository,
	recipes outbound.RecipeReader,
	pantryReader outbound.PantryReader,
	logger *zap.Logger,
) *Selector {
	return &Selector{
		users:   users,
		recipes: recipes,
		pantry:  pantryReader,
		logger:  logger.Named("meal-selector"),
	}
}

// SelectManually returns up to count recipes from the user's catalog.
// It fails with USER_NOT_FOUND when the user does not exist.
func (s *Selector) SelectManually(ctx context.Context, count int, userID uuid.UUID) ([]recipe.Recipe, error) {
	if count <= 0 {
		return nil, errors.NewBadRequestError("requested count must be positive")
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("check user existence", err)
	}
	if !exists {
		return nil, errors.NewUserNotFoundError(userID.String())
	}

	snapshot, err := s.pantry.GetPantryItems(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}
	catalog, err := s.recipes.GetRecipes(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipes", err)
	}

	selected := Select(catalog, snapshot, count)

	s.logger.Debug("Selected recipes from catalog",
		zap.String("user_id", userID.String()),
		zap.Int("catalog_size", len(catalog)),
		zap.Int("pantry_size", len(snapshot)),
		zap.Int("requested", count),
		zap.Int("selected", len(selected)),
	)
	return selected, nil
}

// Select runs the greedy rounds against a private copy of snapshot.
//
// Each round scores the remaining pool, drops every recipe scoring zero
// for good, picks the best (earliest catalog position on ties), and
// removes one pantry item per ingredient of the pick, matched by food id.
func Select(catalog []recipe.Recipe, snapshot pantry.Snapshot, count int) []recipe.Recipe {
	working := snapshot.Clone()

	pool := make([]int, len(catalog))
	for i := range catalog {
		pool[i] = i
	}

	var selected []recipe.Recipe
	for round := 0; round < count; round++ {
		bestPos, bestScore := -1, 0

		kept := pool[:0]
		for _, idx := range pool {
			score := Score(catalog[idx], working)
			if score <= 0 {
				continue
			}
			if score > bestScore {
				bestPos, bestScore = len(kept), score
			}
			kept = append(kept, idx)
		}
		pool = kept

		if len(pool) == 0 {
			break
		}

		pick := catalog[pool[bestPos]]
		pool = append(pool[:bestPos], pool[bestPos+1:]...)

		for _, ing := range pick.Ingredients {
			working.RemoveFirstByFoodID(ing.FoodID)
		}
		selected = append(selected, pick)
	}

	return selected
}
