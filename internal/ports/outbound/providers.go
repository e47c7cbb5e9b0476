package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
)

// ErrProviderUnavailable marks a provider failure as a transient
// unavailability of the upstream service.
var ErrProviderUnavailable = errors.New("recipe provider unavailable")

// RecipeProvider generates meals from outside the user's catalog.
type RecipeProvider interface {
	Name() string
	// GenerateEntries returns at most count entries. Returning fewer,
	// including none, is not an error.
	GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error)
}

// PlanningMetrics records planner activity
type PlanningMetrics interface {
	RecordGeneration(source string, requested, returned int, duration time.Duration)
	RecordProviderCall(provider string, returned int, err error, duration time.Duration)
	RecordReconciliation(added, updated, deleted int)
	RecordShoppingList(mode string, items int)
}
