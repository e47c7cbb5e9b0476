package planning

import (
	"context"
	"time"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.uber.org/zap"
)

// Orchestrator asks external providers, in order, for the meals the
// catalog could not supply.
type Orchestrator struct {
	providers []outbound.RecipeProvider
	metrics   outbound.PlanningMetrics
	logger    *zap.Logger
}

// NewOrchestrator creates an orchestrator over an ordered provider list
func NewOrchestrator(providers []outbound.RecipeProvider, metrics outbound.PlanningMetrics, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		providers: providers,
		metrics:   metrics,
		logger:    logger.Named("external-orchestrator"),
	}
}

// Providers returns the provider names in invocation order
func (o *Orchestrator) Providers() []string {
	names := make([]string, 0, len(o.providers))
	for _, p := range o.providers {
		names = append(names, p.Name())
	}
	return names
}

// FillRemaining collects up to remaining external entries. A provider
// returning nothing yields to the next one. Any provider failure aborts
// the whole fill with EXTERNAL_UNAVAILABLE; context cancellation is
// returned unchanged.
func (o *Orchestrator) FillRemaining(ctx context.Context, remaining int, snapshot pantry.Snapshot) ([]mealplan.DraftEntry, error) {
	var entries []mealplan.DraftEntry

	for _, provider := range o.providers {
		for remaining > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			start := time.Now()
			generated, err := provider.GenerateEntries(ctx, remaining, snapshot)
			if o.metrics != nil {
				o.metrics.RecordProviderCall(provider.Name(), len(generated), err, time.Since(start))
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				o.logger.Warn("External provider failed",
					zap.String("provider", provider.Name()),
					zap.Int("remaining", remaining),
					zap.Error(err),
				)
				return nil, errors.NewExternalUnavailableError(provider.Name(), err)
			}

			if len(generated) == 0 {
				break
			}
			if len(generated) > remaining {
				generated = generated[:remaining]
			}

			for i := range generated {
				ext := generated[i]
				if ext.Provider == "" {
					ext.Provider = provider.Name()
				}
				entries = append(entries, mealplan.DraftEntry{External: &ext})
			}
			remaining -= len(generated)
		}

		if remaining == 0 {
			break
		}
	}

	return entries, nil
}
