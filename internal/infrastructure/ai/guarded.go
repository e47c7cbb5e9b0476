// Package ai assembles external recipe providers and the decorators that
// protect, throttle and cache them.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/circuitbreaker"
	"go.uber.org/zap"
)

// GuardedProvider stops calling a failing provider until its breaker
// lets a probe through again.
type GuardedProvider struct {
	next    outbound.RecipeProvider
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedProvider wraps next with a circuit breaker
func NewGuardedProvider(next outbound.RecipeProvider, cfg circuitbreaker.Config, logger *zap.Logger) *GuardedProvider {
	log := logger.Named("provider-breaker")
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn("Provider circuit state changed",
			zap.String("provider", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	return &GuardedProvider{
		next:    next,
		breaker: circuitbreaker.New(next.Name(), cfg),
	}
}

// Name returns the wrapped provider's name
func (g *GuardedProvider) Name() string { return g.next.Name() }

// State exposes the breaker state
func (g *GuardedProvider) State() circuitbreaker.State { return g.breaker.State() }

// GenerateEntries calls through the breaker. Cancellation by the caller
// is not held against the provider.
func (g *GuardedProvider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	var (
		recipes []mealplan.ExternalRecipe
		callErr error
	)

	err := g.breaker.Execute(func() error {
		recipes, callErr = g.next.GenerateEntries(ctx, count, snapshot)
		if callErr != nil && ctx.Err() != nil {
			return nil
		}
		return callErr
	})

	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, fmt.Errorf("%w: %s: %v", outbound.ErrProviderUnavailable, g.next.Name(), err)
	}
	if callErr != nil {
		return nil, callErr
	}
	return recipes, err
}
