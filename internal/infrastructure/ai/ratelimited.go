package ai

import (
	"context"
	"time"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"golang.org/x/time/rate"
)

// RateLimitedProvider spaces calls to a provider so that it never sees
// more than the configured requests per minute.
type RateLimitedProvider struct {
	next    outbound.RecipeProvider
	limiter *rate.Limiter
}

// NewRateLimitedProvider allows requestsPerMinute calls with a burst of one
func NewRateLimitedProvider(next outbound.RecipeProvider, requestsPerMinute int) *RateLimitedProvider {
	return &RateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Name returns the wrapped provider's name
func (p *RateLimitedProvider) Name() string { return p.next.Name() }

// GenerateEntries waits for a token, or for ctx to end, before calling through
func (p *RateLimitedProvider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return p.next.GenerateEntries(ctx, count, snapshot)
}
