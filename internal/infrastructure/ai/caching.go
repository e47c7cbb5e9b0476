package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// CachingProvider remembers provider answers for identical requests. A
// request is identified by the count and the set of pantry food names.
type CachingProvider struct {
	next   outbound.RecipeProvider
	cache  outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingProvider wraps next with a response cache
func NewCachingProvider(next outbound.RecipeProvider, cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachingProvider {
	return &CachingProvider{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("provider-cache"),
	}
}

// Name returns the wrapped provider's name
func (c *CachingProvider) Name() string { return c.next.Name() }

// GenerateEntries serves from cache when possible. Cache failures fall
// through to the provider; empty answers are not cached.
func (c *CachingProvider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	key := c.key(count, snapshot)

	if data, err := c.cache.Get(ctx, key); err == nil {
		var recipes []mealplan.ExternalRecipe
		if err := json.Unmarshal(data, &recipes); err == nil {
			c.logger.Debug("Provider cache hit", zap.String("provider", c.Name()), zap.Int("count", count))
			return recipes, nil
		}
		_ = c.cache.Delete(ctx, key)
	} else if !errors.Is(err, outbound.ErrCacheMiss) {
		c.logger.Warn("Provider cache read failed", zap.String("provider", c.Name()), zap.Error(err))
	}

	recipes, err := c.next.GenerateEntries(ctx, count, snapshot)
	if err != nil || len(recipes) == 0 {
		return recipes, err
	}

	if data, err := json.Marshal(recipes); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("Provider cache write failed", zap.String("provider", c.Name()), zap.Error(err))
		}
	}

	return recipes, nil
}

func (c *CachingProvider) key(count int, snapshot pantry.Snapshot) string {
	names := snapshot.FoodNames()
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}
	sort.Strings(names)

	sum := sha256.Sum256([]byte(strings.Join(names, "\x00")))
	return fmt.Sprintf("provider:%s:%d:%s", c.Name(), count, hex.EncodeToString(sum[:]))
}
