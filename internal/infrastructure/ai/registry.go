package ai

import (
	"context"
	"fmt"

	"github.com/larderly/planner/internal/infrastructure/ai/gemini"
	"github.com/larderly/planner/internal/infrastructure/ai/ollama"
	"github.com/larderly/planner/internal/infrastructure/ai/openai"
	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/circuitbreaker"
	"go.uber.org/zap"
)

// Registry owns the configured providers in invocation order
type Registry struct {
	providers []outbound.RecipeProvider
	guards    []*GuardedProvider
	closers   []func() error
}

// NewRegistry builds every configured provider and wraps it as
// cache -> circuit breaker -> rate limiter -> client. Caching is skipped
// when cache is nil or the provider has no cache_ttl.
func NewRegistry(ctx context.Context, cfgs []config.ProviderConfig, cache outbound.CacheRepository, logger *zap.Logger) (*Registry, error) {
	r := &Registry{}

	for _, cfg := range cfgs {
		base, err := r.newClient(ctx, cfg, logger)
		if err != nil {
			_ = r.Close()
			return nil, err
		}

		var provider outbound.RecipeProvider = base
		if cfg.RequestsPerMinute > 0 {
			provider = NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
		}

		breakerCfg := circuitbreaker.DefaultConfig()
		breakerCfg.FailureThreshold = cfg.FailureThreshold
		guarded := NewGuardedProvider(provider, breakerCfg, logger)
		r.guards = append(r.guards, guarded)
		provider = guarded

		if cache != nil && cfg.CacheTTL > 0 {
			provider = NewCachingProvider(provider, cache, cfg.CacheTTL, logger)
		}

		r.providers = append(r.providers, provider)
		logger.Info("External recipe provider registered",
			zap.String("name", cfg.Name),
			zap.String("kind", cfg.Kind),
			zap.Int("requests_per_minute", cfg.RequestsPerMinute),
			zap.Duration("cache_ttl", cfg.CacheTTL),
		)
	}

	return r, nil
}

func (r *Registry) newClient(ctx context.Context, cfg config.ProviderConfig, logger *zap.Logger) (outbound.RecipeProvider, error) {
	switch cfg.Kind {
	case config.ProviderOllama:
		return ollama.New(cfg, logger), nil
	case config.ProviderOpenAI:
		return openai.New(cfg, logger)
	case config.ProviderGemini:
		p, err := gemini.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, p.Close)
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported provider kind %q", cfg.Kind)
	}
}

// Providers returns the decorated providers in configuration order
func (r *Registry) Providers() []outbound.RecipeProvider {
	return r.providers
}

// BreakerStates reports each provider's circuit breaker state by name
func (r *Registry) BreakerStates() map[string]circuitbreaker.State {
	states := make(map[string]circuitbreaker.State, len(r.guards))
	for _, g := range r.guards {
		states[g.Name()] = g.State()
	}
	return states
}

// Close releases provider clients that hold connections
func (r *Registry) Close() error {
	var firstErr error
	for _, closeFn := range r.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}
