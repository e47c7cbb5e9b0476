// Package redis provides a Redis-backed cache repository
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient creates a Redis client and verifies the connection
func NewClient(cfg *config.Config, logger *zap.Logger) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.RedisAddr()},
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.String("addr", cfg.RedisAddr()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

// CacheRepository implements the cache repository interface on Redis
type CacheRepository struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewCacheRepository creates a new Redis cache repository. Every key is
// namespaced with prefix.
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) outbound.CacheRepository {
	return &CacheRepository{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (r *CacheRepository) key(key string) string {
	return r.prefix + key
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrCacheMiss
		}
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		r.logger.Error("Cache exists check failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return n > 0, nil
}
