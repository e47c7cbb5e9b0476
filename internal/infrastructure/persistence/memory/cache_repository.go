// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/larderly/planner/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCacheRepository creates a new in-memory cache repository and starts
// a sweeper that evicts expired entries every cleanupInterval.
func NewCacheRepository(cleanupInterval time.Duration) *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go repo.cleanup(cleanupInterval)
	}

	return repo
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || r.now().After(item.ExpiresAt) {
		return nil, outbound.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a value in cache with TTL. A zero TTL keeps the value for a day.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = CacheItem{
		Value:     stored,
		ExpiresAt: r.now().Add(ttl),
	}

	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[key]
	return exists && !r.now().After(item.ExpiresAt), nil
}

// Len returns the number of stored keys, expired ones included
func (r *CacheRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.data)
}

// Close stops the sweeper
func (r *CacheRepository) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *CacheRepository) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictExpired()
		case <-r.stop:
			return
		}
	}
}

func (r *CacheRepository) evictExpired() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	for key, item := range r.data {
		if now.After(item.ExpiresAt) {
			delete(r.data, key)
		}
	}
}
