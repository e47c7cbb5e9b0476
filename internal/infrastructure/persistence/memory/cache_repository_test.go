package memory

import (
	"context"
	"testing"
	"time"

	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("SetThenGet_ShouldReturnCopy", func(t *testing.T) {
		// Arrange
		cache := NewCacheRepository(0)
		value := []byte("risotto")

		// Act
		require.NoError(t, cache.Set(ctx, "k", value, time.Minute))
		value[0] = 'R'
		got, err := cache.Get(ctx, "k")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []byte("risotto"), got)
	})

	t.Run("Missing_ShouldBeCacheMiss", func(t *testing.T) {
		cache := NewCacheRepository(0)

		_, err := cache.Get(ctx, "absent")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("Expired_ShouldBehaveAsMissing", func(t *testing.T) {
		// Arrange
		cache := NewCacheRepository(0)
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		cache.now = func() time.Time { return now }
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))

		// Act
		now = now.Add(2 * time.Second)
		_, err := cache.Get(ctx, "k")
		exists, existsErr := cache.Exists(ctx, "k")

		// Assert
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		require.NoError(t, existsErr)
		assert.False(t, exists)

		cache.evictExpired()
		assert.Zero(t, cache.Len())
	})

	t.Run("Delete_ShouldRemoveKey", func(t *testing.T) {
		cache := NewCacheRepository(0)
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))

		require.NoError(t, cache.Delete(ctx, "k"))

		exists, err := cache.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Sweeper_ShouldEvictAndStopOnClose", func(t *testing.T) {
		cache := NewCacheRepository(10 * time.Millisecond)
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Millisecond))

		assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)

		cache.Close()
		cache.Close()
	})
}
