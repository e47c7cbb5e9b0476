//go:build integration
// +build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestCacheRepository_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Redis.Host = host
	cfg.Redis.Port = port.Int()
	cfg.Redis.DialTimeout = 5 * time.Second
	cfg.Redis.ReadTimeout = 3 * time.Second
	cfg.Redis.WriteTimeout = 3 * time.Second

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCacheRepository(client, "planner:test:", zap.NewNop())

	t.Run("SetThenGet_ShouldUsePrefix", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "suggestions", []byte("[]"), time.Minute))

		got, err := cache.Get(ctx, "suggestions")
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), got)

		raw, err := client.Get(ctx, "planner:test:suggestions").Result()
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)
	})

	t.Run("Missing_ShouldBeCacheMiss", func(t *testing.T) {
		_, err := cache.Get(ctx, fmt.Sprintf("absent-%d", time.Now().UnixNano()))

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("Delete_ShouldRemoveKey", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "gone", []byte("x"), time.Minute))
		require.NoError(t, cache.Delete(ctx, "gone"))

		exists, err := cache.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
