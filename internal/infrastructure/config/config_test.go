package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults_ShouldApplyWithoutFile", func(t *testing.T) {
		// Act
		cfg, err := Load("")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "memory", cfg.Cache.Driver)
		assert.Equal(t, 14, cfg.Planning.MaxDays)
		assert.True(t, cfg.Planning.ExternalFallback)
		assert.Empty(t, cfg.Providers)
	})

	t.Run("Providers_ShouldKeepOrderAndFillDefaults", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, t.TempDir(), `
planning:
  max_days: 7
providers:
  - kind: ollama
    base_url: http://localhost:11434
    model: llama3
  - name: cloud
    kind: openai
    api_key: sk-test
    timeout: 10s
    requests_per_minute: 30
`)

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Planning.MaxDays)
		require.Len(t, cfg.Providers, 2)
		assert.Equal(t, "ollama", cfg.Providers[0].Name)
		assert.Equal(t, 30*time.Second, cfg.Providers[0].Timeout)
		assert.Equal(t, 5, cfg.Providers[0].FailureThreshold)
		assert.Equal(t, "cloud", cfg.Providers[1].Name)
		assert.Equal(t, 10*time.Second, cfg.Providers[1].Timeout)
		assert.Equal(t, 30, cfg.Providers[1].RequestsPerMinute)
	})

	t.Run("EnvOverride_ShouldWinOverFile", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, t.TempDir(), "planning:\n  max_days: 7\n")
		t.Setenv("PLANNER_PLANNING_MAX_DAYS", "3")

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Planning.MaxDays)
	})

	t.Run("UnknownProviderKind_ShouldFail", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, t.TempDir(), "providers:\n  - kind: carrier-pigeon\n")

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "carrier-pigeon")
	})

	t.Run("ZeroMaxDays_ShouldFail", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, t.TempDir(), "planning:\n  max_days: 0\n")

		// Act
		_, err := Load(path)

		// Assert
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Port: 5432, Username: "u", Password: "p", Database: "planner", SSLMode: "disable"}

	assert.Equal(t, "host=replica-1 port=5432 user=u password=p dbname=planner sslmode=disable", d.DSN("replica-1"))
}

func TestWatch(t *testing.T) {
	t.Run("MissingFile_ShouldFail", func(t *testing.T) {
		err := Watch(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop(), func(PlanningConfig) {})

		assert.Error(t, err)
	})

	t.Run("Rewrite_ShouldDeliverNewLimits", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		path := writeConfig(t, dir, "planning:\n  max_days: 14\n")
		var maxDays atomic.Int64

		require.NoError(t, Watch(path, zap.NewNop(), func(p PlanningConfig) {
			maxDays.Store(int64(p.MaxDays))
		}))

		// Act
		writeConfig(t, dir, "planning:\n  max_days: 21\n")

		// Assert
		assert.Eventually(t, func() bool { return maxDays.Load() == 21 }, 5*time.Second, 20*time.Millisecond)
	})
}
