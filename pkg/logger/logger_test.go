package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("JSON_ShouldWriteStructuredFields", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "planner.log")

		// Act
		log, err := New(Config{Level: "info", Format: "json", OutputPaths: []string{path}})
		require.NoError(t, err)
		log.Named("meal-plan-service").Info("Meal plan generated", zap.Int("returned", 3))
		log.Debug("hidden")
		require.NoError(t, log.Sync())

		// Assert
		raw, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &entry))
		assert.Equal(t, "Meal plan generated", entry["msg"])
		assert.Equal(t, "meal-plan-service", entry["logger"])
		assert.EqualValues(t, 3, entry["returned"])
		assert.NotContains(t, string(raw), "hidden")
	})

	t.Run("UnknownLevel_ShouldFallBackToInfo", func(t *testing.T) {
		log, err := New(Config{Level: "chatty", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}})

		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("BadOutput_ShouldFail", func(t *testing.T) {
		_, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "x.log")}})

		assert.Error(t, err)
	})
}
