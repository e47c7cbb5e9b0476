package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T, url string) *Provider {
	t.Helper()
	p, err := New(config.ProviderConfig{
		Name:    "cloud",
		Kind:    config.ProviderOpenAI,
		BaseURL: url,
		APIKey:  "sk-test",
		Timeout: 2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Run("MissingKey_ShouldFail", func(t *testing.T) {
		_, err := New(config.ProviderConfig{Name: "cloud", Kind: config.ProviderOpenAI}, zap.NewNop())

		assert.Error(t, err)
	})
}

func TestProvider_GenerateEntries(t *testing.T) {
	t.Run("ValidAnswer_ShouldReturnRecipes", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req completionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "json_object", req.ResponseFormat.Type)

			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"recipes\":[{\"title\":\"Ramen\"},{\"title\":\"Pho\"}]}"},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`))
		}))
		defer server.Close()

		// Act
		recipes, err := newTestProvider(t, server.URL).GenerateEntries(context.Background(), 1, nil)

		// Assert
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Ramen", recipes[0].Title)
		assert.Equal(t, "cloud", recipes[0].Provider)
	})

	t.Run("RateLimited_ShouldReportUnavailable", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
		}))
		defer server.Close()

		// Act
		_, err := newTestProvider(t, server.URL).GenerateEntries(context.Background(), 1, nil)

		// Assert
		require.Error(t, err)
		assert.True(t, errors.Is(err, outbound.ErrProviderUnavailable))
		assert.Contains(t, err.Error(), "slow down")
	})

	t.Run("BadRequest_ShouldFailWithoutUnavailable", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"bad model"}}`))
		}))
		defer server.Close()

		// Act
		_, err := newTestProvider(t, server.URL).GenerateEntries(context.Background(), 1, nil)

		// Assert
		require.Error(t, err)
		assert.False(t, errors.Is(err, outbound.ErrProviderUnavailable))
	})

	t.Run("NoChoices_ShouldReturnNothing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		recipes, err := newTestProvider(t, server.URL).GenerateEntries(context.Background(), 1, nil)

		require.NoError(t, err)
		assert.Empty(t, recipes)
	})
}
