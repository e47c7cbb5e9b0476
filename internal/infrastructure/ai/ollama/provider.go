// Package ollama suggests recipes using a local Ollama server
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/infrastructure/ai/prompt"
	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2:3b"
)

// Provider implements outbound.RecipeProvider on Ollama's chat API
type Provider struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// New creates a new Ollama provider
func New(cfg config.ProviderConfig, logger *zap.Logger) *Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	logger.Info("Ollama provider initialized",
		zap.String("name", cfg.Name),
		zap.String("base_url", baseURL),
		zap.String("model", model),
		zap.Duration("timeout", cfg.Timeout))

	return &Provider{
		name:    cfg.Name,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("ollama-provider"),
	}
}

var _ outbound.RecipeProvider = (*Provider)(nil)

// Ollama API structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   string                 `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Model     string      `json:"model"`
	Message   chatMessage `json:"message"`
	Done      bool        `json:"done"`
	EvalCount int         `json:"eval_count,omitempty"`
}

// Name returns the configured provider name
func (p *Provider) Name() string { return p.name }

// GenerateEntries asks the model for count recipes built around the pantry
func (p *Provider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	if count <= 0 {
		return nil, nil
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.Build(count, snapshot)},
		},
		Stream: false,
		Format: "json",
		Options: map[string]interface{}{
			"temperature": 0.7,
			"num_ctx":     4096,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", outbound.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", outbound.ErrProviderUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama status %d: %s", outbound.ErrProviderUnavailable, resp.StatusCode, truncate(raw))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !chat.Done {
		return nil, fmt.Errorf("incomplete response from Ollama")
	}

	recipes, err := prompt.Parse(p.name, chat.Message.Content, count)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Ollama suggestions received",
		zap.String("model", chat.Model),
		zap.Int("eval_count", chat.EvalCount),
		zap.Int("requested", count),
		zap.Int("returned", len(recipes)))

	return recipes, nil
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit])
	}
	return string(b)
}
