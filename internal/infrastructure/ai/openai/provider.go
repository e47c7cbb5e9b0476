// Package openai suggests recipes using the OpenAI chat completions API
package openai

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
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Provider implements outbound.RecipeProvider on /chat/completions
type Provider struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// New creates a new OpenAI provider
func New(cfg config.ProviderConfig, logger *zap.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: api_key is required", cfg.Name)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("openai-provider"),
	}, nil
}

var _ outbound.RecipeProvider = (*Provider)(nil)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Name returns the configured provider name
func (p *Provider) Name() string { return p.name }

// GenerateEntries asks the model for count recipes built around the pantry
func (p *Provider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	if count <= 0 {
		return nil, nil
	}

	body, err := json.Marshal(completionRequest{
		Model: p.model,
		Messages: []message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.Build(count, snapshot)},
		},
		Temperature:    0.7,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

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
		var apiErr errorResponse
		msg := string(raw)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: openai status %d: %s", outbound.ErrProviderUnavailable, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, msg)
	}

	var completion completionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, nil
	}

	recipes, err := prompt.Parse(p.name, completion.Choices[0].Message.Content, count)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("OpenAI suggestions received",
		zap.String("model", p.model),
		zap.Int("total_tokens", completion.Usage.TotalTokens),
		zap.Int("requested", count),
		zap.Int("returned", len(recipes)))

	return recipes, nil
}
