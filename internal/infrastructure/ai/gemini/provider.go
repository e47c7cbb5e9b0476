// Package gemini suggests recipes using Google's Gemini models
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/infrastructure/ai/prompt"
	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// Provider implements outbound.RecipeProvider on the Gemini API
type Provider struct {
	name   string
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

// New creates a Gemini client. Close releases it.
func New(ctx context.Context, cfg config.ProviderConfig, logger *zap.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: api_key is required", cfg.Name)
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)
	model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.System))
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.7)

	return &Provider{
		name:   cfg.Name,
		client: client,
		model:  model,
		logger: logger.Named("gemini-provider"),
	}, nil
}

var _ outbound.RecipeProvider = (*Provider)(nil)

// Name returns the configured provider name
func (p *Provider) Name() string { return p.name }

// GenerateEntries asks the model for count recipes built around the pantry.
// A blocked answer yields no entries.
func (p *Provider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	if count <= 0 {
		return nil, nil
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt.Build(count, snapshot)))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			p.logger.Warn("Gemini blocked the request", zap.Error(err))
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", outbound.ErrProviderUnavailable, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, nil
	}

	recipes, err := prompt.Parse(p.name, text, count)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Gemini suggestions received",
		zap.Int("requested", count),
		zap.Int("returned", len(recipes)))

	return recipes, nil
}

// Close releases the underlying client
func (p *Provider) Close() error {
	return p.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
