package testutils

import (
	"context"
	"sync"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeProvider provides a mock implementation of RecipeProvider
type MockRecipeProvider struct {
	mock.Mock
	name string
}

// NewMockRecipeProvider creates a mock provider reporting name
func NewMockRecipeProvider(name string) *MockRecipeProvider {
	return &MockRecipeProvider{name: name}
}

// Name returns the provider name
func (m *MockRecipeProvider) Name() string {
	return m.name
}

// GenerateEntries returns the configured entries
func (m *MockRecipeProvider) GenerateEntries(ctx context.Context, count int, snapshot pantry.Snapshot) ([]mealplan.ExternalRecipe, error) {
	args := m.Called(ctx, count, snapshot)

	var out []mealplan.ExternalRecipe
	if v := args.Get(0); v != nil {
		out = v.([]mealplan.ExternalRecipe)
	}
	return out, args.Error(1)
}

// RecordingBus is a MessageBus that keeps every published message
type RecordingBus struct {
	mu       sync.Mutex
	messages []outbound.Message
}

// Publish records the message
func (b *RecordingBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
	return nil
}

// Subscribe is a no-op
func (b *RecordingBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	return nil
}

// Types returns the published message types in order
func (b *RecordingBus) Types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := make([]string, 0, len(b.messages))
	for _, m := range b.messages {
		types = append(types, m.Type)
	}
	return types
}
