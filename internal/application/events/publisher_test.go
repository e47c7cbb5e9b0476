package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/larderly/planner/internal/domain/shared"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

func (e testEvent) EventName() string     { return e.Name }
func (e testEvent) OccurredAt() time.Time { return e.At }

type fakeBus struct {
	topics   []string
	messages []outbound.Message
	err      error
}

func (b *fakeBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.topics = append(b.topics, topic)
	b.messages = append(b.messages, message)
	return b.err
}

func (b *fakeBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	return nil
}

func TestPublisher_Publish_ShouldKeepOrder(t *testing.T) {
	// Arrange
	bus := &fakeBus{}
	at := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	publisher := NewPublisher(bus, zap.NewNop())

	// Act
	publisher.Publish(context.Background(), []shared.DomainEvent{
		testEvent{Name: "mealplan.created", At: at},
		testEvent{Name: "shopping.list.generated", At: at},
	})

	// Assert
	require.Len(t, bus.messages, 2)
	assert.Equal(t, []string{Topic, Topic}, bus.topics)
	assert.Equal(t, "mealplan.created", bus.messages[0].Type)
	assert.Equal(t, "shopping.list.generated", bus.messages[1].Type)
	assert.Equal(t, at, bus.messages[0].Timestamp)
	assert.NotEqual(t, bus.messages[0].ID, bus.messages[1].ID)

	var decoded testEvent
	require.NoError(t, json.Unmarshal(bus.messages[0].Payload, &decoded))
	assert.Equal(t, "mealplan.created", decoded.Name)
}

func TestPublisher_NilBus_ShouldDoNothing(t *testing.T) {
	var nilPublisher *Publisher

	assert.NotPanics(t, func() {
		NewPublisher(nil, zap.NewNop()).Publish(context.Background(), []shared.DomainEvent{testEvent{Name: "x"}})
		nilPublisher.Publish(context.Background(), []shared.DomainEvent{testEvent{Name: "x"}})
	})
}

func TestPublisher_BusFailure_ShouldLogAndContinue(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := &fakeBus{err: errors.New("broker down")}
	publisher := NewPublisher(bus, zap.New(core))

	// Act
	publisher.Publish(context.Background(), []shared.DomainEvent{
		testEvent{Name: "mealplan.entry.cooked"},
		testEvent{Name: "mealplan.entries.reconciled"},
	})

	// Assert
	assert.Len(t, bus.messages, 2)
	assert.Equal(t, 2, logs.FilterMessage("Failed to publish event").Len())
}
