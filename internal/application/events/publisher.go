// Package events publishes domain events after their transaction commits.
package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/shared"
	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// Topic is the bus topic all planner domain events are published on.
const Topic = "planner.events"

// Publisher turns domain events into bus messages. Publication failures
// are logged and never fail the use case.
type Publisher struct {
	bus    outbound.MessageBus
	logger *zap.Logger
}

// NewPublisher creates a publisher. A nil bus disables publication.
func NewPublisher(bus outbound.MessageBus, logger *zap.Logger) *Publisher {
	return &Publisher{bus: bus, logger: logger.Named("event-publisher")}
}

// Publish sends every event in order
func (p *Publisher) Publish(ctx context.Context, events []shared.DomainEvent) {
	if p == nil || p.bus == nil {
		return
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to encode event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
			continue
		}

		msg := outbound.Message{
			ID:        uuid.NewString(),
			Type:      event.EventName(),
			Payload:   payload,
			Timestamp: event.OccurredAt(),
		}
		if err := p.bus.Publish(ctx, Topic, msg); err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}
