package container

import (
	"context"
	"sync"

	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// EventBus is an in-process outbound.MessageBus. Handlers run
// synchronously on the publishing goroutine.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	log      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(log *zap.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]outbound.MessageHandler),
		log:      log.Named("event-bus"),
	}
}

// Publish dispatches message to every handler subscribed to topic.
// Handler failures are logged and do not stop the remaining handlers.
func (b *EventBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.RLock()
	handlers := append([]outbound.MessageHandler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug("No handlers registered for topic", zap.String("topic", topic))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, message); err != nil {
			b.log.Error("Failed to handle event",
				zap.String("topic", topic),
				zap.String("type", message.Type),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Subscribe registers handler for topic
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	b.log.Debug("Registered event handler", zap.String("topic", topic))
	return nil
}

// NewAuditHandler logs every planner event it receives
func NewAuditHandler(log *zap.Logger) outbound.MessageHandler {
	log = log.Named("event-audit")
	return func(ctx context.Context, msg outbound.Message) error {
		log.Info("Planner event",
			zap.String("id", msg.ID),
			zap.String("type", msg.Type),
			zap.Time("occurred_at", msg.Timestamp),
			zap.ByteString("payload", msg.Payload),
		)
		return nil
	}
}
