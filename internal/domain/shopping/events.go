package shopping

import (
	"time"

	"github.com/google/uuid"
)

// ListGeneratedEvent is raised after a plan's missing foods were merged
// into a shopping list
type ListGeneratedEvent struct {
	PlanID      uuid.UUID
	UserID      uuid.UUID
	Restart     bool
	Added       int
	GeneratedAt time.Time
}

// NewListGeneratedEvent stamps the event with the current time
func NewListGeneratedEvent(planID, userID uuid.UUID, restart bool, added int) ListGeneratedEvent {
	return ListGeneratedEvent{
		PlanID:      planID,
		UserID:      userID,
		Restart:     restart,
		Added:       added,
		GeneratedAt: time.Now(),
	}
}

func (e ListGeneratedEvent) EventName() string {
	return "shopping.list.generated"
}

func (e ListGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}
