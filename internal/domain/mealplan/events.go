package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// PlanCreatedEvent is raised when a plan is first persisted
type PlanCreatedEvent struct {
	PlanID     uuid.UUID
	UserID     uuid.UUID
	EntryCount int
	CreatedAt  time.Time
}

func (e PlanCreatedEvent) EventName() string {
	return "mealplan.created"
}

func (e PlanCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// EntriesReconciledEvent is raised after the entry set was replaced
type EntriesReconciledEvent struct {
	PlanID       uuid.UUID
	UserID       uuid.UUID
	Added        int
	Updated      int
	Deleted      int
	ReconciledAt time.Time
}

func (e EntriesReconciledEvent) EventName() string {
	return "mealplan.entries.reconciled"
}

func (e EntriesReconciledEvent) OccurredAt() time.Time {
	return e.ReconciledAt
}

// EntryCookedEvent is raised when an entry is marked cooked
type EntryCookedEvent struct {
	PlanID   uuid.UUID
	EntryID  uuid.UUID
	RecipeID *uuid.UUID
	CookedAt time.Time
}

func (e EntryCookedEvent) EventName() string {
	return "mealplan.entry.cooked"
}

func (e EntryCookedEvent) OccurredAt() time.Time {
	return e.CookedAt
}
