// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the planner exposes to its boundary layer.
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MealPlanService defines the meal plan use cases
type MealPlanService interface {
	// Commands
	GenerateMealPlan(ctx context.Context, cmd GenerateMealPlanCommand) (*MealPlanDraftDTO, error)
	CreateMealPlan(ctx context.Context, cmd CreateMealPlanCommand) (*MealPlanDTO, error)
	ReconcileMealPlan(ctx context.Context, cmd ReconcileMealPlanCommand) (*MealPlanDTO, error)
	DeleteMealPlan(ctx context.Context, planID, userID uuid.UUID) (bool, error)
	CookMealEntry(ctx context.Context, planID, entryID, userID uuid.UUID) (*CookResultDTO, error)

	// Queries
	GetMealPlan(ctx context.Context, planID, userID uuid.UUID) (*MealPlanDTO, error)
}

// GenerateMealPlanCommand asks for a draft plan of Days entries
type GenerateMealPlanCommand struct {
	UserID      uuid.UUID `validate:"required"`
	Days        int       `validate:"gt=0"`
	StartDate   time.Time `validate:"required"`
	UseExternal bool
}

// CreateMealPlanCommand persists a plan, typically an accepted draft
type CreateMealPlanCommand struct {
	UserID    uuid.UUID `validate:"required"`
	StartDate time.Time `validate:"required"`
	Entries   []EntryInput
}

// ReconcileMealPlanCommand replaces a plan's entry set. PayloadPlanID,
// when set, must equal PlanID.
type ReconcileMealPlanCommand struct {
	PlanID        uuid.UUID `validate:"required"`
	UserID        uuid.UUID `validate:"required"`
	PayloadPlanID *uuid.UUID
	StartDate     time.Time `validate:"required"`
	Entries       []EntryInput
}

// EntryInput is one desired entry. A nil ID creates a new entry.
type EntryInput struct {
	ID       *uuid.UUID
	Notes    *string
	RecipeID *uuid.UUID
}

// MealPlanDraftDTO is a generated, unsaved plan
type MealPlanDraftDTO struct {
	UserID    uuid.UUID
	StartDate time.Time
	Entries   []DraftEntryDTO
}

// DraftEntryDTO carries either a catalog recipe or an external suggestion
type DraftEntryDTO struct {
	RecipeID *uuid.UUID
	Title    string
	External *ExternalRecipeDTO
}

// ExternalRecipeDTO describes where an externally sourced entry came from
type ExternalRecipeDTO struct {
	Provider     string
	URL          string
	Ingredients  []string
	Instructions string
}

// MealPlanDTO is a persisted plan snapshot
type MealPlanDTO struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StartDate time.Time
	Entries   []MealPlanEntryDTO
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MealPlanEntryDTO is one persisted entry
type MealPlanEntryDTO struct {
	ID          uuid.UUID
	Notes       *string
	RecipeID    *uuid.UUID
	RecipeTitle string
	Cooked      bool
}

// CookResultDTO lists the pantry items the cooked meal may have consumed.
// Pantry quantities are not changed.
type CookResultDTO struct {
	Entry      MealPlanEntryDTO
	Items      []PantryItemDTO
	TotalCount int
}
