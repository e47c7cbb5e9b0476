// Package mealplan contains the meal plan aggregate and the entry
// reconciliation rules.
package mealplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/domain/shared"
)

// Entry is one planned meal. It belongs to exactly one plan.
type Entry struct {
	ID       uuid.UUID
	Notes    *string
	RecipeID *uuid.UUID
	Recipe   *recipe.Recipe
	Cooked   bool
}

// HasRecipe reports whether the entry references a recipe.
func (e Entry) HasRecipe() bool {
	return e.RecipeID != nil
}

// NewEntry describes an entry to be added to a plan.
type NewEntry struct {
	Notes    *string
	RecipeID *uuid.UUID
}

// MealPlan is the aggregate root owning its entries.
type MealPlan struct {
	shared.AggregateRoot

	id        uuid.UUID
	userID    uuid.UUID
	startDate time.Time
	entries   []Entry
	createdAt time.Time
	updatedAt time.Time
}

// New creates a plan for userID with the given entries.
func New(userID uuid.UUID, startDate time.Time, entries []NewEntry) (*MealPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUserRequired
	}

	now := time.Now()
	plan := &MealPlan{
		id:        uuid.New(),
		userID:    userID,
		startDate: startDate,
		entries:   make([]Entry, 0, len(entries)),
		createdAt: now,
		updatedAt: now,
	}
	for _, e := range entries {
		plan.entries = append(plan.entries, Entry{
			ID:       uuid.New(),
			Notes:    e.Notes,
			RecipeID: e.RecipeID,
		})
	}

	plan.AddEvent(PlanCreatedEvent{
		PlanID:     plan.id,
		UserID:     userID,
		EntryCount: len(plan.entries),
		CreatedAt:  now,
	})
	return plan, nil
}

// Restore rebuilds a plan from storage without raising events.
func Restore(id, userID uuid.UUID, startDate time.Time, entries []Entry, createdAt, updatedAt time.Time) *MealPlan {
	return &MealPlan{
		id:        id,
		userID:    userID,
		startDate: startDate,
		entries:   entries,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *MealPlan) ID() uuid.UUID        { return p.id }
func (p *MealPlan) UserID() uuid.UUID    { return p.userID }
func (p *MealPlan) StartDate() time.Time { return p.startDate }
func (p *MealPlan) CreatedAt() time.Time { return p.createdAt }
func (p *MealPlan) UpdatedAt() time.Time { return p.updatedAt }

// Entries returns a copy of the plan's entries.
func (p *MealPlan) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// IsOwnedBy reports whether userID owns the plan.
func (p *MealPlan) IsOwnedBy(userID uuid.UUID) bool {
	return p.userID == userID
}

// Entry looks up an entry by id.
func (p *MealPlan) Entry(entryID uuid.UUID) (Entry, bool) {
	for _, e := range p.entries {
		if e.ID == entryID {
			return e, true
		}
	}
	return Entry{}, false
}

// RecipeIDs returns the distinct recipe ids referenced by entries.
func (p *MealPlan) RecipeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, e := range p.entries {
		if e.RecipeID == nil {
			continue
		}
		if _, ok := seen[*e.RecipeID]; ok {
			continue
		}
		seen[*e.RecipeID] = struct{}{}
		ids = append(ids, *e.RecipeID)
	}
	return ids
}

// MarkCooked flags an entry as cooked and returns it.
func (p *MealPlan) MarkCooked(entryID uuid.UUID) (Entry, error) {
	for i := range p.entries {
		if p.entries[i].ID != entryID {
			continue
		}
		p.entries[i].Cooked = true
		p.updatedAt = time.Now()
		p.AddEvent(EntryCookedEvent{
			PlanID:   p.id,
			EntryID:  entryID,
			RecipeID: p.entries[i].RecipeID,
			CookedAt: p.updatedAt,
		})
		return p.entries[i], nil
	}
	return Entry{}, ErrEntryNotFound
}

// Reconcile transforms the entry set into desired and overwrites the start
// date. The plan is left untouched when an error is returned.
func (p *MealPlan) Reconcile(startDate time.Time, desired []DesiredEntry) (Changes, error) {
	changes, err := Diff(p.entries, desired)
	if err != nil {
		return Changes{}, err
	}

	existing := make(map[uuid.UUID]Entry, len(p.entries))
	for _, e := range p.entries {
		existing[e.ID] = e
	}

	added := make(map[int]Entry, len(changes.Added))
	for _, a := range changes.Added {
		added[a.position] = a.Entry
	}

	next := make([]Entry, 0, len(desired))
	for i, d := range desired {
		if d.ID == nil {
			next = append(next, added[i])
			continue
		}
		e := existing[*d.ID]
		if !sameRecipe(e.RecipeID, d.RecipeID) {
			e.Recipe = nil
		}
		e.Notes = d.Notes
		e.RecipeID = d.RecipeID
		next = append(next, e)
	}

	p.entries = next
	p.startDate = startDate
	p.updatedAt = time.Now()
	p.AddEvent(EntriesReconciledEvent{
		PlanID:       p.id,
		UserID:       p.userID,
		Added:        len(changes.Added),
		Updated:      len(changes.Updated),
		Deleted:      len(changes.Deleted),
		ReconciledAt: p.updatedAt,
	})
	return changes, nil
}

func sameRecipe(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
