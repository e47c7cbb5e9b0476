package mealplan

import (
	"github.com/google/uuid"
)

// DesiredEntry is one element of a client-submitted entry set. A nil ID
// asks for a new entry.
type DesiredEntry struct {
	ID       *uuid.UUID
	Notes    *string
	RecipeID *uuid.UUID
}

// AddedEntry is a new entry together with its position in the desired set.
type AddedEntry struct {
	Entry
	position int
}

// Changes is the add/update/delete set that turns the persisted entries
// into the desired ones.
type Changes struct {
	Deleted []uuid.UUID
	Updated []Entry
	Added   []AddedEntry
}

// IsStructural reports whether entries are added or removed.
func (c Changes) IsStructural() bool {
	return len(c.Deleted) > 0 || len(c.Added) > 0
}

// Diff computes the changes between existing and desired without
// mutating either. Desired ids must belong to existing entries and may
// appear only once.
func Diff(existing []Entry, desired []DesiredEntry) (Changes, error) {
	byID := make(map[uuid.UUID]Entry, len(existing))
	for _, e := range existing {
		byID[e.ID] = e
	}

	var changes Changes
	kept := make(map[uuid.UUID]struct{}, len(desired))

	for i, d := range desired {
		if d.ID == nil {
			changes.Added = append(changes.Added, AddedEntry{
				Entry: Entry{
					ID:       uuid.New(),
					Notes:    d.Notes,
					RecipeID: d.RecipeID,
				},
				position: i,
			})
			continue
		}

		current, ok := byID[*d.ID]
		if !ok {
			return Changes{}, ErrEntryNotInPlan
		}
		if _, dup := kept[*d.ID]; dup {
			return Changes{}, ErrDuplicateEntry
		}
		kept[*d.ID] = struct{}{}

		current.Notes = d.Notes
		current.RecipeID = d.RecipeID
		changes.Updated = append(changes.Updated, current)
	}

	for _, e := range existing {
		if _, ok := kept[e.ID]; !ok {
			changes.Deleted = append(changes.Deleted, e.ID)
		}
	}

	return changes, nil
}
