package mealplan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/recipe"
)

// ExternalRecipe is a meal suggested by an external provider. It is not
// part of the user's catalog.
type ExternalRecipe struct {
	Provider     string
	Title        string
	URL          string
	Ingredients  []string
	Instructions string
}

// DraftEntry is a generated, not yet persisted, entry. Exactly one of
// Recipe and External is set.
type DraftEntry struct {
	Recipe   *recipe.Recipe
	External *ExternalRecipe
}

// IsExternal reports whether the entry came from an external provider.
func (d DraftEntry) IsExternal() bool {
	return d.External != nil
}

// Title returns a display title for the entry.
func (d DraftEntry) Title() string {
	switch {
	case d.Recipe != nil:
		return d.Recipe.Title
	case d.External != nil:
		return d.External.Title
	default:
		return ""
	}
}

// ToNewEntry converts the draft entry into a persisted entry description.
// External entries keep their provenance in the notes.
func (d DraftEntry) ToNewEntry() NewEntry {
	if d.Recipe != nil {
		id := d.Recipe.ID
		return NewEntry{RecipeID: &id}
	}
	if d.External == nil {
		return NewEntry{}
	}

	var b strings.Builder
	b.WriteString(d.External.Title)
	if d.External.URL != "" {
		fmt.Fprintf(&b, " (%s)", d.External.URL)
	}
	fmt.Fprintf(&b, " [via %s]", d.External.Provider)
	notes := b.String()
	return NewEntry{Notes: &notes}
}

// Draft is the result of plan generation.
type Draft struct {
	UserID    uuid.UUID
	StartDate time.Time
	Entries   []DraftEntry
}
