package planning

import (
	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/ports/inbound"
)

func draftToDTO(draft mealplan.Draft) *inbound.MealPlanDraftDTO {
	dto := &inbound.MealPlanDraftDTO{
		UserID:    draft.UserID,
		StartDate: draft.StartDate,
		Entries:   make([]inbound.DraftEntryDTO, 0, len(draft.Entries)),
	}

	for _, e := range draft.Entries {
		entry := inbound.DraftEntryDTO{Title: e.Title()}
		if e.Recipe != nil {
			id := e.Recipe.ID
			entry.RecipeID = &id
		}
		if e.External != nil {
			entry.External = &inbound.ExternalRecipeDTO{
				Provider:     e.External.Provider,
				URL:          e.External.URL,
				Ingredients:  e.External.Ingredients,
				Instructions: e.External.Instructions,
			}
		}
		dto.Entries = append(dto.Entries, entry)
	}
	return dto
}

// planToDTO maps a plan. recipes supplies titles for entries whose recipe
// was not loaded with the plan.
func planToDTO(plan *mealplan.MealPlan, recipes map[uuid.UUID]*recipe.Recipe) *inbound.MealPlanDTO {
	entries := plan.Entries()
	dto := &inbound.MealPlanDTO{
		ID:        plan.ID(),
		UserID:    plan.UserID(),
		StartDate: plan.StartDate(),
		Entries:   make([]inbound.MealPlanEntryDTO, 0, len(entries)),
		CreatedAt: plan.CreatedAt(),
		UpdatedAt: plan.UpdatedAt(),
	}

	for _, e := range entries {
		r := e.Recipe
		if r == nil && e.RecipeID != nil {
			r = recipes[*e.RecipeID]
		}
		dto.Entries = append(dto.Entries, entryToDTO(e, r))
	}
	return dto
}

func entryToDTO(e mealplan.Entry, r *recipe.Recipe) inbound.MealPlanEntryDTO {
	dto := inbound.MealPlanEntryDTO{
		ID:       e.ID,
		Notes:    e.Notes,
		RecipeID: e.RecipeID,
		Cooked:   e.Cooked,
	}
	if r != nil {
		dto.RecipeTitle = r.Title
	}
	return dto
}
