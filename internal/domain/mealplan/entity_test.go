package mealplan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MealPlanTestSuite struct {
	suite.Suite
	userID    uuid.UUID
	startDate time.Time
}

func (suite *MealPlanTestSuite) SetupTest() {
	suite.userID = uuid.New()
	suite.startDate = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func (suite *MealPlanTestSuite) newPlan(recipes ...uuid.UUID) *MealPlan {
	entries := make([]NewEntry, 0, len(recipes))
	for _, id := range recipes {
		entries = append(entries, NewEntry{RecipeID: ptr(id)})
	}
	plan, err := New(suite.userID, suite.startDate, entries)
	require.NoError(suite.T(), err)
	plan.Events()
	return plan
}

func (suite *MealPlanTestSuite) TestNew() {
	suite.Run("ValidPlan_ShouldRaiseCreatedEvent", func() {
		// Act
		plan, err := New(suite.userID, suite.startDate, []NewEntry{{RecipeID: ptr(uuid.New())}, {Notes: ptr("leftovers")}})

		// Assert
		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), uuid.Nil, plan.ID())
		assert.Len(suite.T(), plan.Entries(), 2)
		assert.True(suite.T(), plan.IsOwnedBy(suite.userID))

		events := plan.Events()
		require.Len(suite.T(), events, 1)
		created, ok := events[0].(PlanCreatedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), 2, created.EntryCount)
	})

	suite.Run("MissingUser_ShouldFail", func() {
		_, err := New(uuid.Nil, suite.startDate, nil)
		assert.ErrorIs(suite.T(), err, ErrUserRequired)
	})
}

func (suite *MealPlanTestSuite) TestReconcile() {
	suite.Run("SameEntrySet_ShouldBeIdempotent", func() {
		// Arrange
		plan := suite.newPlan(uuid.New(), uuid.New())
		before := plan.Entries()
		desired := make([]DesiredEntry, 0, len(before))
		for _, e := range before {
			desired = append(desired, DesiredEntry{ID: ptr(e.ID), Notes: e.Notes, RecipeID: e.RecipeID})
		}

		// Act
		changes, err := plan.Reconcile(suite.startDate, desired)

		// Assert
		require.NoError(suite.T(), err)
		assert.False(suite.T(), changes.IsStructural())
		assert.Len(suite.T(), changes.Updated, 2)
		assert.Equal(suite.T(), before, plan.Entries())
	})

	suite.Run("EmptyDesiredSet_ShouldEmptyPlan", func() {
		plan := suite.newPlan(uuid.New(), uuid.New(), uuid.New())

		changes, err := plan.Reconcile(suite.startDate, nil)

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), changes.Deleted, 3)
		assert.Empty(suite.T(), plan.Entries())
	})

	suite.Run("MixedChanges_ShouldAddUpdateAndDelete", func() {
		// Arrange
		plan := suite.newPlan(uuid.New(), uuid.New())
		existing := plan.Entries()
		newRecipe := uuid.New()
		newStart := suite.startDate.AddDate(0, 0, 7)

		desired := []DesiredEntry{
			{ID: ptr(existing[1].ID), Notes: ptr("double batch"), RecipeID: existing[1].RecipeID},
			{RecipeID: ptr(newRecipe)},
		}

		// Act
		changes, err := plan.Reconcile(newStart, desired)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []uuid.UUID{existing[0].ID}, changes.Deleted)
		assert.Len(suite.T(), changes.Updated, 1)
		assert.Len(suite.T(), changes.Added, 1)

		entries := plan.Entries()
		require.Len(suite.T(), entries, 2)
		assert.Equal(suite.T(), existing[1].ID, entries[0].ID)
		assert.Equal(suite.T(), "double batch", *entries[0].Notes)
		assert.Equal(suite.T(), newRecipe, *entries[1].RecipeID)
		assert.Equal(suite.T(), newStart, plan.StartDate())

		events := plan.Events()
		require.Len(suite.T(), events, 1)
		reconciled := events[0].(EntriesReconciledEvent)
		assert.Equal(suite.T(), 1, reconciled.Added)
		assert.Equal(suite.T(), 1, reconciled.Deleted)
	})

	suite.Run("UnknownEntryID_ShouldLeavePlanUntouched", func() {
		plan := suite.newPlan(uuid.New())
		before := plan.Entries()

		_, err := plan.Reconcile(suite.startDate.AddDate(0, 1, 0), []DesiredEntry{{ID: ptr(uuid.New())}})

		assert.ErrorIs(suite.T(), err, ErrEntryNotInPlan)
		assert.Equal(suite.T(), before, plan.Entries())
		assert.Equal(suite.T(), suite.startDate, plan.StartDate())
	})

	suite.Run("DuplicateEntryID_ShouldFail", func() {
		plan := suite.newPlan(uuid.New())
		id := plan.Entries()[0].ID

		_, err := plan.Reconcile(suite.startDate, []DesiredEntry{{ID: ptr(id)}, {ID: ptr(id)}})

		assert.ErrorIs(suite.T(), err, ErrDuplicateEntry)
	})

	suite.Run("CookedFlag_ShouldSurviveUpdate", func() {
		plan := suite.newPlan(uuid.New())
		entry := plan.Entries()[0]
		_, err := plan.MarkCooked(entry.ID)
		require.NoError(suite.T(), err)

		_, err = plan.Reconcile(suite.startDate, []DesiredEntry{{ID: ptr(entry.ID), Notes: ptr("again")}})

		require.NoError(suite.T(), err)
		assert.True(suite.T(), plan.Entries()[0].Cooked)
		assert.Nil(suite.T(), plan.Entries()[0].RecipeID)
	})
}

func (suite *MealPlanTestSuite) TestMarkCooked() {
	suite.Run("KnownEntry_ShouldFlagAndRaiseEvent", func() {
		plan := suite.newPlan(uuid.New())
		entry := plan.Entries()[0]

		cooked, err := plan.MarkCooked(entry.ID)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), cooked.Cooked)
		events := plan.Events()
		require.Len(suite.T(), events, 1)
		assert.Equal(suite.T(), "mealplan.entry.cooked", events[0].EventName())
	})

	suite.Run("UnknownEntry_ShouldFail", func() {
		plan := suite.newPlan(uuid.New())

		_, err := plan.MarkCooked(uuid.New())

		assert.ErrorIs(suite.T(), err, ErrEntryNotFound)
	})
}

func TestMealPlanTestSuite(t *testing.T) {
	suite.Run(t, new(MealPlanTestSuite))
}

func TestDiff_DoesNotMutateInputs(t *testing.T) {
	existing := []Entry{{ID: uuid.New(), Notes: ptr("a")}}
	desired := []DesiredEntry{{ID: ptr(existing[0].ID), Notes: ptr("b")}}

	changes, err := Diff(existing, desired)

	require.NoError(t, err)
	assert.Equal(t, "a", *existing[0].Notes)
	assert.Equal(t, "b", *changes.Updated[0].Notes)
}

func TestDraftEntry_ToNewEntry(t *testing.T) {
	external := DraftEntry{External: &ExternalRecipe{Provider: "ollama", Title: "Shakshuka", URL: "https://example.org/shakshuka"}}

	entry := external.ToNewEntry()

	assert.Nil(t, entry.RecipeID)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "Shakshuka (https://example.org/shakshuka) [via ollama]", *entry.Notes)
	assert.True(t, external.IsExternal())
	assert.Equal(t, "Shakshuka", external.Title())
}
