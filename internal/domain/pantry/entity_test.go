package pantry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name string) Item {
	food := Food{ID: uuid.New(), Name: name}
	return Item{ID: uuid.New(), FoodID: food.ID, Food: food, Quantity: 1}
}

func TestSnapshot_HasFoodNamed_IgnoresCase(t *testing.T) {
	snapshot := Snapshot{item("Milk")}

	assert.True(t, snapshot.HasFoodNamed("milk"))
	assert.True(t, snapshot.HasFoodNamed("MILK"))
	assert.False(t, snapshot.HasFoodNamed("oat milk"))
}

func TestSnapshot_RemoveFirstByFoodID(t *testing.T) {
	eggs := item("Eggs")
	second := eggs
	second.ID = uuid.New()
	original := Snapshot{eggs, item("Flour"), second}
	working := original.Clone()

	removed := working.RemoveFirstByFoodID(eggs.FoodID)

	require.True(t, removed)
	assert.Len(t, working, 2)
	assert.Equal(t, second.ID, working[1].ID)
	assert.Len(t, original, 3, "clone must not share state with the original")
	assert.Equal(t, eggs.ID, original[0].ID)

	assert.False(t, working.RemoveFirstByFoodID(uuid.New()))
}

func TestSnapshot_ItemsForFoods(t *testing.T) {
	milk, flour, eggs := item("Milk"), item("Flour"), item("Eggs")
	snapshot := Snapshot{milk, flour, eggs}

	matched := snapshot.ItemsForFoods([]uuid.UUID{eggs.FoodID, milk.FoodID})

	require.Len(t, matched, 2)
	assert.Equal(t, milk.ID, matched[0].ID)
	assert.Equal(t, eggs.ID, matched[1].ID)
	assert.Empty(t, snapshot.ItemsForFoods(nil))
}

func TestSnapshot_FoodNames_Distinct(t *testing.T) {
	snapshot := Snapshot{item("Milk"), item("milk"), item("Rice")}

	assert.Equal(t, []string{"Milk", "Rice"}, snapshot.FoodNames())
}

func TestNewItem_RejectsNegativeQuantity(t *testing.T) {
	food := Food{ID: uuid.New(), Name: "Rice"}

	_, err := NewItem(uuid.New(), food, -1, nil)
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	it, err := NewItem(uuid.New(), food, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, food.ID, it.FoodID)
}

func TestValidateReference(t *testing.T) {
	assert.NoError(t, ValidateReference(ExistingFood{ID: uuid.New()}))
	assert.NoError(t, ValidateReference(NewFoodRef{Name: "Leek"}))
	assert.ErrorIs(t, ValidateReference(ExistingFood{}), ErrFoodIDRequired)
	assert.ErrorIs(t, ValidateReference(NewFoodRef{Name: "  "}), ErrFoodNameRequired)
	assert.ErrorIs(t, ValidateReference(nil), ErrFoodReferenceRequired)
}
