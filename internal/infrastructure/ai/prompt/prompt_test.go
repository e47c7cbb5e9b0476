package prompt

import (
	"testing"

	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("WithPantry_ShouldListFoodsOnce", func(t *testing.T) {
		snapshot := pantry.Snapshot{
			{Food: pantry.Food{Name: "Tomato"}},
			{Food: pantry.Food{Name: "tomato"}},
			{Food: pantry.Food{Name: "Basil"}},
		}

		got := Build(3, snapshot)

		assert.Contains(t, got, "Suggest 3 different recipes.")
		assert.Contains(t, got, "Ingredients on hand: Tomato, Basil.")
	})

	t.Run("EmptyPantry_ShouldOnlyAskForCount", func(t *testing.T) {
		assert.Equal(t, "Suggest 2 different recipes.", Build(2, nil))
	})
}

func TestParse(t *testing.T) {
	t.Run("WrappedObject_ShouldDecodeRecipes", func(t *testing.T) {
		// Arrange
		answer := "Sure! Here you go:\n```json\n" + `{"recipes":[
			{"title":" Shakshuka ","url":"https://example.com/s","ingredients":["egg","tomato"],"instructions":"Simmer."},
			{"title":"Panzanella","url":"","ingredients":["bread"],"instructions":"Toss."}
		]}` + "\n```"

		// Act
		recipes, err := Parse("local", answer, 5)

		// Assert
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "Shakshuka", recipes[0].Title)
		assert.Equal(t, "https://example.com/s", recipes[0].URL)
		assert.Equal(t, "local", recipes[0].Provider)
		assert.Equal(t, []string{"egg", "tomato"}, recipes[0].Ingredients)
	})

	t.Run("BareArray_ShouldDecodeRecipes", func(t *testing.T) {
		recipes, err := Parse("local", `[{"title":"Dal"},{"title":"Rice"}]`, 5)

		require.NoError(t, err)
		assert.Len(t, recipes, 2)
	})

	t.Run("MoreThanCount_ShouldTruncate", func(t *testing.T) {
		recipes, err := Parse("local", `{"recipes":[{"title":"A"},{"title":"B"},{"title":"C"}]}`, 2)

		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "B", recipes[1].Title)
	})

	t.Run("UntitledRecipes_ShouldBeDropped", func(t *testing.T) {
		recipes, err := Parse("local", `{"recipes":[{"title":""},{"title":"Soup"}]}`, 2)

		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Soup", recipes[0].Title)
	})

	t.Run("NoJSON_ShouldFail", func(t *testing.T) {
		_, err := Parse("local", "I cannot help with that.", 2)

		assert.Error(t, err)
	})
}
