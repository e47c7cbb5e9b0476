// Package prompt builds the meal-suggestion prompt shared by the LLM
// providers and parses their JSON answers.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
)

// System is the instruction every provider sends ahead of the user prompt
const System = `You are a meal planner. Suggest dinner recipes that make good use of the ingredients the user already has.

CRITICAL: Respond with ONLY a valid JSON object in this exact format:
{
  "recipes": [
    {
      "title": "Recipe Name",
      "url": "https://example.com/recipe",
      "ingredients": ["ingredient one", "ingredient two"],
      "instructions": "Short cooking instructions"
    }
  ]
}

Use an empty string for url when you do not know a source. No additional text.`

// Build asks for count recipes using the snapshot's food names
func Build(count int, snapshot pantry.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d different recipes.", count)

	names := snapshot.FoodNames()
	if len(names) > 0 {
		fmt.Fprintf(&b, "\nIngredients on hand: %s.", strings.Join(names, ", "))
		b.WriteString("\nPrefer recipes that use as many of them as possible.")
	}

	return b.String()
}

type recipeJSON struct {
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

type responseJSON struct {
	Recipes []recipeJSON `json:"recipes"`
}

// Parse extracts at most count recipes from a model answer. Models
// sometimes wrap the JSON in prose or code fences, so only the outermost
// object or array is decoded. Untitled recipes are dropped.
func Parse(provider, answer string, count int) ([]mealplan.ExternalRecipe, error) {
	answer = strings.TrimSpace(answer)

	var recipes []recipeJSON
	if obj, ok := between(answer, "{", "}"); ok && !startsWithArray(answer) {
		var resp responseJSON
		if err := json.Unmarshal([]byte(obj), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", provider, err)
		}
		recipes = resp.Recipes
	} else if arr, ok := between(answer, "[", "]"); ok {
		if err := json.Unmarshal([]byte(arr), &recipes); err != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", provider, err)
		}
	} else {
		return nil, fmt.Errorf("no JSON found in %s response", provider)
	}

	out := make([]mealplan.ExternalRecipe, 0, count)
	for _, r := range recipes {
		if len(out) == count {
			break
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		out = append(out, mealplan.ExternalRecipe{
			Provider:     provider,
			Title:        title,
			URL:          strings.TrimSpace(r.URL),
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
		})
	}
	return out, nil
}

func between(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	end := strings.LastIndex(s, close)
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func startsWithArray(s string) bool {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimLeft(s, "`\n\r\t ")
	return strings.HasPrefix(s, "[")
}
