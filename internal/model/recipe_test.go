package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipes() []Recipe {
	return []Recipe{
		{
			Name:         "Chicken Stir Fry",
			Description:  "A quick and healthy stir fry",
			Ingredients:  []string{"Chicken Breast", "Bell Peppers"},
			Instructions: []string{"Cut chicken", "Stir fry"},
			CookingTime:  25,
			Difficulty:   DifficultyEasy,
			Servings:     4,
			Tags:         []string{"Quick", "Asian"},
			NutritionInfo: &NutritionInfo{
				Calories: 350, Protein: 35, Carbs: 15, Fat: 12, Fiber: Float(5),
			},
		},
		{
			Name:         "Vegetable Curry",
			Description:  "Aromatic and spicy",
			Ingredients:  []string{"Onions", "Coconut Milk"},
			Instructions: []string{"Saute onions", "Simmer"},
			CookingTime:  90,
			Difficulty:   DifficultyMedium,
			Servings:     6,
			Tags:         []string{"Vegetarian"},
		},
	}
}

func TestFormattedCookingTime(t *testing.T) {
	tests := map[int]string{
		0:   "0 min",
		25:  "25 min",
		59:  "59 min",
		60:  "1h",
		90:  "1h 30m",
		125: "2h 5m",
	}
	for minutes, want := range tests {
		assert.Equal(t, want, Recipe{CookingTime: minutes}.FormattedCookingTime())
	}
}

func TestFilterRecipes(t *testing.T) {
	recipes := sampleRecipes()

	t.Run("no filters keeps everything in order", func(t *testing.T) {
		got := FilterRecipes(recipes, "", AllTags)
		require.Len(t, got, 2)
		assert.Equal(t, "Chicken Stir Fry", got[0].Name)
		assert.Equal(t, "Vegetable Curry", got[1].Name)
	})

	t.Run("query matches ingredient case-insensitively", func(t *testing.T) {
		got := FilterRecipes(recipes, "coconut", "")
		require.Len(t, got, 1)
		assert.Equal(t, "Vegetable Curry", got[0].Name)
	})

	t.Run("query matches description", func(t *testing.T) {
		got := FilterRecipes(recipes, "HEALTHY", "")
		require.Len(t, got, 1)
		assert.Equal(t, "Chicken Stir Fry", got[0].Name)
	})

	t.Run("tag filter", func(t *testing.T) {
		got := FilterRecipes(recipes, "", "Vegetarian")
		require.Len(t, got, 1)
		assert.Equal(t, "Vegetable Curry", got[0].Name)
		assert.Empty(t, FilterRecipes(recipes, "", "vegetarian"))
	})

	t.Run("query and tag combine", func(t *testing.T) {
		assert.Empty(t, FilterRecipes(recipes, "curry", "Asian"))
	})
}

func TestParseDifficulty(t *testing.T) {
	d, ok := ParseDifficulty(" easy ")
	assert.True(t, ok)
	assert.Equal(t, DifficultyEasy, d)

	d, ok = ParseDifficulty("Moderate")
	assert.True(t, ok)
	assert.Equal(t, DifficultyMedium, d)

	d, ok = ParseDifficulty("Chef-level")
	assert.False(t, ok)
	assert.Equal(t, Difficulty("Chef-level"), d)
}

func TestRecipeWireRoundTrip(t *testing.T) {
	original := sampleRecipes()[0]

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cookingTime":25`)
	assert.Contains(t, string(data), `"nutritionInfo":{`)

	var decoded Recipe
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestRecipeEncodesEmptySequences(t *testing.T) {
	bare := Recipe{Name: "Toast", Description: "Bread, toasted", CookingTime: 3, Difficulty: DifficultyEasy, Servings: 1}

	data, err := json.Marshal([]Recipe{bare})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ingredients":[]`)
	assert.Contains(t, string(data), `"instructions":[]`)
	assert.Contains(t, string(data), `"tags":[]`)
	assert.NotContains(t, string(data), "null")

	var decoded []Recipe
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []Recipe{bare.Normalized()}, decoded)

	// Normalized leaves populated sequences alone.
	full := sampleRecipes()[0]
	assert.Equal(t, full, full.Normalized())
}

func TestRecipeClone(t *testing.T) {
	original := sampleRecipes()[0]
	c := original.Clone()
	c.Instructions[0] = "changed"
	*c.NutritionInfo.Fiber = 99

	assert.Equal(t, "Cut chicken", original.Instructions[0])
	assert.Equal(t, 5.0, *original.NutritionInfo.Fiber)
	assert.Equal(t, []string{}, Recipe{Tags: []string{}}.Clone().Tags)
}

func TestRecipePayloadScan(t *testing.T) {
	original := sampleRecipes()[1]

	value, err := RecipePayload(original).Value()
	require.NoError(t, err)

	var p RecipePayload
	require.NoError(t, p.Scan([]byte(value.(string))))
	assert.Equal(t, original, Recipe(p))

	assert.Error(t, p.Scan(42))
}

func TestNutritionHasNegative(t *testing.T) {
	assert.False(t, NutritionInfo{Calories: 1}.HasNegative())
	assert.True(t, NutritionInfo{Protein: -1}.HasNegative())
	assert.True(t, NutritionInfo{Fiber: Float(-0.5)}.HasNegative())
}
