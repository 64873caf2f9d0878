package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/stretchr/testify/require"
)

func testModelConfig(baseURL string) config.ModelConfig {
	return config.ModelConfig{
		APIKey:                 "sk-test-key-123456",
		BaseURL:                baseURL,
		ImageModel:             config.DefaultImageModel,
		TextModel:              config.DefaultTextModel,
		ImageAnalysisMaxTokens: config.DefaultImageAnalysisMaxTokens,
		RecipeMaxTokens:        config.DefaultRecipeMaxTokens,
		Timeout:                5 * time.Second,
		MaxImageDimension:      64,
	}
}

// testPNG returns a w x h PNG filled with a single colour.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const twoRecipesJSON = `[
  {
    "name": "Garlic Tomato Bruschetta",
    "description": "Toasted bread with tomatoes",
    "ingredients": ["Tomatoes", "Garlic", "Bread"],
    "instructions": ["Toast bread", "Rub with garlic", "Top with tomatoes"],
    "cookingTime": 15,
    "difficulty": "Easy",
    "servings": 4,
    "tags": ["Quick", "Italian"],
    "nutritionInfo": {"calories": 180, "protein": 5.5, "carbs": 28.1, "fat": 4.2, "fiber": 2.5}
  },
  {
    "name": "Roasted Tomato Soup",
    "description": "Slow roasted soup",
    "ingredients": ["Tomatoes", "Garlic", "Stock"],
    "instructions": ["Roast", "Blend", "Simmer"],
    "cookingTime": 70,
    "difficulty": "Medium",
    "servings": 6,
    "tags": ["Vegetarian"]
  }
]`
