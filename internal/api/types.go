package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/fridgechef/backend/internal/model"
)

// IngredientResponse is an ingredient with its display fields.
type IngredientResponse struct {
	model.Ingredient
	ConfidencePercentage int    `json:"confidencePercentage"`
	ConfidenceTier       string `json:"confidenceTier"`
}

// AnalyzeImageResponse is returned by POST /ingredients/analyze. Names is
// ready to post to /recipes/generate.
type AnalyzeImageResponse struct {
	Ingredients []IngredientResponse `json:"ingredients"`
	Names       []string             `json:"names"`
}

// GenerateRecipesRequest is the body of POST /recipes/generate.
type GenerateRecipesRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// RecipeResponse is a recipe with its display fields. DifficultyLevel is the
// canonical Easy/Medium/Hard label and is empty when the model's label is
// not recognized.
type RecipeResponse struct {
	model.Recipe
	FormattedCookingTime string `json:"formattedCookingTime"`
	DifficultyLevel      string `json:"difficultyLevel,omitempty"`
}

// MarshalJSON is required because the embedded Recipe's MarshalJSON would
// otherwise be promoted and drop the display fields.
func (r RecipeResponse) MarshalJSON() ([]byte, error) {
	type recipe model.Recipe
	return json.Marshal(struct {
		recipe
		FormattedCookingTime string `json:"formattedCookingTime"`
		DifficultyLevel      string `json:"difficultyLevel,omitempty"`
	}{recipe(r.Recipe.Normalized()), r.FormattedCookingTime, r.DifficultyLevel})
}

// GenerateRecipesResponse is returned by POST /recipes/generate.
type GenerateRecipesResponse struct {
	Recipes []RecipeResponse `json:"recipes"`
}

// FavoriteResponse is a stored favorite.
type FavoriteResponse struct {
	ID        uuid.UUID      `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Recipe    RecipeResponse `json:"recipe"`
}

// ToggleFavoriteResponse reports the state after a toggle.
type ToggleFavoriteResponse struct {
	IsFavorite bool              `json:"isFavorite"`
	Favorite   *FavoriteResponse `json:"favorite,omitempty"`
}

// FavoriteStatusResponse is returned by GET /favorites/status.
type FavoriteStatusResponse struct {
	Name       string `json:"name"`
	IsFavorite bool   `json:"isFavorite"`
}

func newIngredientResponses(ingredients []model.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = IngredientResponse{
			Ingredient:           ing,
			ConfidencePercentage: ing.ConfidencePercentage(),
			ConfidenceTier:       ing.ConfidenceTier(),
		}
	}
	return out
}

func newRecipeResponse(r model.Recipe) RecipeResponse {
	resp := RecipeResponse{Recipe: r, FormattedCookingTime: r.FormattedCookingTime()}
	if level, ok := model.ParseDifficulty(string(r.Difficulty)); ok {
		resp.DifficultyLevel = string(level)
	}
	return resp
}

func newRecipeResponses(recipes []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = newRecipeResponse(r)
	}
	return out
}

func newFavoriteResponse(f *model.RecipeFavorite) FavoriteResponse {
	return FavoriteResponse{
		ID:        f.ID,
		CreatedAt: f.CreatedAt,
		Recipe:    newRecipeResponse(f.Recipe()),
	}
}
