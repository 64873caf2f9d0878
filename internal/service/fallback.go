package service

import (
	"context"
	"time"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/model"
)

var fallbackIngredients = []model.Ingredient{
	{Name: "Tomatoes", Confidence: 0.95, Category: "Vegetables"},
	{Name: "Chicken Breast", Confidence: 0.88, Category: "Protein"},
	{Name: "Onions", Confidence: 0.92, Category: "Vegetables"},
	{Name: "Bell Peppers", Confidence: 0.87, Category: "Vegetables"},
	{Name: "Garlic", Confidence: 0.78, Category: "Vegetables"},
	{Name: "Olive Oil", Confidence: 0.85, Category: "Pantry"},
}

var fallbackRecipes = []model.Recipe{
	{
		Name:        "Chicken Stir Fry",
		Description: "A quick and healthy stir fry with vegetables",
		Ingredients: []string{"Chicken Breast", "Bell Peppers", "Onions", "Garlic", "Olive Oil"},
		Instructions: []string{
			"Cut chicken into bite-sized pieces",
			"Chop vegetables",
			"Heat oil in a large pan",
			"Cook chicken until golden",
			"Add vegetables and stir fry",
			"Season with salt and pepper",
		},
		CookingTime:   25,
		Difficulty:    model.DifficultyEasy,
		Servings:      4,
		Tags:          []string{"Quick", "Healthy", "Asian"},
		NutritionInfo: &model.NutritionInfo{Calories: 350, Protein: 35, Carbs: 15, Fat: 12, Fiber: model.Float(5)},
	},
	{
		Name:        "Tomato Basil Pasta",
		Description: "Simple and delicious pasta with fresh tomatoes",
		Ingredients: []string{"Tomatoes", "Garlic", "Olive Oil", "Pasta"},
		Instructions: []string{
			"Cook pasta according to package",
			"Dice tomatoes",
			"Sauté garlic in olive oil",
			"Add tomatoes and cook",
			"Toss with pasta",
			"Garnish with basil",
		},
		CookingTime:   20,
		Difficulty:    model.DifficultyEasy,
		Servings:      2,
		Tags:          []string{"Italian", "Vegetarian", "Quick"},
		NutritionInfo: &model.NutritionInfo{Calories: 400, Protein: 12, Carbs: 65, Fat: 8, Fiber: model.Float(4)},
	},
	{
		Name:        "Vegetable Curry",
		Description: "Aromatic and spicy vegetable curry",
		Ingredients: []string{"Onions", "Garlic", "Bell Peppers", "Tomatoes", "Coconut Milk"},
		Instructions: []string{
			"Sauté onions and garlic",
			"Add spices and cook",
			"Add vegetables",
			"Pour in coconut milk",
			"Simmer until vegetables are tender",
			"Serve with rice",
		},
		CookingTime:   45,
		Difficulty:    model.DifficultyMedium,
		Servings:      6,
		Tags:          []string{"Vegetarian", "Healthy", "Spicy"},
		NutritionInfo: &model.NutritionInfo{Calories: 280, Protein: 8, Carbs: 25, Fat: 18, Fiber: model.Float(8)},
	},
}

// FallbackChef serves a fixed dataset without touching the network. It is
// used when real model calls are switched off.
type FallbackChef struct {
	Delay time.Duration
}

// NewFallbackChef creates a FallbackChef that waits delay before answering.
func NewFallbackChef(delay time.Duration) *FallbackChef {
	return &FallbackChef{Delay: delay}
}

// AnalyzeImage returns the sample ingredients regardless of the image.
func (c *FallbackChef) AnalyzeImage(ctx context.Context, image []byte) ([]model.Ingredient, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	logger.Component("fallback").WithField("bytes", len(image)).Info("serving sample ingredients")
	return append([]model.Ingredient(nil), fallbackIngredients...), nil
}

// GenerateRecipes returns the sample recipes regardless of the names.
func (c *FallbackChef) GenerateRecipes(ctx context.Context, names []string) ([]model.Recipe, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	logger.Component("fallback").WithField("ingredients", len(names)).Info("serving sample recipes")
	out := make([]model.Recipe, 0, len(fallbackRecipes))
	for _, r := range fallbackRecipes {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (c *FallbackChef) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		if err := ctx.Err(); err != nil {
			return newError(KindCanceled, "request canceled", err)
		}
		return nil
	}
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return newError(KindCanceled, "request canceled", ctx.Err())
	}
}
