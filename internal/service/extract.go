package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/model"
	"github.com/sirupsen/logrus"
)

// ingredientPayload mirrors model.Ingredient with presence tracking so a
// missing field can be told apart from a zero value.
type ingredientPayload struct {
	Name       *string  `json:"name" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required"`
	Category   *string  `json:"category" validate:"required"`
}

type nutritionPayload struct {
	Calories *int     `json:"calories" validate:"required"`
	Protein  *float64 `json:"protein" validate:"required"`
	Carbs    *float64 `json:"carbs" validate:"required"`
	Fat      *float64 `json:"fat" validate:"required"`
	Fiber    *float64 `json:"fiber"`
}

type recipePayload struct {
	Name          *string           `json:"name" validate:"required"`
	Description   *string           `json:"description" validate:"required"`
	Ingredients   []string          `json:"ingredients" validate:"required"`
	Instructions  []string          `json:"instructions" validate:"required"`
	CookingTime   *int              `json:"cookingTime" validate:"required"`
	Difficulty    *string           `json:"difficulty" validate:"required"`
	Servings      *int              `json:"servings" validate:"required"`
	ImageURL      *string           `json:"imageURL"`
	Tags          []string          `json:"tags" validate:"required"`
	NutritionInfo *nutritionPayload `json:"nutritionInfo" validate:"omitempty"`
}

// Extraction holds the decoded records for one task.
type Extraction struct {
	Task        TaskKind
	Ingredients []model.Ingredient
	Recipes     []model.Recipe
}

// ResponseExtractor pulls the JSON array out of a model reply and decodes it.
// It keeps no state between calls.
type ResponseExtractor struct {
	validate *validator.Validate
	log      *logrus.Entry
}

// NewResponseExtractor creates a ResponseExtractor.
func NewResponseExtractor() *ResponseExtractor {
	return &ResponseExtractor{
		validate: validator.New(),
		log:      logger.Component("extractor"),
	}
}

// Extract decodes raw according to task.
func (x *ResponseExtractor) Extract(raw string, task TaskKind) (*Extraction, error) {
	switch task {
	case TaskImageAnalysis:
		ingredients, err := x.Ingredients(raw)
		if err != nil {
			return nil, err
		}
		return &Extraction{Task: task, Ingredients: ingredients}, nil
	case TaskRecipeGeneration:
		recipes, err := x.Recipes(raw)
		if err != nil {
			return nil, err
		}
		return &Extraction{Task: task, Recipes: recipes}, nil
	default:
		return nil, fmt.Errorf("unknown task %q", task)
	}
}

// Ingredients decodes an ingredient array. One bad record rejects the batch.
func (x *ResponseExtractor) Ingredients(raw string) ([]model.Ingredient, error) {
	var items []ingredientPayload
	if err := x.decode(raw, &items); err != nil {
		return nil, err
	}

	out := make([]model.Ingredient, 0, len(items))
	for i, item := range items {
		if err := x.validate.Struct(item); err != nil {
			return nil, newError(KindSchemaMismatch, fmt.Sprintf("ingredient %d", i), err)
		}
		ing := model.Ingredient{
			Name:       *item.Name,
			Confidence: *item.Confidence,
			Category:   *item.Category,
		}
		if ing.Confidence < 0 || ing.Confidence > 1 {
			x.log.WithFields(logrus.Fields{
				"ingredient": ing.Name,
				"confidence": ing.Confidence,
			}).Warn("confidence outside [0, 1]")
		}
		out = append(out, ing)
	}
	return out, nil
}

// Recipes decodes a recipe array, keeping array order and instruction order.
func (x *ResponseExtractor) Recipes(raw string) ([]model.Recipe, error) {
	var items []recipePayload
	if err := x.decode(raw, &items); err != nil {
		return nil, err
	}

	out := make([]model.Recipe, 0, len(items))
	for i, item := range items {
		if err := x.validate.Struct(item); err != nil {
			return nil, newError(KindSchemaMismatch, fmt.Sprintf("recipe %d", i), err)
		}
		r := model.Recipe{
			Name:         *item.Name,
			Description:  *item.Description,
			Ingredients:  item.Ingredients,
			Instructions: item.Instructions,
			CookingTime:  *item.CookingTime,
			Difficulty:   model.Difficulty(*item.Difficulty),
			Servings:     *item.Servings,
			Tags:         dedupeTags(item.Tags),
		}
		if item.ImageURL != nil {
			r.ImageURL = *item.ImageURL
		}
		if n := item.NutritionInfo; n != nil {
			r.NutritionInfo = &model.NutritionInfo{
				Calories: *n.Calories,
				Protein:  *n.Protein,
				Carbs:    *n.Carbs,
				Fat:      *n.Fat,
				Fiber:    n.Fiber,
			}
		}
		x.warnRanges(r)
		out = append(out, r)
	}
	return out, nil
}

func (x *ResponseExtractor) decode(raw string, dst interface{}) error {
	payload, err := structuredPayload(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return newError(KindSchemaMismatch, "payload does not match schema", err)
	}
	return nil
}

// structuredPayload returns the text from the first '[' to the last ']'
// inclusive. It does not balance brackets.
func structuredPayload(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < 0 || end < start {
		return "", newError(KindNoStructuredPayload, "no JSON array in model reply", nil)
	}
	return raw[start : end+1], nil
}

// Out-of-range numbers are kept as decoded; they are only logged.
func (x *ResponseExtractor) warnRanges(r model.Recipe) {
	var problems []string
	if r.CookingTime < 0 {
		problems = append(problems, "cookingTime")
	}
	if r.Servings <= 0 {
		problems = append(problems, "servings")
	}
	if r.NutritionInfo != nil && r.NutritionInfo.HasNegative() {
		problems = append(problems, "nutritionInfo")
	}
	if len(problems) > 0 {
		x.log.WithFields(logrus.Fields{
			"recipe": r.Name,
			"fields": problems,
		}).Warn("recipe values out of range")
	}
}

// dedupeTags drops repeated tags, keeping first-seen order.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
