package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty is the model's free-form difficulty label. It is not validated
// at decode time; ParseDifficulty normalizes the common spellings.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty maps a label onto Easy, Medium or Hard. ok is false for
// anything else.
func ParseDifficulty(s string) (d Difficulty, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner", "simple":
		return DifficultyEasy, true
	case "medium", "moderate", "intermediate":
		return DifficultyMedium, true
	case "hard", "difficult", "advanced":
		return DifficultyHard, true
	}
	return Difficulty(s), false
}

// AllTags is the tag filter value that matches every recipe.
const AllTags = "All"

// Recipe is a suggested recipe. Instructions are in execution order.
type Recipe struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Ingredients   []string       `json:"ingredients"`
	Instructions  []string       `json:"instructions"`
	CookingTime   int            `json:"cookingTime"`
	Difficulty    Difficulty     `json:"difficulty"`
	Servings      int            `json:"servings"`
	ImageURL      string         `json:"imageURL,omitempty"`
	Tags          []string       `json:"tags"`
	NutritionInfo *NutritionInfo `json:"nutritionInfo,omitempty"`
}

// FormattedCookingTime renders the cooking time as "25 min", "1h" or "1h 30m".
func (r Recipe) FormattedCookingTime() string {
	if r.CookingTime < 60 {
		return fmt.Sprintf("%d min", r.CookingTime)
	}
	hours := r.CookingTime / 60
	minutes := r.CookingTime % 60
	if minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}

// Matches reports whether query appears, case-insensitively, in the name,
// description or any ingredient. An empty query matches everything.
func (r Recipe) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

// HasTag reports whether the recipe carries tag. Tags compare exactly.
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FilterRecipes returns the recipes matching query and tag, preserving order.
// A tag of "" or AllTags disables tag filtering.
func FilterRecipes(recipes []Recipe, query, tag string) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if !r.Matches(query) {
			continue
		}
		if tag != "" && tag != AllTags && !r.HasTag(tag) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Clone returns a deep copy so callers can mutate slices freely.
func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = cloneStrings(r.Ingredients)
	c.Instructions = cloneStrings(r.Instructions)
	c.Tags = cloneStrings(r.Tags)
	if r.NutritionInfo != nil {
		n := *r.NutritionInfo
		if n.Fiber != nil {
			n.Fiber = Float(*n.Fiber)
		}
		c.NutritionInfo = &n
	}
	return c
}

// Normalized returns a copy whose nil sequences are empty instead.
func (r Recipe) Normalized() Recipe {
	c := r
	c.Ingredients = emptyIfNil(r.Ingredients)
	c.Instructions = emptyIfNil(r.Instructions)
	c.Tags = emptyIfNil(r.Tags)
	return c
}

// MarshalJSON encodes nil sequences as [] so the wire decoder accepts them.
func (r Recipe) MarshalJSON() ([]byte, error) {
	type wire Recipe
	return json.Marshal(wire(r.Normalized()))
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// RecipePayload stores a serialized Recipe opaquely in a text column.
type RecipePayload Recipe

// Value implements the driver.Valuer interface
func (p RecipePayload) Value() (driver.Value, error) {
	data, err := json.Marshal(Recipe(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (p *RecipePayload) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*p = RecipePayload{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported payload type %T", value)
	}

	var r Recipe
	if err := json.Unmarshal(bytes, &r); err != nil {
		return err
	}
	*p = RecipePayload(r)
	return nil
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}
