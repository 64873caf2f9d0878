package model

import "math"

// Confidence tiers used by clients to colour detections.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Ingredient is a food item recognized in a photo.
type Ingredient struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
}

// ConfidencePercentage returns the confidence as a whole percentage.
func (i Ingredient) ConfidencePercentage() int {
	return int(math.Round(i.Confidence * 100))
}

// ConfidenceTier buckets the confidence into high, medium or low.
func (i Ingredient) ConfidenceTier() string {
	switch {
	case i.Confidence >= 0.9:
		return ConfidenceHigh
	case i.Confidence >= 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// IngredientNames returns the names in order.
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, i := range ingredients {
		names = append(names, i.Name)
	}
	return names
}
