package model

// NutritionInfo represents nutrition information for one serving.
type NutritionInfo struct {
	Calories int      `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber,omitempty"`
}

// HasNegative reports whether any value is below zero.
func (n NutritionInfo) HasNegative() bool {
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		return true
	}
	return n.Fiber != nil && *n.Fiber < 0
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 {
	return &v
}
