package analysis

// AnalyzeRequest is the payload of POST /v1/meals/analyze.
type AnalyzeRequest struct {
	Image                 string `json:"image"`
	IncludeMicronutrients bool   `json:"include_micronutrients"`
}

// FoodItem is one identified food in the photo.
type FoodItem struct {
	Name     string  `json:"name"`
	Portion  string  `json:"portion"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Totals aggregates the per-food values. Always recomputed from the
// normalized foods, never taken from the model output.
type Totals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Micronutrients is the optional detail block for premium analyses.
type Micronutrients struct {
	VitaminA float64 `json:"vitaminA"`
	VitaminC float64 `json:"vitaminC"`
	VitaminD float64 `json:"vitaminD"`
	Calcium  float64 `json:"calcium"`
	Iron     float64 `json:"iron"`
	Fiber    float64 `json:"fiber"`
}

// MealAnalysis is the normalized analysis returned to the client.
type MealAnalysis struct {
	Foods          []FoodItem      `json:"foods"`
	Totals         Totals          `json:"totals"`
	Micronutrients *Micronutrients `json:"micronutrients,omitempty"`
	Notes          string          `json:"notes"`
}
