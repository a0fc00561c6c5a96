package subscription

import "time"

const (
	PlanFree    = "free"
	PlanPremium = "premium"
	PlanPro     = "pro"
)

// PlanSpec describes one subscription tier. A limit of 0 means unlimited.
type PlanSpec struct {
	Name             string `json:"name"`
	PriceCents       int    `json:"price_cents"`
	MealsPerDay      int    `json:"meals_per_day"`
	WorkoutsPerWeek  int    `json:"workouts_per_week"`
	AnalysesPerMonth int    `json:"analyses_per_month"`
	Micronutrients   bool   `json:"micronutrients"`
	PDFReports       bool   `json:"pdf_reports"`
	CustomWorkouts   bool   `json:"custom_workouts"`
	AdvancedStats    bool   `json:"advanced_stats"`
	NutritionPlans   bool   `json:"nutrition_plans"`
	VideoExercises   bool   `json:"video_exercises"`
}

var plans = map[string]PlanSpec{
	PlanFree: {
		Name:             PlanFree,
		PriceCents:       0,
		MealsPerDay:      3,
		WorkoutsPerWeek:  2,
		AnalysesPerMonth: 5,
	},
	PlanPremium: {
		Name:             PlanPremium,
		PriceCents:       2990,
		MealsPerDay:      0,
		WorkoutsPerWeek:  0,
		AnalysesPerMonth: 50,
		Micronutrients:   true,
		PDFReports:       true,
		CustomWorkouts:   true,
		AdvancedStats:    true,
		VideoExercises:   true,
	},
	PlanPro: {
		Name:             PlanPro,
		PriceCents:       4990,
		MealsPerDay:      0,
		WorkoutsPerWeek:  0,
		AnalysesPerMonth: 0,
		Micronutrients:   true,
		PDFReports:       true,
		CustomWorkouts:   true,
		AdvancedStats:    true,
		NutritionPlans:   true,
		VideoExercises:   true,
	},
}

// Limit features accepted by GET /v1/subscription/limits.
const (
	LimitMeals    = "meals"
	LimitWorkouts = "workouts"
	LimitAnalyses = "analyses"
)

// ChangePlanRequest is the payload of PUT /v1/subscription/plan.
type ChangePlanRequest struct {
	Plan string `json:"plan"`
}

// LimitResponse answers a single limit query. A limit of 0 means the
// feature is unlimited on the current plan; Remaining is -1 then.
type LimitResponse struct {
	Feature   string `json:"feature"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Allowed   bool   `json:"allowed"`
}

// StatusResponse describes the user's current subscription.
type StatusResponse struct {
	Plan                    PlanSpec  `json:"plan"`
	StartedAt               time.Time `json:"started_at"`
	AnalysesUsedThisMonth   int       `json:"analyses_used_this_month"`
	Points                  int       `json:"points"`
	DiscountPercent         int       `json:"discount_percent"`
	PriceCentsAfterDiscount int       `json:"price_cents_after_discount"`
}
