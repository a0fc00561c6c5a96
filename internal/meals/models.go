package meals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

var validSources = map[string]bool{
	"manual": true,
	"photo":  true,
}

// CreateMealRequest is the payload of POST /v1/meals.
type CreateMealRequest struct {
	Name     string  `json:"name"`
	MealType string  `json:"meal_type"`
	Date     string  `json:"date"` // YYYY-MM-DD, defaults to today
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Source   string  `json:"source"` // manual|photo, defaults to manual
	Notes    string  `json:"notes"`
}

// Validate checks the request fields.
func (r CreateMealRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validMealTypes[r.MealType] {
		return fmt.Errorf("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	if r.Calories < 0 || r.Protein < 0 || r.Carbs < 0 || r.Fat < 0 {
		return fmt.Errorf("nutritional values must be non-negative")
	}
	if r.Source != "" && !validSources[r.Source] {
		return fmt.Errorf("source must be manual or photo")
	}
	return nil
}

// UpdateMealRequest is the payload of PUT /v1/meals/{id}. Nil fields are
// left unchanged.
type UpdateMealRequest struct {
	Name      *string  `json:"name"`
	MealType  *string  `json:"meal_type"`
	Date      *string  `json:"date"`
	Calories  *int     `json:"calories"`
	Protein   *float64 `json:"protein"`
	Carbs     *float64 `json:"carbs"`
	Fat       *float64 `json:"fat"`
	Completed *bool    `json:"completed"`
	Notes     *string  `json:"notes"`
}

// MealDTO is one meal in API responses.
type MealDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MealType  string    `json:"meal_type"`
	Date      string    `json:"date"`
	Calories  int       `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Completed bool      `json:"completed"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DaySummary aggregates one day of meals. Consumed values count only
// completed meals; planned values count everything.
type DaySummary struct {
	Date             string    `json:"date"`
	Meals            []MealDTO `json:"meals"`
	PlannedCalories  int       `json:"planned_calories"`
	ConsumedCalories int       `json:"consumed_calories"`
	ConsumedProtein  float64   `json:"consumed_protein"`
	ConsumedCarbs    float64   `json:"consumed_carbs"`
	ConsumedFat      float64   `json:"consumed_fat"`
}
