package workouts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var metByIntensity = map[string]float64{
	"light":    3.5,
	"moderate": 5.5,
	"intense":  8.0,
}

// CreateSessionRequest is the payload of POST /v1/workouts.
type CreateSessionRequest struct {
	Activity        string  `json:"activity"`
	Intensity       string  `json:"intensity"` // light | moderate | intense
	DurationMinutes int     `json:"duration_minutes"`
	WeightKg        float64 `json:"weight_kg"`
	Date            string  `json:"date"` // YYYY-MM-DD, defaults to today
}

// Validate checks the request fields.
func (r CreateSessionRequest) Validate() error {
	if r.Activity == "" {
		return fmt.Errorf("activity is required")
	}
	if _, ok := metByIntensity[r.Intensity]; !ok {
		return fmt.Errorf("intensity must be one of light, moderate, intense")
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("duration_minutes must be positive")
	}
	if r.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be positive")
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	return nil
}

// SessionDTO is one workout session in API responses.
type SessionDTO struct {
	ID              uuid.UUID `json:"id"`
	Activity        string    `json:"activity"`
	Intensity       string    `json:"intensity"`
	DurationMinutes int       `json:"duration_minutes"`
	WeightKg        float64   `json:"weight_kg"`
	CaloriesBurned  int       `json:"calories_burned"`
	Date            string    `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListSessionsResponse wraps a session listing with its total burn.
type ListSessionsResponse struct {
	Sessions            []SessionDTO `json:"sessions"`
	TotalCaloriesBurned int          `json:"total_calories_burned"`
}
