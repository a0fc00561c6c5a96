package habits

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultPoints = 10

// CreateHabitRequest is the payload of POST /v1/habits.
type CreateHabitRequest struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Points int    `json:"points"` // defaults to 10
}

// Validate checks the request fields.
func (r CreateHabitRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Points < 0 {
		return fmt.Errorf("points must be non-negative")
	}
	return nil
}

// UpdateHabitRequest is the payload of PUT /v1/habits/{id}. Nil fields are
// left unchanged.
type UpdateHabitRequest struct {
	Name   *string `json:"name"`
	Icon   *string `json:"icon"`
	Points *int    `json:"points"`
}

// HabitDTO is one habit in API responses. CompletedToday reflects the
// date the listing was requested for.
type HabitDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Icon           string    `json:"icon"`
	Points         int       `json:"points"`
	CompletedToday bool      `json:"completed_today"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToggleResponse reports the new completion state after a toggle.
type ToggleResponse struct {
	HabitID   uuid.UUID `json:"habit_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
}

// PointsResponse carries the accumulated loyalty points.
type PointsResponse struct {
	Points int `json:"points"`
}
