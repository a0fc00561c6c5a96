package workouts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

var (
	ErrNotFound     = errors.New("session_not_found")
	ErrLimitReached = errors.New("workout_limit_reached")
)

// PlanLimiter answers how many workouts the user's plan allows per week.
// A zero or negative limit means unlimited.
type PlanLimiter interface {
	WorkoutsPerWeekLimit(ctx context.Context, ownerUserID string) (int, error)
}

// Service handles workout session business logic.
type Service struct {
	storage storage.WorkoutsStorage
	limiter PlanLimiter
}

// NewService creates a new workouts service.
func NewService(storage storage.WorkoutsStorage, limiter PlanLimiter) *Service {
	return &Service{storage: storage, limiter: limiter}
}

// CaloriesBurned estimates the energy cost of a session using the MET
// formula: kcal = ((MET * 3.5 * weightKg) / 200) * durationMinutes.
func CaloriesBurned(intensity string, weightKg float64, durationMinutes int) int {
	met, ok := metByIntensity[intensity]
	if !ok {
		return 0
	}
	return int(math.Round(((met * 3.5 * weightKg) / 200) * float64(durationMinutes)))
}

// Create records a finished workout, enforcing the plan's weekly limit.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreateSessionRequest) (SessionDTO, error) {
	if err := req.Validate(); err != nil {
		return SessionDTO{}, fmt.Errorf("invalid_request: %w", err)
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if s.limiter != nil {
		limit, err := s.limiter.WorkoutsPerWeekLimit(ctx, ownerUserID)
		if err != nil {
			return SessionDTO{}, fmt.Errorf("failed to resolve plan limit: %w", err)
		}
		if limit > 0 {
			weekStart, weekEnd := weekBounds(date)
			count, err := s.storage.CountSessionsInRange(ctx, ownerUserID, weekStart, weekEnd)
			if err != nil {
				return SessionDTO{}, fmt.Errorf("failed to count sessions: %w", err)
			}
			if count >= limit {
				return SessionDTO{}, ErrLimitReached
			}
		}
	}

	session := storage.WorkoutSession{
		OwnerUserID:     ownerUserID,
		Activity:        req.Activity,
		Intensity:       req.Intensity,
		DurationMinutes: req.DurationMinutes,
		WeightKg:        req.WeightKg,
		CaloriesBurned:  CaloriesBurned(req.Intensity, req.WeightKg, req.DurationMinutes),
		Date:            date,
	}
	if err := s.storage.CreateSession(ctx, &session); err != nil {
		return SessionDTO{}, fmt.Errorf("failed to create session: %w", err)
	}

	return toDTO(session), nil
}

// List returns sessions in [from, to] with their total calorie burn.
func (s *Service) List(ctx context.Context, ownerUserID, from, to string) (ListSessionsResponse, error) {
	sessions, err := s.storage.ListSessions(ctx, ownerUserID, from, to)
	if err != nil {
		return ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := ListSessionsResponse{Sessions: make([]SessionDTO, 0, len(sessions))}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, toDTO(session))
		resp.TotalCaloriesBurned += session.CaloriesBurned
	}

	return resp, nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	if err := s.storage.DeleteSession(ctx, ownerUserID, id); err != nil {
		return ErrNotFound
	}
	return nil
}

// weekBounds returns the Monday and Sunday of the week containing date.
func weekBounds(date string) (string, string) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		day = time.Now()
	}

	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	monday := day.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)

	return monday.Format("2006-01-02"), sunday.Format("2006-01-02")
}

func toDTO(session storage.WorkoutSession) SessionDTO {
	return SessionDTO{
		ID:              session.ID,
		Activity:        session.Activity,
		Intensity:       session.Intensity,
		DurationMinutes: session.DurationMinutes,
		WeightKg:        session.WeightKg,
		CaloriesBurned:  session.CaloriesBurned,
		Date:            session.Date,
		CreatedAt:       session.CreatedAt,
	}
}
