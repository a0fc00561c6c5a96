package habits

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

var ErrNotFound = errors.New("habit_not_found")

// Service handles habit tracking business logic.
type Service struct {
	storage storage.HabitsStorage
}

// NewService creates a new habits service.
func NewService(storage storage.HabitsStorage) *Service {
	return &Service{storage: storage}
}

// Create adds a new habit.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreateHabitRequest) (HabitDTO, error) {
	if err := req.Validate(); err != nil {
		return HabitDTO{}, fmt.Errorf("invalid_request: %w", err)
	}

	points := req.Points
	if points == 0 {
		points = defaultPoints
	}

	habit := storage.Habit{
		OwnerUserID: ownerUserID,
		Name:        req.Name,
		Icon:        req.Icon,
		Points:      points,
	}
	if err := s.storage.CreateHabit(ctx, &habit); err != nil {
		return HabitDTO{}, fmt.Errorf("failed to create habit: %w", err)
	}

	return toDTO(habit, false), nil
}

// List returns all habits with their completion state on the given date.
func (s *Service) List(ctx context.Context, ownerUserID, date string) ([]HabitDTO, error) {
	habits, err := s.storage.ListHabits(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	completions, err := s.storage.ListCompletions(ctx, ownerUserID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	done := make(map[uuid.UUID]bool, len(completions))
	for _, completion := range completions {
		done[completion.HabitID] = true
	}

	dtos := make([]HabitDTO, 0, len(habits))
	for _, habit := range habits {
		dtos = append(dtos, toDTO(habit, done[habit.ID]))
	}

	return dtos, nil
}

// Update applies a partial update to a habit.
func (s *Service) Update(ctx context.Context, ownerUserID string, id uuid.UUID, req UpdateHabitRequest) (HabitDTO, error) {
	habit, err := s.storage.GetHabit(ctx, ownerUserID, id)
	if err != nil {
		return HabitDTO{}, ErrNotFound
	}

	if req.Name != nil {
		if *req.Name == "" {
			return HabitDTO{}, fmt.Errorf("invalid_request: name is required")
		}
		habit.Name = *req.Name
	}
	if req.Icon != nil {
		habit.Icon = *req.Icon
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return HabitDTO{}, fmt.Errorf("invalid_request: points must be non-negative")
		}
		habit.Points = *req.Points
	}

	if err := s.storage.UpdateHabit(ctx, habit); err != nil {
		return HabitDTO{}, fmt.Errorf("failed to update habit: %w", err)
	}

	return toDTO(*habit, false), nil
}

// Delete removes a habit and its completions.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	if err := s.storage.DeleteHabit(ctx, ownerUserID, id); err != nil {
		return ErrNotFound
	}
	return nil
}

// Toggle flips a habit's completion on a date.
func (s *Service) Toggle(ctx context.Context, ownerUserID string, id uuid.UUID, date string) (ToggleResponse, error) {
	completed, err := s.storage.ToggleCompletion(ctx, ownerUserID, id, date)
	if err != nil {
		return ToggleResponse{}, ErrNotFound
	}

	return ToggleResponse{HabitID: id, Date: date, Completed: completed}, nil
}

// Points returns the accumulated points across all completions.
// The subscription service uses this total to compute loyalty discounts.
func (s *Service) Points(ctx context.Context, ownerUserID string) (int, error) {
	return s.storage.PointsTotal(ctx, ownerUserID)
}

func toDTO(habit storage.Habit, completedToday bool) HabitDTO {
	return HabitDTO{
		ID:             habit.ID,
		Name:           habit.Name,
		Icon:           habit.Icon,
		Points:         habit.Points,
		CompletedToday: completedToday,
		CreatedAt:      habit.CreatedAt,
		UpdatedAt:      habit.UpdatedAt,
	}
}
