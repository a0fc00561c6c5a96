package meals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

var (
	ErrNotFound     = errors.New("meal_not_found")
	ErrLimitReached = errors.New("meal_limit_reached")
)

// PlanLimiter answers how many meals the user's plan allows per day.
// A zero or negative limit means unlimited.
type PlanLimiter interface {
	MealsPerDayLimit(ctx context.Context, ownerUserID string) (int, error)
}

// Service handles meal logging business logic.
type Service struct {
	storage storage.MealsStorage
	limiter PlanLimiter
}

// NewService creates a new meals service.
func NewService(storage storage.MealsStorage, limiter PlanLimiter) *Service {
	return &Service{storage: storage, limiter: limiter}
}

// Create logs a new meal, enforcing the plan's daily limit.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreateMealRequest) (MealDTO, error) {
	if err := req.Validate(); err != nil {
		return MealDTO{}, fmt.Errorf("invalid_request: %w", err)
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if s.limiter != nil {
		limit, err := s.limiter.MealsPerDayLimit(ctx, ownerUserID)
		if err != nil {
			return MealDTO{}, fmt.Errorf("failed to resolve plan limit: %w", err)
		}
		if limit > 0 {
			count, err := s.storage.CountMealsByDate(ctx, ownerUserID, date)
			if err != nil {
				return MealDTO{}, fmt.Errorf("failed to count meals: %w", err)
			}
			if count >= limit {
				return MealDTO{}, ErrLimitReached
			}
		}
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	meal := storage.Meal{
		OwnerUserID: ownerUserID,
		Name:        req.Name,
		MealType:    req.MealType,
		Date:        date,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		Source:      source,
		Notes:       req.Notes,
	}
	if err := s.storage.CreateMeal(ctx, &meal); err != nil {
		return MealDTO{}, fmt.Errorf("failed to create meal: %w", err)
	}

	return toDTO(meal), nil
}

// Get returns one meal by id.
func (s *Service) Get(ctx context.Context, ownerUserID string, id uuid.UUID) (MealDTO, error) {
	meal, err := s.storage.GetMeal(ctx, ownerUserID, id)
	if err != nil {
		return MealDTO{}, ErrNotFound
	}
	return toDTO(*meal), nil
}

// ListDay returns all meals on a date with consumed/planned aggregates.
func (s *Service) ListDay(ctx context.Context, ownerUserID, date string) (DaySummary, error) {
	meals, err := s.storage.ListMealsByDate(ctx, ownerUserID, date)
	if err != nil {
		return DaySummary{}, fmt.Errorf("failed to list meals: %w", err)
	}

	summary := DaySummary{Date: date, Meals: make([]MealDTO, 0, len(meals))}
	for _, meal := range meals {
		summary.Meals = append(summary.Meals, toDTO(meal))
		summary.PlannedCalories += meal.Calories
		if meal.Completed {
			summary.ConsumedCalories += meal.Calories
			summary.ConsumedProtein += meal.Protein
			summary.ConsumedCarbs += meal.Carbs
			summary.ConsumedFat += meal.Fat
		}
	}

	return summary, nil
}

// Update applies a partial update to a meal.
func (s *Service) Update(ctx context.Context, ownerUserID string, id uuid.UUID, req UpdateMealRequest) (MealDTO, error) {
	meal, err := s.storage.GetMeal(ctx, ownerUserID, id)
	if err != nil {
		return MealDTO{}, ErrNotFound
	}

	if req.Name != nil {
		meal.Name = *req.Name
	}
	if req.MealType != nil {
		if !validMealTypes[*req.MealType] {
			return MealDTO{}, fmt.Errorf("invalid_request: meal_type must be one of breakfast, lunch, dinner, snack")
		}
		meal.MealType = *req.MealType
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			return MealDTO{}, fmt.Errorf("invalid_request: date must be YYYY-MM-DD")
		}
		meal.Date = *req.Date
	}
	if req.Calories != nil {
		meal.Calories = *req.Calories
	}
	if req.Protein != nil {
		meal.Protein = *req.Protein
	}
	if req.Carbs != nil {
		meal.Carbs = *req.Carbs
	}
	if req.Fat != nil {
		meal.Fat = *req.Fat
	}
	if req.Completed != nil {
		meal.Completed = *req.Completed
	}
	if req.Notes != nil {
		meal.Notes = *req.Notes
	}

	if err := s.storage.UpdateMeal(ctx, meal); err != nil {
		return MealDTO{}, fmt.Errorf("failed to update meal: %w", err)
	}

	return toDTO(*meal), nil
}

// Delete removes a meal.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	if err := s.storage.DeleteMeal(ctx, ownerUserID, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func toDTO(meal storage.Meal) MealDTO {
	return MealDTO{
		ID:        meal.ID,
		Name:      meal.Name,
		MealType:  meal.MealType,
		Date:      meal.Date,
		Calories:  meal.Calories,
		Protein:   meal.Protein,
		Carbs:     meal.Carbs,
		Fat:       meal.Fat,
		Completed: meal.Completed,
		Source:    meal.Source,
		Notes:     meal.Notes,
		CreatedAt: meal.CreatedAt,
		UpdatedAt: meal.UpdatedAt,
	}
}
