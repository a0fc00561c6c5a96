package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

var (
	ErrNotFound = errors.New("not found")
)

// MemoryStorage is the in-memory implementation of storage.Storage.
// Used in local development and tests, and as the fallback when no
// DATABASE_URL is configured.
type MemoryStorage struct {
	mu            sync.RWMutex
	meals         map[uuid.UUID]storage.Meal
	habits        *HabitsMemoryStorage
	workouts      *WorkoutsMemoryStorage
	subscriptions *SubscriptionsMemoryStorage
	photos        *PhotosMemoryStorage
	reports       *ReportsMemoryStorage
}

// New creates an empty MemoryStorage.
func New() *MemoryStorage {
	return &MemoryStorage{
		meals:         make(map[uuid.UUID]storage.Meal),
		habits:        NewHabitsMemoryStorage(),
		workouts:      NewWorkoutsMemoryStorage(),
		subscriptions: NewSubscriptionsMemoryStorage(),
		photos:        NewPhotosMemoryStorage(),
		reports:       NewReportsMemoryStorage(),
	}
}

// MealsStorage methods

func (m *MemoryStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = meal.CreatedAt

	m.meals[meal.ID] = *meal

	return nil
}

func (m *MemoryStorage) GetMeal(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return nil, ErrNotFound
	}

	return &meal, nil
}

func (m *MemoryStorage) ListMealsByDate(ctx context.Context, ownerUserID, date string) ([]storage.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meals := []storage.Meal{}
	for _, meal := range m.meals {
		if meal.OwnerUserID == ownerUserID && meal.Date == date {
			meals = append(meals, meal)
		}
	}

	sortMealsByCreatedAt(meals)

	return meals, nil
}

func (m *MemoryStorage) UpdateMeal(ctx context.Context, meal *storage.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.meals[meal.ID]
	if !ok || existing.OwnerUserID != meal.OwnerUserID {
		return ErrNotFound
	}

	meal.CreatedAt = existing.CreatedAt
	meal.UpdatedAt = time.Now()
	m.meals[meal.ID] = *meal

	return nil
}

func (m *MemoryStorage) DeleteMeal(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return ErrNotFound
	}

	delete(m.meals, id)

	return nil
}

func (m *MemoryStorage) CountMealsByDate(ctx context.Context, ownerUserID, date string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, meal := range m.meals {
		if meal.OwnerUserID == ownerUserID && meal.Date == date {
			count++
		}
	}

	return count, nil
}

func sortMealsByCreatedAt(meals []storage.Meal) {
	sort.Slice(meals, func(i, j int) bool {
		return meals[i].CreatedAt.Before(meals[j].CreatedAt)
	})
}

func (m *MemoryStorage) Close() error {
	// no-op for memory
	return nil
}

// HabitsStorage methods - delegate to embedded habits storage

func (m *MemoryStorage) CreateHabit(ctx context.Context, habit *storage.Habit) error {
	return m.habits.CreateHabit(ctx, habit)
}

func (m *MemoryStorage) GetHabit(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Habit, error) {
	return m.habits.GetHabit(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListHabits(ctx context.Context, ownerUserID string) ([]storage.Habit, error) {
	return m.habits.ListHabits(ctx, ownerUserID)
}

func (m *MemoryStorage) UpdateHabit(ctx context.Context, habit *storage.Habit) error {
	return m.habits.UpdateHabit(ctx, habit)
}

func (m *MemoryStorage) DeleteHabit(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return m.habits.DeleteHabit(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ToggleCompletion(ctx context.Context, ownerUserID string, habitID uuid.UUID, date string) (bool, error) {
	return m.habits.ToggleCompletion(ctx, ownerUserID, habitID, date)
}

func (m *MemoryStorage) ListCompletions(ctx context.Context, ownerUserID, date string) ([]storage.HabitCompletion, error) {
	return m.habits.ListCompletions(ctx, ownerUserID, date)
}

func (m *MemoryStorage) PointsTotal(ctx context.Context, ownerUserID string) (int, error) {
	return m.habits.PointsTotal(ctx, ownerUserID)
}

// WorkoutsStorage methods - delegate to embedded workouts storage

func (m *MemoryStorage) CreateSession(ctx context.Context, session *storage.WorkoutSession) error {
	return m.workouts.CreateSession(ctx, session)
}

func (m *MemoryStorage) GetSession(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.WorkoutSession, error) {
	return m.workouts.GetSession(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListSessions(ctx context.Context, ownerUserID, from, to string) ([]storage.WorkoutSession, error) {
	return m.workouts.ListSessions(ctx, ownerUserID, from, to)
}

func (m *MemoryStorage) DeleteSession(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return m.workouts.DeleteSession(ctx, ownerUserID, id)
}

func (m *MemoryStorage) CountSessionsInRange(ctx context.Context, ownerUserID, from, to string) (int, error) {
	return m.workouts.CountSessionsInRange(ctx, ownerUserID, from, to)
}

// SubscriptionStorage methods - delegate to embedded subscriptions storage

func (m *MemoryStorage) GetSubscription(ctx context.Context, ownerUserID string) (*storage.Subscription, error) {
	return m.subscriptions.GetSubscription(ctx, ownerUserID)
}

func (m *MemoryStorage) UpsertSubscription(ctx context.Context, sub *storage.Subscription) error {
	return m.subscriptions.UpsertSubscription(ctx, sub)
}

func (m *MemoryStorage) RecordAnalysis(ctx context.Context, ownerUserID, month string) error {
	return m.subscriptions.RecordAnalysis(ctx, ownerUserID, month)
}

func (m *MemoryStorage) CountAnalyses(ctx context.Context, ownerUserID, month string) (int, error) {
	return m.subscriptions.CountAnalyses(ctx, ownerUserID, month)
}

// PhotosStorage methods - delegate to embedded photos storage

func (m *MemoryStorage) CreatePhoto(ctx context.Context, photo *storage.ProgressPhoto) error {
	return m.photos.CreatePhoto(ctx, photo)
}

func (m *MemoryStorage) GetPhoto(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ProgressPhoto, error) {
	return m.photos.GetPhoto(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListPhotos(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ProgressPhoto, error) {
	return m.photos.ListPhotos(ctx, ownerUserID, limit, offset)
}

func (m *MemoryStorage) DeletePhoto(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return m.photos.DeletePhoto(ctx, ownerUserID, id)
}

// ReportsStorage methods - delegate to embedded reports storage

func (m *MemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return m.reports.CreateReport(ctx, report)
}

func (m *MemoryStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	return m.reports.GetReport(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	return m.reports.ListReports(ctx, ownerUserID, limit, offset)
}

func (m *MemoryStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return m.reports.DeleteReport(ctx, ownerUserID, id)
}
