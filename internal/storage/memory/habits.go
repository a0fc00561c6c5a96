package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

type completionKey struct {
	habitID uuid.UUID
	date    string
}

// HabitsMemoryStorage is the in-memory implementation of HabitsStorage.
type HabitsMemoryStorage struct {
	mu          sync.RWMutex
	habits      map[uuid.UUID]storage.Habit
	completions map[completionKey]storage.HabitCompletion
}

func NewHabitsMemoryStorage() *HabitsMemoryStorage {
	return &HabitsMemoryStorage{
		habits:      make(map[uuid.UUID]storage.Habit),
		completions: make(map[completionKey]storage.HabitCompletion),
	}
}

func (s *HabitsMemoryStorage) CreateHabit(ctx context.Context, habit *storage.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = habit.CreatedAt

	s.habits[habit.ID] = *habit

	return nil
}

func (s *HabitsMemoryStorage) GetHabit(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habit, ok := s.habits[id]
	if !ok || habit.OwnerUserID != ownerUserID {
		return nil, ErrNotFound
	}

	return &habit, nil
}

func (s *HabitsMemoryStorage) ListHabits(ctx context.Context, ownerUserID string) ([]storage.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habits := []storage.Habit{}
	for _, habit := range s.habits {
		if habit.OwnerUserID == ownerUserID {
			habits = append(habits, habit)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (s *HabitsMemoryStorage) UpdateHabit(ctx context.Context, habit *storage.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.habits[habit.ID]
	if !ok || existing.OwnerUserID != habit.OwnerUserID {
		return ErrNotFound
	}

	habit.CreatedAt = existing.CreatedAt
	habit.UpdatedAt = time.Now()
	s.habits[habit.ID] = *habit

	return nil
}

func (s *HabitsMemoryStorage) DeleteHabit(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit, ok := s.habits[id]
	if !ok || habit.OwnerUserID != ownerUserID {
		return ErrNotFound
	}

	delete(s.habits, id)
	for key := range s.completions {
		if key.habitID == id {
			delete(s.completions, key)
		}
	}

	return nil
}

func (s *HabitsMemoryStorage) ToggleCompletion(ctx context.Context, ownerUserID string, habitID uuid.UUID, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit, ok := s.habits[habitID]
	if !ok || habit.OwnerUserID != ownerUserID {
		return false, ErrNotFound
	}

	key := completionKey{habitID: habitID, date: date}
	if _, done := s.completions[key]; done {
		delete(s.completions, key)
		return false, nil
	}

	s.completions[key] = storage.HabitCompletion{
		HabitID:     habitID,
		OwnerUserID: ownerUserID,
		Date:        date,
		CreatedAt:   time.Now(),
	}

	return true, nil
}

func (s *HabitsMemoryStorage) ListCompletions(ctx context.Context, ownerUserID, date string) ([]storage.HabitCompletion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completions := []storage.HabitCompletion{}
	for _, completion := range s.completions {
		if completion.OwnerUserID == ownerUserID && completion.Date == date {
			completions = append(completions, completion)
		}
	}

	return completions, nil
}

func (s *HabitsMemoryStorage) PointsTotal(ctx context.Context, ownerUserID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, completion := range s.completions {
		if completion.OwnerUserID != ownerUserID {
			continue
		}
		if habit, ok := s.habits[completion.HabitID]; ok {
			total += habit.Points
		}
	}

	return total, nil
}
