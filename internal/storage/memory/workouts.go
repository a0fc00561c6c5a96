package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

// WorkoutsMemoryStorage is the in-memory implementation of WorkoutsStorage.
type WorkoutsMemoryStorage struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]storage.WorkoutSession
}

func NewWorkoutsMemoryStorage() *WorkoutsMemoryStorage {
	return &WorkoutsMemoryStorage{
		sessions: make(map[uuid.UUID]storage.WorkoutSession),
	}
}

func (s *WorkoutsMemoryStorage) CreateSession(ctx context.Context, session *storage.WorkoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()

	s.sessions[session.ID] = *session

	return nil
}

func (s *WorkoutsMemoryStorage) GetSession(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.OwnerUserID != ownerUserID {
		return nil, ErrNotFound
	}

	return &session, nil
}

func (s *WorkoutsMemoryStorage) ListSessions(ctx context.Context, ownerUserID, from, to string) ([]storage.WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := []storage.WorkoutSession{}
	for _, session := range s.sessions {
		if session.OwnerUserID != ownerUserID {
			continue
		}
		if from != "" && session.Date < from {
			continue
		}
		if to != "" && session.Date > to {
			continue
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions, nil
}

func (s *WorkoutsMemoryStorage) DeleteSession(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.OwnerUserID != ownerUserID {
		return ErrNotFound
	}

	delete(s.sessions, id)

	return nil
}

func (s *WorkoutsMemoryStorage) CountSessionsInRange(ctx context.Context, ownerUserID, from, to string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, session := range s.sessions {
		if session.OwnerUserID != ownerUserID {
			continue
		}
		if from != "" && session.Date < from {
			continue
		}
		if to != "" && session.Date > to {
			continue
		}
		count++
	}

	return count, nil
}
