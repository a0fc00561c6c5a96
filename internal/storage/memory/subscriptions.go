package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

type usageKey struct {
	ownerUserID string
	month       string // YYYY-MM
}

// SubscriptionsMemoryStorage is the in-memory implementation of
// SubscriptionStorage.
type SubscriptionsMemoryStorage struct {
	mu            sync.RWMutex
	subscriptions map[string]storage.Subscription // by owner user id
	analysisUsage map[usageKey]int
}

func NewSubscriptionsMemoryStorage() *SubscriptionsMemoryStorage {
	return &SubscriptionsMemoryStorage{
		subscriptions: make(map[string]storage.Subscription),
		analysisUsage: make(map[usageKey]int),
	}
}

func (s *SubscriptionsMemoryStorage) GetSubscription(ctx context.Context, ownerUserID string) (*storage.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscriptions[ownerUserID]
	if !ok {
		return nil, nil
	}

	return &sub, nil
}

func (s *SubscriptionsMemoryStorage) UpsertSubscription(ctx context.Context, sub *storage.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.subscriptions[sub.OwnerUserID]; ok {
		sub.ID = existing.ID
		sub.StartedAt = existing.StartedAt
	} else {
		if sub.ID == uuid.Nil {
			sub.ID = uuid.New()
		}
		sub.StartedAt = time.Now()
	}
	sub.UpdatedAt = time.Now()

	s.subscriptions[sub.OwnerUserID] = *sub

	return nil
}

func (s *SubscriptionsMemoryStorage) RecordAnalysis(ctx context.Context, ownerUserID, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysisUsage[usageKey{ownerUserID: ownerUserID, month: month}]++

	return nil
}

func (s *SubscriptionsMemoryStorage) CountAnalyses(ctx context.Context, ownerUserID, month string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.analysisUsage[usageKey{ownerUserID: ownerUserID, month: month}], nil
}
