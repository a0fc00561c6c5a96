package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

// ReportsMemoryStorage is the in-memory implementation of ReportsStorage.
// Report bytes live in the ReportMeta.Data field.
type ReportsMemoryStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]storage.ReportMeta
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{
		reports: make(map[uuid.UUID]storage.ReportMeta),
	}
}

func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()

	s.reports[report.ID] = *report

	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok || report.OwnerUserID != ownerUserID {
		return nil, ErrNotFound
	}

	return &report, nil
}

func (s *ReportsMemoryStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := []storage.ReportMeta{}
	for _, report := range s.reports {
		if report.OwnerUserID == ownerUserID {
			// Listings carry metadata only.
			report.Data = nil
			reports = append(reports, report)
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})

	if offset >= len(reports) {
		return []storage.ReportMeta{}, nil
	}
	reports = reports[offset:]
	if limit > 0 && limit < len(reports) {
		reports = reports[:limit]
	}

	return reports, nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok || report.OwnerUserID != ownerUserID {
		return ErrNotFound
	}

	delete(s.reports, id)

	return nil
}
