package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/storage"
)

// PhotosMemoryStorage is the in-memory implementation of PhotosStorage.
// Photo bytes live in the ProgressPhoto.Data field.
type PhotosMemoryStorage struct {
	mu     sync.RWMutex
	photos map[uuid.UUID]storage.ProgressPhoto
}

func NewPhotosMemoryStorage() *PhotosMemoryStorage {
	return &PhotosMemoryStorage{
		photos: make(map[uuid.UUID]storage.ProgressPhoto),
	}
}

func (s *PhotosMemoryStorage) CreatePhoto(ctx context.Context, photo *storage.ProgressPhoto) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	photo.CreatedAt = time.Now()

	s.photos[photo.ID] = *photo

	return nil
}

func (s *PhotosMemoryStorage) GetPhoto(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ProgressPhoto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	photo, ok := s.photos[id]
	if !ok || photo.OwnerUserID != ownerUserID {
		return nil, ErrNotFound
	}

	return &photo, nil
}

func (s *PhotosMemoryStorage) ListPhotos(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ProgressPhoto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	photos := []storage.ProgressPhoto{}
	for _, photo := range s.photos {
		if photo.OwnerUserID == ownerUserID {
			// Listings carry metadata only.
			photo.Data = nil
			photos = append(photos, photo)
		}
	}

	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})

	if offset >= len(photos) {
		return []storage.ProgressPhoto{}, nil
	}
	photos = photos[offset:]
	if limit > 0 && limit < len(photos) {
		photos = photos[:limit]
	}

	return photos, nil
}

func (s *PhotosMemoryStorage) DeletePhoto(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo, ok := s.photos[id]
	if !ok || photo.OwnerUserID != ownerUserID {
		return ErrNotFound
	}

	delete(s.photos, id)

	return nil
}
