package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/blob"
	"github.com/mrocha88/fitapp/internal/storage"
)

var (
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedMime = errors.New("unsupported mime type")
)

// Service handles progress photo business logic.
type Service struct {
	photosStorage     storage.PhotosStorage
	blobStore         blob.Store
	localMode         bool // true if no S3 configured
	publicBaseURL     string
	presignTTLSeconds int
	maxUploadMB       int
	allowedMimes      []string
}

// NewService creates a new photos service. A nil blob store selects local
// mode, where photo bytes live in the storage layer.
func NewService(photosStorage storage.PhotosStorage, blobStore blob.Store, maxUploadMB int, allowedMimes, publicBaseURL string, presignTTLSeconds int) *Service {
	mimes := strings.Split(allowedMimes, ",")
	for i, m := range mimes {
		mimes[i] = strings.TrimSpace(m)
	}

	return &Service{
		photosStorage:     photosStorage,
		blobStore:         blobStore,
		localMode:         blobStore == nil,
		publicBaseURL:     publicBaseURL,
		presignTTLSeconds: presignTTLSeconds,
		maxUploadMB:       maxUploadMB,
		allowedMimes:      mimes,
	}
}

// Upload stores an uploaded progress photo.
func (s *Service) Upload(ctx context.Context, ownerUserID, note string, fileHeader *multipart.FileHeader) (PhotoDTO, error) {
	maxBytes := int64(s.maxUploadMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return PhotoDTO{}, ErrFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !s.isAllowedMime(contentType) {
		return PhotoDTO{}, ErrUnsupportedMime
	}

	file, err := fileHeader.Open()
	if err != nil {
		return PhotoDTO{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return PhotoDTO{}, fmt.Errorf("failed to read file: %w", err)
	}

	photo := storage.ProgressPhoto{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
		Note:        note,
	}

	if s.localMode {
		photo.Data = data
		if err := s.photosStorage.CreatePhoto(ctx, &photo); err != nil {
			return PhotoDTO{}, fmt.Errorf("failed to store photo: %w", err)
		}
	} else {
		objectKey := fmt.Sprintf("photos/%s/%s", ownerUserID, photo.ID.String())
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType); err != nil {
			return PhotoDTO{}, fmt.Errorf("failed to upload to S3: %w", err)
		}

		photo.ObjectKey = &objectKey
		if err := s.photosStorage.CreatePhoto(ctx, &photo); err != nil {
			_ = s.blobStore.DeleteObject(ctx, objectKey)
			return PhotoDTO{}, fmt.Errorf("failed to store photo: %w", err)
		}
	}

	return toDTO(photo), nil
}

// List returns the user's photos, newest first.
func (s *Service) List(ctx context.Context, ownerUserID string, limit, offset int) ([]PhotoDTO, error) {
	photos, err := s.photosStorage.ListPhotos(ctx, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	dtos := make([]PhotoDTO, 0, len(photos))
	for _, photo := range photos {
		dtos = append(dtos, toDTO(photo))
	}
	return dtos, nil
}

// DownloadURL returns the download URL and whether the handler should
// redirect (true for S3, false for local serving).
func (s *Service) DownloadURL(ctx context.Context, ownerUserID string, id uuid.UUID) (string, bool, error) {
	photo, err := s.photosStorage.GetPhoto(ctx, ownerUserID, id)
	if err != nil {
		return "", false, ErrPhotoNotFound
	}

	if s.localMode {
		return "", false, nil
	}

	if photo.ObjectKey == nil || *photo.ObjectKey == "" {
		return "", false, errors.New("object key not found")
	}

	if s.publicBaseURL != "" {
		publicURL := strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *photo.ObjectKey
		return publicURL, true, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *photo.ObjectKey, s.presignTTLSeconds)
	if err != nil {
		return "", false, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL, true, nil
}

// Data returns the photo bytes and content type for local serving.
func (s *Service) Data(ctx context.Context, ownerUserID string, id uuid.UUID) ([]byte, string, error) {
	photo, err := s.photosStorage.GetPhoto(ctx, ownerUserID, id)
	if err != nil {
		return nil, "", ErrPhotoNotFound
	}

	if s.localMode {
		return photo.Data, photo.ContentType, nil
	}

	if photo.ObjectKey == nil || *photo.ObjectKey == "" {
		return nil, "", errors.New("object key not found")
	}

	data, err := s.blobStore.GetObject(ctx, *photo.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object from S3: %w", err)
	}
	return data, photo.ContentType, nil
}

// Delete removes a photo and its blob.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	photo, err := s.photosStorage.GetPhoto(ctx, ownerUserID, id)
	if err != nil {
		return ErrPhotoNotFound
	}

	if !s.localMode && photo.ObjectKey != nil && *photo.ObjectKey != "" {
		// Metadata deletion proceeds even if the blob delete fails.
		_ = s.blobStore.DeleteObject(ctx, *photo.ObjectKey)
	}

	return s.photosStorage.DeletePhoto(ctx, ownerUserID, id)
}

func (s *Service) isAllowedMime(contentType string) bool {
	for _, allowed := range s.allowedMimes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func toDTO(photo storage.ProgressPhoto) PhotoDTO {
	return PhotoDTO{
		ID:          photo.ID,
		ContentType: photo.ContentType,
		SizeBytes:   photo.SizeBytes,
		Note:        photo.Note,
		CreatedAt:   photo.CreatedAt,
	}
}
