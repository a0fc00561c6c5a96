package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrocha88/fitapp/internal/storage"
)

// PostgresPhotosStorage is the Postgres implementation of PhotosStorage.
// Photo bytes live in the blob store; only metadata is stored here.
type PostgresPhotosStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresPhotosStorage(pool *pgxpool.Pool) *PostgresPhotosStorage {
	return &PostgresPhotosStorage{pool: pool}
}

func (s *PostgresPhotosStorage) CreatePhoto(ctx context.Context, photo *storage.ProgressPhoto) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	photo.CreatedAt = time.Now()

	query := `
		INSERT INTO progress_photos (id, owner_user_id, object_key, content_type, size_bytes, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		photo.ID,
		photo.OwnerUserID,
		photo.ObjectKey,
		photo.ContentType,
		photo.SizeBytes,
		photo.Note,
		photo.CreatedAt,
	)

	return err
}

func (s *PostgresPhotosStorage) GetPhoto(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ProgressPhoto, error) {
	query := `
		SELECT id, owner_user_id, object_key, content_type, size_bytes, note, created_at
		FROM progress_photos
		WHERE id = $1 AND owner_user_id = $2
	`

	var photo storage.ProgressPhoto
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&photo.ID,
		&photo.OwnerUserID,
		&photo.ObjectKey,
		&photo.ContentType,
		&photo.SizeBytes,
		&photo.Note,
		&photo.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &photo, nil
}

func (s *PostgresPhotosStorage) ListPhotos(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ProgressPhoto, error) {
	query := `
		SELECT id, owner_user_id, object_key, content_type, size_bytes, note, created_at
		FROM progress_photos
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []storage.ProgressPhoto{}
	for rows.Next() {
		var photo storage.ProgressPhoto
		err := rows.Scan(
			&photo.ID,
			&photo.OwnerUserID,
			&photo.ObjectKey,
			&photo.ContentType,
			&photo.SizeBytes,
			&photo.Note,
			&photo.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

func (s *PostgresPhotosStorage) DeletePhoto(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	query := `DELETE FROM progress_photos WHERE id = $1 AND owner_user_id = $2`

	result, err := s.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
