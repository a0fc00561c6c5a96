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

// PostgresReportsStorage is the Postgres implementation of ReportsStorage.
// Report bytes live in the blob store; only metadata is stored here.
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()

	query := `
		INSERT INTO reports (id, owner_user_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		report.ID,
		report.OwnerUserID,
		report.Format,
		report.FromDate,
		report.ToDate,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Error,
		report.CreatedAt,
	)

	return err
}

func (s *PostgresReportsStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, owner_user_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at
		FROM reports
		WHERE id = $1 AND owner_user_id = $2
	`

	var report storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&report.ID,
		&report.OwnerUserID,
		&report.Format,
		&report.FromDate,
		&report.ToDate,
		&report.ObjectKey,
		&report.SizeBytes,
		&report.Status,
		&report.Error,
		&report.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *PostgresReportsStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, owner_user_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at
		FROM reports
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var report storage.ReportMeta
		err := rows.Scan(
			&report.ID,
			&report.OwnerUserID,
			&report.Format,
			&report.FromDate,
			&report.ToDate,
			&report.ObjectKey,
			&report.SizeBytes,
			&report.Status,
			&report.Error,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	query := `DELETE FROM reports WHERE id = $1 AND owner_user_id = $2`

	result, err := s.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
