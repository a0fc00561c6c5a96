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

// PostgresWorkoutsStorage is the Postgres implementation of WorkoutsStorage.
type PostgresWorkoutsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresWorkoutsStorage(pool *pgxpool.Pool) *PostgresWorkoutsStorage {
	return &PostgresWorkoutsStorage{pool: pool}
}

func (s *PostgresWorkoutsStorage) CreateSession(ctx context.Context, session *storage.WorkoutSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()

	query := `
		INSERT INTO workout_sessions (id, owner_user_id, activity, intensity, duration_minutes, weight_kg, calories_burned, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		session.ID,
		session.OwnerUserID,
		session.Activity,
		session.Intensity,
		session.DurationMinutes,
		session.WeightKg,
		session.CaloriesBurned,
		session.Date,
		session.CreatedAt,
	)

	return err
}

func (s *PostgresWorkoutsStorage) GetSession(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.WorkoutSession, error) {
	query := `
		SELECT id, owner_user_id, activity, intensity, duration_minutes, weight_kg, calories_burned, date, created_at
		FROM workout_sessions
		WHERE id = $1 AND owner_user_id = $2
	`

	var session storage.WorkoutSession
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&session.ID,
		&session.OwnerUserID,
		&session.Activity,
		&session.Intensity,
		&session.DurationMinutes,
		&session.WeightKg,
		&session.CaloriesBurned,
		&session.Date,
		&session.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *PostgresWorkoutsStorage) ListSessions(ctx context.Context, ownerUserID, from, to string) ([]storage.WorkoutSession, error) {
	query := `
		SELECT id, owner_user_id, activity, intensity, duration_minutes, weight_kg, calories_burned, date, created_at
		FROM workout_sessions
		WHERE owner_user_id = $1
		  AND ($2 = '' OR date >= $2)
		  AND ($3 = '' OR date <= $3)
		ORDER BY date ASC, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []storage.WorkoutSession{}
	for rows.Next() {
		var session storage.WorkoutSession
		err := rows.Scan(
			&session.ID,
			&session.OwnerUserID,
			&session.Activity,
			&session.Intensity,
			&session.DurationMinutes,
			&session.WeightKg,
			&session.CaloriesBurned,
			&session.Date,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (s *PostgresWorkoutsStorage) DeleteSession(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	query := `DELETE FROM workout_sessions WHERE id = $1 AND owner_user_id = $2`

	result, err := s.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresWorkoutsStorage) CountSessionsInRange(ctx context.Context, ownerUserID, from, to string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workout_sessions
		WHERE owner_user_id = $1
		  AND ($2 = '' OR date >= $2)
		  AND ($3 = '' OR date <= $3)
	`

	var count int
	if err := s.pool.QueryRow(ctx, query, ownerUserID, from, to).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
