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

// PostgresHabitsStorage is the Postgres implementation of HabitsStorage.
type PostgresHabitsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresHabitsStorage(pool *pgxpool.Pool) *PostgresHabitsStorage {
	return &PostgresHabitsStorage{pool: pool}
}

func (s *PostgresHabitsStorage) CreateHabit(ctx context.Context, habit *storage.Habit) error {
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}

	now := time.Now()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	query := `
		INSERT INTO habits (id, owner_user_id, name, icon, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		habit.ID,
		habit.OwnerUserID,
		habit.Name,
		habit.Icon,
		habit.Points,
		habit.CreatedAt,
		habit.UpdatedAt,
	)

	return err
}

func (s *PostgresHabitsStorage) GetHabit(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Habit, error) {
	query := `
		SELECT id, owner_user_id, name, icon, points, created_at, updated_at
		FROM habits
		WHERE id = $1 AND owner_user_id = $2
	`

	var habit storage.Habit
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&habit.ID,
		&habit.OwnerUserID,
		&habit.Name,
		&habit.Icon,
		&habit.Points,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &habit, nil
}

func (s *PostgresHabitsStorage) ListHabits(ctx context.Context, ownerUserID string) ([]storage.Habit, error) {
	query := `
		SELECT id, owner_user_id, name, icon, points, created_at, updated_at
		FROM habits
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []storage.Habit{}
	for rows.Next() {
		var habit storage.Habit
		err := rows.Scan(
			&habit.ID,
			&habit.OwnerUserID,
			&habit.Name,
			&habit.Icon,
			&habit.Points,
			&habit.CreatedAt,
			&habit.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	return habits, rows.Err()
}

func (s *PostgresHabitsStorage) UpdateHabit(ctx context.Context, habit *storage.Habit) error {
	habit.UpdatedAt = time.Now()

	query := `
		UPDATE habits
		SET name = $3, icon = $4, points = $5, updated_at = $6
		WHERE id = $1 AND owner_user_id = $2
	`

	result, err := s.pool.Exec(ctx, query,
		habit.ID,
		habit.OwnerUserID,
		habit.Name,
		habit.Icon,
		habit.Points,
		habit.UpdatedAt,
	)

	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresHabitsStorage) DeleteHabit(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	query := `DELETE FROM habits WHERE id = $1 AND owner_user_id = $2`

	result, err := s.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresHabitsStorage) ToggleCompletion(ctx context.Context, ownerUserID string, habitID uuid.UUID, date string) (bool, error) {
	// Ownership check first so a foreign habit reads as not found.
	if _, err := s.GetHabit(ctx, ownerUserID, habitID); err != nil {
		return false, err
	}

	deleteQuery := `
		DELETE FROM habit_completions
		WHERE habit_id = $1 AND owner_user_id = $2 AND date = $3
	`

	result, err := s.pool.Exec(ctx, deleteQuery, habitID, ownerUserID, date)
	if err != nil {
		return false, err
	}
	if result.RowsAffected() > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO habit_completions (habit_id, owner_user_id, date, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT DO NOTHING
	`

	if _, err := s.pool.Exec(ctx, insertQuery, habitID, ownerUserID, date); err != nil {
		return false, err
	}

	return true, nil
}

func (s *PostgresHabitsStorage) ListCompletions(ctx context.Context, ownerUserID, date string) ([]storage.HabitCompletion, error) {
	query := `
		SELECT habit_id, owner_user_id, date, created_at
		FROM habit_completions
		WHERE owner_user_id = $1 AND date = $2
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []storage.HabitCompletion{}
	for rows.Next() {
		var completion storage.HabitCompletion
		err := rows.Scan(
			&completion.HabitID,
			&completion.OwnerUserID,
			&completion.Date,
			&completion.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		completions = append(completions, completion)
	}

	return completions, rows.Err()
}

func (s *PostgresHabitsStorage) PointsTotal(ctx context.Context, ownerUserID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(h.points), 0)
		FROM habit_completions hc
		JOIN habits h ON h.id = hc.habit_id
		WHERE hc.owner_user_id = $1
	`

	var total int
	if err := s.pool.QueryRow(ctx, query, ownerUserID).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
