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

var (
	ErrNotFound = errors.New("not found")
)

// PostgresStorage is the Postgres implementation of storage.Storage.
type PostgresStorage struct {
	pool          *pgxpool.Pool
	habits        *PostgresHabitsStorage
	workouts      *PostgresWorkoutsStorage
	subscriptions *PostgresSubscriptionsStorage
	photos        *PostgresPhotosStorage
	reports       *PostgresReportsStorage
}

// New connects to Postgres and pings it.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:          pool,
		habits:        NewPostgresHabitsStorage(pool),
		workouts:      NewPostgresWorkoutsStorage(pool),
		subscriptions: NewPostgresSubscriptionsStorage(pool),
		photos:        NewPostgresPhotosStorage(pool),
		reports:       NewPostgresReportsStorage(pool),
	}, nil
}

// MealsStorage methods

func (p *PostgresStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}

	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	query := `
		INSERT INTO meals (id, owner_user_id, name, meal_type, date, calories, protein, carbs, fat, completed, source, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := p.pool.Exec(ctx, query,
		meal.ID,
		meal.OwnerUserID,
		meal.Name,
		meal.MealType,
		meal.Date,
		meal.Calories,
		meal.Protein,
		meal.Carbs,
		meal.Fat,
		meal.Completed,
		meal.Source,
		meal.Notes,
		meal.CreatedAt,
		meal.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) GetMeal(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Meal, error) {
	query := `
		SELECT id, owner_user_id, name, meal_type, date, calories, protein, carbs, fat, completed, source, notes, created_at, updated_at
		FROM meals
		WHERE id = $1 AND owner_user_id = $2
	`

	var meal storage.Meal
	err := p.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&meal.ID,
		&meal.OwnerUserID,
		&meal.Name,
		&meal.MealType,
		&meal.Date,
		&meal.Calories,
		&meal.Protein,
		&meal.Carbs,
		&meal.Fat,
		&meal.Completed,
		&meal.Source,
		&meal.Notes,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &meal, nil
}

func (p *PostgresStorage) ListMealsByDate(ctx context.Context, ownerUserID, date string) ([]storage.Meal, error) {
	query := `
		SELECT id, owner_user_id, name, meal_type, date, calories, protein, carbs, fat, completed, source, notes, created_at, updated_at
		FROM meals
		WHERE owner_user_id = $1 AND date = $2
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerUserID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := []storage.Meal{}
	for rows.Next() {
		var meal storage.Meal
		err := rows.Scan(
			&meal.ID,
			&meal.OwnerUserID,
			&meal.Name,
			&meal.MealType,
			&meal.Date,
			&meal.Calories,
			&meal.Protein,
			&meal.Carbs,
			&meal.Fat,
			&meal.Completed,
			&meal.Source,
			&meal.Notes,
			&meal.CreatedAt,
			&meal.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}

	return meals, rows.Err()
}

func (p *PostgresStorage) UpdateMeal(ctx context.Context, meal *storage.Meal) error {
	meal.UpdatedAt = time.Now()

	query := `
		UPDATE meals
		SET name = $3, meal_type = $4, date = $5, calories = $6, protein = $7, carbs = $8, fat = $9, completed = $10, source = $11, notes = $12, updated_at = $13
		WHERE id = $1 AND owner_user_id = $2
	`

	result, err := p.pool.Exec(ctx, query,
		meal.ID,
		meal.OwnerUserID,
		meal.Name,
		meal.MealType,
		meal.Date,
		meal.Calories,
		meal.Protein,
		meal.Carbs,
		meal.Fat,
		meal.Completed,
		meal.Source,
		meal.Notes,
		meal.UpdatedAt,
	)

	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteMeal(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	query := `DELETE FROM meals WHERE id = $1 AND owner_user_id = $2`

	result, err := p.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) CountMealsByDate(ctx context.Context, ownerUserID, date string) (int, error) {
	query := `SELECT COUNT(*) FROM meals WHERE owner_user_id = $1 AND date = $2`

	var count int
	if err := p.pool.QueryRow(ctx, query, ownerUserID, date).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// HabitsStorage methods - delegate to embedded habits storage

func (p *PostgresStorage) CreateHabit(ctx context.Context, habit *storage.Habit) error {
	return p.habits.CreateHabit(ctx, habit)
}

func (p *PostgresStorage) GetHabit(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Habit, error) {
	return p.habits.GetHabit(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListHabits(ctx context.Context, ownerUserID string) ([]storage.Habit, error) {
	return p.habits.ListHabits(ctx, ownerUserID)
}

func (p *PostgresStorage) UpdateHabit(ctx context.Context, habit *storage.Habit) error {
	return p.habits.UpdateHabit(ctx, habit)
}

func (p *PostgresStorage) DeleteHabit(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return p.habits.DeleteHabit(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ToggleCompletion(ctx context.Context, ownerUserID string, habitID uuid.UUID, date string) (bool, error) {
	return p.habits.ToggleCompletion(ctx, ownerUserID, habitID, date)
}

func (p *PostgresStorage) ListCompletions(ctx context.Context, ownerUserID, date string) ([]storage.HabitCompletion, error) {
	return p.habits.ListCompletions(ctx, ownerUserID, date)
}

func (p *PostgresStorage) PointsTotal(ctx context.Context, ownerUserID string) (int, error) {
	return p.habits.PointsTotal(ctx, ownerUserID)
}

// WorkoutsStorage methods - delegate to embedded workouts storage

func (p *PostgresStorage) CreateSession(ctx context.Context, session *storage.WorkoutSession) error {
	return p.workouts.CreateSession(ctx, session)
}

func (p *PostgresStorage) GetSession(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.WorkoutSession, error) {
	return p.workouts.GetSession(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListSessions(ctx context.Context, ownerUserID, from, to string) ([]storage.WorkoutSession, error) {
	return p.workouts.ListSessions(ctx, ownerUserID, from, to)
}

func (p *PostgresStorage) DeleteSession(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return p.workouts.DeleteSession(ctx, ownerUserID, id)
}

func (p *PostgresStorage) CountSessionsInRange(ctx context.Context, ownerUserID, from, to string) (int, error) {
	return p.workouts.CountSessionsInRange(ctx, ownerUserID, from, to)
}

// SubscriptionStorage methods - delegate to embedded subscriptions storage

func (p *PostgresStorage) GetSubscription(ctx context.Context, ownerUserID string) (*storage.Subscription, error) {
	return p.subscriptions.GetSubscription(ctx, ownerUserID)
}

func (p *PostgresStorage) UpsertSubscription(ctx context.Context, sub *storage.Subscription) error {
	return p.subscriptions.UpsertSubscription(ctx, sub)
}

func (p *PostgresStorage) RecordAnalysis(ctx context.Context, ownerUserID, month string) error {
	return p.subscriptions.RecordAnalysis(ctx, ownerUserID, month)
}

func (p *PostgresStorage) CountAnalyses(ctx context.Context, ownerUserID, month string) (int, error) {
	return p.subscriptions.CountAnalyses(ctx, ownerUserID, month)
}

// PhotosStorage methods - delegate to embedded photos storage

func (p *PostgresStorage) CreatePhoto(ctx context.Context, photo *storage.ProgressPhoto) error {
	return p.photos.CreatePhoto(ctx, photo)
}

func (p *PostgresStorage) GetPhoto(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ProgressPhoto, error) {
	return p.photos.GetPhoto(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListPhotos(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ProgressPhoto, error) {
	return p.photos.ListPhotos(ctx, ownerUserID, limit, offset)
}

func (p *PostgresStorage) DeletePhoto(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return p.photos.DeletePhoto(ctx, ownerUserID, id)
}

// ReportsStorage methods - delegate to embedded reports storage

func (p *PostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return p.reports.CreateReport(ctx, report)
}

func (p *PostgresStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	return p.reports.GetReport(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	return p.reports.ListReports(ctx, ownerUserID, limit, offset)
}

func (p *PostgresStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return p.reports.DeleteReport(ctx, ownerUserID, id)
}
