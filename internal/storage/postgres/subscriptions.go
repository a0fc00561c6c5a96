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

// PostgresSubscriptionsStorage is the Postgres implementation of
// SubscriptionStorage.
type PostgresSubscriptionsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionsStorage(pool *pgxpool.Pool) *PostgresSubscriptionsStorage {
	return &PostgresSubscriptionsStorage{pool: pool}
}

func (s *PostgresSubscriptionsStorage) GetSubscription(ctx context.Context, ownerUserID string) (*storage.Subscription, error) {
	query := `
		SELECT id, owner_user_id, plan, started_at, updated_at
		FROM subscriptions
		WHERE owner_user_id = $1
	`

	var sub storage.Subscription
	err := s.pool.QueryRow(ctx, query, ownerUserID).Scan(
		&sub.ID,
		&sub.OwnerUserID,
		&sub.Plan,
		&sub.StartedAt,
		&sub.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (s *PostgresSubscriptionsStorage) UpsertSubscription(ctx context.Context, sub *storage.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	now := time.Now()
	sub.UpdatedAt = now
	if sub.StartedAt.IsZero() {
		sub.StartedAt = now
	}

	query := `
		INSERT INTO subscriptions (id, owner_user_id, plan, started_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_user_id)
		DO UPDATE SET plan = EXCLUDED.plan, updated_at = EXCLUDED.updated_at
		RETURNING id, started_at
	`

	return s.pool.QueryRow(ctx, query,
		sub.ID,
		sub.OwnerUserID,
		sub.Plan,
		sub.StartedAt,
		sub.UpdatedAt,
	).Scan(&sub.ID, &sub.StartedAt)
}

func (s *PostgresSubscriptionsStorage) RecordAnalysis(ctx context.Context, ownerUserID, month string) error {
	query := `
		INSERT INTO analysis_usage (owner_user_id, month, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (owner_user_id, month)
		DO UPDATE SET count = analysis_usage.count + 1
	`

	_, err := s.pool.Exec(ctx, query, ownerUserID, month)
	return err
}

func (s *PostgresSubscriptionsStorage) CountAnalyses(ctx context.Context, ownerUserID, month string) (int, error) {
	query := `SELECT count FROM analysis_usage WHERE owner_user_id = $1 AND month = $2`

	var count int
	err := s.pool.QueryRow(ctx, query, ownerUserID, month).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return count, nil
}
