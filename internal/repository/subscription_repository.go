package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// SubscriptionRepository handles subscription data access.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// GetLatestByUser retrieves the user's most recent subscription regardless of
// status.
func (r *SubscriptionRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, plan, status, start_date, end_date, auto_renew, created_at
		 FROM subscriptions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &s.StartDate, &s.EndDate, &s.AutoRenew, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, s *model.Subscription) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, plan, status, start_date, end_date, auto_renew)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.UserID, s.Plan, s.Status, s.StartDate, s.EndDate, s.AutoRenew,
	).Scan(&s.ID, &s.CreatedAt)
}

// DisableAutoRenew turns off renewal while keeping the subscription active
// until its end date.
func (r *SubscriptionRepository) DisableAutoRenew(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET auto_renew = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SwitchPlan moves a subscription to a new plan with a fresh billing period.
func (r *SubscriptionRepository) SwitchPlan(ctx context.Context, id uuid.UUID, plan model.SubscriptionPlan, start, end time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions
		 SET plan = $1, status = 'active', start_date = $2, end_date = $3, auto_renew = TRUE
		 WHERE id = $4`, plan, start, end, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus changes a subscription's status.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
