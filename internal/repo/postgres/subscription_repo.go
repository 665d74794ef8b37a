package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

func (r *SubscriptionRepo) GetByUserID(ctx context.Context, userID int64) (model.Subscription, error) {
	if r.pool == nil {
		return model.Subscription{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return model.Subscription{}, fmt.Errorf("invalid user id")
	}

	var sub model.Subscription
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, start_date, end_date, is_active
FROM subscriptions
WHERE user_id = $1
`, userID).Scan(&sub.ID, &sub.UserID, &sub.StartDate, &sub.EndDate, &sub.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Subscription{}, ErrSubscriptionNotFound
		}
		return model.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}

	return sub, nil
}

// Upsert creates the user's subscription window or renews the existing
// one. Subscriptions are never deleted, renewal rewrites the window.
func (r *SubscriptionRepo) Upsert(ctx context.Context, tx pgx.Tx, userID int64, start, end time.Time) (model.Subscription, error) {
	if tx == nil {
		return model.Subscription{}, fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return model.Subscription{}, fmt.Errorf("invalid user id")
	}

	sub := model.Subscription{
		UserID:    userID,
		StartDate: start.UTC(),
		IsActive:  true,
	}
	endUTC := end.UTC()
	sub.EndDate = &endUTC

	err := tx.QueryRow(ctx, `
INSERT INTO subscriptions (user_id, start_date, end_date, is_active)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (user_id) DO UPDATE SET
	start_date = EXCLUDED.start_date,
	end_date = EXCLUDED.end_date,
	is_active = TRUE
RETURNING id
`, userID, sub.StartDate, endUTC).Scan(&sub.ID)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("upsert subscription: %w", err)
	}

	return sub, nil
}
