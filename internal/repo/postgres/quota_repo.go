package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

var ErrFeatureLimitReached = errors.New("feature monthly limit reached")

// QuotaRepo mutates the per-user monthly counters that live on the
// user row. Every mutation is a single guarded UPDATE so the
// read-check-increment sequence for one user is atomic at the row
// level; cross-user operations never contend.
type QuotaRepo struct {
	pool *pgxpool.Pool
}

func NewQuotaRepo(pool *pgxpool.Pool) *QuotaRepo {
	return &QuotaRepo{pool: pool}
}

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func counterColumn(feature enums.Feature) (string, error) {
	switch feature {
	case enums.FeatureGifts:
		return "gift_count", nil
	case enums.FeatureFlights:
		return "flight_count", nil
	case enums.FeatureNews:
		return "news_count", nil
	default:
		return "", fmt.Errorf("unknown quota feature %q", feature)
	}
}

func (r *QuotaRepo) GetState(ctx context.Context, userID int64) (model.QuotaState, error) {
	if r.pool == nil {
		return model.QuotaState{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return model.QuotaState{}, fmt.Errorf("invalid user id")
	}

	var state model.QuotaState
	err := r.pool.QueryRow(ctx, `
SELECT gift_count, flight_count, news_count, last_reset
FROM users
WHERE id = $1
`, userID).Scan(&state.GiftsSent, &state.FlightsBooked, &state.NewsRequests, &state.LastReset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.QuotaState{}, ErrUserNotFound
		}
		return model.QuotaState{}, fmt.Errorf("get quota state: %w", err)
	}

	return state, nil
}

const resetPeriodSQL = `
UPDATE users
SET gift_count = 0, flight_count = 0, news_count = 0, last_reset = $2
WHERE id = $1
  AND (
	date_trunc('month', last_reset AT TIME ZONE 'UTC')
	  <> date_trunc('month', $2::timestamptz AT TIME ZONE 'UTC')
	OR last_reset > $2
  )
`

// ResetPeriodIfExpired zeroes all counters when the stored last_reset
// falls outside the current UTC calendar month (or sits in the
// future). The month guard in the WHERE clause makes the reset
// exactly-once under concurrent callers: the row lock serializes them
// and the losers re-evaluate the guard against the fresh last_reset.
func (r *QuotaRepo) ResetPeriodIfExpired(ctx context.Context, userID int64, now time.Time) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	return resetPeriod(ctx, r.pool, userID, now)
}

// ResetPeriodIfExpiredTx is the transactional variant used by the
// feature gates so the reset and the consume share one critical
// section.
func (r *QuotaRepo) ResetPeriodIfExpiredTx(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}
	return resetPeriod(ctx, tx, userID, now)
}

func resetPeriod(ctx context.Context, q rowQuerier, userID int64, now time.Time) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}

	tag, err := q.Exec(ctx, resetPeriodSQL, userID, now.UTC())
	if err != nil {
		return false, fmt.Errorf("reset quota period: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ConsumeWithLimit increments a feature counter only while it is below
// the cap. It reports ErrFeatureLimitReached when the cap is already
// met, leaving the counter untouched.
func (r *QuotaRepo) ConsumeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, feature enums.Feature, limit int) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || limit <= 0 {
		return 0, fmt.Errorf("invalid quota consume payload")
	}

	column, err := counterColumn(feature)
	if err != nil {
		return 0, err
	}

	var used int
	err = tx.QueryRow(ctx, fmt.Sprintf(`
UPDATE users
SET %[1]s = %[1]s + 1
WHERE id = $1 AND %[1]s < $2
RETURNING %[1]s
`, column), userID, limit).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrFeatureLimitReached
		}
		return 0, fmt.Errorf("consume %s quota: %w", feature, err)
	}

	return used, nil
}

// IncrementUse bumps a feature counter past its cap. Used by the
// charge-on-limit gift policy, where exhausted quota means a fee, not
// a denial, and the counter keeps recording usage.
func (r *QuotaRepo) IncrementUse(ctx context.Context, tx pgx.Tx, userID int64, feature enums.Feature) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	column, err := counterColumn(feature)
	if err != nil {
		return 0, err
	}

	var used int
	err = tx.QueryRow(ctx, fmt.Sprintf(`
UPDATE users
SET %[1]s = %[1]s + 1
WHERE id = $1
RETURNING %[1]s
`, column), userID).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("increment %s usage: %w", feature, err)
	}

	return used, nil
}
