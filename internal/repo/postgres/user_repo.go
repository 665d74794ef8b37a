package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, uid, email, display_name, latitude, longitude, interests,
	is_premium, gift_count, flight_count, news_count, last_reset, created_at`

func scanUser(row pgx.Row) (model.UserProfile, error) {
	var (
		user         model.UserProfile
		rawInterests []byte
	)
	err := row.Scan(
		&user.ID,
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&user.Latitude,
		&user.Longitude,
		&rawInterests,
		&user.IsPremium,
		&user.Quota.GiftsSent,
		&user.Quota.FlightsBooked,
		&user.Quota.NewsRequests,
		&user.Quota.LastReset,
		&user.CreatedAt,
	)
	if err != nil {
		return model.UserProfile{}, err
	}

	// Malformed stored interests degrade to an empty set, never an error.
	user.Interests = rules.ParseTags(rawInterests)
	return user, nil
}

func (r *UserRepo) Get(ctx context.Context, userID int64) (model.UserProfile, error) {
	if r.pool == nil {
		return model.UserProfile{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return model.UserProfile{}, fmt.Errorf("invalid user id")
	}

	user, err := scanUser(r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = $1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserProfile{}, ErrUserNotFound
		}
		return model.UserProfile{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// ListOthers returns every user except the given one. The result is a
// read-only snapshot for the match scan; staleness of a few seconds is
// acceptable.
func (r *UserRepo) ListOthers(ctx context.Context, excludeUserID int64) ([]model.UserProfile, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	pgxRows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id <> $1
ORDER BY id
`, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer pgxRows.Close()

	var users []model.UserProfile
	for pgxRows.Next() {
		user, err := scanUser(pgxRows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := pgxRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepo) UpdateLocation(ctx context.Context, userID int64, lat, lon float64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET latitude = $2, longitude = $3
WHERE id = $1
`, userID, lat, lon)
	if err != nil {
		return fmt.Errorf("update user location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) UpdateInterests(ctx context.Context, userID int64, interests []string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	encoded, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET interests = $2
WHERE id = $1
`, userID, encoded)
	if err != nil {
		return fmt.Errorf("update user interests: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) SetPremium(ctx context.Context, tx pgx.Tx, userID int64, premium bool) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	tag, err := tx.Exec(ctx, `
UPDATE users
SET is_premium = $2
WHERE id = $1
`, userID, premium)
	if err != nil {
		return fmt.Errorf("set user premium flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}
