package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

type GiftRepo struct {
	pool *pgxpool.Pool
}

func NewGiftRepo(pool *pgxpool.Pool) *GiftRepo {
	return &GiftRepo{pool: pool}
}

func (r *GiftRepo) Create(ctx context.Context, tx pgx.Tx, gift model.Gift, at time.Time) (model.Gift, error) {
	if tx == nil {
		return model.Gift{}, fmt.Errorf("transaction is required")
	}
	if gift.SenderID <= 0 || gift.RecipientID <= 0 {
		return model.Gift{}, fmt.Errorf("invalid gift payload")
	}

	gift.CreatedAt = at.UTC()
	err := tx.QueryRow(ctx, `
INSERT INTO gifts (sender_id, recipient_id, gift_type, message, fee_cents, redeem_code, redeemed, created_at)
VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
RETURNING id
`, gift.SenderID, gift.RecipientID, gift.GiftType, gift.Message, gift.FeeCents, gift.RedeemCode, gift.CreatedAt).Scan(&gift.ID)
	if err != nil {
		return model.Gift{}, fmt.Errorf("create gift: %w", err)
	}

	return gift, nil
}

func (r *GiftRepo) ListSent(ctx context.Context, senderID int64) ([]model.Gift, error) {
	return r.list(ctx, "sender_id", senderID)
}

func (r *GiftRepo) ListReceived(ctx context.Context, recipientID int64) ([]model.Gift, error) {
	return r.list(ctx, "recipient_id", recipientID)
}

func (r *GiftRepo) list(ctx context.Context, column string, userID int64) ([]model.Gift, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
SELECT id, sender_id, recipient_id, gift_type, message, fee_cents, redeem_code, redeemed, created_at
FROM gifts
WHERE %s = $1
ORDER BY created_at DESC
`, column), userID)
	if err != nil {
		return nil, fmt.Errorf("list gifts by %s: %w", column, err)
	}
	defer rows.Close()

	var gifts []model.Gift
	for rows.Next() {
		var gift model.Gift
		err := rows.Scan(
			&gift.ID,
			&gift.SenderID,
			&gift.RecipientID,
			&gift.GiftType,
			&gift.Message,
			&gift.FeeCents,
			&gift.RedeemCode,
			&gift.Redeemed,
			&gift.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan gift row: %w", err)
		}
		gifts = append(gifts, gift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gift rows: %w", err)
	}

	return gifts, nil
}
