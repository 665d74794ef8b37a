package gifts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrQuotaExceeded     = errors.New("gift quota exceeded")
)

type GiftStore interface {
	Create(ctx context.Context, tx pgx.Tx, gift model.Gift, at time.Time) (model.Gift, error)
	ListSent(ctx context.Context, senderID int64) ([]model.Gift, error)
	ListReceived(ctx context.Context, recipientID int64) ([]model.Gift, error)
}

type UserStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type QuotaStore interface {
	ResetPeriodIfExpiredTx(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (bool, error)
	ConsumeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, feature enums.Feature, limit int) (int, error)
	IncrementUse(ctx context.Context, tx pgx.Tx, userID int64, feature enums.Feature) (int, error)
}

type PremiumChecker interface {
	IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error)
}

type Config struct {
	GiftsPerMonth int
	LimitPolicy   enums.LimitPolicy
	FeeCents      int64
}

type Dependencies struct {
	Pool    *pgxpool.Pool
	Gifts   GiftStore
	Users   UserStore
	Quota   QuotaStore
	Premium PremiumChecker
	Logger  *zap.Logger
	Config  Config
}

type Service struct {
	gifts   GiftStore
	users   UserStore
	quota   QuotaStore
	premium PremiumChecker
	logger  *zap.Logger
	cfg     Config
	runTx   func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now     func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.GiftsPerMonth <= 0 {
		cfg.GiftsPerMonth = rules.GiftsPerMonth
	}
	if cfg.LimitPolicy == "" {
		cfg.LimitPolicy = enums.LimitPolicyCharge
	}
	if cfg.FeeCents <= 0 {
		cfg.FeeCents = rules.GiftFeeCents
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := deps.Pool
	return &Service{
		gifts:   deps.Gifts,
		users:   deps.Users,
		quota:   deps.Quota,
		premium: deps.Premium,
		logger:  logger,
		cfg:     cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		now: time.Now,
	}
}

type SendInput struct {
	RecipientID int64
	GiftType    string
	Message     string
}

// Send delivers a gift from sender to recipient, consuming one unit of
// the monthly gift quota. Over-quota behavior follows the configured
// policy: deny rejects the send, charge applies the fee and lets it
// through. The counter update and the gift insert share a transaction,
// so a failed insert never burns quota. Premium senders bypass the
// quota and the fee.
func (s *Service) Send(ctx context.Context, senderID int64, input SendInput) (model.Gift, error) {
	if senderID <= 0 || input.RecipientID <= 0 {
		return model.Gift{}, ErrValidation
	}
	if input.RecipientID == senderID {
		return model.Gift{}, fmt.Errorf("%w: cannot gift yourself", ErrValidation)
	}
	if strings.TrimSpace(input.GiftType) == "" {
		return model.Gift{}, fmt.Errorf("%w: gift type is required", ErrValidation)
	}
	if s.gifts == nil || s.users == nil || s.quota == nil {
		return model.Gift{}, fmt.Errorf("gift dependencies are nil")
	}

	exists, err := s.users.Exists(ctx, input.RecipientID)
	if err != nil {
		return model.Gift{}, fmt.Errorf("check recipient: %w", err)
	}
	if !exists {
		return model.Gift{}, ErrRecipientNotFound
	}

	now := s.now().UTC()

	isPremium := false
	if s.premium != nil {
		isPremium, err = s.premium.IsPremiumActive(ctx, senderID, now)
		if err != nil {
			return model.Gift{}, fmt.Errorf("resolve premium status: %w", err)
		}
	}

	var created model.Gift
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := s.quota.ResetPeriodIfExpiredTx(txCtx, tx, senderID, now); err != nil {
			return err
		}

		var feeCents int64
		if !isPremium {
			_, err := s.quota.ConsumeWithLimit(txCtx, tx, senderID, enums.FeatureGifts, s.cfg.GiftsPerMonth)
			switch {
			case err == nil:
			case errors.Is(err, pgrepo.ErrFeatureLimitReached):
				if s.cfg.LimitPolicy == enums.LimitPolicyDeny {
					return ErrQuotaExceeded
				}
				feeCents = s.cfg.FeeCents
				if _, err := s.quota.IncrementUse(txCtx, tx, senderID, enums.FeatureGifts); err != nil {
					return err
				}
			default:
				return err
			}
		}

		gift := model.Gift{
			SenderID:    senderID,
			RecipientID: input.RecipientID,
			GiftType:    strings.TrimSpace(input.GiftType),
			Message:     strings.TrimSpace(input.Message),
			FeeCents:    feeCents,
			RedeemCode:  uuid.NewString(),
		}

		created, err = s.gifts.Create(txCtx, tx, gift, now)
		return err
	})
	if err != nil {
		return model.Gift{}, err
	}

	if created.FeeCents > 0 {
		s.logger.Info("gift sent over quota with fee",
			zap.Int64("sender_id", senderID),
			zap.Int64("fee_cents", created.FeeCents),
		)
	}

	return created, nil
}

func (s *Service) ListSent(ctx context.Context, userID int64) ([]model.Gift, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.gifts == nil {
		return nil, fmt.Errorf("gift store is nil")
	}
	return s.gifts.ListSent(ctx, userID)
}

func (s *Service) ListReceived(ctx context.Context, userID int64) ([]model.Gift, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.gifts == nil {
		return nil, fmt.Errorf("gift store is nil")
	}
	return s.gifts.ListReceived(ctx, userID)
}
