package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type SubscriptionStore interface {
	GetByUserID(ctx context.Context, userID int64) (model.Subscription, error)
	Upsert(ctx context.Context, tx pgx.Tx, userID int64, start, end time.Time) (model.Subscription, error)
}

type UserStore interface {
	SetPremium(ctx context.Context, tx pgx.Tx, userID int64, premium bool) error
	Get(ctx context.Context, userID int64) (model.UserProfile, error)
}

type Config struct {
	PremiumDuration time.Duration
}

type Service struct {
	store SubscriptionStore
	users UserStore
	cfg   Config
	runTx func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now   func() time.Time
}

func NewService(pool *pgxpool.Pool, store SubscriptionStore, users UserStore, cfg Config) *Service {
	if cfg.PremiumDuration <= 0 {
		cfg.PremiumDuration = 30 * 24 * time.Hour
	}

	return &Service{
		store: store,
		users: users,
		cfg:   cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		now: time.Now,
	}
}

// Upgrade starts or renews the premium window from now. Renewal
// rewrites the window rather than stacking remaining days, mirroring
// upstream billing behavior.
func (s *Service) Upgrade(ctx context.Context, userID int64) (model.Subscription, error) {
	if userID <= 0 {
		return model.Subscription{}, ErrValidation
	}
	if s.store == nil || s.users == nil {
		return model.Subscription{}, fmt.Errorf("subscription dependencies are not configured")
	}

	now := s.now().UTC()
	var sub model.Subscription
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		created, err := s.store.Upsert(txCtx, tx, userID, now, now.Add(s.cfg.PremiumDuration))
		if err != nil {
			return err
		}
		sub = created
		return s.users.SetPremium(txCtx, tx, userID, true)
	}); err != nil {
		return model.Subscription{}, err
	}

	return sub, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Subscription, error) {
	if userID <= 0 {
		return model.Subscription{}, ErrValidation
	}
	if s.store == nil {
		return model.Subscription{}, fmt.Errorf("subscription store is nil")
	}

	return s.store.GetByUserID(ctx, userID)
}

// IsPremiumActive resolves premium status lazily at decision time: the
// subscription window is authoritative when present, the user's
// is_premium flag covers accounts that never had a subscription row.
// Nothing is demoted in storage; an elapsed window simply stops
// granting premium.
func (s *Service) IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error) {
	if userID <= 0 {
		return false, ErrValidation
	}
	if s.store == nil || s.users == nil {
		return false, fmt.Errorf("subscription dependencies are not configured")
	}

	sub, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSubscriptionNotFound) {
			user, err := s.users.Get(ctx, userID)
			if err != nil {
				return false, err
			}
			return user.IsPremium, nil
		}
		return false, err
	}

	if !sub.IsActive {
		return false, nil
	}
	if sub.EndDate != nil && !sub.EndDate.After(at) {
		return false, nil
	}
	return true, nil
}
