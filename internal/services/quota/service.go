package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrUnknownFeature = errors.New("unknown feature")
)

// Unlimited marks a remaining count that has no cap (premium users).
const Unlimited = -1

const (
	ReasonOK             = "ok"
	ReasonPremium        = "premium"
	ReasonQuotaExhausted = "quota_exhausted"
)

type QuotaStore interface {
	GetState(ctx context.Context, userID int64) (model.QuotaState, error)
	ResetPeriodIfExpired(ctx context.Context, userID int64, now time.Time) (bool, error)
}

type PremiumChecker interface {
	IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error)
}

type Config struct {
	GiftsPerMonth   int
	FlightsPerMonth int
	NewsPerMonth    int
}

// Decision is the side-effect-free answer to "may this user invoke
// this feature right now", usable before committing to an expensive
// action.
type Decision struct {
	Allowed   bool
	Reason    string
	Remaining int
}

type Snapshot struct {
	GiftsRemaining   int
	FlightsRemaining int
	NewsRemaining    int
	IsPremium        bool
	ResetsAt         time.Time
}

type Service struct {
	store   QuotaStore
	premium PremiumChecker
	cfg     Config
	now     func() time.Time
}

func NewService(store QuotaStore, premium PremiumChecker, cfg Config) *Service {
	if cfg.GiftsPerMonth <= 0 {
		cfg.GiftsPerMonth = rules.GiftsPerMonth
	}
	if cfg.FlightsPerMonth <= 0 {
		cfg.FlightsPerMonth = rules.FlightsPerMonth
	}
	if cfg.NewsPerMonth <= 0 {
		cfg.NewsPerMonth = rules.NewsPerMonth
	}

	return &Service{
		store:   store,
		premium: premium,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Service) CapFor(feature enums.Feature) (int, error) {
	switch feature {
	case enums.FeatureGifts:
		return s.cfg.GiftsPerMonth, nil
	case enums.FeatureFlights:
		return s.cfg.FlightsPerMonth, nil
	case enums.FeatureNews:
		return s.cfg.NewsPerMonth, nil
	default:
		return 0, ErrUnknownFeature
	}
}

// ResetIfExpired zeroes the user's counters when the stored period no
// longer matches the current calendar month. Idempotent within a
// month; callers invoke it before any limit check so a user capped
// last month is uncapped this month.
func (s *Service) ResetIfExpired(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, fmt.Errorf("quota store is nil")
	}

	return s.store.ResetPeriodIfExpired(ctx, userID, s.now().UTC())
}

func (s *Service) IsLimited(ctx context.Context, userID int64, feature enums.Feature) (bool, error) {
	decision, err := s.Check(ctx, userID, feature)
	if err != nil {
		return false, err
	}
	return !decision.Allowed, nil
}

func (s *Service) Check(ctx context.Context, userID int64, feature enums.Feature) (Decision, error) {
	if userID <= 0 {
		return Decision{}, ErrValidation
	}
	if s.store == nil {
		return Decision{}, fmt.Errorf("quota store is nil")
	}

	cap, err := s.CapFor(feature)
	if err != nil {
		return Decision{}, err
	}

	now := s.now().UTC()
	if _, err := s.store.ResetPeriodIfExpired(ctx, userID, now); err != nil {
		return Decision{}, err
	}

	if s.premium != nil {
		isPremium, err := s.premium.IsPremiumActive(ctx, userID, now)
		if err != nil {
			return Decision{}, fmt.Errorf("resolve premium status: %w", err)
		}
		if isPremium {
			return Decision{Allowed: true, Reason: ReasonPremium, Remaining: Unlimited}, nil
		}
	}

	state, err := s.store.GetState(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	used := usageFor(state, feature)
	remaining := cap - used
	if remaining <= 0 {
		return Decision{Allowed: false, Reason: ReasonQuotaExhausted, Remaining: 0}, nil
	}

	return Decision{Allowed: true, Reason: ReasonOK, Remaining: remaining}, nil
}

func (s *Service) Snapshot(ctx context.Context, userID int64) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, ErrValidation
	}
	if s.store == nil {
		return Snapshot{}, fmt.Errorf("quota store is nil")
	}

	now := s.now().UTC()
	if _, err := s.store.ResetPeriodIfExpired(ctx, userID, now); err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{ResetsAt: rules.NextResetAt(now)}

	if s.premium != nil {
		isPremium, err := s.premium.IsPremiumActive(ctx, userID, now)
		if err != nil {
			return Snapshot{}, fmt.Errorf("resolve premium status: %w", err)
		}
		snapshot.IsPremium = isPremium
	}

	if snapshot.IsPremium {
		snapshot.GiftsRemaining = Unlimited
		snapshot.FlightsRemaining = Unlimited
		snapshot.NewsRemaining = Unlimited
		return snapshot, nil
	}

	state, err := s.store.GetState(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot.GiftsRemaining = clampRemaining(s.cfg.GiftsPerMonth - state.GiftsSent)
	snapshot.FlightsRemaining = clampRemaining(s.cfg.FlightsPerMonth - state.FlightsBooked)
	snapshot.NewsRemaining = clampRemaining(s.cfg.NewsPerMonth - state.NewsRequests)
	return snapshot, nil
}

func usageFor(state model.QuotaState, feature enums.Feature) int {
	switch feature {
	case enums.FeatureGifts:
		return state.GiftsSent
	case enums.FeatureFlights:
		return state.FlightsBooked
	case enums.FeatureNews:
		return state.NewsRequests
	default:
		return 0
	}
}

func clampRemaining(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
