package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
	quotasvc "github.com/Dutaco/wingoo-clean/internal/services/quota"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrQuotaExceeded = errors.New("news quota exceeded")
)

// Article is a single headline attributed to the interest tag that
// pulled it in.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Interest    string `json:"interest"`
}

// Digest is one quota unit worth of personalized headlines.
type Digest struct {
	Interests []string  `json:"interests"`
	Articles  []Article `json:"articles"`
}

type HeadlineProvider interface {
	TopHeadlines(ctx context.Context, interest string) ([]Article, error)
}

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.UserProfile, error)
}

type QuotaGate interface {
	Check(ctx context.Context, userID int64, feature enums.Feature) (quotasvc.Decision, error)
}

type QuotaStore interface {
	ResetPeriodIfExpiredTx(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (bool, error)
	ConsumeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, feature enums.Feature, limit int) (int, error)
}

type Config struct {
	NewsPerMonth int
	MaxInterests int
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Provider HeadlineProvider
	Users    UserStore
	Gate     QuotaGate
	Quota    QuotaStore
	Logger   *zap.Logger
	Config   Config
}

type Service struct {
	provider HeadlineProvider
	users    UserStore
	gate     QuotaGate
	quota    QuotaStore
	logger   *zap.Logger
	cfg      Config
	runTx    func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now      func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.NewsPerMonth <= 0 {
		cfg.NewsPerMonth = rules.NewsPerMonth
	}
	if cfg.MaxInterests <= 0 {
		cfg.MaxInterests = 3
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := deps.Pool
	return &Service{
		provider: deps.Provider,
		users:    deps.Users,
		gate:     deps.Gate,
		quota:    deps.Quota,
		logger:   logger,
		cfg:      cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		now: time.Now,
	}
}

// Request builds a personalized headline digest from the user's top
// interests and consumes one unit of the monthly news quota. The quota
// is checked before any provider call so an exhausted user costs no
// upstream requests, and consumed only after the digest is assembled
// so a total provider failure costs no quota. A single failed interest
// fetch degrades the digest instead of failing it.
func (s *Service) Request(ctx context.Context, userID int64) (Digest, error) {
	if userID <= 0 {
		return Digest{}, ErrValidation
	}
	if s.provider == nil || s.users == nil || s.gate == nil || s.quota == nil {
		return Digest{}, fmt.Errorf("news dependencies are nil")
	}

	decision, err := s.gate.Check(ctx, userID, enums.FeatureNews)
	if err != nil {
		return Digest{}, fmt.Errorf("check news quota: %w", err)
	}
	if !decision.Allowed {
		return Digest{}, ErrQuotaExceeded
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return Digest{}, fmt.Errorf("load user: %w", err)
	}

	interests := rules.NormalizeTags(user.Interests)
	if len(interests) == 0 {
		interests = []string{"general"}
	}
	if len(interests) > s.cfg.MaxInterests {
		interests = interests[:s.cfg.MaxInterests]
	}

	digest := Digest{Interests: interests}
	failures := 0
	for _, interest := range interests {
		articles, err := s.provider.TopHeadlines(ctx, interest)
		if err != nil {
			failures++
			s.logger.Warn("headline fetch failed",
				zap.String("interest", interest),
				zap.Error(err),
			)
			continue
		}
		digest.Articles = append(digest.Articles, articles...)
	}
	if failures == len(interests) {
		return Digest{}, fmt.Errorf("all headline fetches failed")
	}

	if decision.Reason != quotasvc.ReasonPremium {
		now := s.now().UTC()
		err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
			if _, err := s.quota.ResetPeriodIfExpiredTx(txCtx, tx, userID, now); err != nil {
				return err
			}
			if _, err := s.quota.ConsumeWithLimit(txCtx, tx, userID, enums.FeatureNews, s.cfg.NewsPerMonth); err != nil {
				if errors.Is(err, pgrepo.ErrFeatureLimitReached) {
					return ErrQuotaExceeded
				}
				return err
			}
			return nil
		})
		if err != nil {
			return Digest{}, err
		}
	}

	return digest, nil
}
