package zones

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
	redisrepo "github.com/Dutaco/wingoo-clean/internal/repo/redis"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrZoneNotFound = errors.New("zone not found")
)

type ZoneStore interface {
	ListAll(ctx context.Context) ([]model.Zone, error)
	FindByName(ctx context.Context, name string) (model.Zone, error)
}

type WaiterCallStore interface {
	Create(ctx context.Context, userID, zoneID int64, at time.Time) (model.WaiterCall, error)
}

type SnapshotCache interface {
	GetSnapshot(ctx context.Context) ([]model.Zone, error)
	SetSnapshot(ctx context.Context, zones []model.Zone, ttl time.Duration) error
}

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.UserProfile, error)
}

type Config struct {
	CacheTTL time.Duration
}

type Dependencies struct {
	Zones       ZoneStore
	WaiterCalls WaiterCallStore
	Users       UserStore
	Cache       SnapshotCache
	Logger      *zap.Logger
	Config      Config
}

type Service struct {
	zones       ZoneStore
	waiterCalls WaiterCallStore
	users       UserStore
	cache       SnapshotCache
	logger      *zap.Logger
	cfg         Config
	now         func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		zones:       deps.Zones,
		waiterCalls: deps.WaiterCalls,
		users:       deps.Users,
		cache:       deps.Cache,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// List returns the full zone set, served from the cache snapshot when
// one is present. Cache failures degrade to a storage read.
func (s *Service) List(ctx context.Context) ([]model.Zone, error) {
	if s.zones == nil {
		return nil, fmt.Errorf("zone store is nil")
	}

	if s.cache != nil {
		zones, err := s.cache.GetSnapshot(ctx)
		if err == nil {
			return zones, nil
		}
		if !errors.Is(err, redisrepo.ErrCacheMiss) {
			s.logger.Warn("zone snapshot read failed", zap.Error(err))
		}
	}

	zones, err := s.zones.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, zones, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("zone snapshot write failed", zap.Error(err))
		}
	}

	return zones, nil
}

// Matching reports the zones whose geofence contains the position and
// whose interest appears in the user's interest set. A boundary-exact
// position is inside. A user without a stored position matches no
// zones. Results keep the stored zone order.
func (s *Service) Matching(ctx context.Context, lat, lon *float64, interests []string) ([]model.Zone, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}

	zones, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	normalized := rules.NormalizeTags(interests)
	interestSet := make(map[string]struct{}, len(normalized))
	for _, tag := range normalized {
		interestSet[tag] = struct{}{}
	}

	var matched []model.Zone
	for _, zone := range zones {
		meters := rules.DistanceMeters(*lat, *lon, zone.Latitude, zone.Longitude)
		if meters > zone.RadiusMeters {
			continue
		}
		if _, ok := interestSet[rules.NormalizeTag(zone.Interest)]; !ok {
			continue
		}
		matched = append(matched, zone)
	}

	return matched, nil
}

// MatchingForUser runs the geofence check against the caller's stored
// interest set. The position comes from the request, the interests from
// the profile.
func (s *Service) MatchingForUser(ctx context.Context, userID int64, lat, lon *float64) ([]model.Zone, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.users == nil {
		return nil, fmt.Errorf("user store is nil")
	}
	if lat == nil || lon == nil {
		return nil, nil
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	return s.Matching(ctx, lat, lon, user.Interests)
}

// CallWaiter records a waiter request for the named zone.
func (s *Service) CallWaiter(ctx context.Context, userID int64, zoneName string) (model.WaiterCall, error) {
	if userID <= 0 {
		return model.WaiterCall{}, ErrValidation
	}
	if s.zones == nil || s.waiterCalls == nil {
		return model.WaiterCall{}, fmt.Errorf("zone dependencies are nil")
	}

	zone, err := s.zones.FindByName(ctx, zoneName)
	if err != nil {
		if errors.Is(err, pgrepo.ErrZoneNotFound) {
			return model.WaiterCall{}, ErrZoneNotFound
		}
		return model.WaiterCall{}, fmt.Errorf("find zone: %w", err)
	}

	call, err := s.waiterCalls.Create(ctx, userID, zone.ID, s.now().UTC())
	if err != nil {
		return model.WaiterCall{}, fmt.Errorf("create waiter call: %w", err)
	}

	return call, nil
}
