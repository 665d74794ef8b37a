package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

const zoneSnapshotKey = "zones:snapshot"

var ErrCacheMiss = errors.New("cache miss")

// ZoneCacheRepo holds a short-lived snapshot of the zone reference set.
// Zones are read-mostly data; geofence queries read the snapshot and
// fall back to postgres when it is absent.
type ZoneCacheRepo struct {
	client *goredis.Client
}

func NewZoneCacheRepo(client *goredis.Client) *ZoneCacheRepo {
	return &ZoneCacheRepo{client: client}
}

func (r *ZoneCacheRepo) GetSnapshot(ctx context.Context) ([]model.Zone, error) {
	if r.client == nil {
		return nil, ErrCacheMiss
	}

	payload, err := r.client.Get(ctx, zoneSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get zone snapshot: %w", err)
	}

	var zones []model.Zone
	if err := json.Unmarshal(payload, &zones); err != nil {
		// A corrupt snapshot is equivalent to a miss; the caller
		// reloads from storage and overwrites it.
		return nil, ErrCacheMiss
	}

	return zones, nil
}

func (r *ZoneCacheRepo) SetSnapshot(ctx context.Context, zones []model.Zone, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		return fmt.Errorf("invalid zone snapshot ttl")
	}

	payload, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("encode zone snapshot: %w", err)
	}

	if err := r.client.Set(ctx, zoneSnapshotKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("set zone snapshot: %w", err)
	}

	return nil
}

func (r *ZoneCacheRepo) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, zoneSnapshotKey).Err(); err != nil {
		return fmt.Errorf("invalidate zone snapshot: %w", err)
	}
	return nil
}
