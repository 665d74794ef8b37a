package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

var ErrZoneNotFound = errors.New("zone not found")

type ZoneRepo struct {
	pool *pgxpool.Pool
}

func NewZoneRepo(pool *pgxpool.Pool) *ZoneRepo {
	return &ZoneRepo{pool: pool}
}

func (r *ZoneRepo) ListAll(ctx context.Context) ([]model.Zone, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, latitude, longitude, radius_meters, interest
FROM zones
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []model.Zone
	for rows.Next() {
		var zone model.Zone
		if err := rows.Scan(&zone.ID, &zone.Name, &zone.Latitude, &zone.Longitude, &zone.RadiusMeters, &zone.Interest); err != nil {
			return nil, fmt.Errorf("scan zone row: %w", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zone rows: %w", err)
	}

	return zones, nil
}

func (r *ZoneRepo) FindByName(ctx context.Context, name string) (model.Zone, error) {
	if r.pool == nil {
		return model.Zone{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(name) == "" {
		return model.Zone{}, ErrZoneNotFound
	}

	var zone model.Zone
	err := r.pool.QueryRow(ctx, `
SELECT id, name, latitude, longitude, radius_meters, interest
FROM zones
WHERE name = $1
`, name).Scan(&zone.ID, &zone.Name, &zone.Latitude, &zone.Longitude, &zone.RadiusMeters, &zone.Interest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Zone{}, ErrZoneNotFound
		}
		return model.Zone{}, fmt.Errorf("find zone by name: %w", err)
	}

	return zone, nil
}

type WaiterCallRepo struct {
	pool *pgxpool.Pool
}

func NewWaiterCallRepo(pool *pgxpool.Pool) *WaiterCallRepo {
	return &WaiterCallRepo{pool: pool}
}

// Create is pure append: a user may legitimately call the waiter for
// the same zone more than once.
func (r *WaiterCallRepo) Create(ctx context.Context, userID, zoneID int64, at time.Time) (model.WaiterCall, error) {
	if r.pool == nil {
		return model.WaiterCall{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || zoneID <= 0 {
		return model.WaiterCall{}, fmt.Errorf("invalid waiter call payload")
	}

	call := model.WaiterCall{
		UserID:    userID,
		ZoneID:    zoneID,
		CreatedAt: at.UTC(),
	}
	err := r.pool.QueryRow(ctx, `
INSERT INTO waiter_calls (user_id, zone_id, created_at)
VALUES ($1, $2, $3)
RETURNING id
`, userID, zoneID, call.CreatedAt).Scan(&call.ID)
	if err != nil {
		return model.WaiterCall{}, fmt.Errorf("create waiter call: %w", err)
	}

	return call, nil
}
