package model

import "time"

// Zone is a circular geofenced area tied to a single interest tag.
type Zone struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Interest     string  `json:"interest"`
}

type WaiterCall struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ZoneID    int64     `json:"zone_id"`
	CreatedAt time.Time `json:"created_at"`
}
