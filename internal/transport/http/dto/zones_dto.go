package dto

import "time"

type ZonePayload struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RadiusMeters float64 `json:"radius_meters"`
	Interest     string  `json:"interest"`
}

type ZonesResponse struct {
	Zones []ZonePayload `json:"zones"`
}

type ZoneCheckRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type ZoneCheckResponse struct {
	Zones []ZonePayload `json:"zones"`
}

type WaiterCallRequest struct {
	Zone string `json:"zone"`
}

type WaiterCallResponse struct {
	CallID    int64     `json:"call_id"`
	ZoneID    int64     `json:"zone_id"`
	CreatedAt time.Time `json:"created_at"`
}
