package model

import "time"

// QuotaState is the per-user slice of monthly feature usage. It lives
// on the user row and is mutated only through the quota repo.
type QuotaState struct {
	GiftsSent     int       `json:"gifts_sent"`
	FlightsBooked int       `json:"flights_booked"`
	NewsRequests  int       `json:"news_requests"`
	LastReset     time.Time `json:"last_reset"`
}
