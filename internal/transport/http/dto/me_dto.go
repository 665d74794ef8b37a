package dto

import "time"

type QuotaUsagePayload struct {
	GiftsSent     int       `json:"gifts_sent"`
	FlightsBooked int       `json:"flights_booked"`
	NewsRequests  int       `json:"news_requests"`
	LastReset     time.Time `json:"last_reset"`
}

type MeResponse struct {
	ID          int64             `json:"id"`
	DisplayName string            `json:"display_name"`
	Email       string            `json:"email"`
	Lat         *float64          `json:"lat"`
	Lon         *float64          `json:"lon"`
	Interests   []string          `json:"interests"`
	IsPremium   bool              `json:"is_premium"`
	Quota       QuotaUsagePayload `json:"quota"`
}

type InterestsUpdateRequest struct {
	Interests []string `json:"interests"`
}

type InterestsUpdateResponse struct {
	Interests []string `json:"interests"`
}
