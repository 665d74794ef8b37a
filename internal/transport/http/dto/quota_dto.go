package dto

import "time"

type QuotaSnapshotResponse struct {
	GiftsRemaining   int       `json:"gifts_remaining"`
	FlightsRemaining int       `json:"flights_remaining"`
	NewsRemaining    int       `json:"news_remaining"`
	IsPremium        bool      `json:"is_premium"`
	ResetsAt         time.Time `json:"resets_at"`
}

type FeatureAccessResponse struct {
	Feature   string `json:"feature"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason"`
	Remaining int    `json:"remaining"`
}
