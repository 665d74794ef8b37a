package model

// MatchResult is a transient per-query ranking entry, never persisted.
type MatchResult struct {
	UserID          int64    `json:"user_id"`
	DisplayName     string   `json:"display_name"`
	DistanceKM      float64  `json:"distance_km"`
	SharedInterests []string `json:"shared_interests"`
	Score           int      `json:"score"`
}
