package dto

type MatchPayload struct {
	UserID          int64    `json:"user_id"`
	DisplayName     string   `json:"display_name"`
	DistanceKM      float64  `json:"distance_km"`
	SharedInterests []string `json:"shared_interests"`
	Score           int      `json:"score"`
}

type MatchesResponse struct {
	Matches []MatchPayload `json:"matches"`
}
