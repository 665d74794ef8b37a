package dto

type LocationUpdateRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type LocationUpdateResponse struct {
	OK bool `json:"ok"`
}
