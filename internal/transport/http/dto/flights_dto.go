package dto

type FlightBookRequest struct {
	FlightNumber   string `json:"flight_number"`
	Departure      string `json:"departure"`
	Arrival        string `json:"arrival"`
	Date           string `json:"date"`
	SeatPreference string `json:"seat_preference"`
}

type FlightPayload struct {
	ID           int64  `json:"id"`
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Date         string `json:"date"`
}

type FlightBookResponse struct {
	Flight        FlightPayload  `json:"flight"`
	BookingID     int64          `json:"booking_id,omitempty"`
	AlreadyBooked bool           `json:"already_booked"`
	Matches       []MatchPayload `json:"matches"`
}

type FlightMatchesResponse struct {
	FlightNumber string         `json:"flight_number"`
	Matches      []MatchPayload `json:"matches"`
}
