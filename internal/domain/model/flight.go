package model

import "time"

type Flight struct {
	ID           int64  `json:"id"`
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Date         string `json:"date"`
}

type FlightBooking struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	FlightID       int64     `json:"flight_id"`
	SeatPreference string    `json:"seat_preference"`
	CreatedAt      time.Time `json:"created_at"`
}
