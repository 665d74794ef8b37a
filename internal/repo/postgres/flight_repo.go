package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
)

type FlightRepo struct {
	pool *pgxpool.Pool
}

// CoTravelerRecord is another user booked on the same flight, with the
// raw interest payload the matcher normalizes.
type CoTravelerRecord struct {
	UserID      int64
	DisplayName string
	Interests   []string
}

func NewFlightRepo(pool *pgxpool.Pool) *FlightRepo {
	return &FlightRepo{pool: pool}
}

// FindOrCreate returns the flight matching the full identity tuple,
// inserting it when absent.
func (r *FlightRepo) FindOrCreate(ctx context.Context, tx pgx.Tx, flight model.Flight) (model.Flight, error) {
	if tx == nil {
		return model.Flight{}, fmt.Errorf("transaction is required")
	}
	if strings.TrimSpace(flight.FlightNumber) == "" {
		return model.Flight{}, fmt.Errorf("flight number is required")
	}

	err := tx.QueryRow(ctx, `
SELECT id FROM flights
WHERE flight_number = $1 AND departure = $2 AND arrival = $3 AND date = $4
`, flight.FlightNumber, flight.Departure, flight.Arrival, flight.Date).Scan(&flight.ID)
	if err == nil {
		return flight, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Flight{}, fmt.Errorf("find flight: %w", err)
	}

	err = tx.QueryRow(ctx, `
INSERT INTO flights (flight_number, departure, arrival, date)
VALUES ($1, $2, $3, $4)
RETURNING id
`, flight.FlightNumber, flight.Departure, flight.Arrival, flight.Date).Scan(&flight.ID)
	if err != nil {
		return model.Flight{}, fmt.Errorf("create flight: %w", err)
	}

	return flight, nil
}

func (r *FlightRepo) HasBooking(ctx context.Context, tx pgx.Tx, userID, flightID int64) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || flightID <= 0 {
		return false, fmt.Errorf("invalid booking lookup payload")
	}

	var exists bool
	err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM flight_bookings WHERE user_id = $1 AND flight_id = $2)
`, userID, flightID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check flight booking: %w", err)
	}

	return exists, nil
}

func (r *FlightRepo) CreateBooking(ctx context.Context, tx pgx.Tx, userID, flightID int64, seatPreference string, at time.Time) (model.FlightBooking, error) {
	if tx == nil {
		return model.FlightBooking{}, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || flightID <= 0 {
		return model.FlightBooking{}, fmt.Errorf("invalid booking payload")
	}

	booking := model.FlightBooking{
		UserID:         userID,
		FlightID:       flightID,
		SeatPreference: seatPreference,
		CreatedAt:      at.UTC(),
	}
	err := tx.QueryRow(ctx, `
INSERT INTO flight_bookings (user_id, flight_id, seat_preference, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, userID, flightID, seatPreference, booking.CreatedAt).Scan(&booking.ID)
	if err != nil {
		return model.FlightBooking{}, fmt.Errorf("create flight booking: %w", err)
	}

	return booking, nil
}

// ListCoTravelers returns the other users booked on any flight with the
// given number, with their interest sets.
func (r *FlightRepo) ListCoTravelers(ctx context.Context, flightNumber string, excludeUserID int64) ([]CoTravelerRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(flightNumber) == "" {
		return nil, fmt.Errorf("flight number is required")
	}

	rows, err := r.pool.Query(ctx, `
SELECT u.id, u.display_name, u.interests
FROM flight_bookings b
JOIN flights f ON f.id = b.flight_id
JOIN users u ON u.id = b.user_id
WHERE f.flight_number = $1 AND u.id <> $2
ORDER BY b.created_at
`, flightNumber, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("list co-travelers: %w", err)
	}
	defer rows.Close()

	var travelers []CoTravelerRecord
	for rows.Next() {
		var (
			rec CoTravelerRecord
			raw []byte
		)
		if err := rows.Scan(&rec.UserID, &rec.DisplayName, &raw); err != nil {
			return nil, fmt.Errorf("scan co-traveler row: %w", err)
		}
		rec.Interests = rules.ParseTags(raw)
		travelers = append(travelers, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate co-traveler rows: %w", err)
	}

	return travelers, nil
}
