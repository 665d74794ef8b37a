package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
)

type stubFlightStore struct {
	flights     map[string]model.Flight
	bookings    map[int64]map[int64]bool
	coTravelers []pgrepo.CoTravelerRecord
	nextID      int64
}

func newStubFlightStore() *stubFlightStore {
	return &stubFlightStore{
		flights:  make(map[string]model.Flight),
		bookings: make(map[int64]map[int64]bool),
	}
}

func (s *stubFlightStore) FindOrCreate(_ context.Context, _ pgx.Tx, flight model.Flight) (model.Flight, error) {
	key := flight.FlightNumber + "|" + flight.Departure + "|" + flight.Arrival + "|" + flight.Date
	if existing, ok := s.flights[key]; ok {
		return existing, nil
	}
	s.nextID++
	flight.ID = s.nextID
	s.flights[key] = flight
	return flight, nil
}

func (s *stubFlightStore) HasBooking(_ context.Context, _ pgx.Tx, userID, flightID int64) (bool, error) {
	return s.bookings[userID][flightID], nil
}

func (s *stubFlightStore) CreateBooking(_ context.Context, _ pgx.Tx, userID, flightID int64, seatPreference string, at time.Time) (model.FlightBooking, error) {
	if s.bookings[userID] == nil {
		s.bookings[userID] = make(map[int64]bool)
	}
	s.bookings[userID][flightID] = true
	return model.FlightBooking{ID: 1, UserID: userID, FlightID: flightID, SeatPreference: seatPreference, CreatedAt: at}, nil
}

func (s *stubFlightStore) ListCoTravelers(_ context.Context, _ string, excludeUserID int64) ([]pgrepo.CoTravelerRecord, error) {
	var out []pgrepo.CoTravelerRecord
	for _, rec := range s.coTravelers {
		if rec.UserID != excludeUserID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubUserStore struct {
	users map[int64]model.UserProfile
}

func (s *stubUserStore) Get(_ context.Context, userID int64) (model.UserProfile, error) {
	user, ok := s.users[userID]
	if !ok {
		return model.UserProfile{}, errors.New("user not found")
	}
	return user, nil
}

type stubQuotaStore struct {
	used int
}

func (s *stubQuotaStore) ResetPeriodIfExpiredTx(_ context.Context, _ pgx.Tx, _ int64, _ time.Time) (bool, error) {
	return false, nil
}

func (s *stubQuotaStore) ConsumeWithLimit(_ context.Context, _ pgx.Tx, _ int64, _ enums.Feature, limit int) (int, error) {
	if s.used >= limit {
		return 0, pgrepo.ErrFeatureLimitReached
	}
	s.used++
	return s.used, nil
}

type stubPremium struct {
	active bool
}

func (s *stubPremium) IsPremiumActive(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return s.active, nil
}

type testEnv struct {
	svc     *Service
	flights *stubFlightStore
	quota   *stubQuotaStore
}

func newTestEnv(premium bool) *testEnv {
	env := &testEnv{
		flights: newStubFlightStore(),
		quota:   &stubQuotaStore{},
	}
	env.svc = NewService(Dependencies{
		Flights: env.flights,
		Users: &stubUserStore{users: map[int64]model.UserProfile{
			1: {ID: 1, DisplayName: "alice", Interests: []string{"sports", "music", "cinema"}},
		}},
		Quota:   env.quota,
		Premium: &stubPremium{active: premium},
	})
	env.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	env.svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return env
}

func bookInput() BookInput {
	return BookInput{
		FlightNumber: "LH123",
		Departure:    "MSQ",
		Arrival:      "FRA",
		Date:         "2024-04-01",
	}
}

func TestBookConsumesQuota(t *testing.T) {
	env := newTestEnv(false)

	result, err := env.svc.Book(context.Background(), 1, bookInput())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if result.AlreadyBooked {
		t.Fatalf("first booking must not be marked as existing")
	}
	if result.Booking.FlightID != result.Flight.ID {
		t.Fatalf("booking must reference the flight")
	}
	if env.quota.used != 1 {
		t.Fatalf("expected one consumed unit, got %d", env.quota.used)
	}
}

func TestBookSecondFlightDenied(t *testing.T) {
	env := newTestEnv(false)

	if _, err := env.svc.Book(context.Background(), 1, bookInput()); err != nil {
		t.Fatalf("first book: %v", err)
	}

	other := bookInput()
	other.FlightNumber = "LH456"
	if _, err := env.svc.Book(context.Background(), 1, other); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded on second flight, got %v", err)
	}
}

func TestBookSameFlightIdempotent(t *testing.T) {
	env := newTestEnv(false)

	if _, err := env.svc.Book(context.Background(), 1, bookInput()); err != nil {
		t.Fatalf("first book: %v", err)
	}

	result, err := env.svc.Book(context.Background(), 1, bookInput())
	if err != nil {
		t.Fatalf("re-book: %v", err)
	}
	if !result.AlreadyBooked {
		t.Fatalf("re-booking must report the existing booking")
	}
	if env.quota.used != 1 {
		t.Fatalf("re-booking must not consume quota, got %d", env.quota.used)
	}
}

func TestBookPremiumUnlimited(t *testing.T) {
	env := newTestEnv(true)

	for i, number := range []string{"LH1", "LH2", "LH3"} {
		input := bookInput()
		input.FlightNumber = number
		if _, err := env.svc.Book(context.Background(), 1, input); err != nil {
			t.Fatalf("book %d: %v", i, err)
		}
	}
	if env.quota.used != 0 {
		t.Fatalf("premium bookings must not touch the counter, got %d", env.quota.used)
	}
}

func TestMatchesRequireMinimumShared(t *testing.T) {
	env := newTestEnv(false)
	env.flights.coTravelers = []pgrepo.CoTravelerRecord{
		{UserID: 2, DisplayName: "two-shared", Interests: []string{"sports", "music"}},
		{UserID: 3, DisplayName: "one-shared", Interests: []string{"sports"}},
		{UserID: 4, DisplayName: "three-shared", Interests: []string{"sports", "music", "cinema"}},
	}

	matches, err := env.svc.Matches(context.Background(), 1, "LH123")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected two qualifying travelers, got %d", len(matches))
	}
	if matches[0].UserID != 4 || matches[1].UserID != 2 {
		t.Fatalf("expected score ordering, got %d then %d", matches[0].UserID, matches[1].UserID)
	}
}

func TestMatchesCapResults(t *testing.T) {
	env := newTestEnv(false)
	for i := int64(2); i <= 9; i++ {
		env.flights.coTravelers = append(env.flights.coTravelers, pgrepo.CoTravelerRecord{
			UserID:    i,
			Interests: []string{"sports", "music"},
		})
	}

	matches, err := env.svc.Matches(context.Background(), 1, "LH123")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 5 {
		t.Fatalf("expected capped result set of 5, got %d", len(matches))
	}
}

func TestBookValidation(t *testing.T) {
	env := newTestEnv(false)

	if _, err := env.svc.Book(context.Background(), 1, BookInput{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing flight number, got %v", err)
	}
	if _, err := env.svc.Book(context.Background(), 0, bookInput()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for invalid user, got %v", err)
	}
}
