package flights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrQuotaExceeded = errors.New("flight quota exceeded")
)

type FlightStore interface {
	FindOrCreate(ctx context.Context, tx pgx.Tx, flight model.Flight) (model.Flight, error)
	HasBooking(ctx context.Context, tx pgx.Tx, userID, flightID int64) (bool, error)
	CreateBooking(ctx context.Context, tx pgx.Tx, userID, flightID int64, seatPreference string, at time.Time) (model.FlightBooking, error)
	ListCoTravelers(ctx context.Context, flightNumber string, excludeUserID int64) ([]pgrepo.CoTravelerRecord, error)
}

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.UserProfile, error)
}

type QuotaStore interface {
	ResetPeriodIfExpiredTx(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (bool, error)
	ConsumeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, feature enums.Feature, limit int) (int, error)
}

type PremiumChecker interface {
	IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error)
}

type Config struct {
	FlightsPerMonth int
	MinShared       int
	MaxResults      int
}

type Dependencies struct {
	Pool    *pgxpool.Pool
	Flights FlightStore
	Users   UserStore
	Quota   QuotaStore
	Premium PremiumChecker
	Logger  *zap.Logger
	Config  Config
}

type Service struct {
	flights FlightStore
	users   UserStore
	quota   QuotaStore
	premium PremiumChecker
	logger  *zap.Logger
	cfg     Config
	runTx   func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	now     func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.FlightsPerMonth <= 0 {
		cfg.FlightsPerMonth = rules.FlightsPerMonth
	}
	if cfg.MinShared <= 0 {
		cfg.MinShared = 2
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := deps.Pool
	return &Service{
		flights: deps.Flights,
		users:   deps.Users,
		quota:   deps.Quota,
		premium: deps.Premium,
		logger:  logger,
		cfg:     cfg,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		now: time.Now,
	}
}

type BookInput struct {
	FlightNumber   string
	Departure      string
	Arrival        string
	Date           string
	SeatPreference string
}

type BookResult struct {
	Booking       model.FlightBooking
	Flight        model.Flight
	AlreadyBooked bool
	CoTravelers   []model.MatchResult
}

// Book records a flight booking and consumes one unit of the monthly
// flight quota. Re-booking the same flight is idempotent and consumes
// no quota. After the booking commits, co-travelers on the same flight
// number are matched by shared interests.
func (s *Service) Book(ctx context.Context, userID int64, input BookInput) (BookResult, error) {
	if userID <= 0 {
		return BookResult{}, ErrValidation
	}
	if strings.TrimSpace(input.FlightNumber) == "" {
		return BookResult{}, fmt.Errorf("%w: flight number is required", ErrValidation)
	}
	if s.flights == nil || s.quota == nil {
		return BookResult{}, fmt.Errorf("flight dependencies are nil")
	}

	now := s.now().UTC()

	isPremium := false
	if s.premium != nil {
		var err error
		isPremium, err = s.premium.IsPremiumActive(ctx, userID, now)
		if err != nil {
			return BookResult{}, fmt.Errorf("resolve premium status: %w", err)
		}
	}

	var result BookResult
	err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := s.quota.ResetPeriodIfExpiredTx(txCtx, tx, userID, now); err != nil {
			return err
		}

		flight, err := s.flights.FindOrCreate(txCtx, tx, model.Flight{
			FlightNumber: strings.TrimSpace(input.FlightNumber),
			Departure:    strings.TrimSpace(input.Departure),
			Arrival:      strings.TrimSpace(input.Arrival),
			Date:         strings.TrimSpace(input.Date),
		})
		if err != nil {
			return err
		}
		result.Flight = flight

		booked, err := s.flights.HasBooking(txCtx, tx, userID, flight.ID)
		if err != nil {
			return err
		}
		if booked {
			result.AlreadyBooked = true
			return nil
		}

		if !isPremium {
			if _, err := s.quota.ConsumeWithLimit(txCtx, tx, userID, enums.FeatureFlights, s.cfg.FlightsPerMonth); err != nil {
				if errors.Is(err, pgrepo.ErrFeatureLimitReached) {
					return ErrQuotaExceeded
				}
				return err
			}
		}

		booking, err := s.flights.CreateBooking(txCtx, tx, userID, flight.ID, strings.TrimSpace(input.SeatPreference), now)
		if err != nil {
			return err
		}
		result.Booking = booking
		return nil
	})
	if err != nil {
		return BookResult{}, err
	}

	matches, err := s.Matches(ctx, userID, input.FlightNumber)
	if err != nil {
		// The booking is already committed; matching is best effort.
		s.logger.Warn("co-traveler matching failed",
			zap.String("flight_number", input.FlightNumber),
			zap.Error(err),
		)
		return result, nil
	}
	result.CoTravelers = matches

	return result, nil
}

// Matches ranks co-travelers on the flight number by shared interests
// with the requesting user. Travelers sharing fewer than the minimum
// are dropped; the top results are returned.
func (s *Service) Matches(ctx context.Context, userID int64, flightNumber string) ([]model.MatchResult, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if strings.TrimSpace(flightNumber) == "" {
		return nil, fmt.Errorf("%w: flight number is required", ErrValidation)
	}
	if s.users == nil || s.flights == nil {
		return nil, fmt.Errorf("flight dependencies are nil")
	}

	me, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load requesting user: %w", err)
	}
	myInterests := rules.NormalizeTags(me.Interests)
	if len(myInterests) == 0 {
		return nil, nil
	}

	travelers, err := s.flights.ListCoTravelers(ctx, strings.TrimSpace(flightNumber), userID)
	if err != nil {
		return nil, fmt.Errorf("list co-travelers: %w", err)
	}

	var matches []model.MatchResult
	for _, traveler := range travelers {
		shared := rules.SharedTags(myInterests, traveler.Interests)
		if len(shared) < s.cfg.MinShared {
			continue
		}
		matches = append(matches, model.MatchResult{
			UserID:          traveler.UserID,
			DisplayName:     traveler.DisplayName,
			SharedInterests: shared,
			Score:           rules.Score(shared),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].UserID < matches[j].UserID
	})

	if len(matches) > s.cfg.MaxResults {
		matches = matches[:s.cfg.MaxResults]
	}

	return matches, nil
}
