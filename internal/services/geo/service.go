package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

type LocationSaver interface {
	UpdateLocation(ctx context.Context, userID int64, lat, lon float64) error
}

type Service struct {
	store LocationSaver
}

func NewService(store LocationSaver) *Service {
	return &Service{store: store}
}

// UpdateLocation records the user's last known position. Coordinates
// outside [-90,90]/[-180,180] are rejected before touching storage.
func (s *Service) UpdateLocation(ctx context.Context, userID int64, lat, lon float64) error {
	if userID <= 0 {
		return ErrValidation
	}
	if !rules.ValidCoordinates(lat, lon) {
		return fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	if s.store == nil {
		return fmt.Errorf("location store is nil")
	}

	if err := s.store.UpdateLocation(ctx, userID, lat, lon); err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// Distance returns the great-circle distance between two points in
// kilometers, rounded to two decimal places.
func (s *Service) Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if !rules.ValidCoordinates(lat1, lon1) || !rules.ValidCoordinates(lat2, lon2) {
		return 0, fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	return rules.Round2(rules.DistanceKM(lat1, lon1, lat2, lon2)), nil
}
