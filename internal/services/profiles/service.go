package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

const maxInterests = 20

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.UserProfile, error)
	UpdateInterests(ctx context.Context, userID int64, interests []string) error
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.UserProfile, error) {
	if userID <= 0 {
		return model.UserProfile{}, ErrValidation
	}
	if s.users == nil {
		return model.UserProfile{}, fmt.Errorf("user store is nil")
	}
	return s.users.Get(ctx, userID)
}

// UpdateInterests replaces the user's interest set. Tags are stored
// normalized so every later comparison is a plain equality check.
func (s *Service) UpdateInterests(ctx context.Context, userID int64, interests []string) ([]string, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.users == nil {
		return nil, fmt.Errorf("user store is nil")
	}

	normalized := rules.NormalizeTags(interests)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: at least one interest is required", ErrValidation)
	}
	if len(normalized) > maxInterests {
		return nil, fmt.Errorf("%w: too many interests", ErrValidation)
	}

	if err := s.users.UpdateInterests(ctx, userID, normalized); err != nil {
		return nil, fmt.Errorf("update interests: %w", err)
	}
	return normalized, nil
}
