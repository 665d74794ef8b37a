package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrMissingLocation = errors.New("location not set")
)

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.UserProfile, error)
	ListOthers(ctx context.Context, excludeUserID int64) ([]model.UserProfile, error)
}

type Config struct {
	MaxDistanceKM float64
}

type Service struct {
	users UserStore
	cfg   Config
}

func NewService(users UserStore, cfg Config) *Service {
	if cfg.MaxDistanceKM <= 0 {
		cfg.MaxDistanceKM = 50
	}
	return &Service{users: users, cfg: cfg}
}

// FindMatches scans other users within the configured radius of the
// requesting user and ranks them by how many interests they share.
// Candidates without a stored position or without interests are
// skipped. Ordering is shared-interest count descending, then
// distance ascending, then user id for a stable tie-break.
func (s *Service) FindMatches(ctx context.Context, userID int64) ([]model.MatchResult, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.users == nil {
		return nil, fmt.Errorf("user store is nil")
	}

	me, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load requesting user: %w", err)
	}
	if !me.HasLocation() {
		return nil, ErrMissingLocation
	}

	myInterests := rules.NormalizeTags(me.Interests)

	candidates, err := s.users.ListOthers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	results := make([]model.MatchResult, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.HasLocation() || len(cand.Interests) == 0 {
			continue
		}

		km := rules.DistanceKM(*me.Latitude, *me.Longitude, *cand.Latitude, *cand.Longitude)
		if km > s.cfg.MaxDistanceKM {
			continue
		}

		shared := rules.SharedTags(myInterests, cand.Interests)
		if len(shared) == 0 {
			continue
		}

		results = append(results, model.MatchResult{
			UserID:          cand.ID,
			DisplayName:     cand.DisplayName,
			DistanceKM:      rules.Round2(km),
			SharedInterests: shared,
			Score:           rules.Score(shared),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DistanceKM != results[j].DistanceKM {
			return results[i].DistanceKM < results[j].DistanceKM
		}
		return results[i].UserID < results[j].UserID
	})

	return results, nil
}
