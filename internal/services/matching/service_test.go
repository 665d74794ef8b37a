package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

type stubUserStore struct {
	users map[int64]model.UserProfile
}

func (s *stubUserStore) Get(_ context.Context, userID int64) (model.UserProfile, error) {
	user, ok := s.users[userID]
	if !ok {
		return model.UserProfile{}, fmt.Errorf("user %d not found", userID)
	}
	return user, nil
}

func (s *stubUserStore) ListOthers(_ context.Context, excludeUserID int64) ([]model.UserProfile, error) {
	out := make([]model.UserProfile, 0, len(s.users))
	for id := int64(1); id <= int64(len(s.users)); id++ {
		user, ok := s.users[id]
		if !ok || id == excludeUserID {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }

func profile(id int64, name string, lat, lon *float64, interests ...string) model.UserProfile {
	return model.UserProfile{
		ID:          id,
		DisplayName: name,
		Latitude:    lat,
		Longitude:   lon,
		Interests:   interests,
	}
}

func TestFindMatchesNearbySharedInterest(t *testing.T) {
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", ptr(40.0), ptr(-73.0), "sports", "music"),
		2: profile(2, "bob", ptr(40.001), ptr(-73.001), "sports", "cinema"),
	}}
	svc := NewService(store, Config{})

	matches, err := svc.FindMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}

	m := matches[0]
	if m.UserID != 2 {
		t.Fatalf("expected user 2, got %d", m.UserID)
	}
	if m.Score != 1 || len(m.SharedInterests) != 1 || m.SharedInterests[0] != "sports" {
		t.Fatalf("unexpected shared interests: %+v", m)
	}
	if m.DistanceKM < 0.1 || m.DistanceKM > 0.2 {
		t.Fatalf("unexpected distance %v", m.DistanceKM)
	}
}

func TestFindMatchesSymmetry(t *testing.T) {
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", ptr(40.0), ptr(-73.0), "sports"),
		2: profile(2, "bob", ptr(40.001), ptr(-73.001), "sports"),
	}}
	svc := NewService(store, Config{})

	forward, err := svc.FindMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("find matches for 1: %v", err)
	}
	reverse, err := svc.FindMatches(context.Background(), 2)
	if err != nil {
		t.Fatalf("find matches for 2: %v", err)
	}
	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("expected mutual match, got %d and %d", len(forward), len(reverse))
	}
	if forward[0].DistanceKM != reverse[0].DistanceKM {
		t.Fatalf("distance must be symmetric: %v vs %v", forward[0].DistanceKM, reverse[0].DistanceKM)
	}
}

func TestFindMatchesSkipsOutOfRange(t *testing.T) {
	// ~0.9 degrees latitude is roughly 100km.
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", ptr(40.0), ptr(-73.0), "sports"),
		2: profile(2, "bob", ptr(40.9), ptr(-73.0), "sports"),
	}}
	svc := NewService(store, Config{MaxDistanceKM: 50})

	matches, err := svc.FindMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches beyond radius, got %d", len(matches))
	}
}

func TestFindMatchesSkipsIncompleteCandidates(t *testing.T) {
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", ptr(40.0), ptr(-73.0), "sports"),
		2: profile(2, "no-location", nil, nil, "sports"),
		3: profile(3, "no-interests", ptr(40.001), ptr(-73.0)),
		4: profile(4, "disjoint", ptr(40.001), ptr(-73.0), "cinema"),
	}}
	svc := NewService(store, Config{})

	matches, err := svc.FindMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestFindMatchesOrdering(t *testing.T) {
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", ptr(40.0), ptr(-73.0), "sports", "music", "cinema"),
		2: profile(2, "one-shared-near", ptr(40.001), ptr(-73.0), "sports"),
		3: profile(3, "two-shared-far", ptr(40.1), ptr(-73.0), "sports", "music"),
		4: profile(4, "one-shared-far", ptr(40.1), ptr(-73.1), "cinema"),
	}}
	svc := NewService(store, Config{})

	matches, err := svc.FindMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected three matches, got %d", len(matches))
	}
	if matches[0].UserID != 3 {
		t.Fatalf("higher score must rank first, got user %d", matches[0].UserID)
	}
	if matches[1].UserID != 2 || matches[2].UserID != 4 {
		t.Fatalf("equal scores must rank by distance: %d then %d", matches[1].UserID, matches[2].UserID)
	}
}

func TestFindMatchesRequiresLocation(t *testing.T) {
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", nil, nil, "sports"),
	}}
	svc := NewService(store, Config{})

	if _, err := svc.FindMatches(context.Background(), 1); !errors.Is(err, ErrMissingLocation) {
		t.Fatalf("expected ErrMissingLocation, got %v", err)
	}
}

func TestFindMatchesNormalizesInterestCase(t *testing.T) {
	store := &stubUserStore{users: map[int64]model.UserProfile{
		1: profile(1, "alice", ptr(40.0), ptr(-73.0), "Sports"),
		2: profile(2, "bob", ptr(40.001), ptr(-73.0), "  sports "),
	}}
	svc := NewService(store, Config{})

	matches, err := svc.FindMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected case-insensitive match, got %d", len(matches))
	}
	if matches[0].SharedInterests[0] != "sports" {
		t.Fatalf("shared interests must be normalized, got %q", matches[0].SharedInterests[0])
	}
}
