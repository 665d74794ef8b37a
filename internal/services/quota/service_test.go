package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	"github.com/Dutaco/wingoo-clean/internal/domain/model"
)

type stubQuotaStore struct {
	state      model.QuotaState
	stateErr   error
	resetCalls int
	resetDone  bool
}

func (s *stubQuotaStore) GetState(_ context.Context, _ int64) (model.QuotaState, error) {
	if s.stateErr != nil {
		return model.QuotaState{}, s.stateErr
	}
	return s.state, nil
}

func (s *stubQuotaStore) ResetPeriodIfExpired(_ context.Context, _ int64, _ time.Time) (bool, error) {
	s.resetCalls++
	return s.resetDone, nil
}

type stubPremium struct {
	active bool
	err    error
}

func (s *stubPremium) IsPremiumActive(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return s.active, s.err
}

func newTestService(store *stubQuotaStore, premium *stubPremium) *Service {
	svc := NewService(store, premium, Config{})
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCheckAllowsUnderCap(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{GiftsSent: 3}}
	svc := newTestService(store, &stubPremium{})

	decision, err := svc.Check(context.Background(), 1, enums.FeatureGifts)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected allowed under cap")
	}
	if decision.Reason != ReasonOK {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
	if decision.Remaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", decision.Remaining)
	}
	if store.resetCalls != 1 {
		t.Fatalf("expected reset attempt before check, got %d", store.resetCalls)
	}
}

func TestCheckDeniesAtCap(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{NewsRequests: 3}}
	svc := newTestService(store, &stubPremium{})

	decision, err := svc.Check(context.Background(), 1, enums.FeatureNews)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected denial at cap")
	}
	if decision.Reason != ReasonQuotaExhausted {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
	if decision.Remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", decision.Remaining)
	}
}

func TestCheckPremiumBypassesCap(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{FlightsBooked: 10}}
	svc := newTestService(store, &stubPremium{active: true})

	decision, err := svc.Check(context.Background(), 1, enums.FeatureFlights)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected premium bypass")
	}
	if decision.Reason != ReasonPremium {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
	if decision.Remaining != Unlimited {
		t.Fatalf("expected unlimited remaining, got %d", decision.Remaining)
	}
}

func TestCheckRejectsUnknownFeature(t *testing.T) {
	svc := newTestService(&stubQuotaStore{}, &stubPremium{})

	if _, err := svc.Check(context.Background(), 1, enums.Feature("podcasts")); !errors.Is(err, ErrUnknownFeature) {
		t.Fatalf("expected ErrUnknownFeature, got %v", err)
	}
}

func TestCheckRejectsInvalidUser(t *testing.T) {
	svc := newTestService(&stubQuotaStore{}, &stubPremium{})

	if _, err := svc.Check(context.Background(), 0, enums.FeatureGifts); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIsLimited(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{FlightsBooked: 1}}
	svc := newTestService(store, &stubPremium{})

	limited, err := svc.IsLimited(context.Background(), 1, enums.FeatureFlights)
	if err != nil {
		t.Fatalf("is limited: %v", err)
	}
	if !limited {
		t.Fatalf("expected flights limited at cap 1")
	}

	limited, err = svc.IsLimited(context.Background(), 1, enums.FeatureGifts)
	if err != nil {
		t.Fatalf("is limited: %v", err)
	}
	if limited {
		t.Fatalf("expected gifts not limited")
	}
}

func TestSnapshotReportsRemaining(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{GiftsSent: 4, FlightsBooked: 1, NewsRequests: 2}}
	svc := newTestService(store, &stubPremium{})

	snap, err := svc.Snapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.GiftsRemaining != 1 || snap.FlightsRemaining != 0 || snap.NewsRemaining != 1 {
		t.Fatalf("unexpected remaining counts: %+v", snap)
	}
	if snap.IsPremium {
		t.Fatalf("expected non-premium snapshot")
	}

	wantReset := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !snap.ResetsAt.Equal(wantReset) {
		t.Fatalf("expected reset at %v, got %v", wantReset, snap.ResetsAt)
	}
}

func TestSnapshotPremiumUnlimited(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{GiftsSent: 5}}
	svc := newTestService(store, &stubPremium{active: true})

	snap, err := svc.Snapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snap.IsPremium {
		t.Fatalf("expected premium snapshot")
	}
	if snap.GiftsRemaining != Unlimited || snap.FlightsRemaining != Unlimited || snap.NewsRemaining != Unlimited {
		t.Fatalf("expected unlimited remaining: %+v", snap)
	}
}

func TestSnapshotOverconsumedClampsToZero(t *testing.T) {
	store := &stubQuotaStore{state: model.QuotaState{NewsRequests: 7}}
	svc := newTestService(store, &stubPremium{})

	snap, err := svc.Snapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.NewsRemaining != 0 {
		t.Fatalf("expected clamped remaining, got %d", snap.NewsRemaining)
	}
}

func TestPremiumCheckerErrorPropagates(t *testing.T) {
	store := &stubQuotaStore{}
	svc := newTestService(store, &stubPremium{err: errors.New("subscription lookup failed")})

	if _, err := svc.Check(context.Background(), 1, enums.FeatureGifts); err == nil {
		t.Fatalf("expected premium checker error to propagate")
	}
}
