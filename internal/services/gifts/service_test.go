package gifts

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

type stubGiftStore struct {
	created   []model.Gift
	createErr error
}

func (s *stubGiftStore) Create(_ context.Context, _ pgx.Tx, gift model.Gift, at time.Time) (model.Gift, error) {
	if s.createErr != nil {
		return model.Gift{}, s.createErr
	}
	gift.ID = int64(len(s.created) + 1)
	gift.CreatedAt = at
	s.created = append(s.created, gift)
	return gift, nil
}

func (s *stubGiftStore) ListSent(_ context.Context, senderID int64) ([]model.Gift, error) {
	var out []model.Gift
	for _, gift := range s.created {
		if gift.SenderID == senderID {
			out = append(out, gift)
		}
	}
	return out, nil
}

func (s *stubGiftStore) ListReceived(_ context.Context, recipientID int64) ([]model.Gift, error) {
	var out []model.Gift
	for _, gift := range s.created {
		if gift.RecipientID == recipientID {
			out = append(out, gift)
		}
	}
	return out, nil
}

type stubUserStore struct {
	known map[int64]bool
}

func (s *stubUserStore) Exists(_ context.Context, userID int64) (bool, error) {
	return s.known[userID], nil
}

type stubQuotaStore struct {
	used       int
	resets     int
	increments int
}

func (s *stubQuotaStore) ResetPeriodIfExpiredTx(_ context.Context, _ pgx.Tx, _ int64, _ time.Time) (bool, error) {
	s.resets++
	return false, nil
}

func (s *stubQuotaStore) ConsumeWithLimit(_ context.Context, _ pgx.Tx, _ int64, _ enums.Feature, limit int) (int, error) {
	if s.used >= limit {
		return 0, pgrepo.ErrFeatureLimitReached
	}
	s.used++
	return s.used, nil
}

func (s *stubQuotaStore) IncrementUse(_ context.Context, _ pgx.Tx, _ int64, _ enums.Feature) (int, error) {
	s.used++
	s.increments++
	return s.used, nil
}

type stubPremium struct {
	active bool
}

func (s *stubPremium) IsPremiumActive(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return s.active, nil
}

type testEnv struct {
	svc   *Service
	gifts *stubGiftStore
	quota *stubQuotaStore
}

func newTestEnv(cfg Config, premium bool) *testEnv {
	env := &testEnv{
		gifts: &stubGiftStore{},
		quota: &stubQuotaStore{},
	}
	env.svc = NewService(Dependencies{
		Gifts:   env.gifts,
		Users:   &stubUserStore{known: map[int64]bool{2: true}},
		Quota:   env.quota,
		Premium: &stubPremium{active: premium},
		Config:  cfg,
	})
	env.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	env.svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return env
}

func TestSendUnderQuota(t *testing.T) {
	env := newTestEnv(Config{}, false)

	gift, err := env.svc.Send(context.Background(), 1, SendInput{RecipientID: 2, GiftType: "rose", Message: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gift.FeeCents != 0 {
		t.Fatalf("expected free gift under quota, fee %d", gift.FeeCents)
	}
	if gift.RedeemCode == "" {
		t.Fatalf("expected a redeem code")
	}
	if env.quota.used != 1 {
		t.Fatalf("expected one consumed unit, got %d", env.quota.used)
	}
	if env.quota.resets != 1 {
		t.Fatalf("expected reset attempt inside transaction, got %d", env.quota.resets)
	}
}

func TestSendOverQuotaChargePolicy(t *testing.T) {
	env := newTestEnv(Config{LimitPolicy: enums.LimitPolicyCharge}, false)
	env.quota.used = 5

	gift, err := env.svc.Send(context.Background(), 1, SendInput{RecipientID: 2, GiftType: "rose"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gift.FeeCents != 50 {
		t.Fatalf("expected 50 cent fee past the cap, got %d", gift.FeeCents)
	}
	if env.quota.increments != 1 {
		t.Fatalf("usage must keep recording past the cap, got %d increments", env.quota.increments)
	}
}

func TestSendOverQuotaDenyPolicy(t *testing.T) {
	env := newTestEnv(Config{LimitPolicy: enums.LimitPolicyDeny}, false)
	env.quota.used = 5

	if _, err := env.svc.Send(context.Background(), 1, SendInput{RecipientID: 2, GiftType: "rose"}); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(env.gifts.created) != 0 {
		t.Fatalf("denied send must not create a gift")
	}
}

func TestSendPremiumBypassesQuotaAndFee(t *testing.T) {
	env := newTestEnv(Config{}, true)
	env.quota.used = 5

	gift, err := env.svc.Send(context.Background(), 1, SendInput{RecipientID: 2, GiftType: "rose"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gift.FeeCents != 0 {
		t.Fatalf("premium sends must be free, fee %d", gift.FeeCents)
	}
	if env.quota.used != 5 {
		t.Fatalf("premium sends must not touch the counter, got %d", env.quota.used)
	}
}

func TestSendFailedInsertDoesNotCommitQuota(t *testing.T) {
	env := newTestEnv(Config{}, false)
	env.gifts.createErr = errors.New("insert failed")

	committed := false
	env.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		if err := fn(ctx, nil); err != nil {
			return err
		}
		committed = true
		return nil
	}

	if _, err := env.svc.Send(context.Background(), 1, SendInput{RecipientID: 2, GiftType: "rose"}); err == nil {
		t.Fatalf("expected insert failure to surface")
	}
	if committed {
		t.Fatalf("transaction must roll back on insert failure")
	}
}

func TestSendValidation(t *testing.T) {
	env := newTestEnv(Config{}, false)

	cases := []struct {
		name     string
		senderID int64
		input    SendInput
		wantErr  error
	}{
		{"missing recipient", 1, SendInput{GiftType: "rose"}, ErrValidation},
		{"self gift", 1, SendInput{RecipientID: 1, GiftType: "rose"}, ErrValidation},
		{"empty type", 1, SendInput{RecipientID: 2, GiftType: "  "}, ErrValidation},
		{"unknown recipient", 1, SendInput{RecipientID: 99, GiftType: "rose"}, ErrRecipientNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.svc.Send(context.Background(), tc.senderID, tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestListSentAndReceived(t *testing.T) {
	env := newTestEnv(Config{}, false)

	if _, err := env.svc.Send(context.Background(), 1, SendInput{RecipientID: 2, GiftType: "rose"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	sent, err := env.svc.ListSent(context.Background(), 1)
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one sent gift, got %d", len(sent))
	}

	received, err := env.svc.ListReceived(context.Background(), 2)
	if err != nil {
		t.Fatalf("list received: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected one received gift, got %d", len(received))
	}
}

func TestListingsWithoutGiftStore(t *testing.T) {
	svc := NewService(Dependencies{})

	if _, err := svc.ListSent(context.Background(), 1); err == nil {
		t.Fatalf("expected an error without a gift store")
	}
	if _, err := svc.ListReceived(context.Background(), 1); err == nil {
		t.Fatalf("expected an error without a gift store")
	}
}
