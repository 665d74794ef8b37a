package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	zonesvc "github.com/Dutaco/wingoo-clean/internal/services/zones"
)

type zoneStoreStub struct {
	zones []model.Zone
}

func (s zoneStoreStub) ListAll(_ context.Context) ([]model.Zone, error) {
	return s.zones, nil
}

func (s zoneStoreStub) FindByName(_ context.Context, name string) (model.Zone, error) {
	for _, zone := range s.zones {
		if zone.Name == name {
			return zone, nil
		}
	}
	return model.Zone{}, pgrepo.ErrZoneNotFound
}

type waiterCallStoreStub struct{}

func (waiterCallStoreStub) Create(_ context.Context, userID, zoneID int64, at time.Time) (model.WaiterCall, error) {
	return model.WaiterCall{ID: 1, UserID: userID, ZoneID: zoneID, CreatedAt: at}, nil
}

type zoneUserStoreStub struct {
	user model.UserProfile
}

func (s zoneUserStoreStub) Get(_ context.Context, userID int64) (model.UserProfile, error) {
	if userID != s.user.ID {
		return model.UserProfile{}, pgrepo.ErrUserNotFound
	}
	return s.user, nil
}

func newZonesHandler() *ZonesHandler {
	svc := zonesvc.NewService(zonesvc.Dependencies{
		Zones: zoneStoreStub{zones: []model.Zone{
			{ID: 1, Name: "Patio", Latitude: 10.0, Longitude: 10.0, RadiusMeters: 100, Interest: "food"},
		}},
		WaiterCalls: waiterCallStoreStub{},
		Users: zoneUserStoreStub{user: model.UserProfile{
			ID:        1,
			Interests: []string{"food", "music"},
		}},
	})
	return NewZonesHandler(svc)
}

func zoneCheckRequest(body *bytes.Reader) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/zones/check", body)
	return req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 1}))
}

// A position-only body must match against the caller's stored
// interests.
func TestZoneCheckUsesProfileInterests(t *testing.T) {
	h := newZonesHandler()

	body, err := json.Marshal(map[string]any{
		"lat": 10.0005,
		"lon": 10.0005,
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Check(rr, zoneCheckRequest(bytes.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Zones []struct {
			Name string `json:"name"`
		} `json:"zones"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Zones) != 1 || payload.Zones[0].Name != "Patio" {
		t.Fatalf("unexpected zones payload: %+v", payload.Zones)
	}
}

func TestZoneCheckMalformedBodyYieldsEmptyList(t *testing.T) {
	h := newZonesHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/zones/check", strings.NewReader("{not json"))
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 1}))
	rr := httptest.NewRecorder()
	h.Check(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Zones []any `json:"zones"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Zones) != 0 {
		t.Fatalf("malformed input must match no zones, got %d", len(payload.Zones))
	}
}

func TestZoneCheckRequiresIdentity(t *testing.T) {
	h := newZonesHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/zones/check", strings.NewReader(`{"lat":10.0,"lon":10.0}`))
	rr := httptest.NewRecorder()
	h.Check(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestCallWaiterUnknownZoneIs404(t *testing.T) {
	h := newZonesHandler()

	body := bytes.NewReader([]byte(`{"zone":"Rooftop"}`))
	req := httptest.NewRequest(http.MethodPost, "/v1/zones/waiter", body)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 1}))

	rr := httptest.NewRecorder()
	h.CallWaiter(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "ZONE_NOT_FOUND" {
		t.Fatalf("unexpected error code: %q", payload.Code)
	}
}
