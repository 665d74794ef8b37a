package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	zonesvc "github.com/Dutaco/wingoo-clean/internal/services/zones"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type ZonesHandler struct {
	service *zonesvc.Service
}

func NewZonesHandler(service *zonesvc.Service) *ZonesHandler {
	return &ZonesHandler{service: service}
}

func (h *ZonesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ZONE_SERVICE_UNAVAILABLE", "zone service is unavailable")
		return
	}

	zones, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list zones")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ZonesResponse{Zones: mapZones(zones)})
}

// Check never rejects: a malformed or incomplete position simply
// matches no zones. Interests come from the caller's stored profile.
func (h *ZonesHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ZONE_SERVICE_UNAVAILABLE", "zone service is unavailable")
		return
	}

	var req dto.ZoneCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		httperrors.Write(w, http.StatusOK, dto.ZoneCheckResponse{Zones: []dto.ZonePayload{}})
		return
	}

	zones, err := h.service.MatchingForUser(r.Context(), identity.UserID, req.Lat, req.Lon)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to check zones")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ZoneCheckResponse{Zones: mapZones(zones)})
}

func (h *ZonesHandler) CallWaiter(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ZONE_SERVICE_UNAVAILABLE", "zone service is unavailable")
		return
	}

	var req dto.WaiterCallRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Zone) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "zone is required")
		return
	}

	call, err := h.service.CallWaiter(r.Context(), identity.UserID, req.Zone)
	if err != nil {
		switch {
		case errors.Is(err, zonesvc.ErrZoneNotFound):
			writeNotFound(w, "ZONE_NOT_FOUND", "unknown zone")
		case errors.Is(err, zonesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid waiter call request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to register waiter call")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.WaiterCallResponse{
		CallID:    call.ID,
		ZoneID:    call.ZoneID,
		CreatedAt: call.CreatedAt,
	})
}

func mapZones(zones []model.Zone) []dto.ZonePayload {
	out := make([]dto.ZonePayload, 0, len(zones))
	for _, zone := range zones {
		out = append(out, dto.ZonePayload{
			ID:           zone.ID,
			Name:         zone.Name,
			Lat:          zone.Latitude,
			Lon:          zone.Longitude,
			RadiusMeters: zone.RadiusMeters,
			Interest:     zone.Interest,
		})
	}
	return out
}
