package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	profilesvc "github.com/Dutaco/wingoo-clean/internal/services/profiles"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type MeHandler struct {
	service *profilesvc.Service
}

func NewMeHandler(service *profilesvc.Service) *MeHandler {
	return &MeHandler{service: service}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	user, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MeResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Lat:         user.Latitude,
		Lon:         user.Longitude,
		Interests:   user.Interests,
		IsPremium:   user.IsPremium,
		Quota: dto.QuotaUsagePayload{
			GiftsSent:     user.Quota.GiftsSent,
			FlightsBooked: user.Quota.FlightsBooked,
			NewsRequests:  user.Quota.NewsRequests,
			LastReset:     user.Quota.LastReset,
		},
	})
}

func (h *MeHandler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.InterestsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	saved, err := h.service.UpdateInterests(r.Context(), identity.UserID, req.Interests)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "at least one non-empty interest is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update interests")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InterestsUpdateResponse{Interests: saved})
}
