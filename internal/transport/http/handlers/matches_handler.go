package handlers

import (
	"errors"
	"net/http"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	matchsvc "github.com/Dutaco/wingoo-clean/internal/services/matching"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchsvc.Service
}

func NewMatchesHandler(service *matchsvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	matches, err := h.service.FindMatches(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, matchsvc.ErrMissingLocation):
			writeBadRequest(w, "LOCATION_REQUIRED", "update your location before requesting matches")
		case errors.Is(err, matchsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find matches")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Matches: mapMatches(matches)})
}

func mapMatches(matches []model.MatchResult) []dto.MatchPayload {
	out := make([]dto.MatchPayload, 0, len(matches))
	for _, m := range matches {
		out = append(out, dto.MatchPayload{
			UserID:          m.UserID,
			DisplayName:     m.DisplayName,
			DistanceKM:      m.DistanceKM,
			SharedInterests: m.SharedInterests,
			Score:           m.Score,
		})
	}
	return out
}
