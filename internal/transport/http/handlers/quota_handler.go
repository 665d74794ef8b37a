package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	quotasvc "github.com/Dutaco/wingoo-clean/internal/services/quota"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type QuotaHandler struct {
	service *quotasvc.Service
}

func NewQuotaHandler(service *quotasvc.Service) *QuotaHandler {
	return &QuotaHandler{service: service}
}

func (h *QuotaHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load quota")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.QuotaSnapshotResponse{
		GiftsRemaining:   snapshot.GiftsRemaining,
		FlightsRemaining: snapshot.FlightsRemaining,
		NewsRemaining:    snapshot.NewsRemaining,
		IsPremium:        snapshot.IsPremium,
		ResetsAt:         snapshot.ResetsAt,
	})
}

// FeatureAccess is the side-effect-free allow/deny probe: it reports
// whether the next invocation of the feature would be permitted
// without consuming anything.
func (h *QuotaHandler) FeatureAccess(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	feature, ok := enums.ParseFeature(chi.URLParam(r, "feature"))
	if !ok {
		writeBadRequest(w, "UNKNOWN_FEATURE", "feature must be one of gifts, flights, news")
		return
	}

	decision, err := h.service.Check(r.Context(), identity.UserID, feature)
	if err != nil {
		switch {
		case errors.Is(err, quotasvc.ErrUnknownFeature):
			writeBadRequest(w, "UNKNOWN_FEATURE", "feature must be one of gifts, flights, news")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to check feature access")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.FeatureAccessResponse{
		Feature:   string(feature),
		Allowed:   decision.Allowed,
		Reason:    decision.Reason,
		Remaining: decision.Remaining,
	})
}
