package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/Dutaco/wingoo-clean/internal/repo/postgres"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	subsvc "github.com/Dutaco/wingoo-clean/internal/services/subscriptions"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type SubscriptionHandler struct {
	service *subsvc.Service
}

func NewSubscriptionHandler(service *subsvc.Service) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SUBSCRIPTION_SERVICE_UNAVAILABLE", "subscription service is unavailable")
		return
	}

	sub, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrSubscriptionNotFound):
			writeNotFound(w, "SUBSCRIPTION_NOT_FOUND", "no subscription for this account")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load subscription")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SubscriptionResponse{
		UserID:    sub.UserID,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		IsActive:  sub.IsActive,
	})
}

func (h *SubscriptionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SUBSCRIPTION_SERVICE_UNAVAILABLE", "subscription service is unavailable")
		return
	}

	sub, err := h.service.Upgrade(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, subsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid upgrade request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to upgrade subscription")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SubscriptionResponse{
		UserID:    sub.UserID,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		IsActive:  sub.IsActive,
	})
}
