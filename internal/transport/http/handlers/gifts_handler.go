package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dutaco/wingoo-clean/internal/domain/model"
	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	giftsvc "github.com/Dutaco/wingoo-clean/internal/services/gifts"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type GiftsHandler struct {
	service *giftsvc.Service
}

func NewGiftsHandler(service *giftsvc.Service) *GiftsHandler {
	return &GiftsHandler{service: service}
}

func (h *GiftsHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "GIFT_SERVICE_UNAVAILABLE", "gift service is unavailable")
		return
	}

	var req dto.GiftSendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	gift, err := h.service.Send(r.Context(), identity.UserID, giftsvc.SendInput{
		RecipientID: req.RecipientID,
		GiftType:    req.GiftType,
		Message:     req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, giftsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid gift request")
		case errors.Is(err, giftsvc.ErrRecipientNotFound):
			writeNotFound(w, "RECIPIENT_NOT_FOUND", "recipient does not exist")
		case errors.Is(err, giftsvc.ErrQuotaExceeded):
			resetsAt := rules.NextResetAt(nowUTC())
			httperrors.Write(w, http.StatusForbidden, httperrors.QuotaExceededError{
				Code:     "QUOTA_EXCEEDED",
				Message:  "monthly gift limit reached",
				Feature:  "gifts",
				ResetsAt: &resetsAt,
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send gift")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapGift(gift))
}

func (h *GiftsHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListSent)
}

func (h *GiftsHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListReceived)
}

func (h *GiftsHandler) list(w http.ResponseWriter, r *http.Request, load func(context.Context, int64) ([]model.Gift, error)) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "GIFT_SERVICE_UNAVAILABLE", "gift service is unavailable")
		return
	}

	gifts, err := load(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list gifts")
		return
	}

	payload := make([]dto.GiftPayload, 0, len(gifts))
	for _, gift := range gifts {
		payload = append(payload, mapGift(gift))
	}
	httperrors.Write(w, http.StatusOK, dto.GiftListResponse{Gifts: payload})
}

func mapGift(gift model.Gift) dto.GiftPayload {
	return dto.GiftPayload{
		ID:          gift.ID,
		SenderID:    gift.SenderID,
		RecipientID: gift.RecipientID,
		GiftType:    gift.GiftType,
		Message:     gift.Message,
		FeeCents:    gift.FeeCents,
		RedeemCode:  gift.RedeemCode,
		Redeemed:    gift.Redeemed,
		CreatedAt:   gift.CreatedAt,
	}
}
