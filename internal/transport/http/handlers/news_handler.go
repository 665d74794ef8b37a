package handlers

import (
	"errors"
	"net/http"

	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	newssvc "github.com/Dutaco/wingoo-clean/internal/services/news"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type NewsHandler struct {
	service *newssvc.Service
}

func NewNewsHandler(service *newssvc.Service) *NewsHandler {
	return &NewsHandler{service: service}
}

func (h *NewsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "NEWS_SERVICE_UNAVAILABLE", "news service is unavailable")
		return
	}

	digest, err := h.service.Request(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, newssvc.ErrQuotaExceeded):
			resetsAt := rules.NextResetAt(nowUTC())
			httperrors.Write(w, http.StatusForbidden, httperrors.QuotaExceededError{
				Code:     "QUOTA_EXCEEDED",
				Message:  "monthly news limit reached",
				Feature:  "news",
				ResetsAt: &resetsAt,
			})
		case errors.Is(err, newssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid news request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to generate news digest")
		}
		return
	}

	articles := make([]dto.ArticlePayload, 0, len(digest.Articles))
	for _, article := range digest.Articles {
		articles = append(articles, dto.ArticlePayload{
			Title:       article.Title,
			Description: article.Description,
			URL:         article.URL,
			Interest:    article.Interest,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.NewsResponse{
		Interests: digest.Interests,
		Articles:  articles,
	})
}
