package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dutaco/wingoo-clean/internal/domain/rules"
	authsvc "github.com/Dutaco/wingoo-clean/internal/services/auth"
	flightsvc "github.com/Dutaco/wingoo-clean/internal/services/flights"
	"github.com/Dutaco/wingoo-clean/internal/transport/http/dto"
	httperrors "github.com/Dutaco/wingoo-clean/internal/transport/http/errors"
)

type FlightsHandler struct {
	service *flightsvc.Service
}

func NewFlightsHandler(service *flightsvc.Service) *FlightsHandler {
	return &FlightsHandler{service: service}
}

func (h *FlightsHandler) Book(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FLIGHT_SERVICE_UNAVAILABLE", "flight service is unavailable")
		return
	}

	var req dto.FlightBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Book(r.Context(), identity.UserID, flightsvc.BookInput{
		FlightNumber:   req.FlightNumber,
		Departure:      req.Departure,
		Arrival:        req.Arrival,
		Date:           req.Date,
		SeatPreference: req.SeatPreference,
	})
	if err != nil {
		switch {
		case errors.Is(err, flightsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid booking request")
		case errors.Is(err, flightsvc.ErrQuotaExceeded):
			resetsAt := rules.NextResetAt(nowUTC())
			httperrors.Write(w, http.StatusForbidden, httperrors.QuotaExceededError{
				Code:     "QUOTA_EXCEEDED",
				Message:  "monthly flight limit reached",
				Feature:  "flights",
				ResetsAt: &resetsAt,
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to book flight")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.FlightBookResponse{
		Flight: dto.FlightPayload{
			ID:           result.Flight.ID,
			FlightNumber: result.Flight.FlightNumber,
			Departure:    result.Flight.Departure,
			Arrival:      result.Flight.Arrival,
			Date:         result.Flight.Date,
		},
		BookingID:     result.Booking.ID,
		AlreadyBooked: result.AlreadyBooked,
		Matches:       mapMatches(result.CoTravelers),
	})
}

func (h *FlightsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FLIGHT_SERVICE_UNAVAILABLE", "flight service is unavailable")
		return
	}

	flightNumber := strings.TrimSpace(chi.URLParam(r, "flightNumber"))
	if flightNumber == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "flight number is required")
		return
	}

	matches, err := h.service.Matches(r.Context(), identity.UserID, flightNumber)
	if err != nil {
		switch {
		case errors.Is(err, flightsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid flight match request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load flight matches")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.FlightMatchesResponse{
		FlightNumber: flightNumber,
		Matches:      mapMatches(matches),
	})
}
