package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/service"
	"github.com/caredock/caredock-bookings/pkg/logger"
)

type bookingCreatedData struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentSecret string `json:"payment_client_secret,omitempty"`
}

// CreateBooking handles POST /bookings. Requires a patient token.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims := patientClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req domain.BookingCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := h.auth.GetPatient(r.Context(), claims.Sub)
	if err != nil || patient == nil {
		writeError(w, http.StatusUnauthorized, "unknown patient")
		return
	}

	result, err := h.bookings.Create(r.Context(), patient, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotTaken):
			writeError(w, http.StatusConflict, "this appointment slot is no longer available")
		case service.IsInvalidInput(err):
			writeFieldErrors(w, http.StatusUnprocessableEntity, "booking request failed validation", service.FieldErrors(err))
		default:
			logger.ErrorContext(r.Context(), "Failed to create booking", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "booking created", bookingCreatedData{
		ID:            result.Booking.ID,
		Status:        string(result.Booking.Status),
		PaymentSecret: result.ClientSecret,
	})
}

// GetBooking handles GET /bookings/{id} for the owning patient.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	claims := patientClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to get booking", "error", err, "booking_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	if booking == nil || booking.PatientID != claims.Sub {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	writeData(w, http.StatusOK, booking)
}

// ListBookings handles GET /bookings for the authenticated patient.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	claims := patientClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	limit, offset := parsePagination(r)

	bookings, err := h.bookings.ListByPatient(r.Context(), claims.Sub, limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	writeData(w, http.StatusOK, bookings)
}
