package handlers

import (
	"net/http"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/pkg/logger"
)

// GetDoctorAvailability handles GET /doctors/{id}/availability.
func (h *Handlers) GetDoctorAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := urlID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid doctor id")
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	slots, err := h.availability.ListForDoctor(r.Context(), doctorID, from, to)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list availability", "error", err, "doctor_id", doctorID)
		writeError(w, http.StatusInternalServerError, "failed to load availability")
		return
	}
	if slots == nil {
		slots = []domain.AvailabilitySlot{}
	}

	writeData(w, http.StatusOK, slots)
}

// GetDoctorUnavailableDates handles GET /doctors/{id}/unavailable-dates.
func (h *Handlers) GetDoctorUnavailableDates(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := urlID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid doctor id")
		return
	}

	dates, err := h.availability.UnavailableDates(r.Context(), doctorID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list unavailable dates", "error", err, "doctor_id", doctorID)
		writeError(w, http.StatusInternalServerError, "failed to load unavailable dates")
		return
	}
	if dates == nil {
		dates = []domain.UnavailableDate{}
	}

	writeData(w, http.StatusOK, dates)
}
