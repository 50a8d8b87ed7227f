package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/service"
	"github.com/caredock/caredock-bookings/pkg/logger"
)

// Register handles POST /auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			writeError(w, http.StatusConflict, err.Error())
		case service.IsInvalidInput(err):
			writeFieldErrors(w, http.StatusUnprocessableEntity, "registration failed validation", service.FieldErrors(err))
		default:
			logger.ErrorContext(r.Context(), "Failed to register patient", "error", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "registered", patient)
}

// Login handles POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		case service.IsInvalidInput(err):
			writeFieldErrors(w, http.StatusUnprocessableEntity, "login failed validation", service.FieldErrors(err))
		default:
			logger.ErrorContext(r.Context(), "Failed to log in patient", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	writeData(w, http.StatusOK, res)
}
