package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/caredock/caredock-bookings/internal/service"
	"github.com/caredock/caredock-bookings/pkg/auth"
	"github.com/caredock/caredock-bookings/pkg/config"
	"github.com/caredock/caredock-bookings/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type claimsKey struct{}

type Handlers struct {
	availability service.AvailabilityService
	bookings     service.BookingService
	auth         service.AuthService
	cfg          *config.Config
}

func New(
	availability service.AvailabilityService,
	bookings service.BookingService,
	authSvc service.AuthService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		availability: availability,
		bookings:     bookings,
		auth:         authSvc,
		cfg:          cfg,
	}
}

// RequirePatient gates an endpoint behind a valid patient bearer token.
func (h *Handlers) RequirePatient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), h.cfg.Auth.JWTSecret)
		if err != nil || claims.Role != "patient" {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), logger.PatientIDKey, claims.Sub)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func patientClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
