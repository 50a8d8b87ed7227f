package middleware

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caredock/caredock-bookings/internal/kvstore"
)

// cachedResponse is the stored replay record for one idempotency key.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// Idempotency replays the cached response for a repeated POST carrying the
// same Idempotency-Key, so a double-submitted booking cannot be created twice
// even when the client-side busy guard is bypassed. The replay carries the
// original status code, not a flat 200.
func Idempotency(store kvstore.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Hash the caller-chosen key before using it as a storage key.
			sum := sha256.Sum256([]byte(key))
			cacheKey := fmt.Sprintf("idempotency:%x", sum)

			if raw, err := store.Get(r.Context(), cacheKey); err == nil && raw != "" {
				var cached cachedResponse
				if err := json.Unmarshal([]byte(raw), &cached); err == nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(cached.Status)
					w.Write([]byte(cached.Body))
					return
				}
			}

			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if recorder.statusCode >= 200 && recorder.statusCode < 300 {
				record, err := json.Marshal(cachedResponse{
					Status: recorder.statusCode,
					Body:   string(recorder.body),
				})
				if err == nil {
					store.Set(r.Context(), cacheKey, string(record), 24*time.Hour)
				}
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       []byte
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(body []byte) (int, error) {
	r.body = append(r.body, body...)
	return r.ResponseWriter.Write(body)
}
