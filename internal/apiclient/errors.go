package apiclient

import (
	"errors"
	"fmt"
)

// ErrSlotTaken maps HTTP 409: the slot was raced away by another booking.
// The caller should refresh availability and reselect, not retry the same
// request.
var ErrSlotTaken = errors.New("appointment slot no longer available")

// ErrUnauthorized maps HTTP 401: the caller should redirect to sign-in.
var ErrUnauthorized = errors.New("authentication required")

// ValidationError maps HTTP 400/422 with any server-provided field errors.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid booking request"
}

// APIError covers every other non-2xx answer, including 5xx.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}
