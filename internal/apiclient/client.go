// Package apiclient is the typed HTTP client the booking flow talks to the
// backend through. Non-2xx answers are mapped onto the error taxonomy the
// flow handles: conflict, validation, auth, and everything else.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/google/go-querystring/query"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope is the wire shape every endpoint answers with.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// AvailabilityQuery narrows the availability window server-side.
type AvailabilityQuery struct {
	From string `url:"from,omitempty"` // YYYY-MM-DD
	To   string `url:"to,omitempty"`
}

func (c *Client) DoctorAvailability(ctx context.Context, doctorID int64, q AvailabilityQuery) ([]domain.AvailabilitySlot, error) {
	path := fmt.Sprintf("/doctors/%d/availability", doctorID)
	vals, err := query.Values(q)
	if err != nil {
		return nil, err
	}
	if enc := vals.Encode(); enc != "" {
		path += "?" + enc
	}

	var slots []domain.AvailabilitySlot
	if err := c.do(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) UnavailableDates(ctx context.Context, doctorID int64) ([]domain.UnavailableDate, error) {
	var dates []domain.UnavailableDate
	path := fmt.Sprintf("/doctors/%d/unavailable-dates", doctorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

func (c *Client) CreateBooking(ctx context.Context, req *domain.BookingCreateReq) (*domain.BookingConfirmation, error) {
	var conf domain.BookingConfirmation
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(res.Body).Decode(&env)

	switch {
	case res.StatusCode == http.StatusConflict:
		return ErrSlotTaken
	case res.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusUnprocessableEntity:
		ve := &ValidationError{Message: env.Message, Fields: env.Errors}
		return ve
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return &APIError{Status: res.StatusCode, Message: env.Message}
	}

	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		// 2xx with success=false is treated as an empty payload by callers.
		return &APIError{Status: res.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
