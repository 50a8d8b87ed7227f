package bookingflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/caredock/caredock-bookings/internal/kvstore"
)

// LatestBookingForDoctor recovers the most recent booking id for a doctor
// from client-side storage, without a server round trip. Lookup order:
// doctor-scoped key, then the session-scoped current booking, then a scan
// over all doctor-scoped keys as a last resort.
func LatestBookingForDoctor(ctx context.Context, kv kvstore.Store, doctorID int64) (string, error) {
	if id, err := kv.Get(ctx, DoctorBookingKey(doctorID)); err == nil && id != "" {
		return id, nil
	}

	if id, err := kv.Get(ctx, CurrentBookingKey); err == nil && id != "" {
		// The current booking may belong to a different doctor; trust it only
		// when its info blob agrees or is missing.
		if info, err := LoadBookingInfo(ctx, kv, id); err != nil || info.DoctorID == doctorID {
			return id, nil
		}
	}

	all, err := kv.ScanPrefix(ctx, doctorKeyPrefix)
	if err != nil {
		return "", err
	}
	for key, id := range all {
		if strings.HasSuffix(key, doctorKeySuffix) && id != "" {
			return id, nil
		}
	}
	return "", kvstore.ErrNotFound
}

// LoadBookingInfo reads the informational record persisted at submit time.
func LoadBookingInfo(ctx context.Context, kv kvstore.Store, bookingID string) (*BookingInfo, error) {
	raw, err := kv.Get(ctx, BookingInfoKey(bookingID))
	if err != nil {
		return nil, err
	}
	var info BookingInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ReviewSubmitted reports whether a review was already filed for the booking.
func ReviewSubmitted(ctx context.Context, kv kvstore.Store, bookingID string) bool {
	v, err := kv.Get(ctx, ReviewSubmittedKey(bookingID))
	if err != nil {
		return false
	}
	return v == "true"
}

// MarkReviewSubmitted sets the gate consumed by the review prompt.
func MarkReviewSubmitted(ctx context.Context, kv kvstore.Store, bookingID string) error {
	if bookingID == "" {
		return errors.New("empty booking id")
	}
	return kv.Set(ctx, ReviewSubmittedKey(bookingID), "true", 0)
}
