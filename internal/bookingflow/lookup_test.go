package bookingflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/caredock/caredock-bookings/internal/kvstore"
)

func TestLatestBookingPrefersDoctorScopedKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	kv.Set(ctx, DoctorBookingKey(7), "42", 0)
	kv.Set(ctx, CurrentBookingKey, "99", 0)

	id, err := LatestBookingForDoctor(ctx, kv, 7)
	if err != nil || id != "42" {
		t.Fatalf("got %q (%v), want 42", id, err)
	}
}

func TestLatestBookingFallsBackToCurrent(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	kv.Set(ctx, CurrentBookingKey, "99", 0)

	id, err := LatestBookingForDoctor(ctx, kv, 7)
	if err != nil || id != "99" {
		t.Fatalf("got %q (%v), want 99", id, err)
	}
}

func TestLatestBookingSkipsCurrentForOtherDoctor(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	// The current booking belongs to doctor 3, not 7; a doctor-scoped key for
	// some doctor still exists and wins via the scan.
	kv.Set(ctx, CurrentBookingKey, "99", 0)
	blob, _ := json.Marshal(BookingInfo{DoctorID: 3, DoctorName: "Other"})
	kv.Set(ctx, BookingInfoKey("99"), string(blob), 0)
	kv.Set(ctx, DoctorBookingKey(3), "99", 0)

	id, err := LatestBookingForDoctor(ctx, kv, 7)
	if err != nil || id != "99" {
		t.Fatalf("got %q (%v), want 99 via scan", id, err)
	}
}

func TestLatestBookingNotFound(t *testing.T) {
	_, err := LatestBookingForDoctor(context.Background(), kvstore.NewMemoryStore(), 7)
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("err = %v, want kvstore.ErrNotFound", err)
	}
}

func TestReviewGate(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	if ReviewSubmitted(ctx, kv, "42") {
		t.Fatal("review reported submitted before marking")
	}
	if err := MarkReviewSubmitted(ctx, kv, "42"); err != nil {
		t.Fatalf("MarkReviewSubmitted: %v", err)
	}
	if !ReviewSubmitted(ctx, kv, "42") {
		t.Fatal("review not reported submitted after marking")
	}
	if err := MarkReviewSubmitted(ctx, kv, ""); err == nil {
		t.Fatal("empty booking id accepted")
	}
}

func TestLoadBookingInfoRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	want := BookingInfo{DoctorID: 7, DoctorName: "Amina Diallo", AppointmentDate: "2025-06-10", AppointmentTime: "9:00 AM"}
	blob, _ := json.Marshal(want)
	kv.Set(ctx, BookingInfoKey("42"), string(blob), 0)

	got, err := LoadBookingInfo(ctx, kv, "42")
	if err != nil {
		t.Fatalf("LoadBookingInfo: %v", err)
	}
	if *got != want {
		t.Errorf("info = %+v, want %+v", *got, want)
	}
}
