package bookingflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/caredock/caredock-bookings/internal/apiclient"
	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/kvstore"
	"github.com/caredock/caredock-bookings/internal/schedule"
	"github.com/caredock/caredock-bookings/pkg/config"
)

// ttlRecordingStore captures the TTL passed with every write.
type ttlRecordingStore struct {
	kvstore.Store
	ttls map[string]time.Duration
}

func newTTLRecordingStore() *ttlRecordingStore {
	return &ttlRecordingStore{
		Store: kvstore.NewMemoryStore(),
		ttls:  make(map[string]time.Duration),
	}
}

func (s *ttlRecordingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.ttls[key] = ttl
	return s.Store.Set(ctx, key, value, ttl)
}

func loadedFlow(t *testing.T, api *fakeAPI, kv kvstore.Store, notify Notifier) *Flow {
	t.Helper()
	f := New(api, kv, notify)
	if err := f.Load(context.Background(), testDoctor); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return f
}

func kvKeyCount(t *testing.T, kv kvstore.Store) int {
	t.Helper()
	all, err := kv.ScanPrefix(context.Background(), "")
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	return len(all)
}

func TestSubmitSuccessWritesThreeKeys(t *testing.T) {
	api := twoDayAPI()
	api.conf = &domain.BookingConfirmation{ID: 42, Status: "pending"}
	kv := kvstore.NewMemoryStore()
	notify := &recordingNotifier{}

	f := loadedFlow(t, api, kv, notify)

	pc, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if api.lastReq.DoctorID != 7 || api.lastReq.AppointmentDate != "2025-06-10" || api.lastReq.AppointmentTime != "09:00" {
		t.Errorf("unexpected request: %+v", api.lastReq)
	}
	if api.lastReq.PaymentMethod != "stripe" {
		t.Errorf("payment method = %q, want stripe", api.lastReq.PaymentMethod)
	}
	if want := "Appointment with Dr. Amina Diallo at 9:00 AM"; api.lastReq.Notes != want {
		t.Errorf("notes = %q, want %q", api.lastReq.Notes, want)
	}

	ctx := context.Background()
	if n := kvKeyCount(t, kv); n != 3 {
		t.Errorf("persisted %d keys, want exactly 3", n)
	}
	for _, key := range []string{"doctor_7_booking_id", "current_booking_id"} {
		if v, err := kv.Get(ctx, key); err != nil || v != "42" {
			t.Errorf("key %q = %q (%v), want 42", key, v, err)
		}
	}

	raw, err := kv.Get(ctx, "booking_42_info")
	if err != nil {
		t.Fatalf("info blob missing: %v", err)
	}
	var info BookingInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		t.Fatalf("info blob not JSON: %v", err)
	}
	if info.DoctorID != 7 || info.DoctorName != "Amina Diallo" ||
		info.AppointmentDate != "2025-06-10" || info.AppointmentTime != "9:00 AM" {
		t.Errorf("info blob = %+v", info)
	}

	if pc.BookingID != 42 || pc.DoctorName != "Amina Diallo" || pc.SessionPrice != 15000 ||
		pc.AppointmentTime != "9:00 AM" || pc.ClinicAddress != "12 Harbor St" {
		t.Errorf("payment context = %+v", pc)
	}
	if len(notify.infos) == 0 {
		t.Error("no success notification emitted")
	}
}

func TestSubmitWithoutSelectionIsLocalError(t *testing.T) {
	api := twoDayAPI()
	notify := &recordingNotifier{}
	f := New(api, kvstore.NewMemoryStore(), notify)
	f.doctor = testDoctor // doctor known, nothing selected

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrNoDateSelected) {
		t.Fatalf("Submit = %v, want ErrNoDateSelected", err)
	}
	if api.createCalls != 0 {
		t.Error("network call issued despite failed precondition")
	}
	if len(notify.errors) == 0 {
		t.Error("no error notification emitted")
	}
}

func TestSubmitWithoutDoctorIsLocalError(t *testing.T) {
	api := twoDayAPI()
	notify := &recordingNotifier{}
	f := New(api, kvstore.NewMemoryStore(), notify)

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrNoDoctor) {
		t.Fatalf("Submit = %v, want ErrNoDoctor", err)
	}
	if api.createCalls != 0 {
		t.Error("network call issued without a doctor")
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "doctor") {
		t.Errorf("message does not name the missing doctor: %v", notify.errors)
	}
}

func TestSubmitAppliesBookingConfig(t *testing.T) {
	api := twoDayAPI()
	api.conf = &domain.BookingConfirmation{ID: 42, Status: "pending"}
	kv := newTTLRecordingStore()

	f := New(api, kv, &recordingNotifier{},
		WithBookingConfig(config.BookingConfig{
			PaymentMethod:     "cash",
			CurrentBookingTTL: 24 * time.Hour,
		}))
	if err := f.Load(context.Background(), testDoctor); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if api.lastReq.PaymentMethod != "cash" {
		t.Errorf("payment method = %q, want cash", api.lastReq.PaymentMethod)
	}
	if got := kv.ttls[CurrentBookingKey]; got != 24*time.Hour {
		t.Errorf("current booking TTL = %v, want 24h", got)
	}
	for _, key := range []string{DoctorBookingKey(7), BookingInfoKey("42")} {
		if got := kv.ttls[key]; got != 0 {
			t.Errorf("key %q TTL = %v, want no expiry", key, got)
		}
	}
}

func TestSubmitRejectsMalformedTime(t *testing.T) {
	api := twoDayAPI()
	f := New(api, kvstore.NewMemoryStore(), &recordingNotifier{})
	f.doctor = testDoctor
	f.selectedDateKey = "2025-06-10"
	f.times = []schedule.TimeOption{{ID: "bad", Start24: "9:00", Display12h: "9:00 AM"}}
	f.selectedTimeID = "bad"

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrBadTimeFormat) {
		t.Fatalf("Submit = %v, want ErrBadTimeFormat", err)
	}
	if api.createCalls != 0 {
		t.Error("network call issued with malformed time")
	}
}

func TestSubmitConflictWritesNothing(t *testing.T) {
	api := twoDayAPI()
	api.createErr = apiclient.ErrSlotTaken
	kv := kvstore.NewMemoryStore()
	notify := &recordingNotifier{}

	f := loadedFlow(t, api, kv, notify)

	if _, err := f.Submit(context.Background()); !errors.Is(err, apiclient.ErrSlotTaken) {
		t.Fatalf("Submit = %v, want ErrSlotTaken", err)
	}
	if n := kvKeyCount(t, kv); n != 0 {
		t.Errorf("conflict persisted %d keys, want 0", n)
	}
	if len(notify.errors) == 0 || !strings.Contains(notify.errors[0], "no longer available") {
		t.Errorf("conflict message not distinct: %v", notify.errors)
	}
	if f.State() != StateReady {
		t.Errorf("state after conflict = %v, want Ready", f.State())
	}
}

func TestSubmitUnauthorizedSignalsSignIn(t *testing.T) {
	api := twoDayAPI()
	api.createErr = apiclient.ErrUnauthorized
	notify := &recordingNotifier{}

	f := loadedFlow(t, api, kvstore.NewMemoryStore(), notify)

	if _, err := f.Submit(context.Background()); !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Fatalf("Submit = %v, want ErrUnauthorized", err)
	}
	if len(notify.warns) == 0 || !strings.Contains(notify.warns[0], "sign in") {
		t.Errorf("no sign-in prompt: %v", notify.warns)
	}
}

func TestSubmitSurfacesServerFieldErrors(t *testing.T) {
	api := twoDayAPI()
	api.createErr = &apiclient.ValidationError{
		Message: "booking request failed validation",
		Fields:  map[string]string{"appointment_time": "must be HH:MM"},
	}
	notify := &recordingNotifier{}

	f := loadedFlow(t, api, kvstore.NewMemoryStore(), notify)

	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded despite validation error")
	}
	if len(notify.errors) != 1 || !strings.Contains(notify.errors[0], "appointment_time") {
		t.Errorf("field errors not surfaced verbatim: %v", notify.errors)
	}
}

func TestSubmitGenericFailure(t *testing.T) {
	api := twoDayAPI()
	api.createErr = &apiclient.APIError{Status: 503, Message: "upstream down"}
	notify := &recordingNotifier{}

	f := loadedFlow(t, api, kvstore.NewMemoryStore(), notify)

	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded despite server failure")
	}
	if len(notify.errors) == 0 || !strings.Contains(notify.errors[0], "try again") {
		t.Errorf("generic failure message missing: %v", notify.errors)
	}
	if api.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1 (no automatic retry)", api.createCalls)
	}
}

func TestSubmitBusyGuard(t *testing.T) {
	api := twoDayAPI()
	f := loadedFlow(t, api, kvstore.NewMemoryStore(), &recordingNotifier{})

	f.submitting.Store(true)
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("Submit = %v, want ErrSubmitInFlight", err)
	}
	if api.createCalls != 0 {
		t.Error("duplicate submit reached the network")
	}
}
