// Package bookingflow drives the patient-facing appointment selection and
// booking workflow: loading a doctor's availability (degrading to synthetic
// fallback data when the backend is unreachable), tracking the selected date
// and time, and submitting the booking.
package bookingflow

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/caredock/caredock-bookings/internal/apiclient"
	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/kvstore"
	"github.com/caredock/caredock-bookings/internal/schedule"
	"github.com/caredock/caredock-bookings/pkg/config"
	"github.com/caredock/caredock-bookings/pkg/logger"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateSubmitting
	StateError
)

// BackendAPI is the slice of the REST client the flow depends on.
type BackendAPI interface {
	DoctorAvailability(ctx context.Context, doctorID int64, q apiclient.AvailabilityQuery) ([]domain.AvailabilitySlot, error)
	UnavailableDates(ctx context.Context, doctorID int64) ([]domain.UnavailableDate, error)
	CreateBooking(ctx context.Context, req *domain.BookingCreateReq) (*domain.BookingConfirmation, error)
}

// Flow owns the selection state for one doctor context. It is single-owner:
// all methods are expected to run on one logical thread (the UI event loop
// equivalent). The only concurrency guard is the submit busy flag.
type Flow struct {
	api    BackendAPI
	notify Notifier
	policy schedule.FallbackPolicy
	now    func() time.Time

	state    State
	doctor   domain.Doctor
	slots    []domain.AvailabilitySlot
	fallback bool

	dates       []schedule.DateOption
	times       []schedule.TimeOption
	unavailable map[string]string // dateKey -> reason

	selectedDateKey string
	selectedTimeID  string

	submitting atomic.Bool
	kv         kvstore.Store
	payment    string        // payment_method tag for outbound requests
	currentTTL time.Duration // expiry for the session-scoped current booking key
}

type Option func(*Flow)

// WithFallbackPolicy overrides the synthetic availability produced when the
// backend call fails or returns nothing.
func WithFallbackPolicy(p schedule.FallbackPolicy) Option {
	return func(f *Flow) { f.policy = p }
}

// WithClock fixes the flow's notion of "today" for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// WithPaymentMethod overrides the provider tag stamped on booking requests.
func WithPaymentMethod(tag string) Option {
	return func(f *Flow) { f.payment = tag }
}

// WithCurrentBookingTTL bounds the session-scoped current_booking_id key.
// Zero means no expiry.
func WithCurrentBookingTTL(ttl time.Duration) Option {
	return func(f *Flow) { f.currentTTL = ttl }
}

// WithBookingConfig applies the payment tag and current-booking TTL from the
// service configuration.
func WithBookingConfig(cfg config.BookingConfig) Option {
	return func(f *Flow) {
		if cfg.PaymentMethod != "" {
			f.payment = cfg.PaymentMethod
		}
		f.currentTTL = cfg.CurrentBookingTTL
	}
}

func New(api BackendAPI, kv kvstore.Store, notify Notifier, opts ...Option) *Flow {
	f := &Flow{
		api:         api,
		kv:          kv,
		notify:      notify,
		policy:      schedule.DefaultFallbackPolicy(),
		now:         time.Now,
		unavailable: make(map[string]string),
		payment:     "stripe",
	}
	if f.notify == nil {
		f.notify = LogNotifier{}
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load fetches availability for the doctor and auto-selects the first
// available date and its first time slot. A fetch failure or empty payload
// degrades to the fallback policy; either way the flow ends Ready. A canceled
// context (the user navigated away mid-flight) discards the response without
// touching state.
func (f *Flow) Load(ctx context.Context, doctor domain.Doctor) error {
	f.state = StateLoading
	f.doctor = doctor
	// The blocked-date set is per doctor; a reload must not inherit the
	// previous doctor's dates.
	f.unavailable = make(map[string]string)

	slots, err := f.api.DoctorAvailability(ctx, doctor.ID, apiclient.AvailabilityQuery{})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil || len(slots) == 0 {
		if err != nil {
			logger.WarnContext(ctx, "availability fetch failed, using fallback",
				"doctor_id", doctor.ID, "error", err)
		}
		f.enterFallback()
	} else {
		f.fallback = false
		f.slots = slots
		f.dates = schedule.DateOptions(slots)
	}

	// Unavailable dates feed the external calendar check only; failure here
	// is not worth degrading the whole flow for.
	if dates, err := f.api.UnavailableDates(ctx, doctor.ID); err == nil {
		for _, d := range dates {
			f.unavailable[d.Date] = d.Reason
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	f.autoSelect()
	f.state = StateReady
	return nil
}

func (f *Flow) enterFallback() {
	f.fallback = true
	f.slots = nil
	f.dates = f.policy.DateOptions(f.now())
}

// autoSelect picks the first available date and its first time slot.
func (f *Flow) autoSelect() {
	f.selectedDateKey = ""
	f.selectedTimeID = ""
	f.times = nil

	for _, d := range f.dates {
		if !d.HasAvailability {
			continue
		}
		f.selectedDateKey = d.DateKey
		f.times = f.timesFor(d.DateKey)
		if len(f.times) > 0 {
			f.selectedTimeID = f.times[0].ID
		}
		return
	}
}

func (f *Flow) timesFor(dateKey string) []schedule.TimeOption {
	if f.fallback {
		return f.policy.TimeOptions(dateKey)
	}
	return schedule.TimeOptionsFor(f.slots, dateKey)
}

// SelectDate moves the selection to dateKey. Picking a date without
// availability is rejected without mutating state. On an accepted pick the
// time list is recomputed; the prior time slot is kept when a slot with the
// same display label exists in the new list, otherwise the first slot is
// selected, otherwise the time selection is cleared with a warning.
func (f *Flow) SelectDate(dateKey string) bool {
	target, ok := f.dateOption(dateKey)
	if !ok || !target.HasAvailability {
		f.notify.Warn("This date is not available for booking. Please choose another date.")
		return false
	}

	var priorLabel string
	if t, ok := f.SelectedTime(); ok {
		priorLabel = t.Display12h
	}

	f.selectedDateKey = dateKey
	f.times = f.timesFor(dateKey)
	f.selectedTimeID = ""

	if priorLabel != "" {
		for _, t := range f.times {
			if t.Display12h == priorLabel {
				f.selectedTimeID = t.ID
				return true
			}
		}
	}
	if len(f.times) > 0 {
		f.selectedTimeID = f.times[0].ID
		return true
	}

	f.notify.Warn("No times are available for this date.")
	return true
}

// SelectTime picks a slot from the current time list. Unknown ids are ignored.
func (f *Flow) SelectTime(id string) bool {
	for _, t := range f.times {
		if t.ID == id {
			f.selectedTimeID = id
			return true
		}
	}
	return false
}

// CheckCalendarDate handles a date picked from an external calendar widget,
// which may be any date at all. If the date is known to be unavailable the
// user is warned and the nearest later available date is returned as a
// suggestion; the selection is never moved automatically.
func (f *Flow) CheckCalendarDate(dateKey string) (suggestion string, available bool) {
	_, blocked := f.unavailable[dateKey]
	if !blocked {
		if opt, ok := f.dateOption(dateKey); ok {
			blocked = !opt.HasAvailability
		}
	}
	if !blocked {
		return "", true
	}

	f.notify.Warn("The doctor is not available on this date.")
	for _, d := range f.dates {
		if d.HasAvailability && d.DateKey > dateKey {
			return d.DateKey, false
		}
	}
	return "", false
}

func (f *Flow) dateOption(dateKey string) (schedule.DateOption, bool) {
	for _, d := range f.dates {
		if d.DateKey == dateKey {
			return d, true
		}
	}
	return schedule.DateOption{}, false
}

func (f *Flow) State() State                 { return f.state }
func (f *Flow) Fallback() bool               { return f.fallback }
func (f *Flow) Dates() []schedule.DateOption { return f.dates }
func (f *Flow) Times() []schedule.TimeOption { return f.times }
func (f *Flow) SelectedDateKey() string      { return f.selectedDateKey }

func (f *Flow) SelectedTime() (schedule.TimeOption, bool) {
	if f.selectedTimeID == "" {
		return schedule.TimeOption{}, false
	}
	for _, t := range f.times {
		if t.ID == f.selectedTimeID {
			return t, true
		}
	}
	return schedule.TimeOption{}, false
}
