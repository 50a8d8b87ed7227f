package bookingflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caredock/caredock-bookings/internal/apiclient"
	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/schedule"
	"github.com/caredock/caredock-bookings/pkg/logger"
)

// Local precondition failures. None of these issue a network call.
var (
	ErrNoDateSelected = errors.New("no appointment date selected")
	ErrNoTimeSelected = errors.New("no appointment time selected")
	ErrNoDoctor       = errors.New("no doctor selected")
	ErrBadTimeFormat  = errors.New("appointment time is not a valid HH:MM value")

	// ErrSubmitInFlight rejects a second submit while one is outstanding.
	ErrSubmitInFlight = errors.New("a booking submission is already in progress")
)

// PaymentContext is the in-memory navigation state handed to the payment step
// after a successful booking. Nothing in it is re-fetched.
type PaymentContext struct {
	BookingID       int64
	DoctorID        int64
	DoctorName      string
	DoctorImage     string
	Specialty       string
	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // 12-hour display form
	SessionPrice    int64
	ClinicAddress   string
}

// Submit validates the current selection, posts the booking, persists the
// server-issued id under the three storage keys, and returns the payment
// hand-off context. Every failure is terminal for this attempt: the user
// resubmits manually, and a conflict means "pick another time", never "retry".
func (f *Flow) Submit(ctx context.Context) (*PaymentContext, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer f.submitting.Store(false)

	slot, err := f.checkPreconditions()
	if err != nil {
		if errors.Is(err, ErrNoDoctor) {
			f.notify.Error("Please select a doctor before booking.")
		} else {
			f.notify.Error("Please select a date and time before booking.")
		}
		return nil, err
	}

	f.state = StateSubmitting
	req := &domain.BookingCreateReq{
		DoctorID:        f.doctor.ID,
		AppointmentDate: f.selectedDateKey,
		AppointmentTime: slot.Start24,
		PaymentMethod:   f.payment,
		Notes:           fmt.Sprintf("Appointment with Dr. %s at %s", f.doctor.Name, slot.Display12h),
	}

	conf, err := f.api.CreateBooking(ctx, req)
	if err != nil {
		f.state = StateReady
		f.reportSubmitError(err)
		return nil, err
	}

	bookingID := strconv.FormatInt(conf.ID, 10)
	f.persistBookingIdentity(ctx, bookingID, slot)

	f.notify.Info("Your appointment has been booked.")
	f.state = StateReady

	return &PaymentContext{
		BookingID:       conf.ID,
		DoctorID:        f.doctor.ID,
		DoctorName:      f.doctor.Name,
		DoctorImage:     f.doctor.ImageURL,
		Specialty:       f.doctor.Specialty,
		AppointmentDate: f.selectedDateKey,
		AppointmentTime: slot.Display12h,
		SessionPrice:    f.doctor.SessionPrice,
		ClinicAddress:   f.doctor.ClinicAddress,
	}, nil
}

func (f *Flow) checkPreconditions() (schedule.TimeOption, error) {
	if f.doctor.ID == 0 {
		return schedule.TimeOption{}, ErrNoDoctor
	}
	if f.selectedDateKey == "" {
		return schedule.TimeOption{}, ErrNoDateSelected
	}
	slot, ok := f.SelectedTime()
	if !ok {
		return schedule.TimeOption{}, ErrNoTimeSelected
	}
	// Defensive re-check: the value came from derived data, but it is about
	// to cross a trust boundary.
	if !schedule.ValidWallClock(slot.Start24) {
		return schedule.TimeOption{}, ErrBadTimeFormat
	}
	return slot, nil
}

// persistBookingIdentity writes the three redundant identity keys. Redundancy
// here is an availability-over-consistency tradeoff: later lookups tolerate
// any subset being stale or missing, so individual write failures are logged
// and swallowed.
func (f *Flow) persistBookingIdentity(ctx context.Context, bookingID string, slot schedule.TimeOption) {
	info := BookingInfo{
		DoctorID:        f.doctor.ID,
		DoctorName:      f.doctor.Name,
		AppointmentDate: f.selectedDateKey,
		AppointmentTime: slot.Display12h,
	}
	blob, _ := json.Marshal(info)

	writes := []struct {
		key   string
		value string
		ttl   time.Duration
	}{
		{DoctorBookingKey(f.doctor.ID), bookingID, 0},
		{CurrentBookingKey, bookingID, f.currentTTL},
		{BookingInfoKey(bookingID), string(blob), 0},
	}
	for _, w := range writes {
		if err := f.kv.Set(ctx, w.key, w.value, w.ttl); err != nil {
			logger.WarnContext(ctx, "failed to persist booking identity key",
				"key", w.key, "booking_id", bookingID, "error", err)
		}
	}
}

func (f *Flow) reportSubmitError(err error) {
	var ve *apiclient.ValidationError
	switch {
	case errors.Is(err, apiclient.ErrSlotTaken):
		f.notify.Error("That slot is no longer available. Please pick another time.")
	case errors.Is(err, apiclient.ErrUnauthorized):
		f.notify.Warn("Please sign in to book an appointment.")
	case errors.As(err, &ve):
		if len(ve.Fields) > 0 {
			for field, msg := range ve.Fields {
				f.notify.Error(field + ": " + msg)
			}
		} else {
			f.notify.Error("Please check your input and try again.")
		}
	default:
		f.notify.Error("Unable to create booking. Please try again.")
	}
}
