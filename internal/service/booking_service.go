package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/payments"
	"github.com/caredock/caredock-bookings/internal/repo/postgres"
	"github.com/caredock/caredock-bookings/internal/schedule"
	"github.com/caredock/caredock-bookings/pkg/events"
	"github.com/caredock/caredock-bookings/pkg/logger"
	"github.com/go-playground/validator/v10"
)

// BookingResult pairs the created booking with the payment intent the client
// completes the flow against.
type BookingResult struct {
	Booking      *domain.Booking
	ClientSecret string
}

type BookingService interface {
	Create(ctx context.Context, patient *domain.Patient, req *domain.BookingCreateReq) (*BookingResult, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]domain.Booking, error)
}

type bookingService struct {
	bookingRepo postgres.BookingRepository
	doctorRepo  postgres.DoctorRepository
	charger     payments.Charger
	eventBus    events.Publisher
	validate    *validator.Validate
}

func NewBookingService(
	bookingRepo postgres.BookingRepository,
	doctorRepo postgres.DoctorRepository,
	charger payments.Charger,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		doctorRepo:  doctorRepo,
		charger:     charger,
		eventBus:    eventBus,
		validate:    validator.New(),
	}
}

func (s *bookingService) Create(ctx context.Context, patient *domain.Patient, req *domain.BookingCreateReq) (*BookingResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if !schedule.ValidWallClock(req.AppointmentTime) {
		return nil, fmt.Errorf("%w: appointment_time must be HH:MM", errInvalidInput)
	}

	doctor, err := s.doctorRepo.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	if doctor == nil {
		return nil, fmt.Errorf("%w: unknown doctor", errInvalidInput)
	}

	booking, err := s.bookingRepo.Create(ctx, patient.ID, req)
	if err != nil {
		return nil, err
	}

	result := &BookingResult{Booking: booking}

	// Payment and notification are best-effort follow-ups: the booking stands
	// even when they fail, and the client can re-initiate payment.
	if s.charger != nil {
		intent, err := s.charger.CreateIntent(ctx, booking.ID, doctor.SessionPrice)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create payment intent", "error", err, "booking_id", booking.ID)
		} else {
			result.ClientSecret = intent.ClientSecret
			if err := s.bookingRepo.SetPaymentIntent(ctx, booking.ID, intent.ID); err != nil {
				logger.WarnContext(ctx, "Failed to record payment intent", "error", err, "booking_id", booking.ID)
			}
			if err := s.eventBus.Publish(ctx, events.PaymentIntentCreated, events.PaymentIntentCreatedEvent{
				BookingID: booking.ID,
				IntentID:  intent.ID,
				Amount:    intent.Amount,
				Currency:  intent.Currency,
			}); err != nil {
				logger.ErrorContext(ctx, "Failed to publish payment intent event", "error", err, "booking_id", booking.ID)
			}
		}
	}

	event := events.BookingCreatedEvent{
		BookingID:       booking.ID,
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		PatientEmail:    patient.Email,
		PatientName:     patient.Name,
		AppointmentDate: booking.AppointmentDate,
		AppointmentTime: booking.AppointmentTime,
		CreatedAt:       booking.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return result, nil
}

func (s *bookingService) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookingRepo.ListByPatient(ctx, patientID, limit, offset)
}

var errInvalidInput = errors.New("invalid input")

// IsInvalidInput lets handlers distinguish validation failures from internal
// errors without importing validator directly.
func IsInvalidInput(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve) || errors.Is(err, errInvalidInput)
}

// FieldErrors extracts per-field messages from a validator error, if any.
func FieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return fields
}
