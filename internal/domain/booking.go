package domain

import (
	"errors"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingPaid      BookingStatus = "paid"
	BookingCompleted BookingStatus = "completed"
	BookingCanceled  BookingStatus = "canceled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingPaid, BookingCompleted, BookingCanceled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// ErrSlotTaken is returned when another booking already holds the requested
// doctor/date/time combination.
var ErrSlotTaken = errors.New("appointment slot already booked")

type Booking struct {
	ID        int64         `json:"id"`
	Status    BookingStatus `json:"status"`
	PatientID int64         `json:"patient_id"`
	DoctorID  int64         `json:"doctor_id"`

	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`

	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookingCreateReq is the outbound payload for POST /bookings. Built only at
// submission time; never persisted client-side before the server confirms.
type BookingCreateReq struct {
	DoctorID        int64  `json:"doctor_id" validate:"required"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointment_time" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
	Notes           string `json:"notes,omitempty"`
}

// BookingConfirmation is the server's answer to a successful create.
type BookingConfirmation struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
