package bookingflow

import (
	"fmt"
)

// Booking identity is persisted redundantly under three key spaces so later,
// unrelated page loads (a review form, a receipt screen) can recover the most
// recent booking without a server round trip. Any of the three being stale or
// missing is tolerated; see LatestBookingForDoctor for the lookup order.
const (
	// CurrentBookingKey is the session-scoped "current booking" pointer.
	CurrentBookingKey = "current_booking_id"

	doctorKeyPrefix   = "doctor_"
	doctorKeySuffix   = "_booking_id"
	bookingInfoPrefix = "booking_"
	bookingInfoSuffix = "_info"
	reviewFlagPrefix  = "review_submitted_"
)

func DoctorBookingKey(doctorID int64) string {
	return fmt.Sprintf("%s%d%s", doctorKeyPrefix, doctorID, doctorKeySuffix)
}

func BookingInfoKey(bookingID string) string {
	return bookingInfoPrefix + bookingID + bookingInfoSuffix
}

func ReviewSubmittedKey(bookingID string) string {
	return reviewFlagPrefix + bookingID
}

// BookingInfo is the informational record stored under BookingInfoKey.
type BookingInfo struct {
	DoctorID        int64  `json:"doctorId"`
	DoctorName      string `json:"doctorName"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
}
