package domain

// AvailabilitySlot is one bookable interval for one doctor on one date, as
// served by GET /doctors/{id}/availability. Dates are YYYY-MM-DD, times HH:MM.
type AvailabilitySlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	DayName   string `json:"day_name"`
}

// UnavailableDate marks a calendar date the doctor cannot be booked on.
type UnavailableDate struct {
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}
