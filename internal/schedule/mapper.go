package schedule

import (
	"sort"
	"time"

	"github.com/caredock/caredock-bookings/internal/domain"
)

const dateKeyLayout = "2006-01-02"

// DateOption is one selectable calendar date in the booking flow.
type DateOption struct {
	WeekdayShort    string    `json:"weekday_short"`
	DayOfMonth      int       `json:"day_of_month"`
	Date            time.Time `json:"date"`
	DateKey         string    `json:"date_key"` // YYYY-MM-DD
	WeekdayFull     string    `json:"weekday_full"`
	HasAvailability bool      `json:"has_availability"`
}

// TimeOption is one selectable time interval within a chosen date.
type TimeOption struct {
	ID           string `json:"id"`
	Display12h   string `json:"display_12h"`
	Start24      string `json:"start_24"`
	End24        string `json:"end_24"`
	DisplayRange string `json:"display_range"`
}

// DateOptions projects the raw availability list onto a deduplicated list of
// selectable dates, sorted ascending. A date appears at all only when it has
// at least one slot, so HasAvailability is always true here.
//
// Dedup goes through a set keyed on the raw date string; its iteration order
// is first-seen, so the explicit sort below is mandatory.
func DateOptions(slots []domain.AvailabilitySlot) []DateOption {
	seen := make(map[string]bool, len(slots))
	opts := make([]DateOption, 0, len(slots))

	for _, s := range slots {
		if seen[s.Date] {
			continue
		}
		seen[s.Date] = true

		d, err := time.Parse(dateKeyLayout, s.Date)
		if err != nil {
			continue
		}
		opts = append(opts, newDateOption(d, true))
	}

	sort.Slice(opts, func(i, j int) bool {
		return opts[i].Date.Before(opts[j].Date)
	})
	return opts
}

// TimeOptionsFor projects the slots belonging to one date onto selectable time
// intervals, preserving API order. Slots with malformed times are dropped.
func TimeOptionsFor(slots []domain.AvailabilitySlot, dateKey string) []TimeOption {
	var opts []TimeOption
	for i, s := range slots {
		if s.Date != dateKey {
			continue
		}

		display, err := To12Hour(s.StartTime)
		if err != nil {
			continue
		}
		rng, err := FormatRange(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}

		opts = append(opts, TimeOption{
			ID:           timeOptionID(dateKey, s.StartTime, i),
			Display12h:   display,
			Start24:      s.StartTime,
			End24:        s.EndTime,
			DisplayRange: rng,
		})
	}
	return opts
}

func newDateOption(d time.Time, available bool) DateOption {
	return DateOption{
		WeekdayShort:    d.Format("Mon"),
		DayOfMonth:      d.Day(),
		Date:            d,
		DateKey:         d.Format(dateKeyLayout),
		WeekdayFull:     d.Format("Monday"),
		HasAvailability: available,
	}
}
