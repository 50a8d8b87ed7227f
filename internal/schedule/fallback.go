package schedule

import "time"

// FallbackPolicy synthesizes date and time options when the availability
// fetch fails or returns nothing, so the picker is never left empty. The
// defaults reproduce the longstanding placeholder behavior: a 7-day window
// with the first 5 days bookable, and a fixed 6-slot day.
type FallbackPolicy struct {
	WindowDays    int
	AvailableDays int
	Times         []FallbackTime
}

type FallbackTime struct {
	Start string
	End   string
}

func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{
		WindowDays:    7,
		AvailableDays: 5,
		Times: []FallbackTime{
			{Start: "09:00", End: "09:30"},
			{Start: "10:00", End: "10:30"},
			{Start: "11:00", End: "11:30"},
			{Start: "14:00", End: "14:30"},
			{Start: "15:00", End: "15:30"},
			{Start: "16:00", End: "16:30"},
		},
	}
}

// DateOptions returns WindowDays consecutive dates starting at now's calendar
// date, the first AvailableDays of them marked bookable.
func (p FallbackPolicy) DateOptions(now time.Time) []DateOption {
	opts := make([]DateOption, 0, p.WindowDays)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := 0; i < p.WindowDays; i++ {
		opts = append(opts, newDateOption(day.AddDate(0, 0, i), i < p.AvailableDays))
	}
	return opts
}

// TimeOptions returns the fixed slot list for one fallback date. The same
// times apply to every date in the window.
func (p FallbackPolicy) TimeOptions(dateKey string) []TimeOption {
	opts := make([]TimeOption, 0, len(p.Times))
	for i, t := range p.Times {
		display, err := To12Hour(t.Start)
		if err != nil {
			continue
		}
		rng, err := FormatRange(t.Start, t.End)
		if err != nil {
			continue
		}
		opts = append(opts, TimeOption{
			ID:           timeOptionID(dateKey, t.Start, i),
			Display12h:   display,
			Start24:      t.Start,
			End24:        t.End,
			DisplayRange: rng,
		})
	}
	return opts
}
