package schedule

import (
	"testing"

	"github.com/caredock/caredock-bookings/internal/domain"
)

func slot(date, start, end string) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{Date: date, StartTime: start, EndTime: end}
}

func TestDateOptionsDedupesAndSorts(t *testing.T) {
	// Out of order on purpose, with duplicate dates.
	slots := []domain.AvailabilitySlot{
		slot("2025-06-12", "10:00", "10:30"),
		slot("2025-06-10", "09:00", "09:30"),
		slot("2025-06-12", "11:00", "11:30"),
		slot("2025-06-10", "14:00", "14:30"),
		slot("2025-06-11", "09:00", "09:30"),
	}

	opts := DateOptions(slots)
	if len(opts) != 3 {
		t.Fatalf("got %d date options, want 3", len(opts))
	}

	keys := make(map[string]bool)
	for i, o := range opts {
		if keys[o.DateKey] {
			t.Errorf("duplicate dateKey %q", o.DateKey)
		}
		keys[o.DateKey] = true

		if !o.HasAvailability {
			t.Errorf("option %d: HasAvailability = false, want true", i)
		}
		if i > 0 && !opts[i-1].Date.Before(o.Date) {
			t.Errorf("options not sorted ascending at index %d", i)
		}
	}

	if opts[0].DateKey != "2025-06-10" || opts[2].DateKey != "2025-06-12" {
		t.Errorf("unexpected order: %q .. %q", opts[0].DateKey, opts[2].DateKey)
	}
}

func TestDateOptionFields(t *testing.T) {
	opts := DateOptions([]domain.AvailabilitySlot{slot("2025-06-10", "09:00", "09:30")})
	if len(opts) != 1 {
		t.Fatalf("got %d options, want 1", len(opts))
	}

	o := opts[0]
	if o.WeekdayShort != "Tue" || o.WeekdayFull != "Tuesday" {
		t.Errorf("weekday = %q/%q, want Tue/Tuesday", o.WeekdayShort, o.WeekdayFull)
	}
	if o.DayOfMonth != 10 {
		t.Errorf("DayOfMonth = %d, want 10", o.DayOfMonth)
	}
}

func TestDateOptionsSkipsMalformedDates(t *testing.T) {
	opts := DateOptions([]domain.AvailabilitySlot{
		slot("not-a-date", "09:00", "09:30"),
		slot("2025-06-10", "09:00", "09:30"),
	})
	if len(opts) != 1 || opts[0].DateKey != "2025-06-10" {
		t.Fatalf("malformed date not skipped: %+v", opts)
	}
}

func TestTimeOptionsForMatchesSlotCount(t *testing.T) {
	slots := []domain.AvailabilitySlot{
		slot("2025-06-10", "09:00", "09:30"),
		slot("2025-06-11", "10:00", "10:30"),
		slot("2025-06-10", "09:00", "09:30"), // duplicate start time
		slot("2025-06-10", "14:00", "14:30"),
	}

	opts := TimeOptionsFor(slots, "2025-06-10")
	if len(opts) != 3 {
		t.Fatalf("got %d time options, want 3", len(opts))
	}

	ids := make(map[string]bool)
	for _, o := range opts {
		if ids[o.ID] {
			t.Errorf("duplicate time option id %q", o.ID)
		}
		ids[o.ID] = true
	}

	// API order preserved, no re-sort.
	if opts[0].Start24 != "09:00" || opts[1].Start24 != "09:00" || opts[2].Start24 != "14:00" {
		t.Errorf("API order not preserved: %+v", opts)
	}
	if opts[0].Display12h != "9:00 AM" {
		t.Errorf("Display12h = %q, want %q", opts[0].Display12h, "9:00 AM")
	}
	if opts[0].DisplayRange != "9:00 AM - 9:30 AM" {
		t.Errorf("DisplayRange = %q", opts[0].DisplayRange)
	}
}

func TestTimeOptionsForDropsMalformedTimes(t *testing.T) {
	slots := []domain.AvailabilitySlot{
		slot("2025-06-10", "9:00", "9:30"), // missing leading zero
		slot("2025-06-10", "10:00", "10:30"),
	}
	opts := TimeOptionsFor(slots, "2025-06-10")
	if len(opts) != 1 || opts[0].Start24 != "10:00" {
		t.Fatalf("malformed time not dropped: %+v", opts)
	}
}
