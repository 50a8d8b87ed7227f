// Package schedule derives the selectable date and time projections shown in
// the booking flow from a doctor's raw availability records.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var wallClockRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ValidWallClock reports whether s is a well-formed HH:MM 24-hour time.
func ValidWallClock(s string) bool {
	if !wallClockRe.MatchString(s) {
		return false
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h <= 23 && m <= 59
}

// To12Hour converts a 24-hour wire time ("HH:MM") to display form ("H:MM AM").
// Malformed input is an error; nothing downstream should ever see a half
// converted time.
func To12Hour(t24 string) (string, error) {
	if !ValidWallClock(t24) {
		return "", fmt.Errorf("malformed wall-clock time %q", t24)
	}

	h, _ := strconv.Atoi(t24[:2])
	minutes := t24[3:]

	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	switch {
	case h == 0:
		h = 12
	case h > 12:
		h -= 12
	}

	return fmt.Sprintf("%d:%s %s", h, minutes, period), nil
}

// FormatRange composes a display range ("9:00 AM - 9:30 AM") from a 24-hour
// start/end pair.
func FormatRange(start24, end24 string) (string, error) {
	start, err := To12Hour(start24)
	if err != nil {
		return "", err
	}
	end, err := To12Hour(end24)
	if err != nil {
		return "", err
	}
	return start + " - " + end, nil
}

// timeOptionID builds a per-render unique id for a time slot. The positional
// suffix keeps ids unique even when the API returns duplicate start times.
func timeOptionID(dateKey, start24 string, index int) string {
	return strings.Join([]string{dateKey, start24, strconv.Itoa(index)}, "|")
}
