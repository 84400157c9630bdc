package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MinutesToClock renders minutes from midnight as "HH:mm" (e.g. 420 -> "07:00").
func MinutesToClock(m int) string {
	hours := m / 60
	minutes := m % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// ClockToMinutes parses an "HH:mm" string into minutes from midnight.
func ClockToMinutes(s string) (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hours*60 + minutes, nil
}

// ParseDate parses a "YYYY-MM-DD" date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayStart truncates a time to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SlotInFuture reports whether a slot starting at startMin minutes from
// midnight on the given date is strictly after now. Slots on past dates and
// same-day slots that have already begun are not bookable.
func SlotInFuture(date string, startMin int, now time.Time) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	absStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(startMin) * time.Minute)
	return absStart.After(now)
}

// IsPastDate reports whether date falls strictly before today.
// ISO dates compare correctly as strings.
func IsPastDate(date string, now time.Time) bool {
	return date < FormatDate(now)
}
