package chore

import "time"

// dayFormat is the calendar-date layout used everywhere a date is persisted.
const dayFormat = "2006-01-02"

// FormatDay renders t as a calendar date string.
func FormatDay(t time.Time) string {
	return t.Format(dayFormat)
}

// ParseDay parses a calendar date string. ok is false for empty or malformed
// input, which callers treat as "never".
func ParseDay(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the number of whole calendar days from a to b,
// midnight to midnight. Time-of-day and DST shifts do not bleed into the
// count the way wall-clock subtraction would.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}
