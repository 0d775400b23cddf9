// Package cron evaluates five-field cron expressions against a single
// instant. It exists so the sweep latch and the due-status evaluation share
// one matcher instead of two drifting copies.
//
// Supported per field: "*", comma lists, inclusive ranges, "/" steps, and
// three-letter month/weekday names. The day-of-month field additionally
// accepts "L" (last day), "LW" (last weekday) and "NW" (nearest weekday to
// day N, never leaving the month); the day-of-week field accepts "NL" (last
// weekday N of the month), "N#M" (M-th weekday N) and treats 7 as Sunday.
//
// When both day fields are restricted they are combined with AND, not the
// conventional OR. Malformed expressions never match.
package cron

import (
	"strconv"
	"strings"
	"time"
)

type fieldKind int

const (
	fieldMinute fieldKind = iota
	fieldHour
	fieldDOM
	fieldMonth
	fieldDOW
)

var monthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var dayNames = map[string]int{
	"SUN": 0, "MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6,
}

// Matches reports whether the expression fires at the given instant.
// A malformed or empty expression matches nothing.
func Matches(expr string, t time.Time) bool {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 5 {
		return false
	}

	min, hour, dom, month, dow := fields[0], fields[1], fields[2], fields[3], fields[4]

	domMatch := fieldMatches(dom, t.Day(), t, fieldDOM)
	dowMatch := fieldMatches(dow, int(t.Weekday()), t, fieldDOW)

	var dayMatch bool
	switch {
	case dom == "*" && dow == "*":
		dayMatch = true
	case dom == "*":
		dayMatch = dowMatch
	case dow == "*":
		dayMatch = domMatch
	default:
		// Both restricted: AND, the stricter variant the latch relies on.
		dayMatch = domMatch && dowMatch
	}

	return fieldMatches(min, t.Minute(), t, fieldMinute) &&
		fieldMatches(hour, t.Hour(), t, fieldHour) &&
		fieldMatches(month, int(t.Month()), t, fieldMonth) &&
		dayMatch
}

func fieldMatches(field string, value int, t time.Time, kind fieldKind) bool {
	field = strings.ToUpper(strings.TrimSpace(field))

	if field == "*" {
		return true
	}

	// Comma list: match if any member matches.
	if strings.Contains(field, ",") {
		for _, part := range strings.Split(field, ",") {
			if fieldMatches(part, value, t, kind) {
				return true
			}
		}
		return false
	}

	// Month / weekday names.
	if kind == fieldMonth {
		if n, ok := monthNames[field]; ok {
			return value == n
		}
	}
	if kind == fieldDOW {
		if n, ok := dayNames[field]; ok {
			return value == n
		}
	}

	// Steps: "*/5", "10/3", "1-30/2".
	if strings.Contains(field, "/") {
		base, stepStr, _ := strings.Cut(field, "/")
		step, err := strconv.Atoi(stepStr)
		if err != nil || step <= 0 {
			return false
		}

		if base == "*" {
			return value%step == 0
		}

		if start, end, ok := parseRange(base); ok {
			return value >= start && value <= end && (value-start)%step == 0
		}

		b, err := strconv.Atoi(base)
		if err != nil {
			return false
		}
		return (value-b)%step == 0
	}

	// Day-of-month specials.
	if kind == fieldDOM {
		switch {
		case field == "L":
			return value == lastDayOfMonth(t)
		case field == "LW":
			return value == lastWeekdayOfMonth(t)
		case strings.HasSuffix(field, "W"):
			target, err := strconv.Atoi(strings.TrimSuffix(field, "W"))
			if err != nil || target < 1 || target > 31 {
				return false
			}
			return value == nearestWeekday(t, target)
		}
	}

	// Day-of-week specials.
	if kind == fieldDOW {
		if strings.HasSuffix(field, "L") {
			target, err := strconv.Atoi(strings.TrimSuffix(field, "L"))
			if err != nil {
				return false
			}
			return matchesLastWeekday(t, normalizeDOW(target))
		}
		if dowStr, nthStr, ok := strings.Cut(field, "#"); ok {
			target, err1 := strconv.Atoi(dowStr)
			nth, err2 := strconv.Atoi(nthStr)
			if err1 != nil || err2 != nil || nth < 1 || nth > 5 {
				return false
			}
			return matchesNthWeekday(t, normalizeDOW(target), nth)
		}
		if field == "7" {
			return value == 0
		}
	}

	// Ranges: "5-10".
	if start, end, ok := parseRange(field); ok {
		return value >= start && value <= end
	}

	n, err := strconv.Atoi(field)
	if err != nil {
		return false
	}
	return n == value
}

func parseRange(s string) (start, end int, ok bool) {
	a, b, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(a)
	end, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

// normalizeDOW folds the non-standard 7 onto Sunday.
func normalizeDOW(d int) int {
	if d == 7 {
		return 0
	}
	return d
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// lastWeekdayOfMonth returns the day number of the last Mon-Fri day of the
// month containing t.
func lastWeekdayOfMonth(t time.Time) int {
	d := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	switch d.Weekday() {
	case time.Saturday:
		d = d.AddDate(0, 0, -1)
	case time.Sunday:
		d = d.AddDate(0, 0, -2)
	}
	return d.Day()
}

// nearestWeekday returns the day number of the weekday nearest to the target
// day in t's month: Saturday shifts back to Friday, Sunday forward to
// Monday, never crossing a month boundary. Returns 0 when the target day
// does not exist in the month.
func nearestWeekday(t time.Time, target int) int {
	if target > lastDayOfMonth(t) {
		return 0
	}
	d := time.Date(t.Year(), t.Month(), target, 0, 0, 0, 0, t.Location())
	switch d.Weekday() {
	case time.Saturday:
		if target > 1 {
			return target - 1
		}
		// 1st is a Saturday: the nearest in-month weekday is Monday the 3rd.
		return 3
	case time.Sunday:
		if target < lastDayOfMonth(t) {
			return target + 1
		}
		return target - 2
	}
	return target
}

// matchesLastWeekday reports whether t falls on the last occurrence of the
// given weekday in its month.
func matchesLastWeekday(t time.Time, dow int) bool {
	if int(t.Weekday()) != dow {
		return false
	}
	return t.Day()+7 > lastDayOfMonth(t)
}

// matchesNthWeekday reports whether t is the nth occurrence of the given
// weekday in its month (1-indexed).
func matchesNthWeekday(t time.Time, dow, nth int) bool {
	if int(t.Weekday()) != dow {
		return false
	}
	return (t.Day()-1)/7+1 == nth
}
