package chore

import (
	"log/slog"
	"time"

	"github.com/fennwick/choreboard/internal/model"
)

// Status is the outcome of evaluating a chore's recurrence for one day.
// Overdue implies the chore was missed on a prior expected occurrence; it is
// only ever set together with Due.
type Status struct {
	Due     bool
	Overdue bool
}

// Evaluate determines whether a chore is due or overdue on the given day.
// parent is the chore referenced by AfterChoreID for after-chores, nil
// otherwise. The function is pure: "today" is explicit, and the only clock
// input for cron chores is the day latch set by the sweep.
//
// Misconfigured chores (bad dates, unresolvable parents, unknown frequency
// types) evaluate as never due rather than erroring, so one broken record
// cannot take down a listing.
func Evaluate(c model.Chore, parent *model.Chore, today time.Time) Status {
	todayStr := FormatDay(today)

	// Done today always wins, regardless of frequency type.
	if c.DoneOn(todayStr) {
		return Status{}
	}

	lastDate, hasLast := ParseDay(c.LastMarkedDate)
	var elapsed int
	if hasLast {
		elapsed = DaysBetween(lastDate, today)
	}

	switch c.Freq() {
	case model.FreqCron:
		// An empty expression is surfaced as due so someone notices the
		// broken config; the sweep fails closed on the same input and will
		// never latch it.
		if c.Cron == "" {
			return Status{Due: true}
		}
		// Due for the rest of the day the latch fired; cron chores never
		// accumulate an overdue backlog.
		return Status{Due: c.CronSpawnedDate == todayStr}

	case model.FreqAfter:
		if parent == nil || parent.ID != c.AfterChoreID {
			return Status{}
		}
		// Event-triggered: due exactly when the parent was completed today.
		return Status{Due: parent.DoneOn(todayStr)}

	case model.FreqWeekly:
		if c.WeeklyDay == nil || *c.WeeklyDay < 0 || *c.WeeklyDay > 6 {
			return Status{}
		}
		if int(today.Weekday()) != *c.WeeklyDay {
			return Status{}
		}
		if !hasLast {
			return Status{Due: true}
		}
		return Status{Due: elapsed >= 7, Overdue: elapsed > 7}

	case model.FreqDaily:
		if !hasLast {
			return Status{Due: true}
		}
		return Status{Due: elapsed >= 1, Overdue: elapsed >= 2}

	case model.FreqCustom:
		interval := c.CustomDays
		if interval < 1 {
			interval = 1
		}
		if !hasLast {
			return Status{Due: true}
		}
		return Status{Due: elapsed >= interval, Overdue: elapsed > interval}

	case model.FreqMonthly:
		// Fixed 30-day approximation, not calendar-month-aware.
		if !hasLast {
			return Status{Due: true}
		}
		return Status{Due: elapsed >= 30, Overdue: elapsed > 30}
	}

	slog.Warn("unknown frequency type", "chore_id", c.ID, "frequency_type", c.FrequencyType)
	return Status{}
}
