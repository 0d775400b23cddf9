package chore

import (
	"testing"
	"time"

	"github.com/fennwick/choreboard/internal/model"
)

// Wednesday, March 4th 2026.
var wednesday = time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) string {
	return FormatDay(wednesday.AddDate(0, 0, -n))
}

func intPtr(n int) *int { return &n }

func TestDoneTodaySuppressesEverything(t *testing.T) {
	cases := []model.Chore{
		{ID: "d", FrequencyType: model.FreqDaily, LastMarkedDate: daysAgo(0)},
		{ID: "w", FrequencyType: model.FreqWeekly, WeeklyDay: intPtr(3), LastMarkedDate: daysAgo(0)},
		{ID: "c", FrequencyType: model.FreqCron, Cron: "", LastMarkedDate: daysAgo(0)},
		{ID: "cu", FrequencyType: model.FreqCustom, CustomDays: 1, LastMarkedDate: daysAgo(0)},
	}
	for _, c := range cases {
		st := Evaluate(c, nil, wednesday)
		if st.Due || st.Overdue {
			t.Errorf("chore %s done today should not be due", c.ID)
		}
	}
}

func TestDaily(t *testing.T) {
	c := model.Chore{ID: "dishes", FrequencyType: model.FreqDaily}

	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("never-done daily chore should be due")
	}

	c.LastMarkedDate = daysAgo(1)
	if st := Evaluate(c, nil, wednesday); !st.Due || st.Overdue {
		t.Errorf("one day elapsed: want due and not overdue, got %+v", st)
	}

	c.LastMarkedDate = daysAgo(2)
	if st := Evaluate(c, nil, wednesday); !st.Due || !st.Overdue {
		t.Errorf("two days elapsed: want due and overdue, got %+v", st)
	}
}

func TestWeekly(t *testing.T) {
	// WeeklyDay 3 = Wednesday.
	c := model.Chore{ID: "bins", FrequencyType: model.FreqWeekly, WeeklyDay: intPtr(3)}

	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("never-done weekly chore should be due on its day")
	}

	// Not its weekday: silent even with a large backlog.
	c.WeeklyDay = intPtr(4)
	c.LastMarkedDate = daysAgo(30)
	if st := Evaluate(c, nil, wednesday); st.Due || st.Overdue {
		t.Error("weekly chore should only fire on its weekday")
	}

	c.WeeklyDay = intPtr(3)
	c.LastMarkedDate = daysAgo(7)
	if st := Evaluate(c, nil, wednesday); !st.Due || st.Overdue {
		t.Errorf("7 days elapsed: want due, not overdue, got %+v", st)
	}

	c.LastMarkedDate = daysAgo(14)
	if st := Evaluate(c, nil, wednesday); !st.Due || !st.Overdue {
		t.Errorf("14 days elapsed: want due and overdue, got %+v", st)
	}

	// Done earlier this week.
	c.LastMarkedDate = daysAgo(2)
	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("weekly chore done 2 days ago should not be due")
	}

	// Missing weekday config never fires.
	c.WeeklyDay = nil
	c.LastMarkedDate = ""
	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("weekly chore without a weekday should never be due")
	}
}

func TestCustom(t *testing.T) {
	c := model.Chore{ID: "sheets", FrequencyType: model.FreqCustom, CustomDays: 5}

	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("never-done custom chore should be due")
	}

	c.LastMarkedDate = daysAgo(4)
	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("4 of 5 days elapsed: should not be due")
	}

	c.LastMarkedDate = daysAgo(5)
	if st := Evaluate(c, nil, wednesday); !st.Due || st.Overdue {
		t.Errorf("5 days elapsed: want due, not overdue, got %+v", st)
	}

	c.LastMarkedDate = daysAgo(6)
	if st := Evaluate(c, nil, wednesday); !st.Due || !st.Overdue {
		t.Errorf("6 days elapsed: want due and overdue, got %+v", st)
	}

	// Zero interval clamps to one day.
	c.CustomDays = 0
	c.LastMarkedDate = daysAgo(1)
	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("customDays 0 should behave like daily")
	}
}

func TestMonthly(t *testing.T) {
	c := model.Chore{ID: "filters", FrequencyType: model.FreqMonthly}

	c.LastMarkedDate = daysAgo(29)
	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("29 days elapsed: monthly chore should not be due")
	}

	c.LastMarkedDate = daysAgo(30)
	if st := Evaluate(c, nil, wednesday); !st.Due || st.Overdue {
		t.Errorf("30 days elapsed: want due, not overdue, got %+v", st)
	}

	c.LastMarkedDate = daysAgo(31)
	if st := Evaluate(c, nil, wednesday); !st.Due || !st.Overdue {
		t.Errorf("31 days elapsed: want due and overdue, got %+v", st)
	}
}

func TestAfter(t *testing.T) {
	parent := model.Chore{ID: "dinner", FrequencyType: model.FreqDaily, LastMarkedDate: daysAgo(0)}
	c := model.Chore{ID: "dishes", FrequencyType: model.FreqAfter, AfterChoreID: "dinner"}

	if st := Evaluate(c, &parent, wednesday); !st.Due || st.Overdue {
		t.Errorf("parent done today: want due, never overdue, got %+v", st)
	}

	parent.LastMarkedDate = daysAgo(1)
	if st := Evaluate(c, &parent, wednesday); st.Due {
		t.Error("parent done yesterday: should not be due")
	}

	// Unresolvable parent never fires.
	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("missing parent: should never be due")
	}
	wrong := model.Chore{ID: "lunch", LastMarkedDate: daysAgo(0)}
	if st := Evaluate(c, &wrong, wednesday); st.Due {
		t.Error("mismatched parent: should never be due")
	}
}

func TestCronLatch(t *testing.T) {
	c := model.Chore{ID: "plants", FrequencyType: model.FreqCron, Cron: "0 9 * * 3"}

	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("unlatched cron chore should not be due")
	}

	c.CronSpawnedDate = daysAgo(0)
	if st := Evaluate(c, nil, wednesday); !st.Due || st.Overdue {
		t.Errorf("latched today: want due, never overdue, got %+v", st)
	}

	// A stale latch does not carry over.
	c.CronSpawnedDate = daysAgo(1)
	if st := Evaluate(c, nil, wednesday); st.Due {
		t.Error("yesterday's latch should not make the chore due")
	}

	// Empty expression surfaces as due so the misconfiguration is visible.
	c.Cron = ""
	c.CronSpawnedDate = ""
	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("cron chore without an expression should show as due")
	}
}

func TestUnknownFrequency(t *testing.T) {
	c := model.Chore{ID: "odd", FrequencyType: "fortnightly"}
	if st := Evaluate(c, nil, wednesday); st.Due || st.Overdue {
		t.Error("unknown frequency type should never be due")
	}
}

func TestEmptyFrequencyDefaultsToDaily(t *testing.T) {
	c := model.Chore{ID: "legacy", LastMarkedDate: daysAgo(1)}
	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("empty frequency type should evaluate as daily")
	}
}

func TestMalformedLastMarkedDate(t *testing.T) {
	c := model.Chore{ID: "junk", FrequencyType: model.FreqDaily, LastMarkedDate: "not-a-date"}
	if st := Evaluate(c, nil, wednesday); !st.Due {
		t.Error("malformed date should read as never done, so daily is due")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, time.March, 3, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, time.March, 4, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Errorf("DaysBetween across midnight = %d, want 1", got)
	}

	if got := DaysBetween(b, b); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}
