package cron

import (
	"testing"
	"time"
)

// at builds an instant in March 2026: the 1st is a Sunday.
func at(day, hour, min int) time.Time {
	return time.Date(2026, time.March, day, hour, min, 0, 0, time.UTC)
}

func TestExactMinuteAndWeekday(t *testing.T) {
	// Monday 09:00
	if !Matches("0 9 * * 1", at(2, 9, 0)) {
		t.Error("expected match on Monday 09:00")
	}
	if Matches("0 9 * * 1", at(2, 9, 1)) {
		t.Error("should not match at 09:01")
	}
	if Matches("0 9 * * 1", at(3, 9, 0)) {
		t.Error("should not match on Tuesday")
	}
}

func TestLists(t *testing.T) {
	expr := "5,10,15 * * * *"
	for _, min := range []int{5, 10, 15} {
		if !Matches(expr, at(2, 12, min)) {
			t.Errorf("expected match at minute %d", min)
		}
	}
	if Matches(expr, at(2, 12, 7)) {
		t.Error("should not match at minute 7")
	}
}

func TestRanges(t *testing.T) {
	expr := "10-20 * * * *"
	if !Matches(expr, at(2, 12, 10)) || !Matches(expr, at(2, 12, 20)) {
		t.Error("range endpoints should match")
	}
	if Matches(expr, at(2, 12, 9)) || Matches(expr, at(2, 12, 21)) {
		t.Error("values outside range should not match")
	}
}

func TestSteps(t *testing.T) {
	// *: step from zero
	for _, min := range []int{0, 15, 30, 45} {
		if !Matches("*/15 * * * *", at(2, 12, min)) {
			t.Errorf("*/15 should match minute %d", min)
		}
	}
	if Matches("*/15 * * * *", at(2, 12, 20)) {
		t.Error("*/15 should not match minute 20")
	}

	// Numeric base: step from the base value
	for _, min := range []int{3, 8, 13} {
		if !Matches("3/5 * * * *", at(2, 12, min)) {
			t.Errorf("3/5 should match minute %d", min)
		}
	}
	if Matches("3/5 * * * *", at(2, 12, 5)) {
		t.Error("3/5 should not match minute 5")
	}

	// Range base: step within bounds only
	for _, min := range []int{10, 20, 30} {
		if !Matches("10-30/10 * * * *", at(2, 12, min)) {
			t.Errorf("10-30/10 should match minute %d", min)
		}
	}
	if Matches("10-30/10 * * * *", at(2, 12, 40)) {
		t.Error("10-30/10 should not match minute 40")
	}
	if Matches("10-30/10 * * * *", at(2, 12, 15)) {
		t.Error("10-30/10 should not match minute 15")
	}
}

func TestNames(t *testing.T) {
	if !Matches("* * * MAR MON", at(2, 8, 30)) {
		t.Error("MAR MON should match a Monday in March")
	}
	if Matches("* * * JAN *", at(2, 8, 30)) {
		t.Error("JAN should not match in March")
	}
	if !Matches("* * * * mon", at(2, 8, 30)) {
		t.Error("names should be case-insensitive")
	}
}

func TestSevenMeansSunday(t *testing.T) {
	if !Matches("* * * * 7", at(1, 10, 0)) {
		t.Error("7 should match Sunday")
	}
	if Matches("* * * * 7", at(2, 10, 0)) {
		t.Error("7 should not match Monday")
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if !Matches("* * L * *", at(31, 10, 0)) {
		t.Error("L should match March 31st")
	}
	if Matches("* * L * *", at(30, 10, 0)) {
		t.Error("L should not match March 30th")
	}

	// February in a non-leap year
	feb := time.Date(2026, time.February, 28, 10, 0, 0, 0, time.UTC)
	if !Matches("* * L * *", feb) {
		t.Error("L should match February 28th in 2026")
	}
}

func TestLastWeekdayOfMonth(t *testing.T) {
	// March 31st 2026 is a Tuesday, so it is also the last weekday.
	if !Matches("* * LW * *", at(31, 10, 0)) {
		t.Error("LW should match March 31st")
	}
	if Matches("* * LW * *", at(30, 10, 0)) {
		t.Error("LW should not match March 30th")
	}

	// May 31st 2026 is a Sunday; last weekday is Friday the 29th.
	may29 := time.Date(2026, time.May, 29, 10, 0, 0, 0, time.UTC)
	may31 := time.Date(2026, time.May, 31, 10, 0, 0, 0, time.UTC)
	if !Matches("* * LW * *", may29) {
		t.Error("LW should match May 29th")
	}
	if Matches("* * LW * *", may31) {
		t.Error("LW should not match May 31st")
	}
}

func TestNearestWeekday(t *testing.T) {
	// March 15th 2026 is a Sunday; nearest weekday is Monday the 16th.
	if !Matches("* * 15W * *", at(16, 10, 0)) {
		t.Error("15W should match Monday the 16th")
	}
	if Matches("* * 15W * *", at(15, 10, 0)) {
		t.Error("15W should not match Sunday the 15th")
	}

	// August 15th 2026 is a Saturday; nearest weekday is Friday the 14th.
	aug14 := time.Date(2026, time.August, 14, 10, 0, 0, 0, time.UTC)
	if !Matches("* * 15W * *", aug14) {
		t.Error("15W should match Friday August 14th")
	}

	// A weekday target matches itself.
	if !Matches("* * 16W * *", at(16, 10, 0)) {
		t.Error("16W should match Monday the 16th")
	}
}

func TestLastWeekdayOfWeek(t *testing.T) {
	// Last Friday of March 2026 is the 27th.
	if !Matches("* * * * 5L", at(27, 10, 0)) {
		t.Error("5L should match the last Friday")
	}
	if Matches("* * * * 5L", at(20, 10, 0)) {
		t.Error("5L should not match an earlier Friday")
	}
	if Matches("* * * * 5L", at(26, 10, 0)) {
		t.Error("5L should not match a Thursday")
	}
}

func TestNthWeekday(t *testing.T) {
	// First Monday of March 2026 is the 2nd.
	if !Matches("* * * * 1#1", at(2, 10, 0)) {
		t.Error("1#1 should match the first Monday")
	}
	if Matches("* * * * 1#1", at(9, 10, 0)) {
		t.Error("1#1 should not match the second Monday")
	}
	if !Matches("* * * * 1#2", at(9, 10, 0)) {
		t.Error("1#2 should match the second Monday")
	}
}

func TestDayFieldCombination(t *testing.T) {
	// Both restricted: AND. March 2nd 2026 is a Monday.
	if !Matches("* * 2 * 1", at(2, 10, 0)) {
		t.Error("dom=2 dow=Mon should match Monday the 2nd")
	}
	if Matches("* * 2 * 1", at(9, 10, 0)) {
		t.Error("dom=2 dow=Mon should not match Monday the 9th")
	}
	if Matches("* * 2 * 1", at(3, 10, 0)) {
		t.Error("dom=2 dow=Mon should not match Tuesday the 3rd")
	}

	// One wildcard defers to the other field.
	if !Matches("* * * * 1", at(9, 10, 0)) {
		t.Error("dow alone should match any Monday")
	}
	if !Matches("* * 9 * *", at(9, 10, 0)) {
		t.Error("dom alone should match the 9th")
	}
}

func TestMalformedExpressions(t *testing.T) {
	cases := []string{
		"",
		"* * * *",
		"* * * * * *",
		"banana * * * *",
		"1-x * * * *",
		"*/x * * * *",
		"* * 40W * *",
	}
	for _, expr := range cases {
		if Matches(expr, at(2, 9, 0)) {
			t.Errorf("malformed expression %q should not match", expr)
		}
	}

	// Out-of-range values simply never fire.
	if Matches("61 * * * *", at(2, 9, 0)) {
		t.Error("minute 61 should never match")
	}
}
