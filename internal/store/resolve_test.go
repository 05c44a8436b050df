package store

import (
	"errors"
	"testing"
	"time"
)

// ============================================================
// Target parsing
// ============================================================

func TestParseTargetLayouts(t *testing.T) {
	loc := time.UTC
	cases := []string{
		"2026-06-01T09:30:00Z",
		"2026-06-01T09:30",
		"2026-06-01 09:30",
		"2026-06-01",
	}
	for _, raw := range cases {
		if _, err := parseTarget(raw, loc); err != nil {
			t.Fatalf("parseTarget(%q): %v", raw, err)
		}
	}
}

func TestParseTargetInvalid(t *testing.T) {
	_, err := parseTarget("next tuesday", time.UTC)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestResolveInvalidDate(t *testing.T) {
	_, err := Resolve(Countdown{TargetDate: "garbage"}, time.Now())
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

// ============================================================
// Resolve: non-repeating and count-up
// ============================================================

func TestResolveNoRepeatKeepsStoredDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	res, err := Resolve(Countdown{TargetDate: "2020-01-01", Repeat: RepeatNone}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Past {
		t.Fatal("stored past date without repeat stays in the past")
	}
	if res.Target.Year() != 2020 {
		t.Fatalf("target should stay at the stored date, got %v", res.Target)
	}
}

func TestResolveCountUpIgnoresRepeat(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	res, err := Resolve(Countdown{
		TargetDate: "2024-05-01",
		Repeat:     RepeatYearly,
		CountUp:    true,
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Target.Year() != 2024 {
		t.Fatalf("count-up must pin the stored date, got %v", res.Target)
	}
	if !res.Past {
		t.Fatal("count-up from a past anchor reports Past")
	}
}

func TestResolveComponents(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// 2 days, 3 hours, 30 minutes ahead.
	res, err := Resolve(Countdown{TargetDate: "2026-03-12T15:30:00Z"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Days != 2 || res.Hours != 3 || res.Minutes != 30 {
		t.Fatalf("wrong components: %dd %dh %dm", res.Days, res.Hours, res.Minutes)
	}
	if res.Past {
		t.Fatal("future target reported as past")
	}
}

// ============================================================
// Resolve: repeat policies
// ============================================================

func TestResolveYearlyRollsForward(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	// Anniversary earlier in the year rolls to next year.
	res, err := Resolve(Countdown{TargetDate: "2020-03-01", Repeat: RepeatYearly}, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Target.Year() != 2027 || res.Target.Month() != time.March {
		t.Fatalf("expected 2027-03-01, got %v", res.Target)
	}
	if res.Past {
		t.Fatal("resolved yearly target must not be past")
	}

	// Anniversary later in the year stays within it.
	res, _ = Resolve(Countdown{TargetDate: "2020-12-25", Repeat: RepeatYearly}, now)
	if res.Target.Year() != 2026 || res.Target.Month() != time.December {
		t.Fatalf("expected 2026-12-25, got %v", res.Target)
	}
}

func TestResolveYearlyLeapDayClamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // 2026 is not a leap year
	res, err := Resolve(Countdown{TargetDate: "2024-02-29", Repeat: RepeatYearly}, now)
	if err != nil {
		t.Fatal(err)
	}
	// Feb 28 2026 is before now, so it rolls into 2027 (also non-leap).
	if res.Target.Month() != time.February || res.Target.Day() != 28 {
		t.Fatalf("leap day should clamp to Feb 28, got %v", res.Target)
	}
	if res.Target.Year() != 2027 {
		t.Fatalf("expected 2027, got %v", res.Target)
	}
}

func TestResolveMonthlyClampsDay(t *testing.T) {
	// Stored on the 31st; resolving in February clamps to the 28th.
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	res, err := Resolve(Countdown{TargetDate: "2025-01-31", Repeat: RepeatMonthly}, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Target.Month() != time.February || res.Target.Day() != 28 {
		t.Fatalf("expected Feb 28, got %v", res.Target)
	}
}

func TestResolveMonthlyDecemberRollsToJanuary(t *testing.T) {
	now := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	res, err := Resolve(Countdown{TargetDate: "2025-01-05", Repeat: RepeatMonthly}, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Target.Year() != 2027 || res.Target.Month() != time.January || res.Target.Day() != 5 {
		t.Fatalf("expected 2027-01-05, got %v", res.Target)
	}
}

func TestResolveWeekly(t *testing.T) {
	// Stored on a Monday; now is a Wednesday two years later.
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	res, err := Resolve(Countdown{TargetDate: "2024-01-01T09:00", Repeat: RepeatWeekly}, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Past {
		t.Fatal("weekly target must resolve at or after now")
	}
	if res.Target.Weekday() != time.Monday {
		t.Fatalf("weekly repeat must preserve the weekday, got %v", res.Target.Weekday())
	}
	if res.Target.Sub(now) > 7*24*time.Hour {
		t.Fatalf("next occurrence should be within a week, got %v", res.Target.Sub(now))
	}
}

func TestResolveDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c := Countdown{TargetDate: "2025-07-04", Repeat: RepeatYearly}
	a, _ := Resolve(c, now)
	b, _ := Resolve(c, now)
	if !a.Target.Equal(b.Target) || a.Past != b.Past || a.Days != b.Days {
		t.Fatal("Resolve must be pure for a fixed (record, now) pair")
	}
}
