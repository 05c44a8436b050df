package store

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks a countdown whose stored target cannot be parsed.
// Callers exclude such records from temporal displays instead of failing.
var ErrInvalidDate = errors.New("invalid target date")

// Resolution is the effective view of a countdown at a given instant.
type Resolution struct {
	Target  time.Time
	Past    bool
	Days    int
	Hours   int
	Minutes int
}

// targetLayouts accepts full RFC 3339 stamps plus the shorter forms the
// original data files carry (datetime-local and bare dates).
var targetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTarget(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range targetLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Resolve maps a countdown and the current instant to its effective target
// and classification. Pure and deterministic for a given (record, now) pair.
//
// Count-up mode pins the target to the stored date unconditionally, ignoring
// the repeat policy. Otherwise a repeat policy rolls the stored date forward
// to the next occurrence at or after now; RepeatNone leaves the stored date
// verbatim, which may legitimately sit in the past.
func Resolve(c Countdown, now time.Time) (Resolution, error) {
	stored, err := parseTarget(c.TargetDate, now.Location())
	if err != nil {
		return Resolution{}, err
	}

	target := stored
	if !c.CountUp {
		switch c.Repeat {
		case RepeatYearly:
			target = withYearClamped(stored, now.Year())
			if target.Before(now) {
				target = withYearClamped(stored, now.Year()+1)
			}
		case RepeatMonthly:
			target = withMonthClamped(stored, now.Year(), now.Month())
			if target.Before(now) {
				y, m := now.Year(), now.Month()+1
				if m > time.December {
					y, m = y+1, time.January
				}
				target = withMonthClamped(stored, y, m)
			}
		case RepeatWeekly:
			for target.Before(now) {
				target = target.AddDate(0, 0, 7)
			}
		}
	}

	diff := target.Sub(now)
	res := Resolution{Target: target, Past: diff < 0}
	if diff < 0 {
		diff = -diff
	}
	res.Days = int(diff / (24 * time.Hour))
	res.Hours = int(diff/time.Hour) % 24
	res.Minutes = int(diff/time.Minute) % 60
	return res, nil
}

// withYearClamped rebuilds t in the given year, clamping Feb 29 on non-leap
// years to Feb 28.
func withYearClamped(t time.Time, year int) time.Time {
	return withMonthClamped(t, year, t.Month())
}

// withMonthClamped rebuilds t in the given year/month, preserving the
// day-of-month and clamping to the last valid day when that day does not
// exist in the target month.
func withMonthClamped(t time.Time, year int, month time.Month) time.Time {
	day := t.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
