// Package stats recomputes aggregate figures from the full session log on
// every commit or remote merge; no incremental counters are kept.
package stats

import (
	"sort"
	"time"

	"daykeep/internal/store"
)

// TodayTotal sums the durations of sessions created on now's calendar day,
// in now's location.
func TodayTotal(sessions []store.FocusSession, now time.Time) int64 {
	var total int64
	for _, s := range sessions {
		if sameDay(s.CreatedAt.In(now.Location()), now) {
			total += s.Duration
		}
	}
	return total
}

// DailyAverage is the total duration divided by the number of distinct
// calendar days carrying at least one session.
func DailyAverage(sessions []store.FocusSession) int64 {
	var total int64
	days := make(map[string]struct{})
	for _, s := range sessions {
		total += s.Duration
		days[s.CreatedAt.Local().Format("2006-01-02")] = struct{}{}
	}
	n := int64(len(days))
	if n < 1 {
		n = 1
	}
	return total / n
}

// Ranked is one row of the recent-session ranking.
type Ranked struct {
	Task     string
	Mode     string
	Duration int64
	CreatedAt time.Time
}

// RecentRanking returns the n most recent sessions by creation time
// descending; ties keep log insertion order.
func RecentRanking(sessions []store.FocusSession, n int) []Ranked {
	ordered := append([]store.FocusSession(nil), sessions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	out := make([]Ranked, 0, n)
	for _, s := range ordered[:n] {
		task := s.TaskTitle
		if task == "" {
			task = "focus"
		}
		out = append(out, Ranked{
			Task:      task,
			Mode:      s.Mode,
			Duration:  s.Duration,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

// ActivityByDay counts todo history entries per calendar day, keyed
// "2006-01-02". This feeds the contribution heatmap.
func ActivityByDay(todos []store.Todo) map[string]int {
	out := make(map[string]int)
	for _, t := range todos {
		for _, h := range t.History {
			out[h.Timestamp.Local().Format("2006-01-02")]++
		}
	}
	return out
}

// FocusByDay sums session durations per calendar day over [from, to).
func FocusByDay(sessions []store.FocusSession, from, to time.Time) map[string]int64 {
	out := make(map[string]int64)
	for _, s := range sessions {
		created := s.CreatedAt.In(from.Location())
		if created.Before(from) || !created.Before(to) {
			continue
		}
		out[created.Format("2006-01-02")] += s.Duration
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
