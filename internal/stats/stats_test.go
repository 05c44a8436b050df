package stats

import (
	"testing"
	"time"

	"daykeep/internal/store"
)

func session(created time.Time, duration int64, title string) store.FocusSession {
	return store.FocusSession{
		TaskTitle: title,
		StartTime: created.Add(-time.Duration(duration) * time.Second),
		Duration:  duration,
		Mode:      "pomodoro",
		CreatedAt: created,
	}
}

// ============================================================
// Totals and averages
// ============================================================

func TestTodayTotal(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	sessions := []store.FocusSession{
		session(now.Add(-2*time.Hour), 1500, "a"),
		session(now.Add(-8*time.Hour), 900, "b"),
		session(now.AddDate(0, 0, -1), 3000, "yesterday"),
	}
	if got := TodayTotal(sessions, now); got != 2400 {
		t.Fatalf("expected 2400, got %d", got)
	}
}

func TestTodayTotalEmpty(t *testing.T) {
	if got := TodayTotal(nil, time.Now()); got != 0 {
		t.Fatalf("expected 0 for empty log, got %d", got)
	}
}

func TestDailyAverage(t *testing.T) {
	day1 := time.Date(2026, 3, 8, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local)
	sessions := []store.FocusSession{
		session(day1, 60, "a"),
		session(day1.Add(time.Hour), 60, "a"),
		session(day2, 120, "b"),
	}
	// 240 seconds over 2 distinct days.
	if got := DailyAverage(sessions); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
}

func TestDailyAverageEmpty(t *testing.T) {
	if got := DailyAverage(nil); got != 0 {
		t.Fatalf("expected 0 for empty log, got %d", got)
	}
}

// ============================================================
// Ranking
// ============================================================

func TestRecentRanking(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := []store.FocusSession{
		session(base, 100, "oldest"),
		session(base.Add(2*time.Hour), 300, "newest"),
		session(base.Add(time.Hour), 200, "middle"),
	}
	ranked := RecentRanking(sessions, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ranked))
	}
	if ranked[0].Task != "newest" || ranked[1].Task != "middle" {
		t.Fatalf("wrong order: %s, %s", ranked[0].Task, ranked[1].Task)
	}
}

func TestRecentRankingTiesKeepLogOrder(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := []store.FocusSession{
		session(at, 100, "first"),
		session(at, 200, "second"),
	}
	ranked := RecentRanking(sessions, 2)
	if ranked[0].Task != "first" || ranked[1].Task != "second" {
		t.Fatalf("ties must keep insertion order: %s, %s", ranked[0].Task, ranked[1].Task)
	}
}

func TestRecentRankingUntitledFallback(t *testing.T) {
	ranked := RecentRanking([]store.FocusSession{session(time.Now(), 100, "")}, 1)
	if ranked[0].Task != "focus" {
		t.Fatalf("untitled sessions should render as %q, got %q", "focus", ranked[0].Task)
	}
}

func TestRecentRankingShortLog(t *testing.T) {
	ranked := RecentRanking([]store.FocusSession{session(time.Now(), 100, "only")}, 5)
	if len(ranked) != 1 {
		t.Fatalf("n beyond the log should clamp, got %d rows", len(ranked))
	}
}

// ============================================================
// Per-day rollups
// ============================================================

func TestActivityByDay(t *testing.T) {
	day := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	todos := []store.Todo{
		{History: []store.HistoryEntry{
			{Timestamp: day, Progress: 20},
			{Timestamp: day.Add(time.Hour), Progress: 40},
		}},
		{History: []store.HistoryEntry{
			{Timestamp: day.AddDate(0, 0, -1), Progress: 100},
		}},
	}
	byDay := ActivityByDay(todos)
	if byDay["2026-03-10"] != 2 {
		t.Fatalf("expected 2 entries on the 10th, got %d", byDay["2026-03-10"])
	}
	if byDay["2026-03-09"] != 1 {
		t.Fatalf("expected 1 entry on the 9th, got %d", byDay["2026-03-09"])
	}
}

func TestFocusByDayWindow(t *testing.T) {
	from := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)
	sessions := []store.FocusSession{
		session(from.Add(10*time.Hour), 600, "in"),
		session(from.Add(34*time.Hour), 300, "in"),
		session(from.Add(-time.Hour), 999, "before"),
		session(to, 999, "at-end"), // half-open window excludes the end
	}
	byDay := FocusByDay(sessions, from, to)
	if len(byDay) != 2 {
		t.Fatalf("expected 2 days, got %v", byDay)
	}
	if byDay["2026-03-08"] != 600 || byDay["2026-03-09"] != 300 {
		t.Fatalf("wrong sums: %v", byDay)
	}
}

func TestRollupsIdempotent(t *testing.T) {
	// Recomputing from the same log must give the same figures.
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	sessions := []store.FocusSession{
		session(now.Add(-time.Hour), 1500, "a"),
		session(now.Add(-2*time.Hour), 900, "b"),
	}
	a := TodayTotal(sessions, now)
	b := TodayTotal(sessions, now)
	if a != b {
		t.Fatalf("recomputation drifted: %d vs %d", a, b)
	}
}
