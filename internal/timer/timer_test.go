package timer

import (
	"testing"
	"time"
)

func runTicks(t *testing.T, tm *Timer, gen, n int) TickResult {
	t.Helper()
	var res TickResult
	for i := 0; i < n; i++ {
		res = tm.Tick(gen)
	}
	return res
}

// ============================================================
// Transitions
// ============================================================

func TestStartOnlyFromIdle(t *testing.T) {
	tm := New()
	if _, ok := tm.Start(time.Now()); !ok || tm.Phase() != Running {
		t.Fatal("start from idle should succeed")
	}
	if _, ok := tm.Start(time.Now()); ok {
		t.Fatal("start while running should be refused")
	}
	tm.Pause()
	if _, ok := tm.Start(time.Now()); ok {
		t.Fatal("start while paused should be refused")
	}
}

func TestPauseResumeGenerations(t *testing.T) {
	tm := New()
	gen1, _ := tm.Start(time.Now())

	if !tm.Pause() {
		t.Fatal("pause while running should succeed")
	}
	if tm.Pause() {
		t.Fatal("pause while paused should be refused")
	}

	gen2, ok := tm.Resume()
	if !ok {
		t.Fatal("resume from paused should succeed")
	}
	if gen2 == gen1 {
		t.Fatal("resume must hand out a fresh generation")
	}
	if _, ok := tm.Resume(); ok {
		t.Fatal("resume while running should be refused")
	}
}

func TestStaleTickDropped(t *testing.T) {
	tm := New()
	gen1, _ := tm.Start(time.Now())
	tm.Pause()
	tm.Resume()

	res := tm.Tick(gen1)
	if res.Live || res.Expired || res.Commit != nil {
		t.Fatalf("stale-generation tick must be inert: %+v", res)
	}
	if tm.Remaining() != DefaultPomodoro {
		t.Fatal("stale tick must not advance the clock")
	}
}

func TestTickWhileIdleDropped(t *testing.T) {
	tm := New()
	res := tm.Tick(tm.Generation())
	if res.Live {
		t.Fatal("tick on an idle timer must be inert")
	}
}

// ============================================================
// Pomodoro countdown
// ============================================================

func TestPomodoroTickCountsDown(t *testing.T) {
	tm := New()
	gen, _ := tm.Start(time.Now())

	res := tm.Tick(gen)
	if !res.Live || res.Expired {
		t.Fatalf("mid-run tick should be live: %+v", res)
	}
	if tm.Remaining() != DefaultPomodoro-time.Second {
		t.Fatalf("remaining should drop by a second, got %v", tm.Remaining())
	}
}

func TestPomodoroExpiryCommits(t *testing.T) {
	tm := New()
	tm.Bind(&Task{ID: "t1", Title: "Short", Duration: 3 * time.Second})
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	gen, _ := tm.Start(start)

	res := runTicks(t, tm, gen, 3)
	if !res.Expired || res.Commit == nil {
		t.Fatalf("reaching zero should expire with a commit: %+v", res)
	}
	if res.Live {
		t.Fatal("expiry tick must not reschedule")
	}
	c := res.Commit
	if c.Duration != 3 || c.Mode != Pomodoro || c.TaskID != "t1" || c.TaskTitle != "Short" {
		t.Fatalf("wrong commit: %+v", c)
	}
	if !c.Start.Equal(start) {
		t.Fatalf("commit should carry the run start, got %v", c.Start)
	}
	if tm.Phase() != Idle {
		t.Fatal("expiry should reset to idle")
	}
	if tm.Remaining() != 3*time.Second {
		t.Fatal("reset should restore the bound duration")
	}
}

func TestPomodoroExpiryExemptFromMinimum(t *testing.T) {
	// A 3-second run is far below the save floor, yet natural expiry commits.
	tm := New()
	tm.Bind(&Task{Title: "Tiny", Duration: 3 * time.Second})
	gen, _ := tm.Start(time.Now())
	res := runTicks(t, tm, gen, 3)
	if res.Commit == nil {
		t.Fatal("natural expiry must commit regardless of duration")
	}
}

func TestPauseRetainsRemaining(t *testing.T) {
	tm := New()
	gen, _ := tm.Start(time.Now())
	runTicks(t, tm, gen, 5)
	tm.Pause()

	want := DefaultPomodoro - 5*time.Second
	if tm.Remaining() != want {
		t.Fatalf("pause should retain remaining, got %v want %v", tm.Remaining(), want)
	}

	gen2, _ := tm.Resume()
	tm.Tick(gen2)
	if tm.Remaining() != want-time.Second {
		t.Fatal("resume should continue from the retained snapshot")
	}
}

// ============================================================
// Stopwatch
// ============================================================

func TestStopwatchAccumulates(t *testing.T) {
	tm := New()
	tm.SetMode(Stopwatch)
	gen, _ := tm.Start(time.Now())

	res := runTicks(t, tm, gen, 90)
	if !res.Live {
		t.Fatal("stopwatch ticks never expire")
	}
	if tm.Elapsed() != 90*time.Second {
		t.Fatalf("expected 90s elapsed, got %v", tm.Elapsed())
	}
}

func TestStopwatchStopSavesAboveMinimum(t *testing.T) {
	tm := New()
	tm.SetMode(Stopwatch)
	gen, _ := tm.Start(time.Now())
	runTicks(t, tm, gen, MinSaveSeconds+1)

	c := tm.Stop(true)
	if c == nil {
		t.Fatal("61s run with save should commit")
	}
	if c.Duration != MinSaveSeconds+1 || c.Mode != Stopwatch {
		t.Fatalf("wrong commit: %+v", c)
	}
}

func TestStopDiscardsAtOrBelowMinimum(t *testing.T) {
	tm := New()
	tm.SetMode(Stopwatch)
	gen, _ := tm.Start(time.Now())
	runTicks(t, tm, gen, MinSaveSeconds) // exactly 60s: strictly-greater rule discards

	if c := tm.Stop(true); c != nil {
		t.Fatalf("60s run must be discarded, got %+v", c)
	}
	if tm.Phase() != Idle {
		t.Fatal("stop should reset to idle either way")
	}
}

func TestStopWithoutSaveDiscards(t *testing.T) {
	tm := New()
	gen, _ := tm.Start(time.Now())
	runTicks(t, tm, gen, 300)

	if c := tm.Stop(false); c != nil {
		t.Fatal("cancel must never commit")
	}
}

func TestStopPomodoroSavesElapsedPortion(t *testing.T) {
	tm := New()
	gen, _ := tm.Start(time.Now())
	runTicks(t, tm, gen, 120)

	c := tm.Stop(true)
	if c == nil || c.Duration != 120 {
		t.Fatalf("pomodoro stop should save the elapsed portion, got %+v", c)
	}
}

func TestStopWhileIdleNil(t *testing.T) {
	tm := New()
	if c := tm.Stop(true); c != nil {
		t.Fatal("stop on an idle timer returns nothing")
	}
}

// ============================================================
// Binding and mode
// ============================================================

func TestBindOnlyWhileIdle(t *testing.T) {
	tm := New()
	tm.Start(time.Now())
	if tm.Bind(&Task{Title: "X"}) {
		t.Fatal("bind while running should be refused")
	}
	if tm.SetMode(Stopwatch) {
		t.Fatal("mode switch while running should be refused")
	}
}

func TestBindDurationOverridesDefault(t *testing.T) {
	tm := New()
	tm.Bind(&Task{Title: "Long", Duration: 50 * time.Minute})
	if tm.Total() != 50*time.Minute || tm.Remaining() != 50*time.Minute {
		t.Fatalf("bound duration should override the default, got %v", tm.Total())
	}

	tm.Bind(&Task{Title: "Plain"}) // no duration
	if tm.Total() != DefaultPomodoro {
		t.Fatalf("unbound duration should fall back to default, got %v", tm.Total())
	}

	tm.Bind(nil)
	if tm.Total() != DefaultPomodoro || tm.Task() != nil {
		t.Fatal("unbinding should restore defaults")
	}
}

func TestCommitWithoutTask(t *testing.T) {
	tm := New()
	tm.SetMode(Stopwatch)
	gen, _ := tm.Start(time.Now())
	runTicks(t, tm, gen, 120)
	c := tm.Stop(true)
	if c == nil {
		t.Fatal("expected commit")
	}
	if c.TaskID != "" || c.TaskTitle != "" {
		t.Fatalf("unbound run should leave task fields empty: %+v", c)
	}
}
