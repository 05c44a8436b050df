// Package timer implements the focus-session state machine: a countdown
// (pomodoro) or count-up (stopwatch) engine with explicit tick ownership.
package timer

import "time"

type Mode int

const (
	Pomodoro Mode = iota
	Stopwatch
)

func (m Mode) String() string {
	if m == Stopwatch {
		return "stopwatch"
	}
	return "pomodoro"
}

type Phase int

const (
	Idle Phase = iota
	Running
	Paused
)

const (
	// DefaultPomodoro applies when no bound task supplies a duration.
	DefaultPomodoro = 25 * time.Minute
	// MinSaveSeconds is the floor below which an explicit stop discards the
	// session. Natural expiry is exempt.
	MinSaveSeconds = 60
)

// Task is the optional binding target: a todo or a focus preset.
type Task struct {
	ID       string
	Title    string
	Duration time.Duration // pomodoro default override, 0 = none
}

// Commit holds everything needed to append an immutable focus session.
type Commit struct {
	TaskID    string
	TaskTitle string
	Start     time.Time
	Duration  int64 // seconds
	Mode      Mode
}

// TickResult reports what a tick did. Stale ticks (wrong generation, or the
// timer is no longer running) come back with Live=false and must not be
// rescheduled.
type TickResult struct {
	Live    bool
	Expired bool
	Commit  *Commit
}

// Timer is the ephemeral focus-timer state; it is not persisted across
// restarts. Each transition into Running hands out a new tick generation and
// invalidates the previous one, so at most one live tick exists at any
// instant.
type Timer struct {
	phase     Phase
	mode      Mode
	total     time.Duration // pomodoro target for this run
	remaining time.Duration
	elapsed   time.Duration
	start     time.Time
	task      *Task
	gen       int
}

func New() *Timer {
	t := &Timer{}
	t.reset()
	return t
}

func (t *Timer) Phase() Phase           { return t.phase }
func (t *Timer) Mode() Mode             { return t.mode }
func (t *Timer) Total() time.Duration   { return t.total }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) Elapsed() time.Duration { return t.elapsed }
func (t *Timer) Task() *Task            { return t.task }
func (t *Timer) Generation() int        { return t.gen }

// Bind attaches a task while idle and resets the mode defaults. Binding
// while running is refused.
func (t *Timer) Bind(task *Task) bool {
	if t.phase != Idle {
		return false
	}
	t.task = task
	t.reset()
	return true
}

// SetMode switches modes while idle and resets remaining/elapsed. Switching
// while running requires the caller to confirm and stop first.
func (t *Timer) SetMode(m Mode) bool {
	if t.phase != Idle {
		return false
	}
	t.mode = m
	t.reset()
	return true
}

// Start transitions Idle→Running and returns the generation the caller must
// stamp on its periodic tick.
func (t *Timer) Start(now time.Time) (gen int, ok bool) {
	if t.phase != Idle {
		return 0, false
	}
	t.phase = Running
	t.start = now
	t.gen++
	return t.gen, true
}

// Pause cancels the live tick by advancing the generation; the
// remaining/elapsed snapshot is retained unchanged.
func (t *Timer) Pause() bool {
	if t.phase != Running {
		return false
	}
	t.phase = Paused
	t.gen++
	return true
}

// Resume restarts ticking from the retained snapshot under a fresh
// generation.
func (t *Timer) Resume() (gen int, ok bool) {
	if t.phase != Paused {
		return 0, false
	}
	t.phase = Running
	t.gen++
	return t.gen, true
}

// Tick advances the timer by one second. Pomodoro expiry commits the session
// unconditionally — the minimum-duration rule does not apply to a run that
// reached zero.
func (t *Timer) Tick(gen int) TickResult {
	if t.phase != Running || gen != t.gen {
		return TickResult{}
	}
	if t.mode == Stopwatch {
		t.elapsed += time.Second
		return TickResult{Live: true}
	}
	t.remaining -= time.Second
	if t.remaining > 0 {
		return TickResult{Live: true}
	}
	commit := t.commit(t.total)
	t.phase = Idle
	t.gen++
	t.reset()
	return TickResult{Expired: true, Commit: commit}
}

// Stop cancels any tick and returns a commit when save was requested and the
// run lasted longer than MinSaveSeconds.
func (t *Timer) Stop(save bool) *Commit {
	if t.phase == Idle {
		return nil
	}
	var duration time.Duration
	if t.mode == Pomodoro {
		duration = t.total - t.remaining
	} else {
		duration = t.elapsed
	}
	var commit *Commit
	if save && duration > MinSaveSeconds*time.Second {
		commit = t.commit(duration)
	}
	t.phase = Idle
	t.gen++
	t.reset()
	return commit
}

func (t *Timer) commit(duration time.Duration) *Commit {
	c := &Commit{
		Start:    t.start,
		Duration: int64(duration / time.Second),
		Mode:     t.mode,
	}
	if t.task != nil {
		c.TaskID = t.task.ID
		c.TaskTitle = t.task.Title
	}
	return c
}

// reset restores the mode defaults: the bound task's duration (if any) or 25
// minutes for pomodoro, zero elapsed for stopwatch.
func (t *Timer) reset() {
	t.elapsed = 0
	t.total = DefaultPomodoro
	if t.task != nil && t.task.Duration > 0 {
		t.total = t.task.Duration
	}
	t.remaining = t.total
}
