package tui

import (
	"fmt"
	"time"

	"daykeep/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCountdowns viewState = iota
	viewTodos
	viewFocus
	viewStats
	viewSettings
)

var viewNames = []string{"Countdowns", "Todos", "Focus", "Stats", "Settings"}

// --- Messages ---

// tickMsg is the 1-second display-refresh heartbeat; countdown and todo
// views re-render from it, and the focus timer runs its own generation-
// stamped ticks on top.
type tickMsg time.Time

// focusTickMsg carries the tick generation handed out by the timer; stale
// generations are dropped instead of rescheduled.
type focusTickMsg struct {
	gen int
}

type statusMsg struct {
	text    string
	isError bool
}

// RemoteAppliedMsg signals that a remote snapshot was absorbed; views reload
// from the store.
type RemoteAppliedMsg struct{}

type sessionCommittedMsg struct {
	session store.FocusSession
}

type dataImportedMsg struct{}

type countdownsDataMsg struct {
	items []store.Countdown
}

type todosDataMsg struct {
	partitions []string
	todos      []store.Todo
}

type statsDataMsg struct {
	sessions []store.FocusSession
	todos    []store.Todo
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}
