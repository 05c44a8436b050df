package store

import (
	"time"

	"github.com/google/uuid"
)

// RepeatPolicy controls how a countdown's target rolls forward past "now".
type RepeatPolicy string

const (
	RepeatNone    RepeatPolicy = "none"
	RepeatWeekly  RepeatPolicy = "weekly"
	RepeatMonthly RepeatPolicy = "monthly"
	RepeatYearly  RepeatPolicy = "yearly"
)

// DefaultPartition always exists and cannot be deleted.
const DefaultPartition = "default"

type Countdown struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Type       string       `json:"type,omitempty"`
	Color      string       `json:"color,omitempty"`
	TargetDate string       `json:"targetDate"` // RFC 3339 or date-only; parsed at resolve time
	Repeat     RepeatPolicy `json:"repeatPolicy"`
	CountUp    bool         `json:"countUpMode"`
	Archived   bool         `json:"archived"`
	BgImage    string       `json:"bgImage,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// HistoryEntry is immutable once appended; the history slice is append-only
// and ordered by insertion.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Progress  int       `json:"progress"`
	Note      string    `json:"note"`
	Tag       string    `json:"tag,omitempty"`
}

type Todo struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Partition   string         `json:"partition"`
	Progress    int            `json:"progress"`
	Completed   bool           `json:"completed"`
	Deadline    string         `json:"deadline,omitempty"`
	Subtasks    []Subtask      `json:"subtasks"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// FocusSession is written once at commit time and never mutated.
type FocusSession struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId,omitempty"` // weak reference, may dangle
	TaskTitle string    `json:"taskTitle"`
	StartTime time.Time `json:"startTime"`
	Duration  int64     `json:"duration"` // seconds
	Mode      string    `json:"type"`     // "pomodoro" or "stopwatch"
	CreatedAt time.Time `json:"createdAt"`
}

// FocusPreset pre-fills focus timer defaults, independent of todos.
type FocusPreset struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration"`
}

type Settings struct {
	Theme string `json:"theme"`
}

// AppState is the unit of persistence and replication: one JSON document.
type AppState struct {
	Countdowns    []Countdown    `json:"countdowns"`
	Todos         []Todo         `json:"todos"`
	Partitions    []string       `json:"partitions"`
	FocusSessions []FocusSession `json:"focusSessions"`
	FocusPresets  []FocusPreset  `json:"focusTasks"`
	Settings      Settings       `json:"settings"`
}

// Clone returns a deep copy so callers never alias the store's slices.
func (s AppState) Clone() AppState {
	out := s
	out.Countdowns = append([]Countdown(nil), s.Countdowns...)
	out.Partitions = append([]string(nil), s.Partitions...)
	out.FocusSessions = append([]FocusSession(nil), s.FocusSessions...)
	out.FocusPresets = append([]FocusPreset(nil), s.FocusPresets...)
	out.Todos = make([]Todo, len(s.Todos))
	for i, t := range s.Todos {
		t.Subtasks = append([]Subtask(nil), t.Subtasks...)
		t.History = append([]HistoryEntry(nil), t.History...)
		out.Todos[i] = t
	}
	return out
}

func newID() string {
	return uuid.NewString()
}
