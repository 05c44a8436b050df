package store

import (
	"fmt"
	"math"
	"time"
)

// AddTodo appends a new todo. A non-zero starting progress writes an initial
// history entry, and completion is derived from progress == 100.
func (s *Store) AddTodo(title, description, partition, deadline string, progress int) (Todo, error) {
	progress = clampProgress(progress)
	if partition == "" {
		partition = DefaultPartition
	}
	t := Todo{
		ID:          newID(),
		Title:       title,
		Description: description,
		Partition:   partition,
		Progress:    progress,
		Completed:   progress == 100,
		Deadline:    deadline,
		CreatedAt:   time.Now(),
	}
	if progress > 0 {
		t.History = append(t.History, HistoryEntry{
			Timestamp: time.Now(),
			Progress:  progress,
			Note:      "initial progress",
		})
	}
	err := s.mutate(func(st *AppState) bool {
		st.Todos = append(st.Todos, t)
		return true
	})
	return t, err
}

// DeleteTodo hard-deletes a todo. Unknown ids are a no-op.
func (s *Store) DeleteTodo(id string) error {
	return s.mutate(func(st *AppState) bool {
		for i, t := range st.Todos {
			if t.ID == id {
				st.Todos = append(st.Todos[:i], st.Todos[i+1:]...)
				return true
			}
		}
		return false
	})
}

// AddSubtask appends an incomplete subtask and recomputes derived progress.
func (s *Store) AddSubtask(todoID, text string) error {
	return s.withTodo(todoID, func(t *Todo) bool {
		t.Subtasks = append(t.Subtasks, Subtask{ID: newID(), Text: text})
		recomputeProgress(t)
		return true
	})
}

// ToggleSubtask flips a subtask's completion and recomputes derived progress.
func (s *Store) ToggleSubtask(todoID, subID string) error {
	return s.withTodo(todoID, func(t *Todo) bool {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subID {
				t.Subtasks[i].Completed = !t.Subtasks[i].Completed
				recomputeProgress(t)
				return true
			}
		}
		return false
	})
}

// RemoveSubtask deletes a subtask and recomputes derived progress.
func (s *Store) RemoveSubtask(todoID, subID string) error {
	return s.withTodo(todoID, func(t *Todo) bool {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subID {
				t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
				recomputeProgress(t)
				return true
			}
		}
		return false
	})
}

// SetProgress records a manual progress update. A history entry is appended
// when the value changed or a note was supplied, so an unchanged value with a
// note still leaves a trace.
func (s *Store) SetProgress(todoID string, value int, note, tag string) error {
	value = clampProgress(value)
	return s.withTodo(todoID, func(t *Todo) bool {
		if value == t.Progress && note == "" {
			return false
		}
		t.Progress = value
		t.Completed = value == 100
		if note == "" {
			note = "progress update"
		}
		t.History = append(t.History, HistoryEntry{
			Timestamp: time.Now(),
			Progress:  value,
			Note:      note,
			Tag:       tag,
		})
		return true
	})
}

// ToggleCompletion flips the completed flag. Completing forces progress to
// 100 and records it; un-completing forces progress to 0 without a history
// entry. The asymmetry is deliberate: accidental un-checks should not spam
// the log. Returns whether the todo just transitioned to complete.
func (s *Store) ToggleCompletion(todoID string) (justCompleted bool, err error) {
	err = s.withTodo(todoID, func(t *Todo) bool {
		t.Completed = !t.Completed
		if t.Completed {
			t.Progress = 100
			t.History = append(t.History, HistoryEntry{
				Timestamp: time.Now(),
				Progress:  100,
				Note:      "marked complete",
			})
			justCompleted = true
		} else {
			t.Progress = 0
		}
		return true
	})
	return justCompleted, err
}

// withTodo runs fn against the todo with the given id. Unknown ids are a
// silent no-op per the lookup contract.
func (s *Store) withTodo(id string, fn func(*Todo) bool) error {
	return s.mutate(func(st *AppState) bool {
		for i := range st.Todos {
			if st.Todos[i].ID == id {
				return fn(&st.Todos[i])
			}
		}
		return false
	})
}

// recomputeProgress re-derives progress from the subtask set. History only
// records actual transitions: an unchanged ratio appends nothing.
func recomputeProgress(t *Todo) {
	if len(t.Subtasks) == 0 {
		return
	}
	completed := 0
	for _, sub := range t.Subtasks {
		if sub.Completed {
			completed++
		}
	}
	total := len(t.Subtasks)
	progress := int(math.Round(100 * float64(completed) / float64(total)))
	if progress == t.Progress {
		return
	}
	t.Progress = progress
	t.Completed = progress == 100
	t.History = append(t.History, HistoryEntry{
		Timestamp: time.Now(),
		Progress:  progress,
		Note:      fmt.Sprintf("subtask: %d/%d", completed, total),
	})
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
