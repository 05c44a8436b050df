package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"daykeep/internal/stats"
	"daykeep/internal/store"
	"daykeep/internal/timer"
)

type focusModel struct {
	store  *store.Store
	width  int
	height int

	timer *timer.Timer

	// Task picker: focus presets first, then incomplete todos.
	picking    bool
	pickCursor int
	pickTasks  []timer.Task

	// Switching mode while running discards the run; ask twice.
	confirmSwitch bool

	formActive bool
	form       *huh.Form
	formTitle  *string
	formMins   *string
}

func newFocusModel(s *store.Store) focusModel {
	title, mins := "", "25"
	return focusModel{
		store:     s,
		timer:     timer.New(),
		formTitle: &title,
		formMins:  &mins,
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

// focusTick schedules the next 1-second engine tick stamped with the
// generation that owns it.
func focusTick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return focusTickMsg{gen: gen}
	})
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}

	switch msg := msg.(type) {
	case focusTickMsg:
		return f.handleTick(msg.gen)

	case tea.KeyMsg:
		if f.picking {
			return f.updatePicker(msg)
		}
		return f.updateKeys(msg)
	}
	return f, nil
}

func (f focusModel) handleTick(gen int) (focusModel, tea.Cmd) {
	res := f.timer.Tick(gen)
	switch {
	case res.Expired:
		// Natural expiry always commits, regardless of the 60s minimum.
		cmd := f.commitSession(res.Commit)
		return f, tea.Batch(cmd, func() tea.Msg {
			return statusMsg{text: "Focus session complete! \a"}
		})
	case res.Live:
		return f, focusTick(gen)
	default:
		// Stale generation: the tick died with the transition that bumped it.
		return f, nil
	}
}

func (f focusModel) updateKeys(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Start):
		if gen, ok := f.timer.Start(time.Now()); ok {
			f.confirmSwitch = false
			return f, focusTick(gen)
		}

	case key.Matches(msg, keys.Pause):
		switch f.timer.Phase() {
		case timer.Running:
			f.timer.Pause()
		case timer.Paused:
			if gen, ok := f.timer.Resume(); ok {
				return f, focusTick(gen)
			}
		}

	case key.Matches(msg, keys.Stop):
		if f.timer.Phase() == timer.Idle {
			return f, nil
		}
		commit := f.timer.Stop(true)
		f.confirmSwitch = false
		if commit == nil {
			return f, func() tea.Msg {
				return statusMsg{text: "Discarded: sessions under a minute are not saved"}
			}
		}
		return f, tea.Batch(f.commitSession(commit), func() tea.Msg {
			return statusMsg{text: "Session saved"}
		})

	case key.Matches(msg, keys.Cancel):
		if f.timer.Phase() != timer.Idle {
			f.timer.Stop(false)
			f.confirmSwitch = false
			return f, func() tea.Msg {
				return statusMsg{text: "Session discarded"}
			}
		}

	case key.Matches(msg, keys.Mode):
		return f.switchMode()

	case key.Matches(msg, keys.BindTask):
		if f.timer.Phase() == timer.Idle {
			f.pickTasks = f.buildTasks()
			f.picking = true
			f.pickCursor = 0
		}

	case key.Matches(msg, keys.New):
		return f.showPresetForm()

	case key.Matches(msg, keys.Back):
		f.confirmSwitch = false
	}
	return f, nil
}

// switchMode flips pomodoro/stopwatch. While running this discards the
// in-flight session, so the first press only arms the confirmation.
func (f focusModel) switchMode() (focusModel, tea.Cmd) {
	next := timer.Stopwatch
	if f.timer.Mode() == timer.Stopwatch {
		next = timer.Pomodoro
	}

	if f.timer.Phase() != timer.Idle {
		if !f.confirmSwitch {
			f.confirmSwitch = true
			return f, func() tea.Msg {
				return statusMsg{text: "Switching modes discards this session — press m again"}
			}
		}
		f.timer.Stop(false)
	}
	f.confirmSwitch = false
	f.timer.SetMode(next)
	return f, nil
}

func (f focusModel) updatePicker(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if f.pickCursor > 0 {
			f.pickCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.pickCursor < len(f.pickTasks) {
			f.pickCursor++
		}
	case key.Matches(msg, keys.Enter):
		f.picking = false
		if f.pickCursor == len(f.pickTasks) {
			f.timer.Bind(nil) // unbind entry at the end of the list
		} else {
			task := f.pickTasks[f.pickCursor]
			f.timer.Bind(&task)
		}
	case key.Matches(msg, keys.Back):
		f.picking = false
	}
	return f, nil
}

func (f focusModel) buildTasks() []timer.Task {
	snap := f.store.Snapshot()
	var tasks []timer.Task
	for _, p := range snap.FocusPresets {
		tasks = append(tasks, timer.Task{
			ID:       p.ID,
			Title:    p.Title,
			Duration: time.Duration(p.DurationMinutes) * time.Minute,
		})
	}
	for _, t := range snap.Todos {
		if !t.Completed {
			tasks = append(tasks, timer.Task{ID: t.ID, Title: t.Title})
		}
	}
	return tasks
}

// commitSession appends the immutable session and triggers the rollup
// recomputation via sessionCommittedMsg.
func (f focusModel) commitSession(c *timer.Commit) tea.Cmd {
	sess, err := f.store.AppendSession(store.FocusSession{
		TaskID:    c.TaskID,
		TaskTitle: c.TaskTitle,
		StartTime: c.Start,
		Duration:  c.Duration,
		Mode:      c.Mode.String(),
	})
	if err != nil {
		return errStatus(err)
	}
	return func() tea.Msg {
		return sessionCommittedMsg{session: sess}
	}
}

func (f focusModel) showPresetForm() (focusModel, tea.Cmd) {
	*f.formTitle = ""
	*f.formMins = "25"
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Preset title").Value(f.formTitle),
			huh.NewInput().Title("Duration (minutes)").Value(f.formMins),
		).Title("New focus preset"),
	).WithShowHelp(true).WithShowErrors(true)
	f.formActive = true
	return f, f.form.Init()
}

func (f focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if ff, ok := form.(*huh.Form); ok {
		f.form = ff
	}

	if f.form.State == huh.StateCompleted {
		f.formActive = false
		mins, err := strconv.Atoi(*f.formMins)
		if err != nil || mins <= 0 {
			return f, func() tea.Msg {
				return statusMsg{text: "Preset needs a positive duration", isError: true}
			}
		}
		if _, err := f.store.AddPreset(*f.formTitle, mins); err != nil {
			return f, errStatus(err)
		}
		return f, func() tea.Msg {
			return statusMsg{text: "Preset added"}
		}
	}
	return f, cmd
}

// currentClock is the value the footer indicator shows: time left for
// pomodoro, time accumulated for stopwatch.
func (f focusModel) currentClock() time.Duration {
	if f.timer.Mode() == timer.Pomodoro {
		return f.timer.Remaining()
	}
	return f.timer.Elapsed()
}

func (f focusModel) view() string {
	w := f.width - 4

	if f.formActive && f.form != nil {
		return activePanelStyle.Width(w).Render(f.form.View())
	}
	if f.picking {
		return f.pickerView(w)
	}

	title := titleStyle.Render("Focus Timer")
	mode := secondaryStyle.Render(f.timer.Mode().String())

	var clock string
	if f.timer.Mode() == timer.Pomodoro {
		clock = formatClock(f.timer.Remaining())
	} else {
		clock = formatClock(f.timer.Elapsed())
	}

	var phaseLabel string
	display := timerStyle.Width(w - 6).Render(clock)
	switch f.timer.Phase() {
	case timer.Idle:
		phaseLabel = mutedStyle.Render("Ready — press s to start")
	case timer.Running:
		display = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		phaseLabel = successStyle.Bold(true).Render("RUNNING")
	case timer.Paused:
		display = warningStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		phaseLabel = warningStyle.Bold(true).Render("PAUSED")
	}

	bound := mutedStyle.Render("no task bound — t to pick")
	if task := f.timer.Task(); task != nil {
		bound = accentStyle.Render("▸ " + task.Title)
	}

	today := stats.TodayTotal(f.store.Snapshot().FocusSessions, time.Now())
	todayLine := mutedStyle.Render(fmt.Sprintf("today: %s focused", formatSeconds(today)))

	var controls string
	switch f.timer.Phase() {
	case timer.Idle:
		controls = mutedStyle.Render("s: start  m: mode  t: bind task  n: new preset")
	default:
		controls = mutedStyle.Render("space: pause/resume  x: stop & save  c: discard  m: mode")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "", display, phaseLabel, mode, "", bound, todayLine, "", controls,
	)
	return panelStyle.Width(w).Render(content)
}

func (f focusModel) pickerView(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Bind task"))
	rows = append(rows, "")
	for i, t := range f.pickTasks {
		cursor := "  "
		style := normalItemStyle
		if i == f.pickCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := t.Title
		if t.Duration > 0 {
			label += mutedStyle.Render(fmt.Sprintf("  (%d min)", int(t.Duration.Minutes())))
		}
		rows = append(rows, cursor+style.Render(label))
	}
	cursor := "  "
	style := normalItemStyle
	if f.pickCursor == len(f.pickTasks) {
		cursor = "> "
		style = selectedItemStyle
	}
	rows = append(rows, cursor+style.Render("(none)"))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: bind  esc: cancel"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
