package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"daykeep/internal/config"
	"daykeep/internal/store"
	"daykeep/internal/timer"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewMemory()
}

// runCmd executes a tea.Cmd synchronously and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	expected := []string{"Countdowns", "Todos", "Focus", "Stats", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewCountdowns != 0 || viewTodos != 1 || viewFocus != 2 || viewStats != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{time.Second, "00:01"},
		{25 * time.Minute, "25:00"},
		{61 * time.Minute, "61:00"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0.0h"},
		{3600, "1.0h"},
		{5400, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.secs); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate should pass short strings through, got %q", got)
	}
	got := truncate("a very long task title", 10)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated string should end with ellipsis, got %q", got)
	}
}

func TestMinMaxInt(t *testing.T) {
	if minInt(3, 5) != 3 || minInt(5, 3) != 3 {
		t.Fatal("minInt wrong")
	}
	if maxInt(3, 5) != 5 || maxInt(5, 3) != 5 {
		t.Fatal("maxInt wrong")
	}
}

func TestHeatColorThresholds(t *testing.T) {
	if heatColor(0) != heatColors[0] {
		t.Fatal("zero activity should use the base cell color")
	}
	if heatColor(1) != heatColors[1] || heatColor(3) != heatColors[2] {
		t.Fatal("low thresholds wrong")
	}
	if heatColor(6) != heatColors[3] || heatColor(9) != heatColors[4] {
		t.Fatal("high thresholds wrong")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Countdowns view
// ============================================================

func TestDescribeTargetStates(t *testing.T) {
	s := newTestStore(t)
	c := newCountdownsModel(s)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	invalid := c.describeTarget(store.Countdown{TargetDate: "garbage"}, now)
	if !strings.Contains(invalid, "invalid date") {
		t.Fatalf("invalid dates should be flagged, got %q", invalid)
	}

	future := c.describeTarget(store.Countdown{TargetDate: "2026-03-15"}, now)
	if !strings.Contains(future, "in ") {
		t.Fatalf("future target should render 'in ...', got %q", future)
	}

	past := c.describeTarget(store.Countdown{TargetDate: "2026-03-01"}, now)
	if !strings.Contains(past, "expired") {
		t.Fatalf("past target should render 'expired', got %q", past)
	}

	up := c.describeTarget(store.Countdown{TargetDate: "2026-03-01", CountUp: true}, now)
	if !strings.Contains(up, "elapsed") {
		t.Fatalf("count-up should render 'elapsed', got %q", up)
	}
}

func TestCountdownsRefreshSorts(t *testing.T) {
	s := newTestStore(t)
	s.AddCountdown(store.Countdown{Title: "Later", TargetDate: "2030-01-01"})
	s.AddCountdown(store.Countdown{Title: "Sooner", TargetDate: "2027-01-01"})

	c := newCountdownsModel(s)
	msg := runCmd(t, c.refresh())
	data, ok := msg.(countdownsDataMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", msg)
	}
	if len(data.items) != 2 || data.items[0].Title != "Sooner" {
		t.Fatalf("refresh should sort by effective target: %+v", data.items)
	}
}

// ============================================================
// Todos view
// ============================================================

func TestTodosRefreshOrdering(t *testing.T) {
	s := newTestStore(t)
	s.AddTodo("old incomplete", "", "", "", 0)
	done, _ := s.AddTodo("done", "", "", "", 100)
	s.AddTodo("new incomplete", "", "", "", 0)

	m := newTodosModel(s)
	msg := runCmd(t, m.refresh())
	data, ok := msg.(todosDataMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", msg)
	}
	if len(data.todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(data.todos))
	}
	if data.todos[len(data.todos)-1].ID != done.ID {
		t.Fatal("completed todos should sort last")
	}
	if data.todos[0].Completed || data.todos[1].Completed {
		t.Fatal("incomplete todos should come first")
	}
}

func TestTodosRefreshFiltersPartition(t *testing.T) {
	s := newTestStore(t)
	s.AddPartition("work")
	s.AddTodo("default task", "", "", "", 0)
	s.AddTodo("work task", "", "work", "", 0)

	m := newTodosModel(s)
	m.partIdx = 1 // "work" tab
	msg := runCmd(t, m.refresh())
	data := msg.(todosDataMsg)
	if len(data.todos) != 1 || data.todos[0].Title != "work task" {
		t.Fatalf("partition tab should filter: %+v", data.todos)
	}
}

func TestTodosDataClampsCursor(t *testing.T) {
	s := newTestStore(t)
	m := newTodosModel(s)
	m.cursor = 10
	m, _ = m.update(todosDataMsg{partitions: []string{store.DefaultPartition}})
	if m.cursor != 0 {
		t.Fatalf("cursor should clamp to the list, got %d", m.cursor)
	}
}

// ============================================================
// Focus view
// ============================================================

func TestFocusExpiryCommitsToStore(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)
	f.timer.Bind(&timer.Task{ID: "p1", Title: "Quick", Duration: 2 * time.Second})
	gen, _ := f.timer.Start(time.Now())

	f, _ = f.handleTick(gen)
	f, cmd := f.handleTick(gen) // reaches zero
	if cmd == nil {
		t.Fatal("expiry should produce commands")
	}

	sessions := s.Snapshot().FocusSessions
	if len(sessions) != 1 {
		t.Fatalf("expiry should append exactly one session, got %d", len(sessions))
	}
	if sessions[0].TaskTitle != "Quick" || sessions[0].Duration != 2 || sessions[0].Mode != "pomodoro" {
		t.Fatalf("wrong session: %+v", sessions[0])
	}
	if f.timer.Phase() != timer.Idle {
		t.Fatal("expiry should leave the timer idle")
	}
}

func TestFocusStaleTickNoEffect(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)
	gen, _ := f.timer.Start(time.Now())
	f.timer.Pause()
	f.timer.Resume()

	_, cmd := f.handleTick(gen)
	if cmd != nil {
		t.Fatal("stale tick must not reschedule")
	}
}

func TestFocusBuildTasksOrder(t *testing.T) {
	s := newTestStore(t)
	s.AddPreset("Deep work", 50)
	s.AddTodo("Open task", "", "", "", 0)
	s.AddTodo("Done task", "", "", "", 100)

	f := newFocusModel(s)
	tasks := f.buildTasks()
	if len(tasks) != 2 {
		t.Fatalf("expected preset + incomplete todo, got %d", len(tasks))
	}
	if tasks[0].Title != "Deep work" || tasks[0].Duration != 50*time.Minute {
		t.Fatalf("presets should come first with their duration: %+v", tasks[0])
	}
	if tasks[1].Title != "Open task" {
		t.Fatalf("incomplete todos should follow: %+v", tasks[1])
	}
}

func TestFocusCurrentClock(t *testing.T) {
	s := newTestStore(t)
	f := newFocusModel(s)
	if f.currentClock() != timer.DefaultPomodoro {
		t.Fatalf("idle pomodoro clock should show the full duration, got %v", f.currentClock())
	}
	f.timer.SetMode(timer.Stopwatch)
	if f.currentClock() != 0 {
		t.Fatalf("idle stopwatch clock should show zero, got %v", f.currentClock())
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Config{})
	if app.activeView != viewCountdowns {
		t.Fatal("default view should be countdowns")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Config{})
	if app.View() != "Loading..." {
		t.Fatal("unsized app should render the loading placeholder")
	}
}

func TestAppViewsRender(t *testing.T) {
	s := newTestStore(t)
	s.AddCountdown(store.Countdown{Title: "Launch", TargetDate: "2030-01-01"})
	s.AddTodo("Task", "", "", "", 30)

	app := NewApp(s, config.Config{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	for _, v := range []viewState{viewCountdowns, viewTodos, viewFocus, viewStats, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Config{})
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
	if !strings.Contains(header, "daykeep") {
		t.Fatal("header missing app title")
	}
}

func TestAppFooterShowsStatus(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Config{})
	app.width = 120
	app.height = 40
	app.status = "test status"

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain the status message")
	}
}

func TestAppRemoteAppliedSetsStatus(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Config{})
	model, cmd := app.Update(RemoteAppliedMsg{})
	app = model.(App)
	if app.status != "Remote update applied" {
		t.Fatalf("unexpected status: %q", app.status)
	}
	if cmd == nil {
		t.Fatal("remote apply should refresh the views")
	}
}

func TestAppTabSwitching(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Config{})
	app.width = 120
	app.height = 40

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = model.(App)
	if app.activeView != viewFocus {
		t.Fatalf("pressing 3 should open the focus view, got %d", app.activeView)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewStats {
		t.Fatalf("tab should cycle forward, got %d", app.activeView)
	}
}
