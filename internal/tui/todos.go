package tui

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"daykeep/internal/store"
)

var progressTags = []string{"", "Feat", "Fix", "Docs", "Refactor"}

type todosModel struct {
	store  *store.Store
	width  int
	height int

	partitions []string
	partIdx    int
	todos      []store.Todo
	cursor     int

	// Detail mode
	viewingDetail bool
	detailID      string
	subCursor     int

	pendingDelete  string
	pendingDelPart string

	formActive bool
	formKind   string // "todo", "subtask", "progress", "partition"
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formDesc     *string
	formDeadline *string
	formProgress *string
	formNote     *string
	formTag      *string
	formText     *string
}

func newTodosModel(s *store.Store) todosModel {
	title, desc, deadline, progress := "", "", "", "0"
	note, tag, text := "", "", ""
	return todosModel{
		store:        s,
		partitions:   []string{store.DefaultPartition},
		formTitle:    &title,
		formDesc:     &desc,
		formDeadline: &deadline,
		formProgress: &progress,
		formNote:     &note,
		formTag:      &tag,
		formText:     &text,
	}
}

func (m *todosModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m todosModel) refresh() tea.Cmd {
	partIdx := m.partIdx
	return func() tea.Msg {
		snap := m.store.Snapshot()
		parts := snap.Partitions
		if partIdx >= len(parts) {
			partIdx = 0
		}
		active := parts[partIdx]

		var todos []store.Todo
		for _, t := range snap.Todos {
			if store.PartitionOf(t, parts) == active {
				todos = append(todos, t)
			}
		}
		// Incomplete first, then newest first.
		sort.SliceStable(todos, func(i, j int) bool {
			if todos[i].Completed != todos[j].Completed {
				return !todos[i].Completed
			}
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		})
		return todosDataMsg{partitions: parts, todos: todos}
	}
}

func (m todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todosDataMsg:
		m.partitions = msg.partitions
		m.todos = msg.todos
		if m.partIdx >= len(m.partitions) {
			m.partIdx = 0
		}
		if m.cursor >= len(m.todos) {
			m.cursor = maxInt(0, len(m.todos)-1)
		}
		if m.viewingDetail && m.currentDetail() == nil {
			m.viewingDetail = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m todosModel) updateList(msg tea.KeyMsg) (todosModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.pendingDelete = ""
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
		m.pendingDelete = ""
	case key.Matches(msg, keys.Left):
		if m.partIdx > 0 {
			m.partIdx--
		} else {
			m.partIdx = maxInt(0, len(m.partitions)-1)
		}
		m.cursor = 0
		return m, m.refresh()
	case key.Matches(msg, keys.Right):
		m.partIdx = (m.partIdx + 1) % maxInt(1, len(m.partitions))
		m.cursor = 0
		return m, m.refresh()
	case key.Matches(msg, keys.New):
		return m.showTodoForm()
	case key.Matches(msg, keys.NewPart):
		return m.showPartitionForm()
	case key.Matches(msg, keys.DelPart):
		return m.confirmDeletePartition()
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(m.todos) {
			m.viewingDetail = true
			m.detailID = m.todos[m.cursor].ID
			m.subCursor = 0
		}
	case key.Matches(msg, keys.Pause): // space toggles completion
		return m.toggleCompletion()
	case key.Matches(msg, keys.Delete):
		return m.confirmDelete()
	case key.Matches(msg, keys.Back):
		m.pendingDelete = ""
		m.pendingDelPart = ""
	}
	return m, nil
}

func (m todosModel) updateDetail(msg tea.KeyMsg) (todosModel, tea.Cmd) {
	t := m.currentDetail()
	if t == nil {
		m.viewingDetail = false
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingDetail = false
	case key.Matches(msg, keys.Up):
		if m.subCursor > 0 {
			m.subCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.subCursor < len(t.Subtasks)-1 {
			m.subCursor++
		}
	case key.Matches(msg, keys.Archive): // 'a' adds a subtask here
		return m.showSubtaskForm()
	case key.Matches(msg, keys.Pause): // space toggles the selected subtask
		if m.subCursor < len(t.Subtasks) {
			if err := m.store.ToggleSubtask(t.ID, t.Subtasks[m.subCursor].ID); err != nil {
				return m, errStatus(err)
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Stop): // 'x' removes the selected subtask
		if m.subCursor < len(t.Subtasks) {
			if err := m.store.RemoveSubtask(t.ID, t.Subtasks[m.subCursor].ID); err != nil {
				return m, errStatus(err)
			}
			if m.subCursor > 0 {
				m.subCursor--
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Update):
		return m.showProgressForm(*t)
	}
	return m, nil
}

func (m todosModel) currentDetail() *store.Todo {
	for i := range m.todos {
		if m.todos[i].ID == m.detailID {
			return &m.todos[i]
		}
	}
	return nil
}

func (m todosModel) toggleCompletion() (todosModel, tea.Cmd) {
	if m.cursor >= len(m.todos) {
		return m, nil
	}
	just, err := m.store.ToggleCompletion(m.todos[m.cursor].ID)
	if err != nil {
		return m, errStatus(err)
	}
	cmds := []tea.Cmd{m.refresh()}
	if just {
		cmds = append(cmds, func() tea.Msg {
			return statusMsg{text: "Completed! 🎉\a"}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m todosModel) confirmDelete() (todosModel, tea.Cmd) {
	if m.cursor >= len(m.todos) {
		return m, nil
	}
	id := m.todos[m.cursor].ID
	if m.pendingDelete != id {
		m.pendingDelete = id
		return m, func() tea.Msg {
			return statusMsg{text: "Press d again to delete"}
		}
	}
	m.pendingDelete = ""
	if err := m.store.DeleteTodo(id); err != nil {
		return m, errStatus(err)
	}
	return m, tea.Batch(m.refresh(), func() tea.Msg {
		return statusMsg{text: "Todo deleted"}
	})
}

func (m todosModel) confirmDeletePartition() (todosModel, tea.Cmd) {
	if m.partIdx >= len(m.partitions) {
		return m, nil
	}
	name := m.partitions[m.partIdx]
	if name == store.DefaultPartition {
		return m, func() tea.Msg {
			return statusMsg{text: "The default partition cannot be deleted", isError: true}
		}
	}
	if m.pendingDelPart != name {
		m.pendingDelPart = name
		return m, func() tea.Msg {
			return statusMsg{text: "Press X again to delete partition (todos move to default)"}
		}
	}
	m.pendingDelPart = ""
	if err := m.store.DeletePartition(name); err != nil {
		return m, errStatus(err)
	}
	m.partIdx = 0
	return m, tea.Batch(m.refresh(), func() tea.Msg {
		return statusMsg{text: "Partition deleted"}
	})
}

// --- Forms ---

func (m todosModel) showTodoForm() (todosModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDesc = ""
	*m.formDeadline = ""
	*m.formProgress = "0"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDesc),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, optional)").Value(m.formDeadline),
			huh.NewInput().Title("Initial progress (0-100)").Value(m.formProgress),
		).Title("New todo"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formKind = "todo"
	m.formActive = true
	return m, m.form.Init()
}

func (m todosModel) showSubtaskForm() (todosModel, tea.Cmd) {
	*m.formText = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subtask").Value(m.formText),
		),
	).WithShowHelp(true)
	m.formKind = "subtask"
	m.formActive = true
	return m, m.form.Init()
}

func (m todosModel) showProgressForm(t store.Todo) (todosModel, tea.Cmd) {
	*m.formProgress = strconv.Itoa(t.Progress)
	*m.formNote = ""
	*m.formTag = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Progress (0-100)").Value(m.formProgress),
			huh.NewInput().Title("Note").Value(m.formNote),
			huh.NewSelect[string]().Title("Tag").
				Options(huh.NewOptions(progressTags...)...).Value(m.formTag),
		).Title("Update progress"),
	).WithShowHelp(true).WithShowErrors(true)
	m.formKind = "progress"
	m.formActive = true
	return m, m.form.Init()
}

func (m todosModel) showPartitionForm() (todosModel, tea.Cmd) {
	*m.formText = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Partition name").Value(m.formText),
		),
	).WithShowHelp(true)
	m.formKind = "partition"
	m.formActive = true
	return m, m.form.Init()
}

func (m todosModel) updateForm(msg tea.Msg) (todosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}
	m.formActive = false

	switch m.formKind {
	case "todo":
		progress, _ := strconv.Atoi(*m.formProgress)
		partition := store.DefaultPartition
		if m.partIdx < len(m.partitions) {
			partition = m.partitions[m.partIdx]
		}
		todo, err := m.store.AddTodo(*m.formTitle, *m.formDesc, partition, *m.formDeadline, progress)
		if err != nil {
			return m, errStatus(err)
		}
		cmds := []tea.Cmd{m.refresh()}
		if todo.Completed {
			cmds = append(cmds, func() tea.Msg { return statusMsg{text: "Completed! 🎉\a"} })
		} else {
			cmds = append(cmds, func() tea.Msg { return statusMsg{text: "Todo added"} })
		}
		return m, tea.Batch(cmds...)

	case "subtask":
		if *m.formText != "" {
			if err := m.store.AddSubtask(m.detailID, *m.formText); err != nil {
				return m, errStatus(err)
			}
		}
		return m, m.refresh()

	case "progress":
		value, _ := strconv.Atoi(*m.formProgress)
		if err := m.store.SetProgress(m.detailID, value, *m.formNote, *m.formTag); err != nil {
			return m, errStatus(err)
		}
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: "Progress updated"}
		})

	case "partition":
		if err := m.store.AddPartition(*m.formText); err != nil {
			return m, errStatus(err)
		}
		return m, m.refresh()
	}
	return m, nil
}

// --- Views ---

func (m todosModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(w).Render(m.form.View())
	}
	if m.viewingDetail {
		return m.detailView(w)
	}
	return m.listView(w)
}

func (m todosModel) listView(w int) string {
	var rows []string

	var tabs []string
	for i, p := range m.partitions {
		if i == m.partIdx {
			tabs = append(tabs, activeTabStyle.Render(p))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(p))
		}
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
	rows = append(rows, "")

	if len(m.todos) == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing here. Press n to add a todo."))
	}

	now := time.Now()
	for i, t := range m.todos {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "[ ]"
		if t.Completed {
			check = successStyle.Render("[✓]")
		}

		extra := ""
		if len(t.Subtasks) > 0 {
			done := 0
			for _, s := range t.Subtasks {
				if s.Completed {
					done++
				}
			}
			extra += mutedStyle.Render(fmt.Sprintf("  %d/%d", done, len(t.Subtasks)))
		}
		if t.Deadline != "" {
			extra += "  " + m.describeDeadline(t, now)
		}

		progress := highlightStyle.Render(fmt.Sprintf("%3d%%", t.Progress))
		if t.Completed {
			progress = successStyle.Render("100%")
		}

		rows = append(rows, fmt.Sprintf("%s%s %s %s%s",
			cursor, check, progress, style.Render(truncate(t.Title, w-20)), extra))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: detail  space: toggle  d: delete  ←/→: partition  P/X: partitions"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m todosModel) describeDeadline(t store.Todo, now time.Time) string {
	due, err := time.ParseInLocation("2006-01-02", t.Deadline, now.Location())
	if err != nil {
		if due2, err2 := time.Parse(time.RFC3339, t.Deadline); err2 == nil {
			due = due2
		} else {
			return errorStyle.Render("⚠ " + t.Deadline)
		}
	}
	label := "due " + due.Format("Jan 02")
	if due.Before(now) && !t.Completed {
		return errorStyle.Render(label)
	}
	return mutedStyle.Render(label)
}

func (m todosModel) detailView(w int) string {
	t := m.currentDetail()
	if t == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Gone."))
	}

	var rows []string
	rows = append(rows, titleStyle.Render(t.Title))
	if t.Description != "" {
		rows = append(rows, mutedStyle.Render(t.Description))
	}
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("Progress: %s", highlightStyle.Render(fmt.Sprintf("%d%%", t.Progress))))
	if t.Deadline != "" {
		rows = append(rows, "Deadline: "+m.describeDeadline(*t, time.Now()))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Subtasks"))
	if len(t.Subtasks) == 0 {
		rows = append(rows, mutedStyle.Render("  none — press a to add"))
	}
	for i, s := range t.Subtasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.subCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if s.Completed {
			check = successStyle.Render("[✓]")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, check, style.Render(s.Text)))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("History"))
	history := t.History
	const maxHistory = 8
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	if len(history) == 0 {
		rows = append(rows, mutedStyle.Render("  no progress recorded yet"))
	}
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		tag := ""
		if h.Tag != "" {
			tag = accentStyle.Render("["+h.Tag+"] ")
		}
		rows = append(rows, fmt.Sprintf("  %s  %s %s%s",
			mutedStyle.Render(h.Timestamp.Format("Jan 02 15:04")),
			secondaryStyle.Render(fmt.Sprintf("%3d%%", h.Progress)),
			tag, h.Note))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  a: add subtask  space: toggle  x: remove  u: update progress  esc: back"))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
