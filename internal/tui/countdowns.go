package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"daykeep/internal/store"
)

var countdownTypes = []string{"anniversary", "exam", "birthday", "work", "other"}
var countdownColors = []string{"blue", "red", "green", "purple"}

type countdownsModel struct {
	store  *store.Store
	width  int
	height int

	items        []store.Countdown
	cursor       int
	showArchived bool

	// Two-step confirmations; set to the id awaiting a second keypress.
	pendingDelete  string
	pendingArchive string

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle   *string
	formDate    *string
	formType    *string
	formColor   *string
	formRepeat  *string
	formCountUp *bool
}

func newCountdownsModel(s *store.Store) countdownsModel {
	title, date, ctype, color, repeat := "", "", countdownTypes[0], countdownColors[0], string(store.RepeatNone)
	countUp := false
	return countdownsModel{
		store:       s,
		formTitle:   &title,
		formDate:    &date,
		formType:    &ctype,
		formColor:   &color,
		formRepeat:  &repeat,
		formCountUp: &countUp,
	}
}

func (c *countdownsModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c countdownsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap := c.store.Snapshot()
		items := snap.Countdowns
		if !c.showArchived {
			var active []store.Countdown
			for _, it := range items {
				if !it.Archived {
					active = append(active, it)
				}
			}
			items = active
		}
		return countdownsDataMsg{items: store.SortCountdowns(items, time.Now())}
	}
}

func (c countdownsModel) update(msg tea.Msg) (countdownsModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case countdownsDataMsg:
		c.items = msg.items
		if c.cursor >= len(c.items) {
			c.cursor = maxInt(0, len(c.items)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
			c.clearPending()
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.items)-1 {
				c.cursor++
			}
			c.clearPending()
		case key.Matches(msg, keys.New):
			return c.showForm()
		case key.Matches(msg, keys.Delete):
			return c.confirmDelete()
		case key.Matches(msg, keys.Archive):
			return c.confirmArchive()
		case key.Matches(msg, keys.Back):
			c.clearPending()
		}
	}
	return c, nil
}

// confirmDelete hard-deletes only on the second press for the same record.
func (c countdownsModel) confirmDelete() (countdownsModel, tea.Cmd) {
	if c.cursor >= len(c.items) {
		return c, nil
	}
	id := c.items[c.cursor].ID
	if c.pendingDelete != id {
		c.pendingDelete = id
		c.pendingArchive = ""
		return c, func() tea.Msg {
			return statusMsg{text: "Press d again to delete"}
		}
	}
	c.pendingDelete = ""
	if err := c.store.DeleteCountdown(id); err != nil {
		return c, errStatus(err)
	}
	return c, tea.Batch(c.refresh(), func() tea.Msg {
		return statusMsg{text: "Countdown deleted"}
	})
}

func (c countdownsModel) confirmArchive() (countdownsModel, tea.Cmd) {
	if c.cursor >= len(c.items) {
		return c, nil
	}
	item := c.items[c.cursor]
	res, err := store.Resolve(item, time.Now())
	if err != nil || !res.Past || item.CountUp || item.Archived {
		return c, func() tea.Msg {
			return statusMsg{text: "Only expired countdowns can be archived", isError: true}
		}
	}
	if c.pendingArchive != item.ID {
		c.pendingArchive = item.ID
		c.pendingDelete = ""
		return c, func() tea.Msg {
			return statusMsg{text: "Press a again to archive"}
		}
	}
	c.pendingArchive = ""
	if err := c.store.ArchiveCountdown(item.ID, time.Now()); err != nil {
		return c, errStatus(err)
	}
	return c, tea.Batch(c.refresh(), func() tea.Msg {
		return statusMsg{text: "Countdown archived"}
	})
}

func (c *countdownsModel) clearPending() {
	c.pendingDelete = ""
	c.pendingArchive = ""
}

func (c countdownsModel) showForm() (countdownsModel, tea.Cmd) {
	*c.formTitle = ""
	*c.formDate = time.Now().AddDate(0, 0, 7).Format("2006-01-02T15:04")
	*c.formType = countdownTypes[0]
	*c.formColor = countdownColors[0]
	*c.formRepeat = string(store.RepeatNone)
	*c.formCountUp = false

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(c.formTitle),
			huh.NewInput().Title("Target date (YYYY-MM-DDTHH:MM)").Value(c.formDate),
			huh.NewSelect[string]().Title("Type").
				Options(huh.NewOptions(countdownTypes...)...).Value(c.formType),
			huh.NewSelect[string]().Title("Color").
				Options(huh.NewOptions(countdownColors...)...).Value(c.formColor),
			huh.NewSelect[string]().Title("Repeat").
				Options(
					huh.NewOption("none", string(store.RepeatNone)),
					huh.NewOption("weekly", string(store.RepeatWeekly)),
					huh.NewOption("monthly", string(store.RepeatMonthly)),
					huh.NewOption("yearly", string(store.RepeatYearly)),
				).Value(c.formRepeat),
			huh.NewConfirm().Title("Count up from this date?").Value(c.formCountUp),
		).Title("New countdown"),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c countdownsModel) updateForm(msg tea.Msg) (countdownsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		_, err := c.store.AddCountdown(store.Countdown{
			Title:      *c.formTitle,
			TargetDate: *c.formDate,
			Type:       *c.formType,
			Color:      *c.formColor,
			Repeat:     store.RepeatPolicy(*c.formRepeat),
			CountUp:    *c.formCountUp,
		})
		if err != nil {
			return c, errStatus(err)
		}
		return c, tea.Batch(c.refresh(), func() tea.Msg {
			return statusMsg{text: "Countdown added"}
		})
	}
	return c, cmd
}

func (c countdownsModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		return activePanelStyle.Width(w).Render(c.form.View())
	}

	now := time.Now()
	var rows []string
	rows = append(rows, titleStyle.Render("Countdowns"))
	rows = append(rows, "")

	if len(c.items) == 0 {
		rows = append(rows, mutedStyle.Render("  No countdowns yet. Press n to add one."))
	}

	for i, item := range c.items {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		marker := ""
		if item.Repeat != store.RepeatNone && !item.CountUp {
			marker = secondaryStyle.Render(" ↻" + string(item.Repeat))
		}
		if item.Archived {
			marker += mutedStyle.Render(" [archived]")
		}

		rows = append(rows, fmt.Sprintf("%s%s%s", cursor, style.Render(item.Title), marker))
		rows = append(rows, "    "+c.describeTarget(item, now))
	}

	if reminders := c.store.UpcomingReminders(now); len(reminders) > 0 {
		rows = append(rows, "")
		rows = append(rows, warningStyle.Render("  Due soon:"))
		for _, r := range reminders {
			when := "today"
			if r.DaysLeft == 1 {
				when = "tomorrow"
			}
			kind := "target"
			if r.Deadline {
				kind = "deadline"
			}
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %s — %s %s", r.Title, kind, when)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: delete  a: archive expired"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// describeTarget renders the effective target line; records with unparseable
// dates are flagged instead of breaking the list.
func (c countdownsModel) describeTarget(item store.Countdown, now time.Time) string {
	res, err := store.Resolve(item, now)
	if err != nil {
		return errorStyle.Render("⚠ invalid date")
	}

	span := fmt.Sprintf("%dd %dh %dm", res.Days, res.Hours, res.Minutes)
	date := mutedStyle.Render(res.Target.Format("Jan 02, 2006 15:04"))
	switch {
	case item.CountUp:
		return fmt.Sprintf("%s  %s", secondaryStyle.Render(span+" elapsed"), date)
	case res.Past:
		return fmt.Sprintf("%s  %s", warningStyle.Render("expired "+span+" ago"), date)
	default:
		return fmt.Sprintf("%s  %s", highlightStyle.Render("in "+span), date)
	}
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
