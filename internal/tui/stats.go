package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"daykeep/internal/stats"
	"daykeep/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	sessions []store.FocusSession
	todos    []store.Todo

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap := m.store.Snapshot()
		return statsDataMsg{sessions: snap.FocusSessions, todos: snap.Todos}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		m.sessions = msg.sessions
		m.todos = msg.todos
		m.buildChart()
		return m, nil
	case sessionCommittedMsg:
		return m, m.refresh()
	}
	return m, nil
}

// buildChart charts focused hours per day for the trailing week.
func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 10)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -6)
	to := today.AddDate(0, 0, 1)
	byDay := stats.FocusByDay(m.sessions, from, to)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		secs := byDay[d.Format("2006-01-02")]
		hours := float64(secs) / 3600.0
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if secs == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "focus", Value: hours, Style: style},
			},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	now := time.Now()
	today := stats.TodayTotal(m.sessions, now)
	average := stats.DailyAverage(m.sessions)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Statistics"), "   ",
		mutedStyle.Render(fmt.Sprintf("today %s", formatSeconds(today))), "  ",
		mutedStyle.Render(fmt.Sprintf("daily avg %s", formatSeconds(average))), "  ",
		mutedStyle.Render(fmt.Sprintf("%d sessions", len(m.sessions))),
	)

	ranking := m.renderRanking()
	heatmap := m.renderHeatmap(now)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", ranking, "", heatmap,
		),
	)
}

func (m statsModel) renderRanking() string {
	ranked := stats.RecentRanking(m.sessions, 3)
	if len(ranked) == 0 {
		return mutedStyle.Render("  No focus sessions yet")
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Recent sessions"))
	for i, r := range ranked {
		rows = append(rows, fmt.Sprintf("  %d. %-24s %-10s %s",
			i+1,
			truncate(r.Task, 24),
			secondaryStyle.Render(r.Mode),
			highlightStyle.Render(formatSeconds(r.Duration)),
		))
	}
	return strings.Join(rows, "\n")
}

// renderHeatmap draws the contribution strip: one cell per day, seven rows,
// most recent week in the last column.
func (m statsModel) renderHeatmap(now time.Time) string {
	weeks := (m.width - 16) / 2
	if weeks < 8 {
		weeks = 8
	}
	if weeks > 26 {
		weeks = 26
	}

	activity := stats.ActivityByDay(m.todos)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Align the grid so columns are whole weeks ending today.
	start := today.AddDate(0, 0, -(weeks*7 - 1))
	for start.Weekday() != time.Sunday {
		start = start.AddDate(0, 0, -1)
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Activity"))
	for dow := 0; dow < 7; dow++ {
		var sb strings.Builder
		sb.WriteString("  ")
		for d := start.AddDate(0, 0, dow); !d.After(today); d = d.AddDate(0, 0, 7) {
			count := activity[d.Format("2006-01-02")]
			sb.WriteString(lipgloss.NewStyle().Foreground(heatColor(count)).Render("■ "))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func heatColor(count int) lipgloss.Color {
	switch {
	case count > 8:
		return heatColors[4]
	case count > 5:
		return heatColors[3]
	case count > 2:
		return heatColors[2]
	case count > 0:
		return heatColors[1]
	default:
		return heatColors[0]
	}
}
