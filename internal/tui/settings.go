package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"daykeep/internal/config"
	"daykeep/internal/export"
	"daykeep/internal/store"
)

type settingsModel struct {
	store *store.Store
	cfg   config.Config

	width  int
	height int

	formActive bool
	formKind   string // "theme", "import"
	form       *huh.Form

	// Form field pointers (survive value copies)
	theme      *string
	importPath *string
	importOK   *bool
}

func newSettingsModel(s *store.Store, cfg config.Config) settingsModel {
	theme, path := "", ""
	ok := false
	return settingsModel{
		store:      s,
		cfg:        cfg,
		theme:      &theme,
		importPath: &path,
		importOK:   &ok,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showThemeForm()
		case key.Matches(msg, keys.Export):
			return s, s.doExport(false)
		case key.Matches(msg, keys.ExportCSV):
			return s, s.doExport(true)
		case key.Matches(msg, keys.Import):
			return s.showImportForm()
		}
	}
	return s, nil
}

func (s settingsModel) showThemeForm() (settingsModel, tea.Cmd) {
	*s.theme = s.store.Snapshot().Settings.Theme
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Light", "light"),
					huh.NewOption("Dark", "dark"),
				).Value(s.theme),
		).Title("Settings"),
	).WithShowHelp(true)
	s.formKind = "theme"
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showImportForm() (settingsModel, tea.Cmd) {
	*s.importPath = ""
	*s.importOK = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Backup file path").Value(s.importPath),
			huh.NewConfirm().Title("Importing overwrites all current data. Continue?").Value(s.importOK),
		).Title("Import backup"),
	).WithShowHelp(true).WithShowErrors(true)
	s.formKind = "import"
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State != huh.StateCompleted {
		return s, cmd
	}
	s.formActive = false

	switch s.formKind {
	case "theme":
		if err := s.store.SetTheme(*s.theme); err != nil {
			return s, errStatus(err)
		}
		return s, func() tea.Msg {
			return statusMsg{text: "Settings saved"}
		}

	case "import":
		if !*s.importOK {
			return s, func() tea.Msg {
				return statusMsg{text: "Import cancelled"}
			}
		}
		return s, s.doImport(*s.importPath)
	}
	return s, nil
}

// doImport validates the backup before touching anything; a malformed
// payload leaves current state untouched.
func (s settingsModel) doImport(path string) tea.Cmd {
	return func() tea.Msg {
		state, err := export.FromJSON(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import rejected: %v", err), isError: true}
		}
		if err := s.store.ReplaceAll(state); err != nil {
			return statusMsg{text: fmt.Sprintf("Import failed: %v", err), isError: true}
		}
		return dataImportedMsg{}
	}
}

func (s settingsModel) doExport(csv bool) tea.Cmd {
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if csv {
			path = filepath.Join(home, fmt.Sprintf("daykeep-sessions-%s.csv", dateStr))
			if err := export.ToCSV(s.store.Snapshot().FocusSessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("daykeep-backup-%s.json", dateStr))
			if err := export.ToJSON(s.store.Snapshot(), path); err != nil {
				return statusMsg{text: fmt.Sprintf("Backup error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(s.form.View())
	}

	syncState := mutedStyle.Render("disabled")
	if s.cfg.Sync.Enabled {
		syncState = successStyle.Render("enabled → " + s.cfg.Sync.RemotePath)
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(16).Render(label), value)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	rows = append(rows, row("Theme", highlightStyle.Render(s.store.Snapshot().Settings.Theme)))
	rows = append(rows, row("Data file", mutedStyle.Render(s.cfg.DataPath)))
	rows = append(rows, row("Sync", syncState))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit  e: export backup  E: export sessions csv  i: import"))
	rows = append(rows, mutedStyle.Render("  Sync is configured in config.toml and applied on restart."))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
