package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"daykeep/internal/config"
	"daykeep/internal/store"
	"daykeep/internal/sync"
	"daykeep/internal/tui"
)

func main() {
	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// A broken config file must not lock the user out of their data:
		// warn, keep replication off, and run with defaults.
		fmt.Fprintf(os.Stderr, "warning: %v (continuing without sync)\n", err)
		cfg, err = config.Load("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.Open(cfg.DataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening data file: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(s, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if cfg.Sync.Enabled {
		remote, err := sync.OpenSQLite(cfg.Sync.RemotePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening sync remote: %v\n", err)
			os.Exit(1)
		}
		ch := sync.NewChannel(s, remote, func() {
			p.Send(tui.RemoteAppliedMsg{})
		})
		s.SetPublisher(ch.Publish)
		ch.Start(context.Background(), cfg.Sync.PollInterval)
		defer ch.Stop()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
