// Package config loads the daykeep config file: where the snapshot document
// lives and whether (and where) it is mirrored to a remote store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultPollInterval = 3 * time.Second

// Sync configures the replication channel. It lives outside the replicated
// document on purpose.
type Sync struct {
	Enabled      bool
	RemotePath   string
	PollInterval time.Duration
}

type Config struct {
	DataPath string
	Sync     Sync
}

// DefaultConfigPath returns ~/.config/daykeep/config.toml.
func DefaultConfigPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "daykeep", "config.toml"), nil
}

// Load parses the config at path, falling back to defaults when the file is
// missing. A file that exists but fails to parse is an error; the caller
// keeps replication disabled in that case.
func Load(path string) (Config, error) {
	cfg := Config{Sync: Sync{PollInterval: defaultPollInterval}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return withDefaults(cfg)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataPath string `toml:"data_path"`
		Sync     struct {
			Enabled             bool   `toml:"enabled"`
			RemotePath          string `toml:"remote_path"`
			PollIntervalSeconds int    `toml:"poll_interval_seconds"`
		} `toml:"sync"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.DataPath = expand(strings.TrimSpace(raw.DataPath))
	cfg.Sync.Enabled = raw.Sync.Enabled
	cfg.Sync.RemotePath = expand(strings.TrimSpace(raw.Sync.RemotePath))
	if raw.Sync.PollIntervalSeconds > 0 {
		cfg.Sync.PollInterval = time.Duration(raw.Sync.PollIntervalSeconds) * time.Second
	}
	if cfg.Sync.Enabled && cfg.Sync.RemotePath == "" {
		return Config{}, errors.New("parse config: sync enabled without remote_path")
	}
	return withDefaults(cfg)
}

func withDefaults(cfg Config) (Config, error) {
	if cfg.DataPath == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data path: %w", err)
		}
		cfg.DataPath = filepath.Join(base, "daykeep", "daykeep.json")
	}
	return cfg, nil
}

func expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
