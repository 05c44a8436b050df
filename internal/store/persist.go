package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMalformedPayload marks a document that fails structural validation.
var ErrMalformedPayload = errors.New("malformed snapshot payload")

// DefaultDataPath returns ~/.config/daykeep/daykeep.json.
func DefaultDataPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "daykeep", "daykeep.json"), nil
}

func defaultState() AppState {
	return AppState{
		Partitions: []string{DefaultPartition},
		Settings:   Settings{Theme: "light"},
	}
}

// normalize repairs documents written by older versions: the default
// partition always exists and settings carry a theme.
func normalize(state AppState) AppState {
	if !containsString(state.Partitions, DefaultPartition) {
		state.Partitions = append([]string{DefaultPartition}, state.Partitions...)
	}
	if state.Settings.Theme == "" {
		state.Settings.Theme = "light"
	}
	return state
}

func containsString(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

// Encode serializes a snapshot to its canonical document form.
func Encode(state AppState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode validates and parses a snapshot document. Anything that is not a
// JSON object with the expected field shapes is rejected with
// ErrMalformedPayload.
func Decode(data []byte) (AppState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return AppState{}, fmt.Errorf("%w: document is not a JSON object", ErrMalformedPayload)
	}
	var state AppState
	if err := json.Unmarshal(trimmed, &state); err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return normalize(state), nil
}

func loadState(path string) (AppState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultState(), nil
		}
		return AppState{}, fmt.Errorf("read snapshot: %w", err)
	}
	state, err := Decode(data)
	if err != nil {
		return AppState{}, err
	}
	return state, nil
}

// persist writes the full document atomically: temp file in the same
// directory, then rename. Caller holds the lock.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	data, err := Encode(s.state)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".daykeep-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
