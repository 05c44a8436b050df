package store

import (
	"fmt"
	"sync"
)

// Store owns the single authoritative in-memory snapshot of all entities.
// Mutations go through the exported entry points; each one persists the full
// document and, when a publisher is set, pushes the new snapshot to it.
// Remote-originated updates re-enter through Absorb, which persists but never
// publishes.
type Store struct {
	mu      sync.RWMutex
	path    string // empty for in-memory stores
	state   AppState
	publish func(AppState)
}

// Open loads the snapshot document at path, creating a default one if the
// file does not exist yet.
func Open(path string) (*Store, error) {
	state, err := loadState(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{path: path, state: state}, nil
}

// NewMemory creates a store with no backing file, for testing.
func NewMemory() *Store {
	return &Store{state: defaultState()}
}

// SetPublisher installs the local→remote hook. It is invoked with a snapshot
// copy after every user-originated mutation has been persisted.
func (s *Store) SetPublisher(fn func(AppState)) {
	s.mu.Lock()
	s.publish = fn
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// mutate applies fn under the lock. When fn reports a change the document is
// persisted and published. Unknown-entity no-ops return nil without touching
// the disk or the remote.
func (s *Store) mutate(fn func(*AppState) bool) error {
	s.mu.Lock()
	changed := fn(&s.state)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist(); err != nil {
		s.mu.Unlock()
		return err
	}
	publish := s.publish
	snap := s.state.Clone()
	s.mu.Unlock()

	if publish != nil {
		publish(snap)
	}
	return nil
}

// Absorb replaces the snapshot wholesale with a remote-originated copy and
// persists it locally. It never publishes; this keeps the absorb path
// structurally distinct from the user-mutation path so a remote update cannot
// echo back to the remote.
func (s *Store) Absorb(state AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = normalize(state)
	return s.persist()
}

// ReplaceAll overwrites the snapshot from an imported document. Unlike
// Absorb this is a user-originated mutation, so it publishes.
func (s *Store) ReplaceAll(state AppState) error {
	return s.mutate(func(st *AppState) bool {
		*st = normalize(state)
		return true
	})
}
