package export

import (
	"fmt"
	"os"

	"daykeep/internal/store"
)

// ToJSON writes the full snapshot document as a backup file. The output is
// the same shape the store persists and the sync channel replicates, so a
// backup can be re-imported or dropped onto another machine as-is.
func ToJSON(state store.AppState, path string) error {
	data, err := store.Encode(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// FromJSON reads and validates a backup document. Malformed payloads are
// rejected with store.ErrMalformedPayload and the caller's state is left
// untouched; the returned snapshot is only applied after the user confirms
// the overwrite.
func FromJSON(path string) (store.AppState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.AppState{}, fmt.Errorf("read backup file: %w", err)
	}
	return store.Decode(data)
}
