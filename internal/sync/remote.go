// Package sync mirrors the local snapshot document to a single remote copy,
// best-effort: publishes are at-most-once and failures are logged, never
// retried. Remote updates re-enter the store through its absorb path so they
// can never echo back out.
package sync

import "context"

// Document is the remote copy of the serialized snapshot. Revision increases
// monotonically on every save; Writer tags which channel instance wrote it.
type Document struct {
	Payload  []byte
	Revision int64
	Writer   string
}

// Remote is one remote document slot keyed by a fixed identifier.
type Remote interface {
	// Load returns the current document, or nil when none has been written.
	Load(ctx context.Context) (*Document, error)
	// Save overwrites the document wholesale and returns the new revision.
	Save(ctx context.Context, payload []byte, writer string) (int64, error)
	Close() error
}
