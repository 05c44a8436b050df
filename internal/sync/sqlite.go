package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRemote stores the remote document in a single-row SQLite table,
// typically on a synced drive or network mount shared between machines.
type SQLiteRemote struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the remote document database at path.
func OpenSQLite(path string) (*SQLiteRemote, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create remote directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open remote database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS snapshot (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		payload    TEXT NOT NULL,
		revision   INTEGER NOT NULL,
		writer     TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate remote: %w", err)
	}
	return &SQLiteRemote{db: db}, nil
}

func (r *SQLiteRemote) Load(ctx context.Context) (*Document, error) {
	doc := &Document{}
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, revision, writer FROM snapshot WHERE id = 1`,
	).Scan(&payload, &doc.Revision, &doc.Writer)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load remote document: %w", err)
	}
	doc.Payload = []byte(payload)
	return doc, nil
}

func (r *SQLiteRemote) Save(ctx context.Context, payload []byte, writer string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save remote document: %w", err)
	}
	defer tx.Rollback()

	var revision int64
	err = tx.QueryRowContext(ctx, `SELECT revision FROM snapshot WHERE id = 1`).Scan(&revision)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read remote revision: %w", err)
	}
	revision++

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, payload, revision, writer, updated_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, revision = excluded.revision,
		   writer = excluded.writer, updated_at = excluded.updated_at`,
		string(payload), revision, writer, now,
	)
	if err != nil {
		return 0, fmt.Errorf("write remote document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit remote document: %w", err)
	}
	return revision, nil
}

func (r *SQLiteRemote) Close() error {
	return r.db.Close()
}
