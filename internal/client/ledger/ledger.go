// Package ledger tracks which local files have already been uploaded.
//
// The ledger is the client-side dedup authority: a set of file identity
// strings (absolute paths) that have completed upload. It is hydrated into
// memory at open so lookups are cheap and synchronous, and written through
// to SQLite so it survives restarts. Entries are never removed.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/gontarzpawel/photo-pigeon-send/internal/dbx"
)

type Ledger struct {
	db dbx.DBTX

	mu  sync.RWMutex
	set map[string]struct{}
}

// Open hydrates the ledger from the uploaded_files table.
func Open(ctx context.Context, db dbx.DBTX) (*Ledger, error) {
	l := &Ledger{db: db, set: make(map[string]struct{})}

	rows, err := db.QueryContext(ctx, `SELECT path FROM uploaded_files`)
	if err != nil {
		return nil, fmt.Errorf("load upload ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan upload ledger row: %w", err)
		}
		l.set[path] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upload ledger: %w", err)
	}

	return l, nil
}

// IsUploaded reports whether path has completed an upload before.
// Pure in-memory lookup.
func (l *Ledger) IsUploaded(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.set[path]
	return ok
}

// MarkUploaded records path as uploaded, both in memory and on disk.
// Recording the same path twice is a no-op.
func (l *Ledger) MarkUploaded(ctx context.Context, path string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO uploaded_files (path) VALUES (?) ON CONFLICT(path) DO NOTHING`, path)
	if err != nil {
		return fmt.Errorf("persist upload ledger entry: %w", err)
	}

	l.mu.Lock()
	l.set[path] = struct{}{}
	l.mu.Unlock()

	return nil
}

// Len returns the number of recorded identities.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.set)
}
