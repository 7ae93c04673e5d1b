// Package archivemirror implements the optional, best-effort archive
// mirrors described in SPEC_FULL.md §4.8: additive copies of archived
// accepted-state metadata, never a replacement for the mandatory
// mcprocess/ filesystem archive.
package archivemirror

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/siyazhu/PAIPAI/internal/mcstate"
)

// PostgresMirror upserts one row per accepted state into a Postgres table,
// purely for operator-facing queryable history.
type PostgresMirror struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS paipai_archive (
	mc_index    INTEGER PRIMARY KEY,
	task_id     TEXT NOT NULL,
	e_final     DOUBLE PRECISION NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresMirror opens dsn and ensures the mirror table exists.
func NewPostgresMirror(dsn string) (*PostgresMirror, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("archivemirror: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archivemirror: schema: %w", err)
	}
	return &PostgresMirror{db: db}, nil
}

// MirrorArchive inserts rec, ignoring a duplicate mc_index (a retried
// mirror attempt after a transient failure should not error).
func (m *PostgresMirror) MirrorArchive(rec mcstate.ArchiveRecord) error {
	_, err := m.db.Exec(
		`INSERT INTO paipai_archive (mc_index, task_id, e_final) VALUES ($1, $2, $3)
		 ON CONFLICT (mc_index) DO NOTHING`,
		rec.Index, rec.TaskID, rec.EFinal,
	)
	return err
}

// Close releases the underlying connection pool.
func (m *PostgresMirror) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
