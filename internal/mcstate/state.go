// Package mcstate holds the coordinator's global mutable state — current
// accepted energy, step/accept counters — and the filesystem-backed store
// that makes updates to it durable and atomic against external readers.
//
// Per the §9 redesign note in spec.md, the coordinator's ad hoc globals
// (current_E, mc_steps, accept_count, the root SAVE/CONTCAR pair) are
// collected into one explicit McState value threaded through the driver,
// with filesystem writes confined to this package's write-then-rename
// primitive.
package mcstate

import (
	"os"
	"path/filepath"
)

// State is the coordinator's process-wide mutable state (spec.md §5).
// There is exactly one live State per run; it is owned by the driver's
// single goroutine, so no locking is required in-process.
type State struct {
	// Seeded reports whether the first (seeding) report has already been
	// consumed (spec.md §4.6 step 5).
	Seeded bool

	// CurrentEnergy is the energy of the last accepted structure.
	CurrentEnergy float64

	// MCSteps counts consumed non-seeding reports (spec.md glossary "MC
	// step"), regardless of accept/reject outcome.
	MCSteps int

	// AcceptCount counts reports that were accepted.
	AcceptCount int
}

// Store owns the on-disk representation of the accepted state: the root
// SAVE/CONTCAR pair and the mc_count counter file. All writes go through
// write-then-rename so a reader never observes a partial file (spec.md §5
// "Filesystem as IPC").
type Store struct {
	Root string // working directory containing SAVE, CONTCAR, counters/
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store { return &Store{Root: dir} }

func (s *Store) path(name string) string { return filepath.Join(s.Root, name) }

// WriteFile atomically replaces name (relative to Root) with data: it
// writes to a temp file in the same directory, then renames over the
// target, so any concurrent reader sees either the old or the new
// content in full, never a partial write.
func (s *Store) WriteFile(name string, data []byte) error {
	target := s.path(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-"+filepath.Base(target)+"-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, target)
}

// ReadFile reads name (relative to Root).
func (s *Store) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(s.path(name))
}

// CopyFile atomically copies src (an absolute path) to name (relative to
// Root), used when promoting a worker outbox's artifacts to the root
// accepted state (spec.md §4.6 steps 5/6).
func (s *Store) CopyFile(name, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return s.WriteFile(name, data)
}
