package mcstate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const counterPath = "counters/mc_count"

// nextArchiveIndex reads the last archived index from counters/mc_count,
// increments it, and persists the new value via write-then-rename
// (spec.md §4.8). A missing counter file is treated as index 0, so the
// first accept produces index 1.
func (s *Store) nextArchiveIndex() (int, error) {
	last := 0
	if data, err := s.ReadFile(counterPath); err == nil {
		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			n, err := strconv.Atoi(trimmed)
			if err != nil {
				return 0, fmt.Errorf("corrupt counter file %s: %w", counterPath, err)
			}
			last = n
		}
	} else if !os.IsNotExist(err) {
		return 0, err
	}
	next := last + 1
	if err := s.WriteFile(counterPath, []byte(strconv.Itoa(next))); err != nil {
		return 0, err
	}
	return next, nil
}

// ArchiveRecord is what the driver logs/returns after a successful
// archive, used for mirror components (§4.8 expansion) and tests.
type ArchiveRecord struct {
	Index  int
	Dir    string // absolute path to mcprocess/<NNNNNN>/
	TaskID string
	EFinal float64
}

// Archive copies outboxDir's CONTCAR, SAVE, and meta.json into a new
// mcprocess/<NNNNNN>/ directory (six-digit zero-padded), adds an
// info.txt with task_id and the final energy to twelve significant
// digits, and advances the monotonic counter (spec.md §4.8).
func (s *Store) Archive(outboxDir, taskID string, eFinal float64) (ArchiveRecord, error) {
	idx, err := s.nextArchiveIndex()
	if err != nil {
		return ArchiveRecord{}, err
	}
	dirName := fmt.Sprintf("mcprocess/%06d", idx)
	dirAbs := s.path(dirName)
	if err := os.MkdirAll(dirAbs, 0o755); err != nil {
		return ArchiveRecord{}, err
	}

	for _, name := range []string{"CONTCAR", "SAVE", "meta.json"} {
		data, err := os.ReadFile(filepath.Join(outboxDir, name))
		if err != nil {
			return ArchiveRecord{}, fmt.Errorf("archive %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dirAbs, name), data, 0o644); err != nil {
			return ArchiveRecord{}, fmt.Errorf("archive write %s: %w", name, err)
		}
	}

	info := fmt.Sprintf("task_id: %s\nE_final: %s\n", taskID, strconv.FormatFloat(eFinal, 'g', 12, 64))
	if err := os.WriteFile(filepath.Join(dirAbs, "info.txt"), []byte(info), 0o644); err != nil {
		return ArchiveRecord{}, fmt.Errorf("archive write info.txt: %w", err)
	}

	return ArchiveRecord{Index: idx, Dir: dirAbs, TaskID: taskID, EFinal: eFinal}, nil
}
