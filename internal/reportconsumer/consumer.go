// Package reportconsumer polls the reports/ directory for asynchronous
// worker reports, applies the Metropolis criterion, and promotes accepted
// states (spec.md §4.6).
package reportconsumer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgraph-io/ristretto"

	"github.com/siyazhu/PAIPAI/internal/logging"
	"github.com/siyazhu/PAIPAI/internal/mcstate"
	"github.com/siyazhu/PAIPAI/internal/metrics"
	"github.com/siyazhu/PAIPAI/internal/rng"
)

// report mirrors the consumer-visible JSON fields (spec.md §6). Unknown
// fields are ignored by encoding/json's default decode behavior.
type report struct {
	Status      string  `json:"status"`
	Error       string  `json:"error"`
	TaskID      string  `json:"task_id"`
	EnergyFinal float64 `json:"energy_final"`
}

// Mirror is an optional, best-effort archive-mirror sink (SPEC_FULL.md
// §4.8 expansion). Failures are logged and never block the chain.
type Mirror interface {
	MirrorArchive(rec mcstate.ArchiveRecord) error
}

// Consumer polls root/reports for worker reports.
type Consumer struct {
	Root     string
	Store    *mcstate.Store
	RNG      *rng.Source
	Temp     float64
	dedup    *ristretto.Cache
	Mirrors  []Mirror
}

// New constructs a Consumer rooted at root, using temperature for
// Metropolis draws and r as the shared seedable generator.
func New(root string, store *mcstate.Store, r *rng.Source, temperature float64) (*Consumer, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("reportconsumer: dedup cache: %w", err)
	}
	return &Consumer{Root: root, Store: store, RNG: r, Temp: temperature, dedup: cache}, nil
}

// reportsDir returns root/reports.
func (c *Consumer) reportsDir() string { return filepath.Join(c.Root, "reports") }

// Tick processes every *.json regular file currently in reports/ and
// returns the number of reports that yielded an MC step (i.e. excluding
// the seeding report and files dropped for being malformed/errored).
func (c *Consumer) Tick(state *mcstate.State) (int, error) {
	entries, err := os.ReadDir(c.reportsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	processed := 0
	for _, name := range names {
		if c.processOne(state, name) {
			processed++
		}
	}
	return processed, nil
}

// processOne handles a single report file and always removes it
// (spec.md §4.6 step 7), returning true if it counted as an MC step.
func (c *Consumer) processOne(state *mcstate.State, name string) (countedStep bool) {
	path := filepath.Join(c.reportsDir(), name)
	defer os.Remove(path)

	if _, found := c.dedup.Get(name); found {
		logging.Debug("reportconsumer: %s already processed, dropping re-presented file", name)
		return false
	}
	c.dedup.Set(name, struct{}{}, 1)

	data, err := os.ReadFile(path)
	if err != nil {
		logging.Warn("reportconsumer: read %s: %v", name, err)
		return false
	}

	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		logging.Warn("reportconsumer: malformed JSON in %s: %v", name, err)
		return false
	}

	if r.Status == "error" {
		logging.Warn("reportconsumer: %s reported error: %s", name, r.Error)
		return false
	}

	taskID := r.TaskID
	if taskID == "" {
		taskID = strings.TrimSuffix(name, ".json")
	}
	if math.IsNaN(r.EnergyFinal) || math.IsInf(r.EnergyFinal, 0) {
		logging.Warn("reportconsumer: %s has non-finite energy_final", name)
		return false
	}

	outboxDir := filepath.Join(c.Root, "refine_outbox", taskID)

	if !state.Seeded {
		if err := c.promote(outboxDir); err != nil {
			logging.Warn("reportconsumer: seeding promote for task %s: %v", taskID, err)
			return false
		}
		state.Seeded = true
		state.CurrentEnergy = r.EnergyFinal
		logging.Info("INITIAL_STATE task=%s E=%.12g", taskID, r.EnergyFinal)
		metrics.SetCurrentEnergy(r.EnergyFinal)
		return false
	}

	state.MCSteps++
	u := c.RNG.Float64()
	accepted := mcstate.Accept(state.CurrentEnergy, r.EnergyFinal, c.Temp, u)
	metrics.IncSteps()

	if !accepted {
		logging.Info("REJECT task=%s E_old=%.12g E_new=%.12g", taskID, state.CurrentEnergy, r.EnergyFinal)
		return true
	}

	if err := c.promote(outboxDir); err != nil {
		logging.Warn("reportconsumer: accept promote for task %s: %v (state energy updated, root SAVE/CONTCAR may be stale)", taskID, err)
		state.CurrentEnergy = r.EnergyFinal
		state.AcceptCount++
		metrics.IncAccepts()
		return true
	}

	state.CurrentEnergy = r.EnergyFinal
	state.AcceptCount++
	metrics.IncAccepts()
	metrics.SetCurrentEnergy(r.EnergyFinal)

	rec, err := c.Store.Archive(outboxDir, taskID, r.EnergyFinal)
	if err != nil {
		logging.Warn("reportconsumer: archive for task %s: %v", taskID, err)
		logging.Info("ACCEPT task=%s E=%.12g (archive failed)", taskID, r.EnergyFinal)
		return true
	}
	metrics.SetArchiveCount(rec.Index)
	logging.Info("ACCEPT task=%s E=%.12g archive=%06d", taskID, r.EnergyFinal, rec.Index)

	for _, m := range c.Mirrors {
		if err := m.MirrorArchive(rec); err != nil {
			logging.Warn("reportconsumer: archive mirror failed for %06d: %v", rec.Index, err)
		}
	}

	return true
}

// promote copies outboxDir's SAVE and CONTCAR over the root accepted
// state (spec.md §4.6 steps 5/6), via the Store's write-then-rename
// primitive.
func (c *Consumer) promote(outboxDir string) error {
	if err := c.Store.CopyFile("SAVE", filepath.Join(outboxDir, "SAVE")); err != nil {
		return err
	}
	if err := c.Store.CopyFile("CONTCAR", filepath.Join(outboxDir, "CONTCAR")); err != nil {
		return err
	}
	return nil
}
