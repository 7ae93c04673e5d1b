// Package driver implements the MC driver loop (spec.md §2, §5): it
// alternates dispatch and report consumption until the step budget is
// exhausted, single-threaded and tick-driven.
package driver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/siyazhu/PAIPAI/internal/config"
	"github.com/siyazhu/PAIPAI/internal/dispatcher"
	"github.com/siyazhu/PAIPAI/internal/logging"
	"github.com/siyazhu/PAIPAI/internal/mcstate"
	"github.com/siyazhu/PAIPAI/internal/metrics"
	"github.com/siyazhu/PAIPAI/internal/reportconsumer"
	"github.com/siyazhu/PAIPAI/internal/rng"
	"github.com/siyazhu/PAIPAI/internal/structure"
)

// idleSleep is the delay between ticks when a tick processed no reports,
// to avoid a busy loop (spec.md §5).
const idleSleep = 100 * time.Millisecond

// Driver owns the single coordinator thread: the shared RNG, the global
// State, the Store, the Dispatcher, and the Consumer.
type Driver struct {
	Root   string
	Cfg    config.Config
	RNG    *rng.Source
	Store  *mcstate.Store
	State  *mcstate.State
	Dispatcher *dispatcher.Dispatcher
	Consumer   *reportconsumer.Consumer

	statusPath string
}

// New wires up a Driver from a resolved Config rooted at root.
func New(root string, cfg config.Config) (*Driver, error) {
	r := rng.New(cfg.Seed)
	store := mcstate.NewStore(root)
	consumer, err := reportconsumer.New(root, store, r, cfg.Temp)
	if err != nil {
		return nil, err
	}
	disp := dispatcher.New(root, cfg.Workers, cfg.Weights, r)

	return &Driver{
		Root:       root,
		Cfg:        cfg,
		RNG:        r,
		Store:      store,
		State:      &mcstate.State{},
		Dispatcher: disp,
		Consumer:   consumer,
		statusPath: filepath.Join(root, "mc_status.json"),
	}, nil
}

// loadScratch reloads the current accepted state from SAVE (spec.md
// §4.5 step 1).
func (d *Driver) loadScratch() (*structure.Structure, error) {
	return structure.Parse(filepath.Join(d.Root, "SAVE"), d.RNG)
}

// LoadAccepted is the exported form of loadScratch, used by the CLI to
// validate dispatcher weights against the bootstrapped structure's
// species counts (SPEC_FULL.md §4.5 Open Question resolution).
func (d *Driver) LoadAccepted() (*structure.Structure, error) {
	return d.loadScratch()
}

// Bootstrap parses the user-supplied input strfile and seeds root/SAVE
// and root/CONTCAR with it, so the dispatcher has something to propose
// from before the first worker report arrives. current_E itself is only
// established once the first valid report seeds the chain (spec.md §4.6
// step 5) — this only establishes the structural starting point.
func (d *Driver) Bootstrap(inputPath string) error {
	s, err := structure.Parse(inputPath, d.RNG)
	if err != nil {
		return err
	}
	if err := d.Store.WriteFile("SAVE", []byte(structure.EmitSAVE(s))); err != nil {
		return err
	}
	return d.Store.WriteFile("CONTCAR", []byte(structure.EmitPOSCAR(s)))
}

// watchReports opens a best-effort fsnotify watch on reports/ (and the
// fast/ directory) so ticks can fire promptly on a write event rather
// than only on the idle timer (SPEC_FULL.md §5 expansion). A failure to
// create the watcher (e.g. an exotic filesystem) is not fatal — the
// ticker-driven loop still provides the liveness spec.md §5/§8 requires.
func (d *Driver) watchReports() *fsnotify.Watcher {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("driver: fsnotify unavailable, falling back to pure polling: %v", err)
		return nil
	}
	for _, dir := range []string{filepath.Join(d.Root, "reports"), filepath.Join(d.Root, "fast")} {
		os.MkdirAll(dir, 0o755)
		if err := w.Add(dir); err != nil {
			logging.Debug("driver: could not watch %s: %v", dir, err)
		}
	}
	return w
}

// Run executes the driver loop until State.MCSteps reaches cfg.Steps
// (spec.md §2, §5). Its human-readable lines go through the package
// logger, whose output the CLI points at mc.log.
func (d *Driver) Run() error {
	watcher := d.watchReports()
	if watcher != nil {
		defer watcher.Close()
	}

	ticker := time.NewTicker(idleSleep)
	defer ticker.Stop()

	metricsTick := 0
	for d.State.MCSteps < d.Cfg.Steps {
		if err := d.Dispatcher.Tick(d.loadScratch, d.State.CurrentEnergy); err != nil {
			logging.Warn("driver: dispatch tick failed: %v", err)
		}

		processed, err := d.Consumer.Tick(d.State)
		if err != nil {
			logging.Warn("driver: report consumption failed: %v", err)
		}

		d.writeStatus()

		metricsTick++
		if metricsTick%10 == 0 {
			if err := writeMetricsFile(d.Cfg.MetricsFile); err != nil {
				logging.Debug("driver: metrics snapshot failed: %v", err)
			}
		}

		if processed == 0 {
			d.waitForWork(watcher, ticker)
		}
	}

	return writeMetricsFile(d.Cfg.MetricsFile)
}

// waitForWork blocks until either the idle ticker fires or an fsnotify
// event arrives, whichever is first (spec.md §5's 100ms idle sleep, with
// the fsnotify fast-path layered on top per SPEC_FULL.md §5).
func (d *Driver) waitForWork(watcher *fsnotify.Watcher, ticker *time.Ticker) {
	if watcher == nil {
		<-ticker.C
		return
	}
	select {
	case <-ticker.C:
	case <-watcher.Events:
	case <-watcher.Errors:
	}
}

type statusSnapshot struct {
	MCSteps       int     `json:"mc_steps"`
	AcceptCount   int     `json:"accept_count"`
	CurrentEnergy float64 `json:"current_energy"`
	Seeded        bool    `json:"seeded"`
	Steps         int     `json:"steps_budget"`
}

// writeStatus emits the small JSON snapshot the optional status endpoint
// and `paipai watch` TUI consume (SPEC_FULL.md §2 "Status snapshot").
func (d *Driver) writeStatus() {
	snap := statusSnapshot{
		MCSteps:       d.State.MCSteps,
		AcceptCount:   d.State.AcceptCount,
		CurrentEnergy: d.State.CurrentEnergy,
		Seeded:        d.State.Seeded,
		Steps:         d.Cfg.Steps,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = os.WriteFile(d.statusPath, data, 0o644)
}

func writeMetricsFile(path string) error {
	if path == "" {
		return nil
	}
	return metrics.WriteTextFile(path)
}
