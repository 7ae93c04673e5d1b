// Package metrics exposes the coordinator's Prometheus counters/gauges.
//
// These are never served over a network socket from this package — the
// coordinator's synchronization with workers stays filesystem-only per
// spec.md's Non-goals ("no MPI or network transport"). Instead WriteTextFile,
// called periodically by the driver, renders the registry to a plain text file
// (--metrics-file, default mc.metrics) in the standard Prometheus text
// exposition format, which an operator's own Prometheus/node-exporter
// textfile collector can pick up without PAIPAI itself opening a port.
// The optional status HTTP endpoint (internal/statusserver) is a
// separate, deliberately minimal JSON surface and does not serve these
// Prometheus metrics.
package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	registry = prometheus.NewRegistry()

	stepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "paipai_mc_steps_total",
		Help: "Total MC steps consumed (excludes the initial seeding report).",
	})
	acceptsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "paipai_mc_accepts_total",
		Help: "Total accepted MC proposals.",
	})
	currentEnergy = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "paipai_current_energy",
		Help: "Energy of the last accepted structure.",
	})
	archiveCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "paipai_archive_count",
		Help: "Highest archived mcprocess index.",
	})
)

func init() {
	registry.MustRegister(stepsTotal, acceptsTotal, currentEnergy, archiveCount)
}

// IncSteps increments the MC-step counter.
func IncSteps() { stepsTotal.Inc() }

// IncAccepts increments the accept counter.
func IncAccepts() { acceptsTotal.Inc() }

// SetCurrentEnergy records the current accepted energy.
func SetCurrentEnergy(e float64) { currentEnergy.Set(e) }

// SetArchiveCount records the latest archive index.
func SetArchiveCount(n int) { archiveCount.Set(float64(n)) }

// WriteTextFile renders the registry in Prometheus text exposition format
// to path, overwriting any previous content. Called periodically by the
// driver loop rather than served live.
func WriteTextFile(path string) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
