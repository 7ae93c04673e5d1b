// Package dispatcher implements the fast-slot scheduler (spec.md §4.5):
// it keeps K sentinel-guarded slots fed with candidate structures drawn
// from the current accepted state by weighted-random move proposals.
package dispatcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/siyazhu/PAIPAI/internal/logging"
	"github.com/siyazhu/PAIPAI/internal/rng"
	"github.com/siyazhu/PAIPAI/internal/structure"
)

// MoveKind identifies one of the four move operators a proposal can use.
type MoveKind int

const (
	MoveSwapMetal MoveKind = iota
	MoveSwapInterstitial
	MoveExchangeMetal
	MoveExchangeInterstitial
)

// Weights is the set of non-negative integer weights controlling weighted
// categorical move-kind selection (spec.md §4.5 step 2). The sum must be
// a positive integer.
type Weights struct {
	SwapMetal        int
	SwapInterstitial int
	ExchangeMetal    int
	ExchangeInterstitial int
}

// Sum returns the total of all four weights.
func (w Weights) Sum() int {
	return w.SwapMetal + w.SwapInterstitial + w.ExchangeMetal + w.ExchangeInterstitial
}

// maxRejectionAttempts bounds the rejection-sampling loops in pickOperands
// so a degenerate single-species lattice cannot hang the dispatcher tick;
// spec.md's own Open Questions note that non-zero exchange weights on a
// single-species sublattice can never terminate rejection sampling, which
// argument parsing is expected to reject up front (see cmd/paipai). This
// cap is a defense-in-depth backstop, not the primary guard.
const maxRejectionAttempts = 10000

// Dispatcher maintains K fast-slots under root/fast and keeps them fed
// from root/SAVE.
type Dispatcher struct {
	Root    string
	Slots   int
	Weights Weights
	RNG     *rng.Source
}

// New constructs a Dispatcher. root is the coordinator's working
// directory (containing SAVE, fast/, etc).
func New(root string, slots int, weights Weights, r *rng.Source) *Dispatcher {
	return &Dispatcher{Root: root, Slots: slots, Weights: weights, RNG: r}
}

func (d *Dispatcher) sentinelPath(k int) string {
	return filepath.Join(d.Root, "fast", fmt.Sprintf(".go_%d", k))
}

func (d *Dispatcher) slotExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// candidateMeta is written alongside each slot's inputs, before the
// sentinel, purely for operator-facing traceability (SPEC_FULL.md §4.5
// expansion). Workers that don't understand it simply never read it.
type candidateMeta struct {
	CorrelationID string   `json:"correlation_id"`
	MoveKind      string   `json:"move_kind"`
	Operands      []int    `json:"operands"`
	ParentEnergy  *float64 `json:"parent_energy,omitempty"`
}

// Tick runs one dispatch pass: for every free slot, it reloads SAVE,
// proposes one move, and deposits the candidate (spec.md §4.5). parentE
// is the current accepted energy, stamped into each slot's meta file for
// observability only (see SPEC_FULL.md §4.5/§9 on the staleness
// relaxation this does NOT change).
func (d *Dispatcher) Tick(loadSAVE func() (*structure.Structure, error), parentE float64) error {
	if d.Weights.Sum() <= 0 {
		return fmt.Errorf("dispatcher: weights must sum to a positive integer")
	}
	if err := os.MkdirAll(filepath.Join(d.Root, "fast"), 0o755); err != nil {
		return err
	}

	for k := 1; k <= d.Slots; k++ {
		sentinel := d.sentinelPath(k)
		if d.slotExists(sentinel) {
			continue
		}

		s, err := loadSAVE()
		if err != nil {
			logging.Warn("dispatcher: reload SAVE for slot %d failed: %v", k, err)
			continue
		}

		kind := d.selectMoveKind()
		operands, ok := d.pickOperands(s, kind)
		if !ok {
			logging.Warn("dispatcher: slot %d could not find legal operands for move kind %v after %d attempts", k, kind, maxRejectionAttempts)
			continue
		}
		d.apply(s, kind, operands)

		poscarPath := filepath.Join(d.Root, "fast", fmt.Sprintf("POSCAR%d", k))
		savePath := filepath.Join(d.Root, "fast", fmt.Sprintf("SAVE%d", k))
		if err := os.WriteFile(poscarPath, []byte(structure.EmitPOSCAR(s)), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(savePath, []byte(structure.EmitSAVE(s)), 0o644); err != nil {
			return err
		}

		meta := candidateMeta{
			CorrelationID: uuid.NewString(),
			MoveKind:      moveKindName(kind),
			Operands:      operands,
			ParentEnergy:  &parentE,
		}
		metaBytes, _ := json.Marshal(meta)
		metaPath := filepath.Join(d.Root, "fast", fmt.Sprintf(".meta_%d.json", k))
		if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
			logging.Warn("dispatcher: slot %d meta write failed: %v", k, err)
		}

		if err := os.WriteFile(sentinel, []byte{}, 0o644); err != nil {
			return err
		}
		logging.Debug("dispatcher: slot %d armed with %s%v", k, moveKindName(kind), operands)
	}
	return nil
}

func moveKindName(kind MoveKind) string {
	switch kind {
	case MoveSwapMetal:
		return "swap_metal"
	case MoveSwapInterstitial:
		return "swap_interstitial"
	case MoveExchangeMetal:
		return "exchange_metal"
	case MoveExchangeInterstitial:
		return "exchange_interstitial"
	default:
		return "unknown"
	}
}

// selectMoveKind draws r = uniform_int[0, sum) and buckets by cumulative
// weight (spec.md §4.5 step 2).
func (d *Dispatcher) selectMoveKind() MoveKind {
	sum := d.Weights.Sum()
	r := d.RNG.Intn(sum)
	if r < d.Weights.SwapMetal {
		return MoveSwapMetal
	}
	r -= d.Weights.SwapMetal
	if r < d.Weights.SwapInterstitial {
		return MoveSwapInterstitial
	}
	r -= d.Weights.SwapInterstitial
	if r < d.Weights.ExchangeMetal {
		return MoveExchangeMetal
	}
	return MoveExchangeInterstitial
}

// pickOperands performs rejection sampling so the chosen move's success
// pre-condition holds (spec.md §4.5 step 3, extended per SPEC_FULL.md
// §4.5 to cover the exchange moves).
func (d *Dispatcher) pickOperands(s *structure.Structure, kind MoveKind) ([]int, bool) {
	switch kind {
	case MoveSwapMetal:
		n := s.NumMetallicAtoms()
		if n < 2 {
			return nil, false
		}
		for i := 0; i < maxRejectionAttempts; i++ {
			a, b := d.RNG.Intn(n), d.RNG.Intn(n)
			if s.Occ.SpeciesIndex[a] != s.Occ.SpeciesIndex[b] {
				return []int{a, b}, true
			}
		}
		return nil, false

	case MoveSwapInterstitial:
		n := s.NumInterstitialSites()
		if n < 2 {
			return nil, false
		}
		for i := 0; i < maxRejectionAttempts; i++ {
			a := d.RNG.Intn(n)
			if s.Occ.Site[a] == structure.Empty {
				continue
			}
			b := d.RNG.Intn(n)
			if s.Occ.Site[b] != s.Occ.Site[a] {
				return []int{a, b}, true
			}
		}
		return nil, false

	case MoveExchangeMetal:
		n := s.NumMetallicAtoms()
		numSpecies := s.NumMetallicSpecies()
		if n < 1 || numSpecies < 2 {
			return nil, false
		}
		for i := 0; i < maxRejectionAttempts; i++ {
			a := d.RNG.Intn(n)
			t := d.RNG.Intn(numSpecies)
			if s.Occ.SpeciesIndex[a] != t {
				return []int{a, t}, true
			}
		}
		return nil, false

	case MoveExchangeInterstitial:
		n := s.NumInterstitialSites()
		numSpecies := s.NumInterstitialSpecies()
		if n < 1 || numSpecies < 1 {
			return nil, false
		}
		for i := 0; i < maxRejectionAttempts; i++ {
			a := d.RNG.Intn(n)
			// t ranges over [-1, numSpecies) inclusive of Empty.
			t := d.RNG.Intn(numSpecies+1) - 1
			if s.Occ.Site[a] != t {
				return []int{a, t}, true
			}
		}
		return nil, false
	}
	return nil, false
}

func (d *Dispatcher) apply(s *structure.Structure, kind MoveKind, operands []int) {
	switch kind {
	case MoveSwapMetal:
		s.SwapMetal(operands[0], operands[1])
	case MoveSwapInterstitial:
		s.SwapInterstitial(operands[0], operands[1])
	case MoveExchangeMetal:
		s.ExchangeMetal(operands[0], operands[1])
	case MoveExchangeInterstitial:
		s.ExchangeInterstitial(operands[0], operands[1])
	}
}
