// Package structure implements the in-memory crystallographic state and
// the four discrete MC move operators described in spec.md §3/§4.
package structure

import "github.com/siyazhu/PAIPAI/internal/lattice"

// Empty is the sentinel occupation value for an unoccupied interstitial
// site (spec.md §3, "Interstitial sites").
const Empty = -1

// Status codes returned by the four move operators (spec.md §4.3).
const (
	StatusNoop        = 0
	StatusSuccess     = 1
	StatusOutOfRange  = 2
	StatusInvalidType = 3
)

// Occupation is the mutable overlay a Structure carries on top of its
// immutable Lattice: per-atom species assignment, per-site occupation,
// and the live species counts that exchange moves mutate. Positions and
// the cell never appear here — only identity-preserving state changes do.
type Occupation struct {
	SpeciesIndex []int // len == Lattice.NumMetallicAtoms()
	Site         []int // len == Lattice.NumInterstitialSites(); Empty or species index

	MetallicCount     []int // live, mutated by exchange_metal
	InterstitialCount []int // live, mutated by exchange_interstitial
}

// Structure pairs an immutable Lattice with its mutable Occupation. It is
// the type §3/§4 of spec.md calls "Structure": parse populates both parts
// wholesale, moves touch only the Occupation, and emit takes a pure
// snapshot of both.
type Structure struct {
	Lattice *lattice.Lattice
	Occ     Occupation
}

// NumMetallicAtoms is invariant 1's left-hand side.
func (s *Structure) NumMetallicAtoms() int { return s.Lattice.NumMetallicAtoms() }

// NumInterstitialSites is the fixed site count.
func (s *Structure) NumInterstitialSites() int { return s.Lattice.NumInterstitialSites() }

// NumMetallicSpecies is the metallic species count.
func (s *Structure) NumMetallicSpecies() int { return s.Lattice.Metallic.NumSpecies() }

// NumInterstitialSpecies is the interstitial species count.
func (s *Structure) NumInterstitialSpecies() int { return s.Lattice.Interstitial.NumSpecies() }

// CheckInvariants re-derives counts from the overlay and compares them
// against the live count vectors. Used by tests (spec.md §8 "Invariant
// preservation") and safe to call after any sequence of status-1 moves.
func (s *Structure) CheckInvariants() bool {
	metallicDerived := make([]int, s.NumMetallicSpecies())
	for _, sp := range s.Occ.SpeciesIndex {
		if sp < 0 || sp >= len(metallicDerived) {
			return false
		}
		metallicDerived[sp]++
	}
	for i, c := range metallicDerived {
		if c != s.Occ.MetallicCount[i] {
			return false
		}
	}
	if len(s.Occ.SpeciesIndex) != s.NumMetallicAtoms() {
		return false
	}

	interDerived := make([]int, s.NumInterstitialSpecies())
	for _, occ := range s.Occ.Site {
		if occ == Empty {
			continue
		}
		if occ < 0 || occ >= len(interDerived) {
			return false
		}
		interDerived[occ]++
	}
	for i, c := range interDerived {
		if c != s.Occ.InterstitialCount[i] {
			return false
		}
	}
	return true
}
