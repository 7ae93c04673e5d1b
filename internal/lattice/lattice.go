// Package lattice holds the immutable geometric and species-identity part
// of a PAIPAI structure: the cell, the species inventories, and fixed
// atom/site positions. Per the §9 redesign note this is split out from the
// mutable occupation state so that moves can only ever touch the latter.
package lattice

// Vec3 is a Cartesian or fractional 3-vector.
type Vec3 [3]float64

// Cell is a triclinic lattice described by three real 3-vectors, already
// scaled by the strfile's scale factor. No symmetry is tracked.
type Cell struct {
	A1, A2, A3 Vec3
}

// Inventory pairs an ordered species list (by atomic number) with the
// ordered count of atoms/sites occupying each species, in display order.
type Inventory struct {
	ElementID      []int
	CountPerSpecies []int
}

// NumSpecies returns the species count for this inventory.
func (inv Inventory) NumSpecies() int { return len(inv.ElementID) }

// Total returns the sum of CountPerSpecies.
func (inv Inventory) Total() int {
	total := 0
	for _, c := range inv.CountPerSpecies {
		total += c
	}
	return total
}

// Lattice is the immutable geometric skeleton of a Structure: the cell,
// both species inventories, and the fixed Cartesian positions of every
// metallic atom and every interstitial site. Positions never change after
// parse — only species_index/occupation values (held in
// structure.Occupation) are mutated by moves.
type Lattice struct {
	Cell Cell

	Metallic     Inventory
	Interstitial Inventory

	// MetallicPositions has length Metallic.Total().
	MetallicPositions []Vec3

	// InterstitialPositions has length equal to the strfile's declared
	// num_interstitial (site count), which may exceed
	// Interstitial.Total() — unfilled sites start EMPTY.
	InterstitialPositions []Vec3
}

// NumMetallicAtoms is the fixed atom count (invariant 1 in spec.md §3).
func (l *Lattice) NumMetallicAtoms() int { return len(l.MetallicPositions) }

// NumInterstitialSites is the fixed site count.
func (l *Lattice) NumInterstitialSites() int { return len(l.InterstitialPositions) }
