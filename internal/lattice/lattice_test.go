package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryTotalSumsCounts(t *testing.T) {
	inv := Inventory{ElementID: []int{26, 28}, CountPerSpecies: []int{3, 5}}
	assert.Equal(t, 8, inv.Total())
	assert.Equal(t, 2, inv.NumSpecies())
}

func TestInventoryTotalEmpty(t *testing.T) {
	var inv Inventory
	assert.Equal(t, 0, inv.Total())
	assert.Equal(t, 0, inv.NumSpecies())
}

func TestLatticeAtomAndSiteCounts(t *testing.T) {
	l := &Lattice{
		MetallicPositions:     make([]Vec3, 10),
		InterstitialPositions: make([]Vec3, 4),
	}
	assert.Equal(t, 10, l.NumMetallicAtoms())
	assert.Equal(t, 4, l.NumInterstitialSites())
}
