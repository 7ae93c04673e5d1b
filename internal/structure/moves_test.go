package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siyazhu/PAIPAI/internal/lattice"
)

func newTestStructure() *Structure {
	lat := &lattice.Lattice{
		Metallic: lattice.Inventory{
			ElementID:       []int{26, 28},
			CountPerSpecies: []int{2, 2},
		},
		Interstitial: lattice.Inventory{
			ElementID:       []int{6},
			CountPerSpecies: []int{1},
		},
		MetallicPositions:     make([]lattice.Vec3, 4),
		InterstitialPositions: make([]lattice.Vec3, 2),
	}
	return &Structure{
		Lattice: lat,
		Occ: Occupation{
			SpeciesIndex:      []int{0, 0, 1, 1},
			Site:              []int{0, Empty},
			MetallicCount:     []int{2, 2},
			InterstitialCount: []int{1},
		},
	}
}

func TestSwapMetalSameSpeciesIsNoop(t *testing.T) {
	s := newTestStructure()
	status := s.SwapMetal(0, 1)
	assert.Equal(t, StatusNoop, status)
	assert.Equal(t, []int{0, 0, 1, 1}, s.Occ.SpeciesIndex)
}

func TestSwapMetalDifferingSpeciesSucceeds(t *testing.T) {
	s := newTestStructure()
	status := s.SwapMetal(0, 2)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, []int{1, 0, 0, 1}, s.Occ.SpeciesIndex)
	assert.True(t, s.CheckInvariants())
}

func TestSwapMetalOutOfRange(t *testing.T) {
	s := newTestStructure()
	assert.Equal(t, StatusOutOfRange, s.SwapMetal(-1, 0))
	assert.Equal(t, StatusOutOfRange, s.SwapMetal(0, 4))
}

func TestExchangeMetalAdjustsCountsByOne(t *testing.T) {
	s := newTestStructure()
	status := s.ExchangeMetal(0, 1)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, 1, s.Occ.SpeciesIndex[0])
	assert.Equal(t, []int{1, 3}, s.Occ.MetallicCount)
	assert.True(t, s.CheckInvariants())
}

func TestExchangeMetalNoop(t *testing.T) {
	s := newTestStructure()
	status := s.ExchangeMetal(0, 0)
	assert.Equal(t, StatusNoop, status)
	assert.Equal(t, []int{2, 2}, s.Occ.MetallicCount)
}

func TestExchangeMetalInvalidSpecies(t *testing.T) {
	s := newTestStructure()
	assert.Equal(t, StatusInvalidType, s.ExchangeMetal(0, 2))
	assert.Equal(t, StatusInvalidType, s.ExchangeMetal(0, -1))
}

func TestExchangeMetalOutOfRange(t *testing.T) {
	s := newTestStructure()
	assert.Equal(t, StatusOutOfRange, s.ExchangeMetal(4, 0))
}

func TestSwapInterstitialEmptyVsOccupied(t *testing.T) {
	s := newTestStructure()
	status := s.SwapInterstitial(0, 1)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, []int{Empty, 0}, s.Occ.Site)
	assert.True(t, s.CheckInvariants())
}

func TestSwapInterstitialSameOccupationIsNoop(t *testing.T) {
	s := newTestStructure()
	s.Occ.Site = []int{Empty, Empty}
	s.Occ.InterstitialCount = []int{0}
	status := s.SwapInterstitial(0, 1)
	assert.Equal(t, StatusNoop, status)
}

func TestExchangeInterstitialToEmptyDecrementsCount(t *testing.T) {
	s := newTestStructure()
	status := s.ExchangeInterstitial(0, Empty)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, Empty, s.Occ.Site[0])
	assert.Equal(t, []int{0}, s.Occ.InterstitialCount)
	assert.True(t, s.CheckInvariants())
}

func TestExchangeInterstitialFromEmptyIncrementsCount(t *testing.T) {
	s := newTestStructure()
	status := s.ExchangeInterstitial(1, 0)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, 0, s.Occ.Site[1])
	assert.Equal(t, []int{2}, s.Occ.InterstitialCount)
	assert.True(t, s.CheckInvariants())
}

// TestExchangeInterstitialNoopComparesAgainstOwnSite is the corrected
// exchange_interstitial idempotence behavior (DESIGN.md Open Question 1):
// a no-op compares t against site a's own current occupation, not any
// other site's.
func TestExchangeInterstitialNoopComparesAgainstOwnSite(t *testing.T) {
	s := newTestStructure()
	status := s.ExchangeInterstitial(0, 0)
	assert.Equal(t, StatusNoop, status)
	assert.Equal(t, []int{1}, s.Occ.InterstitialCount)

	status = s.ExchangeInterstitial(1, Empty)
	assert.Equal(t, StatusNoop, status)
}

func TestExchangeInterstitialInvalidSpecies(t *testing.T) {
	s := newTestStructure()
	assert.Equal(t, StatusInvalidType, s.ExchangeInterstitial(0, 1))
	assert.Equal(t, StatusInvalidType, s.ExchangeInterstitial(0, -2))
}

func TestExchangeInterstitialOutOfRange(t *testing.T) {
	s := newTestStructure()
	assert.Equal(t, StatusOutOfRange, s.ExchangeInterstitial(2, 0))
}
