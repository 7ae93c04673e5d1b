package dispatcher

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyazhu/PAIPAI/internal/lattice"
	"github.com/siyazhu/PAIPAI/internal/rng"
	"github.com/siyazhu/PAIPAI/internal/structure"
)

func newFixtureStructure() *structure.Structure {
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
	return &structure.Structure{
		Lattice: lat,
		Occ: structure.Occupation{
			SpeciesIndex:      []int{0, 0, 1, 1},
			Site:              []int{0, structure.Empty},
			MetallicCount:     []int{2, 2},
			InterstitialCount: []int{1},
		},
	}
}

func TestTickFillsExactlyKSlotsWhenAllFree(t *testing.T) {
	root := t.TempDir()
	d := New(root, 3, Weights{SwapMetal: 70, SwapInterstitial: 30}, rng.New(1))

	err := d.Tick(func() (*structure.Structure, error) { return newFixtureStructure(), nil }, 0)
	require.NoError(t, err)

	for k := 1; k <= 3; k++ {
		assert.FileExists(t, filepath.Join(root, "fast", ".go_"+strconv.Itoa(k)))
		assert.FileExists(t, filepath.Join(root, "fast", "POSCAR"+strconv.Itoa(k)))
		assert.FileExists(t, filepath.Join(root, "fast", "SAVE"+strconv.Itoa(k)))
	}
}

func TestTickSkipsSlotsWithExistingSentinel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "fast"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "fast", ".go_1"), []byte{}, 0o644))

	d := New(root, 2, Weights{SwapMetal: 100}, rng.New(1))
	err := d.Tick(func() (*structure.Structure, error) { return newFixtureStructure(), nil }, 0)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(root, "fast", "POSCAR1"))
	assert.FileExists(t, filepath.Join(root, "fast", "POSCAR2"))
}

func TestTickNoFurtherProposalsUntilSentinelsRemoved(t *testing.T) {
	root := t.TempDir()
	d := New(root, 2, Weights{SwapMetal: 100}, rng.New(1))

	require.NoError(t, d.Tick(func() (*structure.Structure, error) { return newFixtureStructure(), nil }, 0))

	info1, err := os.Stat(filepath.Join(root, "fast", "POSCAR1"))
	require.NoError(t, err)

	require.NoError(t, d.Tick(func() (*structure.Structure, error) { return newFixtureStructure(), nil }, 0))
	info2, err := os.Stat(filepath.Join(root, "fast", "POSCAR1"))
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime(), "slot 1 must not be rewritten while its sentinel exists")

	require.NoError(t, os.Remove(filepath.Join(root, "fast", ".go_1")))
	require.NoError(t, d.Tick(func() (*structure.Structure, error) { return newFixtureStructure(), nil }, 0))
	assert.FileExists(t, filepath.Join(root, "fast", ".go_1"))
}

func TestSelectMoveKindRespectsZeroWeightBuckets(t *testing.T) {
	d := New(t.TempDir(), 1, Weights{SwapMetal: 1}, rng.New(1))
	for i := 0; i < 100; i++ {
		assert.Equal(t, MoveSwapMetal, d.selectMoveKind())
	}
}

func TestPickOperandsSwapMetalOnlyReturnsDifferingSpecies(t *testing.T) {
	d := New(t.TempDir(), 1, Weights{SwapMetal: 1}, rng.New(1))
	s := newFixtureStructure()
	for i := 0; i < 50; i++ {
		operands, ok := d.pickOperands(s, MoveSwapMetal)
		require.True(t, ok)
		assert.NotEqual(t, s.Occ.SpeciesIndex[operands[0]], s.Occ.SpeciesIndex[operands[1]])
	}
}

func TestPickOperandsExchangeMetalRejectsCurrentSpecies(t *testing.T) {
	d := New(t.TempDir(), 1, Weights{ExchangeMetal: 1}, rng.New(3))
	s := newFixtureStructure()
	for i := 0; i < 50; i++ {
		operands, ok := d.pickOperands(s, MoveExchangeMetal)
		require.True(t, ok)
		atom, target := operands[0], operands[1]
		assert.NotEqual(t, s.Occ.SpeciesIndex[atom], target)
	}
}

func TestPickOperandsExchangeInterstitialAllowsEmptyTarget(t *testing.T) {
	d := New(t.TempDir(), 1, Weights{ExchangeInterstitial: 1}, rng.New(5))
	s := newFixtureStructure()
	sawEmpty := false
	for i := 0; i < 200; i++ {
		operands, ok := d.pickOperands(s, MoveExchangeInterstitial)
		require.True(t, ok)
		site, target := operands[0], operands[1]
		assert.NotEqual(t, s.Occ.Site[site], target)
		if target == structure.Empty {
			sawEmpty = true
		}
	}
	assert.True(t, sawEmpty, "rejection sampling should eventually draw Empty as a target over 200 attempts")
}

func TestPickOperandsSwapMetalTooFewAtomsFails(t *testing.T) {
	d := New(t.TempDir(), 1, Weights{SwapMetal: 1}, rng.New(1))
	s := newFixtureStructure()
	s.Occ.SpeciesIndex = []int{0}
	s.Lattice.MetallicPositions = s.Lattice.MetallicPositions[:1]
	_, ok := d.pickOperands(s, MoveSwapMetal)
	assert.False(t, ok)
}
