package mcstate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSeededUniform(t *testing.T, seed int64) func() float64 {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	return r.Float64
}

func TestAcceptAlwaysAcceptsLowerEnergy(t *testing.T) {
	assert.True(t, Accept(10, 5, 1.0, 0.999999))
	assert.True(t, Accept(10, 10, 1.0, 0.999999))
}

func TestAcceptRejectsHigherEnergyWhenDrawTooLarge(t *testing.T) {
	p := math.Exp(-(11 - 10) / 1.0)
	assert.False(t, Accept(10, 11, 1.0, p+1e-9))
	assert.True(t, Accept(10, 11, 1.0, p-1e-9))
}

func TestAcceptEmpiricalRateMatchesBoltzmannFactor(t *testing.T) {
	eOld, eNew, temp := 0.0, 1.0, 2.0
	want := math.Exp(-(eNew - eOld) / temp)

	r := newSeededUniform(t, 1)
	const n = 200000
	accepted := 0
	for i := 0; i < n; i++ {
		if Accept(eOld, eNew, temp, r()) {
			accepted++
		}
	}
	got := float64(accepted) / float64(n)
	assert.InDelta(t, want, got, 0.01)
}
