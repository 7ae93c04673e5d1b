package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitPOSCAROmitsEmptySites(t *testing.T) {
	s := newTestStructure()
	out := EmitPOSCAR(s)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Greater(t, len(lines), 0)

	assert.Equal(t, "FeNi+C", lines[0])
	assert.Equal(t, "1.0", lines[1])

	// 4 metallic + 1 occupied interstitial position lines, no empty site line.
	posLines := lines[8:]
	assert.Len(t, posLines, 5)
}

func TestEmitPOSCARTitleLineConcatenatesSymbols(t *testing.T) {
	s := newTestStructure()
	out := EmitPOSCAR(s)
	firstLine := strings.SplitN(out, "\n", 2)[0]
	assert.Equal(t, "FeNi+C", firstLine)
}

func TestEmitSAVEIncludesEmptySitesLast(t *testing.T) {
	s := newTestStructure()
	// Give the empty site (site 1) a distinct position so it can be found.
	s.Lattice.InterstitialPositions[1][0] = 0.75
	out := EmitSAVE(s)
	assert.True(t, strings.Contains(out, "No Shuffle"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// 14 header lines, then metallic(4) + interstitial occupied(1) +
	// interstitial empty(1) = 6 position lines at the tail.
	assert.Len(t, lines, 20)
	assert.Equal(t, formatVec3(s.Lattice.InterstitialPositions[1]), lines[len(lines)-1])
}
