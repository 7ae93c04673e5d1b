package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextFileProducesPrometheusExpositionFormat(t *testing.T) {
	IncSteps()
	IncAccepts()
	SetCurrentEnergy(-12.5)
	SetArchiveCount(3)

	path := filepath.Join(t.TempDir(), "mc.metrics")
	require.NoError(t, WriteTextFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "paipai_mc_steps_total")
	assert.Contains(t, out, "paipai_mc_accepts_total")
	assert.Contains(t, out, "paipai_current_energy -12.5")
	assert.Contains(t, out, "paipai_archive_count 3")
}
