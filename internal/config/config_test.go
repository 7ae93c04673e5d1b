package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchSpec(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 4, d.Workers)
	assert.Equal(t, 1000, d.Steps)
	assert.Equal(t, 1e-3, d.Temp)
	assert.Equal(t, 70, d.Weights.SwapMetal)
	assert.Equal(t, 30, d.Weights.SwapInterstitial)
	assert.Equal(t, 0, d.Weights.ExchangeMetal)
	assert.Equal(t, 0, d.Weights.ExchangeInterstitial)
}

func TestApplyYAMLFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 8\nsteps: 500\ntemp: 0.01\n"), 0o644))

	c := Defaults()
	require.NoError(t, c.ApplyYAMLFile(path))

	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, 500, c.Steps)
	assert.Equal(t, 0.01, c.Temp)
	// Fields not set in the file are untouched.
	assert.Equal(t, 70, c.Weights.SwapMetal)
}

func TestFlagLayerOverridesFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 8\n"), 0o644))

	c := Defaults()
	require.NoError(t, c.ApplyYAMLFile(path))
	// Simulate the CLI layer applying an explicit --workers flag after the
	// file layer, per cmd/paipai's layering order.
	c.Workers = 16

	assert.Equal(t, 16, c.Workers)
}

func TestApplyEnvOnlyFillsUnsetValues(t *testing.T) {
	t.Setenv("PAIPAI_SEED", "777")
	t.Setenv("PAIPAI_LOG_LEVEL", "debug")

	c := Defaults()
	c.ApplyEnv(false, false)
	assert.Equal(t, int64(777), c.Seed)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestApplyEnvDoesNotOverrideExplicitSeed(t *testing.T) {
	t.Setenv("PAIPAI_SEED", "777")

	c := Defaults()
	c.Seed = 42
	c.ApplyEnv(true, false)
	assert.Equal(t, int64(42), c.Seed, "a seed explicitly set by a flag or config file must take priority over the env var")
}

func TestApplyEnvDoesNotOverrideExplicitLogLevelEvenAtDefaultValue(t *testing.T) {
	t.Setenv("PAIPAI_LOG_LEVEL", "debug")

	c := Defaults()
	c.LogLevel = "info"
	c.ApplyEnv(false, true)
	assert.Equal(t, "info", c.LogLevel, "an explicit --log-level info must not be overridden by the env var even though it matches the default")
}

func TestApplyYAMLFileSettingSeedMarksSeedFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 99\n"), 0o644))

	c := Defaults()
	require.NoError(t, c.ApplyYAMLFile(path))
	assert.True(t, c.SeedFromFile)
	assert.Equal(t, int64(99), c.Seed)
}

func TestValidateRejectsNonPositiveWorkersOrSteps(t *testing.T) {
	c := Defaults()
	c.Workers = 0
	assert.Error(t, c.Validate(2, 1))

	c = Defaults()
	c.Steps = 0
	assert.Error(t, c.Validate(2, 1))
}

func TestValidateRejectsZeroWeightSum(t *testing.T) {
	c := Defaults()
	c.Weights.SwapMetal = 0
	c.Weights.SwapInterstitial = 0
	assert.Error(t, c.Validate(2, 1))
}

func TestValidateRejectsExchangeMetalWeightOnSingleSpeciesLattice(t *testing.T) {
	c := Defaults()
	c.Weights.ExchangeMetal = 1
	assert.Error(t, c.Validate(1, 1))
	assert.NoError(t, c.Validate(2, 1))
}

func TestValidateRejectsExchangeInterstitialWeightWithNoInterstitialSpecies(t *testing.T) {
	c := Defaults()
	c.Weights.ExchangeInterstitial = 1
	assert.Error(t, c.Validate(2, 0))
	assert.NoError(t, c.Validate(2, 1))
}
