// Package config layers CLI flags, an optional YAML file, and
// PAIPAI_* environment variables into one Config value (SPEC_FULL.md §2
// "Config" / §6 additional flags).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/siyazhu/PAIPAI/internal/dispatcher"
	"github.com/siyazhu/PAIPAI/pkg/paierrors"
)

// Config is the fully-resolved set of parameters the driver needs
// (spec.md §6).
type Config struct {
	InputPath string

	Workers int
	Steps   int
	Temp    float64
	Weights dispatcher.Weights

	Seed          int64
	LogLevel      string
	MetricsFile   string
	ArchiveDSN    string
	ArchiveS3Bucket string
	ArchiveS3Prefix string
	StatusAddr    string

	// SeedFromFile and LogLevelFromFile record whether ApplyYAMLFile set
	// these two fields explicitly, since their zero/default values
	// ("info", 0) are also legitimate explicit settings and so can't be
	// told apart from "unset" by value alone. ApplyEnv needs this signal,
	// combined with the CLI layer's own Flags().Changed(...), to know
	// whether the environment is still allowed to fill them in.
	SeedFromFile     bool
	LogLevelFromFile bool
}

// fileConfig mirrors the subset of Config a YAML file may override; every
// field is optional, a nil pointer means "not set in the file".
type fileConfig struct {
	Workers         *int     `yaml:"workers"`
	Steps           *int     `yaml:"steps"`
	Temp            *float64 `yaml:"temp"`
	PSwapMetal      *int     `yaml:"p_swap_metal"`
	PSwapInter      *int     `yaml:"p_swap_inter"`
	PExchMetal      *int     `yaml:"p_exch_metal"`
	PExchInter      *int     `yaml:"p_exch_inter"`
	Seed            *int64   `yaml:"seed"`
	LogLevel        *string  `yaml:"log_level"`
	MetricsFile     *string  `yaml:"metrics_file"`
	ArchiveDSN      *string  `yaml:"archive_dsn"`
	ArchiveS3Bucket *string  `yaml:"archive_s3_bucket"`
	ArchiveS3Prefix *string  `yaml:"archive_s3_prefix"`
	StatusAddr      *string  `yaml:"status_addr"`
}

// Defaults returns the spec-mandated default Config (spec.md §6): 4
// workers, 1000 steps, temp 1e-3, weights 70/30/0/0.
func Defaults() Config {
	return Config{
		Workers: 4,
		Steps:   1000,
		Temp:    1e-3,
		Weights: dispatcher.Weights{
			SwapMetal:            70,
			SwapInterstitial:     30,
			ExchangeMetal:        0,
			ExchangeInterstitial: 0,
		},
		LogLevel:    "info",
		MetricsFile: "mc.metrics",
	}
}

// ApplyYAMLFile merges a YAML config file's values into c for every field
// the file sets, leaving c's existing values (from Defaults, prior
// layers) untouched where the file is silent.
func (c *Config) ApplyYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.Steps != nil {
		c.Steps = *fc.Steps
	}
	if fc.Temp != nil {
		c.Temp = *fc.Temp
	}
	if fc.PSwapMetal != nil {
		c.Weights.SwapMetal = *fc.PSwapMetal
	}
	if fc.PSwapInter != nil {
		c.Weights.SwapInterstitial = *fc.PSwapInter
	}
	if fc.PExchMetal != nil {
		c.Weights.ExchangeMetal = *fc.PExchMetal
	}
	if fc.PExchInter != nil {
		c.Weights.ExchangeInterstitial = *fc.PExchInter
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
		c.SeedFromFile = true
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
		c.LogLevelFromFile = true
	}
	if fc.MetricsFile != nil {
		c.MetricsFile = *fc.MetricsFile
	}
	if fc.ArchiveDSN != nil {
		c.ArchiveDSN = *fc.ArchiveDSN
	}
	if fc.ArchiveS3Bucket != nil {
		c.ArchiveS3Bucket = *fc.ArchiveS3Bucket
	}
	if fc.ArchiveS3Prefix != nil {
		c.ArchiveS3Prefix = *fc.ArchiveS3Prefix
	}
	if fc.StatusAddr != nil {
		c.StatusAddr = *fc.StatusAddr
	}
	return nil
}

// ApplyEnv fills fields from PAIPAI_* environment variables, but only
// where a higher-priority layer (an explicit flag or a YAML file entry)
// hasn't already set the value — flags and the YAML file both take
// priority over the environment. seedSet and logLevelSet carry that
// signal in from the caller (e.g. cobra's Flags().Changed(...), combined
// with whether the YAML layer touched the field) rather than guessing
// from the value itself: Seed's zero value and LogLevel's default
// ("info") are both legitimate explicit settings, not just unset
// markers, so they can't be told apart by inspecting the value alone.
func (c *Config) ApplyEnv(seedSet, logLevelSet bool) {
	if !seedSet {
		if v := os.Getenv("PAIPAI_SEED"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.Seed = n
			}
		}
	}
	if !logLevelSet {
		if v := os.Getenv("PAIPAI_LOG_LEVEL"); v != "" {
			c.LogLevel = v
		}
	}
	if c.ArchiveDSN == "" {
		if v := os.Getenv("PAIPAI_ARCHIVE_DSN"); v != "" {
			c.ArchiveDSN = v
		}
	}
}

// Validate checks the invariants spec.md §6 requires: worker/step counts
// at least 1, and the four weights summing to a positive integer. It also
// enforces the Open-Question resolution in SPEC_FULL.md §4.5: a non-zero
// exchange weight on a sublattice with too few distinct outcomes can
// never terminate the dispatcher's rejection sampling.
func (c *Config) Validate(numMetallicSpecies, numInterstitialSpecies int) error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: --workers must be >= 1", paierrors.ErrInvalidConfig)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: --steps must be >= 1", paierrors.ErrInvalidConfig)
	}
	if c.Weights.Sum() <= 0 {
		return fmt.Errorf("%w: move weights must sum to a positive integer", paierrors.ErrInvalidConfig)
	}
	if c.Weights.ExchangeMetal > 0 && numMetallicSpecies < 2 {
		return fmt.Errorf("%w: --p-exch-metal > 0 requires at least 2 metallic species", paierrors.ErrInvalidConfig)
	}
	if c.Weights.ExchangeInterstitial > 0 && numInterstitialSpecies < 1 {
		return fmt.Errorf("%w: --p-exch-inter > 0 requires at least 1 interstitial species", paierrors.ErrInvalidConfig)
	}
	return nil
}
