package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/siyazhu/PAIPAI/internal/archivemirror"
	"github.com/siyazhu/PAIPAI/internal/config"
	"github.com/siyazhu/PAIPAI/internal/driver"
	"github.com/siyazhu/PAIPAI/internal/logging"
	"github.com/siyazhu/PAIPAI/internal/statusserver"
)

var (
	flagConfigFile string

	flagWorkers int
	flagSteps   int
	flagTemp    float64

	flagPSwapMetal int
	flagPSwapInter int
	flagPExchMetal int
	flagPExchInter int

	flagSeed        int64
	flagLogLevel    string
	flagMetricsFile string
	flagArchiveDSN  string
	flagArchiveS3Bucket string
	flagArchiveS3Prefix string
	flagStatusAddr  string
)

var runCmd = &cobra.Command{
	Use:   "run <strfile>",
	Short: "Run the MC driver loop against an input structure file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	defaults := config.Defaults()

	runCmd.Flags().StringVar(&flagConfigFile, "config", "", "optional YAML config file")
	runCmd.Flags().IntVar(&flagWorkers, "workers", defaults.Workers, "fast worker slot count (K)")
	runCmd.Flags().IntVar(&flagSteps, "steps", defaults.Steps, "MC step budget")
	runCmd.Flags().Float64Var(&flagTemp, "temp", defaults.Temp, "Metropolis temperature")
	runCmd.Flags().IntVar(&flagPSwapMetal, "p-swap-metal", defaults.Weights.SwapMetal, "swap_metal move weight")
	runCmd.Flags().IntVar(&flagPSwapInter, "p-swap-inter", defaults.Weights.SwapInterstitial, "swap_interstitial move weight")
	runCmd.Flags().IntVar(&flagPExchMetal, "p-exch-metal", defaults.Weights.ExchangeMetal, "exchange_metal move weight")
	runCmd.Flags().IntVar(&flagPExchInter, "p-exch-inter", defaults.Weights.ExchangeInterstitial, "exchange_interstitial move weight")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (default: PAIPAI_SEED env, else 0)")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", defaults.LogLevel, "debug|info|warn|error")
	runCmd.Flags().StringVar(&flagMetricsFile, "metrics-file", defaults.MetricsFile, "path to periodically write Prometheus text metrics")
	runCmd.Flags().StringVar(&flagArchiveDSN, "archive-dsn", "", "optional Postgres DSN to mirror accepted-state archive metadata")
	runCmd.Flags().StringVar(&flagArchiveS3Bucket, "archive-s3-bucket", "", "optional S3 bucket to mirror archived state directories")
	runCmd.Flags().StringVar(&flagArchiveS3Prefix, "archive-s3-prefix", "paipai", "S3 key prefix for archive mirroring")
	runCmd.Flags().StringVar(&flagStatusAddr, "status-addr", "", "optional localhost address for the read-only status endpoint")
}

// resolveConfig layers Defaults < --config file < explicit flags; the
// PAIPAI_* environment then fills only the values that neither the file
// nor an explicit flag set (SPEC_FULL §8). It reads the cmd-local flag* globals rather than
// taking them as parameters so it can be called from runRun unchanged;
// tests set those globals directly and pass a FlagSet with the relevant
// flags marked Changed.
func resolveConfig(flags *pflag.FlagSet, inputPath string) (config.Config, error) {
	cfg := config.Defaults()

	if flagConfigFile != "" {
		if err := cfg.ApplyYAMLFile(flagConfigFile); err != nil {
			return config.Config{}, err
		}
	}

	// Only an explicitly-passed flag overrides the file layer above — a
	// flag left at its default must not clobber a value --config set,
	// per SPEC_FULL §8's "file < explicit flag" precedence.
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("steps") {
		cfg.Steps = flagSteps
	}
	if flags.Changed("temp") {
		cfg.Temp = flagTemp
	}
	if flags.Changed("p-swap-metal") {
		cfg.Weights.SwapMetal = flagPSwapMetal
	}
	if flags.Changed("p-swap-inter") {
		cfg.Weights.SwapInterstitial = flagPSwapInter
	}
	if flags.Changed("p-exch-metal") {
		cfg.Weights.ExchangeMetal = flagPExchMetal
	}
	if flags.Changed("p-exch-inter") {
		cfg.Weights.ExchangeInterstitial = flagPExchInter
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = flagMetricsFile
	}
	if flags.Changed("archive-dsn") {
		cfg.ArchiveDSN = flagArchiveDSN
	}
	if flags.Changed("archive-s3-bucket") {
		cfg.ArchiveS3Bucket = flagArchiveS3Bucket
	}
	if flags.Changed("archive-s3-prefix") {
		cfg.ArchiveS3Prefix = flagArchiveS3Prefix
	}
	if flags.Changed("status-addr") {
		cfg.StatusAddr = flagStatusAddr
	}
	cfg.InputPath = inputPath

	cfg.ApplyEnv(flags.Changed("seed") || cfg.SeedFromFile, flags.Changed("log-level") || cfg.LogLevelFromFile)

	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	cfg, err := resolveConfig(cmd.Flags(), inputPath)
	if err != nil {
		return err
	}

	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Join(root, "mc.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening mc.log: %w", err)
	}
	defer logFile.Close()
	logging.SetOutput(io.MultiWriter(os.Stderr, logFile))

	d, err := driver.New(root, cfg)
	if err != nil {
		return err
	}

	if err := d.Bootstrap(inputPath); err != nil {
		return fmt.Errorf("loading input structure: %w", err)
	}

	bootstrapped, err := d.LoadAccepted()
	if err != nil {
		return err
	}
	if err := cfg.Validate(bootstrapped.NumMetallicSpecies(), bootstrapped.NumInterstitialSpecies()); err != nil {
		return err
	}

	if err := attachMirrors(d, cfg); err != nil {
		logging.Warn("run: archive mirrors not fully available: %v", err)
	}

	if cfg.StatusAddr != "" {
		srv := statusserver.New(filepath.Join(root, "mc_status.json"))
		go func() {
			if err := srv.ListenAndServe(cfg.StatusAddr); err != nil {
				logging.Warn("run: status endpoint stopped: %v", err)
			}
		}()
	}

	logging.Info("run: starting driver workers=%d steps=%d temp=%g", cfg.Workers, cfg.Steps, cfg.Temp)
	return d.Run()
}

func attachMirrors(d *driver.Driver, cfg config.Config) error {
	var firstErr error
	if cfg.ArchiveDSN != "" {
		m, err := archivemirror.NewPostgresMirror(cfg.ArchiveDSN)
		if err != nil {
			firstErr = err
		} else {
			d.Consumer.Mirrors = append(d.Consumer.Mirrors, m)
		}
	}
	if cfg.ArchiveS3Bucket != "" {
		m, err := archivemirror.NewS3Mirror(context.Background(), cfg.ArchiveS3Bucket, cfg.ArchiveS3Prefix)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			d.Consumer.Mirrors = append(d.Consumer.Mirrors, m)
		}
	}
	return firstErr
}
