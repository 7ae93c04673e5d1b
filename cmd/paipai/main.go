// Command paipai runs the PAIPAI Metropolis Monte Carlo coordinator
// (spec.md §1, §6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siyazhu/PAIPAI/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "paipai",
	Short: "PAIPAI — Metropolis Monte Carlo over MLIP-evaluated lattices",
	Long: `PAIPAI couples Metropolis Monte Carlo sampling over a fixed metallic
and interstitial lattice with externally computed MLIP energies.

It proposes discrete configurational moves (swap/exchange, metallic and
interstitial), dispatches candidate structures to a pool of external
energy-evaluation workers through the filesystem, consumes their reports,
and accepts or rejects each proposal by the Metropolis criterion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(runCmd, inspectCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logging.Error("%v", err)
		os.Exit(2)
	}
}
