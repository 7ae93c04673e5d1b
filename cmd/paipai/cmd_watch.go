package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/siyazhu/PAIPAI/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard tailing the current driver's status snapshot",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	return tui.Run(filepath.Join(".", "mc_status.json"))
}
