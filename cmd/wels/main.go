package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wels",
		Short: "UTAPWeLS - layered earth modeling and log simulation",
		Long: `wels builds layered earth models for synthetic wells, runs
petrophysical calculators and logging-tool simulators against them, and
exports the resulting logs for analysis.

Wells persist in a .wels/ project directory; run 'wels init' to create one.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newWellCmd(),
		newModelCmd(),
		newCalcCmd(),
		newSimCmd(),
		newNoiseCmd(),
		newCompositeCmd(),
		newLogsCmd(),
		newExportCmd(),
		newPlotCmd(),
		newRunCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
