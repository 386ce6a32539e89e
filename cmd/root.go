// =============================================================================
// UKE Receipt Viewer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ukeview)
//   ├── parseCmd   (ukeview parse <file.uke>)
//   ├── mastersCmd (ukeview masters load|paths)
//   ├── cacheCmd   (ukeview cache clear|dir)
//   └── versionCmd (ukeview version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "ukeview",

	Short: "UKE Receipt Viewer - Parse and inspect medical billing interchange files",

	Long: `UKE Receipt Viewer is a CLI tool for parsing UKE interchange files
(レセ電コード情報ファイル) produced by Japanese medical billing systems,
and resolving the coded content against the distributed master tables.

Key Features:
  - Permissive line-oriented UKE parsing with receipt aggregation
  - Heuristic header recovery (patient id, names, treatment month, ...)
  - Master table loading (CSV / TSV / Excel, legacy encodings) with a
    two-tier cache
  - Per-insurer points aggregation and receipt type classification
  - Header and keyword search across a parsed file

Example Usage:
  ukeview parse RECEIPTC.UKE                 # Parse and summarize a file
  ukeview masters load disease byomei.csv    # Register a master file
  ukeview cache clear                        # Drop the on-disk master cache`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
