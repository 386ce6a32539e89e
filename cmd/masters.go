// =============================================================================
// UKE Receipt Viewer - Masters Command
// =============================================================================
//
// This file defines the 'masters' command group, which registers master
// source files per category and shows the registry.
//
// COMMAND USAGE:
//   ukeview masters load <category> <file> [more...]
//   ukeview masters paths
//
// Registered paths are remembered in the master-path registry file and
// used by every subsequent 'parse' run. Loading goes through the shared
// two-tier cache, so the first 'parse' after a load is already warm.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recelab/ukeview/internal/config"
	"github.com/recelab/ukeview/internal/masterdata"
)

// mastersCmd is the parent of the master registry subcommands.
var mastersCmd = &cobra.Command{
	Use:   "masters",
	Short: "Manage master table registrations",
	Long: `Register master source files per category and inspect the registry.

Known categories: ` + categoryList() + `

Master files may be CSV, tab delimited text or Excel (.xlsx). Character
encoding is detected automatically.`,
}

// mastersLoadCmd represents 'masters load'.
var mastersLoadCmd = &cobra.Command{
	Use:   "load <category> <file> [more...]",
	Short: "Load master files and register their paths",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMastersLoad,
}

// mastersPathsCmd represents 'masters paths'.
var mastersPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the registered master file paths",
	Args:  cobra.NoArgs,
	RunE:  runMastersPaths,
}

func init() {
	rootCmd.AddCommand(mastersCmd)
	mastersCmd.AddCommand(mastersLoadCmd)
	mastersCmd.AddCommand(mastersPathsCmd)
}

// runMastersLoad loads the given files for one category and, on success,
// saves the paths into the registry.
func runMastersLoad(cmd *cobra.Command, args []string) error {
	category := args[0]
	files := args[1:]

	if !masterdata.IsKnownCategory(category) {
		return fmt.Errorf("unknown category: %s (valid: %s)", category, categoryList())
	}

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cache := masterdata.NewCache(cfg.CacheDir)

	var entries int
	if category == string(masterdata.CategoryModifier) {
		nameByCode, _, err := masterdata.LoadModifierMaster(cache, files)
		if err != nil {
			return fmt.Errorf("failed to load modifier master: %w", err)
		}
		entries = len(nameByCode)
	} else {
		table, err := masterdata.LoadCategory(cache, masterdata.Category(category), files)
		if err != nil {
			return fmt.Errorf("failed to load %s master: %w", category, err)
		}
		entries = len(table)
	}

	registry, err := config.LoadMasterPaths(cfg.MasterPathsFile)
	if err != nil {
		return fmt.Errorf("failed to load master paths: %w", err)
	}
	registry.Set(category, files)
	if err := registry.Save(cfg.MasterPathsFile); err != nil {
		return fmt.Errorf("failed to save master paths: %w", err)
	}

	fmt.Printf("✓ Loaded %s master: %d entries from %d file(s)\n", category, entries, len(files))
	fmt.Printf("  Registry: %s\n", cfg.MasterPathsFile)
	return nil
}

// runMastersPaths prints the registry contents in category order.
func runMastersPaths(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	registry, err := config.LoadMasterPaths(cfg.MasterPathsFile)
	if err != nil {
		return fmt.Errorf("failed to load master paths: %w", err)
	}

	fmt.Printf("Master path registry: %s\n", cfg.MasterPathsFile)
	empty := true
	for _, category := range masterdata.Categories {
		paths := registry.Get(string(category))
		if len(paths) == 0 {
			continue
		}
		empty = false
		fmt.Printf("  %s:\n", category)
		for _, p := range paths {
			fmt.Printf("    %s\n", p)
		}
	}
	if empty {
		fmt.Println("  (no masters registered)")
	}
	return nil
}

// categoryList joins the known category names for help and error text.
func categoryList() string {
	names := make([]string, len(masterdata.Categories))
	for i, c := range masterdata.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
