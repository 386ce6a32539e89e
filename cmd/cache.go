// =============================================================================
// UKE Receipt Viewer - Cache Command
// =============================================================================
//
// This file defines the 'cache' command group for the master table cache.
//
// COMMAND USAGE:
//   ukeview cache dir
//   ukeview cache clear
//
// 'cache clear' removes the persisted cache entries so the next load
// re-reads the master source files. Master file edits are picked up
// automatically through content signatures; clearing is only needed to
// reclaim disk space or recover from a corrupted entry.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recelab/ukeview/internal/config"
)

// cacheCmd is the parent of the cache subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the master table cache",
}

// cacheDirCmd represents 'cache dir'.
var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		fmt.Println(cfg.CacheDir)
		return nil
	},
}

// cacheClearCmd represents 'cache clear'.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted cache entries",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// runCacheClear deletes the cache entry files under the cache directory.
// Only *.json files are touched; the directory itself stays.
func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	entries, err := filepath.Glob(filepath.Join(cfg.CacheDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := os.Remove(entry); err != nil {
			fmt.Printf("warning: %s: %v\n", entry, err)
			continue
		}
		removed++
	}

	fmt.Printf("✓ Removed %d cache entr%s from %s\n", removed, pluralY(removed), cfg.CacheDir)
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
