// =============================================================================
// UKE Receipt Viewer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the UKE receipt viewer CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   ukeview parse <file>    - Parse a UKE interchange file and print receipts
//   ukeview masters ...     - Load and manage master (code-to-name) tables
//   ukeview cache ...       - Inspect or clear the master-table disk cache
//   ukeview version         - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/recelab/ukeview/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
