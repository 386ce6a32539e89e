// =============================================================================
// UKE Receipt Viewer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing configuration:
//
//   1. Main Config (config.yaml): Global application settings
//   2. Master Paths (master_paths.json): Per-category master file lists,
//      kept in JSON for compatibility with existing installations
//
// Environment variables prefixed UKEVIEW_ override the YAML file; a .env
// file next to the working directory is honored when present.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// CacheDir is the directory holding parsed master table caches.
	// Default: "./cache"
	CacheDir string `yaml:"cache_dir"`

	// ReportDir is the directory where parse reports are written.
	// Default: "./reports"
	ReportDir string `yaml:"report_dir"`

	// MasterPathsFile is the JSON file listing master files per category.
	// Default: "./master_paths.json"
	MasterPathsFile string `yaml:"master_paths_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ReportNameFormat defines the format for report file names.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {original}  - Original input file name (without extension)
	// Default: "{original}_{timestamp}.txt"
	ReportNameFormat string `yaml:"report_name_format"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// A missing file is not an error: the defaults describe a usable setup.
// Environment overrides are applied after the file, so UKEVIEW_* variables
// win over YAML values.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(&config)
	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides overlays UKEVIEW_* environment variables onto the
// configuration. A .env file is loaded first if one exists; variables
// already set in the real environment keep precedence (godotenv does not
// overwrite).
func applyEnvOverrides(config *MainConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("UKEVIEW_CACHE_DIR"); v != "" {
		config.CacheDir = v
	}
	if v := os.Getenv("UKEVIEW_REPORT_DIR"); v != "" {
		config.ReportDir = v
	}
	if v := os.Getenv("UKEVIEW_MASTER_PATHS_FILE"); v != "" {
		config.MasterPathsFile = v
	}
	if v := os.Getenv("UKEVIEW_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.CacheDir == "" {
		config.CacheDir = "./cache"
	}
	if config.ReportDir == "" {
		config.ReportDir = "./reports"
	}
	if config.MasterPathsFile == "" {
		config.MasterPathsFile = "./master_paths.json"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "{original}_{timestamp}.txt"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}
	return nil
}
