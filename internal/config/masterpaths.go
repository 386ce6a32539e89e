// =============================================================================
// UKE Receipt Viewer - Master Path Registry
// =============================================================================
//
// The master path file maps each master category to the list of files that
// feed it, e.g.:
//
//   {
//     "disease":  ["masters/byomei_a.csv", "masters/byomei_b.csv"],
//     "modifier": ["masters/z.csv"]
//   }
//
// The file is shared with other tools, so keys this program does not
// recognize are preserved byte-for-byte across a save.
//
// =============================================================================

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// MasterPaths is the parsed master path registry. Known categories live in
// Paths; unrecognized top-level keys are retained in extra for round-trip
// fidelity.
type MasterPaths struct {
	Paths map[string][]string

	extra map[string]json.RawMessage
}

// NewMasterPaths returns an empty registry.
func NewMasterPaths() *MasterPaths {
	return &MasterPaths{
		Paths: make(map[string][]string),
		extra: make(map[string]json.RawMessage),
	}
}

// LoadMasterPaths reads the registry from path. A missing file yields an
// empty registry, not an error: a fresh install has no masters configured
// yet.
func LoadMasterPaths(path string) (*MasterPaths, error) {
	mp := NewMasterPaths()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return mp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read master paths file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse master paths file: %w", err)
	}

	for key, value := range raw {
		var paths []string
		if err := json.Unmarshal(value, &paths); err != nil {
			// Not a string list: some other tool's key. Keep it verbatim.
			mp.extra[key] = value
			continue
		}
		mp.Paths[key] = paths
	}

	return mp, nil
}

// Save writes the registry back to path, known categories and foreign
// keys alike.
func (mp *MasterPaths) Save(path string) error {
	merged := make(map[string]json.RawMessage, len(mp.Paths)+len(mp.extra))
	for key, value := range mp.extra {
		merged[key] = value
	}
	for key, paths := range mp.Paths {
		raw, err := json.Marshal(paths)
		if err != nil {
			return fmt.Errorf("failed to encode category %s: %w", key, err)
		}
		merged[key] = raw
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode master paths: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write master paths file: %w", err)
	}
	return nil
}

// Get returns the path list for a category (nil when unset).
func (mp *MasterPaths) Get(category string) []string {
	return mp.Paths[category]
}

// Set replaces the path list for a category.
func (mp *MasterPaths) Set(category string, paths []string) {
	mp.Paths[category] = paths
}
