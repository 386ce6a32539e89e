// =============================================================================
// UKE Receipt Viewer - Master Table Cache
// =============================================================================
//
// Master files are large (the disease master alone runs to hundreds of
// thousands of rows) and reloading them on every run is the slowest part
// of startup. This module caches parsed tables in two tiers:
//
//   1. In-process: a plain map keyed by category + path list, valid for
//      the cache object's lifetime.
//   2. On disk: one JSON file per (category, signature) pair under the
//      cache directory, surviving across runs.
//
// The signature fingerprints the identity of the source files: for each
// path, sorted by filename, either "name:mtimeNs:size" or "name:missing".
// Any change to a contributing file's mtime or size - or a file vanishing -
// changes the signature, so stale disk entries are simply never hit again.
// They are not deleted; they accumulate under old signatures until pruned
// externally.
//
// Caching is a pure performance optimization: every I/O or decode failure
// on a cache file is swallowed and the table is recomputed from source.
//
// The cache has no internal locking. It is built for the single-threaded
// batch flow; a concurrent host must serialize access externally.
//
// =============================================================================

package masterdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/recelab/ukeview/internal/types"

	"github.com/recelab/ukeview/pkg/utils"
)

// Cache is the two-tier master-table cache. Construct with NewCache;
// the zero value disables the disk tier but keeps the memory tier usable.
type Cache struct {
	dir string

	simple   map[string]types.MasterTable
	modifier map[string]modifierPair
}

// modifierPair is the in-memory form of the modifier master's two outputs.
type modifierPair struct {
	Name map[string]string
	Kana map[string]string
}

// NewCache creates a cache rooted at dir. The directory is created lazily
// on first write; a dir that cannot be created just disables the disk
// tier.
func NewCache(dir string) *Cache {
	return &Cache{
		dir:      dir,
		simple:   make(map[string]types.MasterTable),
		modifier: make(map[string]modifierPair),
	}
}

// Clear empties the in-process tier only. On-disk entries persist until
// overwritten by signature drift.
func (c *Cache) Clear() {
	c.simple = make(map[string]types.MasterTable)
	c.modifier = make(map[string]modifierPair)
}

// Dir returns the disk-tier directory ("" when the disk tier is off).
func (c *Cache) Dir() string {
	return c.dir
}

// =============================================================================
// LOOKUP / INSERT
// =============================================================================

// GetOrLoad returns the cached table for (kind, paths), consulting the
// memory tier, then the disk tier, and finally invoking load. A freshly
// loaded table is written to both tiers before it is returned.
func (c *Cache) GetOrLoad(kind string, paths []string, load func() (types.MasterTable, error)) (types.MasterTable, error) {
	key := memoryKey(kind, paths)
	if table, ok := c.simple[key]; ok {
		return table, nil
	}

	sig := BuildSignature(paths)
	if table := c.readSimpleFromDisk(kind, sig); table != nil {
		c.simple[key] = table
		return table, nil
	}

	table, err := load()
	if err != nil {
		return nil, err
	}

	c.writeSimpleToDisk(kind, sig, table)
	c.simple[key] = table
	return table, nil
}

// GetOrLoadModifier is GetOrLoad for the modifier master's paired
// outputs. On disk the pair lives in two files (modifier_name_<sig>.json
// and modifier_kana_<sig>.json); both must exist for a hit.
func (c *Cache) GetOrLoadModifier(paths []string, load func() (map[string]string, map[string]string, error)) (map[string]string, map[string]string, error) {
	key := memoryKey("modifier", paths)
	if pair, ok := c.modifier[key]; ok {
		return pair.Name, pair.Kana, nil
	}

	sig := BuildSignature(paths)
	if name, kana, ok := c.readModifierFromDisk(sig); ok {
		c.modifier[key] = modifierPair{Name: name, Kana: kana}
		return name, kana, nil
	}

	name, kana, err := load()
	if err != nil {
		return nil, nil, err
	}

	c.writeModifierToDisk(sig, name, kana)
	c.modifier[key] = modifierPair{Name: name, Kana: kana}
	return name, kana, nil
}

// memoryKey builds the in-process store key. Paths are sorted so the key,
// like the signature, is independent of the caller's ordering.
func memoryKey(kind string, paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return kind + "|" + strings.Join(sorted, "|")
}

// =============================================================================
// SIGNATURE
// =============================================================================

// BuildSignature fingerprints the identity of a set of source files.
//
// For each path, sorted by full path so the result is independent of
// caller order even when filenames repeat across directories, the
// signature gains either "name:mtimeNs:size" or "name:missing" when the
// file cannot be stat'ed. The missing marker is deliberate: a vanished
// file must change the signature rather than silently dropping out of it.
func BuildSignature(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	parts := make([]string, 0, len(sorted))
	for _, path := range sorted {
		name := filepath.Base(path)
		size, mtime, err := utils.FileIdentity(path)
		if err != nil {
			parts = append(parts, name+":missing")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", name, mtime.UnixNano(), size))
	}
	return strings.Join(parts, "_")
}

// =============================================================================
// DISK TIER
// =============================================================================

// diskPath returns the cache file for a (kind, signature) pair.
func (c *Cache) diskPath(kind, signature string) string {
	return filepath.Join(c.dir, kind+"_"+signature+".json")
}

// readSimpleFromDisk loads a table from the disk tier. Any failure -
// missing file, unreadable file, corrupt JSON - reads as a miss.
func (c *Cache) readSimpleFromDisk(kind, signature string) types.MasterTable {
	if c.dir == "" {
		return nil
	}
	raw, err := os.ReadFile(c.diskPath(kind, signature))
	if err != nil {
		return nil
	}
	var table types.MasterTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil
	}
	return table
}

// writeSimpleToDisk stores a table in the disk tier. Failures are
// swallowed: the cache never makes a load fail.
func (c *Cache) writeSimpleToDisk(kind, signature string, table types.MasterTable) {
	if c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	raw, err := json.Marshal(table)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.diskPath(kind, signature), raw, 0o644)
}

// readModifierFromDisk loads the modifier pair; both files must parse.
func (c *Cache) readModifierFromDisk(signature string) (map[string]string, map[string]string, bool) {
	if c.dir == "" {
		return nil, nil, false
	}

	nameRaw, err := os.ReadFile(c.diskPath("modifier_name", signature))
	if err != nil {
		return nil, nil, false
	}
	kanaRaw, err := os.ReadFile(c.diskPath("modifier_kana", signature))
	if err != nil {
		return nil, nil, false
	}

	var name, kana map[string]string
	if err := json.Unmarshal(nameRaw, &name); err != nil {
		return nil, nil, false
	}
	if err := json.Unmarshal(kanaRaw, &kana); err != nil {
		return nil, nil, false
	}
	return name, kana, true
}

// writeModifierToDisk stores the modifier pair as its two files.
func (c *Cache) writeModifierToDisk(signature string, name, kana map[string]string) {
	if c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	if raw, err := json.Marshal(name); err == nil {
		_ = os.WriteFile(c.diskPath("modifier_name", signature), raw, 0o644)
	}
	if raw, err := json.Marshal(kana); err == nil {
		_ = os.WriteFile(c.diskPath("modifier_kana", signature), raw, 0o644)
	}
}
