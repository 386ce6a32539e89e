// =============================================================================
// UKE Receipt Viewer - Master Categories
// =============================================================================
//
// One loader function per master category, each wrapping the generic
// LoadSimple/LoadModifier with the category's column layout and the shared
// two-tier cache.
//
// Column layouts (0-based indices, from the distributed master formats):
//
//   | Category | Code | Name | Kana | Notes                               |
//   |----------|------|------|------|-------------------------------------|
//   | disease  | 2→3  | 5→7  | 9    | layout varies by era, hence fallback|
//   | modifier | 2    | 6    | 9    | kind column 1 must be "Z" or blank  |
//   | shinryo  | 2    | 4    | 6    | 診療行為 (procedures)               |
//   | chouzai  | 2    | 4    | 6    | 調剤行為 (dispensing)               |
//   | drug     | 2    | 4    | 6    | 医薬品 (Y)                          |
//   | material | 2    | 4    | 6    | 特定器材 (T)                        |
//   | ward     | 2    | 4    | 6    | 病棟コード                          |
//   | comment  | 3    | 6    | 8    | コメント (C)                        |
//
// =============================================================================

package masterdata

import (
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// Category names one master table family. The values double as JSON keys
// in the master-path configuration file and as cache-file prefixes.
type Category string

const (
	CategoryDisease  Category = "disease"
	CategoryModifier Category = "modifier"
	CategoryShinryo  Category = "shinryo"
	CategoryChouzai  Category = "chouzai"
	CategoryDrug     Category = "drug"
	CategoryMaterial Category = "material"
	CategoryWard     Category = "ward"
	CategoryComment  Category = "comment"
)

// Categories lists every known category, in display order.
var Categories = []Category{
	CategoryDisease,
	CategoryModifier,
	CategoryShinryo,
	CategoryChouzai,
	CategoryDrug,
	CategoryMaterial,
	CategoryWard,
	CategoryComment,
}

// IsKnownCategory reports whether name is a recognized category.
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if string(c) == name {
			return true
		}
	}
	return false
}

// categoryColumns is the per-category column layout. The modifier master
// is absent here: it goes through LoadModifier, not LoadSimple.
var categoryColumns = map[Category]MasterColumns{
	CategoryDisease: {
		Code:         2,
		CodeFallback: 3,
		Name:         5,
		NameFallback: 7,
		Kana:         9,
		EndYMD:       -1,
	},
	CategoryShinryo:  SimpleColumns(2, 4, 6),
	CategoryChouzai:  SimpleColumns(2, 4, 6),
	CategoryDrug:     SimpleColumns(2, 4, 6),
	CategoryMaterial: SimpleColumns(2, 4, 6),
	CategoryWard:     SimpleColumns(2, 4, 6),
	CategoryComment:  SimpleColumns(3, 6, 8),
}

// LoadCategory loads a simple (single-table) master category through the
// cache. The modifier category must use LoadModifierMaster instead.
func LoadCategory(cache *Cache, category Category, paths []string) (types.MasterTable, error) {
	cols, ok := categoryColumns[category]
	if !ok {
		cols = SimpleColumns(2, 4, 6)
	}
	return cache.GetOrLoad(string(category), paths, func() (types.MasterTable, error) {
		return LoadSimple(paths, cols)
	})
}

// LoadDiseaseMaster loads the 傷病名 master (code -> name/kana).
func LoadDiseaseMaster(cache *Cache, paths []string) (types.MasterTable, error) {
	return LoadCategory(cache, CategoryDisease, paths)
}

// LoadModifierMaster loads the 修飾語 master as its two independent
// outputs (code -> name, code -> kana), cached as a pair.
func LoadModifierMaster(cache *Cache, paths []string) (nameByCode, kanaByCode map[string]string, err error) {
	return cache.GetOrLoadModifier(paths, func() (map[string]string, map[string]string, error) {
		return LoadModifier(paths)
	})
}

// KnownModifierCodes converts the modifier name table's key set into the
// form the packed-code decomposer filters with.
func KnownModifierCodes(nameByCode map[string]string) map[string]bool {
	if len(nameByCode) == 0 {
		return nil
	}
	known := make(map[string]bool, len(nameByCode))
	for code := range nameByCode {
		known[code] = true
	}
	return known
}

// =============================================================================
// ABOLISHED-CODE CHECK
// =============================================================================

// IsAbolished loosely judges whether a master entry is an abolished code.
//
// An empty end date, or one of the conventional dummy values 00000000 /
// 99999999, counts as "still current". Anything else counts as abolished;
// the treatment month is deliberately not consulted.
func IsAbolished(entry types.MasterEntry) bool {
	end := strings.TrimSpace(entry.EndYMD)
	if end == "" || end == "00000000" || end == "99999999" {
		return false
	}
	return true
}

// IsCodeAbolished looks code up in table and applies IsAbolished.
// Unknown codes are not abolished.
func IsCodeAbolished(table types.MasterTable, code string) bool {
	if code == "" || table == nil {
		return false
	}
	entry, ok := table[strings.TrimSpace(code)]
	if !ok {
		return false
	}
	return IsAbolished(entry)
}
