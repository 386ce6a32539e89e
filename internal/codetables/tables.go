// =============================================================================
// UKE Receipt Viewer - Bundled Code Tables
// =============================================================================
//
// The billing format leans on a family of fixed lookup tables (別表): payer
// kind, confirmation category, front-desk burden category, clinical
// department names, receipt type codes. These never change between runs,
// so they ship inside the binary as embedded JSON.
//
// Two JSON shapes are accepted for the simple tables:
//
//   {"01": "内科", "02": "精神科"}                  flat map
//   [{"code": "01", "label": "内科"}, ...]          list of entries
//
// The receipt type table (別表5) is richer: each code maps to an object
// carrying at least a description and an in/out-patient category, and has
// its own accessor.
//
// =============================================================================

package codetables

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

// tableFiles maps table names to their embedded file names.
var tableFiles = map[string]string{
	"futansha_type": "futansha_type.json",
	"kakunin_kubun": "kakunin_kubun.json",
	"jushin_kubun":  "jushin_kubun.json",
	"madoguchi_kbn": "madoguchi_kbn.json",
	"shinryokamei":  "shinryokamei_code.json",
	"receipt_type":  "receipt_type_code.json",
}

var (
	tableMu    sync.Mutex
	tableCache = make(map[string]map[string]string)
)

// listEntry is one element of the list-form JSON shape.
type listEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// LoadCodeTable returns the code-to-label map for a named table. Results
// are memoized; the embedded data is parsed at most once per table.
func LoadCodeTable(tableName string) (map[string]string, error) {
	tableMu.Lock()
	defer tableMu.Unlock()

	if cached, ok := tableCache[tableName]; ok {
		return cached, nil
	}

	filename, ok := tableFiles[tableName]
	if !ok {
		return nil, fmt.Errorf("unknown table name: %s", tableName)
	}

	raw, err := dataFS.ReadFile("data/" + filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded table %s: %w", tableName, err)
	}

	table, err := parseCodeTable(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded table %s: %w", tableName, err)
	}

	tableCache[tableName] = table
	return table, nil
}

// parseCodeTable accepts either the flat map or the list shape.
func parseCodeTable(raw []byte) (map[string]string, error) {
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var entries []listEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		table := make(map[string]string, len(entries))
		for _, entry := range entries {
			if entry.Code == "" {
				continue
			}
			label := entry.Label
			if label == "" {
				label = entry.Code
			}
			table[entry.Code] = label
		}
		return table, nil
	}

	return nil, fmt.Errorf("unsupported JSON shape")
}

// mustLoad panics on a broken embedded table. The data is compiled in, so
// a failure here is a build defect, not a runtime condition.
func mustLoad(tableName string) map[string]string {
	table, err := LoadCodeTable(tableName)
	if err != nil {
		panic(err)
	}
	return table
}

// FutanshaTypeMap returns the 負担者種別 table (SN record, field 1).
func FutanshaTypeMap() map[string]string { return mustLoad("futansha_type") }

// KakuninKubunMap returns the 確認区分 table (SN record).
func KakuninKubunMap() map[string]string { return mustLoad("kakunin_kubun") }

// JushinKubunMap returns the 受診区分 table.
func JushinKubunMap() map[string]string { return mustLoad("jushin_kubun") }

// MadoguchiKbnMap returns the 窓口負担額区分 table (MF record, field 1).
func MadoguchiKbnMap() map[string]string { return mustLoad("madoguchi_kbn") }

// ShinryokameiMap returns the 診療科名 code table.
func ShinryokameiMap() map[string]string { return mustLoad("shinryokamei") }

// =============================================================================
// RECEIPT TYPE TABLE (別表5)
// =============================================================================

// ReceiptTypeInfo is one entry of the receipt type table.
type ReceiptTypeInfo struct {
	// Description is the full composed label, e.g.
	// "医科・医保単独・本人/世帯主・入院外".
	Description string `json:"description"`

	// NyuinKbn is the in/out-patient category: "入院" or "入院外".
	NyuinKbn string `json:"nyuin_kbn"`
}

var (
	receiptTypeOnce  sync.Once
	receiptTypeMap   map[string]ReceiptTypeInfo
	receiptTypeError error
)

// ReceiptTypeTable returns receipt type code -> info for every bundled
// code.
func ReceiptTypeTable() (map[string]ReceiptTypeInfo, error) {
	receiptTypeOnce.Do(func() {
		raw, err := dataFS.ReadFile("data/" + tableFiles["receipt_type"])
		if err != nil {
			receiptTypeError = fmt.Errorf("failed to read receipt type table: %w", err)
			return
		}
		var table map[string]ReceiptTypeInfo
		if err := json.Unmarshal(raw, &table); err != nil {
			receiptTypeError = fmt.Errorf("failed to parse receipt type table: %w", err)
			return
		}
		receiptTypeMap = table
	})
	return receiptTypeMap, receiptTypeError
}

// ReceiptTypeDescription returns the bundled description for a receipt
// type code, or "" when the code is unknown.
func ReceiptTypeDescription(code string) string {
	table, err := ReceiptTypeTable()
	if err != nil {
		return ""
	}
	return table[strings.TrimSpace(code)].Description
}

// ReceiptTypeInout returns "入院" / "入院外" for a receipt type code, or
// "" when the code is unknown or carries no category.
func ReceiptTypeInout(code string) string {
	table, err := ReceiptTypeTable()
	if err != nil {
		return ""
	}
	return table[strings.TrimSpace(code)].NyuinKbn
}
