// =============================================================================
// UKE Receipt Viewer - Master Table Loader
// =============================================================================
//
// This module parses master files (code-to-name lookup tables distributed
// alongside the billing system) into keyed tables. It handles the formats
// masters actually arrive in:
//   - Comma- or tab-delimited text in Shift_JIS / EUC-JP / UTF-8
//     (delimiter and encoding are both auto-detected per file)
//   - Excel workbooks (.xlsx), which some distributors ship instead of text
//
// Column layouts differ per master category and occasionally per era, so
// extraction is driven by a MasterColumns configuration rather than
// hard-coded offsets. Rows with an empty code are skipped; a row
// contributes only if it has a name or a kana reading. Duplicate codes are
// last-row-wins across files, with files processed in the order supplied.
//
// =============================================================================

package masterdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/recelab/ukeview/internal/types"
)

// delimiterSampleLines is how many leading lines the delimiter sniffer
// inspects.
const delimiterSampleLines = 5

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// MasterColumns defines which columns of a master file contain which data.
// Column indices are 0-based. An index of -1 means the column is absent.
//
// CodeFallback/NameFallback support masters whose layout varies by era:
// the fallback column is consulted when the primary column is empty
// ("first non-empty of column A else column B").
type MasterColumns struct {
	// Code is the column holding the lookup code.
	Code int

	// CodeFallback is consulted when Code is empty. -1 to disable.
	CodeFallback int

	// Name is the column holding the kanji name.
	Name int

	// NameFallback is consulted when Name is empty. -1 to disable.
	NameFallback int

	// Kana is the column holding the katakana reading. -1 if the master
	// has none.
	Kana int

	// EndYMD is the column holding the abolition date (YYYYMMDD).
	// -1 for masters that carry none.
	EndYMD int
}

// SimpleColumns builds a MasterColumns with no fallbacks and no end date.
func SimpleColumns(code, name, kana int) MasterColumns {
	return MasterColumns{
		Code:         code,
		CodeFallback: -1,
		Name:         name,
		NameFallback: -1,
		Kana:         kana,
		EndYMD:       -1,
	}
}

// =============================================================================
// LOADING
// =============================================================================

// LoadSimple reads every file in paths and builds a single code-keyed
// table using the supplied column configuration.
//
// An unreadable file aborts the load with an error; the caller decides
// whether to keep a previously loaded table. Malformed rows never error:
// they are skipped or contribute what they have.
func LoadSimple(paths []string, cols MasterColumns) (types.MasterTable, error) {
	master := make(types.MasterTable)

	for _, path := range paths {
		rows, err := readMasterRows(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read master file %s: %w", path, err)
		}

		for _, row := range rows {
			code := fieldAt(row, cols.Code)
			if code == "" && cols.CodeFallback >= 0 {
				code = fieldAt(row, cols.CodeFallback)
			}
			if code == "" {
				continue
			}

			name := fieldAt(row, cols.Name)
			if name == "" && cols.NameFallback >= 0 {
				name = fieldAt(row, cols.NameFallback)
			}
			kana := ""
			if cols.Kana >= 0 {
				kana = fieldAt(row, cols.Kana)
			}
			if name == "" && kana == "" {
				continue
			}

			entry := types.MasterEntry{Name: name, Kana: kana}
			if cols.EndYMD >= 0 {
				entry.EndYMD = fieldAt(row, cols.EndYMD)
			}
			master[code] = entry
		}
	}

	return master, nil
}

// LoadModifier reads the modifier (修飾語) master, which needs two outputs
// because name and kana rows are sparse independently: a code may have a
// name but no kana or vice versa.
//
// Rows whose kind column (index 1) is neither blank nor "Z" are skipped;
// the Z master file bundles several record kinds and only Z rows are
// modifier entries.
func LoadModifier(paths []string) (nameByCode, kanaByCode map[string]string, err error) {
	nameByCode = make(map[string]string)
	kanaByCode = make(map[string]string)

	for _, path := range paths {
		rows, rerr := readMasterRows(path)
		if rerr != nil {
			return nil, nil, fmt.Errorf("failed to read modifier master %s: %w", path, rerr)
		}

		for _, row := range rows {
			kind := fieldAt(row, 1)
			if kind != "" && kind != "Z" {
				continue
			}
			code := fieldAt(row, 2)
			if code == "" {
				continue
			}

			if name := fieldAt(row, 6); name != "" {
				nameByCode[code] = name
			}
			if kana := fieldAt(row, 9); kana != "" {
				kanaByCode[code] = kana
			}
		}
	}

	return nameByCode, kanaByCode, nil
}

// fieldAt returns the trimmed cell at index i, or "" when the row is too
// short. Shared by all master extraction paths.
func fieldAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// =============================================================================
// FILE READING
// =============================================================================

// readMasterRows reads one master file into rows of cells, dispatching on
// the file extension: Excel workbooks go through excelize, everything else
// is treated as delimited text.
func readMasterRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelRows(path)
	default:
		return readDelimitedRows(path)
	}
}

// readDelimitedRows decodes a text master file and parses it with the
// sniffed delimiter.
func readDelimitedRows(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := DecodeBytes(raw)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = DetectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Master rows are machine-generated; a row the csv reader
			// rejects outright is noise, not data.
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of an Excel workbook.
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheetName)
}

// DetectDelimiter sniffs the field delimiter from the first few lines:
// tab-delimited iff a tab appears and tabs are at least as frequent as
// commas in the sample, otherwise comma-delimited.
func DetectDelimiter(text string) rune {
	lines := strings.SplitN(text, "\n", delimiterSampleLines+1)
	if len(lines) > delimiterSampleLines {
		lines = lines[:delimiterSampleLines]
	}
	sample := strings.Join(lines, "\n")

	tabs := strings.Count(sample, "\t")
	commas := strings.Count(sample, ",")
	if tabs > 0 && tabs >= commas {
		return '\t'
	}
	return ','
}
