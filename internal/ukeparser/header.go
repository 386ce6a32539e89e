// =============================================================================
// UKE Receipt Viewer - Receipt Header Heuristics
// =============================================================================
//
// This module recovers header attributes (patient id, name, birthday, sex,
// treatment month, ...) from a receipt's RE record.
//
// WHY HEURISTICS:
//   Field positions in RE records are not guaranteed stable across source
//   variants, so each attribute is detected independently by pattern rather
//   than by fixed offset:
//
//   | Attribute  | Scan     | Pattern                                      |
//   |------------|----------|----------------------------------------------|
//   | YearMonth  | forward  | 6 digits, year 2000-2099, month 1-12         |
//   | PatientID  | reverse  | 2-10 digits, not equal to YearMonth          |
//   | Name       | forward  | >=2 chars containing a CJK ideograph         |
//   | NameKana   | reverse  | >=2 chars containing katakana (full/half)    |
//   | Birthday   | forward  | 8 digits, 1900-2099, month 1-12, day 1-31    |
//   | Sex        | special  | "1"/"2" within 3 fields after Name, else any |
//
//   The reverse scans reflect the empirical convention that patient
//   identifiers and kana names appear later in the record than date fields.
//
//   Birthday deliberately skips month-length validation (day 31 in April is
//   accepted); this is a loose plausibility check, not a calendar.
//
// Every detector reports "not found" instead of failing, so header
// construction always succeeds. At worst every attribute is empty and
// RawRecord still holds the original line for audit.
//
// =============================================================================

package ukeparser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/recelab/ukeview/internal/types"
)

// maxDepartmentCodes caps how many department codes are kept per header.
const maxDepartmentCodes = 3

// ExtractHeader recovers a Header from a receipt's RE record.
func ExtractHeader(rec *types.Record) *types.Header {
	fields := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		fields[i] = strings.TrimSpace(f)
	}

	// The receipt type code is the one attribute read positionally: it is
	// the second field in every variant observed so far.
	receiptType := ""
	if len(fields) > 1 {
		receiptType = fields[1]
	}

	yearMonth, _ := detectYearMonth(fields)
	patientID, _ := detectPatientID(fields, yearMonth)
	name, nameIdx := detectName(fields)
	nameKana, _ := detectNameKana(fields)
	birthday, _ := detectBirthday(fields)
	sex, _ := detectSex(fields, nameIdx)

	return &types.Header{
		RawRecord:   rec.Raw,
		PatientID:   patientID,
		YearMonth:   yearMonth,
		ReceiptType: receiptType,
		Name:        name,
		NameKana:    nameKana,
		Sex:         sex,
		Birthday:    birthday,
		FieldMap: map[string]string{
			"receipt_type_field":  receiptType,
			"year_month_detected": yearMonth,
			"patient_id_detected": patientID,
			"name_detected":       name,
			"name_kana_detected":  nameKana,
			"birthday_detected":   birthday,
			"sex_detected":        sex,
		},
	}
}

// emptyHeader builds the all-absent header used when a receipt carries no
// RE record at all.
func emptyHeader(raw string) *types.Header {
	return &types.Header{
		RawRecord: raw,
		FieldMap:  map[string]string{},
	}
}

// DetectDepartmentCodes scans RE fields for department codes, keeping only
// values present in the supplied known-code set (typically the bundled
// 診療科名 table). At most 3 codes are returned, in field order.
//
// Detection without a known set would misfire on every small numeric field,
// so a nil/empty set yields no codes.
func DetectDepartmentCodes(fields []string, known map[string]string) []string {
	if len(known) == 0 {
		return nil
	}

	var codes []string
	for _, f := range fields {
		s := strings.TrimSpace(f)
		if len(s) != 2 || !isAllDigits(s) {
			continue
		}
		if _, ok := known[s]; !ok {
			continue
		}
		codes = append(codes, s)
		if len(codes) == maxDepartmentCodes {
			break
		}
	}
	return codes
}

// =============================================================================
// ATTRIBUTE DETECTORS
// =============================================================================
// Each detector takes the trimmed field list and returns (value, found).
// None of them panic or error: an unmatched pattern is simply not found.

// detectYearMonth finds the first field that parses as a plausible
// treatment month (YYYYMM).
func detectYearMonth(fields []string) (string, bool) {
	for _, s := range fields {
		if len(s) != 6 || !isAllDigits(s) {
			continue
		}
		year, _ := strconv.Atoi(s[:4])
		month, _ := strconv.Atoi(s[4:6])
		if year >= 2000 && year <= 2099 && month >= 1 && month <= 12 {
			return s, true
		}
	}
	return "", false
}

// detectPatientID finds a patient-number-like field, scanning from the end
// of the record. exclude (normally the detected year month) is skipped so a
// YYYYMM value is never mistaken for a 6-digit patient number.
func detectPatientID(fields []string, exclude string) (string, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		s := fields[i]
		if !isAllDigits(s) || s == "" {
			continue
		}
		if exclude != "" && s == exclude {
			continue
		}
		if len(s) >= 2 && len(s) <= 10 {
			return s, true
		}
	}
	return "", false
}

// detectName finds the first kanji-name-like field and its index.
// The index is needed by detectSex, which prefers the fields immediately
// after the name.
func detectName(fields []string) (string, int) {
	for i, s := range fields {
		if len([]rune(s)) < 2 {
			continue
		}
		if containsKanji(s) {
			return s, i
		}
	}
	return "", -1
}

// detectNameKana finds a katakana-name-like field, scanning from the end.
func detectNameKana(fields []string) (string, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		s := fields[i]
		if len([]rune(s)) < 2 {
			continue
		}
		if containsKatakana(s) {
			return s, true
		}
	}
	return "", false
}

// detectBirthday finds the first plausible YYYYMMDD birth date.
func detectBirthday(fields []string) (string, bool) {
	for _, s := range fields {
		if len(s) != 8 || !isAllDigits(s) {
			continue
		}
		year, _ := strconv.Atoi(s[:4])
		month, _ := strconv.Atoi(s[4:6])
		day, _ := strconv.Atoi(s[6:8])
		if year >= 1900 && year <= 2099 && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return s, true
		}
	}
	return "", false
}

// detectSex finds the sex code. Fields valued "1" or "2" appear all over a
// RE record, so position matters: the code sits right after the name in
// every observed layout. The 3 fields following the detected name are
// checked first; only if none match does the scan fall back to the whole
// record.
func detectSex(fields []string, nameIdx int) (string, bool) {
	if nameIdx >= 0 {
		limit := nameIdx + 4
		if limit > len(fields) {
			limit = len(fields)
		}
		for i := nameIdx + 1; i < limit; i++ {
			if fields[i] == "1" || fields[i] == "2" {
				return fields[i], true
			}
		}
	}

	for _, s := range fields {
		if s == "1" || s == "2" {
			return s, true
		}
	}
	return "", false
}

// =============================================================================
// CHARACTER CLASS HELPERS
// =============================================================================

// isAllDigits reports whether s is non-empty and entirely ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// containsKanji reports whether s contains at least one CJK ideograph.
// The iteration mark 々 counts: it only ever appears inside kanji names.
func containsKanji(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || r == '々' {
			return true
		}
	}
	return false
}

// containsKatakana reports whether s contains full-width (ァ-ヶ) or
// half-width (ｦ-ﾟ) katakana.
func containsKatakana(s string) bool {
	for _, r := range s {
		if (r >= 'ァ' && r <= 'ヶ') || (r >= 'ｦ' && r <= 'ﾟ') {
			return true
		}
	}
	return false
}
