// =============================================================================
// UKE Receipt Viewer - Record Tokenizer
// =============================================================================
//
// This module splits raw UKE text into typed records. UKE files are flat,
// comma-delimited interchange files where every non-blank line starts (after
// optional leading whitespace) with a 2+ character alphanumeric record-type
// tag:
//
//   IR,1,13,...            <- institution record
//   RE,1,1112,202510,...   <- receipt boundary record
//   SY,7153018,20250101,...<- disease record
//
// DESIGN NOTES:
//   - Tokenization is deliberately permissive: any line, however malformed,
//     produces exactly one Record with best-effort classification. Garbage
//     in, garbage (but structured) out.
//   - Fields are split on the literal ',' with no quoting or escaping. A
//     comma inside a value is indistinguishable from a separator; this is a
//     documented limitation of the format, not something to fix here.
//   - Blank lines are dropped but still advance the physical line counter,
//     so LineNo always points back into the original file.
//
// =============================================================================

package ukeparser

import (
	"regexp"
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// UnknownRecordType is the sentinel assigned to lines whose leading tag
// cannot be recognized.
const UnknownRecordType = "??"

// recordTypePattern matches the record-type tag: the first run of 2 or more
// uppercase letters/digits anchored at line start after optional whitespace.
var recordTypePattern = regexp.MustCompile(`^\s*([A-Z0-9]{2,})`)

// Tokenize splits raw text into an ordered sequence of Records.
//
// For every non-blank input line exactly one Record is produced. Line
// terminators are stripped from Raw; the comma-separated fields retain
// embedded whitespace exactly as found.
func Tokenize(text string) []types.Record {
	var records []types.Record

	lineNo := 0
	for _, line := range strings.Split(text, "\n") {
		lineNo++

		raw := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(raw) == "" {
			// Blank line: consumes a line number but no record slot.
			continue
		}

		recordType := UnknownRecordType
		if m := recordTypePattern.FindStringSubmatch(raw); m != nil {
			tag := m[1]
			// Only the first two characters form the type tag; longer
			// runs still classify by their leading pair.
			recordType = tag[:2]
		}

		records = append(records, types.Record{
			LineNo:     lineNo,
			Raw:        raw,
			RecordType: recordType,
			Fields:     strings.Split(raw, ","),
		})
	}

	return records
}
