// =============================================================================
// UKE Receipt Viewer - Global Keyword Search
// =============================================================================
//
// Searches one keyword across receipts: header attributes plus the
// clinical record lines (diseases, procedures, drugs, comments). For the
// coded records the search text is widened with the master-resolved name,
// so a keyword like 気管支炎 hits an SY record that only carries the
// code.
//
// Two combination modes over the selected search keys:
//   OR  - a result row per key hit
//   AND - a single merged row, only for receipts where every selected key
//         hit at least once
//
// =============================================================================

package search

import (
	"fmt"
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// Search keys selectable in a global search.
const (
	KeyName           = "name"
	KeyPatientID      = "patient_id"
	KeyReceiptNo      = "receipt_no"
	KeyYearMonth      = "year_month"
	KeyDisease        = "disease"
	KeyProcedure      = "proc"
	KeyDrug           = "drug"
	KeyPoints         = "points"
	KeyPublicExpense  = "public_expense"
	KeyFutanshaNumber = "futansha_number"
	KeySpecialNote    = "special_note"
	KeyFreeComment    = "free_comment"
)

// AllKeys lists every search key, in display order.
var AllKeys = []string{
	KeyName, KeyPatientID, KeyReceiptNo, KeyYearMonth,
	KeyDisease, KeyProcedure, KeyDrug, KeyPoints,
	KeyPublicExpense, KeyFutanshaNumber, KeySpecialNote, KeyFreeComment,
}

// Resolver supplies master lookups for code-to-name widening. Nil
// functions (or a nil Resolver) disable the widening for that key; the
// raw record text is still searched.
type Resolver struct {
	DiseaseName func(code string) string
	ShinryoName func(code string) string
	DrugName    func(code string) string
}

// Options configures one global search.
type Options struct {
	Keyword string
	Keys    []string
	AndMode bool
}

// Result is one hit row.
type Result struct {
	ReceiptIndex int
	PatientID    string
	ReceiptNo    string
	Name         string
	MatchLabel   string
}

// Search runs the keyword over every receipt. Keys defaults to AllKeys
// when empty; a blank keyword yields no results.
func Search(receipts []types.Receipt, opts Options, resolver *Resolver) []Result {
	keyword := strings.ToLower(strings.TrimSpace(opts.Keyword))
	if keyword == "" {
		return nil
	}
	keys := opts.Keys
	if len(keys) == 0 {
		keys = AllKeys
	}

	var results []Result
	for i := range receipts {
		results = append(results, matchReceipt(i, &receipts[i], keyword, keys, opts.AndMode, resolver)...)
	}
	return results
}

// matchReceipt evaluates one receipt and returns its result rows.
func matchReceipt(index int, receipt *types.Receipt, keyword string, keys []string, andMode bool, resolver *Resolver) []Result {
	header := receipt.Header
	if header == nil {
		return nil
	}

	active := make(map[string]bool, len(keys))
	for _, key := range keys {
		active[key] = true
	}

	patientID := strings.TrimSpace(header.PatientID)
	name := strings.TrimSpace(header.Name)
	receiptNo := fmt.Sprintf("%d", index+1)

	matched := make(map[string]bool)
	var labels []matchLabel

	hit := func(key, label string) {
		matched[key] = true
		labels = append(labels, matchLabel{key: key, label: label})
	}

	// Header attributes.
	if active[KeyName] && strings.Contains(strings.ToLower(name), keyword) {
		hit(KeyName, "名前")
	}
	if active[KeyPatientID] && strings.Contains(strings.ToLower(patientID), keyword) {
		hit(KeyPatientID, "患者番号")
	}
	if active[KeyReceiptNo] && strings.Contains(receiptNo, keyword) {
		hit(KeyReceiptNo, "レセプト番号")
	}
	if active[KeyYearMonth] {
		ym := strings.TrimSpace(header.YearMonth)
		if strings.Contains(strings.ToLower(ym), keyword) {
			hit(KeyYearMonth, fmt.Sprintf("診療年月: %s", ym))
		}
	}

	// Record lines.
	for r := range receipt.Records {
		rec := &receipt.Records[r]
		rawLower := strings.ToLower(rec.Raw)

		switch rec.RecordType {
		case "SY":
			if active[KeyDisease] {
				code := strings.TrimSpace(rec.FieldAt(1))
				text := widen(rawLower, code, resolver.disease(code), rec.FieldAt(5))
				if strings.Contains(text, keyword) {
					hit(KeyDisease, fmt.Sprintf("傷病名 (行 %d)", rec.LineNo))
				}
			}
		case "SI":
			if active[KeyProcedure] {
				code := strings.TrimSpace(rec.FieldAt(3))
				text := widen(rawLower, code, resolver.shinryo(code))
				if strings.Contains(text, keyword) {
					hit(KeyProcedure, fmt.Sprintf("診療行為 (行 %d)", rec.LineNo))
				}
			}
			if active[KeyPoints] && strings.Contains(rawLower, keyword) {
				hit(KeyPoints, fmt.Sprintf("点数関連 (行 %d)", rec.LineNo))
			}
		case "IY":
			if active[KeyDrug] {
				code := strings.TrimSpace(rec.FieldAt(3))
				text := widen(rawLower, code, resolver.drug(code))
				if strings.Contains(text, keyword) {
					hit(KeyDrug, fmt.Sprintf("医薬品 (行 %d)", rec.LineNo))
				}
			}
			if active[KeyPoints] && strings.Contains(rawLower, keyword) {
				hit(KeyPoints, fmt.Sprintf("点数関連 (行 %d)", rec.LineNo))
			}
		case "TO":
			if active[KeyPoints] && strings.Contains(rawLower, keyword) {
				hit(KeyPoints, fmt.Sprintf("点数関連 (行 %d)", rec.LineNo))
			}
		case "KO", "SN":
			if active[KeyPublicExpense] && strings.Contains(rawLower, keyword) {
				hit(KeyPublicExpense, fmt.Sprintf("公費関連 (行 %d)", rec.LineNo))
			}
			if active[KeyFutanshaNumber] && strings.Contains(rawLower, keyword) {
				hit(KeyFutanshaNumber, fmt.Sprintf("負担者番号関連 (行 %d)", rec.LineNo))
			}
		case "CO":
			if active[KeySpecialNote] && strings.Contains(rawLower, keyword) {
				hit(KeySpecialNote, fmt.Sprintf("特記事項/コメント (行 %d)", rec.LineNo))
			}
			if active[KeyFreeComment] && strings.Contains(rawLower, keyword) {
				hit(KeyFreeComment, fmt.Sprintf("フリーコメント (行 %d)", rec.LineNo))
			}
		}
	}

	if len(labels) == 0 {
		return nil
	}

	if andMode {
		for _, key := range keys {
			if !matched[key] {
				return nil
			}
		}

		seen := make(map[string]bool)
		var merged []string
		for _, l := range labels {
			if !seen[l.label] {
				seen[l.label] = true
				merged = append(merged, l.label)
			}
		}
		return []Result{{
			ReceiptIndex: index,
			PatientID:    patientID,
			ReceiptNo:    receiptNo,
			Name:         name,
			MatchLabel:   strings.Join(merged, " / "),
		}}
	}

	results := make([]Result, 0, len(labels))
	for _, l := range labels {
		results = append(results, Result{
			ReceiptIndex: index,
			PatientID:    patientID,
			ReceiptNo:    receiptNo,
			Name:         name,
			MatchLabel:   l.label,
		})
	}
	return results
}

type matchLabel struct {
	key   string
	label string
}

// widen joins the raw record text with code and resolved-name extras
// into one lowercase haystack.
func widen(rawLower string, extras ...string) string {
	parts := []string{rawLower}
	for _, extra := range extras {
		if extra = strings.TrimSpace(extra); extra != "" {
			parts = append(parts, strings.ToLower(extra))
		}
	}
	return strings.Join(parts, " ")
}

func (r *Resolver) disease(code string) string {
	if r == nil || r.DiseaseName == nil || code == "" {
		return ""
	}
	return r.DiseaseName(code)
}

func (r *Resolver) shinryo(code string) string {
	if r == nil || r.ShinryoName == nil || code == "" {
		return ""
	}
	return r.ShinryoName(code)
}

func (r *Resolver) drug(code string) string {
	if r == nil || r.DrugName == nil || code == "" {
		return ""
	}
	return r.DrugName(code)
}
