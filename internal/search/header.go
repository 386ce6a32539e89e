// =============================================================================
// UKE Receipt Viewer - Header Search
// =============================================================================
//
// Finds receipts whose recovered header matches a set of optional
// conditions. Every populated condition must hold (AND); empty conditions
// are ignored; comparisons are substring matches.
//
// The treatment month condition tolerates loose input: "2025-10",
// "2025/10" and "202510" all normalize to the same YYYYMM.
//
// =============================================================================

package search

import (
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// HeaderCondition is one header search. Empty fields are not consulted.
type HeaderCondition struct {
	PatientID   string
	Name        string
	Kana        string
	YearMonth   string
	ReceiptType string
}

// IsEmpty reports whether no condition is populated.
func (c HeaderCondition) IsEmpty() bool {
	return strings.TrimSpace(c.PatientID) == "" &&
		strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Kana) == "" &&
		strings.TrimSpace(c.YearMonth) == "" &&
		strings.TrimSpace(c.ReceiptType) == ""
}

// NormalizeYearMonth reduces a loosely formatted treatment month to
// YYYYMM: non-digits are stripped and the first six digits kept.
func NormalizeYearMonth(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) >= 6 {
		return digits[:6]
	}
	return digits
}

// MatchHeader reports whether one receipt's header satisfies the
// condition. Headerless receipts never match.
func MatchHeader(receipt *types.Receipt, cond HeaderCondition) bool {
	header := receipt.Header
	if header == nil {
		return false
	}

	if want := strings.TrimSpace(cond.PatientID); want != "" {
		if !strings.Contains(strings.TrimSpace(header.PatientID), want) {
			return false
		}
	}
	if want := strings.TrimSpace(cond.Name); want != "" {
		if !strings.Contains(strings.TrimSpace(header.Name), want) {
			return false
		}
	}
	if want := strings.TrimSpace(cond.Kana); want != "" {
		if !strings.Contains(strings.TrimSpace(header.NameKana), want) {
			return false
		}
	}
	if strings.TrimSpace(cond.YearMonth) != "" {
		want := NormalizeYearMonth(cond.YearMonth)
		have := NormalizeYearMonth(strings.TrimSpace(header.YearMonth))
		if want == "" || !strings.Contains(have, want) {
			return false
		}
	}
	if want := strings.TrimSpace(cond.ReceiptType); want != "" {
		if !strings.Contains(strings.TrimSpace(header.ReceiptType), want) {
			return false
		}
	}

	return true
}

// SearchByHeader returns the 0-based indices of the receipts matching
// cond. An empty condition matches nothing.
func SearchByHeader(receipts []types.Receipt, cond HeaderCondition) []int {
	if cond.IsEmpty() {
		return nil
	}

	var hits []int
	for i := range receipts {
		if MatchHeader(&receipts[i], cond) {
			hits = append(hits, i)
		}
	}
	return hits
}
