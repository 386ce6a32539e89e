// =============================================================================
// UKE Receipt Viewer - Points Summary
// =============================================================================
//
// The "種別点数情報" view aggregates the claimed points of every receipt
// in a file. The claimed total lives on the HO record (field 5); the SI
// records allow an independent recomputation for cross-checking.
//
// Aggregation is grouped by insurer number, with one twist: 後期高齢者
// (latter-stage elderly) insurers are 8-digit numbers starting "39", with
// the prefecture code in digits 3-4. Depending on the grouping mode,
// those are merged per prefecture into a single 広域連合 group.
//
// =============================================================================

package analyzer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// GroupMode selects how insurers are merged in the points summary.
type GroupMode int

const (
	// GroupByInsurer keeps every insurer number as its own group.
	GroupByInsurer GroupMode = iota

	// GroupWideByPref merges every 後期高齢者 insurer into one group per
	// prefecture.
	GroupWideByPref

	// GroupOwnPrefOnly merges only the facility's own prefecture's
	// 後期高齢者 insurers; foreign ones stay per-insurer.
	GroupOwnPrefOnly
)

// PointsDetail is one (receipt type, treatment month) breakdown row.
type PointsDetail struct {
	ReceiptType string
	YearMonth   string
	Count       int
	Points      int
}

// PointsGroup is one insurer (or merged prefecture) group.
type PointsGroup struct {
	ID      string
	Label   string
	Count   int
	Points  int
	Details []PointsDetail
}

// PointsSummary is the file-level aggregate.
type PointsSummary struct {
	Groups         []PointsGroup
	TotalCount     int
	TotalPoints    int
	UniquePatients int
}

// BuildPointsSummary aggregates HO points across receipts.
//
// facilityPref is the submitting institution's prefecture code (used by
// GroupOwnPrefOnly); receipts without a header or without an HO record
// contribute nothing.
func BuildPointsSummary(receipts []types.Receipt, mode GroupMode, facilityPref string) PointsSummary {
	type groupAccum struct {
		label   string
		count   int
		points  int
		details map[[2]string]*PointsDetail
	}

	groups := make(map[string]*groupAccum)
	patients := make(map[string]bool)
	summary := PointsSummary{}

	for i := range receipts {
		receipt := &receipts[i]
		if receipt.Header == nil {
			continue
		}
		ho := receipt.FindRecord("HO")
		if ho == nil {
			continue
		}

		insurer := strings.TrimSpace(ho.FieldAt(1))
		if insurer == "" {
			insurer = "-"
		}
		points := parsePoints(ho.FieldAt(5))

		summary.TotalCount++
		summary.TotalPoints += points
		if pid := strings.TrimSpace(receipt.Header.PatientID); pid != "" {
			patients[pid] = true
		}

		id, label := pointsGroupKey(insurer, mode, facilityPref)
		accum := groups[id]
		if accum == nil {
			accum = &groupAccum{label: label, details: make(map[[2]string]*PointsDetail)}
			groups[id] = accum
		}
		accum.count++
		accum.points += points

		key := [2]string{receipt.Header.ReceiptType, receipt.Header.YearMonth}
		det := accum.details[key]
		if det == nil {
			det = &PointsDetail{ReceiptType: key[0], YearMonth: key[1]}
			accum.details[key] = det
		}
		det.Count++
		det.Points += points
	}

	summary.UniquePatients = len(patients)

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		accum := groups[id]
		group := PointsGroup{
			ID:     id,
			Label:  accum.label,
			Count:  accum.count,
			Points: accum.points,
		}

		keys := make([][2]string, 0, len(accum.details))
		for key := range accum.details {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(a, b int) bool {
			if keys[a][0] != keys[b][0] {
				return keys[a][0] < keys[b][0]
			}
			return keys[a][1] < keys[b][1]
		})
		for _, key := range keys {
			group.Details = append(group.Details, *accum.details[key])
		}

		summary.Groups = append(summary.Groups, group)
	}

	return summary
}

// pointsGroupKey decides the group identity and display label for an
// insurer number under the given mode.
func pointsGroupKey(insurer string, mode GroupMode, facilityPref string) (id, label string) {
	digits := digitsOnly(insurer)

	koukiPref := ""
	if len(digits) == 8 && strings.HasPrefix(digits, "39") {
		koukiPref = digits[2:4]
	}

	if koukiPref != "" {
		merge := mode == GroupWideByPref ||
			(mode == GroupOwnPrefOnly && koukiPref == padPref(facilityPref))
		if merge {
			prefName, ok := PrefNames[koukiPref]
			if !ok {
				prefName = koukiPref + "県"
			}
			return "pref:" + koukiPref, prefName + "後期高齢者医療広域連合"
		}
	}

	return insurer, insurer
}

// parsePoints converts an HO points field to int, tolerating thousands
// separators. Unparseable values count as zero.
func parsePoints(raw string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// digitsOnly strips every non-digit rune.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CalcPointsFromSI recomputes a receipt's total points from its SI
// records as Σ(points × count). A blank or zero count means the
// procedure happened once.
func CalcPointsFromSI(receipt *types.Receipt) int {
	total := 0
	for i := range receipt.Records {
		rec := &receipt.Records[i]
		if rec.RecordType != "SI" {
			continue
		}
		points := fieldInt(rec.FieldAt(5), 0)
		count := fieldInt(rec.FieldAt(6), 1)
		if count <= 0 {
			count = 1
		}
		total += points * count
	}
	return total
}

// fieldInt parses a numeric field, accepting a decimal point for safety.
func fieldInt(raw string, fallback int) int {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fallback
	}
	return int(f)
}
