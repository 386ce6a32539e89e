package analyzer

import (
	"testing"

	"github.com/recelab/ukeview/internal/types"
)

func TestDescribeMedicalReceiptType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"1111", "医科単独 本人 入院"},
		{"1112", "医科単独 本人 入院外"},
		{"1113", "医科単独 未就学者 入院"},
		{"1116", "医科単独 家族 入院外"},
		{"1117", "医科単独 高齢（一般・低所得） 入院"},
		{"1119", "医科単独 高齢７割 入院"},
		{"1110", "医科単独 高齢７割 入院外"},
		{"1122", "医科＋１種公費 本人 入院外"},
		{"1134", "医科＋２種公費 未就学者 入院外"},
		{"1191", "医科（その他） 本人 入院"},
		{"2112", "種別コード 2112"},
		{"11", "種別コード 11"},
		{"11ab", "種別コード 11ab"},
		{"", "種別コード -"},
	}

	for _, tt := range tests {
		if got := DescribeMedicalReceiptType(tt.code); got != tt.want {
			t.Errorf("DescribeMedicalReceiptType(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestBuildReceiptTypeSummaryFromTable(t *testing.T) {
	receipt := receiptWith("100", "1112", "202510", "RE,1,1112,202510")
	got := BuildReceiptTypeSummary(&receipt)
	if got != "医科・医保単独・本人/世帯主・入院外" {
		t.Errorf("summary = %q, want bundled description", got)
	}
}

func TestBuildReceiptTypeSummaryFallback(t *testing.T) {
	// Unknown receipt type: assembled from SN and MF codes.
	receipt := receiptWith("100", "9999", "202510",
		"RE,1,9999,202510",
		"SN,1,01",
		"MF,04")
	got := BuildReceiptTypeSummary(&receipt)
	want := "医科  医療保険  窓口負担なし  入院外"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestBuildReceiptTypeSummaryFallbackUnknownCodes(t *testing.T) {
	receipt := receiptWith("100", "", "202510",
		"RE,1,,202510",
		"SN,XX")
	got := BuildReceiptTypeSummary(&receipt)
	want := "医科  XX  入院外"
	if got != want {
		t.Errorf("summary = %q, want unresolved codes echoed, got %q", got, got)
	}
}

func TestBuildReceiptTypeSummaryNilReceipt(t *testing.T) {
	if got := BuildReceiptTypeSummary(nil); got != "-" {
		t.Errorf("nil receipt summary = %q", got)
	}
	if got := BuildReceiptTypeSummary(&types.Receipt{}); got != "-" {
		t.Errorf("headerless receipt summary = %q", got)
	}
}

func TestCalcAge(t *testing.T) {
	tests := []struct {
		birthday  string
		yearMonth string
		want      string
		ok        bool
	}{
		{"19800101", "202510", "45", true},
		{"19801101", "202510", "44", true}, // birthday after reference month
		{"19801001", "202510", "45", true}, // birthday on the reference day
		{"20251001", "202510", "0", true},
		{"1980010", "202510", "", false},
		{"19800101", "20251", "", false},
		{"19801301", "202510", "", false},
		{"", "202510", "", false},
	}

	for _, tt := range tests {
		got, ok := CalcAge(tt.birthday, tt.yearMonth)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CalcAge(%q, %q) = (%q, %v), want (%q, %v)",
				tt.birthday, tt.yearMonth, got, ok, tt.want, tt.ok)
		}
	}
}
