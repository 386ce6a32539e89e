package search

import (
	"testing"

	"github.com/recelab/ukeview/internal/types"
)

func headerReceipt(patientID, name, kana, yearMonth, receiptType string) types.Receipt {
	return types.Receipt{
		Header: &types.Header{
			PatientID:   patientID,
			Name:        name,
			NameKana:    kana,
			YearMonth:   yearMonth,
			ReceiptType: receiptType,
		},
	}
}

func TestNormalizeYearMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"202510", "202510"},
		{"2025-10", "202510"},
		{"2025/10", "202510"},
		{"R7.10", "710"},
		{"20251001", "202510"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeYearMonth(tt.in); got != tt.want {
			t.Errorf("NormalizeYearMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchByHeader(t *testing.T) {
	receipts := []types.Receipt{
		headerReceipt("12345", "山田太郎", "ヤマダタロウ", "202510", "1112"),
		headerReceipt("67890", "佐藤花子", "サトウハナコ", "202509", "1118"),
		headerReceipt("11111", "山田次郎", "ヤマダジロウ", "202510", "1112"),
	}

	tests := []struct {
		name string
		cond HeaderCondition
		want []int
	}{
		{"by patient id", HeaderCondition{PatientID: "678"}, []int{1}},
		{"by name substring", HeaderCondition{Name: "山田"}, []int{0, 2}},
		{"by kana", HeaderCondition{Kana: "ハナコ"}, []int{1}},
		{"by year month", HeaderCondition{YearMonth: "2025/10"}, []int{0, 2}},
		{"by receipt type", HeaderCondition{ReceiptType: "1118"}, []int{1}},
		{"combined AND", HeaderCondition{Name: "山田", PatientID: "111"}, []int{2}},
		{"no match", HeaderCondition{Name: "鈴木"}, nil},
		{"empty condition", HeaderCondition{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchByHeader(receipts, tt.cond)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMatchHeaderNoHeader(t *testing.T) {
	receipt := types.Receipt{}
	if MatchHeader(&receipt, HeaderCondition{Name: "x"}) {
		t.Error("headerless receipt must not match")
	}
}
