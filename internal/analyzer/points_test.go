package analyzer

import (
	"testing"

	"github.com/recelab/ukeview/internal/types"
)

func receiptWith(patientID, receiptType, yearMonth string, rawRecords ...string) types.Receipt {
	records := make([]types.Record, 0, len(rawRecords))
	for i, raw := range rawRecords {
		records = append(records, record(i+1, raw))
	}
	return types.Receipt{
		Index:   1,
		Records: records,
		Header: &types.Header{
			PatientID:   patientID,
			ReceiptType: receiptType,
			YearMonth:   yearMonth,
		},
	}
}

func TestBuildPointsSummaryByInsurer(t *testing.T) {
	receipts := []types.Receipt{
		receiptWith("100", "1112", "202510", "RE,1,1112,202510", "HO,06123456,,1,5,1234"),
		receiptWith("200", "1112", "202510", "RE,2,1112,202510", "HO,06123456,,1,5,2000"),
		receiptWith("100", "1118", "202509", "RE,3,1118,202509", "HO,39131234,,1,5,500"),
	}

	summary := BuildPointsSummary(receipts, GroupByInsurer, "13")

	if summary.TotalCount != 3 {
		t.Errorf("TotalCount = %d", summary.TotalCount)
	}
	if summary.TotalPoints != 1234+2000+500 {
		t.Errorf("TotalPoints = %d", summary.TotalPoints)
	}
	if summary.UniquePatients != 2 {
		t.Errorf("UniquePatients = %d", summary.UniquePatients)
	}
	if len(summary.Groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(summary.Groups), summary.Groups)
	}

	// Groups sort by ID; "06123456" < "39131234".
	first := summary.Groups[0]
	if first.Label != "06123456" || first.Count != 2 || first.Points != 3234 {
		t.Errorf("insurer group = %+v", first)
	}
	if len(first.Details) != 1 {
		t.Fatalf("details = %+v", first.Details)
	}
	if d := first.Details[0]; d.ReceiptType != "1112" || d.YearMonth != "202510" || d.Count != 2 {
		t.Errorf("detail = %+v", d)
	}
}

func TestBuildPointsSummaryMergesKoukiByPref(t *testing.T) {
	receipts := []types.Receipt{
		receiptWith("1", "1312", "202510", "RE,1", "HO,39131111,,1,5,100"),
		receiptWith("2", "1312", "202510", "RE,2", "HO,39132222,,1,5,200"),
		receiptWith("3", "1312", "202510", "RE,3", "HO,39279999,,1,5,400"),
	}

	summary := BuildPointsSummary(receipts, GroupWideByPref, "13")
	if len(summary.Groups) != 2 {
		t.Fatalf("got %d groups, want 2 (Tokyo merged, Osaka merged separately)", len(summary.Groups))
	}

	var tokyo *PointsGroup
	for i := range summary.Groups {
		if summary.Groups[i].ID == "pref:13" {
			tokyo = &summary.Groups[i]
		}
	}
	if tokyo == nil {
		t.Fatalf("no pref:13 group in %+v", summary.Groups)
	}
	if tokyo.Label != "東京都後期高齢者医療広域連合" {
		t.Errorf("label = %q", tokyo.Label)
	}
	if tokyo.Count != 2 || tokyo.Points != 300 {
		t.Errorf("tokyo group = %+v", tokyo)
	}
}

func TestBuildPointsSummaryOwnPrefOnly(t *testing.T) {
	receipts := []types.Receipt{
		receiptWith("1", "1312", "202510", "RE,1", "HO,39131111,,1,5,100"),
		receiptWith("2", "1312", "202510", "RE,2", "HO,39271111,,1,5,200"),
	}

	summary := BuildPointsSummary(receipts, GroupOwnPrefOnly, "13")
	ids := make(map[string]bool)
	for _, g := range summary.Groups {
		ids[g.ID] = true
	}
	if !ids["pref:13"] {
		t.Error("own-prefecture insurer should be merged into pref:13")
	}
	if !ids["39271111"] {
		t.Error("foreign-prefecture insurer should stay per-insurer")
	}
}

func TestBuildPointsSummarySkipsIncompleteReceipts(t *testing.T) {
	noHO := receiptWith("1", "1112", "202510", "RE,1,1112,202510")
	noHeader := types.Receipt{Records: []types.Record{record(1, "HO,06,,1,5,100")}}

	summary := BuildPointsSummary([]types.Receipt{noHO, noHeader}, GroupByInsurer, "")
	if summary.TotalCount != 0 || len(summary.Groups) != 0 {
		t.Errorf("incomplete receipts should contribute nothing: %+v", summary)
	}
}

func TestCalcPointsFromSI(t *testing.T) {
	receipt := receiptWith("1", "1112", "202510",
		"SI,1,1,110000001,,288,1",
		"SI,1,1,120000002,,75,3",
		// Blank and zero counts bill once; IY records are ignored.
		"SI,1,1,130000003,,50,",
		"SI,1,1,140000004,,60,0",
		"IY,1,1,610000001,,10,5",
	)

	got := CalcPointsFromSI(&receipt)
	want := 288 + 75*3 + 50 + 60
	if got != want {
		t.Errorf("CalcPointsFromSI() = %d, want %d", got, want)
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1234", 1234},
		{"1,234", 1234},
		{" 500 ", 500},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parsePoints(tt.in); got != tt.want {
			t.Errorf("parsePoints(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
