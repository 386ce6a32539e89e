package ukeparser

import (
	"testing"

	"github.com/recelab/ukeview/internal/types"
)

func headerFromFields(fields ...string) *types.Header {
	raw := ""
	for i, f := range fields {
		if i > 0 {
			raw += ","
		}
		raw += f
	}
	return ExtractHeader(&types.Record{
		LineNo:     1,
		Raw:        raw,
		RecordType: "RE",
		Fields:     fields,
	})
}

func TestExtractHeaderTypical(t *testing.T) {
	h := headerFromFields("RE", "11", "202510", "山田太郎", "ヤマダタロウ", "1", "19800101", "12345")

	if h.YearMonth != "202510" {
		t.Errorf("year month: expected 202510, got %q", h.YearMonth)
	}
	if h.Name != "山田太郎" {
		t.Errorf("name: expected 山田太郎, got %q", h.Name)
	}
	if h.NameKana != "ヤマダタロウ" {
		t.Errorf("kana: expected ヤマダタロウ, got %q", h.NameKana)
	}
	if h.Birthday != "19800101" {
		t.Errorf("birthday: expected 19800101, got %q", h.Birthday)
	}
	if h.PatientID != "12345" {
		t.Errorf("patient id: expected 12345, got %q", h.PatientID)
	}
	if h.Sex != "1" {
		t.Errorf("sex: expected 1, got %q", h.Sex)
	}
	if h.ReceiptType != "11" {
		t.Errorf("receipt type: expected 11, got %q", h.ReceiptType)
	}
}

func TestExtractHeaderFieldMap(t *testing.T) {
	h := headerFromFields("RE", "11", "202510", "山田太郎", "ヤマダタロウ", "1", "19800101", "12345")

	want := map[string]string{
		"receipt_type_field":  "11",
		"year_month_detected": "202510",
		"patient_id_detected": "12345",
		"name_detected":       "山田太郎",
		"name_kana_detected":  "ヤマダタロウ",
		"birthday_detected":   "19800101",
		"sex_detected":        "1",
	}
	for k, v := range want {
		if h.FieldMap[k] != v {
			t.Errorf("field map %s: expected %q, got %q", k, v, h.FieldMap[k])
		}
	}
}

func TestDetectYearMonth(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{"plain", []string{"RE", "202510"}, "202510"},
		{"first match wins", []string{"202503", "202510"}, "202503"},
		{"year below range", []string{"199912"}, ""},
		{"year above range", []string{"210001"}, ""},
		{"month zero", []string{"202500"}, ""},
		{"month thirteen", []string{"202513"}, ""},
		{"not digits", []string{"2025年10"}, ""},
		{"absent", []string{"RE", "abc"}, ""},
	}

	for _, tt := range tests {
		got, _ := detectYearMonth(tt.fields)
		if got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestDetectPatientIDReverseScan(t *testing.T) {
	// Two digit fields: the later one wins because patient numbers sit
	// towards the end of the record.
	got, ok := detectPatientID([]string{"RE", "123", "98765"}, "")
	if !ok || got != "98765" {
		t.Errorf("expected 98765, got %q", got)
	}

	// The detected year month is excluded even though it would match.
	got, ok = detectPatientID([]string{"RE", "12345", "202510"}, "202510")
	if !ok || got != "12345" {
		t.Errorf("expected 12345, got %q", got)
	}

	// Length bounds: 1 digit too short, 11 digits too long.
	if _, ok := detectPatientID([]string{"7"}, ""); ok {
		t.Error("single digit must not match")
	}
	if _, ok := detectPatientID([]string{"12345678901"}, ""); ok {
		t.Error("11 digits must not match")
	}
}

func TestDetectBirthdayLooseCalendar(t *testing.T) {
	// Day 31 in April passes: the check is plausibility, not a calendar.
	got, ok := detectBirthday([]string{"20000431"})
	if !ok || got != "20000431" {
		t.Errorf("expected loose calendar to accept 20000431, got %q", got)
	}

	if _, ok := detectBirthday([]string{"18991231"}); ok {
		t.Error("year 1899 must not match")
	}
	if _, ok := detectBirthday([]string{"20000132"}); ok {
		t.Error("day 32 must not match")
	}
	if _, ok := detectBirthday([]string{"20001301"}); ok {
		t.Error("month 13 must not match")
	}
}

func TestDetectSexPrefersAfterName(t *testing.T) {
	// "1" appears before the name too; only the one following it should
	// be picked when present.
	fields := []string{"RE", "1", "山田太郎", "2", "19800101"}
	got, ok := detectSex(fields, 2)
	if !ok || got != "2" {
		t.Errorf("expected 2 (after name), got %q", got)
	}

	// No candidate after the name: fall back to anywhere.
	fields = []string{"RE", "1", "山田太郎", "19800101"}
	got, ok = detectSex(fields, 2)
	if !ok || got != "1" {
		t.Errorf("expected fallback 1, got %q", got)
	}

	// Nothing anywhere.
	if _, ok := detectSex([]string{"RE", "3", "x"}, -1); ok {
		t.Error("expected no sex code")
	}
}

func TestExtractHeaderNeverFails(t *testing.T) {
	tests := [][]string{
		{},
		{"RE"},
		{"RE", "", "", ""},
		{"??", "garbage", "###"},
	}

	for _, fields := range tests {
		h := headerFromFields(fields...)
		if h == nil {
			t.Fatalf("fields %v: header must never be nil", fields)
		}
		if h.FieldMap == nil {
			t.Errorf("fields %v: field map must never be nil", fields)
		}
	}
}

func TestDetectNameKanaHalfWidth(t *testing.T) {
	got, ok := detectNameKana([]string{"RE", "ﾔﾏﾀﾞﾀﾛｳ", "11"})
	if !ok || got != "ﾔﾏﾀﾞﾀﾛｳ" {
		t.Errorf("expected half-width kana match, got %q", got)
	}

	// Single-character fields never match.
	if _, ok := detectNameKana([]string{"ア"}); ok {
		t.Error("one-character field must not match")
	}
}

func TestDetectDepartmentCodes(t *testing.T) {
	known := map[string]string{"01": "内科", "05": "外科"}

	codes := DetectDepartmentCodes([]string{"RE", "01", "99", "05", "x"}, known)
	if len(codes) != 2 || codes[0] != "01" || codes[1] != "05" {
		t.Errorf("expected [01 05], got %v", codes)
	}

	// Without a known set nothing is detected.
	if codes := DetectDepartmentCodes([]string{"01"}, nil); codes != nil {
		t.Errorf("expected nil without known set, got %v", codes)
	}
}
