// =============================================================================
// UKE Receipt Viewer - Facility Information
// =============================================================================
//
// A UKE file opens with a single IR record describing the submitting
// medical institution. This module extracts it into a FacilityInfo and
// resolves the payer-kind and prefecture codes against their fixed tables.
//
// IR field layout (1-based positions within the comma-split record):
//   1: payer kind (支払機関: 1-4)
//   2: prefecture code (01-47)
//   4: institution code
//   5: department (often empty)
//   6: institution name
//   7: claim year-month (YYYYMM)
//   8: volume identifier
//
// =============================================================================

package analyzer

import (
	"fmt"
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// PrefNames maps the two-digit prefecture code to the prefecture name.
var PrefNames = map[string]string{
	"01": "北海道", "02": "青森県", "03": "岩手県", "04": "宮城県", "05": "秋田県",
	"06": "山形県", "07": "福島県", "08": "茨城県", "09": "栃木県", "10": "群馬県",
	"11": "埼玉県", "12": "千葉県", "13": "東京都", "14": "神奈川県", "15": "新潟県",
	"16": "富山県", "17": "石川県", "18": "福井県", "19": "山梨県", "20": "長野県",
	"21": "岐阜県", "22": "静岡県", "23": "愛知県", "24": "三重県", "25": "滋賀県",
	"26": "京都府", "27": "大阪府", "28": "兵庫県", "29": "奈良県", "30": "和歌山県",
	"31": "鳥取県", "32": "島根県", "33": "岡山県", "34": "広島県", "35": "山口県",
	"36": "徳島県", "37": "香川県", "38": "愛媛県", "39": "高知県", "40": "福岡県",
	"41": "佐賀県", "42": "長崎県", "43": "熊本県", "44": "大分県", "45": "宮崎県",
	"46": "鹿児島県", "47": "沖縄県",
}

// PayerTypes maps the payer kind code of the IR record to its name.
var PayerTypes = map[string]string{
	"1": "社保（支払基金）",
	"2": "国保連合会",
	"3": "国保（市町村）",
	"4": "後期高齢者広域連合",
}

// FacilityInfo is the extracted medical institution header.
type FacilityInfo struct {
	PayerCode       string
	PayerName       string
	PrefectureCode  string
	PrefectureName  string
	InstitutionCode string
	InstitutionName string
	Department      string
	ClaimYearMonth  string
	Volume          string
}

// ExtractFacility finds the IR record in records and builds a
// FacilityInfo. Returns nil when the file has no IR record; UKE fragments
// without one are legal input.
func ExtractFacility(records []types.Record) *FacilityInfo {
	var ir *types.Record
	for i := range records {
		if records[i].RecordType == "IR" {
			ir = &records[i]
			break
		}
	}
	if ir == nil {
		return nil
	}

	payerCode := strings.TrimSpace(ir.FieldAt(1))
	prefCode := strings.TrimSpace(ir.FieldAt(2))

	info := &FacilityInfo{
		PayerCode:       payerCode,
		PayerName:       resolve(PayerTypes, payerCode),
		PrefectureCode:  prefCode,
		PrefectureName:  resolve(PrefNames, padPref(prefCode)),
		InstitutionCode: strings.TrimSpace(ir.FieldAt(4)),
		Department:      strings.TrimSpace(ir.FieldAt(5)),
		InstitutionName: strings.TrimSpace(ir.FieldAt(6)),
		ClaimYearMonth:  strings.TrimSpace(ir.FieldAt(7)),
		Volume:          strings.TrimSpace(ir.FieldAt(8)),
	}
	return info
}

// resolve looks code up in table, falling back to the raw code, then "-".
func resolve(table map[string]string, code string) string {
	if name, ok := table[code]; ok {
		return name
	}
	if code != "" {
		return code
	}
	return "-"
}

// padPref left-pads a prefecture code to two digits ("1" -> "01").
func padPref(code string) string {
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// FormatClaimYM renders a YYYYMM claim month in the short era notation
// used on paper receipts: 202509 -> "R07.09". Heisei is covered for
// 1989-2018; earlier years fall back to the western year.
func FormatClaimYM(yyyymm string) string {
	if len(yyyymm) != 6 || !allDigits(yyyymm) {
		return yyyymm
	}

	var year, month int
	fmt.Sscanf(yyyymm[:4], "%d", &year)
	fmt.Sscanf(yyyymm[4:6], "%d", &month)

	switch {
	case year >= 2019:
		return fmt.Sprintf("R%02d.%02d", year-2018, month)
	case year >= 1989:
		return fmt.Sprintf("H%02d.%02d", year-1988, month)
	default:
		return fmt.Sprintf("%d.%02d", year, month)
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
