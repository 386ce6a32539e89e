// =============================================================================
// UKE Receipt Viewer - Receipt Type Classification
// =============================================================================
//
// Receipt type codes (別表5) are 4-digit numerics. For the medical family
// (leading "11") the label decomposes positionally:
//
//   digit 3: payer mix - 1 insurance only, 2-5 insurance plus N public
//            expense programs
//   digit 4: insured category and in/out-patient, in odd/even pairs:
//            1/2 本人, 3/4 未就学者, 5/6 家族, 7/8 高齢（一般・低所得）,
//            9/0 高齢７割; odd = 入院, even = 入院外
//
// Codes outside the medical family are echoed rather than decomposed.
//
// =============================================================================

package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/recelab/ukeview/internal/codetables"
	"github.com/recelab/ukeview/internal/types"
)

// payerMixLabels keys on digit 3 of a medical receipt type code.
var payerMixLabels = map[byte]string{
	'1': "医科単独",
	'2': "医科＋１種公費",
	'3': "医科＋２種公費",
	'4': "医科＋３種公費",
	'5': "医科＋４種公費",
}

// insuredLabels keys on the odd/even pair group of digit 4.
var insuredLabels = map[int]string{
	1: "本人",
	2: "未就学者",
	3: "家族",
	4: "高齢（一般・低所得）",
	5: "高齢７割",
}

// DescribeMedicalReceiptType composes the breakdown label for a medical
// receipt type code, e.g. "医科単独 本人 入院外". Non-medical or
// malformed codes fall back to echoing the code.
func DescribeMedicalReceiptType(code string) string {
	code = strings.TrimSpace(code)
	if len(code) != 4 || !allDigits(code) {
		if code == "" {
			code = "-"
		}
		return fmt.Sprintf("種別コード %s", code)
	}

	if !strings.HasPrefix(code, "11") {
		return fmt.Sprintf("種別コード %s", code)
	}

	mainLabel, ok := payerMixLabels[code[2]]
	if !ok {
		mainLabel = "医科（その他）"
	}

	last := int(code[3] - '0')
	pair := last
	if pair == 0 {
		// 9/0 are the 高齢７割 pair.
		pair = 10
	}
	group := (pair + 1) / 2

	insuredLabel, ok := insuredLabels[group]
	if !ok {
		insuredLabel = "区分不明"
	}

	inout := "入院外"
	if last%2 == 1 {
		inout = "入院"
	}

	return fmt.Sprintf("%s %s %s", mainLabel, insuredLabel, inout)
}

// BuildReceiptTypeSummary builds the 種別 display line for one receipt.
//
// The bundled 別表5 description wins when the header's receipt type code
// is known. Otherwise the line is assembled from the SN (負担者種別) and
// MF (窓口負担額区分) records, bracketed as 医科 ... 入院外.
func BuildReceiptTypeSummary(receipt *types.Receipt) string {
	if receipt == nil || receipt.Header == nil {
		return "-"
	}

	code := strings.TrimSpace(receipt.Header.ReceiptType)
	if code != "" {
		if desc := codetables.ReceiptTypeDescription(code); desc != "" {
			return desc
		}
	}

	parts := []string{"医科"}

	if sn := receipt.FindRecord("SN"); sn != nil {
		if c := strings.TrimSpace(sn.FieldAt(1)); c != "" {
			label := codetables.FutanshaTypeMap()[c]
			if label == "" {
				label = c
			}
			parts = append(parts, label)
		}
	}

	if mf := receipt.FindRecord("MF"); mf != nil {
		if c := strings.TrimSpace(mf.FieldAt(1)); c != "" {
			label := codetables.MadoguchiKbnMap()[c]
			if label == "" {
				label = c
			}
			parts = append(parts, label)
		}
	}

	parts = append(parts, "入院外")
	return strings.Join(parts, "  ")
}

// CalcAge computes the full-year age from a YYYYMMDD birthday, using the
// first day of the YYYYMM treatment month as the reference date. Returns
// ("", false) when either input is malformed.
func CalcAge(birthday, yearMonth string) (string, bool) {
	birthday = strings.TrimSpace(birthday)
	yearMonth = strings.TrimSpace(yearMonth)
	if len(birthday) != 8 || len(yearMonth) != 6 ||
		!allDigits(birthday) || !allDigits(yearMonth) {
		return "", false
	}

	bdate, err := time.Parse("20060102", birthday)
	if err != nil {
		return "", false
	}
	ref, err := time.Parse("200601", yearMonth)
	if err != nil {
		return "", false
	}

	age := ref.Year() - bdate.Year()
	if ref.Month() < bdate.Month() ||
		(ref.Month() == bdate.Month() && ref.Day() < bdate.Day()) {
		age--
	}
	if age < 0 {
		return "", false
	}
	return fmt.Sprintf("%d", age), true
}
