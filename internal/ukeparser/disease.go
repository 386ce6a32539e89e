// =============================================================================
// UKE Receipt Viewer - Disease Record Decoding
// =============================================================================
//
// SY record layout (0-based field indices):
//   0: record tag (SY)
//   1: 傷病名コード   disease master code
//   2: 診療開始日     treatment start date (YYYYMMDD)
//   3: 転帰区分       outcome classification
//   4: 修飾語コード   packed 4-digit modifier codes
//   5: 傷病名称       free-text disease name (worked-example records only)
//   6: 主傷病         main-disease flag
//   7: 補足コメント   supplementary comment
//
// =============================================================================

package ukeparser

import (
	"strings"

	"github.com/recelab/ukeview/internal/types"
)

// modifierCodeWidth is the fixed width of a single modifier code.
const modifierCodeWidth = 4

// AttachDiseases decodes every SY record of the receipt into DiseaseEntry
// values, in file order, and stores them on the receipt.
//
// knownModifiers is the modifier master's key set; pass nil to keep every
// full 4-digit chunk of the packed modifier field.
func AttachDiseases(receipt *types.Receipt, knownModifiers map[string]bool) {
	var diseases []types.DiseaseEntry

	for i := range receipt.Records {
		rec := &receipt.Records[i]
		if rec.RecordType != "SY" {
			continue
		}

		mainFlag := strings.TrimSpace(rec.FieldAt(6))

		diseases = append(diseases, types.DiseaseEntry{
			Code:      strings.TrimSpace(rec.FieldAt(1)),
			StartDate: strings.TrimSpace(rec.FieldAt(2)),
			Outcome:   strings.TrimSpace(rec.FieldAt(3)),
			IsMain:    mainFlag == "1" || mainFlag == "主",
			ModifierCodes: SplitFixedWidth(
				strings.TrimSpace(rec.FieldAt(4)),
				modifierCodeWidth,
				knownModifiers,
			),
		})
	}

	receipt.Diseases = diseases
}
