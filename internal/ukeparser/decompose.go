// =============================================================================
// UKE Receipt Viewer - Packed Code Decomposer
// =============================================================================
//
// SY records pack their modifier codes (修飾語コード) into a single field as
// a concatenated digit string: "20572058" is the two 4-digit codes 2057 and
// 2058, each independently resolvable against the modifier master. This
// module splits such packed fields back into their component codes.
//
// =============================================================================

package ukeparser

// SplitFixedWidth partitions the digits of raw into consecutive chunks of
// exactly width characters.
//
// All non-digit characters are stripped first. A trailing partial chunk
// shorter than width is discarded, never zero-padded. When known is
// non-nil, chunks absent from it are filtered out; this avoids
// mis-segmentation when only some code ranges are valid. A nil known set
// passes every full-width chunk through.
func SplitFixedWidth(raw string, width int, known map[string]bool) []string {
	if width <= 0 {
		return nil
	}

	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	var codes []string
	for i := 0; i+width <= len(digits); i += width {
		chunk := string(digits[i : i+width])
		if known != nil && !known[chunk] {
			continue
		}
		codes = append(codes, chunk)
	}
	return codes
}
