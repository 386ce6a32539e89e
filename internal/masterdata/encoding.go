// =============================================================================
// UKE Receipt Viewer - Legacy Encoding Support
// =============================================================================
//
// Master files and UKE files both come out of Japanese medical billing
// systems that still write Shift_JIS (usually the Windows code page 932
// variant), occasionally EUC-JP, and only recently UTF-8. Nothing in the
// files declares the encoding, so it has to be guessed.
//
// Two strategies live here:
//
//   DecodeBytes     - ordered fallback for master files: try each candidate
//                     until one decodes without loss. Fast, and right for
//                     machine-generated tables.
//   DecodeScored    - scoring decode for UKE input files: decode with every
//                     candidate and keep the text that looks most like
//                     Japanese. More robust against short files where an
//                     encoding accidentally "succeeds".
//
// Go's japanese.ShiftJIS decoder is the Microsoft variant, so it covers
// both the cp932 and plain Shift_JIS cases in one candidate.
//
// =============================================================================

package masterdata

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// utf8BOM is the UTF-8 byte order mark some Windows tools prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeCandidate is one entry of the ordered fallback chain.
type decodeCandidate struct {
	name string
	enc  encoding.Encoding
}

// legacyCandidates is the fallback order for master files. Shift_JIS
// first: it is by far the most common provenance.
var legacyCandidates = []decodeCandidate{
	{"shift_jis", japanese.ShiftJIS},
	{"euc_jp", japanese.EUCJP},
}

// DecodeBytes decodes raw with the first encoding that succeeds without a
// decode failure: Shift_JIS, then EUC-JP, then UTF-8 (a leading BOM is
// stripped). If every candidate rejects the bytes, the Shift_JIS decode
// is forced with undecodable bytes replaced; that result is final.
func DecodeBytes(raw []byte) string {
	for _, cand := range legacyCandidates {
		if text, ok := tryDecode(raw, cand.enc); ok {
			return text
		}
	}

	// BOM first: a BOM prefix is itself valid UTF-8, so the plain check
	// would otherwise keep the U+FEFF in the text.
	if bytes.HasPrefix(raw, utf8BOM) && utf8.Valid(raw[len(utf8BOM):]) {
		return string(raw[len(utf8BOM):])
	}
	if utf8.Valid(raw) {
		return string(raw)
	}

	// Last resort: lossy Shift_JIS.
	text, _ := japanese.ShiftJIS.NewDecoder().String(string(raw))
	return text
}

// tryDecode decodes raw with enc and reports whether the result is
// loss-free. The x/text decoders substitute U+FFFD for undecodable bytes
// instead of erroring, so loss is detected by scanning for the
// substitution rune.
func tryDecode(raw []byte, enc encoding.Encoding) (string, bool) {
	text, err := enc.NewDecoder().String(string(raw))
	if err != nil {
		return "", false
	}
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}

// DecodeScored decodes raw with every candidate encoding (Shift_JIS,
// EUC-JP, UTF-8) and returns the text scoring highest, along with the name
// of the winning encoding.
//
// Score = (#hiragana/katakana/kanji runes)
//         - 10 * (#substitution runes)
//         -  2 * (#control characters other than CR/LF/TAB)
//
// When no candidate decodes at all, a lossy Shift_JIS decode wins by
// default.
func DecodeScored(raw []byte) (text string, encodingName string) {
	body := raw
	if bytes.HasPrefix(body, utf8BOM) {
		body = body[len(utf8BOM):]
	}

	bestScore := 0
	found := false

	try := func(name, candidate string, ok bool) {
		if !ok {
			return
		}
		score := japaneseScore(candidate)
		if !found || score > bestScore {
			found = true
			bestScore = score
			text = candidate
			encodingName = name
		}
	}

	for _, cand := range legacyCandidates {
		decoded, err := cand.enc.NewDecoder().String(string(body))
		try(cand.name, decoded, err == nil)
	}
	try("utf-8", string(body), utf8.Valid(body))

	if !found {
		lossy, _ := japanese.ShiftJIS.NewDecoder().String(string(body))
		return lossy, "shift_jis"
	}
	return text, encodingName
}

// japaneseScore rates decoded text by how much it looks like Japanese.
func japaneseScore(text string) int {
	score := 0
	for _, r := range text {
		switch {
		case r >= '぀' && r <= 'ヿ': // hiragana + katakana
			score++
		case r >= '一' && r <= '鿿': // CJK ideographs
			score++
		case r == utf8.RuneError:
			score -= 10
		case r < 0x20 && r != '\r' && r != '\n' && r != '\t':
			score -= 2
		}
	}
	return score
}
