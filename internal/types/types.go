// =============================================================================
// UKE Receipt Viewer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - ukeparser
//   - analyzer
//   - search
//
// =============================================================================

package types

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record represents one non-blank line of a UKE interchange file.
// A Record is immutable once created.
type Record struct {
	// LineNo is the 1-based physical line number in the source file.
	// Blank lines still advance the counter even though they produce
	// no Record of their own.
	LineNo int

	// Raw is the full line text with the line terminator stripped.
	Raw string

	// RecordType is the leading 2-character alphanumeric tag
	// (RE, HO, SY, SI, IY, TO, CO, IR, ...).
	// Lines with no recognizable tag get the sentinel "??".
	RecordType string

	// Fields is the raw line split on ',' with no quoting, escaping,
	// or trimming. Trimming is the consumer's responsibility.
	Fields []string
}

// FieldAt returns the field at index i, or "" when the record is too
// short. Shared by every record-type handler so the bounds check is
// written exactly once.
func (r *Record) FieldAt(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// =============================================================================
// RECEIPT TYPES
// =============================================================================

// Receipt is one patient billing claim: the run of records from one RE
// boundary record up to (not including) the next.
type Receipt struct {
	// Index is the 1-based receipt sequence number within the file.
	Index int

	// StartLine is the line number of the opening RE record.
	StartLine int

	// Records holds every record belonging to this receipt, in file
	// order, starting with the RE record. A Receipt owns its Records
	// exclusively.
	Records []Record

	// Header is the heuristically recovered header, derived from the
	// RE record's fields. Nil only if the receipt somehow has no RE
	// record.
	Header *Header

	// Diseases holds one entry per SY record, in file order.
	// Populated by ukeparser.AttachDiseases.
	Diseases []DiseaseEntry
}

// EndLine returns the line number of the receipt's last record, or
// StartLine for an empty receipt.
func (r *Receipt) EndLine() int {
	if len(r.Records) == 0 {
		return r.StartLine
	}
	return r.Records[len(r.Records)-1].LineNo
}

// FindRecord returns the first record of the given type, or nil.
func (r *Receipt) FindRecord(recordType string) *Record {
	for i := range r.Records {
		if r.Records[i].RecordType == recordType {
			return &r.Records[i]
		}
	}
	return nil
}

// =============================================================================
// HEADER TYPES
// =============================================================================

// Header holds the attributes recovered from a receipt's RE record.
//
// Field positions in RE records are not reliably stable across source
// variants, so every attribute is detected by pattern rather than fixed
// offset. Undetected attributes are empty strings; construction never
// fails and RawRecord always keeps the original line for audit.
type Header struct {
	// RawRecord is the unmodified RE line.
	RawRecord string

	// PatientID is the detected patient identifier (2-10 digits).
	PatientID string

	// YearMonth is the detected treatment month (YYYYMM).
	YearMonth string

	// ReceiptType is the receipt type code taken positionally from the
	// second field of the RE record.
	ReceiptType string

	// Name is the detected kanji patient name.
	Name string

	// NameKana is the detected katakana patient name.
	NameKana string

	// Sex is the detected sex code ("1" or "2").
	Sex string

	// Birthday is the detected birth date (YYYYMMDD, loosely checked).
	Birthday string

	// DepartmentCodes holds up to 3 detected department codes.
	// Only populated when a known-code set is supplied to the detector.
	DepartmentCodes []string

	// FieldMap records the literal value used for each detected
	// attribute ("" when undetected). This exists for diagnostics and
	// golden-output tests independent of the struct fields above.
	FieldMap map[string]string
}

// =============================================================================
// DISEASE TYPES
// =============================================================================

// DiseaseEntry is the decoded content of one SY (disease) record.
type DiseaseEntry struct {
	// Code is the disease master code.
	Code string

	// StartDate is the treatment start date (YYYYMMDD).
	StartDate string

	// Outcome is the outcome classification code (転帰区分).
	Outcome string

	// IsMain reports whether the record is flagged as the main disease.
	IsMain bool

	// ModifierCodes are the 4-digit modifier codes unpacked from the
	// concatenated modifier field, in field order.
	ModifierCodes []string
}

// =============================================================================
// MASTER TABLE TYPES
// =============================================================================

// MasterEntry is one row of a code-to-name master table.
type MasterEntry struct {
	// Name is the kanji name for the code.
	Name string `json:"name"`

	// Kana is the katakana reading, when the master carries one.
	Kana string `json:"kana"`

	// EndYMD is the abolition date (YYYYMMDD) for masters that carry
	// one. Empty, 00000000 and 99999999 all mean "still current".
	EndYMD string `json:"end_ymd,omitempty"`
}

// MasterTable maps a domain code to its attributes.
// Code uniqueness is last-write-wins across source files.
type MasterTable map[string]MasterEntry
