// =============================================================================
// UKE Receipt Viewer - Receipt Aggregator
// =============================================================================
//
// This module groups a flat record stream into receipts. One UKE file holds
// many patient receipts; each receipt is the bounded run of records starting
// at an RE record and ending just before the next RE record (or end of
// input).
//
// AGGREGATION RULES:
//   - Every RE record opens a new receipt. An already-open receipt is
//     finalized (header attached, appended to output) first.
//   - Records before the first RE record are discarded. Files are assumed
//     well-formed enough to start with a boundary record; pre-boundary noise
//     carries no meaning.
//   - Receipt indices are assigned at open time: 1-based, contiguous,
//     gap-free.
//
// The pass is O(n) in record count with no backtracking.
//
// =============================================================================

package ukeparser

import (
	"github.com/recelab/ukeview/internal/types"
)

// BoundaryRecordType is the record type that opens a new receipt.
const BoundaryRecordType = "RE"

// Group partitions records into receipts at RE boundaries.
//
// The returned receipts each carry a Header extracted from their own RE
// record. The number of receipts always equals the number of RE records in
// the input.
func Group(records []types.Record) []*types.Receipt {
	var receipts []*types.Receipt
	var current *types.Receipt

	finalize := func() {
		if current == nil {
			return
		}
		current.Header = headerFromRecords(current.Records)
		receipts = append(receipts, current)
		current = nil
	}

	for _, rec := range records {
		if rec.RecordType == BoundaryRecordType {
			finalize()
			current = &types.Receipt{
				Index:     len(receipts) + 1,
				StartLine: rec.LineNo,
				Records:   []types.Record{rec},
			}
			continue
		}

		if current == nil {
			// Before the first RE record: drop silently.
			continue
		}
		current.Records = append(current.Records, rec)
	}

	finalize()
	return receipts
}

// headerFromRecords locates the receipt's RE record and extracts its
// header. A receipt with no RE record (not produced by Group, but callers
// may construct receipts directly) yields an all-empty header whose
// RawRecord is "".
func headerFromRecords(records []types.Record) *types.Header {
	for i := range records {
		if records[i].RecordType == BoundaryRecordType {
			return ExtractHeader(&records[i])
		}
	}
	return emptyHeader("")
}
