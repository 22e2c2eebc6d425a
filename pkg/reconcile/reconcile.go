// Package reconcile combines ALE documents, either by stacking rows
// (Append) or by joining rows on key columns (Merge).
//
// Reconciliation never fails. Column and key disagreements between the
// inputs are returned as Diagnostics alongside a usable document, leaving
// the caller to decide whether they matter. The inputs are never modified.
package reconcile

// Operation identifies the reconciliation that produced a Diagnostics.
type Operation string

// Reconciliation operations.
const (
	OperationAppend    Operation = "append"
	OperationAppendAll Operation = "append_all"
	OperationMerge     Operation = "merge"
)

// String returns the string representation of an operation.
func (o Operation) String() string {
	return string(o)
}

// Provenance records where a merged row came from.
type Provenance int

const (
	// Matched rows have equal key values in both documents.
	Matched Provenance = iota
	// LeftOnly rows exist only in the first document.
	LeftOnly
	// RightOnly rows exist only in the second document.
	RightOnly
)

// String returns the string representation of a provenance.
func (p Provenance) String() string {
	switch p {
	case Matched:
		return "both"
	case LeftOnly:
		return "left_only"
	case RightOnly:
		return "right_only"
	default:
		return "unknown"
	}
}
