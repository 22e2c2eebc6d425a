package reconcile

import (
	"github.com/agentstation/alekit/pkg/ale"
)

// Append stacks the rows of other under the rows of self.
//
// When self is empty the result is a copy of other, heading included.
// Otherwise the result keeps self's heading, its columns are self's columns
// followed by the columns only other has, and cells a source did not have
// are left empty. The column sets' symmetric difference is reported in the
// diagnostics.
func Append(self, other *ale.Document) (*ale.Document, *Diagnostics) {
	diag := &Diagnostics{
		Operation: OperationAppend,
		Sources:   []string{self.Name, other.Name},
	}
	diag.MissingFromSelf, diag.MissingFromOther = columnDifference(self.Table, other.Table)
	diag.Mismatches = len(diag.MissingFromSelf) + len(diag.MissingFromOther)

	if self.IsEmpty() {
		result := other.Copy()
		diag.Rows, diag.Columns = result.Table.Len(), result.Table.NumColumns()
		return result, diag
	}

	result := self.Copy()
	for _, c := range diag.MissingFromSelf {
		// names come from a valid table, so AddColumn cannot fail here
		_ = result.Table.AddColumn(c, "")
	}
	for _, r := range other.Table.Rows() {
		_ = result.Table.AppendRow(r.Map())
	}

	diag.Rows, diag.Columns = result.Table.Len(), result.Table.NumColumns()
	return result, diag
}

// AppendAll folds docs left to right with Append. The diagnostics hold
// the de-duplicated union of every step's column mismatches. With no
// documents the result is an empty document.
func AppendAll(docs ...*ale.Document) (*ale.Document, *Diagnostics) {
	diag := &Diagnostics{Operation: OperationAppendAll}
	if len(docs) == 0 {
		return ale.New(), diag
	}

	result := docs[0].Copy()
	diag.Sources = append(diag.Sources, docs[0].Name)

	var selfSeen, otherSeen = map[string]bool{}, map[string]bool{}
	distinct := map[string]bool{}
	for _, doc := range docs[1:] {
		var step *Diagnostics
		result, step = Append(result, doc)
		diag.Sources = append(diag.Sources, doc.Name)

		for _, c := range step.MissingFromSelf {
			if !selfSeen[c] {
				selfSeen[c] = true
				diag.MissingFromSelf = append(diag.MissingFromSelf, c)
			}
			distinct[c] = true
		}
		for _, c := range step.MissingFromOther {
			if !otherSeen[c] {
				otherSeen[c] = true
				diag.MissingFromOther = append(diag.MissingFromOther, c)
			}
			distinct[c] = true
		}
	}

	diag.Mismatches = len(distinct)
	diag.Rows, diag.Columns = result.Table.Len(), result.Table.NumColumns()
	return result, diag
}

// columnDifference returns the columns only b has and the columns only a
// has, each in its table's column order.
func columnDifference(a, b *ale.Table) (onlyB, onlyA []string) {
	for _, c := range b.Columns() {
		if !a.HasColumn(c) {
			onlyB = append(onlyB, c)
		}
	}
	for _, c := range a.Columns() {
		if !b.HasColumn(c) {
			onlyA = append(onlyA, c)
		}
	}
	return onlyB, onlyA
}
