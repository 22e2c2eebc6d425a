package reconcile

import (
	"strconv"
	"strings"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
)

// Merge joins self and other on the key columns with a full outer join.
// With no keys, constants.DefaultKeyColumns is used.
//
// Every left row is kept in order, followed by each right row with equal
// key values; unmatched right rows come last. Duplicate keys match pairwise,
// so nothing is dropped. A non-key column present on both sides is kept
// twice, the right copy renamed with constants.CollisionSuffix. A key
// column missing from a side matches as the empty string and is reported
// in the diagnostics.
//
// When self is empty the result is a copy of other and every one of its
// rows is right-only.
func Merge(self, other *ale.Document, keys ...string) (*ale.Document, *Diagnostics) {
	if len(keys) == 0 {
		keys = append([]string(nil), constants.DefaultKeyColumns...)
	}
	diag := &Diagnostics{
		Operation: OperationMerge,
		Sources:   []string{self.Name, other.Name},
		Keys:      keys,
	}

	if self.IsEmpty() {
		result := other.Copy()
		diag.MissingKeys = missingKeys(keys, other.Table)
		for _, r := range result.Table.Rows() {
			diag.RightOnly = append(diag.RightOnly, keyLabel(keyValues(r, keys)))
			diag.Provenance = append(diag.Provenance, RightOnly)
		}
		diag.Mismatches = len(diag.RightOnly)
		diag.Rows, diag.Columns = result.Table.Len(), result.Table.NumColumns()
		return result, diag
	}

	diag.MissingKeys = missingKeys(keys, self.Table, other.Table)
	plan := planColumns(self.Table, other.Table, keys)
	diag.Collisions = plan.collisions

	table, _ := ale.NewTable(plan.columns...)

	// right rows grouped by key, in right order
	index := make(map[string][]int)
	rightRows := other.Table.Rows()
	for j, r := range rightRows {
		k := lookupKey(keyValues(r, keys))
		index[k] = append(index[k], j)
	}
	matched := make([]bool, len(rightRows))

	for _, l := range self.Table.Rows() {
		values := keyValues(l, keys)
		matches := index[lookupKey(values)]
		if len(matches) == 0 {
			_ = table.AppendValues(plan.row(&l, nil))
			diag.LeftOnly = append(diag.LeftOnly, keyLabel(values))
			diag.Provenance = append(diag.Provenance, LeftOnly)
			continue
		}
		for _, j := range matches {
			matched[j] = true
			_ = table.AppendValues(plan.row(&l, &rightRows[j]))
			diag.Provenance = append(diag.Provenance, Matched)
			diag.Matched++
		}
	}

	for j, r := range rightRows {
		if matched[j] {
			continue
		}
		_ = table.AppendValues(plan.row(nil, &r))
		diag.RightOnly = append(diag.RightOnly, keyLabel(keyValues(r, keys)))
		diag.Provenance = append(diag.Provenance, RightOnly)
	}

	result := &ale.Document{
		Name:    self.Name,
		Path:    self.Path,
		Heading: self.Heading.Copy(),
		Table:   table,
	}
	diag.Mismatches = len(diag.LeftOnly) + len(diag.RightOnly)
	diag.Rows, diag.Columns = table.Len(), table.NumColumns()
	return result, diag
}

// mergePlan maps the columns of both sides onto the merged table.
type mergePlan struct {
	columns    []string
	left       []int // result position of each left column
	right      []int // result position of each right column, -1 for keys
	keys       []int // result position of each key column, -1 when on neither side
	collisions []string
}

func planColumns(left, right *ale.Table, keys []string) *mergePlan {
	p := &mergePlan{}
	taken := make(map[string]bool)
	pos := make(map[string]int)
	add := func(name string) int {
		taken[name] = true
		pos[name] = len(p.columns)
		p.columns = append(p.columns, name)
		return pos[name]
	}

	for _, c := range left.Columns() {
		p.left = append(p.left, add(c))
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
		if !taken[k] && right.HasColumn(k) {
			add(k)
		}
	}
	for _, k := range keys {
		if i, ok := pos[k]; ok {
			p.keys = append(p.keys, i)
		} else {
			p.keys = append(p.keys, -1)
		}
	}

	for _, c := range right.Columns() {
		if isKey[c] {
			p.right = append(p.right, -1)
			continue
		}
		name := c
		if taken[name] {
			p.collisions = append(p.collisions, c)
			for taken[name] {
				name += constants.CollisionSuffix
			}
		}
		p.right = append(p.right, add(name))
	}
	return p
}

// row builds a merged row. Key cells come from the left row when there is
// one, otherwise from the right row.
func (p *mergePlan) row(l, r *ale.Row) []string {
	out := make([]string, len(p.columns))
	if r != nil {
		values := r.Values()
		for i, at := range p.right {
			if at >= 0 {
				out[at] = values[i]
			}
		}
	}
	if l != nil {
		for i, v := range l.Values() {
			out[p.left[i]] = v
		}
		return out
	}
	for _, at := range p.keys {
		if at >= 0 {
			out[at] = r.Get(p.columns[at])
		}
	}
	return out
}

func keyValues(r ale.Row, keys []string) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = r.Get(k)
	}
	return values
}

// lookupKey encodes a key tuple so that distinct tuples never collide,
// whatever the cells contain.
func lookupKey(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Quote(v))
	}
	return b.String()
}

func keyLabel(values []string) string {
	return strings.Join(values, " ")
}

// missingKeys lists the keys absent from any of the tables, once each, in
// key order.
func missingKeys(keys []string, tables ...*ale.Table) []string {
	var missing []string
	for _, k := range keys {
		for _, t := range tables {
			if !t.HasColumn(k) {
				missing = append(missing, k)
				break
			}
		}
	}
	return missing
}
