package ale

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
)

// Table is the tabular body of an ALE document: ordered unique column
// names and rows holding exactly one string per column.
//
// Rows are stored positionally. Every mutating method either commits
// completely or leaves the table untouched.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if err := ValidateColumnName(c); err != nil {
			return nil, err
		}
		if _, dup := t.index[c]; dup {
			return nil, &errors.DataError{Column: c, Message: "duplicate column"}
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// ValidateColumnName checks that name can be used as a column name.
func ValidateColumnName(name string) error {
	if name == "" {
		return errors.NewDataError(name, "column name is empty")
	}
	if strings.HasPrefix(name, constants.ReservedColumnPrefix) {
		return errors.NewDataError(name, fmt.Sprintf("column names may not start with %q", constants.ReservedColumnPrefix))
	}
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row {
	return Row{table: t, values: t.rows[i]}
}

// Rows returns read-only views of every row.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Values returns a copy of the cells of column in row order.
func (t *Table) Values(column string) ([]string, error) {
	idx, ok := t.index[column]
	if !ok {
		return nil, errors.NewMissingColumnError(column)
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// AppendValues appends a row given positionally.
func (t *Table) AppendValues(values []string) error {
	if len(values) != len(t.columns) {
		return errors.NewDataError("", fmt.Sprintf("row has %d values, table has %d columns", len(values), len(t.columns)))
	}
	t.rows = append(t.rows, append([]string(nil), values...))
	return nil
}

// AppendRow appends a row given by column name. Columns not present in
// values are left empty.
func (t *Table) AppendRow(values map[string]string) error {
	row := make([]string, len(t.columns))
	for col, v := range values {
		idx, ok := t.index[col]
		if !ok {
			return errors.NewMissingColumnError(col)
		}
		row[idx] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

// AddColumn appends a new column with every cell set to fill.
func (t *Table) AddColumn(name, fill string) error {
	if err := ValidateColumnName(name); err != nil {
		return err
	}
	if t.HasColumn(name) {
		return &errors.DataError{Column: name, Message: "column already exists"}
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
	return nil
}

// RenameColumn renames column old to name. Renaming onto an existing
// column is rejected so no data is silently overwritten.
func (t *Table) RenameColumn(old, name string) error {
	idx, ok := t.index[old]
	if !ok {
		return errors.NewMissingColumnError(old)
	}
	if old == name {
		return nil
	}
	if err := ValidateColumnName(name); err != nil {
		return err
	}
	if t.HasColumn(name) {
		return &errors.DataError{Column: name, Message: "column already exists"}
	}
	delete(t.index, old)
	t.index[name] = idx
	t.columns[idx] = name
	return nil
}

// DeleteColumn removes a column and its cells.
func (t *Table) DeleteColumn(name string) error {
	idx, ok := t.index[name]
	if !ok {
		return errors.NewMissingColumnError(name)
	}
	keep := make([]int, 0, len(t.columns)-1)
	for i := range t.columns {
		if i != idx {
			keep = append(keep, i)
		}
	}
	t.project(keep)
	return nil
}

// MapColumn sets every cell of column to fn(row). The column is created
// when it does not exist. When fn fails for any row the table is left
// unchanged and the error is returned.
func (t *Table) MapColumn(column string, fn func(Row) (string, error)) error {
	idx, exists := t.index[column]
	if !exists {
		if err := ValidateColumnName(column); err != nil {
			return err
		}
	}

	values := make([]string, len(t.rows))
	for i := range t.rows {
		v, err := fn(t.Row(i))
		if err != nil {
			return err
		}
		values[i] = v
	}

	if !exists {
		t.index[column] = len(t.columns)
		t.columns = append(t.columns, column)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], values[i])
		}
		return nil
	}
	for i := range t.rows {
		t.rows[i][idx] = values[i]
	}
	return nil
}

// Select reduces the table to the given columns in the given order.
// Names that are not in the table are skipped and returned; repeated
// names are kept once.
func (t *Table) Select(columns []string) (missing []string) {
	keep := make([]int, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		idx, ok := t.index[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		keep = append(keep, idx)
	}
	t.project(keep)
	return missing
}

// SortColumns reorders the columns into ascending lexical order.
func (t *Table) SortColumns() {
	order := make([]int, len(t.columns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.columns[order[a]] < t.columns[order[b]]
	})
	t.project(order)
}

// SortRows stable-sorts the rows ascending by the given columns, compared
// as strings, first column first.
func (t *Table) SortRows(columns ...string) error {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.index[c]
		if !ok {
			return errors.NewMissingColumnError(c)
		}
		idx[i] = j
	}
	sort.SliceStable(t.rows, func(a, b int) bool {
		for _, j := range idx {
			if t.rows[a][j] != t.rows[b][j] {
				return t.rows[a][j] < t.rows[b][j]
			}
		}
		return false
	})
	return nil
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	c := &Table{
		columns: append([]string(nil), t.columns...),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]string, len(t.rows)),
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	for i, row := range t.rows {
		c.rows[i] = append([]string(nil), row...)
	}
	return c
}

// project rebuilds the table keeping the given column positions in order.
func (t *Table) project(keep []int) {
	columns := make([]string, len(keep))
	index := make(map[string]int, len(keep))
	for i, j := range keep {
		columns[i] = t.columns[j]
		index[columns[i]] = i
	}
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		nr := make([]string, len(keep))
		for i, j := range keep {
			nr[i] = row[j]
		}
		rows[r] = nr
	}
	t.columns, t.index, t.rows = columns, index, rows
}

// Row is a read-only view of one table row.
type Row struct {
	table  *Table
	values []string
}

// Get returns the cell for column, or "" when the column does not exist.
func (r Row) Get(column string) string {
	v, _ := r.Lookup(column)
	return v
}

// Lookup returns the cell for column and whether the column exists.
func (r Row) Lookup(column string) (string, bool) {
	idx, ok := r.table.index[column]
	if !ok {
		return "", false
	}
	return r.values[idx], true
}

// Values returns a copy of the cells in column order.
func (r Row) Values() []string {
	return append([]string(nil), r.values...)
}

// Map returns the row as a column to value map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, c := range r.table.columns {
		m[c] = r.values[i]
	}
	return m
}
