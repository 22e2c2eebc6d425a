// Package ale implements the ALE (Avid Log Exchange) document model:
// an ordered heading block followed by a tab-separated table.
//
// Documents are loaded with Load or Parse, edited in place, and written
// back with Save or Write. Writing a parsed document reproduces its heading
// and table exactly.
package ale

import (
	"fmt"
	"strings"

	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
)

// Document is an ALE file held in memory. A Document is owned by a single
// caller; none of its methods are safe for concurrent use.
type Document struct {
	// Name is the display identifier: the source file's base name, or "Empty".
	Name string

	// Path is the file the document was loaded from, if any.
	Path string

	// Heading holds the metadata block (frame rate, tape, video format...).
	Heading *Heading

	// Table holds the columns and rows.
	Table *Table
}

// New creates an empty document.
func New() *Document {
	t, _ := NewTable()
	return &Document{
		Name:    constants.EmptyDocumentName,
		Heading: NewHeading(),
		Table:   t,
	}
}

// IsEmpty reports whether the document has neither columns nor rows.
// A table reduced to zero columns keeps its rows and is not empty.
func (d *Document) IsEmpty() bool {
	return d.Table.NumColumns() == 0 && d.Table.Len() == 0
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	return &Document{
		Name:    d.Name,
		Path:    d.Path,
		Heading: d.Heading.Copy(),
		Table:   d.Table.Copy(),
	}
}

// SortColumns reorders the columns alphabetically left to right.
func (d *Document) SortColumns() {
	d.Table.SortColumns()
}

// SortRows sorts the rows by the given columns.
func (d *Document) SortRows(columns ...string) error {
	return d.Table.SortRows(columns...)
}

// DuplicateColumn copies column src into dst. An existing dst is only
// replaced when overwrite is set.
func (d *Document) DuplicateColumn(src, dst string, overwrite bool) error {
	if !d.Table.HasColumn(src) {
		return errors.NewMissingColumnError(src)
	}
	if d.Table.HasColumn(dst) && !overwrite {
		return &errors.DataError{Column: dst, Message: "column already exists, use overwrite to replace it"}
	}
	return d.Table.MapColumn(dst, func(r Row) (string, error) {
		return r.Get(src), nil
	})
}

// Validate reports issues that are likely to upset editorial systems
// reading this document. None of them prevent the document from being
// edited or saved.
func (d *Document) Validate() []error {
	var errs []error

	seen := make(map[string]string)
	for _, c := range d.Table.columns {
		folded := strings.ToLower(c)
		if prev, ok := seen[folded]; ok {
			errs = append(errs, errors.NewValidationError("columns", []string{prev, c},
				fmt.Sprintf("columns %q and %q differ only by case", prev, c)))
			continue
		}
		seen[folded] = c
	}

	for _, e := range d.Heading.Entries() {
		if strings.ContainsAny(e.Key, " \t\r\n") || e.Key == "" {
			errs = append(errs, errors.NewValidationError("heading", e.Key, "heading key must be a single word"))
		}
		if strings.ContainsAny(e.Value, "\r\n") {
			errs = append(errs, errors.NewValidationError("heading", e.Key, "heading value contains a line break"))
		}
	}

	for i, row := range d.Table.rows {
		for j, v := range row {
			if strings.ContainsAny(v, "\t\r\n") {
				errs = append(errs, errors.NewValidationError(d.Table.columns[j], v,
					fmt.Sprintf("row %d contains a tab or line break", i+1)))
			}
		}
	}

	return errs
}

// String renders the document the way it is previewed in the CLI:
// name, heading entries and the table as tab-separated text.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteByte('\n')
	for _, e := range d.Heading.Entries() {
		fmt.Fprintf(&b, "%s\t%s\n", e.Key, e.Value)
	}
	b.WriteByte('\n')
	b.WriteString(strings.Join(d.Table.columns, constants.FieldDelimiter))
	b.WriteByte('\n')
	for _, row := range d.Table.rows {
		b.WriteString(strings.Join(row, constants.FieldDelimiter))
		b.WriteByte('\n')
	}
	return b.String()
}

// Snapshot is a plain, serializable view of a document used by output
// formatters.
type Snapshot struct {
	Name    string              `json:"name" yaml:"name"`
	Heading []Entry             `json:"heading" yaml:"heading"`
	Columns []string            `json:"columns" yaml:"columns"`
	Rows    []map[string]string `json:"rows" yaml:"rows"`
}

// Snapshot returns a serializable copy of the document.
func (d *Document) Snapshot() Snapshot {
	rows := make([]map[string]string, 0, d.Table.Len())
	for _, r := range d.Table.Rows() {
		rows = append(rows, r.Map())
	}
	return Snapshot{
		Name:    d.Name,
		Heading: d.Heading.Entries(),
		Columns: d.Table.Columns(),
		Rows:    rows,
	}
}
