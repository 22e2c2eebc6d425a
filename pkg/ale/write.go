package ale

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
)

// Write serializes the document in ALE format: the Heading block, the
// Column row and the Data rows, each value written verbatim.
func (d *Document) Write(w io.Writer) error {
	if err := d.checkWritable(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(constants.HeadingMarker + "\n")
	for _, e := range d.Heading.Entries() {
		bw.WriteString(e.Key + constants.FieldDelimiter + e.Value + "\n")
	}
	bw.WriteString("\n" + constants.ColumnMarker + "\n")
	writeLine(bw, d.Table.columns)
	bw.WriteString("\n" + constants.DataMarker + "\n")
	for _, row := range d.Table.rows {
		writeLine(bw, row)
	}
	return bw.Flush()
}

// WriteTable serializes only the table as plain tab-separated text with a
// header row, for spreadsheet tools.
func (d *Document) WriteTable(w io.Writer) error {
	if err := d.checkCells(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	writeLine(bw, d.Table.columns)
	for _, row := range d.Table.rows {
		writeLine(bw, row)
	}
	return bw.Flush()
}

// Save writes the document to path in ALE format. The file is replaced
// atomically; a document that cannot be serialized leaves path untouched.
func (d *Document) Save(path string) error {
	return writeFile(path, d.Write)
}

// ExportTable writes the table to path as plain tab-separated text.
func (d *Document) ExportTable(path string) error {
	return writeFile(path, d.WriteTable)
}

func writeLine(bw *bufio.Writer, values []string) {
	bw.WriteString(strings.Join(values, constants.FieldDelimiter))
	bw.WriteByte('\n')
}

// checkWritable verifies the document can be written and parsed back
// unchanged.
func (d *Document) checkWritable() error {
	for _, e := range d.Heading.Entries() {
		if e.Key == "" || strings.ContainsAny(e.Key, " \t\r\n") {
			return errors.NewFormatError(d.Path, 0, fmt.Sprintf("heading key %q must be a single word", e.Key))
		}
		if IsMarker(e.Key) {
			return errors.NewFormatError(d.Path, 0, fmt.Sprintf("heading key %q is a section marker", e.Key))
		}
		if strings.ContainsAny(e.Value, "\r\n") {
			return errors.NewFormatError(d.Path, 0, fmt.Sprintf("heading value for %q contains a line break", e.Key))
		}
	}
	if d.Table.NumColumns() == 0 {
		return errors.NewFormatError(d.Path, 0, "document has no columns")
	}
	return d.checkCells()
}

// IsMarker reports whether s is one of the section marker lines, which
// cannot be used as heading keys.
func IsMarker(s string) bool {
	switch s {
	case constants.HeadingMarker, constants.ColumnMarker, constants.DataMarker:
		return true
	}
	return false
}

// checkCells rejects column names and cells the format cannot represent.
func (d *Document) checkCells() error {
	for _, c := range d.Table.columns {
		if strings.ContainsAny(c, "\t\r\n") {
			return errors.NewFormatError(d.Path, 0, fmt.Sprintf("column name %q contains a tab or line break", c))
		}
	}
	for i, row := range d.Table.rows {
		for j, v := range row {
			if strings.ContainsAny(v, "\t\r\n") {
				return errors.NewFormatError(d.Path, 0,
					fmt.Sprintf("row %d column %q contains a tab or line break", i+1, d.Table.columns[j]))
			}
		}
	}
	return nil
}

// writeFile writes through a temporary file in the target directory and
// renames it into place.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".alekit-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
