package output

import (
	"fmt"
	"io"

	"github.com/agentstation/alekit/internal/cmd/table"
	"github.com/agentstation/alekit/pkg/ale"
)

// Write renders value in format. Table and TSV output render the tabular
// form; JSON and YAML render value itself.
func Write(w io.Writer, format Format, value any, tabular table.Data) error {
	if format.IsTabular() {
		return NewFormatter(format).Format(w, tabular)
	}
	return NewFormatter(format).Format(w, value)
}

// Document renders doc. Table output shows the heading and then up to
// limit rows (all rows when limit is not positive); TSV output writes the
// plain table; JSON and YAML write the document snapshot.
func Document(w io.Writer, format Format, doc *ale.Document, limit int) error {
	switch format {
	case FormatTSV:
		return doc.WriteTable(w)
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, doc.Snapshot())
	}

	if _, err := fmt.Fprintf(w, "%s: %d rows, %d columns\n", doc.Name, doc.Table.Len(), doc.Table.NumColumns()); err != nil {
		return err
	}
	formatter := NewFormatter(FormatTable)
	if doc.Heading.Len() > 0 {
		if err := formatter.Format(w, table.HeadingToTableData(doc)); err != nil {
			return err
		}
	}
	if doc.Table.NumColumns() == 0 {
		return nil
	}
	if err := formatter.Format(w, table.DocumentToTableData(doc, limit)); err != nil {
		return err
	}
	if limit > 0 && doc.Table.Len() > limit {
		_, err := fmt.Fprintf(w, "... %d more rows\n", doc.Table.Len()-limit)
		return err
	}
	return nil
}
