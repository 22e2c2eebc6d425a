package reconcile

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WriteMarkdown writes a Markdown report of the reconciliation to w.
func (d *Diagnostics) WriteMarkdown(w io.Writer) error {
	caser := cases.Title(language.English)
	title := caser.String(strings.ReplaceAll(d.Operation.String(), "_", " ")) + " Report"

	m := md.NewMarkdown(w)
	m.H1(title)
	m.PlainText(d.Summary()).LF()

	m.H2("Sources")
	m.BulletList(d.Sources...)

	if len(d.Keys) > 0 {
		m.H2("Key Columns")
		m.PlainText(md.Code(strings.Join(d.Keys, ", "))).LF()
	}

	if len(d.MissingFromSelf)+len(d.MissingFromOther) > 0 {
		rows := make([][]string, 0, len(d.MissingFromSelf)+len(d.MissingFromOther))
		for _, c := range d.MissingFromSelf {
			rows = append(rows, []string{c, d.first()})
		}
		for _, c := range d.MissingFromOther {
			rows = append(rows, []string{c, d.rest()})
		}
		m.H2("Column Mismatches")
		m.Table(md.TableSet{
			Header: []string{"Column", "Missing From"},
			Rows:   rows,
		})
	}

	if len(d.LeftOnly)+len(d.RightOnly) > 0 {
		rows := make([][]string, 0, len(d.LeftOnly)+len(d.RightOnly))
		for _, k := range d.LeftOnly {
			rows = append(rows, []string{k, d.first()})
		}
		for _, k := range d.RightOnly {
			rows = append(rows, []string{k, d.rest()})
		}
		m.H2("Unmatched Rows")
		m.Table(md.TableSet{
			Header: []string{"Key", "Only In"},
			Rows:   rows,
		})
	}

	if len(d.Collisions) > 0 {
		m.H2("Column Collisions")
		m.BulletList(d.Collisions...)
	}

	if len(d.MissingKeys) > 0 {
		m.H2("Missing Key Columns")
		m.BulletList(d.MissingKeys...)
	}

	if !d.HasMismatches() {
		m.PlainText(md.Italic(fmt.Sprintf("No mismatches across %d sources.", len(d.Sources))))
	}

	return m.Build()
}
