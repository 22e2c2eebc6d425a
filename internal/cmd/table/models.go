// Package table converts alekit results into rows for table output.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/alekit/internal/batch"
	"github.com/agentstation/alekit/internal/cmd/emoji"
	"github.com/agentstation/alekit/internal/presets"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/macro"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// DocumentToTableData converts a document's table to table format.
// A positive limit keeps only the first limit rows.
func DocumentToTableData(doc *ale.Document, limit int) Data {
	rows := doc.Table.Rows()
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	data := Data{
		Headers: doc.Table.Columns(),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, r.Values())
	}
	return data
}

// HeadingToTableData converts a document's heading to a key/value table.
func HeadingToTableData(doc *ale.Document) Data {
	data := Data{Headers: []string{"Key", "Value"}}
	for _, e := range doc.Heading.Entries() {
		data.Rows = append(data.Rows, []string{e.Key, e.Value})
	}
	return data
}

// DiagnosticsToTableData converts reconciliation diagnostics to a
// property/value summary.
func DiagnosticsToTableData(diag *reconcile.Diagnostics) Data {
	rows := [][]string{
		{"Operation", diag.Operation.String()},
		{"Sources", strings.Join(diag.Sources, ", ")},
		{"Rows", strconv.Itoa(diag.Rows)},
		{"Columns", strconv.Itoa(diag.Columns)},
	}
	if diag.Operation == reconcile.OperationMerge {
		rows = append(rows,
			[]string{"Keys", strings.Join(diag.Keys, ", ")},
			[]string{"Matched", strconv.Itoa(diag.Matched)},
			[]string{"Left Only", strconv.Itoa(len(diag.LeftOnly))},
			[]string{"Right Only", strconv.Itoa(len(diag.RightOnly))},
			[]string{"Collisions", joinOrDash(diag.Collisions)},
			[]string{"Missing Keys", joinOrDash(diag.MissingKeys)},
		)
	} else {
		rows = append(rows,
			[]string{"Missing From First", joinOrDash(diag.MissingFromSelf)},
			[]string{"Missing From Others", joinOrDash(diag.MissingFromOther)},
		)
	}
	rows = append(rows, []string{"Mismatches", strconv.Itoa(diag.Mismatches)})

	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// ResultToTableData converts a macro result to one row per step, in run
// order.
func ResultToTableData(result *macro.Result) Data {
	steps := make([]macro.StepResult, 0, len(result.Applied)+len(result.Failed))
	steps = append(steps, result.Applied...)
	steps = append(steps, result.Failed...)
	sortSteps(steps)

	data := Data{
		Headers:         []string{"#", "Line", "Action", "Status", "Notes"},
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignLeft, AlignCenter, AlignLeft},
	}
	for _, s := range steps {
		status := emoji.Success
		notes := strings.Join(s.Warnings, "; ")
		if !s.Applied {
			status = emoji.Error
			notes = s.Error
		}
		line := "-"
		if s.Line > 0 {
			line = strconv.Itoa(s.Line)
		}
		data.Rows = append(data.Rows, []string{strconv.Itoa(s.Index + 1), line, s.Action, status, notes})
	}
	return data
}

// BatchToTableData converts a batch report to one row per file.
func BatchToTableData(report *batch.Report) Data {
	data := Data{
		Headers:         []string{"File", "Status", "Rows", "Applied", "Failed", "Output"},
		ColumnAlignment: []Align{AlignLeft, AlignCenter, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
	for _, f := range report.Files {
		if !f.OK() {
			data.Rows = append(data.Rows, []string{f.Source, emoji.Error, "-", "-", "-", f.Error})
			continue
		}
		data.Rows = append(data.Rows, []string{
			f.Source,
			emoji.Success,
			strconv.Itoa(f.Rows),
			strconv.Itoa(f.Applied),
			strconv.Itoa(f.Failed),
			f.Output,
		})
	}
	return data
}

// PresetsToTableData converts a preset listing to table format.
func PresetsToTableData(list []presets.Preset) Data {
	data := Data{
		Headers:         []string{"Name", "Format", "Modified", "Path"},
		ColumnAlignment: []Align{AlignLeft, AlignCenter, AlignLeft, AlignLeft},
	}
	for _, p := range list {
		data.Rows = append(data.Rows, []string{p.Name, p.Format, FormatTime(p.ModTime), p.Path})
	}
	return data
}

// MacroToTableData lists a macro's steps, marking those that failed to
// decode.
func MacroToTableData(m *macro.Macro) Data {
	data := Data{
		Headers:         []string{"Line", "Action", "Status"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
	for _, s := range m.Steps {
		action := strings.Join(s.Record, ",")
		status := emoji.Success
		if s.Valid() {
			action = s.Action.String()
		} else {
			status = fmt.Sprintf("%s %v", emoji.Error, s.Err)
		}
		data.Rows = append(data.Rows, []string{strconv.Itoa(s.Line), action, status})
	}
	return data
}

// FormatTime renders t as a short local timestamp, or "-" when zero.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func sortSteps(steps []macro.StepResult) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Index < steps[j].Index
	})
}
