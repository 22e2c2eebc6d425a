package table_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit/internal/batch"
	"github.com/agentstation/alekit/internal/cmd/emoji"
	"github.com/agentstation/alekit/internal/cmd/table"
	"github.com/agentstation/alekit/internal/presets"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/macro"
	"github.com/agentstation/alekit/pkg/reconcile"
)

func parse(t *testing.T, name, text string) *ale.Document {
	t.Helper()
	doc, err := ale.Parse(strings.NewReader(text), name)
	require.NoError(t, err)
	return doc
}

func TestDocumentToTableData(t *testing.T) {
	doc := parse(t, "A.ale", "Heading\nFPS\t25\n\nColumn\nTape\tStart\n\nData\nA01\t1\nA02\t2\nA03\t3\n")

	data := table.DocumentToTableData(doc, 2)
	assert.Equal(t, []string{"Tape", "Start"}, data.Headers)
	assert.Equal(t, [][]string{{"A01", "1"}, {"A02", "2"}}, data.Rows)
	assert.Len(t, table.DocumentToTableData(doc, 0).Rows, 3)

	heading := table.HeadingToTableData(doc)
	assert.Equal(t, [][]string{{"FPS", "25"}}, heading.Rows)
}

func TestDiagnosticsToTableData(t *testing.T) {
	a := parse(t, "A.ale", "Column\nTape\tStart\tName\n\nData\nA01\t1\tx\n")
	b := parse(t, "B.ale", "Column\nTape\tStart\tName\n\nData\nA02\t2\ty\n")

	_, diag := reconcile.Merge(a, b)
	data := table.DiagnosticsToTableData(diag)
	props := map[string]string{}
	for _, r := range data.Rows {
		props[r[0]] = r[1]
	}
	assert.Equal(t, "merge", props["Operation"])
	assert.Equal(t, "Name", props["Collisions"])
	assert.Equal(t, "2", props["Mismatches"])

	_, diag = reconcile.Append(a, b)
	data = table.DiagnosticsToTableData(diag)
	assert.Equal(t, []string{"Missing From First", "-"}, data.Rows[4])
}

func TestMergeToTableData(t *testing.T) {
	a := parse(t, "A.ale", "Column\nTape\tStart\n\nData\nA01\t1\nA02\t2\n")
	b := parse(t, "B.ale", "Column\nTape\tStart\n\nData\nA01\t1\nA09\t9\n")

	doc, diag := reconcile.Merge(a, b)
	data := table.MergeToTableData(doc, diag, 0)
	assert.Equal(t, []string{"Origin", "Tape", "Start"}, data.Headers)
	var origins []string
	for _, r := range data.Rows {
		origins = append(origins, r[0])
	}
	assert.Equal(t, []string{"both", "A.ale", "B.ale"}, origins)
	assert.False(t, doc.Table.HasColumn("Origin"))
}

func TestResultToTableData(t *testing.T) {
	doc := parse(t, "A.ale", "Column\nTape\n\nData\nA01\n")
	m := macro.ParseRecords([][]string{{"DELETE", "Name"}, {"RENAME", "Tape", "TapeID"}, {"NOPE"}})
	result, err := macro.Run(m, doc)
	require.NoError(t, err)

	data := table.ResultToTableData(result)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "1", data.Rows[0][0])
	assert.Equal(t, emoji.Error, data.Rows[0][3])
	assert.Equal(t, emoji.Success, data.Rows[1][3])
	assert.Equal(t, "3", data.Rows[2][1])
}

func TestBatchAndPresets(t *testing.T) {
	report := &batch.Report{Files: []batch.FileResult{
		{Source: "A.ale", Output: "A - batch processed.ale", Rows: 3, Applied: 2},
		{Source: "B.ale", Err: errors.New("boom"), Error: "boom"},
	}}
	data := table.BatchToTableData(report)
	assert.Equal(t, []string{"A.ale", emoji.Success, "3", "2", "0", "A - batch processed.ale"}, data.Rows[0])
	assert.Equal(t, "boom", data.Rows[1][5])

	list := table.PresetsToTableData([]presets.Preset{{Name: "cleanup", Format: "csv", Path: "p/cleanup.csv"}})
	assert.Equal(t, []string{"cleanup", "csv", "-", "p/cleanup.csv"}, list.Rows[0])
	assert.NotEqual(t, "-", table.FormatTime(time.Now()))
}

func TestMacroToTableData(t *testing.T) {
	m := macro.ParseRecords([][]string{{"DELETE", "Name"}, {"BOGUS"}})
	data := table.MacroToTableData(m)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, emoji.Success, data.Rows[0][2])
	assert.Contains(t, data.Rows[1][2], emoji.Error)
	assert.Equal(t, "BOGUS", data.Rows[1][1])
}
