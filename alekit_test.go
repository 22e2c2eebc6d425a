package alekit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/logging"
	"github.com/agentstation/alekit/pkg/macro"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "A.ale", "Heading\nFPS\t25\n\nColumn\nTape\tStart\tName\n\nData\nA01\t00:00:01:00\tc1\n")
	b := writeFile(t, dir, "B.ale", "Heading\nFPS\t25\n\nColumn\nTape\tStart\tDuration\n\nData\nA02\t00:00:02:00\t10\n")
	m := writeFile(t, dir, "cleanup.csv", "Cleanup\nRENAME,Tape,TapeID\nSET,Label,{TapeID}_{Start}\nDELETE,Scene\n")

	docA, err := alekit.Load(a)
	require.NoError(t, err)
	docB, err := alekit.Load(b)
	require.NoError(t, err)

	doc, diag := alekit.Append(docA, docB)
	assert.Equal(t, 2, doc.Table.Len())
	assert.Equal(t, 2, diag.Mismatches)

	logs := logging.NewTestLogger(t)
	var steps int
	result, err := alekit.RunMacro(macro.File(m), doc,
		alekit.WithLogger(logs.Logger),
		alekit.WithStepHook(func(macro.StepResult) { steps++ }),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Len(t, result.Applied, 2)
	assert.Len(t, result.Failed, 1)
	logs.AssertContains(t, "Scene")

	out := filepath.Join(dir, "out.ale")
	require.NoError(t, alekit.Save(doc, out))
	saved, err := alekit.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"TapeID", "Start", "Name", "Duration", "Label"}, saved.Table.Columns())
	assert.Equal(t, "A02_00:00:02:00", saved.Table.Row(1).Get("Label"))

	tsv := filepath.Join(dir, "out.tsv")
	require.NoError(t, alekit.ExportTable(doc, tsv))
	data, err := os.ReadFile(tsv)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "TapeID\tStart\tName\tDuration\tLabel\n"))
}

func TestMergeAndAppendAll(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "A.ale", "Column\nTape\tStart\tName\n\nData\nA01\t1\tc1\n")
	b := writeFile(t, dir, "B.ale", "Column\nTape\tStart\tNote\n\nData\nA01\t1\tgood\nA09\t9\tstray\n")

	docA, err := alekit.Load(a)
	require.NoError(t, err)
	docB, err := alekit.Load(b)
	require.NoError(t, err)

	merged, diag := alekit.Merge(docA, docB)
	assert.Equal(t, "good", merged.Table.Row(0).Get("Note"))
	assert.Equal(t, []string{"A09 9"}, diag.RightOnly)

	all, _ := alekit.AppendAll(docA, docB, docA)
	assert.Equal(t, 4, all.Table.Len())
}

func TestLoadFailure(t *testing.T) {
	_, err := alekit.Load(filepath.Join(t.TempDir(), "missing.ale"))
	assert.True(t, errors.IsFormat(err))
}

func TestRunMacroErrors(t *testing.T) {
	doc, err := alekit.Load(writeFile(t, t.TempDir(), "A.ale", "Column\nTape\n\nData\nA01\n"))
	require.NoError(t, err)

	_, err = alekit.RunMacro(macro.File("does-not-exist.csv"), doc)
	assert.Error(t, err)

	_, err = alekit.RunMacro(macro.Literal(), doc, alekit.WithLogger(nil))
	assert.True(t, errors.IsValidationError(err))
}
