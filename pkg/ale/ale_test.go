package ale_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit/pkg/ale"
	pkgerrors "github.com/agentstation/alekit/pkg/errors"
)

const sample = "Heading\nFIELD_DELIM\tTABS\nFPS\t25\n\nColumn\nName\tTape\tStart\n\nData\nA001C001\tA001\t10:00:00:00\nA001C002\tA001\t10:01:00:00\n"

func mustParse(t *testing.T, text string) *ale.Document {
	t.Helper()
	doc, err := ale.Parse(strings.NewReader(text), "sample.ale")
	require.NoError(t, err)
	return doc
}

func TestLoad(t *testing.T) {
	doc, err := ale.Load(filepath.Join("testdata", "A001.ale"))
	require.NoError(t, err)

	assert.Equal(t, "A001.ale", doc.Name)
	assert.Equal(t, []string{"FIELD_DELIM", "VIDEO_FORMAT", "AUDIO_FORMAT", "FPS"}, doc.Heading.Keys())
	fps, ok := doc.Heading.Get("FPS")
	assert.True(t, ok)
	assert.Equal(t, "25", fps)

	// the trailing tab produces an unnamed column that is dropped
	assert.Equal(t, []string{"Name", "Tracks", "Start", "End", "Tape"}, doc.Table.Columns())
	require.Equal(t, 2, doc.Table.Len())
	assert.Equal(t, "10:01:05:12", doc.Table.Row(1).Get("End"))
}

func TestLoadCRLF(t *testing.T) {
	doc, err := ale.Load(filepath.Join("testdata", "B001_crlf.ALE"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Tape", "Start"}, doc.Table.Columns())
	assert.Equal(t, "11:00:00:00", doc.Table.Row(0).Get("Start"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := ale.Load(filepath.Join("testdata", "nope.ale"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsFormat(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseHeading(t *testing.T) {
	doc := mustParse(t, "Heading\n\nTAPE   Roll 12  \nEMPTYKEY\nFPS\t25\nColumn\nName\n\nData\nx\n")
	tape, _ := doc.Heading.Get("TAPE")
	assert.Equal(t, "Roll 12", tape)
	empty, ok := doc.Heading.Get("EMPTYKEY")
	assert.True(t, ok)
	assert.Equal(t, "", empty)
	assert.Equal(t, 3, doc.Heading.Len())
}

func TestParseRows(t *testing.T) {
	t.Run("short rows are padded and extra cells dropped", func(t *testing.T) {
		doc := mustParse(t, "Column\nA\tB\tC\n\nData\n1\n1\t2\t3\t4\t5\n")
		require.Equal(t, 2, doc.Table.Len())
		assert.Equal(t, []string{"1", "", ""}, doc.Table.Row(0).Values())
		assert.Equal(t, []string{"1", "2", "3"}, doc.Table.Row(1).Values())
	})

	t.Run("blank lines are skipped, values are not trimmed", func(t *testing.T) {
		doc := mustParse(t, "Column\nA\tB\n\nData\n a \tb\n\n\tz\n")
		require.Equal(t, 2, doc.Table.Len())
		assert.Equal(t, " a ", doc.Table.Row(0).Get("A"))
		assert.Equal(t, "", doc.Table.Row(1).Get("A"))
		assert.Equal(t, "z", doc.Table.Row(1).Get("B"))
	})

	t.Run("unnamed interior column is dropped with its cells", func(t *testing.T) {
		doc := mustParse(t, "Column\nA\t\tC\n\nData\n1\tjunk\t3\n")
		assert.Equal(t, []string{"A", "C"}, doc.Table.Columns())
		assert.Equal(t, []string{"1", "3"}, doc.Table.Row(0).Values())
	})

	t.Run("no data section", func(t *testing.T) {
		doc := mustParse(t, "Column\nA\tB\n")
		assert.Equal(t, 0, doc.Table.Len())
		assert.Equal(t, 2, doc.Table.NumColumns())
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"no column marker", "Heading\nFPS\t25\n", "no Column marker"},
		{"empty input", "", "no Column marker"},
		{"missing column row", "Heading\nColumn\n", "missing column row"},
		{"duplicate column", "Column\nTape\tTape\n\nData\n", "duplicate column"},
		{"reserved column", "Column\n__merge\n\nData\n", "may not start with"},
		{"only unnamed columns", "Column\n\t\t\n\nData\n", "no column names"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ale.Parse(strings.NewReader(tt.text), "bad.ale")
			require.Error(t, err)
			assert.True(t, pkgerrors.IsFormat(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestWriteExact(t *testing.T) {
	doc := mustParse(t, sample)
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	assert.Equal(t, sample, buf.String())
}

func TestRoundTrip(t *testing.T) {
	original, err := ale.Load(filepath.Join("testdata", "A001.ale"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, original.Write(&buf))

	reparsed, err := ale.Parse(&buf, original.Name)
	require.NoError(t, err)

	if diff := cmp.Diff(original.Snapshot(), reparsed.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTable(t *testing.T) {
	doc := mustParse(t, sample)
	var buf bytes.Buffer
	require.NoError(t, doc.WriteTable(&buf))
	assert.Equal(t, "Name\tTape\tStart\nA001C001\tA001\t10:00:00:00\nA001C002\tA001\t10:01:00:00\n", buf.String())
}

func TestSaveAndExport(t *testing.T) {
	dir := t.TempDir()
	doc := mustParse(t, sample)

	alePath := filepath.Join(dir, "out.ale")
	require.NoError(t, doc.Save(alePath))
	data, err := os.ReadFile(alePath)
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))

	tsvPath := filepath.Join(dir, "out.tsv")
	require.NoError(t, doc.ExportTable(tsvPath))
	data, err = os.ReadFile(tsvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Name\tTape\tStart\n"))
}

func TestSaveRejectsUnrepresentableCells(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ale")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	doc := mustParse(t, sample)
	require.NoError(t, doc.Table.MapColumn("Name", func(ale.Row) (string, error) {
		return "two\nlines", nil
	}))

	err := doc.Save(path)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsFormat(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}

func TestSaveRejectsDocumentWithoutColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ale")

	err := ale.New().Save(path)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsFormat(err))
	assert.Contains(t, err.Error(), "document has no columns")
	assert.NoFileExists(t, path)
}

func TestWriteRejectsMarkerHeadingKeys(t *testing.T) {
	for _, key := range []string{"Heading", "Column", "Data"} {
		t.Run(key, func(t *testing.T) {
			doc := mustParse(t, sample)
			doc.Heading.Set(key, "x")

			var buf bytes.Buffer
			err := doc.Write(&buf)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsFormat(err))
			assert.Contains(t, err.Error(), "section marker")
		})
	}
}

func TestIsMarker(t *testing.T) {
	assert.True(t, ale.IsMarker("Heading"))
	assert.True(t, ale.IsMarker("Column"))
	assert.True(t, ale.IsMarker("Data"))
	assert.False(t, ale.IsMarker("FPS"))
	assert.False(t, ale.IsMarker("data"))
}

func TestLoadDir(t *testing.T) {
	docs, err := ale.LoadDir("testdata")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A001.ale", docs[0].Name)
	assert.Equal(t, "B001_crlf.ALE", docs[1].Name)

	_, err = ale.LoadDir(filepath.Join("testdata", "missing"))
	assert.Error(t, err)
}

func TestNewDocument(t *testing.T) {
	doc := ale.New()
	assert.Equal(t, "Empty", doc.Name)
	assert.True(t, doc.IsEmpty())
	assert.Equal(t, 0, doc.Table.Len())
}

func TestIsEmptyKeepsRows(t *testing.T) {
	doc := mustParse(t, sample)
	missing := doc.Table.Select([]string{"Nope"})
	assert.Equal(t, []string{"Nope"}, missing)
	assert.Equal(t, 0, doc.Table.NumColumns())
	assert.Equal(t, 2, doc.Table.Len())
	assert.False(t, doc.IsEmpty())
}

func TestDocumentCopyIsDeep(t *testing.T) {
	doc := mustParse(t, sample)
	cp := doc.Copy()
	cp.Heading.Set("FPS", "24")
	require.NoError(t, cp.Table.DeleteColumn("Tape"))

	fps, _ := doc.Heading.Get("FPS")
	assert.Equal(t, "25", fps)
	assert.True(t, doc.Table.HasColumn("Tape"))
}

func TestDuplicateColumn(t *testing.T) {
	doc := mustParse(t, sample)

	require.NoError(t, doc.DuplicateColumn("Tape", "Source File", false))
	assert.Equal(t, "A001", doc.Table.Row(0).Get("Source File"))

	err := doc.DuplicateColumn("Name", "Source File", false)
	assert.True(t, pkgerrors.IsData(err))

	require.NoError(t, doc.DuplicateColumn("Name", "Source File", true))
	assert.Equal(t, "A001C001", doc.Table.Row(0).Get("Source File"))

	assert.True(t, pkgerrors.IsData(doc.DuplicateColumn("Scene", "X", true)))
}

func TestValidate(t *testing.T) {
	doc := mustParse(t, "Column\nTape\ttape\tName\n\nData\nA\tB\tC\n")
	errs := doc.Validate()
	require.Len(t, errs, 1)
	assert.True(t, pkgerrors.IsValidationError(errs[0]))
	assert.Contains(t, errs[0].Error(), "differ only by case")

	clean := mustParse(t, sample)
	assert.Empty(t, clean.Validate())
}

func TestSnapshotAndString(t *testing.T) {
	doc := mustParse(t, sample)
	snap := doc.Snapshot()
	assert.Equal(t, "sample.ale", snap.Name)
	assert.Equal(t, []string{"Name", "Tape", "Start"}, snap.Columns)
	assert.Equal(t, "A001C002", snap.Rows[1]["Name"])

	s := doc.String()
	assert.True(t, strings.HasPrefix(s, "sample.ale\nFIELD_DELIM\tTABS\n"))
	assert.Contains(t, s, "Name\tTape\tStart\n")
}
