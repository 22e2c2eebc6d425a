package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/logging"
)

func testConfig(presetDir string) *Config {
	return &Config{
		Format:      "table",
		NoColor:     true,
		PresetDir:   presetDir,
		KeyColumns:  constants.DefaultKeyColumns,
		BatchSuffix: constants.DefaultBatchSuffix,
		Workers:     2,
	}
}

func newTestApp(t *testing.T, presetDir string) *App {
	t.Helper()
	app, err := New("1.2.3", "abc123", "2025-01-01", "test",
		WithConfig(testConfig(presetDir)),
		WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	return app
}

// execute runs the CLI and returns stdout and stderr.
func execute(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const (
	camera = "Heading\nFIELD_DELIM\tTABS\nFPS\t25\n\nColumn\nName\tTape\tStart\n\nData\n" +
		"A001C001\tA001\t10:00:00:00\nA001C002\tA001\t10:05:00:00\n"
	sound = "Heading\nFPS\t25\n\nColumn\nTape\tStart\tSound Roll\n\nData\n" +
		"A001\t10:00:00:00\tS01\nA009\t11:00:00:00\tS02\n"
)

func TestApp_New(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	assert.Equal(t, "1.2.3", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2025-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.Equal(t, "table", app.OutputFormat())
	assert.Equal(t, 2, app.Workers())
	assert.NotNil(t, app.Logger())
}

func TestApp_Options(t *testing.T) {
	_, err := New("dev", "", "", "", WithConfig(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = New("dev", "", "", "", WithLogger(nil))
	assert.True(t, errors.IsValidationError(err))

	bad := testConfig("presets")
	bad.KeyColumns = nil
	_, err = New("dev", "", "", "", WithConfig(bad))
	assert.Error(t, err)
}

func TestApp_Presets(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	first := app.Presets()
	assert.Same(t, first, app.Presets())

	app.Config().PresetDir = t.TempDir()
	second := app.Presets()
	assert.NotSame(t, first, second)
	assert.Equal(t, app.Config().PresetDir, second.Dir())
}

func TestApp_Shutdown(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	assert.NoError(t, app.Shutdown(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, app.Shutdown(ctx), context.Canceled)
}

func TestExecuteVersion(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	stdout, _, err := execute(t, app, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alekit 1.2.3")
	assert.Contains(t, stdout, "abc123")
}

func TestExecuteSetsDefaultLogger(t *testing.T) {
	logging.DisableLoggingForTest(t)

	app, err := New("1.2.3", "abc123", "2025-01-01", "test", WithConfig(testConfig(t.TempDir())))
	require.NoError(t, err)
	_, _, err = execute(t, app, "--log-level", "error", "version")
	require.NoError(t, err)

	assert.Equal(t, zerolog.ErrorLevel, logging.Default().GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, app.Logger().GetLevel())
}

func TestExecuteShowJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A001.ale", camera)
	app := newTestApp(t, dir)

	stdout, _, err := execute(t, app, "show", path, "-o", "json")
	require.NoError(t, err)

	var snap ale.Snapshot
	require.NoError(t, json.Unmarshal([]byte(stdout), &snap))
	assert.Equal(t, []string{"Name", "Tape", "Start"}, snap.Columns)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "A001C002", snap.Rows[1]["Name"])
}

func TestExecuteShowTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A001.ale", camera)
	app := newTestApp(t, dir)

	stdout, _, err := execute(t, app, "show", path, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "A001C001")
	assert.NotContains(t, stdout, "A001C002")
	assert.Contains(t, stdout, "1 more rows")
}

func TestExecuteRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A001.ale", camera)
	writeFile(t, dir, "presets/Cleanup.csv", "Cleanup\nRENAME,Name,Clip\nSET,Label,{Tape}/{Clip}\nDELETE,Scene\n")
	out := filepath.Join(dir, "out.ale")
	app := newTestApp(t, filepath.Join(dir, "presets"))

	_, stderr, err := execute(t, app, "run", "-m", "cleanup", path, "-O", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 steps applied, 1 failed")
	assert.Contains(t, stderr, "saved "+out)

	doc, err := ale.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Clip", "Tape", "Start", "Label"}, doc.Table.Columns())
	assert.Equal(t, "A001/A001C002", doc.Table.Row(1).Get("Label"))
}

func TestExecuteRunSteps(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A001.ale", camera)
	macroPath := writeFile(t, dir, "m.csv", "m\nDELETE,Start\nBOGUS,x\n")
	app := newTestApp(t, dir)

	stdout, _, err := execute(t, app, "run", "-m", macroPath, path, "--steps")
	require.NoError(t, err)
	assert.Contains(t, stdout, "DELETE")
	assert.Contains(t, stdout, "BOGUS")
}

func TestExecuteMergeWithReport(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "A.ale", camera)
	b := writeFile(t, dir, "B.ale", sound)
	out := filepath.Join(dir, "merged.ale")
	report := filepath.Join(dir, "merged.md")
	app := newTestApp(t, dir)

	_, stderr, err := execute(t, app, "merge", a, b, "-O", out, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stderr, "saved")

	doc, err := ale.Load(out)
	require.NoError(t, err)
	assert.True(t, doc.Table.HasColumn("Sound Roll"))
	assert.Equal(t, "S01", doc.Table.Row(0).Get("Sound Roll"))

	md, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(md), "A009")
}

func TestExecuteAppendAndExport(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "A.ale", camera)
	b := writeFile(t, dir, "B.ale", sound)
	out := filepath.Join(dir, "all.ale")
	tsv := filepath.Join(dir, "all.tsv")
	app := newTestApp(t, dir)

	_, _, err := execute(t, app, "append", a, b, "-O", out)
	require.NoError(t, err)
	_, _, err = execute(t, app, "export", out, tsv)
	require.NoError(t, err)

	data, err := os.ReadFile(tsv)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Name\tTape\tStart\tSound Roll", lines[0])
	assert.Len(t, lines, 5)
}

func TestExecuteValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ale", camera)
	cased := writeFile(t, dir, "cased.ale", "Column\nTape\ttape\n\nData\na\tb\n")
	app := newTestApp(t, dir)

	_, stderr, err := execute(t, app, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, stderr, "is valid")

	_, stderr, err = execute(t, app, "validate", good, cased, filepath.Join(dir, "missing.ale"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, stderr, "differ only by case")
}

func TestExecuteBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "in/A001.ale", camera)
	writeFile(t, dir, "in/A002.ale", camera)
	macroPath := writeFile(t, dir, "m.csv", "m\nDELETE,Start\n")
	app := newTestApp(t, dir)

	_, stderr, err := execute(t, app, "batch", "-m", macroPath, "--dir", filepath.Join(dir, "in"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 files processed, 0 failed")

	out := filepath.Join(dir, "in", "A001"+constants.DefaultBatchSuffix+".ale")
	doc, err := ale.Load(out)
	require.NoError(t, err)
	assert.False(t, doc.Table.HasColumn("Start"))

	// a second run skips the outputs of the first
	_, stderr, err = execute(t, app, "batch", "-m", macroPath, "--dir", filepath.Join(dir, "in"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 files processed")
}

func TestExecuteDailies(t *testing.T) {
	dir := t.TempDir()
	day := filepath.Join(dir, "Day 01")
	writeFile(t, day, "DR/A001.ale", camera)
	writeFile(t, day, "SS/S01.ale", sound)
	out := filepath.Join(dir, "Day 01.ale")
	app := newTestApp(t, dir)

	_, stderr, err := execute(t, app, "dailies", day, "-O", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "A009")

	doc, err := ale.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "S01", doc.Table.Row(0).Get("Sound Roll"))
}

func TestExecutePresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cleanup.csv", "Cleanup\nRENAME,Name,Clip\n")
	writeFile(t, dir, "Avid Prep.yaml", "name: Avid Prep\nactions:\n  - [DELETE, Scene]\n  - [NOPE]\n")
	app := newTestApp(t, dir)

	stdout, _, err := execute(t, app, "presets", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(stdout, "Avid Prep"), strings.Index(stdout, "Cleanup"))

	stdout, _, err = execute(t, app, "presets", "show", "avid prep", "-o", "json")
	require.NoError(t, err)
	var view struct {
		Name  string `json:"name"`
		Steps []struct {
			Line  int    `json:"line"`
			Error string `json:"error"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, "Avid Prep", view.Name)
	require.Len(t, view.Steps, 2)
	assert.Empty(t, view.Steps[0].Error)
	assert.NotEmpty(t, view.Steps[1].Error)

	_, _, err = execute(t, app, "presets", "show", "nothing")
	assert.True(t, errors.IsNotFound(err))
}

func TestExecuteInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A001.ale", camera)
	app := newTestApp(t, dir)

	_, _, err := execute(t, app, "show", path, "-o", "xml")
	assert.True(t, errors.IsValidationError(err))
}
