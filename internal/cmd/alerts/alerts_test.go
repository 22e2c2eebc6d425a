package alerts_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit/internal/batch"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/emoji"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/macro"
	"github.com/agentstation/alekit/pkg/reconcile"
)

func doc(t *testing.T, name, text string) *ale.Document {
	t.Helper()
	d, err := ale.Parse(strings.NewReader(text), name)
	require.NoError(t, err)
	return d
}

func TestAlertString(t *testing.T) {
	a := alerts.NewError("save failed").WithError(errors.New("disk full"))
	assert.Equal(t, emoji.Error+" save failed: disk full", a.String())
	assert.Equal(t, "warning", alerts.LevelWarning.String())
}

func TestFromDiagnostics(t *testing.T) {
	a := doc(t, "A.ale", "Column\nTape\tStart\n\nData\nA01\t1\n")
	b := doc(t, "B.ale", "Column\nTape\tStart\n\nData\nA02\t2\n")

	_, diag := reconcile.Merge(a, b)
	alert := alerts.FromDiagnostics(diag)
	assert.Equal(t, alerts.LevelWarning, alert.Level)
	assert.Len(t, alert.Details, 2)

	_, diag = reconcile.Append(a, b)
	assert.Equal(t, alerts.LevelSuccess, alerts.FromDiagnostics(diag).Level)
}

func TestFromResultAndBatch(t *testing.T) {
	d := doc(t, "A.ale", "Column\nTape\n\nData\nA01\n")
	result, err := macro.Run(macro.FromActions(macro.MustDecode("DELETE", "Name")), d)
	require.NoError(t, err)
	alert := alerts.FromResult(result)
	assert.Equal(t, alerts.LevelWarning, alert.Level)
	require.Len(t, alert.Details, 1)
	assert.Contains(t, alert.Details[0], "step 1")

	report := &batch.Report{Macro: "m", Succeeded: 1, Failed: 1, Files: []batch.FileResult{
		{Source: "A.ale"},
		{Source: "B.ale", Err: errors.New("x"), Error: "x"},
	}}
	alert = alerts.FromBatch(report)
	assert.Equal(t, alerts.LevelError, alert.Level)
	assert.Equal(t, []string{"B.ale: x"}, alert.Details)

	assert.Equal(t, alerts.LevelSuccess, alerts.FromValidation("A.ale", nil).Level)
	assert.Len(t, alerts.FromValidation("A.ale", []error{errors.New("dup")}).Details, 1)
}

func TestFormatWriter(t *testing.T) {
	alert := alerts.NewWarning("2 unmatched").WithDetails("no match for A09")

	var buf bytes.Buffer
	require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatTable).WriteAlert(alert))
	assert.Equal(t, emoji.Warning+" 2 unmatched\n   no match for A09\n", buf.String())

	buf.Reset()
	require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatJSON).WriteAlert(alert))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "warning", decoded["level"])

	buf.Reset()
	require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatYAML).WriteAlert(alert))
	assert.Contains(t, buf.String(), "level: warning")

	buf.Reset()
	require.NoError(t, alerts.NewFormatWriter(&buf, output.FormatTSV).WriteAlert(alert))
	assert.Equal(t, "warning\t2 unmatched\t\nwarning\tno match for A09\t\n", buf.String())

	buf.Reset()
	w := alerts.MultiWriter(alerts.NewWriterTo(&buf), alerts.DiscardWriter)
	require.NoError(t, w.WriteAlert(alert))
	assert.Equal(t, emoji.Warning+" 2 unmatched\n", buf.String())
}
