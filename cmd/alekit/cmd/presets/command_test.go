package presets

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/presets"
	"github.com/agentstation/alekit/pkg/macro"
)

func mockApp(dir string) *appcontext.Mock {
	return &appcontext.Mock{
		PresetsFunc: func() *presets.Store { return presets.New(dir) },
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("b\nDELETE,x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.yaml"), []byte("name: A\nactions: []\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	cmd := NewCommand(mockApp(dir))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "csv")
	assert.NotContains(t, got, "notes")
	assert.Less(t, strings.Index(got, "A.yaml"), strings.Index(got, "b.csv"))
}

func TestNewMacroView(t *testing.T) {
	m := macro.ParseRecords([][]string{
		{"RENAME", "Tape", "TapeID"},
		{"RENAME", "Tape"},
	})
	m.Name = "two"

	v := newMacroView(m)
	assert.Equal(t, "two", v.Name)
	require.Len(t, v.Steps, 2)
	assert.Equal(t, 1, v.Steps[0].Line)
	assert.Empty(t, v.Steps[0].Error)
	assert.Equal(t, "RENAME,Tape", v.Steps[1].Action)
	assert.NotEmpty(t, v.Steps[1].Error)
}

func TestNewMacroViewEmpty(t *testing.T) {
	v := newMacroView(&macro.Macro{Name: "empty"})
	assert.NotNil(t, v.Steps)
	assert.Empty(t, v.Steps)
}
