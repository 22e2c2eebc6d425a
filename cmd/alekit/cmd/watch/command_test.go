package watch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/presets"
)

func TestWatchRejectsUnknownMacro(t *testing.T) {
	dir := t.TempDir()
	app := &appcontext.Mock{
		PresetsFunc: func() *presets.Store { return presets.New(filepath.Join(dir, "presets")) },
	}

	cmd := NewCommand(app)
	cmd.SetArgs([]string{dir, "--macro", "missing"})
	assert.Error(t, cmd.Execute(), "the macro is loaded before watching starts")
}

func TestWatchRequiresMacro(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	cmd.SetArgs([]string{t.TempDir()})
	assert.Error(t, cmd.Execute())
}
