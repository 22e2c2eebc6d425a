package macro

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/alekit/pkg/errors"
)

// preset is the YAML form of a macro:
//
//	name: Camera log cleanup
//	description: Normalise tape names from the B camera
//	actions:
//	  - [RENAME, Tape, TapeID]
//	  - [SET, Label, "{TapeID}_{Start}"]
type preset struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Actions     [][]string `yaml:"actions"`
}

// ParseYAML decodes a macro from its YAML form. Line numbers of the steps
// are their 1-based positions in the action list.
func ParseYAML(data []byte) (*Macro, error) {
	var p preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &errors.MacroError{Message: "malformed YAML macro", Err: err}
	}
	m := ParseRecords(p.Actions)
	m.Name = p.Name
	m.Description = p.Description
	return m, nil
}

// WriteYAML writes the macro in its YAML form.
func (m *Macro) WriteYAML(w io.Writer) error {
	p := preset{Name: m.Name, Description: m.Description}
	for _, s := range m.Steps {
		p.Actions = append(p.Actions, s.Record)
	}
	data, err := yaml.MarshalWithOptions(p, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// IsYAMLFile reports whether path names a YAML macro.
func IsYAMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads a macro file, choosing the YAML or comma-separated form
// by extension. The macro is named after the file unless the file names
// it.
func LoadFile(path string) (*Macro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var m *Macro
	if IsYAMLFile(path) {
		m, err = ParseYAML(data)
	} else {
		m, err = Parse(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}
