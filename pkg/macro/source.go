package macro

import (
	"io"
)

// Source supplies a macro to run.
type Source interface {
	Load() (*Macro, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() (*Macro, error)

// Load calls f.
func (f SourceFunc) Load() (*Macro, error) {
	return f()
}

// File is a macro read from a file with LoadFile.
func File(path string) Source {
	return SourceFunc(func() (*Macro, error) {
		return LoadFile(path)
	})
}

// Literal is a macro built from actions written in code.
func Literal(actions ...Action) Source {
	return SourceFunc(func() (*Macro, error) {
		return FromActions(actions...), nil
	})
}

// Reader is a macro read in comma-separated form from r.
func Reader(r io.Reader) Source {
	return SourceFunc(func() (*Macro, error) {
		return Parse(r)
	})
}

// Loaded is a macro that has already been decoded.
func Loaded(m *Macro) Source {
	return SourceFunc(func() (*Macro, error) {
		return m, nil
	})
}
