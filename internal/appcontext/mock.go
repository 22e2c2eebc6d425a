package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/internal/presets"
	"github.com/agentstation/alekit/pkg/constants"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	NoColorFunc      func() bool
	PresetsFunc      func() *presets.Store
	KeyColumnsFunc   func() []string
	BatchSuffixFunc  func() string
	WorkersFunc      func() int
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// NoColor returns the mock function's value or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// Presets returns a store using the mock function or one for the default
// preset directory.
func (m *Mock) Presets() *presets.Store {
	if m.PresetsFunc != nil {
		return m.PresetsFunc()
	}
	return presets.New(constants.DefaultPresetDir, presets.WithLogger(m.Logger()))
}

// KeyColumns returns key columns using the mock function or the defaults.
func (m *Mock) KeyColumns() []string {
	if m.KeyColumnsFunc != nil {
		return m.KeyColumnsFunc()
	}
	return constants.DefaultKeyColumns
}

// BatchSuffix returns the suffix using the mock function or the default.
func (m *Mock) BatchSuffix() string {
	if m.BatchSuffixFunc != nil {
		return m.BatchSuffixFunc()
	}
	return constants.DefaultBatchSuffix
}

// Workers returns the worker count using the mock function or the default.
func (m *Mock) Workers() int {
	if m.WorkersFunc != nil {
		return m.WorkersFunc()
	}
	return constants.DefaultWorkers
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
