// Package appcontext provides the shared application context interface
// used by all commands. This eliminates interface duplication across
// command packages and provides a single source of truth for app dependencies.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/internal/presets"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/alekit/app implements this interface; tests use
// Mock.
type Interface interface {
	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, tsv).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Presets returns the preset store for the configured preset directory.
	Presets() *presets.Store

	// KeyColumns returns the columns merges match rows on.
	KeyColumns() []string

	// BatchSuffix returns the text inserted into batch output file names.
	BatchSuffix() string

	// Workers returns the number of files a batch processes concurrently.
	Workers() int

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
