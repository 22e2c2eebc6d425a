// Package constants provides shared constants used throughout the alekit codebase.
// This includes the ALE format markers, reconciliation defaults, file
// permissions and other values that should be consistent across the application.
package constants

import "time"

// ALE format markers
const (
	// HeadingMarker opens the heading block of an ALE file
	HeadingMarker = "Heading"

	// ColumnMarker ends the heading block; the next line holds the column names
	ColumnMarker = "Column"

	// DataMarker precedes the data rows of an ALE file
	DataMarker = "Data"

	// FieldDelimiter separates columns in the column row and data rows
	FieldDelimiter = "\t"

	// EmptyDocumentName is the display name of a document with no source file
	EmptyDocumentName = "Empty"

	// ReservedColumnPrefix marks internal synthetic columns; user columns may not use it
	ReservedColumnPrefix = "__"
)

// Reconciliation defaults
var (
	// DefaultKeyColumns identify a clip by tape name and start timecode
	DefaultKeyColumns = []string{"Tape", "Start"}
)

const (
	// CollisionSuffix is appended to a right-hand column whose name collides during a merge
	CollisionSuffix = "_2"
)

// File extensions recognized by loaders
var (
	// ALEExtensions are the extensions of ALE files picked up from a directory
	ALEExtensions = []string{".ale", ".ALE"}

	// PresetExtensions are the extensions of macro preset files
	PresetExtensions = []string{".csv", ".yaml", ".yml"}
)

// Batch and watch defaults
const (
	// DefaultBatchSuffix is inserted before the extension of batch-processed files
	DefaultBatchSuffix = " - batch processed"

	// DefaultWorkers is the default number of files processed concurrently in a batch
	DefaultWorkers = 4

	// MaxWorkers caps the batch worker pool
	MaxWorkers = 32

	// WatchDebounce is how long a dropped file must be quiet before it is processed
	WatchDebounce = 500 * time.Millisecond

	// DailiesDRFolder holds the DR (dailies) ALEs in a dailies merge
	DailiesDRFolder = "DR"

	// DailiesSSFolder holds the SS (sound/script) ALEs in a dailies merge
	DailiesSSFolder = "SS"
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached presets
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Path constants
const (
	// DefaultConfigName is the base name of the config file searched in $HOME and .
	DefaultConfigName = ".alekit"

	// DefaultPresetDir is the preset directory used when none is configured
	DefaultPresetDir = "presets"
)
