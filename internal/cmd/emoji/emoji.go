// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by tables and alerts.
const (
	// Success marks an applied step, a saved file or a passing check.
	Success = "✓"

	// Error marks a failed step, file or check.
	Error = "✗"

	// Warning marks a reconciliation warning or a skipped column.
	Warning = "!"

	// Info marks informational notices.
	Info = "i"

	// Skipped marks work that did not run.
	Skipped = "-"

	// Unknown marks an indeterminate state.
	Unknown = "?"
)
