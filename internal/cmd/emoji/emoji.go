// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used at the start of status lines.
const (
	// Success marks a completed operation or a saved change.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks a non-fatal problem, such as a lease that differs
	// from its reservation.
	Warning = "!"

	// Info marks informational lines, such as dry-run notices.
	Info = "i"
)
