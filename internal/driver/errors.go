package driver

import "fmt"

// SubprocessError reports a child debugger process that exited non-zero.
// The child's own diagnostics go to the inherited stderr; the parent only
// sees the exit status.
type SubprocessError struct {
	// ExitCode is the child's exit status, or -1 when the child could not
	// be started or was killed by a signal.
	ExitCode int

	// Cause is the underlying process error.
	Cause error
}

// Error implements the error interface.
func (e *SubprocessError) Error() string {
	return fmt.Sprintf("debugger process failed (exit status %d): %v", e.ExitCode, e.Cause)
}

// Unwrap exposes the underlying process error.
func (e *SubprocessError) Unwrap() error {
	return e.Cause
}
