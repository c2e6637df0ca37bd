// Package debugger holds the backend capability contract and the registry
// that serves backend implementations by their stable option name.
// Implementations live in subpackages and register themselves at startup;
// there is no runtime scanning of any kind.
package debugger

import (
	"context"

	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/trace"
)

// Context is the run state a backend is constructed against.
type Context struct {
	// Options is the run configuration.
	Options *options.Options

	// Version is the harness version recorded in traces.
	Version string
}

// Backend drives one real debugging engine. Construction must succeed even
// when the engine is missing from the environment; availability is reported
// afterwards through IsAvailable so that listings can show every backend.
type Backend interface {
	// Name is the human-readable engine name, e.g. "lldb (lldb)".
	Name() string

	// IsAvailable reports whether the engine can be driven here and now.
	IsAvailable() bool

	// Version returns the engine's version text. Only meaningful when
	// IsAvailable is true; may span multiple lines.
	Version() string

	// LoadingError describes why the backend is unavailable. Only
	// meaningful when IsAvailable is false.
	LoadingError() string

	// LoadingErrorTrace optionally carries the full diagnostic behind
	// LoadingError, one or more lines.
	LoadingErrorTrace() string

	// Drive runs the debuggee under the engine, appending every observed
	// stop to the trace. It is only called in the child process.
	Drive(ctx context.Context, t *trace.Trace) error
}

// Constructor builds a backend session bound to a run context. prior is the
// trace of a previous run when one exists, or nil.
type Constructor func(ctx *Context, prior *trace.Trace) (Backend, error)
