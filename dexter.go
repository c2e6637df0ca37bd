package dexter

import (
	"context"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/driver"
	"github.com/Melamoto/dexter/internal/heuristic"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/trace"
)

// Version is the harness version stamped into trace envelopes.
const Version = "1.0.0"

// Public type aliases for the internal types used in the Run API. These are
// Go type aliases (=): identical to the internal types at compile time, so
// no conversion is needed.

type Trace = trace.Trace
type Step = trace.Step
type StepKind = trace.StepKind
type Location = trace.Location
type Options = options.Options
type Result = heuristic.Result
type Penalty = heuristic.Penalty

// DefaultOptions returns the configuration a run starts from.
func DefaultOptions() *Options {
	return options.Defaults()
}

// Run performs one full debugging session: parse the Dex commands out of
// opts.SourceFiles, drive opts.Debugger over opts.Executable in a child
// process, and score the recorded trace. The session's temporary files live
// in a fresh working directory that is removed before Run returns.
//
// Callers that need the working directory to survive, or a different
// lifecycle around the child process, should use cmd/dexter instead.
func Run(ctx context.Context, opts *Options) (*Trace, *Result, error) {
	wd, err := driver.NewWorkDir("")
	if err != nil {
		return nil, nil, err
	}
	defer wd.Close()
	opts.WorkingDirectory = wd.Path

	dctx := &debugger.Context{Options: opts, Version: Version}
	t, err := driver.New(dctx).Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	result, err := heuristic.Score(t)
	if err != nil {
		return nil, nil, err
	}
	return t, result, nil
}

// ReadTrace loads a trace envelope previously written by a run.
func ReadTrace(path string) (*Trace, error) {
	return trace.ReadFile(path)
}

// ScoreTrace re-scores a recorded trace against its embedded commands.
func ScoreTrace(t *Trace) (*Result, error) {
	return heuristic.Score(t)
}

// Debuggers lists the registered backend keys.
func Debuggers() []string {
	return debugger.Keys()
}
