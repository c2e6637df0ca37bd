// Package options defines the run configuration exchanged between the
// parent harness and the child debugger process. The configuration is
// serialized with encoding/gob: the blob is only ever read back by the same
// binary that wrote it, so no cross-version format stability is promised.
package options

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// Options is the full configuration of one debugging run.
type Options struct {
	// Debugger is the backend registry key to drive the run with.
	Debugger string

	// Executable is the debuggee binary.
	Executable string

	// SourceFiles are the instrumented test sources, in command-scan order.
	// They double as the trace's source-path scope.
	SourceFiles []string

	// WorkingDirectory holds the envelope and options temp files.
	WorkingDirectory string

	// MaxSteps bounds how many program steps the backend may record.
	MaxSteps int

	// PauseBetweenSteps throttles backends that poll their engine.
	PauseBetweenSteps time.Duration

	// Arch is the target architecture, for backends that care.
	Arch string

	// LLDBExecutable overrides the lldb binary probed by the lldb backend.
	LLDBExecutable string

	ShowDebugger bool
	Verbose      bool
	NoColor      bool

	// TimeReport enables the diagnostic timers in both processes.
	TimeReport bool

	// FailLt is the score below which a test run counts as failed.
	FailLt float64

	// ReplaySteps points the replay backend at a recorded step log.
	ReplaySteps string

	// TimerIndent is the diagnostic-timer nesting level inherited from the
	// parent process.
	TimerIndent int
}

// Defaults returns the options a run starts from before flags are applied.
func Defaults() *Options {
	return &Options{
		Debugger:       "lldb",
		MaxSteps:       1000,
		Arch:           "x86_64",
		LLDBExecutable: "lldb",
	}
}

// Save writes the options blob to path.
func (o *Options) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create options file: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(o); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return nil
}

// Load reads an options blob written by Save in this same binary.
func Load(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open options file: %w", err)
	}
	defer f.Close()
	o := &Options{}
	if err := gob.NewDecoder(f).Decode(o); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return o, nil
}
