// Package driver isolates the actual debugger-driving work in a child
// process. The parent builds a trace envelope, serializes it and the run
// options to files in the working directory, re-invokes its own binary in
// an internal run mode against those files, and reads the finished trace
// back once the child exits. The file-based handoff is deliberate: a failed
// run leaves both files behind for inspection.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Melamoto/dexter/internal/command"
	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/timer"
	"github.com/Melamoto/dexter/internal/trace"
)

// InternalRunMode is the argv marker that switches the binary into the
// child-process role.
const InternalRunMode = "run-debugger-internal-"

// Coordinator runs one debugging session out of process.
type Coordinator struct {
	Context *debugger.Context

	// spawn executes the prepared child invocation; tests substitute it.
	spawn func(cmd *exec.Cmd) error
}

// New returns a coordinator bound to a run context.
func New(ctx *debugger.Context) *Coordinator {
	return &Coordinator{
		Context: ctx,
		spawn:   func(cmd *exec.Cmd) error { return cmd.Run() },
	}
}

// Run performs the whole out-of-process session and returns the finished
// trace. Every failure is terminal: there is no retry anywhere in this
// chain, and a partial trace is never returned. The envelope and options
// files are left in the working directory for the outer lifecycle to
// collect.
func (c *Coordinator) Run(ctx context.Context) (*trace.Trace, error) {
	opts := c.Context.Options
	t := trace.New(c.Context.Version, opts.Executable, opts.SourceFiles)

	stop := timer.Start("parsing commands")
	cmds, err := command.ParseFiles(opts.SourceFiles)
	stop()
	if err != nil {
		var perr *command.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("parser error: %w", perr)
		}
		return nil, err
	}
	t.Commands = command.Group(cmds)

	tracePath, err := writeTempTrace(opts.WorkingDirectory, t)
	if err != nil {
		return nil, err
	}
	opts.TimerIndent = timer.Level() + 2
	optionsPath, err := writeTempOptions(opts.WorkingDirectory, c.Context)
	if err != nil {
		return nil, err
	}

	exe, err := entryPoint()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, exe,
		InternalRunMode,
		tracePath,
		optionsPath,
		"--working-directory", opts.WorkingDirectory,
		"--unittest=off",
		"--lint=off",
		fmt.Sprintf("--indent-timer-level=%d", opts.TimerIndent),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stop = timer.Start("running external debugger process")
	err = c.spawn(cmd)
	stop()
	if err != nil {
		return nil, &SubprocessError{ExitCode: exitCode(err), Cause: err}
	}

	return trace.ReadFile(tracePath)
}

// writeTempTrace serializes the envelope to a fresh file in dir. The file
// deliberately outlives this function so the child can open it by path.
func writeTempTrace(dir string, t *trace.Trace) (string, error) {
	f, err := os.CreateTemp(dir, "dexter-trace-*.json")
	if err != nil {
		return "", fmt.Errorf("create envelope file: %w", err)
	}
	path := f.Name()
	f.Close()
	if err := t.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// writeTempOptions serializes the run options next to the envelope.
func writeTempOptions(dir string, ctx *debugger.Context) (string, error) {
	f, err := os.CreateTemp(dir, "dexter-options-*.bin")
	if err != nil {
		return "", fmt.Errorf("create options file: %w", err)
	}
	path := f.Name()
	f.Close()
	if err := ctx.Options.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// entryPoint resolves the binary to re-invoke for the child process. The
// running executable is preferred; when it cannot be resolved, argv[0] made
// absolute against the current directory is tried. Finding neither on disk
// is fatal.
func entryPoint() (string, error) {
	if exe, err := os.Executable(); err == nil {
		if _, err := os.Stat(exe); err == nil {
			return exe, nil
		}
	}
	if argv0, err := filepath.Abs(os.Args[0]); err == nil {
		if _, err := os.Stat(argv0); err == nil {
			return argv0, nil
		}
	}
	return "", fmt.Errorf("cannot locate the dexter binary to re-invoke as %q", InternalRunMode)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
