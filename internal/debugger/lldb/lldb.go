// Package lldb drives the LLDB debugger in batch mode. Availability is
// probed at construction time by running the configured lldb executable;
// driving launches the debuggee under lldb with a breakpoint on main and a
// bounded number of step commands, then reconstructs stops from the stop
// listing lldb prints.
package lldb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/trace"
)

func init() {
	debugger.Register("lldb", New)
}

// Backend is an lldb session bound to one run.
type Backend struct {
	opts         *options.Options
	prior        *trace.Trace
	version      string
	loadErr      string
	loadErrTrace string
}

// New constructs the backend and probes lldb. A missing or broken lldb
// leaves the backend constructed but unavailable.
func New(ctx *debugger.Context, prior *trace.Trace) (debugger.Backend, error) {
	if ctx == nil || ctx.Options == nil {
		return nil, fmt.Errorf("lldb: nil run context")
	}
	b := &Backend{opts: ctx.Options, prior: prior}
	b.probe()
	return b, nil
}

func (b *Backend) executable() string {
	if b.opts.LLDBExecutable != "" {
		return b.opts.LLDBExecutable
	}
	return "lldb"
}

func (b *Backend) probe() {
	out, err := exec.Command(b.executable(), "--version").CombinedOutput()
	if err != nil {
		b.loadErr = fmt.Sprintf("could not run %q", b.executable())
		b.loadErrTrace = strings.TrimSpace(err.Error() + "\n" + string(out))
		return
	}
	b.version = strings.TrimSpace(string(out))
}

func (b *Backend) Name() string              { return "lldb" }
func (b *Backend) IsAvailable() bool         { return b.loadErr == "" }
func (b *Backend) Version() string           { return b.version }
func (b *Backend) LoadingError() string      { return b.loadErr }
func (b *Backend) LoadingErrorTrace() string { return b.loadErrTrace }

// Drive runs the debuggee under lldb and appends every observed stop to the
// trace.
func (b *Backend) Drive(ctx context.Context, t *trace.Trace) error {
	if !b.IsAvailable() {
		return &debugger.LoadError{Key: "lldb", Message: b.loadErr}
	}

	args := []string{
		"--batch", "--no-use-colors",
	}
	if b.opts.Arch != "" {
		args = append(args, "--arch", b.opts.Arch)
	}
	args = append(args,
		"-o", "breakpoint set --name main",
		"-o", "process launch",
	)
	for i := 0; i < b.opts.MaxSteps; i++ {
		args = append(args, "-o", "frame variable", "-o", "thread step-in")
	}
	args = append(args, b.opts.Executable)

	cmd := exec.CommandContext(ctx, b.executable(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("lldb session: %w\n%s", err, stderr.String())
	}

	for _, stop := range parseStops(stdout.String(), b.opts.MaxSteps) {
		t.Append(stop)
	}
	return nil
}
