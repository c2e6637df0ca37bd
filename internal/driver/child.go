package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/timer"
	"github.com/Melamoto/dexter/internal/trace"
)

// RunInternal is the child-process side of the protocol. It loads the
// options blob and the envelope the parent wrote, drives the requested
// backend to rebuild the step log, and writes the finished trace back to
// the same envelope path. Any error here surfaces to the parent only as a
// non-zero exit status.
func RunInternal(ctx context.Context, tracePath, optionsPath string) error {
	opts, err := options.Load(optionsPath)
	if err != nil {
		return err
	}
	timer.SetEnabled(opts.TimeReport)
	timer.SetBaseIndent(opts.TimerIndent)

	t, err := trace.ReadFile(tracePath)
	if err != nil {
		return err
	}

	dctx := &debugger.Context{Options: opts, Version: t.DexterVersion}
	b, err := debugger.Load(opts.Debugger, dctx, t)
	if err != nil {
		return err
	}
	if !b.IsAvailable() {
		return &debugger.LoadError{Key: opts.Debugger, Message: b.LoadingError()}
	}

	// The skeleton's steps are replaced wholesale by freshly observed ones.
	t.Clear()

	stop := timer.Start("running " + opts.Debugger)
	err = b.Drive(ctx, t)
	stop()
	if err != nil {
		return fmt.Errorf("drive %s: %w", opts.Debugger, err)
	}

	t.Backend = &trace.BackendInfo{
		Name:    b.Name(),
		Version: firstLine(b.Version()),
	}
	return t.WriteFile(tracePath)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
