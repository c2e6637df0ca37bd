// Package replay is a debugger backend that re-plays a recorded step log
// instead of driving a live engine. It exists so the whole harness, child
// process included, can run on machines with no native debugger installed:
// point --replay-steps at a JSON step log and every other part of the
// pipeline behaves exactly as in a real run.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/trace"
)

func init() {
	debugger.Register("replay", New)
}

// Backend replays a recorded step log.
type Backend struct {
	opts    *options.Options
	loadErr string
}

// New constructs the backend. It is unavailable until a step log is
// configured and readable.
func New(ctx *debugger.Context, prior *trace.Trace) (debugger.Backend, error) {
	if ctx == nil || ctx.Options == nil {
		return nil, fmt.Errorf("replay: nil run context")
	}
	b := &Backend{opts: ctx.Options}
	switch {
	case b.opts.ReplaySteps == "":
		b.loadErr = "no recorded step log configured (--replay-steps)"
	default:
		if _, err := os.Stat(b.opts.ReplaySteps); err != nil {
			b.loadErr = fmt.Sprintf("cannot read step log: %v", err)
		}
	}
	return b, nil
}

func (b *Backend) Name() string      { return "replay" }
func (b *Backend) IsAvailable() bool { return b.loadErr == "" }

func (b *Backend) Version() string {
	return fmt.Sprintf("replay of %s", b.opts.ReplaySteps)
}

func (b *Backend) LoadingError() string      { return b.loadErr }
func (b *Backend) LoadingErrorTrace() string { return "" }

// Drive appends each recorded stop to the trace, in order, up to MaxSteps.
// Classification happens at append time exactly as with a live backend; any
// kinds present in the recording are ignored.
func (b *Backend) Drive(ctx context.Context, t *trace.Trace) error {
	if !b.IsAvailable() {
		return &debugger.LoadError{Key: "replay", Message: b.loadErr}
	}

	data, err := os.ReadFile(b.opts.ReplaySteps)
	if err != nil {
		return fmt.Errorf("replay: read step log: %w", err)
	}
	var recorded []*trace.Step
	if err := json.Unmarshal(data, &recorded); err != nil {
		return fmt.Errorf("replay: decode step log %s: %w", b.opts.ReplaySteps, err)
	}

	for i, rec := range recorded {
		if i == b.opts.MaxSteps {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		t.Append(&trace.Step{
			Function: rec.Function,
			Location: rec.Location,
			Watches:  rec.Watches,
		})
		if b.opts.PauseBetweenSteps > 0 {
			time.Sleep(b.opts.PauseBetweenSteps)
		}
	}
	return nil
}
