// Package runtime embeds a Risor VM for user analysis scripts. Scripts get
// host functions over the run-history store, so debugging quality can be
// interrogated programmatically:
//
//	for run in runs() { print(run["score"], run["debugger"]) }
package runtime

import (
	"context"
	"fmt"
	"os"

	"github.com/risor-io/risor"

	"github.com/Melamoto/dexter/internal/store"
)

// Runtime runs analysis scripts against one run-history store.
type Runtime struct {
	store *store.Store
}

// NewRuntime creates a Runtime wired to the given store.
func NewRuntime(s *store.Store) *Runtime {
	return &Runtime{store: s}
}

// RunScript loads and executes a Risor script file.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string) error {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("runtime: loading script %s: %w", scriptPath, err)
	}
	return r.eval(ctx, string(data), scriptPath)
}

// RunSource executes Risor source code directly. Useful for testing
// without script files.
func (r *Runtime) RunSource(ctx context.Context, source string) error {
	return r.eval(ctx, source, "<inline>")
}

func (r *Runtime) eval(ctx context.Context, source, label string) error {
	var opts []risor.Option
	for name, val := range r.buildGlobals() {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return nil
}

// buildGlobals constructs the host functions exposed to analysis scripts.
// Risor scripts cannot construct Go struct pointers, so query results are
// converted to Risor maps on the Go side.
func (r *Runtime) buildGlobals() map[string]any {
	return map[string]any{
		"runs":      makeRunsFn(r.store),
		"run_steps": makeRunStepsFn(r.store),
		"best_run":  makeBestRunFn(r.store),
	}
}
