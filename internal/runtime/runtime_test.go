package runtime

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Melamoto/dexter/internal/heuristic"
	"github.com/Melamoto/dexter/internal/store"
	"github.com/Melamoto/dexter/internal/trace"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })

	tr := trace.New("1.0.0", "/tmp/a.out", []string{"vla.c"})
	tr.Backend = &trace.BackendInfo{Name: "lldb"}
	tr.Append(&trace.Step{
		Function: "main",
		Location: trace.Location{Path: "vla.c", Line: 10},
		Watches:  map[string]string{"i": "0"},
	})
	tr.Append(&trace.Step{
		Function: "main",
		Location: trace.Location{Path: "vla.c", Line: 11},
	})

	base := time.Now().Add(-time.Hour)
	_, err = s.RecordRun(base, tr, &heuristic.Result{Score: 0.5, Points: 6, MaxPoints: 12})
	require.NoError(t, err)
	_, err = s.RecordRun(base.Add(time.Minute), tr, &heuristic.Result{Score: 0.75, Points: 3, MaxPoints: 12})
	require.NoError(t, err)

	return NewRuntime(s)
}

func TestRunSource_Runs(t *testing.T) {
	rt := newTestRuntime(t)

	script := `
rs := runs()
assert(len(rs) == 2, 'expected 2 runs, got {len(rs)}')
assert(rs[0]["score"] == 0.75, 'newest run first, got {rs[0]["score"]}')
assert(rs[0]["executable"] == "/tmp/a.out", "wrong executable")
assert(rs[0]["debugger"] == "lldb", "wrong debugger")
assert(rs[0]["num_steps"] == 2, "wrong step count")
`
	require.NoError(t, rt.RunSource(context.Background(), script))
}

func TestRunSource_RunSteps(t *testing.T) {
	rt := newTestRuntime(t)

	script := `
rs := runs()
steps := run_steps(rs[0]["id"])
assert(len(steps) == 2, 'expected 2 steps, got {len(steps)}')
assert(steps[0]["function"] == "main", "wrong function")
assert(steps[0]["kind"] == "FUNC", 'wrong kind {steps[0]["kind"]}')
assert(steps[1]["kind"] == "FORWARD", 'wrong kind {steps[1]["kind"]}')
assert(steps[0]["watches"]["i"] == "0", "watch value lost")
`
	require.NoError(t, rt.RunSource(context.Background(), script))
}

func TestRunSource_BestRun(t *testing.T) {
	rt := newTestRuntime(t)

	script := `
best := best_run("/tmp/a.out")
assert(best["score"] == 0.75, 'expected best score 0.75, got {best["score"]}')
assert(best_run("/no/such/exe") == nil, "expected nil for unknown executable")
`
	require.NoError(t, rt.RunSource(context.Background(), script))
}

func TestRunSource_ScriptError(t *testing.T) {
	rt := newTestRuntime(t)

	err := rt.RunSource(context.Background(), `assert(false, "boom")`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestRunSource_BadArguments(t *testing.T) {
	rt := newTestRuntime(t)

	require.Error(t, rt.RunSource(context.Background(), `runs(1)`))
	require.Error(t, rt.RunSource(context.Background(), `run_steps("nope")`))
}

func TestRunScript_File(t *testing.T) {
	rt := newTestRuntime(t)

	path := filepath.Join(t.TempDir(), "report.risor")
	require.NoError(t, os.WriteFile(path, []byte(`assert(len(runs()) == 2, "want 2 runs")`), 0o644))
	require.NoError(t, rt.RunScript(context.Background(), path))

	require.Error(t, rt.RunScript(context.Background(), filepath.Join(t.TempDir(), "missing.risor")))
}
