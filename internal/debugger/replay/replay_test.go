package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/trace"
)

const stepLog = `[
  {"function": "main", "location": {"path": "file.c", "line": 10}},
  {"function": "main", "location": {"path": "file.c", "line": 11},
   "watches": {"i": "0"}},
  {"function": "helper", "location": {"path": "file.c", "line": 20}}
]`

func writeStepLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steps.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newReplay(t *testing.T, opts *options.Options) debugger.Backend {
	t.Helper()
	b, err := New(&debugger.Context{Options: opts, Version: "test"}, nil)
	require.NoError(t, err)
	return b
}

func TestDrive_ReplaysAndClassifies(t *testing.T) {
	opts := options.Defaults()
	opts.Debugger = "replay"
	opts.ReplaySteps = writeStepLog(t, stepLog)

	b := newReplay(t, opts)
	require.True(t, b.IsAvailable())

	tr := trace.New("test", "/tmp/a.out", []string{"file.c"})
	require.NoError(t, b.Drive(context.Background(), tr))

	require.Equal(t, 3, tr.NumSteps())
	assert.Equal(t, trace.StepFunc, tr.Steps[0].Kind)
	assert.Equal(t, trace.StepForward, tr.Steps[1].Kind)
	assert.Equal(t, trace.StepFunc, tr.Steps[2].Kind)
	assert.Equal(t, "0", tr.Steps[1].Watches["i"])
}

func TestDrive_MaxStepsBound(t *testing.T) {
	opts := options.Defaults()
	opts.ReplaySteps = writeStepLog(t, stepLog)
	opts.MaxSteps = 2

	tr := trace.New("test", "/tmp/a.out", []string{"file.c"})
	require.NoError(t, newReplay(t, opts).Drive(context.Background(), tr))
	assert.Equal(t, 2, tr.NumSteps())
}

func TestNew_UnavailableWithoutStepLog(t *testing.T) {
	b := newReplay(t, options.Defaults())
	assert.False(t, b.IsAvailable())
	assert.Contains(t, b.LoadingError(), "--replay-steps")
}

func TestNew_UnavailableWhenLogMissing(t *testing.T) {
	opts := options.Defaults()
	opts.ReplaySteps = filepath.Join(t.TempDir(), "absent.json")
	b := newReplay(t, opts)
	assert.False(t, b.IsAvailable())
}

func TestDrive_MalformedLog(t *testing.T) {
	opts := options.Defaults()
	opts.ReplaySteps = writeStepLog(t, "{not a list")

	tr := trace.New("test", "/tmp/a.out", []string{"file.c"})
	err := newReplay(t, opts).Drive(context.Background(), tr)
	require.Error(t, err)
}
