package dexter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Melamoto/dexter/internal/trace"
)

func recordedTrace() *Trace {
	t := trace.New(Version, "/tmp/a.out", []string{"main.c"})
	t.Commands.Append("DexExpectWatchValue", trace.Command{
		Location: trace.Location{Path: "main.c", Line: 20},
		RawText:  `DexExpectWatchValue('i', '0', '1', from_line=10, to_line=12)`,
	})
	t.Append(&Step{
		Function: "main",
		Location: Location{Path: "main.c", Line: 10},
		Watches:  map[string]string{"i": "0"},
	})
	t.Append(&Step{
		Function: "main",
		Location: Location{Path: "main.c", Line: 11},
		Watches:  map[string]string{"i": "1"},
	})
	return t
}

func TestScoreTrace_PerfectRun(t *testing.T) {
	result, err := ScoreTrace(recordedTrace())
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
	assert.Empty(t, result.Penalties)
}

func TestReadTrace_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	orig := recordedTrace()
	require.NoError(t, orig.WriteFile(path))

	got, err := ReadTrace(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumSteps())
	assert.Equal(t, []string{"DexExpectWatchValue"}, got.Commands.Keys())
	assert.Equal(t, trace.StepForward, got.Steps[1].Kind)
}

func TestReadTrace_Missing(t *testing.T) {
	_, err := ReadTrace(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestRun_MissingSourceIsFatal(t *testing.T) {
	opts := DefaultOptions()
	opts.Executable = "/tmp/a.out"
	opts.SourceFiles = []string{filepath.Join(t.TempDir(), "missing.c")}

	_, _, err := Run(context.Background(), opts)
	require.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "lldb", opts.Debugger)
	assert.Equal(t, 1000, opts.MaxSteps)
}
