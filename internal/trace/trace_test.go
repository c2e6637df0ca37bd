package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrace(t *testing.T, sourcePaths ...string) *Trace {
	t.Helper()
	return New("1.0.0", "/tmp/a.out", sourcePaths)
}

func step(fn string, path string, line int) *Step {
	return &Step{Function: fn, Location: Location{Path: path, Line: line}}
}

func TestAppend_NoFunctionIsUnknown(t *testing.T) {
	tr := newTestTrace(t, "file.c")

	s := tr.Append(step("", "file.c", 10))
	assert.Equal(t, StepUnknown, s.Kind)

	// Still UNKNOWN with history behind it.
	tr.Append(step("main", "file.c", 11))
	s = tr.Append(step("", "file.c", 12))
	assert.Equal(t, StepUnknown, s.Kind)
}

func TestAppend_FirstStepEntryKinds(t *testing.T) {
	tests := []struct {
		name string
		path string
		want StepKind
	}{
		{"path in source set", "file.c", StepFunc},
		{"path absent", "", StepFuncUnknown},
		{"path outside source set", "/usr/include/stdio.h", StepFuncExternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTrace(t, "file.c")
			s := tr.Append(step("main", tt.path, 1))
			assert.Equal(t, tt.want, s.Kind)
		})
	}
}

func TestAppend_AfterUnknownPredecessor(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(step("", "file.c", 10))

	// Predecessor has no function, so the next step cannot be classified
	// even though its own function is known.
	s := tr.Append(step("main", "file.c", 11))
	assert.Equal(t, StepUnknown, s.Kind)
}

func TestAppend_SameFunctionDirections(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(step("main", "file.c", 10))

	assert.Equal(t, StepSame, tr.Append(step("main", "file.c", 10)).Kind)
	assert.Equal(t, StepForward, tr.Append(step("main", "file.c", 11)).Kind)
	assert.Equal(t, StepBackward, tr.Append(step("main", "file.c", 9)).Kind)
}

func TestAppend_ColumnBreaksLineTies(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(&Step{Function: "main", Location: Location{Path: "file.c", Line: 10, Column: 4}})

	s := tr.Append(&Step{Function: "main", Location: Location{Path: "file.c", Line: 10, Column: 9}})
	assert.Equal(t, StepForward, s.Kind)

	s = tr.Append(&Step{Function: "main", Location: Location{Path: "file.c", Line: 10, Column: 2}})
	assert.Equal(t, StepBackward, s.Kind)
}

// The worked end-to-end classification sequence: one function stepped over,
// a second function entered, then a frame the debugger could not name.
func TestAppend_ClassificationSequence(t *testing.T) {
	tr := newTestTrace(t, "file.c")

	steps := []*Step{
		step("main", "file.c", 10),
		step("main", "file.c", 10),
		step("main", "file.c", 11),
		step("main", "file.c", 9),
		step("helper", "file.c", 20),
		step("", "file.c", 21),
	}
	want := []StepKind{
		StepFunc, StepSame, StepForward, StepBackward, StepFunc, StepUnknown,
	}
	for i, s := range steps {
		got := tr.Append(s)
		assert.Equal(t, want[i], got.Kind, "step %d", i+1)
	}
	require.Equal(t, len(steps), tr.NumSteps())
}

func TestAppend_FunctionChangeOutsideSources(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(step("main", "file.c", 10))

	s := tr.Append(step("memcpy", "/usr/src/string.c", 40))
	assert.Equal(t, StepFuncExternal, s.Kind)

	s = tr.Append(step("main", "", 11))
	assert.Equal(t, StepFuncUnknown, s.Kind)
}

func TestClear_KeepsMetadata(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Commands.Append("DexLabel", Command{RawText: "DexLabel('x')"})
	tr.Append(step("main", "file.c", 10))

	tr.Clear()

	assert.Zero(t, tr.NumSteps())
	assert.Equal(t, "1.0.0", tr.DexterVersion)
	assert.Equal(t, 1, tr.Commands.Len())
	assert.Equal(t, []string{"file.c"}, tr.SourcePaths)
}

func TestRender_GroupsRunsAndCounts(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(step("main", "file.c", 10))
	tr.Append(step("main", "file.c", 11))
	tr.Append(step("helper", "file.c", 20))

	out := tr.Render()
	require.True(t, strings.HasPrefix(out, "## BEGIN ##\n"))
	require.True(t, strings.HasSuffix(out, "## END (3 steps) ##\n"))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	// First run of steps is one color, the helper entry starts another.
	assert.True(t, strings.HasPrefix(lines[1], "<g>"))
	assert.True(t, strings.HasPrefix(lines[2], "<g>"))
	assert.True(t, strings.HasPrefix(lines[3], "<b>"))

	// Pure projection: rendering twice is identical.
	assert.Equal(t, out, tr.Render())
}

func TestRender_SingularStepCount(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(step("main", "file.c", 10))
	assert.Contains(t, tr.Render(), "## END (1 step) ##")
}

func TestStepString_IncludesWatches(t *testing.T) {
	s := &Step{
		Function: "main",
		Location: Location{Path: "file.c", Line: 10, Column: 2},
		Watches:  map[string]string{"i": "3", "total": "7"},
		Kind:     StepForward,
	}
	// Watches render sorted by name so output is stable.
	assert.Equal(t, "FORWARD main at file.c:10:2 {i=3, total=7}", s.String())
}

func TestLocationCompare(t *testing.T) {
	a := Location{Path: "a.c", Line: 10, Column: 2}
	assert.Equal(t, 0, a.Compare(Location{Path: "b.c", Line: 10, Column: 2}))
	assert.Equal(t, -1, a.Compare(Location{Line: 11}))
	assert.Equal(t, 1, a.Compare(Location{Line: 10, Column: 1}))

	assert.True(t, a.Equal(Location{Path: "a.c", Line: 10, Column: 2}))
	assert.False(t, a.Equal(Location{Path: "b.c", Line: 10, Column: 2}))
}

func TestParseStepKind(t *testing.T) {
	k, err := ParseStepKind("FUNC_EXTERNAL")
	require.NoError(t, err)
	assert.Equal(t, StepFuncExternal, k)

	_, err = ParseStepKind("SIDEWAYS")
	require.Error(t, err)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	tr := newTestTrace(t, "file.c", "other.c")
	tr.Builder = &BuilderInfo{Name: "clang-c", CFlags: "-O0 -g"}
	tr.Backend = &BackendInfo{Name: "lldb", Version: "lldb version 17.0.6"}

	// Two command groups; insertion order must survive the round-trip.
	tr.Commands.Append("DexExpectWatchValue", Command{
		Location: Location{Path: "file.c", Line: 21},
		RawText:  "DexExpectWatchValue('vla[0]', '23', on_line='end_init')",
	})
	tr.Commands.Append("DexLabel", Command{
		Location: Location{Path: "file.c", Line: 12},
		RawText:  "DexLabel('end_init')",
	})
	tr.Commands.Append("DexExpectWatchValue", Command{
		Location: Location{Path: "file.c", Line: 22},
		RawText:  "DexExpectWatchValue('vla[1]', '22', on_line='end_init')",
	})

	tr.Append(&Step{Function: "main", Location: Location{Path: "file.c", Line: 10}, Watches: map[string]string{"x": "1"}})
	tr.Append(step("main", "file.c", 11))
	tr.Append(step("", "", 0))

	data, err := tr.EncodeJSON()
	require.NoError(t, err)

	got, err := DecodeJSON(data)
	require.NoError(t, err)

	require.Equal(t, tr.NumSteps(), got.NumSteps())
	for i := range tr.Steps {
		assert.Equal(t, tr.Steps[i].Kind, got.Steps[i].Kind, "step %d", i)
		assert.Equal(t, tr.Steps[i].Function, got.Steps[i].Function, "step %d", i)
		assert.True(t, tr.Steps[i].Location.Equal(got.Steps[i].Location), "step %d", i)
	}
	assert.Equal(t, tr.Steps[0].Watches, got.Steps[0].Watches)

	assert.Equal(t, []string{"DexExpectWatchValue", "DexLabel"}, got.Commands.Keys())
	assert.Len(t, got.Commands.Get("DexExpectWatchValue"), 2)
	assert.Len(t, got.Commands.Get("DexLabel"), 1)

	assert.Equal(t, tr.DexterVersion, got.DexterVersion)
	assert.Equal(t, tr.ExecutablePath, got.ExecutablePath)
	assert.Equal(t, tr.SourcePaths, got.SourcePaths)
	require.NotNil(t, got.Builder)
	assert.Equal(t, "clang-c", got.Builder.Name)
	require.NotNil(t, got.Backend)
	assert.Equal(t, "lldb", got.Backend.Name)
}

func TestEnvelope_FileRoundTrip(t *testing.T) {
	tr := newTestTrace(t, "file.c")
	tr.Append(step("main", "file.c", 10))

	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, tr.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.NumSteps())
	assert.Equal(t, StepFunc, got.Steps[0].Kind)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := DecodeJSON([]byte("{not json"))
	require.Error(t, err)
}

func TestCommandMap_EmptyMarshals(t *testing.T) {
	m := NewCommandMap()
	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	var round CommandMap
	require.NoError(t, round.UnmarshalJSON(data))
	assert.Zero(t, round.Len())
}
