package lldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/options"
)

const transcript = `(lldb) target create "a.out"
Current executable set to 'a.out' (x86_64).
(lldb) breakpoint set --name main
Breakpoint 1: where = a.out` + "`" + `main + 22 at test.c:10:3, address = 0x0000000100003f64
(lldb) process launch
Process 4242 stopped
* thread #1, queue = 'com.apple.main-thread', stop reason = breakpoint 1.1
    frame #0: 0x0000000100003f64 a.out` + "`" + `main at test.c:10:3
(lldb) frame variable
(int) argc = 1
(const char **) argv = 0x00007ff7bfeff3e8
(lldb) thread step-in
Process 4242 stopped
* thread #1, stop reason = step in
    frame #0: 0x0000000100003ecc a.out` + "`" + `init_vla(size=23) at test.c:5:12
(lldb) frame variable
(int) size = 23
(int) vla[0] = 23
(lldb) thread step-in
Process 4242 exited with status = 0 (0x00000000)
`

func TestParseStops_FramesAndWatches(t *testing.T) {
	stops := parseStops(transcript, 100)
	require.Len(t, stops, 2)

	assert.Equal(t, "main", stops[0].Function)
	assert.Equal(t, "test.c", stops[0].Location.Path)
	assert.Equal(t, 10, stops[0].Location.Line)
	assert.Equal(t, 3, stops[0].Location.Column)
	assert.Equal(t, "1", stops[0].Watches["argc"])

	assert.Equal(t, "init_vla", stops[1].Function)
	assert.Equal(t, 5, stops[1].Location.Line)
	assert.Equal(t, "23", stops[1].Watches["size"])
	assert.Equal(t, "23", stops[1].Watches["vla[0]"])
}

func TestParseStops_RespectsMaxSteps(t *testing.T) {
	stops := parseStops(transcript, 1)
	require.Len(t, stops, 1)
	assert.Equal(t, "main", stops[0].Function)
}

func TestParseStops_NoColumn(t *testing.T) {
	stops := parseStops("    frame #0: 0x0000000100003f64 a.out`main at test.c:10\n", 10)
	require.Len(t, stops, 1)
	assert.Equal(t, 10, stops[0].Location.Line)
	assert.Zero(t, stops[0].Location.Column)
}

func TestNew_MissingExecutableIsUnavailable(t *testing.T) {
	opts := options.Defaults()
	opts.LLDBExecutable = "/nonexistent/path/to/lldb"

	b, err := New(&debugger.Context{Options: opts, Version: "test"}, nil)
	require.NoError(t, err)

	assert.False(t, b.IsAvailable())
	assert.Contains(t, b.LoadingError(), "/nonexistent/path/to/lldb")
	assert.NotEmpty(t, b.LoadingErrorTrace())
	assert.Equal(t, "lldb", b.Name())
}

func TestNew_NilContext(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}
