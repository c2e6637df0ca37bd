// Package timer provides the nested diagnostic timers printed during a
// run. The nesting level survives the parent/child process boundary: the
// parent passes its level to the child, which offsets its own timers so
// they print correctly indented under the parent's.
package timer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	enabled bool
	depth   int
	base    int
	output  io.Writer = os.Stderr
)

// SetEnabled turns timer printing on or off. Timers are silent by default.
func SetEnabled(on bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = on
}

// SetBaseIndent sets the indentation offset inherited from a parent
// process.
func SetBaseIndent(n int) {
	mu.Lock()
	defer mu.Unlock()
	if n < 0 {
		n = 0
	}
	base = n
}

// SetOutput redirects timer output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Level returns the current total nesting level, including the inherited
// base. A child process is spawned with this value plus its own offset.
func Level() int {
	mu.Lock()
	defer mu.Unlock()
	return base + depth
}

// Start opens a named timer and returns the function that closes it.
// Closing prints the elapsed time, indented by the nesting level at the
// time Start was called. Typical use:
//
//	defer timer.Start("parsing commands")()
func Start(name string) func() {
	mu.Lock()
	level := base + depth
	depth++
	mu.Unlock()

	began := time.Now()
	return func() {
		elapsed := time.Since(began)
		mu.Lock()
		depth--
		if enabled {
			fmt.Fprintf(output, "%s[%s] took %.4fs\n",
				strings.Repeat(" ", level*2), name, elapsed.Seconds())
		}
		mu.Unlock()
	}
}
