// Package trace holds the execution-step trace: the ordered log of debugger
// stops recorded during a run, the classification of each stop relative to
// its predecessor, and the commands the run was scored against. A Trace is
// the unit of exchange between the parent harness and the child process
// that drives the debugger.
package trace

import (
	"fmt"
	"strings"
)

// BuilderInfo records how the debuggee was built.
type BuilderInfo struct {
	Name    string `json:"name"`
	CFlags  string `json:"cflags,omitempty"`
	LDFlags string `json:"ldflags,omitempty"`
}

// BackendInfo records which debugger produced the steps.
type BackendInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Trace is the full record of one debugging run: metadata, the commands
// parsed from the test sources, and the classified step log. A Trace is
// owned by exactly one process at a time; the coordinator hands it to the
// child through a file and takes it back the same way.
type Trace struct {
	DexterVersion  string       `json:"dexter_version"`
	ExecutablePath string       `json:"executable_path"`
	SourcePaths    []string     `json:"source_paths"`
	Builder        *BuilderInfo `json:"builder,omitempty"`
	Backend        *BackendInfo `json:"debugger,omitempty"`
	Commands       *CommandMap  `json:"commands"`
	Steps          []*Step      `json:"steps"`
}

// New returns a trace with no commands or steps.
func New(version, executablePath string, sourcePaths []string) *Trace {
	return &Trace{
		DexterVersion:  version,
		ExecutablePath: executablePath,
		SourcePaths:    sourcePaths,
		Commands:       NewCommandMap(),
	}
}

// inSourcePaths reports whether path is one of the trace's source files.
func (t *Trace) inSourcePaths(path string) bool {
	for _, p := range t.SourcePaths {
		if p == path {
			return true
		}
	}
	return false
}

// entryKind classifies a function-entry step by where the entered function
// lives: in the traced sources, in an unknown file, or elsewhere.
func (t *Trace) entryKind(s *Step) StepKind {
	if t.inSourcePaths(s.Location.Path) {
		return StepFunc
	}
	if s.Location.Path == "" {
		return StepFuncUnknown
	}
	return StepFuncExternal
}

// Append classifies the step against the current last step, stores it, and
// returns it. Classification is a strict left-to-right fold: a step's kind
// is fixed at append time and never revisited.
//
// Precedence: a step with no function is UNKNOWN; the first step, or any
// step whose function differs from its predecessor's, is a function entry
// (FUNC / FUNC_UNKNOWN / FUNC_EXTERNAL by path); a step following a
// function-less predecessor is UNKNOWN; otherwise the two locations decide
// SAME, BACKWARD or FORWARD.
func (t *Trace) Append(s *Step) *Step {
	switch {
	case s.Function == "":
		s.Kind = StepUnknown
	case len(t.Steps) == 0:
		s.Kind = t.entryKind(s)
	default:
		prev := t.Steps[len(t.Steps)-1]
		switch {
		case prev.Function == "":
			s.Kind = StepUnknown
		case prev.Function != s.Function:
			s.Kind = t.entryKind(s)
		default:
			switch prev.Location.Compare(s.Location) {
			case 0:
				s.Kind = StepSame
			case 1:
				s.Kind = StepBackward
			default:
				s.Kind = StepForward
			}
		}
	}
	t.Steps = append(t.Steps, s)
	return s
}

// Clear drops all steps, leaving every other field intact. Used when a
// deserialized skeleton trace has its steps rebuilt from live debugger
// stops.
func (t *Trace) Clear() {
	t.Steps = nil
}

// NumSteps returns the number of recorded steps.
func (t *Trace) NumSteps() int {
	return len(t.Steps)
}

// renderColors is the rotation of color tags used by Render; the color
// advances at every function entry so each run of steps inside one function
// shares a color.
var renderColors = []string{"r", "g", "b", "y"}

// Render returns the color-tagged text projection of the step log. It is a
// pure function of the step sequence: rendering the same trace twice yields
// identical text. Tags are resolved to terminal styles by internal/output.
func (t *Trace) Render() string {
	var b strings.Builder
	b.WriteString("## BEGIN ##\n")
	colorIdx := 0
	for _, s := range t.Steps {
		if s.Kind.IsFuncEntry() {
			colorIdx++
		}
		color := renderColors[colorIdx%len(renderColors)]
		fmt.Fprintf(&b, "<%s>%s</>\n", color, s)
	}
	plural := "s"
	if len(t.Steps) == 1 {
		plural = ""
	}
	fmt.Fprintf(&b, "## END (%d step%s) ##\n", len(t.Steps), plural)
	return b.String()
}
