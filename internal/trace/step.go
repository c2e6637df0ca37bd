package trace

import (
	"fmt"
	"sort"
	"strings"
)

// StepKind classifies one debugger stop relative to its predecessor.
type StepKind string

const (
	// StepFunc marks entry into a function defined in one of the trace's
	// source paths.
	StepFunc StepKind = "FUNC"
	// StepFuncExternal marks entry into a function defined outside the
	// trace's source paths.
	StepFuncExternal StepKind = "FUNC_EXTERNAL"
	// StepFuncUnknown marks entry into a function with no known file.
	StepFuncUnknown StepKind = "FUNC_UNKNOWN"
	// StepSame means the debugger stopped at the previous step's location.
	StepSame StepKind = "SAME"
	// StepForward means execution moved later within the same function.
	StepForward StepKind = "FORWARD"
	// StepBackward means execution moved earlier within the same function.
	StepBackward StepKind = "BACKWARD"
	// StepUnknown means the stop could not be classified, because either
	// this step or its predecessor has no known function.
	StepUnknown StepKind = "UNKNOWN"
)

// IsFuncEntry reports whether the kind begins a new run of steps, i.e. the
// debugger entered a function rather than moving within one.
func (k StepKind) IsFuncEntry() bool {
	switch k {
	case StepFunc, StepFuncExternal, StepFuncUnknown:
		return true
	}
	return false
}

// StepKinds lists every kind, in classification-precedence order. Used to
// validate kind names arriving from commands or serialized traces.
func StepKinds() []StepKind {
	return []StepKind{
		StepUnknown, StepFunc, StepFuncUnknown, StepFuncExternal,
		StepSame, StepForward, StepBackward,
	}
}

// ParseStepKind resolves a kind name, e.g. from a DexExpectStepKind command.
func ParseStepKind(name string) (StepKind, error) {
	for _, k := range StepKinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown step kind %q", name)
}

// Step is one observed debugger stop. The caller fills Function, Location
// and Watches; Trace.Append assigns Kind and the step is immutable from
// then on. An empty Function means the debugger could not name the frame.
type Step struct {
	Function string            `json:"function,omitempty"`
	Location Location          `json:"location"`
	Watches  map[string]string `json:"watches,omitempty"`
	Kind     StepKind          `json:"step_kind"`
}

func (s *Step) String() string {
	fn := s.Function
	if fn == "" {
		fn = "<unknown>"
	}
	out := fmt.Sprintf("%s %s at %s", s.Kind, fn, s.Location)
	if len(s.Watches) > 0 {
		names := make([]string, 0, len(s.Watches))
		for name := range s.Watches {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, fmt.Sprintf("%s=%s", name, s.Watches[name]))
		}
		out += " {" + strings.Join(pairs, ", ") + "}"
	}
	return out
}
