// Package heuristic scores a finished trace against the expectation
// commands embedded in the test sources. The score is 1.0 for a debugging
// experience that met every expectation, falling toward 0.0 as penalties
// accumulate.
package heuristic

import (
	"fmt"
	"math"
	"strings"

	"github.com/Melamoto/dexter/internal/command"
	"github.com/Melamoto/dexter/internal/trace"
)

// Penalty points per violated expectation.
const (
	missingValuePoints = 3
	stepKindPoints     = 2
	unreachablePoints  = 4
)

// Penalty is one violated expectation.
type Penalty struct {
	// Command names the expectation that was violated.
	Command string

	// Loc anchors the expectation in the test source.
	Loc trace.Location

	// Points is the cost charged.
	Points int

	// Reason says what went wrong.
	Reason string
}

// Result is the outcome of scoring one trace.
type Result struct {
	// Score is 1 - Points/MaxPoints, or 1.0 when nothing was scorable.
	Score float64

	// Points is the total charged, MaxPoints the worst possible charge.
	Points    int
	MaxPoints int

	Penalties []Penalty
}

// Summary renders the result as color-tagged text for the console.
func (r *Result) Summary() string {
	var b strings.Builder
	for _, p := range r.Penalties {
		fmt.Fprintf(&b, "<y>%s</> <r>[-%d]</> %s (%s)\n",
			p.Command, p.Points, p.Reason, p.Loc)
	}
	color := "g"
	if r.Score < 1.0 {
		color = "r"
	}
	fmt.Fprintf(&b, "score: <%s>%.4f</> (%d of %d penalty points)\n",
		color, r.Score, r.Points, r.MaxPoints)
	return b.String()
}

// scorer accumulates penalties over one trace.
type scorer struct {
	t      *trace.Trace
	labels map[string]int
	result Result
}

// Score evaluates every expectation command carried by the trace. Commands
// arrive as raw envelope text and are re-parsed here; a command that fails
// to parse is an error, since the parent validated all commands before the
// run.
func Score(t *trace.Trace) (*Result, error) {
	s := &scorer{t: t, labels: map[string]int{}}

	var cmds []*command.Command
	for _, key := range t.Commands.Keys() {
		for _, raw := range t.Commands.Get(key) {
			cmd, err := command.ParseRaw(raw.RawText, raw.Location)
			if err != nil {
				return nil, fmt.Errorf("re-parse command: %w", err)
			}
			cmds = append(cmds, cmd)
			if cmd.Name == command.DexLabel {
				if err := s.bindLabel(cmd); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, cmd := range cmds {
		var err error
		switch cmd.Name {
		case command.DexExpectWatchValue:
			err = s.expectWatchValue(cmd)
		case command.DexExpectStepKind:
			err = s.expectStepKind(cmd)
		case command.DexUnreachable:
			s.unreachable(cmd)
		}
		if err != nil {
			return nil, fmt.Errorf("%s at %s: %w", cmd.Name, cmd.Loc, err)
		}
	}

	if s.result.MaxPoints == 0 {
		s.result.Score = 1.0
	} else {
		s.result.Score = 1.0 - float64(s.result.Points)/float64(s.result.MaxPoints)
	}
	return &s.result, nil
}

func (s *scorer) charge(cmd *command.Command, points int, reason string) {
	s.result.Points += points
	s.result.Penalties = append(s.result.Penalties, Penalty{
		Command: cmd.Name,
		Loc:     cmd.Loc,
		Points:  points,
		Reason:  reason,
	})
}

func (s *scorer) bindLabel(cmd *command.Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("DexLabel at %s: expects one name", cmd.Loc)
	}
	name, ok := cmd.Args[0].(string)
	if !ok {
		return fmt.Errorf("DexLabel at %s: name must be a string", cmd.Loc)
	}
	s.labels[name] = cmd.Loc.Line
	return nil
}

// resolveLine turns a line argument into a line number: integers stand as
// written, strings name a DexLabel.
func (s *scorer) resolveLine(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		line, ok := s.labels[x]
		if !ok {
			return 0, fmt.Errorf("unknown label %q", x)
		}
		return line, nil
	}
	return 0, fmt.Errorf("line must be an integer or a label name, got %T", v)
}

// lineRange extracts the command's line scope from on_line or
// from_line/to_line. A command with no range applies to the whole program.
func (s *scorer) lineRange(cmd *command.Command) (from, to int, err error) {
	if v, ok := cmd.KwArgs["on_line"]; ok {
		line, err := s.resolveLine(v)
		if err != nil {
			return 0, 0, err
		}
		return line, line, nil
	}
	from, to = 1, math.MaxInt
	if v, ok := cmd.KwArgs["from_line"]; ok {
		if from, err = s.resolveLine(v); err != nil {
			return 0, 0, err
		}
	}
	if v, ok := cmd.KwArgs["to_line"]; ok {
		if to, err = s.resolveLine(v); err != nil {
			return 0, 0, err
		}
	}
	return from, to, nil
}

// expectWatchValue checks that the watched expression took the expected
// values, in order, over the steps inside the command's line range.
func (s *scorer) expectWatchValue(cmd *command.Command) error {
	strArgs := cmd.StringArgs()
	if len(strArgs) == 0 {
		return fmt.Errorf("expects an expression argument")
	}
	expr, expected := strArgs[0], strArgs[1:]
	from, to, err := s.lineRange(cmd)
	if err != nil {
		return err
	}

	// Observed values of expr inside the range, consecutive repeats
	// collapsed: stepping several times through one line re-reports the
	// same value.
	var actual []string
	for _, step := range s.t.Steps {
		if step.Location.Line < from || step.Location.Line > to {
			continue
		}
		v, ok := step.Watches[expr]
		if !ok {
			continue
		}
		if len(actual) == 0 || actual[len(actual)-1] != v {
			actual = append(actual, v)
		}
	}

	s.result.MaxPoints += len(expected) * missingValuePoints
	i := 0
	for _, want := range expected {
		found := false
		for ; i < len(actual); i++ {
			if actual[i] == want {
				found = true
				i++
				break
			}
		}
		if !found {
			s.charge(cmd, missingValuePoints,
				fmt.Sprintf("%s: expected value %q not seen in order", expr, want))
		}
	}
	return nil
}

// expectStepKind checks the observed count of one step kind.
func (s *scorer) expectStepKind(cmd *command.Command) error {
	if len(cmd.Args) != 2 {
		return fmt.Errorf("expects a kind and a count")
	}
	name, ok := cmd.Args[0].(string)
	if !ok {
		return fmt.Errorf("kind must be a string")
	}
	want, ok := cmd.Args[1].(int)
	if !ok {
		return fmt.Errorf("count must be an integer")
	}
	kind, err := trace.ParseStepKind(name)
	if err != nil {
		return err
	}

	got := 0
	for _, step := range s.t.Steps {
		if step.Kind == kind {
			got++
		}
	}

	s.result.MaxPoints += stepKindPoints
	if got != want {
		s.charge(cmd, stepKindPoints,
			fmt.Sprintf("%s steps: expected %d, saw %d", kind, want, got))
	}
	return nil
}

// unreachable charges when any step landed on the command's own line.
func (s *scorer) unreachable(cmd *command.Command) {
	s.result.MaxPoints += unreachablePoints
	for _, step := range s.t.Steps {
		if step.Location.Path == cmd.Loc.Path && step.Location.Line == cmd.Loc.Line {
			s.charge(cmd, unreachablePoints,
				fmt.Sprintf("line %d was reached", cmd.Loc.Line))
			return
		}
	}
}
