// Package command extracts and parses the directives embedded in test
// source comments. A command looks like a Python call, e.g.
//
//	// DexExpectWatchValue('i', '0', '1', from_line=16, to_line=19)
//
// For C and C++ sources commands are only recognized inside comments,
// located by parsing the file with tree-sitter; anything in code proper is
// ignored. Files with unrecognized extensions are scanned as plain text.
package command

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Melamoto/dexter/internal/trace"
)

// Supported command names.
const (
	DexLabel            = "DexLabel"
	DexWatch            = "DexWatch"
	DexUnreachable      = "DexUnreachable"
	DexExpectStepKind   = "DexExpectStepKind"
	DexExpectWatchValue = "DexExpectWatchValue"
)

var commandPattern = regexp.MustCompile(
	`\b(DexLabel|DexWatch|DexUnreachable|DexExpectStepKind|DexExpectWatchValue)\s*\(`)

// Command is one parsed directive with its structured arguments.
type Command struct {
	Name    string
	Loc     trace.Location
	RawText string
	Args    []any
	KwArgs  map[string]any
}

// StringArgs returns the positional arguments that are strings, in order.
func (c *Command) StringArgs() []string {
	var out []string
	for _, a := range c.Args {
		if s, ok := a.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ParseFiles extracts every command from the given source files, in file
// order and then source-position order. The first malformed command aborts
// parsing with a *ParseError.
func ParseFiles(paths []string) ([]Command, error) {
	var all []Command
	for _, path := range paths {
		cmds, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, cmds...)
	}
	return all, nil
}

// Group arranges parsed commands into the ordered command map carried by a
// trace envelope, keyed by command name in first-appearance order.
func Group(cmds []Command) *trace.CommandMap {
	m := trace.NewCommandMap()
	for _, c := range cmds {
		m.Append(c.Name, trace.Command{Location: c.Loc, RawText: c.RawText})
	}
	return m
}

// ParseRaw re-parses a single command from its raw envelope text, e.g. when
// scoring a trace that came back from the child process. loc anchors any
// parse diagnostic.
func ParseRaw(raw string, loc trace.Location) (*Command, error) {
	m := commandPattern.FindStringSubmatchIndex(raw)
	if m == nil || m[0] != 0 {
		return nil, &ParseError{
			Filename: loc.Path,
			Line:     loc.Line,
			Column:   1,
			Message:  "not a recognized command",
			Source:   raw,
		}
	}
	cmd, _, aerr := parseAt(raw, m)
	if aerr != nil {
		return nil, &ParseError{
			Filename: loc.Path,
			Line:     loc.Line,
			Column:   aerr.off + 1,
			Message:  aerr.msg,
			Source:   raw,
		}
	}
	cmd.Loc = loc
	return &cmd, nil
}

// parseAt parses the command whose pattern match within text is m, returning
// the command and the end offset of its closing parenthesis.
func parseAt(text string, m []int) (Command, int, *argError) {
	name := text[m[2]:m[3]]
	p := &argParser{src: text, pos: m[1] - 1}
	args, kwargs, end, aerr := p.parseCall()
	if aerr != nil {
		return Command{}, 0, aerr
	}
	return Command{
		Name:    name,
		RawText: text[m[2]:end],
		Args:    args,
		KwArgs:  kwargs,
	}, end, nil
}

func parseFile(path string) ([]Command, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}

	spans, err := commentSpans(path, src)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(src), "\n")
	var cmds []Command
	for _, span := range spans {
		for _, m := range commandPattern.FindAllStringSubmatchIndex(span.text, -1) {
			line, col := span.position(m[2])
			cmd, _, aerr := parseAt(span.text, m)
			if aerr != nil {
				errLine, errCol := span.position(aerr.off)
				return nil, &ParseError{
					Filename: path,
					Line:     errLine,
					Column:   errCol,
					Message:  aerr.msg,
					Source:   lineAt(lines, errLine),
				}
			}
			cmd.Loc = trace.Location{Path: path, Line: line, Column: col}
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// commentSpan is one comment's text with its file position.
type commentSpan struct {
	text string
	row  int // 0-based line of the comment's first character
	col  int // 0-based column of the comment's first character
}

// position converts a byte offset within the comment text into a 1-based
// file line and column.
func (s commentSpan) position(off int) (line, col int) {
	before := s.text[:off]
	nl := strings.Count(before, "\n")
	line = s.row + nl + 1
	if nl == 0 {
		col = s.col + off + 1
	} else {
		col = off - strings.LastIndexByte(before, '\n')
	}
	return line, col
}

// commentSpans collects the comment regions of a source file. C and C++
// files are parsed with tree-sitter so that command-like text inside string
// literals or code is never misread as a command; anything else is treated
// as one big comment.
func commentSpans(path string, src []byte) ([]commentSpan, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return []commentSpan{{text: string(src)}}, nil
	}
	grammar, ok := GrammarForLanguage(lang)
	if !ok {
		return []commentSpan{{text: string(src)}}, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", path, err)
	}
	defer tree.Close()

	var spans []commentSpan
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			spans = append(spans, commentSpan{
				text: n.Content(src),
				row:  int(n.StartPoint().Row),
				col:  int(n.StartPoint().Column),
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return spans, nil
}

func lineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
