package command

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed command in a test source file. It carries
// enough positional context to print the offending line with a caret under
// the bad column.
type ParseError struct {
	// Filename is the source file containing the bad command.
	Filename string

	// Line is the 1-based line the error was detected on.
	Line int

	// Column is the 1-based column of the offending character.
	Column int

	// Message describes what the parser expected.
	Message string

	// Source is the full text of the offending line.
	Source string
}

// Caret returns a marker line pointing at the offending column, suitable
// for printing directly beneath Source.
func (e *ParseError) Caret() string {
	col := e.Column
	if col < 1 {
		col = 1
	}
	return strings.Repeat(" ", col-1) + "^"
}

// Error implements the error interface with the full positional diagnostic.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s(%d): %s\n%s\n%s",
		e.Filename, e.Line, e.Message, e.Source, e.Caret())
}
