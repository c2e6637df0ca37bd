package trace

import "fmt"

// Location is a source position. A zero Path means the position has no
// known file; a zero Line or Column means that coordinate is unknown.
type Location struct {
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Compare orders two locations by (Line, Column), lexicographically.
// Returns -1 if l comes before other, +1 if after, 0 when both coordinates
// match. Path is deliberately ignored: callers only compare locations that
// belong to the same function, and a function spanning two files (macro
// expansion) is still ordered by line and column alone.
func (l Location) Compare(other Location) int {
	if l.Line != other.Line {
		if l.Line < other.Line {
			return -1
		}
		return 1
	}
	if l.Column != other.Column {
		if l.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Equal reports whether both locations name the same path, line and column.
func (l Location) Equal(other Location) bool {
	return l.Path == other.Path && l.Line == other.Line && l.Column == other.Column
}

func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", path, l.Line, l.Column)
}
