package command

import (
	"fmt"
	"strconv"
	"strings"
)

// argError is a parse failure at a byte offset within the scanned text.
// Callers translate the offset into a file position for the ParseError.
type argError struct {
	off int
	msg string
}

func (e *argError) Error() string { return e.msg }

// argParser scans the Python-call-like argument syntax used by commands:
// quoted strings, integers, floats, True/False, and name=value keyword
// arguments. Commands are single-line, so the input never spans lines.
type argParser struct {
	src string
	pos int
}

func (p *argParser) errf(off int, format string, args ...any) *argError {
	return &argError{off: off, msg: fmt.Sprintf(format, args...)}
}

func (p *argParser) skipSpaces() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *argParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

// parseCall consumes "( arg, arg, name=value )" starting at an opening
// parenthesis and returns the positional arguments, keyword arguments, and
// the offset one past the closing parenthesis. Keyword arguments may not be
// followed by positional ones.
func (p *argParser) parseCall() (args []any, kwargs map[string]any, end int, err *argError) {
	kwargs = map[string]any{}

	ch, ok := p.peek()
	if !ok || ch != '(' {
		return nil, nil, 0, p.errf(p.pos, "expected '('")
	}
	p.pos++
	p.skipSpaces()

	if ch, ok := p.peek(); ok && ch == ')' {
		p.pos++
		return args, kwargs, p.pos, nil
	}

	sawKwarg := false
	for {
		p.skipSpaces()
		name, value, isKwarg, aerr := p.parseArg()
		if aerr != nil {
			return nil, nil, 0, aerr
		}
		if isKwarg {
			if _, dup := kwargs[name]; dup {
				return nil, nil, 0, p.errf(p.pos, "duplicate keyword argument %q", name)
			}
			kwargs[name] = value
			sawKwarg = true
		} else {
			if sawKwarg {
				return nil, nil, 0, p.errf(p.pos, "positional argument after keyword argument")
			}
			args = append(args, value)
		}

		p.skipSpaces()
		ch, ok := p.peek()
		switch {
		case !ok:
			return nil, nil, 0, p.errf(p.pos, "unterminated command: expected ')'")
		case ch == ',':
			p.pos++
		case ch == ')':
			p.pos++
			return args, kwargs, p.pos, nil
		default:
			return nil, nil, 0, p.errf(p.pos, "expected ',' or ')', found %q", ch)
		}
	}
}

// parseArg parses one argument, reporting whether it was a keyword argument.
func (p *argParser) parseArg() (name string, value any, isKwarg bool, err *argError) {
	ch, ok := p.peek()
	if !ok {
		return "", nil, false, p.errf(p.pos, "expected argument")
	}

	if isIdentStart(ch) {
		start := p.pos
		ident := p.scanIdent()
		p.skipSpaces()
		if ch, ok := p.peek(); ok && ch == '=' {
			p.pos++
			p.skipSpaces()
			v, aerr := p.parseValue()
			if aerr != nil {
				return "", nil, false, aerr
			}
			return ident, v, true, nil
		}
		switch ident {
		case "True":
			return "", true, false, nil
		case "False":
			return "", false, false, nil
		}
		return "", nil, false, p.errf(start, "unexpected identifier %q", ident)
	}

	v, aerr := p.parseValue()
	return "", v, false, aerr
}

func (p *argParser) parseValue() (any, *argError) {
	ch, ok := p.peek()
	if !ok {
		return nil, p.errf(p.pos, "expected value")
	}
	switch {
	case ch == '\'' || ch == '"':
		return p.parseString(ch)
	case ch == '-' || ch == '+' || ch == '.' || (ch >= '0' && ch <= '9'):
		return p.parseNumber()
	case isIdentStart(ch):
		start := p.pos
		ident := p.scanIdent()
		switch ident {
		case "True":
			return true, nil
		case "False":
			return false, nil
		}
		return nil, p.errf(start, "unexpected identifier %q", ident)
	}
	return nil, p.errf(p.pos, "unexpected character %q", ch)
}

// parseString consumes a quoted string with backslash escapes, delimited by
// quote (either ' or ").
func (p *argParser) parseString(quote byte) (string, *argError) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch ch {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errf(p.pos, "unterminated escape sequence")
			}
			p.pos++
			b.WriteByte(p.src[p.pos])
			p.pos++
		default:
			b.WriteByte(ch)
			p.pos++
		}
	}
	return "", p.errf(start, "unterminated string")
}

func (p *argParser) parseNumber() (any, *argError) {
	start := p.pos
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == '+' ||
			ch == 'e' || ch == 'E' {
			p.pos++
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	return nil, p.errf(start, "invalid number %q", text)
}

func (p *argParser) scanIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
