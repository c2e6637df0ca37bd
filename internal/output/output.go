// Package output renders the color-tag markup used throughout the harness.
// Producers emit plain text with <r>...</> style tags (red, green, yellow,
// blue, cyan, magenta, default-bold); this package resolves the tags to
// terminal styles, or strips them when color is off.
package output

import (
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

var tagStyles = map[string]lipgloss.Style{
	"r": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	"g": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"y": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"b": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	"m": lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	"c": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	"d": lipgloss.NewStyle().Bold(true),
}

var tagPattern = regexp.MustCompile(`(?s)<([rgybmcd])>(.*?)</>`)

// Render resolves every tag in text. With color off the tags are simply
// stripped, leaving their content.
func Render(text string, color bool) string {
	return tagPattern.ReplaceAllStringFunc(text, func(m string) string {
		parts := tagPattern.FindStringSubmatch(m)
		if !color {
			return parts[2]
		}
		return tagStyles[parts[1]].Render(parts[2])
	})
}

// Printer writes rendered text to one destination.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a printer writing to w. color controls whether tags
// become styles or are stripped.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Print renders and writes text as-is.
func (p *Printer) Print(text string) {
	fmt.Fprint(p.w, Render(text, p.color))
}

// Printf renders and writes a formatted string. Formatting happens before
// tag resolution, so format arguments may themselves carry tags.
func (p *Printer) Printf(format string, args ...any) {
	p.Print(fmt.Sprintf(format, args...))
}
