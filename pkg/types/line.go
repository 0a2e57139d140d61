package types

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Segment is a run of text sharing one style. Fill segments are placeholders
// left by repeat commands; layout replaces them with repetitions of Text.
type Segment struct {
	Text  string
	Style Style
	Fill  bool
}

// Width is the number of terminal cells the segment occupies. Fill segments
// have no width of their own.
func (s Segment) Width() int {
	if s.Fill {
		return 0
	}
	return uniseg.StringWidth(s.Text)
}

// Line is one physical output line.
type Line struct {
	Segments []Segment
	// Truncated is set when a truncating column cut content on this line.
	Truncated bool
}

// Width is the total width of the line's segments.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Segments {
		w += s.Width()
	}
	return w
}

// String returns the line's text without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// PlainText joins the text of every line with newlines.
func PlainText(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}
