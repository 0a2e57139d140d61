// Package render turns laid-out lines into terminal output.
//
// A Renderer maps each segment's style onto a lipgloss style and wraps
// linked segments in OSC 8 hyperlink sequences. With color disabled it
// writes the bare text. Output is assembled in memory and written in a
// single call, so a failing document never produces partial output.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/logging"
	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode decides whether styles are emitted as escape sequences.
type ColorMode string

const (
	// ColorAuto emits color only when writing to a color-capable terminal
	ColorAuto ColorMode = "auto"
	// ColorAlways emits true-color sequences whatever the destination
	ColorAlways ColorMode = "always"
	// ColorNever writes plain text
	ColorNever ColorMode = "never"
)

// ParseColorMode parses a color mode name.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return ColorAuto, nil
	case "always", "force", "on":
		return ColorAlways, nil
	case "never", "none", "off", "plain":
		return ColorNever, nil
	default:
		return ColorAuto, errors.Newf(errors.ErrInvalidInput, "unknown color mode: %s", s)
	}
}

// Options configures a Renderer.
type Options struct {
	Color ColorMode
}

// Renderer writes lines to an io.Writer.
type Renderer struct {
	w      io.Writer
	styler *lipgloss.Renderer
	plain  bool
}

// New creates a renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	logger := logging.GetLogger("render")

	r := &Renderer{w: w}
	switch opts.Color {
	case ColorNever:
		r.plain = true
	case ColorAlways:
		r.styler = lipgloss.NewRenderer(w)
		r.styler.SetColorProfile(termenv.TrueColor)
	default:
		if DetectColor(w) {
			r.styler = lipgloss.NewRenderer(w)
		} else {
			r.plain = true
		}
	}

	profile := "none"
	if r.styler != nil {
		profile = fmt.Sprintf("%v", r.styler.ColorProfile())
	}
	logger.Debug().
		Str("mode", string(opts.Color)).
		Bool("plain", r.plain).
		Str("colorProfile", profile).
		Msg("Renderer created")
	return r
}

// DetectColor reports whether w is a terminal that can show color. NO_COLOR
// and redirected output both disable it.
func DetectColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

// Render writes every line followed by a newline.
func (r *Renderer) Render(lines []types.Line) error {
	out, err := r.String(lines)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(r.w, out); err != nil {
		return errors.Wrap(err, errors.ErrOutputWrite, "failed to write output")
	}
	return nil
}

// String renders lines without writing them.
func (r *Renderer) String(lines []types.Line) (string, error) {
	var b strings.Builder
	for i, l := range lines {
		s, err := r.Line(l)
		if err != nil {
			return "", errors.WithinPath(err, fmt.Sprintf("line[%d]", i))
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Line renders a single line without its newline.
func (r *Renderer) Line(l types.Line) (string, error) {
	if r.plain {
		return l.String(), nil
	}

	var b strings.Builder
	for _, seg := range l.Segments {
		s, err := r.segment(seg)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (r *Renderer) segment(seg types.Segment) (string, error) {
	if seg.Style.IsZero() {
		return seg.Text, nil
	}

	st, err := r.lipglossStyle(seg.Style)
	if err != nil {
		return "", err
	}
	text := st.Render(seg.Text)
	if seg.Style.Link != "" {
		text = ansi.SetHyperlink(seg.Style.Link) + text + ansi.ResetHyperlink()
	}
	return text, nil
}

func (r *Renderer) lipglossStyle(s types.Style) (lipgloss.Style, error) {
	st := r.styler.NewStyle()
	if s.Fg != "" {
		c, err := ParseColor(s.Fg)
		if err != nil {
			return st, err
		}
		st = st.Foreground(c)
	}
	if s.Bg != "" {
		c, err := ParseColor(s.Bg)
		if err != nil {
			return st, err
		}
		st = st.Background(c)
	}
	if s.Bold != nil {
		st = st.Bold(*s.Bold)
	}
	if s.Italic != nil {
		st = st.Italic(*s.Italic)
	}
	if s.Underline != nil {
		st = st.Underline(*s.Underline)
	}
	if s.Strike != nil {
		st = st.Strikethrough(*s.Strike)
	}
	return st, nil
}
