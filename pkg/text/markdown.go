package text

import (
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	gtext "github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// inlineParser only knows paragraphs, so cell text such as "1. done" or
// "# id" stays literal instead of turning into lists and headings.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
	parser.WithInlineParsers(util.Prioritized(extension.NewStrikethroughParser(), 500)),
)

// Markdown parses inline markdown in src and returns one segment per styled
// run, each overlaid on base. Emphasis maps to italic, strong emphasis to
// bold, ~~text~~ to strike, and links set the link attribute. Paragraphs
// and soft breaks become newlines.
func Markdown(src string, base types.Style) []types.Segment {
	source := []byte(src)
	doc := inlineParser.Parse(gtext.NewReader(source))

	w := &mdWalker{source: source, stack: []types.Style{base}}
	_ = ast.Walk(doc, w.visit)
	return coalesce(w.out)
}

type mdWalker struct {
	source []byte
	stack  []types.Style
	out    []types.Segment
	blocks int
}

func (w *mdWalker) top() types.Style {
	return w.stack[len(w.stack)-1]
}

func (w *mdWalker) push(s types.Style) {
	w.stack = append(w.stack, w.top().Overlay(s))
}

func (w *mdWalker) pop() {
	w.stack = w.stack[:len(w.stack)-1]
}

func (w *mdWalker) emit(text string) {
	if text == "" {
		return
	}
	w.out = append(w.out, types.Segment{Text: text, Style: w.top()})
}

func (w *mdWalker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Paragraph:
		if entering {
			if w.blocks > 0 {
				w.emit("\n")
			}
			w.blocks++
		}
	case *ast.Emphasis:
		if entering {
			if node.Level >= 2 {
				w.push(types.Style{Bold: types.Bool(true)})
			} else {
				w.push(types.Style{Italic: types.Bool(true)})
			}
		} else {
			w.pop()
		}
	case *east.Strikethrough:
		if entering {
			w.push(types.Style{Strike: types.Bool(true)})
		} else {
			w.pop()
		}
	case *ast.Link:
		if entering {
			w.push(types.Style{Link: string(node.Destination)})
		} else {
			w.pop()
		}
	case *ast.AutoLink:
		if entering {
			w.push(types.Style{Link: string(node.URL(w.source))})
			w.emit(string(node.Label(w.source)))
			w.pop()
		}
		return ast.WalkSkipChildren, nil
	case *ast.Text:
		if entering {
			value := node.Segment.Value(w.source)
			if !node.IsRaw() {
				value = util.UnescapePunctuations(value)
			}
			w.emit(string(value))
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.emit("\n")
			}
		}
	case *ast.String:
		if entering {
			w.emit(string(node.Value))
		}
	case *ast.RawHTML:
		if entering {
			var b strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(w.source))
			}
			w.emit(b.String())
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

// coalesce merges neighbouring segments that share a style.
func coalesce(segs []types.Segment) []types.Segment {
	var out []types.Segment
	for _, s := range segs {
		if n := len(out); n > 0 && !out[n-1].Fill && !s.Fill && out[n-1].Style.Equal(s.Style) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
