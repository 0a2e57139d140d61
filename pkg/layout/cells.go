package layout

import (
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/rivo/uniseg"
)

// tabWidth is how many cells a tab expands to.
const tabWidth = 4

// cell is one grapheme cluster with the style it is drawn in.
type cell struct {
	text  string
	width int
	style types.Style
	space bool
}

// paragraphs splits segments into grapheme cells, one slice per
// newline-separated line. Tabs become spaces and carriage returns are
// dropped.
func paragraphs(segs []types.Segment) [][]cell {
	out := [][]cell{nil}
	for _, seg := range segs {
		state := -1
		rest := seg.Text
		for rest != "" {
			var cluster string
			var width int
			cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
			switch cluster {
			case "\n", "\r\n":
				out = append(out, nil)
			case "\r":
			case "\t":
				for i := 0; i < tabWidth; i++ {
					out[len(out)-1] = append(out[len(out)-1], cell{text: " ", width: 1, style: seg.Style, space: true})
				}
			default:
				last := len(out) - 1
				out[last] = append(out[last], cell{
					text:  cluster,
					width: width,
					style: seg.Style,
					space: cluster == " ",
				})
			}
		}
	}
	return out
}

// widestGrapheme is the width of the widest grapheme cluster outside fill
// segments. A wrapping column narrower than this cannot show the cell.
func widestGrapheme(segs []types.Segment) int {
	widest := 0
	for _, seg := range segs {
		if seg.Fill {
			continue
		}
		state := -1
		rest := seg.Text
		for rest != "" {
			var width int
			_, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
			widest = max(widest, width)
		}
	}
	return widest
}

func cellsWidth(cells []cell) int {
	w := 0
	for _, c := range cells {
		w += c.width
	}
	return w
}

func trimRightSpace(cells []cell) []cell {
	end := len(cells)
	for end > 0 && cells[end-1].space {
		end--
	}
	return cells[:end]
}

// toSegments groups consecutive cells sharing a style.
func toSegments(cells []cell) []types.Segment {
	var out []types.Segment
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && !c.style.Equal(cells[i-1].style) {
			out = append(out, types.Segment{Text: b.String(), Style: cells[i-1].style})
			b.Reset()
		}
		b.WriteString(c.text)
	}
	if len(cells) > 0 {
		out = append(out, types.Segment{Text: b.String(), Style: cells[len(cells)-1].style})
	}
	return out
}

// blank is n unstyled spaces; n <= 0 gives an empty segment.
func blank(n int) types.Segment {
	if n <= 0 {
		return types.Segment{}
	}
	return types.Segment{Text: strings.Repeat(" ", n)}
}

// appendSegment adds s to segs, merging it into the previous segment when
// both share a style. Empty segments are dropped.
func appendSegment(segs []types.Segment, s types.Segment) []types.Segment {
	if s.Text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Style.Equal(s.Style) {
		segs[n-1].Text += s.Text
		return segs
	}
	return append(segs, s)
}

// repeatToWidth repeats unit until it fills exactly width cells. A trailing
// partial repetition is cut at a grapheme boundary; if a wide grapheme would
// cross the limit the result is shorter than width.
func repeatToWidth(unit string, width int) string {
	if width <= 0 || uniseg.StringWidth(unit) == 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for {
		state := -1
		rest := unit
		for rest != "" {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if used+w > width {
				return b.String()
			}
			b.WriteString(cluster)
			used += w
			if used == width {
				return b.String()
			}
		}
	}
}
