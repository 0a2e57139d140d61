// Package text turns text nodes into styled segments.
package text

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/style"
	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/rivo/uniseg"
)

// Evaluate resolves node into its ordered segments. Repeat commands yield a
// single fill segment; its final text is decided by layout once the cell
// width is known.
func Evaluate(node types.TextNode, reg *style.Registry) ([]types.Segment, error) {
	switch n := node.(type) {
	case types.PrimitiveText:
		return evaluatePrimitive(n, reg)
	case types.TextArray:
		var out []types.Segment
		for i, elem := range n {
			segs, err := evaluatePrimitive(elem, reg)
			if err != nil {
				return nil, errors.WithinPath(err, fmt.Sprintf("[%d]", i))
			}
			out = append(out, segs...)
		}
		return out, nil
	case types.RepeatCommand:
		s, err := style.Resolve(n.Styles, reg)
		if err != nil {
			return nil, err
		}
		return []types.Segment{{Text: n.Value, Style: s, Fill: true}}, nil
	case nil:
		return nil, errors.New(errors.ErrUnknownTextNode, "missing text node")
	default:
		return nil, errors.Newf(errors.ErrUnknownTextNode, "unknown text node %T", node)
	}
}

func evaluatePrimitive(n types.PrimitiveText, reg *style.Registry) ([]types.Segment, error) {
	s, err := style.Resolve(n.Styles, reg)
	if err != nil {
		return nil, err
	}
	if n.Markdown {
		return Markdown(n.Value, s), nil
	}
	return []types.Segment{{Text: n.Value, Style: s}}, nil
}

// NaturalWidth is the width segs need to render without wrapping: the
// widest of its newline-separated lines. Fill segments count as zero.
func NaturalWidth(segs []types.Segment) int {
	widest, current := 0, 0
	for _, s := range segs {
		if s.Fill {
			continue
		}
		lines := strings.Split(s.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				widest = max(widest, current)
				current = 0
			}
			current += uniseg.StringWidth(line)
		}
	}
	return max(widest, current)
}
