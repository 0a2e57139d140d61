package layout

import (
	"fmt"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/style"
	"github.com/arthur-debert/json2ansi/pkg/types"
)

// Walk lays out a content list with the default engine.
func Walk(content []types.Scaffold, available int, reg *style.Registry) ([]types.Line, error) {
	return Default.Walk(content, available, reg)
}

// Walk lays out each node of content in order and concatenates the lines.
// Indent nodes narrow the available width for their children and shift
// every child line right; a line break emits one empty line.
func (e Engine) Walk(content []types.Scaffold, available int, reg *style.Registry) ([]types.Line, error) {
	var lines []types.Line
	for i, node := range content {
		produced, err := e.node(node, available, reg)
		if err != nil {
			return nil, errors.WithinPath(err, fmt.Sprintf("content[%d]", i))
		}
		lines = append(lines, produced...)
	}
	return lines, nil
}

func (e Engine) node(node types.Scaffold, available int, reg *style.Registry) ([]types.Line, error) {
	switch n := node.(type) {
	case types.Indent:
		return e.indent(n, available, reg)
	case *types.Table:
		return e.LayoutTable(n, available, reg)
	case types.LineBreak:
		return []types.Line{{}}, nil
	case nil:
		return nil, errors.New(errors.ErrInvalidDocument, "missing scaffold node")
	default:
		return nil, errors.Newf(errors.ErrInvalidDocument, "unknown scaffold node %T", node)
	}
}

func (e Engine) indent(n types.Indent, available int, reg *style.Registry) ([]types.Line, error) {
	if n.Indent < 0 {
		return nil, errors.Newf(errors.ErrInvalidDocument, "indent %d is negative", n.Indent)
	}
	inner := available - n.Indent
	if inner <= 0 {
		return nil, errors.Newf(errors.ErrNegativeWidth,
			"indent %d leaves no room in width %d", n.Indent, available).
			WithDetail(errors.DetailWidth, available)
	}

	lines, err := e.Walk(n.Content, inner, reg)
	if err != nil {
		return nil, err
	}
	if n.Indent == 0 {
		return lines, nil
	}

	prefix := blank(n.Indent)
	for i, l := range lines {
		segs := appendSegment(nil, prefix)
		for _, s := range l.Segments {
			segs = appendSegment(segs, s)
		}
		lines[i].Segments = segs
	}
	return lines, nil
}
