package layout

import (
	"fmt"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/logging"
	"github.com/arthur-debert/json2ansi/pkg/style"
	"github.com/arthur-debert/json2ansi/pkg/text"
	"github.com/arthur-debert/json2ansi/pkg/types"
)

// Engine lays out scaffold trees and tables.
type Engine struct {
	// Gap is the number of blank cells between adjacent table columns.
	Gap int
}

// Default is the engine used by Walk and LayoutTable.
var Default = Engine{Gap: DefaultGap}

// LayoutTable lays out t with the default engine.
func LayoutTable(t *types.Table, available int, reg *style.Registry) ([]types.Line, error) {
	return Default.LayoutTable(t, available, reg)
}

// cellLine is one physical line of a cell, padded to the column width.
type cellLine struct {
	segments  []types.Segment
	truncated bool
}

// LayoutTable evaluates every cell, solves the column widths, then renders
// each row as a block of lines. Every returned line is exactly available
// cells wide: the table is placed inside that width by its alignment.
func (e Engine) LayoutTable(t *types.Table, available int, reg *style.Registry) ([]types.Line, error) {
	logger := logging.GetLogger("layout.table")

	if t == nil {
		return nil, errors.New(errors.ErrInvalidDocument, "missing table")
	}
	if len(t.Columns) == 0 {
		return nil, errors.New(errors.ErrStructuralMismatch, "table has no columns")
	}

	cells := make([][][]types.Segment, len(t.Rows))
	natural := make([]int, len(t.Columns))
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, errors.Newf(errors.ErrStructuralMismatch,
				"row has %d cells, table has %d columns", len(row), len(t.Columns)).
				WithDetail(errors.DetailPath, fmt.Sprintf("rows[%d]", r)).
				WithDetail(errors.DetailRow, r)
		}
		cells[r] = make([][]types.Segment, len(row))
		for c, node := range row {
			segs, err := text.Evaluate(node, reg)
			if err != nil {
				return nil, errors.WithinPath(err, fmt.Sprintf("rows[%d][%d]", r, c))
			}
			cells[r][c] = segs
			natural[c] = max(natural[c], text.NaturalWidth(segs))
		}
	}

	widths, err := Solver{Gap: e.Gap}.Solve(t.Columns, natural, available)
	if err != nil {
		return nil, err
	}

	tableWidth := e.Gap * (len(widths) - 1)
	for _, w := range widths {
		tableWidth += w
	}
	offset := t.Properties.Align.Offset(available, tableWidth)
	trailing := available - offset - tableWidth

	logger.Trace().
		Ints("natural", natural).
		Ints("widths", widths).
		Int("available", available).
		Int("offset", offset).
		Msg("Solved column widths")

	for r, row := range cells {
		for c, segs := range row {
			if t.Columns[c].Overflow == types.OverflowTruncate {
				continue
			}
			if g := widestGrapheme(segs); g > widths[c] {
				return nil, errors.Newf(errors.ErrMinWidthViolation,
					"column is %d cells wide but holds a %d-cell character", widths[c], g).
					WithDetail(errors.DetailPath, fmt.Sprintf("rows[%d][%d]", r, c)).
					WithDetail(errors.DetailColumn, c).
					WithDetail(errors.DetailWidth, widths[c])
			}
		}
	}

	var lines []types.Line
	for _, row := range cells {
		blocks := make([][]cellLine, len(row))
		height := 0
		for c, segs := range row {
			blocks[c] = layoutCell(segs, widths[c], t.Columns[c])
			height = max(height, len(blocks[c]))
		}

		for i := 0; i < height; i++ {
			line := types.Line{}
			line.Segments = appendSegment(line.Segments, blank(offset))
			for c := range blocks {
				if c > 0 {
					line.Segments = appendSegment(line.Segments, blank(e.Gap))
				}
				if i >= len(blocks[c]) {
					filler := blank(widths[c])
					filler.Style = trailingStyle(row[c])
					line.Segments = appendSegment(line.Segments, filler)
					continue
				}
				for _, s := range blocks[c][i].segments {
					line.Segments = appendSegment(line.Segments, s)
				}
				line.Truncated = line.Truncated || blocks[c][i].truncated
			}
			line.Segments = appendSegment(line.Segments, blank(trailing))
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// layoutCell renders one cell into lines of exactly width cells.
func layoutCell(segs []types.Segment, width int, col types.ColumnSpec) []cellLine {
	var out []cellLine
	for _, p := range paragraphs(expandFills(segs, width)) {
		if col.Overflow == types.OverflowTruncate {
			cut, truncated := truncateCells(p, width)
			out = append(out, finishLine(cut, width, col.Align, truncated))
			continue
		}
		for _, l := range wrapCells(p, width) {
			out = append(out, finishLine(l, width, col.Align, false))
		}
	}
	return out
}

// expandFills replaces fill segments with repetitions of their text. The
// fills of a cell share the room its other content leaves; earlier fills
// take the odd cells.
func expandFills(segs []types.Segment, width int) []types.Segment {
	fills := 0
	for _, s := range segs {
		if s.Fill {
			fills++
		}
	}
	if fills == 0 {
		return segs
	}

	room := max(0, width-text.NaturalWidth(segs))
	out := make([]types.Segment, 0, len(segs))
	k := 0
	for _, s := range segs {
		if !s.Fill {
			out = append(out, s)
			continue
		}
		share := room / fills
		if k < room%fills {
			share++
		}
		k++
		out = append(out, types.Segment{Text: repeatToWidth(s.Text, share), Style: s.Style})
	}
	return out
}

// wrapCells breaks a paragraph into lines no wider than width. Breaks go at
// whitespace, which is dropped at the break; a word wider than width is
// split wherever it has to be.
func wrapCells(p []cell, width int) [][]cell {
	var (
		lines [][]cell
		line  []cell
		lw    int
		broke bool
	)
	flush := func() {
		lines = append(lines, trimRightSpace(line))
		line, lw, broke = nil, 0, true
	}

	for _, tok := range tokens(p) {
		tw := cellsWidth(tok)

		if tok[0].space {
			switch {
			case len(line) == 0 && broke:
			case lw+tw <= width:
				line = append(line, tok...)
				lw += tw
			default:
				flush()
			}
			continue
		}

		if lw+tw <= width {
			line = append(line, tok...)
			lw += tw
			continue
		}

		if tw <= width {
			flush()
			line = append(line, tok...)
			lw = tw
			continue
		}

		if len(trimRightSpace(line)) > 0 {
			flush()
		} else {
			line, lw = nil, 0
		}
		for _, c := range tok {
			if lw+c.width > width && len(line) > 0 {
				flush()
			}
			line = append(line, c)
			lw += c.width
		}
	}

	if len(line) > 0 || !broke {
		lines = append(lines, trimRightSpace(line))
	}
	return lines
}

// tokens splits a paragraph into runs of spaces and runs of other cells.
func tokens(p []cell) [][]cell {
	var out [][]cell
	start := 0
	for i := 1; i <= len(p); i++ {
		if i == len(p) || p[i].space != p[start].space {
			out = append(out, p[start:i])
			start = i
		}
	}
	return out
}

// truncateCells keeps the cells that fit in width. It reports a cut only
// when something other than trailing whitespace was dropped.
func truncateCells(p []cell, width int) ([]cell, bool) {
	lw := 0
	for i, c := range p {
		if lw+c.width > width {
			return p[:i], len(trimRightSpace(p[i:])) > 0
		}
		lw += c.width
	}
	return p, false
}

// finishLine crops cells to width and pads them according to align.
func finishLine(cells []cell, width int, align types.Align, truncated bool) cellLine {
	cells, _ = truncateCells(cells, width)
	w := cellsWidth(cells)
	left := align.Offset(width, w)

	var segs []types.Segment
	segs = appendSegment(segs, blank(left))
	for _, s := range toSegments(cells) {
		segs = appendSegment(segs, s)
	}
	segs = appendSegment(segs, blank(width-w-left))
	return cellLine{segments: segs, truncated: truncated}
}

// trailingStyle is the style of the last segment of a cell, used for the
// blank lines that square off a row.
func trailingStyle(segs []types.Segment) types.Style {
	if len(segs) == 0 {
		return types.Style{}
	}
	return segs[len(segs)-1].Style
}
