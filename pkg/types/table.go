package types

// Align positions content inside the room it is given.
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "c"
	AlignRight  Align = "r"
)

// Valid reports whether a is one of the known alignments.
func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Offset returns how many blank cells go before content of the given width
// inside room cells.
func (a Align) Offset(room, width int) int {
	free := room - width
	if free <= 0 {
		return 0
	}
	switch a {
	case AlignCenter:
		return free / 2
	case AlignRight:
		return free
	default:
		return 0
	}
}

// Overflow decides what happens to cell content wider than its column.
type Overflow string

const (
	// OverflowWrap breaks content over several physical lines
	OverflowWrap Overflow = "wrap"
	// OverflowTruncate cuts content at the column width
	OverflowTruncate Overflow = "truncate"
)

// Valid reports whether o is one of the known overflow policies.
func (o Overflow) Valid() bool {
	return o == OverflowWrap || o == OverflowTruncate
}

// Size is how a column's width is decided.
type Size interface {
	size()
}

// Fixed is a column of exactly Width cells. A Width of 0 makes the column
// dynamic: it is as wide as its widest cell.
type Fixed struct {
	Width int
}

// Flex shares the width left over by fixed and dynamic columns among flex
// columns in proportion to their Weight.
type Flex struct {
	Weight int
}

func (Fixed) size() {}
func (Flex) size()  {}

// IsDynamic reports whether the column is sized by its content.
func (f Fixed) IsDynamic() bool {
	return f.Width == 0
}

// ColumnSpec describes one table column.
type ColumnSpec struct {
	Align    Align
	Overflow Overflow
	Size     Size
}

// TableProperties holds table-wide settings.
type TableProperties struct {
	Align Align
}

// Table is a grid of text nodes. Every row holds one node per column.
type Table struct {
	Properties TableProperties
	Columns    []ColumnSpec
	Rows       [][]TextNode
}
