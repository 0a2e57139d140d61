package layout

import (
	"testing"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/style"
	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txt(s string) types.PrimitiveText {
	return types.PrimitiveText{Value: s}
}

func col(size types.Size, align types.Align, overflow types.Overflow) types.ColumnSpec {
	return types.ColumnSpec{Size: size, Align: align, Overflow: overflow}
}

func plain(lines []types.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func TestRepeatToWidth(t *testing.T) {
	tests := []struct {
		name  string
		unit  string
		width int
		want  string
	}{
		{"single rune", "-", 5, "-----"},
		{"zero width", "-", 0, ""},
		{"negative width", "-", -2, ""},
		{"partial repetition is cut", "-=", 5, "-=-=-"},
		{"empty unit", "", 4, ""},
		{"wide grapheme stops short", "日", 5, "日日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repeatToWidth(tt.unit, tt.width))
		})
	}
}

func TestLayoutTableBasic(t *testing.T) {
	table := &types.Table{
		Columns: []types.ColumnSpec{
			col(types.Fixed{Width: 5}, types.AlignLeft, types.OverflowWrap),
			col(types.Fixed{Width: 5}, types.AlignRight, types.OverflowWrap),
		},
		Rows: [][]types.TextNode{{txt("ab"), txt("cd")}},
	}

	lines, err := LayoutTable(table, 11, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab   " + " " + "   cd"}, plain(lines))
}

func TestLayoutTableRepeatFill(t *testing.T) {
	table := &types.Table{
		Columns: []types.ColumnSpec{col(types.Fixed{Width: 5}, types.AlignLeft, types.OverflowWrap)},
		Rows: [][]types.TextNode{
			{types.RepeatCommand{Value: "-"}},
			{types.RepeatCommand{Value: "-="}},
		},
	}

	lines, err := LayoutTable(table, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-----", "-=-=-"}, plain(lines))
}

func TestExpandFillsSharesRoom(t *testing.T) {
	segs := []types.Segment{
		{Text: "-", Fill: true},
		{Text: "ab"},
		{Text: "*", Fill: true},
	}
	got := expandFills(segs, 7)
	require.Len(t, got, 3)
	assert.Equal(t, "---", got[0].Text)
	assert.Equal(t, "ab", got[1].Text)
	assert.Equal(t, "**", got[2].Text)
}

func TestLayoutTableWrap(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
		want  []string
	}{
		{
			name:  "breaks at whitespace",
			value: "the quick brown fox",
			width: 10,
			want:  []string{"the quick ", "brown fox "},
		},
		{
			name:  "hard break for long words",
			value: "abcdefghijkl",
			width: 5,
			want:  []string{"abcde", "fghij", "kl   "},
		},
		{
			name:  "explicit newlines",
			value: "a\nb",
			width: 3,
			want:  []string{"a  ", "b  "},
		},
		{
			name:  "wide graphemes never straddle a break",
			value: "日本語",
			width: 5,
			want:  []string{"日本 ", "語   "},
		},
		{
			name:  "tabs expand to spaces",
			value: "a\tb",
			width: 6,
			want:  []string{"a    b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &types.Table{
				Columns: []types.ColumnSpec{col(types.Fixed{Width: tt.width}, types.AlignLeft, types.OverflowWrap)},
				Rows:    [][]types.TextNode{{txt(tt.value)}},
			}
			lines, err := LayoutTable(table, tt.width, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plain(lines))
			for _, l := range lines {
				assert.False(t, l.Truncated)
			}
		})
	}
}

func TestLayoutTableTruncate(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		want      string
		truncated bool
	}{
		{"cut", "abcdefgh", "abcde", true},
		{"exact fit", "abcde", "abcde", false},
		{"only spaces dropped", "abcde   ", "abcde", false},
		{"short", "ab", "ab   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &types.Table{
				Columns: []types.ColumnSpec{col(types.Fixed{Width: 5}, types.AlignLeft, types.OverflowTruncate)},
				Rows:    [][]types.TextNode{{txt(tt.value)}},
			}
			lines, err := LayoutTable(table, 5, nil)
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].String())
			assert.Equal(t, tt.truncated, lines[0].Truncated)
		})
	}
}

func TestLayoutTableAlignment(t *testing.T) {
	t.Run("column alignment", func(t *testing.T) {
		for align, want := range map[types.Align]string{
			types.AlignLeft:   "abc    ",
			types.AlignCenter: "  abc  ",
			types.AlignRight:  "    abc",
		} {
			table := &types.Table{
				Columns: []types.ColumnSpec{col(types.Fixed{Width: 7}, align, types.OverflowWrap)},
				Rows:    [][]types.TextNode{{txt("abc")}},
			}
			lines, err := LayoutTable(table, 7, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{want}, plain(lines), "align %q", align)
		}
	})

	t.Run("table alignment", func(t *testing.T) {
		for align, want := range map[types.Align]string{
			types.AlignLeft:   "abcd      ",
			types.AlignCenter: "   abcd   ",
			types.AlignRight:  "      abcd",
		} {
			table := &types.Table{
				Properties: types.TableProperties{Align: align},
				Columns:    []types.ColumnSpec{col(types.Fixed{Width: 4}, types.AlignLeft, types.OverflowWrap)},
				Rows:       [][]types.TextNode{{txt("abcd")}},
			}
			lines, err := LayoutTable(table, 10, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{want}, plain(lines), "align %q", align)
		}
	})
}

func TestLayoutTableRowsAreRectangular(t *testing.T) {
	blue := types.Style{Bg: "blue"}
	table := &types.Table{
		Columns: []types.ColumnSpec{
			col(types.Fixed{Width: 3}, types.AlignLeft, types.OverflowWrap),
			col(types.Fixed{Width: 2}, types.AlignLeft, types.OverflowWrap),
		},
		Rows: [][]types.TextNode{{
			txt("aa bb"),
			types.PrimitiveText{Value: "x", Styles: types.InlineStyle{Style: blue}},
		}},
	}

	lines, err := LayoutTable(table, 6, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa  x ", "bb    "}, plain(lines))
	for _, l := range lines {
		assert.Equal(t, 6, l.Width())
	}

	assert.Equal(t, []types.Segment{
		{Text: "aa  "},
		{Text: "x", Style: blue},
		{Text: " "},
	}, lines[0].Segments)
	assert.Equal(t, []types.Segment{
		{Text: "bb  "},
		{Text: "  ", Style: blue},
	}, lines[1].Segments)
}

func TestLayoutTableNamedStyles(t *testing.T) {
	reg, err := style.NewRegistry(map[string]types.StyleRef{
		"warn": types.InlineStyle{Style: types.Style{Fg: "red", Bold: types.Bool(true)}},
	})
	require.NoError(t, err)

	table := &types.Table{
		Columns: []types.ColumnSpec{col(types.Fixed{Width: 3}, types.AlignLeft, types.OverflowWrap)},
		Rows:    [][]types.TextNode{{types.PrimitiveText{Value: "red", Styles: types.StyleName("warn")}}},
	}
	lines, err := LayoutTable(table, 3, reg)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, []types.Segment{
		{Text: "red", Style: types.Style{Fg: "red", Bold: types.Bool(true)}},
	}, lines[0].Segments)
}

func TestLayoutTableFlexFillsWidth(t *testing.T) {
	table := &types.Table{
		Columns: []types.ColumnSpec{
			col(types.Fixed{Width: 0}, types.AlignLeft, types.OverflowWrap),
			col(types.Flex{Weight: 1}, types.AlignLeft, types.OverflowWrap),
			col(types.Flex{Weight: 2}, types.AlignRight, types.OverflowTruncate),
		},
		Rows: [][]types.TextNode{
			{txt("key"), txt("a value that is long enough to wrap"), txt("right")},
			{txt("k"), types.RepeatCommand{Value: "."}, txt("")},
		},
	}

	for _, width := range []int{20, 33, 80} {
		lines, err := LayoutTable(table, width, nil)
		require.NoError(t, err, "width %d", width)
		for _, l := range lines {
			assert.Equal(t, width, l.Width(), "width %d line %q", width, l.String())
		}
	}
}

func TestLayoutTableDynamicColumn(t *testing.T) {
	table := &types.Table{
		Columns: []types.ColumnSpec{col(types.Fixed{Width: 0}, types.AlignLeft, types.OverflowWrap)},
		Rows:    [][]types.TextNode{{txt("a")}, {txt("abcd")}},
	}
	lines, err := LayoutTable(table, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a         ", "abcd      "}, plain(lines))
}

func TestLayoutTableErrors(t *testing.T) {
	t.Run("row length mismatch", func(t *testing.T) {
		table := &types.Table{
			Columns: []types.ColumnSpec{
				col(types.Flex{Weight: 1}, types.AlignLeft, types.OverflowWrap),
				col(types.Flex{Weight: 1}, types.AlignLeft, types.OverflowWrap),
			},
			Rows: [][]types.TextNode{{txt("a"), txt("b")}, {txt("c")}},
		}
		_, err := LayoutTable(table, 20, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrStructuralMismatch))
		details := errors.GetErrorDetails(err)
		assert.Equal(t, "rows[1]", details[errors.DetailPath])
		assert.Equal(t, 1, details[errors.DetailRow])
	})

	t.Run("no columns", func(t *testing.T) {
		_, err := LayoutTable(&types.Table{}, 20, nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrStructuralMismatch))
	})

	t.Run("undefined style in a cell", func(t *testing.T) {
		table := &types.Table{
			Columns: []types.ColumnSpec{
				col(types.Fixed{Width: 3}, types.AlignLeft, types.OverflowWrap),
				col(types.Fixed{Width: 3}, types.AlignLeft, types.OverflowWrap),
			},
			Rows: [][]types.TextNode{{txt("a"), types.PrimitiveText{Value: "b", Styles: types.StyleName("nope")}}},
		}
		_, err := LayoutTable(table, 20, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrStyleResolution))
		assert.Equal(t, "rows[0][1]", errors.GetErrorDetails(err)[errors.DetailPath])
	})

	t.Run("width too small", func(t *testing.T) {
		table := &types.Table{
			Columns: []types.ColumnSpec{col(types.Flex{Weight: 1}, types.AlignLeft, types.OverflowWrap)},
			Rows:    [][]types.TextNode{{txt("a")}},
		}
		_, err := LayoutTable(table, 2, nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMinWidthViolation))
	})

	t.Run("wide character in a one-cell wrap column", func(t *testing.T) {
		table := &types.Table{
			Columns: []types.ColumnSpec{
				col(types.Fixed{Width: 3}, types.AlignLeft, types.OverflowWrap),
				col(types.Fixed{Width: 1}, types.AlignLeft, types.OverflowWrap),
			},
			Rows: [][]types.TextNode{
				{txt("a"), txt("b")},
				{txt("c"), txt("日本")},
			},
		}
		_, err := LayoutTable(table, 10, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMinWidthViolation), "got %v", err)
		assert.Equal(t, "rows[1][1]", errors.GetErrorDetails(err)[errors.DetailPath])
		assert.Equal(t, 1, errors.GetErrorDetails(err)[errors.DetailColumn])
	})
}

func TestLayoutTableWideCharacterTruncates(t *testing.T) {
	table := &types.Table{
		Columns: []types.ColumnSpec{col(types.Fixed{Width: 1}, types.AlignLeft, types.OverflowTruncate)},
		Rows:    [][]types.TextNode{{txt("日本")}},
	}
	lines, err := LayoutTable(table, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{" "}, plain(lines))
	assert.True(t, lines[0].Truncated)
}
