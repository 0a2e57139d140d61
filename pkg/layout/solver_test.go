package layout

import (
	"math"
	"testing"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(w int) types.ColumnSpec { return types.ColumnSpec{Size: types.Fixed{Width: w}} }
func flex(w int) types.ColumnSpec  { return types.ColumnSpec{Size: types.Flex{Weight: w}} }

func TestSolve(t *testing.T) {
	tests := []struct {
		name      string
		gap       int
		columns   []types.ColumnSpec
		natural   []int
		available int
		want      []int
	}{
		{
			name:      "fixed columns filling the width are unchanged",
			columns:   []types.ColumnSpec{fixed(4), fixed(6)},
			natural:   []int{0, 0},
			available: 10,
			want:      []int{4, 6},
		},
		{
			name:      "fixed columns with gaps",
			gap:       1,
			columns:   []types.ColumnSpec{fixed(4), fixed(5)},
			natural:   []int{0, 0},
			available: 10,
			want:      []int{4, 5},
		},
		{
			name:      "narrower fixed table keeps its widths",
			columns:   []types.ColumnSpec{fixed(3)},
			natural:   []int{0},
			available: 50,
			want:      []int{3},
		},
		{
			name:      "equal flex weights",
			columns:   []types.ColumnSpec{flex(1), flex(1)},
			natural:   []int{0, 0},
			available: 10,
			want:      []int{5, 5},
		},
		{
			name:      "largest remainder goes to the larger fraction",
			columns:   []types.ColumnSpec{flex(1), flex(2)},
			natural:   []int{0, 0},
			available: 10,
			want:      []int{3, 7},
		},
		{
			name:      "remainder ties go to the lower index",
			columns:   []types.ColumnSpec{flex(1), flex(1), flex(1)},
			natural:   []int{0, 0, 0},
			available: 10,
			want:      []int{4, 3, 3},
		},
		{
			name:      "dynamic columns take their natural width",
			columns:   []types.ColumnSpec{fixed(0), fixed(0)},
			natural:   []int{7, 0},
			available: 20,
			want:      []int{7, 1},
		},
		{
			name:      "mixed fixed, dynamic and flex",
			gap:       1,
			columns:   []types.ColumnSpec{fixed(10), fixed(0), flex(1), flex(3)},
			natural:   []int{99, 5, 99, 99},
			available: 40,
			want:      []int{10, 5, 6, 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Solver{Gap: tt.gap}.Solve(tt.columns, tt.natural, tt.available)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSolveFlexConsumesExactWidth(t *testing.T) {
	columns := []types.ColumnSpec{fixed(5), flex(2), fixed(0), flex(3), flex(7)}
	natural := []int{0, 0, 4, 0, 0}

	for available := 40; available <= 120; available++ {
		widths, err := Solver{Gap: 1}.Solve(columns, natural, available)
		require.NoError(t, err, "available=%d", available)

		total := 1 * (len(widths) - 1)
		for _, w := range widths {
			total += w
		}
		assert.Equal(t, available, total, "available=%d widths=%v", available, widths)
	}
}

func TestSolveHugeWeights(t *testing.T) {
	tests := []struct {
		name    string
		columns []types.ColumnSpec
		want    []int
	}{
		{"two max weights", []types.ColumnSpec{flex(math.MaxInt), flex(math.MaxInt)}, []int{5, 5}},
		{"max weight beside a fixed column", []types.ColumnSpec{fixed(4), flex(math.MaxInt)}, []int{4, 6}},
		{"weights sum past the int range", []types.ColumnSpec{flex(math.MaxInt), flex(math.MaxInt), flex(math.MaxInt)}, []int{4, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widths, err := Solver{}.Solve(tt.columns, make([]int, len(tt.columns)), 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, widths)
		})
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name      string
		gap       int
		columns   []types.ColumnSpec
		natural   []int
		available int
		code      errors.ErrorCode
		column    interface{}
	}{
		{
			name:      "fixed columns alone exceed the width",
			columns:   []types.ColumnSpec{fixed(8), fixed(8)},
			natural:   []int{0, 0},
			available: 10,
			code:      errors.ErrInsufficientWidth,
		},
		{
			name:      "fixed plus dynamic exceed the width",
			columns:   []types.ColumnSpec{fixed(5), fixed(0)},
			natural:   []int{0, 6},
			available: 10,
			code:      errors.ErrInsufficientWidth,
		},
		{
			name:      "gaps count against the width",
			gap:       1,
			columns:   []types.ColumnSpec{fixed(5), fixed(5)},
			natural:   []int{0, 0},
			available: 10,
			code:      errors.ErrInsufficientWidth,
		},
		{
			name:      "flex share below the minimum is an error, not clamped",
			columns:   []types.ColumnSpec{flex(1), flex(1)},
			natural:   []int{0, 0},
			available: 5,
			code:      errors.ErrMinWidthViolation,
			column:    1,
		},
		{
			name:      "flex with no room left",
			columns:   []types.ColumnSpec{fixed(10), flex(1)},
			natural:   []int{0, 0},
			available: 10,
			code:      errors.ErrMinWidthViolation,
			column:    1,
		},
		{
			name:      "fixed widths too large to add up",
			columns:   []types.ColumnSpec{fixed(50), fixed(math.MaxInt), fixed(math.MaxInt)},
			natural:   []int{0, 0, 0},
			available: 100,
			code:      errors.ErrInsufficientWidth,
			column:    1,
		},
		{
			name:      "a small weight beside huge weights gets nothing",
			columns:   []types.ColumnSpec{flex(4e18), flex(4e18), flex(1)},
			natural:   []int{0, 0, 0},
			available: 100,
			code:      errors.ErrMinWidthViolation,
			column:    2,
		},
		{
			name:      "flex weight below one",
			columns:   []types.ColumnSpec{flex(0)},
			natural:   []int{0},
			available: 10,
			code:      errors.ErrInvalidInput,
			column:    0,
		},
		{
			name:      "negative fixed width",
			columns:   []types.ColumnSpec{fixed(-1)},
			natural:   []int{0},
			available: 10,
			code:      errors.ErrInvalidInput,
			column:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solver{Gap: tt.gap}.Solve(tt.columns, tt.natural, tt.available)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			if tt.column != nil {
				assert.Equal(t, tt.column, errors.GetErrorDetails(err)[errors.DetailColumn])
			}
		})
	}
}
