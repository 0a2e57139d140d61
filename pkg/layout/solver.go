package layout

import (
	"math/big"
	"sort"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/types"
)

const (
	// FlexMinWidth is the narrowest a flex column may be.
	FlexMinWidth = 3
	// DynamicMinWidth is the narrowest a content-sized column may be.
	DynamicMinWidth = 1
	// DefaultGap is the number of blank cells between adjacent table columns.
	DefaultGap = 1
)

// Solver computes concrete column widths.
type Solver struct {
	// Gap is the separator width between adjacent columns.
	Gap int
}

// Solve returns one width per column. Fixed columns keep their declared
// width, dynamic columns (fixed width 0) take max(1, natural[i]), and flex
// columns split what is left of available, after gaps, by weight using
// largest-remainder apportionment. Whenever flex columns exist the widths
// plus gaps add up to exactly available.
func (s Solver) Solve(columns []types.ColumnSpec, natural []int, available int) ([]int, error) {
	if len(natural) != len(columns) {
		return nil, errors.Newf(errors.ErrInternal,
			"got %d natural widths for %d columns", len(natural), len(columns))
	}

	widths := make([]int, len(columns))
	var flexIdx []int
	fixedSum, dynamicSum := 0, 0
	totalWeight := new(big.Int)

	for i, col := range columns {
		switch size := col.Size.(type) {
		case types.Fixed:
			switch {
			case size.Width < 0:
				return nil, errors.Newf(errors.ErrInvalidInput, "fixed width %d is negative", size.Width).
					WithDetail(errors.DetailColumn, i)
			case size.IsDynamic():
				widths[i] = max(DynamicMinWidth, natural[i])
				dynamicSum += widths[i]
			case size.Width > available-fixedSum:
				return nil, errors.Newf(errors.ErrInsufficientWidth,
					"fixed column needs %d cells, only %d of %d left", size.Width, available-fixedSum, available).
					WithDetail(errors.DetailColumn, i).
					WithDetail(errors.DetailWidth, available)
			default:
				widths[i] = size.Width
				fixedSum += widths[i]
			}
		case types.Flex:
			if size.Weight < 1 {
				return nil, errors.Newf(errors.ErrInvalidInput, "flex weight %d is below 1", size.Weight).
					WithDetail(errors.DetailColumn, i)
			}
			flexIdx = append(flexIdx, i)
			totalWeight.Add(totalWeight, big.NewInt(int64(size.Weight)))
		default:
			return nil, errors.New(errors.ErrInvalidInput, "column has no size").
				WithDetail(errors.DetailColumn, i)
		}
	}

	overhead := 0
	if len(columns) > 1 {
		overhead = s.Gap * (len(columns) - 1)
	}
	remaining := available - fixedSum - dynamicSum - overhead
	if remaining < 0 {
		return nil, errors.Newf(errors.ErrInsufficientWidth,
			"columns need %d cells (fixed %d, dynamic %d, gaps %d), only %d available",
			fixedSum+dynamicSum+overhead, fixedSum, dynamicSum, overhead, available).
			WithDetail(errors.DetailWidth, available)
	}

	if len(flexIdx) == 0 {
		return widths, nil
	}

	shares := apportion(columns, flexIdx, totalWeight, remaining)
	for k, i := range flexIdx {
		widths[i] = shares[k]
		if widths[i] < FlexMinWidth {
			return nil, errors.Newf(errors.ErrMinWidthViolation,
				"flex column resolves to %d cells, minimum is %d", widths[i], FlexMinWidth).
				WithDetail(errors.DetailColumn, i).
				WithDetail(errors.DetailWidth, widths[i])
		}
	}
	return widths, nil
}

// apportion splits total between the flex columns by weight. Each column
// first gets floor(total*weight/totalWeight); the units left over go one
// each to the largest fractional remainders, lower column index first on
// ties. Products are computed exactly so any int weight is safe.
func apportion(columns []types.ColumnSpec, flexIdx []int, totalWeight *big.Int, total int) []int {
	shares := make([]int, len(flexIdx))
	rems := make([]*big.Int, len(flexIdx))
	bigTotal := big.NewInt(int64(total))
	assigned := 0
	for k, i := range flexIdx {
		w := big.NewInt(int64(columns[i].Size.(types.Flex).Weight))
		q, r := new(big.Int).QuoRem(w.Mul(w, bigTotal), totalWeight, new(big.Int))
		// q <= total because weight <= totalWeight
		shares[k] = int(q.Int64())
		rems[k] = r
		assigned += shares[k]
	}

	order := make([]int, len(flexIdx))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]].Cmp(rems[order[b]]) > 0
	})

	for _, k := range order[:min(total-assigned, len(order))] {
		shares[k]++
	}
	return shares
}
