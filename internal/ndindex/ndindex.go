// Package ndindex implements plain row-major and column-major index arithmetic.
//
// Nothing here knows about continuous (snake) axes; the Order type in the root
// package layers that on top.
package ndindex

// Layout selects which axis varies fastest during a traversal.
type Layout byte

const (
	// RowMajor traverses with the last axis fastest ("C").
	RowMajor Layout = 'C'
	// ColumnMajor traverses with the first axis fastest ("F").
	ColumnMajor Layout = 'F'
)

// String returns "C" or "F".
func (l Layout) String() string {
	return string(l)
}

// Strides returns the flat-index multiplier of every axis.
func Strides(shape []int, layout Layout) []int {
	strides := make([]int, len(shape))
	m := 1
	if layout == ColumnMajor {
		for d := 0; d < len(shape); d++ {
			strides[d] = m
			m *= shape[d]
		}
		return strides
	}
	for d := len(shape) - 1; d >= 0; d-- {
		strides[d] = m
		m *= shape[d]
	}
	return strides
}

// Ravel linearizes one point.
func Ravel(idx, strides []int) int {
	flat := 0
	for d, x := range idx {
		flat += x * strides[d]
	}
	return flat
}

// Unravel writes the coordinates of flat into idx.
// Every extent must be positive.
func Unravel(flat int, shape []int, layout Layout, idx []int) {
	if layout == ColumnMajor {
		for d := 0; d < len(shape); d++ {
			idx[d] = flat % shape[d]
			flat /= shape[d]
		}
		return
	}
	for d := len(shape) - 1; d >= 0; d-- {
		idx[d] = flat % shape[d]
		flat /= shape[d]
	}
}

// Next advances idx to the following point in traversal order.
// It returns false after the last point, leaving idx all zeros.
func Next(idx, shape []int, layout Layout) bool {
	n := len(shape)
	for k := 0; k < n; k++ {
		d := k
		if layout == RowMajor {
			d = n - 1 - k
		}
		idx[d]++
		if idx[d] < shape[d] {
			return true
		}
		idx[d] = 0
	}
	return false
}

// Size returns the product of the extents (1 for rank 0).
func Size(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
