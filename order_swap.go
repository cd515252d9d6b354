package vdsmerge

import (
	"fmt"

	"github.com/scigolib/vdsmerge/internal/ndindex"
)

// SwapIndex converts flat indices in o to the flat indices of the same points in other.
func (o Order) SwapIndex(flat []int, shape Shape, other Order) ([]int, error) {
	if o.Equal(other) || len(shape) <= 1 {
		return flat, nil
	}
	idx, err := o.Unravel(flat, shape)
	if err != nil {
		return nil, err
	}
	return other.Ravel(idx, shape)
}

// SwapMultiIndex converts coordinates traversed in o to the coordinates visited
// at the same flat positions in other.
func (o Order) SwapMultiIndex(idx MultiIndex, shape Shape, other Order) (MultiIndex, error) {
	if o.Equal(other) || len(shape) <= 1 {
		return idx, nil
	}
	flat, err := o.Ravel(idx, shape)
	if err != nil {
		return nil, err
	}
	return other.Unravel(flat, shape)
}

// SwapFullIndex returns, for every flat index k in o, the flat index in other of
// the point o visits at k.
func (o Order) SwapFullIndex(shape Shape, other Order) ([]int, error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	if o.Equal(other) || len(shape) <= 1 {
		return arange(size), nil
	}
	if len(o.ContinuousAxes(shape)) == 0 && len(other.ContinuousAxes(shape)) == 0 {
		return o.swapPlain(shape, size, other), nil
	}
	return o.SwapIndex(arange(size), shape, other)
}

// swapPlain walks shape in o's layout and ravels with other's strides.
func (o Order) swapPlain(shape Shape, size int, other Order) []int {
	out := make([]int, size)
	if size == 0 {
		return out
	}
	strides := ndindex.Strides(shape, other.lay())
	point := make([]int, len(shape))
	for k := range out {
		out[k] = ndindex.Ravel(point, strides)
		ndindex.Next(point, shape, o.lay())
	}
	return out
}

// SwapList reorders items listed in o's traversal order into other's.
func SwapList[T any](o Order, items []T, shape Shape, other Order) ([]T, error) {
	if o.Equal(other) || len(shape) <= 1 {
		return items, nil
	}
	if len(items) != shape.Size() {
		return nil, fmt.Errorf("%w: %d items for shape %v", ErrShapeMismatch, len(items), shape)
	}
	idx, err := other.SwapFullIndex(shape, o)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(idx))
	for k, i := range idx {
		out[k] = items[i]
	}
	return out, nil
}
