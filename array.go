package vdsmerge

import (
	"fmt"
	"slices"

	"github.com/scigolib/vdsmerge/internal/ndindex"
	"github.com/scigolib/vdsmerge/internal/utils"
)

// Array is an in-memory N-dimensional array stored in row-major order.
type Array[T any] struct {
	shape Shape
	data  []T
}

// Shaped is anything with an array shape. Merge sources only need a shape.
type Shaped interface {
	Shape() Shape
}

// NewArray wraps data (not copied) with the given shape.
func NewArray[T any](shape Shape, data []T) (*Array[T], error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	return &Array[T]{shape: shape.Clone(), data: data}, nil
}

// Zeros allocates an array filled with the zero value of T.
func Zeros[T any](shape Shape) (*Array[T], error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	return &Array[T]{shape: shape.Clone(), data: make([]T, size)}, nil
}

// Arange returns an array holding 0..size-1 in row-major order.
func Arange(shape Shape) (*Array[int], error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	return &Array[int]{shape: shape.Clone(), data: arange(size)}, nil
}

// Shape returns a copy of the array's shape.
func (a *Array[T]) Shape() Shape {
	return a.shape.Clone()
}

// Data returns the row-major backing slice.
func (a *Array[T]) Data() []T {
	return a.data
}

// Clone returns a deep copy.
func (a *Array[T]) Clone() *Array[T] {
	return &Array[T]{shape: a.shape.Clone(), data: slices.Clone(a.data)}
}

// At returns the element at the given coordinates.
func (a *Array[T]) At(idx ...int) T {
	return a.data[a.offset(idx)]
}

// Set stores v at the given coordinates.
func (a *Array[T]) Set(v T, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array[T]) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("vdsmerge: %d-dimensional index for shape %v", len(idx), a.shape))
	}
	off := 0
	for d, x := range idx {
		if x < 0 || x >= a.shape[d] {
			panic(fmt.Sprintf("vdsmerge: index %v out of range for shape %v", idx, a.shape))
		}
		off = off*a.shape[d] + x
	}
	return off
}

// Get returns a copy of the selected elements.
func (a *Array[T]) Get(sel Selection) (*Array[T], error) {
	r, err := resolveSelection(sel, a.shape)
	if err != nil {
		return nil, err
	}
	offs := r.offsets(ndindex.RowMajor, nil)
	data := make([]T, len(offs))
	for k, off := range offs {
		data[k] = a.data[off]
	}
	return &Array[T]{shape: r.resultShape(), data: data}, nil
}

// CopySelection performs dst[dstSel] = src[srcSel]. Both selections must
// select the same number of elements; they are paired in the traversal order
// of o's layout over each selection's result axes.
func CopySelection[T any](dst *Array[T], dstSel Selection, src *Array[T], srcSel Selection, o Order) error {
	rin, err := resolveSelection(srcSel, src.shape)
	if err != nil {
		return fmt.Errorf("source selection %s: %w", srcSel, err)
	}
	rout, err := resolveSelection(dstSel, dst.shape)
	if err != nil {
		return fmt.Errorf("destination selection %s: %w", dstSel, err)
	}
	if rin.count() != rout.count() {
		return fmt.Errorf("%w: cannot assign %d elements (%s of %v) to %d elements (%s of %v)",
			ErrShapeMismatch, rin.count(), srcSel, src.shape, rout.count(), dstSel, dst.shape)
	}
	in := rin.offsets(o.lay(), utils.GetIndexBuffer(rin.count()))
	defer utils.ReleaseIndexBuffer(in)
	out := rout.offsets(o.lay(), utils.GetIndexBuffer(rout.count()))
	defer utils.ReleaseIndexBuffer(out)
	for k, off := range out {
		dst.data[off] = src.data[in[k]]
	}
	return nil
}

// Reshape returns a with a new shape, preserving the traversal order of o.
// With continuous axes every element is placed individually, since a snaked
// array cannot be reinterpreted in memory.
func Reshape[T any](o Order, a *Array[T], shape Shape) (*Array[T], error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	if size != len(a.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrReshapeSizeMismatch, a.shape, shape)
	}
	if o.IsC() && !o.HasContinuousAxes() {
		return &Array[T]{shape: shape.Clone(), data: slices.Clone(a.data)}, nil
	}

	get, err := o.UnravelRange(a.shape)
	if err != nil {
		return nil, err
	}
	set, err := o.UnravelRange(shape)
	if err != nil {
		return nil, err
	}
	out := &Array[T]{shape: shape.Clone(), data: make([]T, size)}
	for k := 0; k < size; k++ {
		out.data[rowMajorOffset(set, shape, k)] = a.data[rowMajorOffset(get, a.shape, k)]
	}
	return out, nil
}

// Flatten returns the elements of a as a 1-D array in o's traversal order.
func Flatten[T any](o Order, a *Array[T]) (*Array[T], error) {
	size := len(a.data)
	if o.IsC() && len(o.ContinuousAxes(a.shape)) == 0 {
		return &Array[T]{shape: Shape{size}, data: slices.Clone(a.data)}, nil
	}
	midx, err := o.UnravelRange(a.shape)
	if err != nil {
		return nil, err
	}
	out := make([]T, size)
	for k := range out {
		out[k] = a.data[rowMajorOffset(midx, a.shape, k)]
	}
	return &Array[T]{shape: Shape{size}, data: out}, nil
}

func rowMajorOffset(idx MultiIndex, shape Shape, p int) int {
	off := 0
	for d := range shape {
		off = off*shape[d] + idx[d][p]
	}
	return off
}
