package vdsmerge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/vdsmerge/internal/ndindex"
)

// Selector picks positions along one axis of an array.
//
// The implementations are Index, Slice, Full and IndexArray.
type Selector interface {
	fmt.Stringer
	isSelector()
}

// Index selects a single position and drops the axis from the result.
type Index int

// Slice selects Start, Start+Step, ... up to but excluding Stop.
// Bounds are absolute: with a negative Step a Stop of -1 runs down to 0.
type Slice struct {
	Start int
	Stop  int
	Step  int
}

// Full selects the whole axis.
type Full struct{}

// IndexArray selects arbitrary positions (advanced indexing). All index
// arrays of a selection have the same length and are paired point by point.
type IndexArray []int

func (Index) isSelector()      {}
func (Slice) isSelector()      {}
func (Full) isSelector()       {}
func (IndexArray) isSelector() {}

func (i Index) String() string { return strconv.Itoa(int(i)) }
func (Full) String() string    { return ":" }

func (s Slice) String() string {
	return fmt.Sprintf("%d:%d:%d", s.Start, s.Stop, s.Step)
}

func (a IndexArray) String() string {
	return fmt.Sprint([]int(a))
}

// Len returns the number of positions the slice selects.
func (s Slice) Len() int {
	switch {
	case s.Step > 0 && s.Stop > s.Start:
		return (s.Stop - s.Start + s.Step - 1) / s.Step
	case s.Step < 0 && s.Stop < s.Start:
		return (s.Start - s.Stop - s.Step - 1) / -s.Step
	default:
		return 0
	}
}

// Selection is one selector per axis. Missing trailing selectors mean Full,
// so an empty selection is the whole array.
type Selection []Selector

func (s Selection) String() string {
	parts := make([]string, len(s))
	for i, sel := range s {
		parts[i] = sel.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsBasic reports whether the selection avoids advanced (IndexArray) indexing.
func (s Selection) IsBasic() bool {
	for _, sel := range s {
		if _, ok := sel.(IndexArray); ok {
			return false
		}
	}
	return true
}

// Len returns the number of elements selected from an array of the given shape.
func (s Selection) Len(shape Shape) (int, error) {
	r, err := resolveSelection(s, shape)
	if err != nil {
		return 0, err
	}
	return r.count(), nil
}

// ResultShape returns the shape of the selected sub-array.
func (s Selection) ResultShape(shape Shape) (Shape, error) {
	r, err := resolveSelection(s, shape)
	if err != nil {
		return nil, err
	}
	return r.resultShape(), nil
}

// ExpandRun lists the points of a compressed run. Unlike array indexing, the
// Slice selectors of a run advance together: point k takes the k-th position
// of every slice, while Index selectors stay fixed.
func ExpandRun(s Selection) (MultiIndex, error) {
	n := 1
	counted := false
	for d, sel := range s {
		var m int
		switch v := sel.(type) {
		case Index:
			continue
		case Slice:
			m = v.Len()
		case IndexArray:
			m = len(v)
		default:
			return nil, fmt.Errorf("%w: %s at dimension %d cannot be expanded without a shape",
				ErrInvalidSelection, sel, d)
		}
		if counted && m != n {
			return nil, fmt.Errorf("%w: run %s has unequal lengths", ErrInvalidSelection, s)
		}
		n, counted = m, true
	}

	idx := NewMultiIndex(len(s), n)
	for d, sel := range s {
		for k := 0; k < n; k++ {
			switch v := sel.(type) {
			case Index:
				idx[d][k] = int(v)
			case Slice:
				idx[d][k] = v.Start + k*v.Step
			case IndexArray:
				idx[d][k] = v[k]
			}
		}
	}
	return idx, nil
}

// resolvedAxis is one axis of a selection result. Adjacent index arrays
// collapse into a single axis spanning several array dimensions.
type resolvedAxis struct {
	dims []int
	pos  [][]int
}

func (a resolvedAxis) len() int {
	return len(a.pos[0])
}

type resolved struct {
	shape Shape
	fixed int
	axes  []resolvedAxis
}

func resolveSelection(sel Selection, shape Shape) (*resolved, error) {
	if len(sel) > len(shape) {
		return nil, fmt.Errorf("%w: %d selectors for shape %v", ErrInvalidSelection, len(sel), shape)
	}
	strides := ndindex.Strides(shape, ndindex.RowMajor)
	r := &resolved{shape: shape}
	arrayAxis := -1
	lastArrayDim := -1

	for d := range shape {
		var sl Selector = Full{}
		if d < len(sel) {
			sl = sel[d]
		}
		n := shape[d]
		switch v := sl.(type) {
		case Index:
			if int(v) < 0 || int(v) >= n {
				return nil, fmt.Errorf("%w: index %d in dimension %d of shape %v", ErrIndexOutOfRange, v, d, shape)
			}
			r.fixed += int(v) * strides[d]
		case Full:
			r.axes = append(r.axes, resolvedAxis{dims: []int{d}, pos: [][]int{arange(n)}})
		case Slice:
			pos, err := slicePositions(v, n, d)
			if err != nil {
				return nil, err
			}
			r.axes = append(r.axes, resolvedAxis{dims: []int{d}, pos: [][]int{pos}})
		case IndexArray:
			for _, x := range v {
				if x < 0 || x >= n {
					return nil, fmt.Errorf("%w: index %d in dimension %d of shape %v", ErrIndexOutOfRange, x, d, shape)
				}
			}
			if arrayAxis < 0 {
				arrayAxis = len(r.axes)
				r.axes = append(r.axes, resolvedAxis{dims: []int{d}, pos: [][]int{v}})
			} else {
				if lastArrayDim != d-1 {
					return nil, fmt.Errorf("%w: index arrays must be adjacent", ErrInvalidSelection)
				}
				ax := &r.axes[arrayAxis]
				if len(v) != ax.len() {
					return nil, fmt.Errorf("%w: index arrays of length %d and %d", ErrInvalidSelection, ax.len(), len(v))
				}
				ax.dims = append(ax.dims, d)
				ax.pos = append(ax.pos, v)
			}
			lastArrayDim = d
		default:
			return nil, fmt.Errorf("%w: unknown selector %T", ErrInvalidSelection, sl)
		}
	}
	return r, nil
}

func slicePositions(s Slice, n, d int) ([]int, error) {
	if s.Step == 0 {
		return nil, fmt.Errorf("%w: zero step in dimension %d", ErrInvalidSelection, d)
	}
	m := s.Len()
	if m > 0 {
		last := s.Start + (m-1)*s.Step
		if s.Start < 0 || s.Start >= n || last < 0 || last >= n {
			return nil, fmt.Errorf("%w: slice %s in dimension %d of size %d", ErrIndexOutOfRange, s, d, n)
		}
	}
	pos := make([]int, m)
	for k := range pos {
		pos[k] = s.Start + k*s.Step
	}
	return pos, nil
}

func (r *resolved) resultShape() Shape {
	shape := make(Shape, len(r.axes))
	for i, ax := range r.axes {
		shape[i] = ax.len()
	}
	return shape
}

func (r *resolved) count() int {
	return r.resultShape().Size()
}

// offsets returns the row-major offsets of the selected elements, enumerated
// over the result axes in the given layout. out is reused when large enough.
func (r *resolved) offsets(layout ndindex.Layout, out []int) []int {
	rshape := r.resultShape()
	total := rshape.Size()
	if cap(out) < total {
		out = make([]int, total)
	}
	out = out[:total]
	if total == 0 {
		return out
	}

	strides := ndindex.Strides(r.shape, ndindex.RowMajor)
	contrib := make([][]int, len(r.axes))
	for a, ax := range r.axes {
		c := make([]int, ax.len())
		for k, d := range ax.dims {
			for j, p := range ax.pos[k] {
				c[j] += p * strides[d]
			}
		}
		contrib[a] = c
	}

	point := make([]int, len(r.axes))
	for k := range out {
		off := r.fixed
		for a, j := range point {
			off += contrib[a][j]
		}
		out[k] = off
		ndindex.Next(point, rshape, layout)
	}
	return out
}
