// Copyright (c) 2025 SciGo HDF5 Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vdsmerge

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/scigolib/vdsmerge/internal/ndindex"
)

// Order describes how the points of an N-dimensional array are traversed.
//
// The layout is either "C" (fast axis last, row-major) or "F" (fast axis first,
// column-major). Continuous axes are traversed back and forth (boustrophedon)
// instead of restarting at the same edge on every sweep, which models a motor
// that scans a raster in snake mode:
//
//	C order, shape (2, 3):               C order, all continuous:
//	    0 -> (0,0)  3 -> (1,0)              0 -> (0,0)  3 -> (1,2)
//	    1 -> (0,1)  4 -> (1,1)              1 -> (0,1)  4 -> (1,1)
//	    2 -> (0,2)  5 -> (1,2)              2 -> (0,2)  5 -> (1,0)
//
// Order is an immutable value; the zero value is plain "C" order.
type Order struct {
	layout ndindex.Layout
	all    bool
	axes   []int
}

// Predefined orders without continuous axes.
var (
	OrderC = Order{layout: ndindex.RowMajor}
	OrderF = Order{layout: ndindex.ColumnMajor}
)

// NewOrder returns the order for a layout string ("C" or "F", case-insensitive).
// An empty string selects "C".
func NewOrder(layout string) (Order, error) {
	switch strings.ToUpper(layout) {
	case "", "C":
		return OrderC, nil
	case "F":
		return OrderF, nil
	default:
		return Order{}, fmt.Errorf("%w: %q (must be C or F)", ErrInvalidOrder, layout)
	}
}

// ParseOrder builds an order from its textual form. caxes is either empty,
// "all", or a comma-separated list of axis indices.
func ParseOrder(layout, caxes string) (Order, error) {
	o, err := NewOrder(layout)
	if err != nil {
		return Order{}, err
	}
	caxes = strings.TrimSpace(caxes)
	switch caxes {
	case "":
		return o, nil
	case "all":
		return o.WithAllContinuous(), nil
	}
	fields := strings.Split(caxes, ",")
	axes := make([]int, 0, len(fields))
	for _, f := range fields {
		a, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Order{}, fmt.Errorf("%w: continuous axes must be \"all\" or integers, got %q",
				ErrInvalidOrder, caxes)
		}
		axes = append(axes, a)
	}
	return o.WithContinuousAxes(axes...), nil
}

// WithContinuousAxes returns a copy of o with the given continuous axes.
// No arguments clears them.
func (o Order) WithContinuousAxes(axes ...int) Order {
	c := Order{layout: o.layout}
	if len(axes) > 0 {
		c.axes = slices.Clone(axes)
		slices.Sort(c.axes)
		c.axes = slices.Compact(c.axes)
	}
	return c
}

// WithAllContinuous returns a copy of o in which every axis is continuous.
func (o Order) WithAllContinuous() Order {
	return Order{layout: o.layout, all: true}
}

// Copy returns a detached copy of o.
func (o Order) Copy() Order {
	return Order{layout: o.layout, all: o.all, axes: slices.Clone(o.axes)}
}

// Equal reports whether both orders have the same layout and continuous axes.
func (o Order) Equal(other Order) bool {
	return o.lay() == other.lay() && o.all == other.all && slices.Equal(o.axes, other.axes)
}

// Layout returns "C" or "F".
func (o Order) Layout() string {
	return o.lay().String()
}

// IsC reports whether the last axis is the fast axis.
func (o Order) IsC() bool {
	return o.lay() == ndindex.RowMajor
}

// IsF reports whether the first axis is the fast axis.
func (o Order) IsF() bool {
	return o.lay() == ndindex.ColumnMajor
}

// HasContinuousAxes reports whether any continuous axes are configured.
func (o Order) HasContinuousAxes() bool {
	return o.all || len(o.axes) > 0
}

// Plain returns o without continuous axes.
func (o Order) Plain() Order {
	return Order{layout: o.lay()}
}

func (o Order) String() string {
	switch {
	case o.all:
		return o.Layout() + " (all)"
	case len(o.axes) > 0:
		return fmt.Sprintf("%s (%v)", o.Layout(), o.axes)
	default:
		return o.Layout()
	}
}

func (o Order) lay() ndindex.Layout {
	if o.layout == ndindex.ColumnMajor {
		return ndindex.ColumnMajor
	}
	return ndindex.RowMajor
}

// ContinuousAxes returns the continuous axes that matter for shape, in
// ascending order. The outermost loop (axis 0 for C, the last axis for F) is
// traversed only once, so it never snakes and is excluded.
func (o Order) ContinuousAxes(shape Shape) []int {
	if !o.HasContinuousAxes() {
		return nil
	}
	ndim := len(shape)
	outer := 0
	if o.IsF() {
		outer = ndim - 1
	}
	var caxes []int
	for i := 0; i < ndim; i++ {
		if i == outer {
			continue
		}
		if o.all || slices.Contains(o.axes, i) {
			caxes = append(caxes, i)
		}
	}
	return caxes
}

// Ravel converts coordinates to flat indices.
func (o Order) Ravel(idx MultiIndex, shape Shape) ([]int, error) {
	n, err := checkMultiIndex(idx, shape)
	if err != nil {
		return nil, err
	}
	idx = o.flip(idx, shape, true)
	strides := ndindex.Strides(shape, o.lay())
	flat := make([]int, n)
	for d, coords := range idx {
		for p, x := range coords {
			flat[p] += x * strides[d]
		}
	}
	return flat, nil
}

// Unravel converts flat indices to coordinates.
func (o Order) Unravel(flat []int, shape Shape) (MultiIndex, error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	idx := NewMultiIndex(len(shape), len(flat))
	point := make([]int, len(shape))
	for p, f := range flat {
		if f < 0 || f >= size {
			return nil, fmt.Errorf("%w: flat index %d for shape %v", ErrIndexOutOfRange, f, shape)
		}
		ndindex.Unravel(f, shape, o.lay(), point)
		for d, x := range point {
			idx[d][p] = x
		}
	}
	return o.flip(idx, shape, false), nil
}

// UnravelRange unravels the flat indices 0..size-1 of shape.
func (o Order) UnravelRange(shape Shape) (MultiIndex, error) {
	size, err := shape.SizeChecked()
	if err != nil {
		return nil, err
	}
	return o.Unravel(arange(size), shape)
}

// flip converts between discontinuous (plain) and continuous (snake)
// coordinates. reverse selects continuous -> discontinuous. The input is
// never modified.
func (o Order) flip(idx MultiIndex, shape Shape, reverse bool) MultiIndex {
	caxes := o.ContinuousAxes(shape)
	if len(caxes) == 0 {
		return idx
	}
	idx = idx.Clone()
	ndim := len(shape)
	ascending := o.IsF() != reverse
	for k := 0; k < ndim; k++ {
		i := k
		if !ascending {
			i = ndim - 1 - k
		}
		if !slices.Contains(caxes, i) {
			continue
		}
		coords := idx[i]
		for p := range coords {
			if o.iterIndex(idx, shape, i, p)%2 == 1 {
				coords[p] = shape[i] - 1 - coords[p]
			}
		}
	}
	return idx
}

// iterIndex returns how many full sweeps of axis dim precede point p, derived
// from the coordinates of all loops outside dim.
func (o Order) iterIndex(idx MultiIndex, shape Shape, dim, p int) int {
	ndim := len(shape)
	inc, last := -1, 0
	if o.IsF() {
		inc, last = 1, ndim-1
	}
	if dim == last {
		return 0
	}
	niter := idx[dim+inc][p]
	m := 1
	for j := dim + 2*inc; j != last+inc; j += inc {
		m *= shape[j-inc]
		niter += idx[j][p] * m
	}
	return niter
}

func checkMultiIndex(idx MultiIndex, shape Shape) (int, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("%w: %d-dimensional index for shape %v", ErrShapeMismatch, len(idx), shape)
	}
	n := idx.Len()
	for d, coords := range idx {
		if len(coords) != n {
			return 0, fmt.Errorf("%w: dimension %d has %d coordinates, expected %d",
				ErrShapeMismatch, d, len(coords), n)
		}
		for _, x := range coords {
			if x < 0 || x >= shape[d] {
				return 0, fmt.Errorf("%w: coordinate %d in dimension %d of shape %v",
					ErrIndexOutOfRange, x, d, shape)
			}
		}
	}
	return n, nil
}

func arange(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}
