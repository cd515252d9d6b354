package vdsmerge

import (
	"fmt"
	"strings"

	"github.com/scigolib/vdsmerge/internal/utils"
)

// Shape is the extents of an N-dimensional array, e.g. [2, 3, 4].
type Shape []int

// Size returns the number of elements (1 for rank 0).
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// SizeChecked is Size with negative extent and overflow detection.
func (s Shape) SizeChecked() (int, error) {
	n, err := utils.ShapeSize(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShapeOverflow, err)
	}
	return n, nil
}

// Equal reports whether both shapes have the same rank and extents.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// String renders the shape as a tuple, e.g. "(2, 3)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// MultiIndex holds the coordinates of a set of points, one slice per dimension.
// Entry i of every slice names point i.
type MultiIndex [][]int

// NewMultiIndex allocates coordinates for n points in ndim dimensions.
func NewMultiIndex(ndim, n int) MultiIndex {
	m := make(MultiIndex, ndim)
	for d := range m {
		m[d] = make([]int, n)
	}
	return m
}

// Len returns the number of points.
func (m MultiIndex) Len() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Point returns the coordinates of point i.
func (m MultiIndex) Point(i int) []int {
	p := make([]int, len(m))
	for d := range m {
		p[d] = m[d][i]
	}
	return p
}

// Clone returns a deep copy.
func (m MultiIndex) Clone() MultiIndex {
	c := make(MultiIndex, len(m))
	for d := range m {
		c[d] = append([]int(nil), m[d]...)
	}
	return c
}
