package vdsmerge

import "fmt"

// MergedShape returns the shape of stacking (newaxis) or concatenating the
// given shapes along axis. A negative axis counts from the end; when stacking
// the new axis is included in the count. No shapes yields a nil shape.
func MergedShape(shapes []Shape, axis int, newaxis bool) (Shape, error) {
	merged, _, err := mergedShape(shapes, axis, newaxis)
	return merged, err
}

// mergedShape also returns the normalized merge axis.
func mergedShape(shapes []Shape, axis int, newaxis bool) (Shape, int, error) {
	if len(shapes) == 0 {
		return nil, 0, nil
	}
	first := shapes[0]
	ndim := len(first)

	if newaxis {
		ax, err := normalizeAxis(axis, ndim+1)
		if err != nil {
			return nil, 0, err
		}
		for _, s := range shapes[1:] {
			if !s.Equal(first) {
				return nil, 0, fmt.Errorf("%w: cannot stack shapes %v", ErrShapeMismatch, shapes)
			}
		}
		merged := make(Shape, 0, ndim+1)
		merged = append(merged, first[:ax]...)
		merged = append(merged, len(shapes))
		merged = append(merged, first[ax:]...)
		return merged, ax, nil
	}

	ax, err := normalizeAxis(axis, ndim)
	if err != nil {
		return nil, 0, err
	}
	merged := first.Clone()
	merged[ax] = 0
	for _, s := range shapes {
		if len(s) != ndim {
			return nil, 0, fmt.Errorf("%w: cannot concatenate shapes %v along axis %d", ErrShapeMismatch, shapes, axis)
		}
		for d := range s {
			if d != ax && s[d] != first[d] {
				return nil, 0, fmt.Errorf("%w: cannot concatenate shapes %v along axis %d", ErrShapeMismatch, shapes, axis)
			}
		}
		merged[ax] += s[ax]
	}
	return merged, ax, nil
}

func normalizeAxis(axis, ndim int) (int, error) {
	ax := axis
	if ax < 0 {
		ax += ndim
	}
	if ax < 0 || ax >= ndim {
		return 0, fmt.Errorf("%w: axis %d for %d dimensions", ErrInvalidAxis, axis, ndim)
	}
	return ax, nil
}
