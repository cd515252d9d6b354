package vdsmerge

import (
	"fmt"

	"github.com/scigolib/vdsmerge/internal/utils"
)

// HyperslabSelection represents a rectangular selection in N-dimensional space.
// It follows the HDF5 hyperslab specification with start, count, stride, and block parameters.
//
// Parameters:
//   - Start: Starting coordinates in each dimension (0-based indexing)
//   - Count: Number of blocks to select in each dimension
//   - Stride: Step between blocks in each dimension (nil = default to all 1s)
//   - Block: Size of each block in each dimension (nil = default to all 1s)
//
// The total number of elements selected is: product(Count[i] * Block[i]) for all dimensions.
type HyperslabSelection struct {
	Start  []uint64
	Count  []uint64
	Stride []uint64 // nil means all 1s (contiguous selection)
	Block  []uint64 // nil means all 1s (single element blocks)
}

// NumElements returns the number of selected elements.
func (h *HyperslabSelection) NumElements() (uint64, error) {
	fillHyperslabDefaults(h, len(h.Start))
	return utils.CalculateHyperslabElements(h.Count, h.Block)
}

// ToHyperslab converts a basic selection on an array of the given shape to a
// hyperslab. Index selectors become single-element counts, so the hyperslab
// keeps the array's rank. Negative steps, empty slices and index arrays have
// no hyperslab form and fail with ErrNotHyperslab.
func ToHyperslab(sel Selection, shape Shape) (*HyperslabSelection, error) {
	if _, err := resolveSelection(sel, shape); err != nil {
		return nil, err
	}

	ndims := len(shape)
	h := &HyperslabSelection{
		Start:  make([]uint64, ndims),
		Count:  make([]uint64, ndims),
		Stride: make([]uint64, ndims),
		Block:  make([]uint64, ndims),
	}
	dims := make([]uint64, ndims)
	for d := range shape {
		dims[d] = uint64(shape[d])
		h.Stride[d] = 1
		h.Block[d] = 1

		var s Selector = Full{}
		if d < len(sel) {
			s = sel[d]
		}
		switch v := s.(type) {
		case Index:
			h.Start[d] = uint64(v)
			h.Count[d] = 1
		case Full:
			h.Count[d] = uint64(shape[d])
		case Slice:
			if v.Step < 0 {
				return nil, fmt.Errorf("%w: negative step %s in dimension %d", ErrNotHyperslab, v, d)
			}
			h.Start[d] = uint64(v.Start)
			h.Count[d] = uint64(v.Len())
			h.Stride[d] = uint64(v.Step)
		default:
			return nil, fmt.Errorf("%w: %T in dimension %d", ErrNotHyperslab, s, d)
		}
		if h.Count[d] == 0 {
			return nil, fmt.Errorf("%w: empty selection in dimension %d", ErrNotHyperslab, d)
		}
	}

	if err := validateHyperslabSelection(h, dims); err != nil {
		return nil, err
	}
	return h, nil
}

// validateHyperslabSelection validates a hyperslab selection against dataset dimensions.
// It checks dimension counts, bounds, and fills in default values for nil Stride/Block.
func validateHyperslabSelection(sel *HyperslabSelection, dims []uint64) error {
	ndims := len(dims)

	if err := validateSelectionDimensions(sel, ndims); err != nil {
		return err
	}

	fillHyperslabDefaults(sel, ndims)

	if err := utils.ValidateHyperslabBounds(sel.Start, sel.Count, sel.Stride, sel.Block, dims); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexOutOfRange, err)
	}
	return nil
}

// validateSelectionDimensions checks that selection arrays match dataset dimensionality.
func validateSelectionDimensions(sel *HyperslabSelection, ndims int) error {
	if len(sel.Start) != ndims {
		return fmt.Errorf("%w: start dimensions (%d) != dataset dimensions (%d)",
			ErrInvalidSelection, len(sel.Start), ndims)
	}
	if len(sel.Count) != ndims {
		return fmt.Errorf("%w: count dimensions (%d) != dataset dimensions (%d)",
			ErrInvalidSelection, len(sel.Count), ndims)
	}
	if sel.Stride != nil && len(sel.Stride) != ndims {
		return fmt.Errorf("%w: stride dimensions (%d) != dataset dimensions (%d)",
			ErrInvalidSelection, len(sel.Stride), ndims)
	}
	if sel.Block != nil && len(sel.Block) != ndims {
		return fmt.Errorf("%w: block dimensions (%d) != dataset dimensions (%d)",
			ErrInvalidSelection, len(sel.Block), ndims)
	}
	return nil
}

// fillHyperslabDefaults fills nil Stride and Block arrays with default values (all 1s).
func fillHyperslabDefaults(sel *HyperslabSelection, ndims int) {
	if sel.Stride == nil {
		sel.Stride = make([]uint64, ndims)
		for i := range sel.Stride {
			sel.Stride[i] = 1
		}
	}
	if sel.Block == nil {
		sel.Block = make([]uint64, ndims)
		for i := range sel.Block {
			sel.Block[i] = 1
		}
	}
}

// VirtualMapping is one entry of a virtual dataset layout: the elements
// SourceSelection of the source dataset appear at TargetSelection of the
// virtual dataset.
type VirtualMapping[S any] struct {
	Source          S
	SourceShape     Shape
	SourceSelection *HyperslabSelection
	TargetSelection *HyperslabSelection
}

// VirtualLayout lists the hyperslab mappings of a plan, in fill order.
//
// HDF5 pairs the elements of two hyperslabs in row-major order. The plan must
// therefore be basic (see WithAdvancedIndexing), and for F-order plans both
// sides of every pair must select the same block shape once single-element
// axes are dropped.
func (p *Plan[S]) VirtualLayout() ([]VirtualMapping[S], error) {
	if !p.Basic() {
		return nil, fmt.Errorf("virtual layout: %w: plan uses advanced indexing", ErrNotHyperslab)
	}

	var mappings []VirtualMapping[S]
	i := 0
	for src, gen := range p.Fill() {
		for in, out := range gen() {
			if n, err := in.Len(p.shapes[i]); err == nil && n == 0 {
				continue
			}
			hin, err := ToHyperslab(in, p.shapes[i])
			if err != nil {
				return nil, fmt.Errorf("virtual layout: source %d input %s: %w", i, in, err)
			}
			hout, err := ToHyperslab(out, p.shape)
			if err != nil {
				return nil, fmt.Errorf("virtual layout: source %d output %s: %w", i, out, err)
			}
			if err := checkRowMajorPairing(hin, hout, p.cfg.order); err != nil {
				return nil, fmt.Errorf("virtual layout: source %d: %w", i, err)
			}
			mappings = append(mappings, VirtualMapping[S]{
				Source:          src,
				SourceShape:     p.shapes[i].Clone(),
				SourceSelection: hin,
				TargetSelection: hout,
			})
		}
		i++
	}
	return mappings, nil
}

// checkRowMajorPairing verifies that pairing both hyperslabs in row-major
// order matches pairing them in o's layout.
func checkRowMajorPairing(in, out *HyperslabSelection, o Order) error {
	nin, err := in.NumElements()
	if err != nil {
		return err
	}
	nout, err := out.NumElements()
	if err != nil {
		return err
	}
	if nin != nout {
		return fmt.Errorf("%w: %d source elements for %d target elements", ErrShapeMismatch, nin, nout)
	}
	if o.IsC() {
		return nil
	}
	a, b := squeeze(in.Count), squeeze(out.Count)
	if len(a) > 1 || len(b) > 1 {
		if len(a) != len(b) {
			return fmt.Errorf("%w: F-order blocks %v and %v pair differently in row-major order",
				ErrNotHyperslab, in.Count, out.Count)
		}
		for j := range a {
			if a[j] != b[j] {
				return fmt.Errorf("%w: F-order blocks %v and %v pair differently in row-major order",
					ErrNotHyperslab, in.Count, out.Count)
			}
		}
	}
	return nil
}

func squeeze(counts []uint64) []uint64 {
	var out []uint64
	for _, c := range counts {
		if c != 1 {
			out = append(out, c)
		}
	}
	return out
}
