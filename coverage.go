package vdsmerge

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/scigolib/vdsmerge/internal/utils"
)

// Coverage returns the row-major flat indices of all output elements the plan
// writes. It fails with ErrOverlappingFill when an element is written twice.
func (p *Plan[S]) Coverage() (*roaring.Bitmap, error) {
	bm := roaring.New()
	if p.shape == nil {
		return bm, nil
	}
	if size := p.shape.Size(); uint64(size) > math.MaxUint32 {
		return nil, fmt.Errorf("coverage: %d elements exceed the 32-bit bitmap range", size)
	}

	i := 0
	for _, gen := range p.Fill() {
		for in, out := range gen() {
			rin, err := resolveSelection(in, p.shapes[i])
			if err != nil {
				return nil, fmt.Errorf("coverage: source %d: %w", i, err)
			}
			rout, err := resolveSelection(out, p.shape)
			if err != nil {
				return nil, fmt.Errorf("coverage: source %d: %w", i, err)
			}
			if rin.count() != rout.count() {
				return nil, fmt.Errorf("coverage: source %d: %w: %s selects %d elements, %s selects %d",
					i, ErrShapeMismatch, in, rin.count(), out, rout.count())
			}
			offs := rout.offsets(p.cfg.order.lay(), utils.GetIndexBuffer(rout.count()))
			for _, off := range offs {
				if !bm.CheckedAdd(uint32(off)) {
					utils.ReleaseIndexBuffer(offs)
					return nil, fmt.Errorf("coverage: source %d: %w at flat index %d", i, ErrOverlappingFill, off)
				}
			}
			utils.ReleaseIndexBuffer(offs)
		}
		i++
	}
	return bm, nil
}

// Validate checks that the plan writes every output element exactly once.
func (p *Plan[S]) Validate() error {
	bm, err := p.Coverage()
	if err != nil {
		return err
	}
	if p.shape == nil {
		return nil
	}
	if got, want := bm.GetCardinality(), uint64(p.shape.Size()); got != want {
		return fmt.Errorf("%w: %d of %d elements written", ErrIncompleteFill, got, want)
	}
	return nil
}
