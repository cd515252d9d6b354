// Copyright (c) 2025 SciGo HDF5 Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vdsmerge

import (
	"fmt"
	"iter"
	"slices"

	"github.com/scigolib/vdsmerge/internal/utils"
)

// IndexGenerator produces the (input, output) selection pairs of one source.
// Every call starts a fresh sequence.
type IndexGenerator func() iter.Seq2[Selection, Selection]

// Plan describes how sources are merged into one array: for every source it
// yields the output regions the source fills. Applying
//
//	output[out] = source[in]
//
// for every pair reconstructs the stacked or concatenated sources, reshaped to
// Shape in the plan's Order. Selected elements are paired in the traversal
// order of that Order's layout.
type Plan[S any] struct {
	shape   Shape
	sources []S
	shapes  []Shape
	cfg     mergeConfig
	fill    func(yield func(S, IndexGenerator) bool)
}

// Shape returns the output shape (nil when there are no sources).
func (p *Plan[S]) Shape() Shape {
	return p.shape.Clone()
}

// Order returns the order used for reshaping and element pairing.
func (p *Plan[S]) Order() Order {
	return p.cfg.order.Copy()
}

// Len returns the number of sources.
func (p *Plan[S]) Len() int {
	return len(p.sources)
}

// Sources returns the source handles in fill order.
func (p *Plan[S]) Sources() []S {
	return slices.Clone(p.sources)
}

// SourceShape returns the shape of source i.
func (p *Plan[S]) SourceShape(i int) Shape {
	return p.shapes[i].Clone()
}

// Basic reports whether every selection of the plan avoids advanced indexing.
func (p *Plan[S]) Basic() bool {
	return p.cfg.target == nil || !p.cfg.advanced
}

// Fill returns the lazy (source, index generator) sequence in source order.
// It can be ranged over any number of times.
func (p *Plan[S]) Fill() iter.Seq2[S, IndexGenerator] {
	return func(yield func(S, IndexGenerator) bool) {
		if p.fill != nil {
			p.fill(yield)
		}
	}
}

// MergeGenerator plans the equivalent of stacking (or concatenating) the
// sources along an axis followed by an optional reshape. Sources are opaque;
// only their shapes are inspected. All validation happens here, before any
// sequence is produced.
func MergeGenerator[S any](sources []S, shapes []Shape, opts ...MergeOption) (*Plan[S], error) {
	cfg := defaultMergeConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, utils.WrapError("merge option", err)
		}
	}
	if len(sources) != len(shapes) {
		return nil, utils.WrapError("merge generator",
			fmt.Errorf("%w: %d sources with %d shapes", ErrShapeMismatch, len(sources), len(shapes)))
	}

	merged, axis, err := mergedShape(shapes, cfg.axis, cfg.newaxis)
	if err != nil {
		return nil, utils.WrapError("merged shape", err)
	}
	plan := &Plan[S]{
		sources: sources,
		shapes:  make([]Shape, len(shapes)),
		cfg:     cfg,
	}
	for i, s := range shapes {
		plan.shapes[i] = s.Clone()
	}
	if merged == nil {
		return plan, nil
	}

	size, err := merged.SizeChecked()
	if err != nil {
		return nil, utils.WrapError("merged shape", err)
	}

	mode := "concat"
	if cfg.newaxis {
		mode = "stack"
	}

	if cfg.target == nil || cfg.target.Equal(merged) {
		cfg.logger.Debug("merge plan",
			"shapes", shapes,
			"mode", mode,
			"merged", merged,
		)
		plan.shape = merged
		plan.cfg.target = nil
		plan.fill = shapeFill(sources, plan.shapes, merged, axis, cfg.newaxis)
		return plan, nil
	}

	tsize, err := cfg.target.SizeChecked()
	if err != nil {
		return nil, utils.WrapError("target shape", err)
	}
	if tsize != size {
		return nil, utils.WrapError("merge generator",
			fmt.Errorf("%w: cannot reshape %v (%d elements) into %v (%d elements)",
				ErrReshapeSizeMismatch, merged, size, cfg.target, tsize))
	}

	cfg.logger.Debug("merge plan",
		"shapes", shapes,
		"mode", mode,
		"merged", merged,
		"order", cfg.order.String(),
		"target", cfg.target,
		"advanced", cfg.advanced,
	)
	plan.shape = cfg.target.Clone()
	plan.fill = reshapeFill(sources, plan.shapes, merged, plan.shape, axis, cfg)
	return plan, nil
}

// MergeSources is MergeGenerator for sources that know their own shape.
func MergeSources[S Shaped](sources []S, opts ...MergeOption) (*Plan[S], error) {
	shapes := make([]Shape, len(sources))
	for i, s := range sources {
		shapes[i] = s.Shape()
	}
	return MergeGenerator(sources, shapes, opts...)
}

// shapeFill places every source in one contiguous slab of the merged array.
func shapeFill[S any](sources []S, shapes []Shape, merged Shape, axis int, newaxis bool) func(yield func(S, IndexGenerator) bool) {
	return func(yield func(S, IndexGenerator) bool) {
		if len(sources) == 1 {
			yield(sources[0], singlePair(Selection{}, Selection{}))
			return
		}
		offset := 0
		for i, src := range sources {
			out := make(Selection, len(merged))
			for d := range out {
				out[d] = Full{}
			}
			if newaxis {
				out[axis] = Index(i)
			} else {
				n := shapes[i][axis]
				out[axis] = Slice{Start: offset, Stop: offset + n, Step: 1}
				offset += n
			}
			if !yield(src, singlePair(Selection{}, out)) {
				return
			}
		}
	}
}

func singlePair(in, out Selection) IndexGenerator {
	return func() iter.Seq2[Selection, Selection] {
		return func(yield func(Selection, Selection) bool) {
			yield(in, out)
		}
	}
}

func noPairs() iter.Seq2[Selection, Selection] {
	return func(func(Selection, Selection) bool) {}
}
