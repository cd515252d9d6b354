package vdsmerge

import (
	"iter"
	"slices"

	"github.com/scigolib/vdsmerge/internal/ndindex"
)

// reshapeFill maps every source element to its place in the merged array
// reshaped to target. Trailing (C) or leading (F) axes that are common to the
// source, merged and target shapes are selected whole instead of being
// enumerated, which keeps detector-image axes out of the index lists.
func reshapeFill[S any](sources []S, shapes []Shape, merged, target Shape, axis int, cfg mergeConfig) func(yield func(S, IndexGenerator) bool) {
	return func(yield func(S, IndexGenerator) bool) {
		offset := 0
		for i, src := range sources {
			shapein := shapes[i]

			ranout := make([][]int, len(merged))
			for d, n := range merged {
				ranout[d] = arange(n)
			}
			if cfg.newaxis {
				ranout[axis] = []int{i}
			} else {
				n := shapein[axis]
				ranout[axis] = ranout[axis][offset : offset+n]
				offset += n
			}

			gen, err := sourceIndices(shapein, merged, target, ranout, axis, cfg)
			if err != nil {
				// Shapes were validated when the plan was built.
				panic("vdsmerge: " + err.Error())
			}
			if !yield(src, gen) {
				return
			}
		}
	}
}

// sourceIndices builds the index generator of one source whose elements land
// on the merged coordinates ranout.
func sourceIndices(shapein, merged, target Shape, ranout [][]int, axis int, cfg mergeConfig) (IndexGenerator, error) {
	order := cfg.order
	if shapein.Size() == 0 {
		return noPairs, nil
	}

	var nskipin, nskipout, nskipnew int
	if !order.HasContinuousAxes() {
		nskipin, nskipout, nskipnew = countCommonFastAxes(shapein, merged, target, order.IsF())
		if blockContains(len(merged), nskipout, axis, order.IsF()) {
			nskipin, nskipout, nskipnew = 0, 0, 0
		}
	}

	inShape := stripFast(shapein, nskipin, order.IsF())
	outRanges := stripFast(ranout, nskipout, order.IsF())
	mergedShape := stripFast(merged, nskipout, order.IsF())
	newShape := stripFast(target, nskipnew, order.IsF())

	coordin := enumerate(inShape, nil, order.lay())
	mcoords := enumerate(mergedShape, outRanges, order.lay())
	flat, err := order.Ravel(mcoords, mergedShape)
	if err != nil {
		return nil, err
	}
	coordout, err := order.Unravel(flat, newShape)
	if err != nil {
		return nil, err
	}

	fin := fullIndexer(nskipin, order.IsF())
	fout := fullIndexer(nskipnew, order.IsF())
	npoints := len(flat)

	switch {
	case cfg.advanced:
		in := make(Selection, len(coordin))
		for d, c := range coordin {
			in[d] = IndexArray(c)
		}
		out := make(Selection, len(coordout))
		for d, c := range coordout {
			out[d] = IndexArray(c)
		}
		return singlePair(fin(in), fout(out)), nil

	case npoints == 1:
		return singlePair(fin(pointSelection(coordin, 0)), fout(pointSelection(coordout, 0))), nil

	case len(coordin) == 1:
		return func() iter.Seq2[Selection, Selection] {
			return func(yield func(Selection, Selection) bool) {
				opts := CompressOptions{Groups: []int{len(coordout)}}
				for in, out := range CompressIndicesWithFlatRange(coordin[0], coordout, opts) {
					if !yield(fin(in), fout(out)) {
						return
					}
				}
			}
		}, nil

	case len(coordout) == 1:
		return func() iter.Seq2[Selection, Selection] {
			return func(yield func(Selection, Selection) bool) {
				opts := CompressOptions{Groups: []int{len(coordin)}}
				for out, in := range CompressIndicesWithFlatRange(coordout[0], coordin, opts) {
					if !yield(fin(in), fout(out)) {
						return
					}
				}
			}
		}, nil

	default:
		nin := len(coordin)
		joined := make(MultiIndex, 0, nin+len(coordout))
		joined = append(joined, coordin...)
		joined = append(joined, coordout...)
		return func() iter.Seq2[Selection, Selection] {
			return func(yield func(Selection, Selection) bool) {
				opts := CompressOptions{SplitPairs: true, Groups: []int{nin, len(coordout)}}
				for sel := range CompressIndices(joined, opts) {
					if !yield(fin(sel[:nin]), fout(sel[nin:])) {
						return
					}
				}
			}
		}, nil
	}
}

// countCommonFastAxes returns how many fast axes of the source, merged and
// target shapes span the same number of elements, so that they can be
// selected whole on both sides.
func countCommonFastAxes(shapein, shapeout, newshape Shape, forder bool) (nin, nout, nnew int) {
	cumin := fastCumprod(shapein, forder)
	cumout := fastCumprod(shapeout, forder)
	cumnew := fastCumprod(newshape, forder)

	n := min(len(cumin), len(cumout), len(cumnew))
	last := -1
	for j := 0; j < n; j++ {
		if cumin[j] == cumout[j] && cumin[j] == cumnew[j] {
			last = j
		}
	}
	if last < 0 {
		return 0, 0, 0
	}
	m := cumin[last]
	return lastIndex(cumin, m) + 1, lastIndex(cumout, m) + 1, lastIndex(cumnew, m) + 1
}

// fastCumprod returns the running element counts from the fast axis inwards,
// leaving out the slowest axis.
func fastCumprod(shape Shape, forder bool) []int {
	if len(shape) <= 1 {
		return nil
	}
	dims := slices.Clone(shape)
	if !forder {
		slices.Reverse(dims)
	}
	cum := make([]int, len(dims)-1)
	p := 1
	for j := range cum {
		p *= dims[j]
		cum[j] = p
	}
	return cum
}

func lastIndex(values []int, v int) int {
	for j := len(values) - 1; j >= 0; j-- {
		if values[j] == v {
			return j
		}
	}
	return -1
}

// blockContains reports whether the nfast fast axes of an ndim shape include axis.
func blockContains(ndim, nfast, axis int, forder bool) bool {
	if nfast == 0 {
		return false
	}
	if forder {
		return axis < nfast
	}
	return axis >= ndim-nfast
}

// stripFast drops the n fast axes (leading for F, trailing for C).
func stripFast[E any](s []E, n int, forder bool) []E {
	if n == 0 {
		return s
	}
	if forder {
		return s[n:]
	}
	return s[:len(s)-n]
}

// fullIndexer adds n whole-axis selectors on the fast side of a selection.
func fullIndexer(n int, forder bool) func(Selection) Selection {
	return func(sel Selection) Selection {
		if n == 0 {
			return sel
		}
		out := make(Selection, 0, len(sel)+n)
		if !forder {
			out = append(out, sel...)
		}
		for j := 0; j < n; j++ {
			out = append(out, Full{})
		}
		if forder {
			out = append(out, sel...)
		}
		return out
	}
}

// enumerate lists the points of the product of ranges (or of the whole shape
// when ranges is nil) in the traversal order of layout.
func enumerate(shape Shape, ranges [][]int, layout ndindex.Layout) MultiIndex {
	extents := make([]int, len(shape))
	for d := range shape {
		extents[d] = shape[d]
		if ranges != nil {
			extents[d] = len(ranges[d])
		}
	}
	n := ndindex.Size(extents)
	idx := NewMultiIndex(len(shape), n)
	if n == 0 {
		return idx
	}
	point := make([]int, len(shape))
	for p := 0; p < n; p++ {
		for d, j := range point {
			if ranges != nil {
				idx[d][p] = ranges[d][j]
			} else {
				idx[d][p] = j
			}
		}
		ndindex.Next(point, extents, layout)
	}
	return idx
}

func pointSelection(idx MultiIndex, p int) Selection {
	sel := make(Selection, len(idx))
	for d := range idx {
		sel[d] = Index(idx[d][p])
	}
	return sel
}
