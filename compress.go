package vdsmerge

import "iter"

// CompressOptions controls how coordinate runs are turned into slices.
type CompressOptions struct {
	// SplitPairs emits a run of exactly two points as two single points
	// instead of one two-element slice. A second point equal to the first is
	// dropped.
	SplitPairs bool

	// AllowNegativeStride lets runs with decreasing coordinates become
	// negative-step slices. Otherwise such runs are emitted point by point.
	AllowNegativeStride bool

	// Groups partitions the dimensions into consecutive groups (by size). A run
	// may vary in at most one dimension of each group, so every group of a
	// yielded selection is usable with basic (hyperslab) indexing. Nil places
	// no restriction.
	Groups []int
}

// CompressIndices turns a coordinate stream (one slice per dimension, already
// in the desired order) into as few selections as possible. Each selection is
// a run whose Slice selectors advance together (see ExpandRun); expanding all
// runs in order reproduces the stream.
func CompressIndices(coords MultiIndex, opts CompressOptions) iter.Seq[Selection] {
	return func(yield func(Selection) bool) {
		c := compressor{coords: coords, opts: opts, n: coords.Len()}
		if len(coords) == 0 || c.n == 0 {
			return
		}
		c.run(yield)
	}
}

// CompressIndicesWithFlatRange compresses coords like CompressIndices and pairs
// every run with the matching part of flat, a per-point flat index (typically
// 0..n-1). The flat side is yielded first as a one-dimensional selection and
// always advances with a constant step inside a run. Two-element slices are
// always allowed.
func CompressIndicesWithFlatRange(flat []int, coords MultiIndex, opts CompressOptions) iter.Seq2[Selection, Selection] {
	return func(yield func(Selection, Selection) bool) {
		joined := make(MultiIndex, 0, len(coords)+1)
		joined = append(joined, flat)
		joined = append(joined, coords...)

		if opts.Groups != nil {
			opts.Groups = append([]int{1}, opts.Groups...)
		}
		opts.SplitPairs = false

		for sel := range CompressIndices(joined, opts) {
			if !yield(sel[:1], sel[1:]) {
				return
			}
		}
	}
}

type compressor struct {
	coords MultiIndex
	opts   CompressOptions
	n      int
}

func (c *compressor) stride(gap, d int) int {
	return c.coords[d][gap+1] - c.coords[d][gap]
}

func (c *compressor) sameStride(a, b int) bool {
	for d := range c.coords {
		if c.stride(a, d) != c.stride(b, d) {
			return false
		}
	}
	return true
}

// sliceable reports whether the step after point gap can be part of a slice.
func (c *compressor) sliceable(gap int) bool {
	if !c.opts.AllowNegativeStride {
		for d := range c.coords {
			if c.stride(gap, d) < 0 {
				return false
			}
		}
	}
	if c.opts.Groups != nil {
		d := 0
		for _, size := range c.opts.Groups {
			varying := 0
			for end := d + size; d < end && d < len(c.coords); d++ {
				if c.stride(gap, d) != 0 {
					varying++
				}
			}
			if varying > 1 {
				return false
			}
		}
	}
	return true
}

// closes reports whether a run ending at point end cannot continue to end+1.
func (c *compressor) closes(end int) bool {
	return !c.sameStride(end-1, end) || !c.sliceable(end)
}

func (c *compressor) run(yield func(Selection) bool) bool {
	start := 0
	skip := false
	for end := 1; end <= c.n-2; end++ {
		if skip {
			skip = false
			continue
		}
		if !c.closes(end) {
			continue
		}
		if start+1 == end && c.opts.SplitPairs {
			if !yield(c.point(start)) {
				return false
			}
			start = end
			continue
		}
		if !c.slice(start, end, yield) {
			return false
		}
		start = end + 1
		skip = true
	}

	end := c.n - 1
	switch {
	case start == end:
		return yield(c.point(start))
	case start+1 == end && c.opts.SplitPairs:
		a, b := c.point(start), c.point(end)
		if !yield(a) {
			return false
		}
		if !equalPoints(a, b) {
			return yield(b)
		}
		return true
	default:
		return c.slice(start, end, yield)
	}
}

// slice emits the run start..end (inclusive) with the stride of its first step.
func (c *compressor) slice(start, end int, yield func(Selection) bool) bool {
	if !c.sliceable(start) {
		allZero := true
		for d := range c.coords {
			if c.stride(start, d) != 0 {
				allZero = false
			}
		}
		if allZero {
			return yield(c.point(start))
		}
		for p := start; p <= end; p++ {
			if !yield(c.point(p)) {
				return false
			}
		}
		return true
	}

	sel := make(Selection, len(c.coords))
	for d := range c.coords {
		sel[d] = makeSelector(c.coords[d][start], c.coords[d][end], c.stride(start, d))
	}
	return yield(sel)
}

func (c *compressor) point(p int) Selection {
	sel := make(Selection, len(c.coords))
	for d := range c.coords {
		sel[d] = Index(c.coords[d][p])
	}
	return sel
}

// makeSelector returns a slice from start to end (inclusive), or the index
// itself when the stride is zero.
func makeSelector(start, end, stride int) Selector {
	if stride == 0 {
		return Index(start)
	}
	return Slice{Start: start, Stop: end + stride, Step: stride}
}

func equalPoints(a, b Selection) bool {
	for d := range a {
		if a[d] != b[d] {
			return false
		}
	}
	return true
}
