package vdsmerge

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(coords MultiIndex, opts CompressOptions) []Selection {
	return slices.Collect(CompressIndices(coords, opts))
}

// expandAll concatenates the points of all runs.
func expandAll(t *testing.T, ndim int, runs []Selection) MultiIndex {
	t.Helper()
	out := NewMultiIndex(ndim, 0)
	for _, run := range runs {
		idx, err := ExpandRun(run)
		require.NoError(t, err, "run %s", run)
		for d := range out {
			out[d] = append(out[d], idx[d]...)
		}
	}
	return out
}

func TestCompressIndices(t *testing.T) {
	tests := []struct {
		name   string
		coords MultiIndex
		opts   CompressOptions
		want   []Selection
	}{
		{
			name:   "single run",
			coords: MultiIndex{{0, 1, 2, 3}},
			want:   []Selection{{Slice{0, 4, 1}}},
		},
		{
			name:   "two runs",
			coords: MultiIndex{{0, 1, 2, 5, 6, 7}},
			want:   []Selection{{Slice{0, 3, 1}}, {Slice{5, 8, 1}}},
		},
		{
			name:   "single point",
			coords: MultiIndex{{4}, {2}},
			want:   []Selection{{Index(4), Index(2)}},
		},
		{
			name:   "pair as slice",
			coords: MultiIndex{{0, 2}},
			want:   []Selection{{Slice{0, 4, 2}}},
		},
		{
			name:   "pair split",
			coords: MultiIndex{{0, 2}},
			opts:   CompressOptions{SplitPairs: true},
			want:   []Selection{{Index(0)}, {Index(2)}},
		},
		{
			name:   "equal pair split",
			coords: MultiIndex{{3, 3}},
			opts:   CompressOptions{SplitPairs: true},
			want:   []Selection{{Index(3)}},
		},
		{
			name:   "decreasing without negative stride",
			coords: MultiIndex{{3, 2, 1}},
			want:   []Selection{{Index(3)}, {Index(2)}, {Index(1)}},
		},
		{
			name:   "decreasing with negative stride",
			coords: MultiIndex{{3, 2, 1}},
			opts:   CompressOptions{AllowNegativeStride: true},
			want:   []Selection{{Slice{3, 0, -1}}},
		},
		{
			name:   "diagonal",
			coords: MultiIndex{{0, 1, 2}, {0, 1, 2}},
			want:   []Selection{{Slice{0, 3, 1}, Slice{0, 3, 1}}},
		},
		{
			name:   "diagonal in one group",
			coords: MultiIndex{{0, 1, 2}, {0, 1, 2}},
			opts:   CompressOptions{Groups: []int{2}},
			want:   []Selection{{Index(0), Index(0)}, {Index(1), Index(1)}, {Index(2), Index(2)}},
		},
		{
			name:   "diagonal across groups",
			coords: MultiIndex{{0, 1, 2}, {0, 1, 2}},
			opts:   CompressOptions{Groups: []int{1, 1}},
			want:   []Selection{{Slice{0, 3, 1}, Slice{0, 3, 1}}},
		},
		{
			name:   "rows",
			coords: MultiIndex{{0, 0, 0, 1, 1, 1}, {0, 1, 2, 0, 1, 2}},
			want: []Selection{
				{Index(0), Slice{0, 3, 1}},
				{Index(1), Slice{0, 3, 1}},
			},
		},
		{
			name:   "empty",
			coords: MultiIndex{{}},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(tt.coords, tt.opts)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCompressIndicesWithFlatRange(t *testing.T) {
	coords, err := OrderC.WithAllContinuous().UnravelRange(Shape{2, 3})
	require.NoError(t, err)

	type pair struct{ flat, coords Selection }
	var got []pair
	for f, c := range CompressIndicesWithFlatRange(arange(6), coords, CompressOptions{}) {
		got = append(got, pair{f, c})
	}
	require.Equal(t, []pair{
		{Selection{Slice{0, 3, 1}}, Selection{Index(0), Slice{0, 3, 1}}},
		{Selection{Index(3)}, Selection{Index(1), Index(2)}},
		{Selection{Index(4)}, Selection{Index(1), Index(1)}},
		{Selection{Index(5)}, Selection{Index(1), Index(0)}},
	}, got)

	got = nil
	for f, c := range CompressIndicesWithFlatRange(arange(6), coords, CompressOptions{AllowNegativeStride: true}) {
		got = append(got, pair{f, c})
	}
	require.Equal(t, []pair{
		{Selection{Slice{0, 3, 1}}, Selection{Index(0), Slice{0, 3, 1}}},
		{Selection{Slice{3, 6, 1}}, Selection{Index(1), Slice{2, -1, -1}}},
	}, got)
}

func TestCompressIndicesWithFlatRangeGaps(t *testing.T) {
	// The flat side must follow its own gaps instead of assuming 0..n-1.
	flat := []int{0, 1, 2, 10, 11, 12}
	coords := MultiIndex{{0, 1, 2, 3, 4, 5}}
	var flats, outs []Selection
	for f, c := range CompressIndicesWithFlatRange(flat, coords, CompressOptions{}) {
		flats = append(flats, f)
		outs = append(outs, c)
	}
	require.Equal(t, flat, expandAll(t, 1, flats)[0])
	require.Equal(t, coords, expandAll(t, 1, outs))
}

func TestCompressIndicesReproducesInput(t *testing.T) {
	options := []CompressOptions{
		{},
		{SplitPairs: true},
		{AllowNegativeStride: true},
		{SplitPairs: true, AllowNegativeStride: true},
	}
	for _, o := range testOrders() {
		for _, shape := range testShapes {
			coords, err := o.UnravelRange(shape)
			require.NoError(t, err)
			for _, opts := range options {
				name := fmt.Sprintf("%s/%v/%+v", o, shape, opts)
				runs := collect(coords, opts)
				require.Equal(t, coords, expandAll(t, len(shape), runs), name)
				require.LessOrEqual(t, len(runs), shape.Size(), name)

				grouped := opts
				grouped.Groups = []int{len(shape)}
				runs = collect(coords, grouped)
				require.Equal(t, coords, expandAll(t, len(shape), runs), name)
				for _, run := range runs {
					varying := 0
					for _, s := range run {
						if _, ok := s.(Slice); ok {
							varying++
						}
					}
					require.LessOrEqual(t, varying, 1, "%s: run %s", name, run)
				}
			}
		}
	}
}

func TestCompressIndicesStops(t *testing.T) {
	coords := MultiIndex{{0, 5, 1, 7, 3}}
	n := 0
	for range CompressIndices(coords, CompressOptions{}) {
		n++
		break
	}
	require.Equal(t, 1, n)
}
