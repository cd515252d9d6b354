package vdsmerge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// handPlan builds a plan whose sources fill the given output selections.
func handPlan(shape Shape, outs []Selection, srcShape Shape) *Plan[int] {
	shapes := make([]Shape, len(outs))
	sources := make([]int, len(outs))
	for i := range outs {
		shapes[i] = srcShape
		sources[i] = i
	}
	return &Plan[int]{
		shape:   shape,
		sources: sources,
		shapes:  shapes,
		cfg:     defaultMergeConfig(),
		fill: func(yield func(int, IndexGenerator) bool) {
			for i, out := range outs {
				if !yield(i, singlePair(Selection{}, out)) {
					return
				}
			}
		},
	}
}

func TestCoverage(t *testing.T) {
	plan, err := MergeGenerator([]int{0, 1, 2}, []Shape{{2}, {2}, {2}}, WithTargetShape(Shape{3, 2}),
		WithOrder(OrderF.WithAllContinuous()), WithAdvancedIndexing(false))
	require.NoError(t, err)

	bm, err := plan.Coverage()
	require.NoError(t, err)
	require.Equal(t, uint64(6), bm.GetCardinality())
	require.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, bm.ToArray())
	require.NoError(t, plan.Validate())
}

func TestCoverageOverlap(t *testing.T) {
	plan := handPlan(Shape{4}, []Selection{
		{Slice{0, 2, 1}},
		{Slice{1, 3, 1}},
	}, Shape{2})

	_, err := plan.Coverage()
	require.ErrorIs(t, err, ErrOverlappingFill)
	require.ErrorIs(t, plan.Validate(), ErrOverlappingFill)
}

func TestCoverageIncomplete(t *testing.T) {
	plan := handPlan(Shape{4}, []Selection{
		{Slice{0, 2, 1}},
	}, Shape{2})

	bm, err := plan.Coverage()
	require.NoError(t, err)
	require.Equal(t, uint64(2), bm.GetCardinality())
	require.ErrorIs(t, plan.Validate(), ErrIncompleteFill)
}

func TestCoverageCountMismatch(t *testing.T) {
	plan := handPlan(Shape{4}, []Selection{
		{Slice{0, 3, 1}},
	}, Shape{2})

	_, err := plan.Coverage()
	require.ErrorIs(t, err, ErrShapeMismatch)
}
