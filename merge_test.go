package vdsmerge

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// refMerge stacks or concatenates arrays element by element.
func refMerge(t *testing.T, arrays []*Array[int], axis int, newaxis bool) *Array[int] {
	t.Helper()
	shapes := make([]Shape, len(arrays))
	for i, a := range arrays {
		shapes[i] = a.Shape()
	}
	merged, ax, err := mergedShape(shapes, axis, newaxis)
	require.NoError(t, err)

	out, err := Zeros[int](merged)
	require.NoError(t, err)
	idx, err := OrderC.UnravelRange(merged)
	require.NoError(t, err)
	for p := 0; p < idx.Len(); p++ {
		point := idx.Point(p)
		var src *Array[int]
		var at []int
		if newaxis {
			src = arrays[point[ax]]
			at = append(append([]int{}, point[:ax]...), point[ax+1:]...)
		} else {
			k := point[ax]
			i := 0
			for k >= shapes[i][ax] {
				k -= shapes[i][ax]
				i++
			}
			src = arrays[i]
			at = append([]int{}, point...)
			at[ax] = k
		}
		out.Set(src.At(at...), point...)
	}
	return out
}

// numbered returns n arrays of the given shape holding distinct values.
func numbered(t *testing.T, n int, shape Shape) []*Array[int] {
	t.Helper()
	arrays := make([]*Array[int], n)
	for i := range arrays {
		a, err := Arange(shape)
		require.NoError(t, err)
		for k := range a.Data() {
			a.Data()[k] += 1000 * (i + 1)
		}
		arrays[i] = a
	}
	return arrays
}

func TestMergeStackAndConcat(t *testing.T) {
	tests := []struct {
		name    string
		shapes  []Shape
		axis    int
		newaxis bool
	}{
		{"stack 1-D", []Shape{{4}, {4}, {4}}, 0, true},
		{"stack axis 0", []Shape{{2, 3}, {2, 3}}, 0, true},
		{"stack axis 1", []Shape{{2, 3}, {2, 3}, {2, 3}}, 1, true},
		{"stack last axis", []Shape{{2, 3}, {2, 3}}, -1, true},
		{"stack scalars", []Shape{{}, {}, {}}, 0, true},
		{"concat axis 0", []Shape{{2, 3}, {1, 3}, {3, 3}}, 0, false},
		{"concat axis 1", []Shape{{2, 3}, {2, 1}}, 1, false},
		{"single source", []Shape{{2, 3}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arrays := make([]*Array[int], len(tt.shapes))
			for i, s := range tt.shapes {
				arrays[i] = numbered(t, i+1, s)[i]
			}
			want := refMerge(t, arrays, tt.axis, tt.newaxis)

			plan, err := MergeSources(arrays, WithAxis(tt.axis), WithNewAxis(tt.newaxis))
			require.NoError(t, err)
			require.Equal(t, want.Shape(), plan.Shape())
			require.True(t, plan.Basic())
			require.NoError(t, plan.Validate())

			got, err := Merge(arrays, WithAxis(tt.axis), WithNewAxis(tt.newaxis))
			require.NoError(t, err)
			require.Equal(t, want.Shape(), got.Shape())
			require.Equal(t, want.Data(), got.Data())
		})
	}
}

func TestMergeShapeFillSelections(t *testing.T) {
	shapes := []Shape{{2, 3}, {4, 3}}
	plan, err := MergeGenerator([]string{"a", "b"}, shapes, WithNewAxis(false))
	require.NoError(t, err)

	var got []string
	for src, gen := range plan.Fill() {
		for in, out := range gen() {
			got = append(got, fmt.Sprintf("%s %s -> %s", src, in, out))
		}
	}
	require.Equal(t, []string{
		"a [] -> [0:2:1, :]",
		"b [] -> [2:6:1, :]",
	}, got)

	plan, err = MergeGenerator([]string{"a", "b"}, []Shape{{3}, {3}}, WithAxis(1))
	require.NoError(t, err)
	got = nil
	for src, gen := range plan.Fill() {
		for in, out := range gen() {
			got = append(got, fmt.Sprintf("%s %s -> %s", src, in, out))
		}
	}
	require.Equal(t, []string{
		"a [] -> [:, 0]",
		"b [] -> [:, 1]",
	}, got)
}

type reshapeCase struct {
	name    string
	shapes  []Shape
	axis    int
	newaxis bool
	target  Shape
}

var reshapeCases = []reshapeCase{
	{"detector frames", []Shape{{2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}}, 0, true, Shape{2, 3, 2, 3}},
	{"frames to grid", []Shape{{2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}}, 0, true, Shape{3, 2, 2, 3}},
	{"stack to flat", []Shape{{2, 3}, {2, 3}}, 0, true, Shape{12}},
	{"stack middle axis", []Shape{{2, 3}, {2, 3}, {2, 3}, {2, 3}}, 1, true, Shape{4, 2, 3}},
	{"stack last axis", []Shape{{2, 3}, {2, 3}}, 2, true, Shape{3, 4}},
	{"scalars to grid", []Shape{{}, {}, {}, {}, {}, {}}, 0, true, Shape{2, 3}},
	{"vectors to grid", []Shape{{4}, {4}, {4}, {4}, {4}, {4}}, 0, true, Shape{2, 3, 4}},
	{"concat uneven", []Shape{{2, 3}, {4, 3}}, 0, false, Shape{3, 6}},
	{"concat fast axis", []Shape{{2, 1}, {2, 2}}, 1, false, Shape{6}},
	{"concat to 3-D", []Shape{{2, 2, 2}, {1, 2, 2}, {3, 2, 2}}, 0, false, Shape{3, 4, 2}},
	{"flat sources", []Shape{{6}, {6}}, 0, true, Shape{3, 4}},
	{"same shape", []Shape{{2, 3}, {2, 3}}, 0, true, Shape{2, 2, 3}},
	{"image stacks", []Shape{{6, 2, 3}, {6, 2, 3}}, 0, true, Shape{12, 2, 3}},
	{"image stacks to grid", []Shape{{6, 2, 3}, {6, 2, 3}}, 0, true, Shape{3, 4, 2, 3}},
	{"stack in fast axis", []Shape{{3, 2}, {3, 2}}, 2, true, Shape{6, 2}},
}

func TestMergeReshape(t *testing.T) {
	orders := []Order{
		OrderC,
		OrderF,
		OrderC.WithAllContinuous(),
		OrderF.WithAllContinuous(),
		OrderC.WithContinuousAxes(1),
	}
	for _, tc := range reshapeCases {
		for _, o := range orders {
			for _, advanced := range []bool{true, false} {
				name := fmt.Sprintf("%s/%s/advanced=%v", tc.name, o, advanced)
				t.Run(name, func(t *testing.T) {
					arrays := make([]*Array[int], len(tc.shapes))
					for i, s := range tc.shapes {
						arrays[i] = numbered(t, i+1, s)[i]
					}
					merged := refMerge(t, arrays, tc.axis, tc.newaxis)
					want, err := Reshape(o, merged, tc.target)
					require.NoError(t, err)

					opts := []MergeOption{
						WithAxis(tc.axis),
						WithNewAxis(tc.newaxis),
						WithTargetShape(tc.target),
						WithOrder(o),
						WithAdvancedIndexing(advanced),
					}
					plan, err := MergeSources(arrays, opts...)
					require.NoError(t, err)
					require.Equal(t, tc.target, plan.Shape())
					require.NoError(t, plan.Validate())

					if !advanced {
						require.True(t, plan.Basic())
						for _, gen := range plan.Fill() {
							for in, out := range gen() {
								require.True(t, in.IsBasic(), "input %s", in)
								require.True(t, out.IsBasic(), "output %s", out)
							}
						}
					}

					got, err := Merge(arrays, opts...)
					require.NoError(t, err)
					require.Equal(t, want.Data(), got.Data())
				})
			}
		}
	}
}

func TestMergeReshapeStripsCommonAxes(t *testing.T) {
	shapes := []Shape{{2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}}
	plan, err := MergeGenerator(make([]int, 6), shapes, WithTargetShape(Shape{2, 3, 2, 3}))
	require.NoError(t, err)
	require.False(t, plan.Basic())

	for _, gen := range plan.Fill() {
		for in, out := range gen() {
			require.Len(t, in, 2)
			require.Len(t, out, 4)
			require.Equal(t, Full{}, in[1])
			require.Equal(t, Full{}, out[3])
		}
	}
}

func TestMergeReshapeBasicSelections(t *testing.T) {
	shapes := []Shape{{2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}, {2, 3}}
	plan, err := MergeGenerator([]string{"s0", "s1", "s2", "s3", "s4", "s5"}, shapes,
		WithTargetShape(Shape{2, 3, 2, 3}), WithAdvancedIndexing(false))
	require.NoError(t, err)

	var got []string
	for src, gen := range plan.Fill() {
		for in, out := range gen() {
			got = append(got, fmt.Sprintf("%s %s -> %s", src, in, out))
		}
	}
	require.Equal(t, []string{
		"s0 [0:2:1, :] -> [0, 0, 0:2:1, :]",
		"s1 [0:2:1, :] -> [0, 1, 0:2:1, :]",
		"s2 [0:2:1, :] -> [0, 2, 0:2:1, :]",
		"s3 [0:2:1, :] -> [1, 0, 0:2:1, :]",
		"s4 [0:2:1, :] -> [1, 1, 0:2:1, :]",
		"s5 [0:2:1, :] -> [1, 2, 0:2:1, :]",
	}, got)
}

func TestMergeGeneratorErrors(t *testing.T) {
	_, err := MergeGenerator([]int{1, 2}, []Shape{{2}})
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = MergeGenerator([]int{1, 2}, []Shape{{2}, {3}})
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = MergeGenerator([]int{1, 2}, []Shape{{2}, {2}}, WithTargetShape(Shape{5}))
	require.ErrorIs(t, err, ErrReshapeSizeMismatch)

	_, err = MergeGenerator([]int{1, 2}, []Shape{{2}, {2}}, WithAxis(2))
	require.ErrorIs(t, err, ErrInvalidAxis)

	_, err = MergeGenerator([]int{1}, []Shape{{2}}, WithLogger(nil))
	require.Error(t, err)

	_, err = MergeGenerator([]int{1}, []Shape{{2}}, WithConcurrency(0))
	require.Error(t, err)
}

func TestMergeGeneratorNoSources(t *testing.T) {
	plan, err := MergeGenerator[string](nil, nil)
	require.NoError(t, err)
	require.Nil(t, plan.Shape())
	require.Equal(t, 0, plan.Len())
	require.NoError(t, plan.Validate())
	for range plan.Fill() {
		t.Fatal("empty plan yielded a source")
	}
}

func TestMergeGeneratorLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := MergeGenerator([]int{1, 2}, []Shape{{2, 3}, {2, 3}},
		WithTargetShape(Shape{3, 4}), WithOrder(OrderF), WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "merge plan")
	require.Contains(t, buf.String(), "order=F")
}

func TestPlanAccessors(t *testing.T) {
	shapes := []Shape{{2, 3}, {2, 3}}
	o := OrderC.WithAllContinuous()
	plan, err := MergeGenerator([]string{"a", "b"}, shapes, WithTargetShape(Shape{3, 4}), WithOrder(o))
	require.NoError(t, err)
	require.Equal(t, 2, plan.Len())
	require.Equal(t, Shape{2, 3}, plan.SourceShape(1))
	require.Equal(t, []string{"a", "b"}, plan.Sources())
	require.True(t, plan.Order().Equal(o))

	// Plans are reusable.
	count := func() int {
		n := 0
		for _, gen := range plan.Fill() {
			for range gen() {
				n++
			}
		}
		return n
	}
	require.Equal(t, count(), count())
}
