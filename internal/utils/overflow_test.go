package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckMultiplyOverflow(t *testing.T) {
	tests := []struct {
		name    string
		a       int
		b       int
		wantErr bool
	}{
		{"small numbers", 10, 20, false},
		{"one zero", 0, math.MaxInt, false},
		{"exact max", math.MaxInt, 1, false},
		{"max times two", math.MaxInt, 2, true},
		{"large numbers", math.MaxInt / 2, 3, true},
		{"negative operand", -1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMultiplyOverflow(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestShapeSize(t *testing.T) {
	tests := []struct {
		name    string
		dims    []int
		want    int
		wantErr bool
	}{
		{"rank zero", nil, 1, false},
		{"vector", []int{7}, 7, false},
		{"matrix", []int{2, 3}, 6, false},
		{"zero extent", []int{4, 0, 2}, 0, false},
		{"negative extent", []int{2, -1}, 0, true},
		{"overflow", []int{math.MaxInt / 2, 3}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShapeSize(tt.dims)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidateHyperslabBounds(t *testing.T) {
	ones := []uint64{1, 1}
	tests := []struct {
		name    string
		start   []uint64
		count   []uint64
		stride  []uint64
		block   []uint64
		dims    []uint64
		wantErr bool
	}{
		{"full", []uint64{0, 0}, []uint64{4, 5}, ones, ones, []uint64{4, 5}, false},
		{"strided", []uint64{1, 0}, []uint64{2, 5}, []uint64{2, 1}, ones, []uint64{4, 5}, false},
		{"out of bounds", []uint64{1, 0}, []uint64{4, 5}, ones, ones, []uint64{4, 5}, true},
		{"zero count", []uint64{0, 0}, []uint64{0, 5}, ones, ones, []uint64{4, 5}, true},
		{"rank mismatch", []uint64{0}, []uint64{4, 5}, ones, ones, []uint64{4, 5}, true},
		{"overlapping blocks", []uint64{0, 0}, []uint64{2, 1}, ones, []uint64{2, 1}, []uint64{4, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHyperslabBounds(tt.start, tt.count, tt.stride, tt.block, tt.dims)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCalculateHyperslabElements(t *testing.T) {
	n, err := CalculateHyperslabElements([]uint64{3, 4}, []uint64{1, 2})
	require.NoError(t, err)
	require.Equal(t, uint64(24), n)

	_, err = CalculateHyperslabElements([]uint64{MaxHyperslabElements, 2}, []uint64{1, 1})
	require.Error(t, err)

	_, err = CalculateHyperslabElements([]uint64{3}, []uint64{1, 1})
	require.Error(t, err)
}
