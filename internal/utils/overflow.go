package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow checks if multiplying two non-negative ints would overflow.
func CheckMultiplyOverflow(a, b int) error {
	if a < 0 || b < 0 {
		return fmt.Errorf("negative operand: %d * %d", a, b)
	}
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxInt/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds int max", a, b)
	}
	return nil
}

// SafeMultiply multiplies two non-negative ints and returns the result if no overflow occurs.
func SafeMultiply(a, b int) (int, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// ShapeSize returns the number of elements of an array with the given extents.
// A rank-0 shape holds one element.
func ShapeSize(dims []int) (int, error) {
	size := 1
	for i, d := range dims {
		if d < 0 {
			return 0, fmt.Errorf("negative extent %d at dimension %d", d, i)
		}
		next, err := SafeMultiply(size, d)
		if err != nil {
			return 0, fmt.Errorf("shape size overflow at dimension %d: %w", i, err)
		}
		size = next
	}
	return size, nil
}

// MaxHyperslabElements limits a single hyperslab selection to 1 billion elements.
const MaxHyperslabElements = 1_000_000_000

// ValidateHyperslabBounds validates hyperslab selection bounds.
// Checks that start + (count-1)*stride + block does not exceed the extents.
func ValidateHyperslabBounds(start, count, stride, block, dims []uint64) error {
	if len(start) != len(dims) || len(count) != len(dims) ||
		len(stride) != len(dims) || len(block) != len(dims) {
		return fmt.Errorf("hyperslab dimension mismatch: start=%d, count=%d, stride=%d, block=%d, dims=%d",
			len(start), len(count), len(stride), len(block), len(dims))
	}

	for i := range start {
		if count[i] == 0 {
			return fmt.Errorf("hyperslab count must be > 0 at dimension %d", i)
		}
		if stride[i] == 0 || block[i] == 0 {
			return fmt.Errorf("hyperslab stride and block must be > 0 at dimension %d", i)
		}
		if count[i] > 1 && stride[i] < block[i] {
			return fmt.Errorf("hyperslab blocks overlap at dimension %d: stride=%d < block=%d",
				i, stride[i], block[i])
		}

		if count[i]-1 > 0 && stride[i] > math.MaxUint64/(count[i]-1) {
			return fmt.Errorf("hyperslab stride overflow at dimension %d", i)
		}
		last := start[i] + (count[i]-1)*stride[i] + block[i]
		if last > dims[i] {
			return fmt.Errorf("hyperslab selection exceeds bounds at dimension %d: start=%d, count=%d, stride=%d, block=%d, dim_size=%d",
				i, start[i], count[i], stride[i], block[i], dims[i])
		}
	}

	return nil
}

// CalculateHyperslabElements calculates total elements in a hyperslab with overflow checking.
// Total elements = product(count[i] * block[i]) for all dimensions.
func CalculateHyperslabElements(count, block []uint64) (uint64, error) {
	if len(count) != len(block) {
		return 0, fmt.Errorf("hyperslab count/block mismatch: %d != %d", len(count), len(block))
	}

	total := uint64(1)
	for i := range count {
		n := count[i] * block[i]
		if block[i] != 0 && n/block[i] != count[i] {
			return 0, fmt.Errorf("hyperslab element overflow at dimension %d", i)
		}
		if n != 0 && total > math.MaxUint64/n {
			return 0, fmt.Errorf("hyperslab element overflow at dimension %d", i)
		}
		total *= n
	}

	if total > MaxHyperslabElements {
		return 0, fmt.Errorf("hyperslab selection: size %d exceeds maximum %d", total, uint64(MaxHyperslabElements))
	}

	return total, nil
}
