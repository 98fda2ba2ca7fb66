package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// NormalizeAxis resolves a possibly negative axis against the shape rank.
// Panics if the axis is out of range.
func (s Shape) NormalizeAxis(axis int) int {
	n := len(s)
	if axis < 0 {
		axis += n
	}
	if axis < 0 || axis >= n {
		panic(fmt.Sprintf("axis %d out of range for shape %v", axis, s))
	}
	return axis
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(4, 1, 1) + (2, 4, 8, 8) → (2, 4, 8, 8), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := false

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	if len(a) != len(b) {
		needsBroadcast = true
	}

	return result, needsBroadcast, nil
}

// Range is a half-open index window [Start, Stop) along one axis.
type Range struct {
	Start int
	Stop  int
}

// FullRange returns the range covering an axis of the given size.
func FullRange(size int) Range {
	return Range{Start: 0, Stop: size}
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.Stop - r.Start
}

// String formats the range like a slice expression.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.Stop)
}

// WindowShape returns the shape selected by ranges, validating them against s.
// Axes beyond len(ranges) are kept whole.
func (s Shape) WindowShape(ranges []Range) (Shape, error) {
	if len(ranges) > len(s) {
		return nil, fmt.Errorf("%d ranges for shape %v", len(ranges), s)
	}
	out := s.Clone()
	for i, r := range ranges {
		if r.Start < 0 || r.Stop > s[i] || r.Start >= r.Stop {
			return nil, fmt.Errorf("range %v out of bounds for axis %d of shape %v", r, i, s)
		}
		out[i] = r.Len()
	}
	return out, nil
}
