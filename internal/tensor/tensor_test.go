package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Complex32, 4},
		{Complex64, 8},
		{Complex128, 16},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeComplexPairs(t *testing.T) {
	assert.Equal(t, Complex64, Float32.ComplexOf())
	assert.Equal(t, Complex128, Float64.ComplexOf())
	assert.Equal(t, Complex32, Complex32.ComplexOf())

	assert.Equal(t, Float32, Complex64.RealOf())
	assert.Equal(t, Float32, Complex32.RealOf())
	assert.Equal(t, Float64, Complex128.RealOf())

	assert.True(t, Complex32.IsComplex())
	assert.False(t, Float64.IsComplex())
}

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 2*3*16*9, Shape{2, 3, 16, 9}.NumElements())
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1}.Validate())
}

func TestShapeComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestShapeNormalizeAxis(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 2, s.NormalizeAxis(-1))
	assert.Equal(t, 0, s.NormalizeAxis(-3))
	assert.Equal(t, 1, s.NormalizeAxis(1))
	assert.Panics(t, func() { s.NormalizeAxis(3) })
	assert.Panics(t, func() { s.NormalizeAxis(-4) })
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"same", Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{"bias", Shape{2, 4, 8, 8}, Shape{4, 1, 1}, Shape{2, 4, 8, 8}, true, false},
		{"scalar-like", Shape{1}, Shape{3, 2}, Shape{3, 2}, true, false},
		{"incompatible", Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bc, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assertEqualShape(t, tt.want, got, "broadcast shape")
			assert.Equal(t, tt.broadcast, bc)
		})
	}
}

func TestWindowShape(t *testing.T) {
	s := Shape{2, 3, 16, 9}

	w, err := s.WindowShape([]Range{FullRange(2), FullRange(3), {Start: 4, Stop: 12}, {Start: 0, Stop: 5}})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 8, 5}, w)

	w, err = s.WindowShape([]Range{{Start: 1, Stop: 2}})
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 3, 16, 9}, w, "unlisted axes stay whole")

	_, err = s.WindowShape([]Range{FullRange(2), FullRange(3), {Start: 4, Stop: 17}})
	assert.Error(t, err)
	_, err = s.WindowShape([]Range{{Start: 1, Stop: 1}})
	assert.Error(t, err, "empty range")
}

func TestRange(t *testing.T) {
	r := Range{Start: 3, Stop: 7}
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "3:7", r.String())
	assert.Equal(t, Range{Start: 0, Stop: 5}, FullRange(5))
}

// RawTensor Tests

func TestRawTensorReshapeSharesData(t *testing.T) {
	r := MustNewRaw(Shape{2, 3}, Float32, CPU)
	v, err := r.Reshape(Shape{3, 2})
	require.NoError(t, err)

	v.AsFloat32()[5] = 9
	assertEqualFloat32(t, 9, r.AsFloat32()[5], "reshape view")

	_, err = r.Reshape(Shape{4})
	assert.Error(t, err)
}

func TestRawTensorCloneIsDeep(t *testing.T) {
	r := MustNewRaw(Shape{2}, Complex64, CPU)
	c := r.Clone()
	c.AsComplex64()[0] = 1i
	assert.Equal(t, complex64(0), r.AsComplex64()[0])
}

func TestRawTensorWrongViewPanics(t *testing.T) {
	r := MustNewRaw(Shape{2}, Complex64, CPU)
	assert.Panics(t, func() { r.AsFloat32() })
	assert.Panics(t, func() { r.AsComplex32() })
}

func TestRawTensorComplexAt(t *testing.T) {
	r := MustNewRaw(Shape{2}, Complex32, CPU)
	r.AsComplex32()[1] = NewHalf32(0.5 - 2i)
	assert.Equal(t, complex128(0.5-2i), r.ComplexAt(1))
}

// Tensor Tests

func TestFromSliceAndAt(t *testing.T) {
	backend := NewMockBackend()

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	require.NoError(t, err)

	assertEqualFloat32(t, 6, x.At(1, 2), "At(1, 2)")
	x.Set(-1, 0, 1)
	assertEqualFloat32(t, -1, x.Data()[1], "Set(0, 1)")
	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })

	_, err = FromSlice([]float32{1, 2}, Shape{3}, backend)
	assert.Error(t, err)
}

func TestNewRejectsMismatchedDType(t *testing.T) {
	backend := NewMockBackend()
	raw := MustNewRaw(Shape{2}, Complex64, CPU)
	assert.Panics(t, func() { New[float32](raw, backend) })
}

func TestTensorAddMul(t *testing.T) {
	backend := NewMockBackend()

	a, err := FromSlice([]complex64{1, 2i}, Shape{2}, backend)
	require.NoError(t, err)
	b, err := FromSlice([]complex64{1i, 3}, Shape{2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []complex64{1 + 1i, 3 + 2i}, a.Add(b).Data())
	assert.Equal(t, []complex64{1i, 6i}, a.Mul(b).Data())
}

func TestTensorReshapeAndClone(t *testing.T) {
	backend := NewMockBackend()

	x := Ones[float64](Shape{2, 3}, backend)
	y := x.Reshape(3, 2)
	assertEqualShape(t, Shape{3, 2}, y.Shape(), "reshape")

	c := x.Clone()
	c.Set(5, 0, 0)
	assert.InDelta(t, 1.0, x.At(0, 0), 0)
	assert.Panics(t, func() { x.Reshape(4) })
}

func TestCastGeneric(t *testing.T) {
	backend := NewMockBackend()

	x, err := FromSlice([]float32{1.5, -2}, Shape{2}, backend)
	require.NoError(t, err)

	c := Cast[complex64](x)
	assert.Equal(t, []complex64{1.5, -2}, c.Data())

	h := Cast[Half32](c)
	assert.Equal(t, Complex32, h.DType())
	assert.Equal(t, complex64(-2), h.Data()[1].Complex64())
}

func TestTensorString(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[complex64](Shape{2, 4}, backend)
	assert.Equal(t, "Tensor[complex64][2 4] on CPU", x.String())
}
