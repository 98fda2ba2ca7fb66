package tensor

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerosOnesFull(t *testing.T) {
	backend := NewMockBackend()

	z := Zeros[complex64](Shape{2, 3}, backend)
	for _, v := range z.Data() {
		assert.Equal(t, complex64(0), v)
	}

	o := Ones[Half32](Shape{4}, backend)
	for _, v := range o.Data() {
		assert.Equal(t, complex64(1), v.Complex64())
	}

	f := Full[float64](Shape{3}, 2.5, backend)
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, f.Data())
}

func TestHalf32ElementType(t *testing.T) {
	backend := NewMockBackend()

	h := Full[Half32](Shape{2, 3}, NewHalf32(0.5-2i), backend)
	require.Equal(t, Complex32, h.DType())
	require.Len(t, h.Data(), 6)
	for _, v := range h.Data() {
		assert.Equal(t, complex64(0.5-2i), v.Complex64())
	}

	w, err := h.Raw().Shape().WindowShape([]Range{FullRange(2), {Start: 1, Stop: 3}})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, w)
}

func TestRandnSeededIsReproducible(t *testing.T) {
	backend := NewMockBackend()

	a := RandnSeeded[float32](Shape{64}, 42, backend)
	b := RandnSeeded[float32](Shape{64}, 42, backend)
	c := RandnSeeded[float32](Shape{64}, 43, backend)

	assert.Equal(t, a.Data(), b.Data())
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestFillNormalStatistics(t *testing.T) {
	const n = 20000
	const std = 0.3

	real32 := MustNewRaw(Shape{n}, Float32, CPU)
	FillNormal(real32, std, rand.NewPCG(1, 2))

	var sum, sq float64
	for _, v := range real32.AsFloat32() {
		sum += float64(v)
		sq += float64(v) * float64(v)
	}
	assert.InDelta(t, 0, sum/n, 0.01)
	assert.InDelta(t, std, math.Sqrt(sq/n), 0.01)

	// Complex samples split the variance evenly between the two parts.
	cplx := MustNewRaw(Shape{n}, Complex64, CPU)
	FillNormal(cplx, std, rand.NewPCG(3, 4))

	var re2, im2 float64
	for _, v := range cplx.AsComplex64() {
		re2 += float64(real(v)) * float64(real(v))
		im2 += float64(imag(v)) * float64(imag(v))
	}
	assert.InDelta(t, std/math.Sqrt2, math.Sqrt(re2/n), 0.01)
	assert.InDelta(t, std/math.Sqrt2, math.Sqrt(im2/n), 0.01)
	assert.InDelta(t, std, math.Sqrt((re2+im2)/n), 0.01)
}

func TestFillConstant(t *testing.T) {
	r := MustNewRaw(Shape{3}, Complex128, CPU)
	FillConstant(r, 1-1i)
	assert.Equal(t, []complex128{1 - 1i, 1 - 1i, 1 - 1i}, r.AsComplex128())

	f := MustNewRaw(Shape{2}, Float32, CPU)
	FillConstant(f, 3+4i)
	assert.Equal(t, []float32{3, 3}, f.AsFloat32())
}

func TestHalf32(t *testing.T) {
	c := NewHalf32(1.5 - 0.25i)
	assert.Equal(t, complex64(1.5-0.25i), c.Complex64())
	assert.Equal(t, "(1.5-0.25i)", c.String())

	// 0.1 is not representable in half precision.
	r := RoundHalf(0.1)
	require.NotEqual(t, float32(0.1), r)
	assert.InDelta(t, 0.1, float64(r), 1e-4)
	assert.Equal(t, r, RoundHalf(r), "rounding is idempotent")

	// Values beyond the half range overflow to infinity.
	assert.True(t, math.IsInf(float64(RoundHalf(1e6)), 1))
}
