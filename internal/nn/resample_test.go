package nn_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/neuralop/internal/backend/cpu"
	"github.com/born-ml/neuralop/internal/nn"
	"github.com/born-ml/neuralop/internal/tensor"
)

func cosine(n, period int) []float32 {
	out := make([]float32, n)
	for j := range out {
		out[j] = float32(math.Cos(2 * math.Pi * float64(j) / float64(period)))
	}
	return out
}

func TestResample_1D(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice(cosine(8, 8), tensor.Shape{1, 1, 8}, backend)
	require.NoError(t, err)

	up := nn.Resample(backend, x.Raw(), []float64{2}, []int{2}, nil)
	require.Equal(t, tensor.Shape{1, 1, 16}, up.Shape())
	for j, v := range up.AsFloat32() {
		assert.InDelta(t, math.Cos(2*math.Pi*float64(j)/16), v, 1e-5)
	}

	down := nn.Resample(backend, up, nil, []int{-1}, []int{8})
	assertClose(t, x.Raw(), down, 1e-5)
}

func TestResample_2D(t *testing.T) {
	backend := cpu.New()
	const n = 12
	data := make([]float32, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = float32(math.Cos(2*math.Pi*float64(i)/n) + math.Sin(2*math.Pi*2*float64(j)/n))
		}
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 1, n, n}, backend)
	require.NoError(t, err)

	y := nn.Resample(backend, x.Raw(), []float64{0.5, 2}, []int{2, 3}, nil)
	require.Equal(t, tensor.Shape{1, 1, 6, 24}, y.Shape())
	got := y.AsFloat32()
	for i := 0; i < 6; i++ {
		for j := 0; j < 24; j++ {
			want := math.Cos(2*math.Pi*float64(i)/6) + math.Sin(2*math.Pi*2*float64(j)/24)
			assert.InDelta(t, want, got[i*24+j], 1e-4, "(%d, %d)", i, j)
		}
	}
}

func TestResample_Complex(t *testing.T) {
	backend := cpu.New()
	data := make([]complex64, 8)
	for j := range data {
		data[j] = complex64(cmplx.Exp(complex(0, -2*math.Pi*float64(j)/8)))
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 1, 8}, backend)
	require.NoError(t, err)

	y := nn.Resample(backend, x.Raw(), []float64{1.5}, []int{2}, nil)
	require.Equal(t, tensor.Shape{1, 1, 12}, y.Shape())
	require.Equal(t, tensor.Complex64, y.DType())
	for j, v := range y.AsComplex64() {
		want := cmplx.Exp(complex(0, -2*math.Pi*float64(j)/12))
		assert.InDelta(t, 0, cmplx.Abs(want-complex128(v)), 1e-5, "sample %d", j)
	}
}

func TestResample_Panics(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{1, 1, 4, 4}, backend).Raw()

	assert.Panics(t, func() { nn.Resample(backend, x, []float64{2}, nil, nil) })
	assert.Panics(t, func() { nn.Resample(backend, x, []float64{1, 2, 3}, []int{2, 3}, nil) })
	assert.Panics(t, func() { nn.Resample(backend, x, nil, []int{2, 3}, []int{8}) })
}
