package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/neuralop/internal/tensor"
)

func TestFFTShift(t *testing.T) {
	backend := newTestBackend()

	tests := []struct {
		name    string
		input   []float32
		shifted []float32
	}{
		{"even", []float32{0, 1, 2, 3}, []float32{2, 3, 0, 1}},
		{"odd", []float32{0, 1, 2, 3, 4}, []float32{3, 4, 0, 1, 2}},
		{"single", []float32{7}, []float32{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := rawF32(t, tensor.Shape{len(tt.input)}, tt.input)

			s := backend.FFTShift(x, []int{0})
			assert.Equal(t, tt.shifted, s.AsFloat32())

			back := backend.IFFTShift(s, []int{0})
			assert.Equal(t, tt.input, back.AsFloat32())
		})
	}
}

func TestFFTShift_SelectedAxesOnly(t *testing.T) {
	backend := newTestBackend()

	x := rawF32(t, tensor.Shape{3, 2}, []float32{0, 1, 2, 3, 4, 5})

	s := backend.FFTShift(x, []int{0})
	assert.Equal(t, []float32{4, 5, 0, 1, 2, 3}, s.AsFloat32())
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, x.AsFloat32(), "input untouched")
}

func TestIFFTShift_InvertsOddComplexGrid(t *testing.T) {
	backend := newTestBackend()

	x := randomRaw(t, tensor.Shape{2, 5, 7}, tensor.Complex64, 11)
	back := backend.IFFTShift(backend.FFTShift(x, []int{1, 2}), []int{1, 2})
	assertClose(t, x, back, 0)
}

func TestSlice(t *testing.T) {
	backend := newTestBackend()

	x := rawF32(t, tensor.Shape{3, 4}, []float32{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	})

	out := backend.Slice(x, []tensor.Range{{Start: 1, Stop: 3}, {Start: 1, Stop: 3}})
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{5, 6, 9, 10}, out.AsFloat32())

	rows := backend.Slice(x, []tensor.Range{{Start: 2, Stop: 3}})
	assert.Equal(t, []float32{8, 9, 10, 11}, rows.AsFloat32())

	assert.Panics(t, func() { backend.Slice(x, []tensor.Range{{Start: 0, Stop: 4}}) })
}

func TestSetSlice(t *testing.T) {
	backend := newTestBackend()

	dst, err := tensor.NewRaw(tensor.Shape{2, 3, 4}, tensor.Complex64, tensor.CPU)
	require.NoError(t, err)
	src := rawC64(t, tensor.Shape{2, 2, 2}, []complex64{1, 2, 3, 4, 5, 6, 7, 8})

	ranges := []tensor.Range{tensor.FullRange(2), {Start: 1, Stop: 3}, {Start: 2, Stop: 4}}
	backend.SetSlice(dst, ranges, src)

	assertClose(t, src, backend.Slice(dst, ranges), 0)

	var nonZero int
	for _, v := range dst.AsComplex64() {
		if v != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 8, nonZero, "only the window is written")

	assert.Panics(t, func() {
		backend.SetSlice(dst, []tensor.Range{tensor.FullRange(2), tensor.FullRange(3)}, src)
	})
}
