package cpu

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/neuralop/internal/tensor"
)

// naiveDFT2 is the textbook 2-D DFT of an (h, w) row-major grid.
func naiveDFT2(x []complex128, h, w int, sign float64) []complex128 {
	out := make([]complex128, h*w)
	for u := 0; u < h; u++ {
		for v := 0; v < w; v++ {
			var acc complex128
			for i := 0; i < h; i++ {
				for j := 0; j < w; j++ {
					phase := sign * 2 * math.Pi * (float64(u*i)/float64(h) + float64(v*j)/float64(w))
					acc += x[i*w+j] * cmplx.Rect(1, phase)
				}
			}
			out[u*w+v] = acc
		}
	}
	return out
}

func TestFFTN_MatchesNaiveDFT(t *testing.T) {
	backend := newTestBackend()
	rng := rand.New(rand.NewPCG(1, 2))

	h, w := 4, 7
	data := randomC128(rng, h*w)
	x, err := tensor.NewRaw(tensor.Shape{h, w}, tensor.Complex128, tensor.CPU)
	require.NoError(t, err)
	copy(x.AsComplex128(), data)

	got := backend.FFTN(x, []int{0, 1}, nil, tensor.NormBackward)
	want := naiveDFT2(data, h, w, -1)

	require.Equal(t, tensor.Complex128, got.DType())
	for i, v := range got.AsComplex128() {
		assert.InDelta(t, 0, cmplx.Abs(v-want[i]), 1e-9, "coefficient %d", i)
	}
}

func TestFFTN_InverseRoundTrip(t *testing.T) {
	backend := newTestBackend()

	for _, norm := range []tensor.FFTNorm{tensor.NormBackward, tensor.NormForward, tensor.NormOrtho} {
		t.Run(norm.String(), func(t *testing.T) {
			x := randomRaw(t, tensor.Shape{2, 5, 6}, tensor.Complex64, 3)
			spec := backend.FFTN(x, []int{1, 2}, nil, norm)
			back := backend.IFFTN(spec, []int{-2, -1}, nil, norm)
			assertClose(t, x, back, 1e-5)
		})
	}
}

func TestFFTN_OrthoPreservesEnergy(t *testing.T) {
	backend := newTestBackend()

	x := randomRaw(t, tensor.Shape{6, 6}, tensor.Complex128, 4)
	spec := backend.FFTN(x, []int{0, 1}, nil, tensor.NormOrtho)

	energy := func(r *tensor.RawTensor) float64 {
		var e float64
		for _, v := range r.AsComplex128() {
			e += real(v)*real(v) + imag(v)*imag(v)
		}
		return e
	}
	assert.InDelta(t, energy(x), energy(spec), 1e-9)
}

func TestRFFTN_MatchesComplexTransform(t *testing.T) {
	backend := newTestBackend()

	for _, n := range []int{6, 7} {
		x := randomRaw(t, tensor.Shape{3, 5, n}, tensor.Float32, uint64(n))

		half := backend.RFFTN(x, []int{1, 2}, tensor.NormBackward)
		require.Equal(t, tensor.Shape{3, 5, n/2 + 1}, half.Shape())
		require.Equal(t, tensor.Complex64, half.DType())

		full := backend.FFTN(backend.Cast(x, tensor.Complex64), []int{1, 2}, nil, tensor.NormBackward)
		window := backend.Slice(full, []tensor.Range{tensor.FullRange(3), tensor.FullRange(5), {Start: 0, Stop: n/2 + 1}})
		assertClose(t, window, half, 1e-4)
	}
}

func TestIRFFTN_RoundTrip(t *testing.T) {
	backend := newTestBackend()

	for _, n := range []int{8, 9} {
		for _, norm := range []tensor.FFTNorm{tensor.NormBackward, tensor.NormForward, tensor.NormOrtho} {
			x := randomRaw(t, tensor.Shape{2, 4, n}, tensor.Float64, uint64(10+n))
			spec := backend.RFFTN(x, []int{1, 2}, norm)
			back := backend.IRFFTN(spec, []int{1, 2}, []int{4, n}, norm)
			require.Equal(t, tensor.Float64, back.DType())
			assertClose(t, x, back, 1e-10)
		}
	}
}

func TestIRFFTN_DefaultSize(t *testing.T) {
	backend := newTestBackend()

	x := randomRaw(t, tensor.Shape{4, 10}, tensor.Float32, 5)
	spec := backend.RFFTN(x, []int{0, 1}, tensor.NormBackward)
	back := backend.IRFFTN(spec, []int{0, 1}, nil, tensor.NormBackward)

	assert.Equal(t, tensor.Shape{4, 10}, back.Shape())
	assertClose(t, x, back, 1e-5)
}

func TestIRFFTN_ZeroPadUpsamples(t *testing.T) {
	backend := newTestBackend()

	// cos(2*pi*j/8) sampled on 8 points, re-synthesized on 16 points, is
	// cos(2*pi*j/16).
	x := make([]float32, 8)
	for j := range x {
		x[j] = float32(math.Cos(2 * math.Pi * float64(j) / 8))
	}
	spec := backend.RFFTN(rawF32(t, tensor.Shape{8}, x), []int{0}, tensor.NormForward)
	up := backend.IRFFTN(spec, []int{0}, []int{16}, tensor.NormForward)

	require.Equal(t, tensor.Shape{16}, up.Shape())
	for j, v := range up.AsFloat32() {
		assert.InDelta(t, math.Cos(2*math.Pi*float64(j)/16), float64(v), 1e-5, "sample %d", j)
	}
}

func TestFFTN_SizesCropAndPad(t *testing.T) {
	backend := newTestBackend()

	x := rawC64(t, tensor.Shape{4}, []complex64{1, 2, 3, 4})

	// Cropping to two points transforms [1, 2].
	cropped := backend.FFTN(x, []int{0}, []int{2}, tensor.NormBackward)
	require.Equal(t, tensor.Shape{2}, cropped.Shape())
	assert.InDelta(t, 0, cmplx.Abs(complex128(cropped.AsComplex64()[0]-3)), 1e-6)
	assert.InDelta(t, 0, cmplx.Abs(complex128(cropped.AsComplex64()[1]+1)), 1e-6)

	// Padding to six points appends zeros; the DC term is the plain sum.
	padded := backend.FFTN(x, []int{0}, []int{6}, tensor.NormBackward)
	require.Equal(t, tensor.Shape{6}, padded.Shape())
	assert.InDelta(t, 10, real(padded.AsComplex64()[0]), 1e-5)
}

func TestRFFTN_RejectsComplexInput(t *testing.T) {
	backend := newTestBackend()
	x := rawC64(t, tensor.Shape{4}, []complex64{1, 2, 3, 4})
	assert.Panics(t, func() { backend.RFFTN(x, []int{0}, tensor.NormBackward) })
}

func TestFFTN_HalfInputStaysHalf(t *testing.T) {
	backend := newTestBackend()

	x := backend.Cast(randomRaw(t, tensor.Shape{4, 4}, tensor.Complex64, 6), tensor.Complex32)
	spec := backend.FFTN(x, []int{0, 1}, nil, tensor.NormForward)
	assert.Equal(t, tensor.Complex32, spec.DType())
}
