package nn

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/neuralop/internal/backend/cpu"
	"github.com/born-ml/neuralop/internal/factorized"
	"github.com/born-ml/neuralop/internal/tensor"
)

func TestAdjustModes(t *testing.T) {
	tests := []struct {
		requested []int
		complex   bool
		want      []int
	}{
		{[]int{16}, false, []int{9}},
		{[]int{16}, true, []int{16}},
		{[]int{8, 8}, false, []int{8, 5}},
		{[]int{8, 8}, true, []int{8, 8}},
		{[]int{6, 4, 10}, false, []int{6, 4, 6}},
		{[]int{7, 7}, false, []int{7, 4}},
	}

	for _, tt := range tests {
		got := adjustModes(tt.requested, tt.complex)
		assert.Equal(t, tt.want, got, "%v complex=%t", tt.requested, tt.complex)
	}

	// The input is never modified.
	req := []int{8, 8}
	adjustModes(req, false)
	assert.Equal(t, []int{8, 8}, req)
}

func TestAdjustModes_EvenLaw(t *testing.T) {
	for m := 2; m <= 64; m += 2 {
		for order := 1; order <= 3; order++ {
			req := make([]int, order)
			for k := range req {
				req[k] = m
			}
			fromReal := adjustModes(req, false)
			cplx := adjustModes(req, true)
			assert.Equal(t, m/2+1, fromReal[order-1])
			assert.Equal(t, m, cplx[order-1])
			for k := 0; k < order-1; k++ {
				assert.Equal(t, m, fromReal[k])
			}
		}
	}
}

func TestModeWindow(t *testing.T) {
	tests := []struct {
		size, start int
		oneSided    bool
		want        tensor.Range
	}{
		{8, 0, false, tensor.Range{Start: 0, Stop: 8}},
		{8, 0, true, tensor.Range{Start: 0, Stop: 8}},
		{8, 4, false, tensor.Range{Start: 2, Stop: 6}},
		{8, 3, false, tensor.Range{Start: 1, Stop: 6}},
		{8, 3, true, tensor.Range{Start: 0, Stop: 5}},
		{16, 8, false, tensor.Range{Start: 4, Stop: 12}},
	}

	for _, tt := range tests {
		got := modeWindow(tt.size, tt.start, tt.oneSided)
		assert.Equal(t, tt.want, got, "size=%d start=%d", tt.size, tt.start)
		assert.Equal(t, tt.size-tt.start, got.Len())
	}
}

func TestNormalizeScaling(t *testing.T) {
	got, err := normalizeScaling(nil, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = normalizeScaling([][]float64{{2}, {0.5, 1}}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 2}, {0.5, 1}}, got)

	_, err = normalizeScaling([][]float64{{1, 2, 3}}, 2)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = normalizeScaling([][]float64{{-1}}, 2)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = normalizeScaling([][]float64{}, 2)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestScaledShape(t *testing.T) {
	assert.Equal(t, []int{32, 8}, scaledShape([]int{16, 16}, []float64{2, 0.5}))
	// Halves round to even.
	assert.Equal(t, []int{2, 4}, scaledShape([]int{5, 7}, []float64{0.5, 0.5}))
	assert.Equal(t, []int{1}, scaledShape([]int{3}, []float64{0.1}))
}

func TestPlanPrecision(t *testing.T) {
	tests := []struct {
		mode    PrecisionMode
		complex bool
		want    precisionPlan
	}{
		{PrecisionFull, false, precisionPlan{input: tensor.Float32, spectrum: tensor.Complex64, output: tensor.Float32}},
		{PrecisionFull, true, precisionPlan{input: tensor.Complex64, spectrum: tensor.Complex64, output: tensor.Complex64}},
		{PrecisionHalf, false, precisionPlan{input: tensor.Float32, roundInput: true, spectrum: tensor.Complex32, output: tensor.Float32}},
		{PrecisionHalf, true, precisionPlan{input: tensor.Complex32, spectrum: tensor.Complex32, output: tensor.Complex64}},
		{PrecisionMixed, false, precisionPlan{input: tensor.Float32, spectrum: tensor.Complex32, output: tensor.Float32}},
		{PrecisionMixed, true, precisionPlan{input: tensor.Complex64, spectrum: tensor.Complex32, output: tensor.Complex64}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, planPrecision(tt.mode, tt.complex), "%s complex=%t", tt.mode, tt.complex)
	}
}

func TestPlanPrepareRoundsHalf(t *testing.T) {
	backend := cpu.New()
	x := tensor.MustNewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	copy(x.AsFloat32(), []float32{0.1, 1})

	out := planPrecision(PrecisionHalf, false).prepare(backend, x)
	assert.Equal(t, []float32{tensor.RoundHalf(0.1), 1}, out.AsFloat32())
	assert.Equal(t, float32(0.1), x.AsFloat32()[0], "input untouched")
}

func TestContractionEquations(t *testing.T) {
	tests := []struct {
		name      string
		build     func(int, bool) string
		order     int
		separable bool
		want      string
	}{
		{"dense", denseEquation, 4, false, "abcd,becd->aecd"},
		{"dense separable", denseEquation, 4, true, "abcd,bcd->abcd"},
		{"dense 1d", denseEquation, 3, false, "abc,bdc->adc"},
		{"cp", cpEquation, 4, false, "abcd,e,be,fe,ce,de->afcd"},
		{"cp separable", cpEquation, 4, true, "abcd,e,be,ce,de->abcd"},
		{"cp 1d", cpEquation, 3, false, "abc,d,bd,ed,cd->aec"},
		{"tucker", tuckerEquation, 4, false, "abcd,fghi,bf,eg,ch,di->aecd"},
		{"tucker separable", tuckerEquation, 4, true, "abcd,fgh,bf,cg,dh->abcd"},
		{"tucker 1d", tuckerEquation, 3, false, "abc,efg,be,df,cg->adc"},
		{"tt", ttEquation, 4, false, "abcd,fbg,geh,hci,idj->aecd"},
		{"tt separable", ttEquation, 4, true, "abcd,fbg,gch,hdi->abcd"},
		{"tt 1d", ttEquation, 3, false, "abc,ebf,fdg,gch->adc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq := tt.build(tt.order, tt.separable)
			assert.Equal(t, tt.want, eq)
			_, err := tensor.ParseEquation(eq)
			assert.NoError(t, err)
		})
	}
}

func TestSelectContraction(t *testing.T) {
	for _, kind := range []factorized.Kind{factorized.KindDense, factorized.KindCP, factorized.KindTucker, factorized.KindTT} {
		for _, impl := range []Implementation{ImplementationReconstructed, ImplementationFactorized} {
			f, err := selectContraction(impl, kind, false)
			require.NoError(t, err)
			assert.NotNil(t, f)
		}
	}

	_, err := selectContraction(ImplementationFactorized, factorized.Kind(99), false)
	assert.True(t, errors.Is(err, factorized.ErrUnsupportedRepresentation))

	_, err = selectContraction("lazy", factorized.KindDense, false)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Implementation", cfgErr.Field)
}

func TestFilterZeroOutsideWindow(t *testing.T) {
	backend := cpu.New()
	cfg := DefaultSpectralConvConfig(3, 4, 8, 8)
	cfg.Seed = 5
	conv, err := NewSpectralConv(cfg, backend)
	require.NoError(t, err)

	x := tensor.RandnSeeded[float32](tensor.Shape{2, 3, 16, 16}, 9, backend)
	spec := conv.filter(x.Raw())
	require.Equal(t, tensor.Shape{2, 4, 16, 9}, spec.Shape())

	// Active window: rows [4, 12) of the centered axis, columns [0, 5).
	data := spec.AsComplex64()
	nonzero := 0
	for i, v := range data {
		col := i % 9
		row := (i / 9) % 16
		inside := row >= 4 && row < 12 && col < 5
		if !inside {
			if v != 0 {
				t.Fatalf("entry %d (row %d, col %d) = %v, want exact zero", i, row, col, v)
			}
			continue
		}
		if v != 0 {
			nonzero++
		}
	}
	assert.Greater(t, nonzero, 0)
}

func TestFilterHalfPrecisionSpectrum(t *testing.T) {
	backend := cpu.New()
	for _, mode := range []PrecisionMode{PrecisionHalf, PrecisionMixed} {
		cfg := DefaultSpectralConvConfig(2, 2, 4, 4)
		cfg.PrecisionMode = mode
		conv, err := NewSpectralConv(cfg, backend)
		require.NoError(t, err)

		x := tensor.RandnSeeded[float32](tensor.Shape{1, 2, 8, 8}, 1, backend)
		assert.Equal(t, tensor.Complex32, conv.filter(x.Raw()).DType(), string(mode))
	}
}
