package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/neuralop/internal/nn"
	"github.com/born-ml/neuralop/internal/tensor"
)

func TestSubConv_SharesWeights(t *testing.T) {
	cfg := nn.DefaultSpectralConvConfig(2, 2, 4, 4)
	cfg.OutputScalingFactor = [][]float64{{1}, {2}}
	conv := newConv(t, cfg)

	up, err := conv.SubConv(1)
	require.NoError(t, err)
	assert.Same(t, conv, up.Main())
	assert.Equal(t, 1, up.Site())

	main, sub := conv.Parameters(), up.Parameters()
	require.Len(t, sub, len(main))
	for i := range main {
		assert.Same(t, main[i].Raw(), sub[i].Raw())
	}

	x := tensor.RandnSeeded[float32](tensor.Shape{1, 2, 8, 8}, 1, conv.Backend())
	assert.Equal(t, tensor.Shape{1, 2, 8, 8}, conv.Forward(x).Shape())
	y := up.Forward(x)
	assert.Equal(t, tensor.Shape{1, 2, 16, 16}, y.Shape())
	assertClose(t, conv.ForwardRaw(x.Raw(), nn.WithSite(1)), y.Raw(), 1e-6)

	// Updates through the main layer are seen by the view.
	tensor.FillConstant(conv.Weight().Operands()[0], 0)
	tensor.FillConstant(conv.Bias(), 0)
	for _, v := range up.Forward(x).Data() {
		assert.Zero(t, v)
	}
}

func TestSubConv_SiteRange(t *testing.T) {
	conv := newConv(t, nn.DefaultSpectralConvConfig(2, 2, 4))
	_, err := conv.SubConv(0)
	assert.NoError(t, err, "a layer without scaling has one site")
	_, err = conv.SubConv(1)
	assert.ErrorIs(t, err, nn.ErrInvalidConfig)

	cfg := nn.DefaultSpectralConvConfig(2, 2, 4)
	cfg.OutputScalingFactor = nn.UniformScaling(1, 3)
	conv = newConv(t, cfg)
	_, err = conv.SubConv(2)
	assert.NoError(t, err)
	_, err = conv.SubConv(-1)
	assert.Error(t, err)
}

func TestSubConv_WeightTracksNModes(t *testing.T) {
	conv := newConv(t, nn.DefaultSpectralConvConfig(2, 3, 8, 8))
	sub, err := conv.SubConv(0)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 3, 8, 5}, sub.Weight().Shape())
	require.NoError(t, conv.SetNModes(4, 4))
	assert.Equal(t, tensor.Shape{2, 3, 4, 3}, sub.Weight().Shape())
}

func TestSubConv_Transform(t *testing.T) {
	cfg := nn.DefaultSpectralConvConfig(1, 1, 4)
	cfg.OutputScalingFactor = [][]float64{{1}, {2}}
	conv := newConv(t, cfg)
	sub, err := conv.SubConv(1)
	require.NoError(t, err)

	x := tensor.RandnSeeded[float32](tensor.Shape{1, 1, 8}, 1, conv.Backend()).Raw()
	assert.Equal(t, tensor.Shape{1, 1, 16}, sub.Transform(x, nil).Shape())
}
