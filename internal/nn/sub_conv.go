package nn

import (
	"github.com/born-ml/neuralop/internal/factorized"
	"github.com/born-ml/neuralop/internal/tensor"
)

// SubConv is a view of a SpectralConv bound to one usage site.
//
// Several blocks of a model can share one spectral weight while resampling
// to different resolutions: each gets a SubConv with its own site, and the
// site picks the output scaling factor. A SubConv owns no storage.
type SubConv[B tensor.Backend] struct {
	main *SpectralConv[B]
	site int
}

// Main returns the owning layer.
func (c *SubConv[B]) Main() *SpectralConv[B] { return c.main }

// Site returns the bound site index.
func (c *SubConv[B]) Site() int { return c.site }

// Forward runs the owning layer with the bound site.
func (c *SubConv[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if c.main.complexData {
		panic("spectral conv: layer expects complex activations, use ForwardRaw")
	}
	return tensor.New[float32, B](c.ForwardRaw(x.Raw()), c.main.backend)
}

// ForwardRaw runs the owning layer with the bound site. A WithSite option
// in opts is overridden.
func (c *SubConv[B]) ForwardRaw(x *tensor.RawTensor, opts ...ForwardOption) *tensor.RawTensor {
	return c.main.ForwardRaw(x, append(opts[:len(opts):len(opts)], WithSite(c.site))...)
}

// Transform resamples x the way the owning layer does at the bound site.
func (c *SubConv[B]) Transform(x *tensor.RawTensor, outputShape []int) *tensor.RawTensor {
	return c.main.Transform(x, c.site, outputShape)
}

// Weight returns the owning layer's effective weight window.
func (c *SubConv[B]) Weight() factorized.Tensor {
	return c.main.EffectiveWeight()
}

// Parameters returns the owning layer's parameters.
func (c *SubConv[B]) Parameters() []*Parameter[B] {
	return c.main.Parameters()
}
