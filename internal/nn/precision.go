package nn

import (
	"github.com/born-ml/neuralop/internal/tensor"
)

// precisionPlan fixes every dtype of one forward pass.
type precisionPlan struct {
	input      tensor.DataType // Activation dtype handed to the forward transform
	roundInput bool            // Round real activations to half precision first
	spectrum   tensor.DataType // Contraction and output spectrum dtype
	output     tensor.DataType // Spatial output dtype
}

// planPrecision derives the plan from the precision mode and whether the
// activation is complex. It has no side effects.
func planPrecision(mode PrecisionMode, complexData bool) precisionPlan {
	p := precisionPlan{
		input:    tensor.Float32,
		spectrum: tensor.Complex64,
		output:   tensor.Float32,
	}
	if complexData {
		p.input = tensor.Complex64
		p.output = tensor.Complex64
	}

	switch mode {
	case PrecisionHalf:
		p.spectrum = tensor.Complex32
		if complexData {
			p.input = tensor.Complex32
		} else {
			p.roundInput = true
		}
	case PrecisionMixed:
		p.spectrum = tensor.Complex32
	}
	return p
}

// prepare converts the activation to the dtype the forward transform expects.
func (p precisionPlan) prepare(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	x = b.Cast(x, p.input)
	if !p.roundInput {
		return x
	}
	rounded := x.Clone()
	data := rounded.AsFloat32()
	for i, v := range data {
		data[i] = tensor.RoundHalf(v)
	}
	return rounded
}
