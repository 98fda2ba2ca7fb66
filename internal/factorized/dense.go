package factorized

import (
	"math/rand/v2"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Dense is an unfactorized complex weight.
type Dense struct {
	data *tensor.RawTensor
}

// NewDense wraps an existing complex64 tensor as a dense weight.
func NewDense(data *tensor.RawTensor) *Dense {
	if data.DType() != tensor.Complex64 {
		panic("factorized: dense weight must be complex64, got " + data.DType().String())
	}
	return &Dense{data: data}
}

// Kind returns KindDense.
func (d *Dense) Kind() Kind { return KindDense }

// Shape returns the weight shape.
func (d *Dense) Shape() tensor.Shape { return d.data.Shape() }

// Ranks returns nil.
func (d *Dense) Ranks() []int { return nil }

// Operands returns the stored tensor.
func (d *Dense) Operands() []*tensor.RawTensor { return []*tensor.RawTensor{d.data} }

// ToDense returns the stored tensor itself.
func (d *Dense) ToDense(_ tensor.Backend) *tensor.RawTensor { return d.data }

// Window copies the selected window.
func (d *Dense) Window(b tensor.Backend, ranges []tensor.Range) Tensor {
	return &Dense{data: b.Slice(d.data, ranges)}
}

// Normal fills the weight with complex Gaussian samples.
func (d *Dense) Normal(std float64, src rand.Source) {
	tensor.FillNormal(d.data, std, src)
}

// NumParams returns the number of stored complex values.
func (d *Dense) NumParams() int { return d.data.NumElements() }

// StateDict stores the tensor under prefix itself.
func (d *Dense) StateDict(prefix string) map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{prefix: d.data}
}

func (d *Dense) sealed() {}
