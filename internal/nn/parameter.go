package nn

import (
	"github.com/born-ml/neuralop/internal/tensor"
)

// Parameter represents a named tensor owned by a neural network layer.
//
// Spectral weights are complex and may be stored in factorized form, so a
// Parameter holds the untyped RawTensor. The storage is shared with the
// layer: writing through Raw().Data() changes the layer.
//
// Example:
//
//	for _, p := range conv.Parameters() {
//	    fmt.Println(p.Name(), p.Shape(), p.DType())
//	}
type Parameter[B tensor.Backend] struct {
	name    string            // Parameter name (e.g., "weight.core", "bias")
	raw     *tensor.RawTensor // Parameter storage
	backend B
}

// NewParameter wraps raw under name.
func NewParameter[B tensor.Backend](name string, raw *tensor.RawTensor, backend B) *Parameter[B] {
	return &Parameter[B]{
		name:    name,
		raw:     raw,
		backend: backend,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Raw returns the parameter storage.
func (p *Parameter[B]) Raw() *tensor.RawTensor {
	return p.raw
}

// Shape returns the parameter shape.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.raw.Shape()
}

// DType returns the parameter element type.
func (p *Parameter[B]) DType() tensor.DataType {
	return p.raw.DType()
}

// NumElements returns the number of scalar (real or complex) entries.
func (p *Parameter[B]) NumElements() int {
	return p.raw.NumElements()
}

// Backend returns the backend the parameter belongs to.
func (p *Parameter[B]) Backend() B {
	return p.backend
}

// CountParameters sums NumElements over params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	n := 0
	for _, p := range params {
		n += p.NumElements()
	}
	return n
}
