// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/neuralop/internal/nn"
	"github.com/born-ml/neuralop/tensor"
)

// Parameter is a named tensor owned by a layer.
//
// Spectral weights are complex64 (one Parameter per stored factor of a
// factorized weight) and biases are float32.
//
// Example:
//
//	for _, p := range conv.Parameters() {
//	    fmt.Println(p.Name(), p.Shape(), p.DType())
//	}
//
// Methods:
//
//	Name() string
//	    Returns the parameter name (e.g., "weight.core", "bias").
//
//	Raw() *tensor.RawTensor
//	    Returns the stored tensor. It shares storage with the layer.
//
//	Shape() tensor.Shape
//	    Returns the tensor shape.
//
//	NumElements() int
//	    Returns the number of (real or complex) elements.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a parameter around raw.
func NewParameter[B tensor.Backend](name string, raw *tensor.RawTensor, backend B) *Parameter[B] {
	return nn.NewParameter(name, raw, backend)
}

// CountParameters sums the element counts of params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.CountParameters(params)
}
