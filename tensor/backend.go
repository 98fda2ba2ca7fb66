// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/neuralop/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go, FFTs via gonum
//
// Example:
//
//	import (
//	    "github.com/born-ml/neuralop/tensor"
//	    "github.com/born-ml/neuralop/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor // Cast to different data type.

	// Fourier transforms.
	FFTN(x *RawTensor, axes, sizes []int, norm FFTNorm) *RawTensor   // Complex N-D transform.
	IFFTN(x *RawTensor, axes, sizes []int, norm FFTNorm) *RawTensor  // Inverse complex N-D transform.
	RFFTN(x *RawTensor, axes []int, norm FFTNorm) *RawTensor         // Real-input N-D transform.
	IRFFTN(x *RawTensor, axes, sizes []int, norm FFTNorm) *RawTensor // Inverse real-input transform.
	FFTShift(x *RawTensor, axes []int) *RawTensor                    // Zero frequency to the center.
	IFFTShift(x *RawTensor, axes []int) *RawTensor                   // Undo FFTShift.

	// Window operations. Axes beyond len(ranges) are taken whole.
	Slice(x *RawTensor, ranges []Range) *RawTensor
	SetSlice(dst *RawTensor, ranges []Range, src *RawTensor)

	// Contraction.
	Einsum(equation string, operands ...*RawTensor) *RawTensor // Explicit-output einsum.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
