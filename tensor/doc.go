// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors for the neuralop library.
//
// # Overview
//
// Tensors are the fundamental data structure of the spectral layers. This
// package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - Real and complex element types, including half-precision Complex32
//   - NumPy-style broadcasting
//   - N-dimensional Fourier transforms with selectable normalization
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/neuralop/backend/cpu"
//	    "github.com/born-ml/neuralop/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Randn[float32](tensor.Shape{2, 3, 16, 16}, backend)
//	    spec := tensor.RFFTN(x, []int{2, 3}, tensor.NormBackward) // (2, 3, 16, 9)
//	    y := tensor.IRFFTN(spec, []int{2, 3}, []int{16, 16}, tensor.NormBackward)
//	}
//
// # Supported Data Types
//
// The DType constraint admits:
//   - float32, float64 (real activations)
//   - Complex32Value (half-precision complex spectra, dtype Complex32)
//   - complex64, complex128 (weights and full-precision spectra)
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{4, 1, 1}, backend)     // (4, 1, 1)
//	b := tensor.Ones[float32](tensor.Shape{2, 4, 8, 8}, backend)   // (2, 4, 8, 8)
//	c := b.Add(a)                                                   // (2, 4, 8, 8)
//
// # Einsum
//
// Einsum contracts operands along an explicit-output equation:
//
//	y := tensor.Einsum[complex64]("bixy,ioxy->boxy", x, w)
package tensor
