// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, Complex32Value, complex64, complex128.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32    DataType = tensor.Float32
	Float64    DataType = tensor.Float64
	Complex32  DataType = tensor.Complex32
	Complex64  DataType = tensor.Complex64
	Complex128 DataType = tensor.Complex128
)

// Complex32Value is a half-precision complex number (two float16 halves).
type Complex32Value = tensor.Half32

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 16, 16} is a batch of 2 three-channel 16×16 fields.
type Shape = tensor.Shape

// FFTNorm selects how forward and inverse transforms are scaled.
type FFTNorm = tensor.FFTNorm

// FFT normalization modes.
const (
	NormBackward FFTNorm = tensor.NormBackward
	NormForward  FFTNorm = tensor.NormForward
	NormOrtho    FFTNorm = tensor.NormOrtho
)

// ParseFFTNorm converts "backward", "forward" or "ortho" to an FFTNorm.
func ParseFFTNorm(s string) (FFTNorm, error) {
	return tensor.ParseFFTNorm(s)
}

// Tensor is a generic type-safe tensor.
//
// T is the element type and B the backend implementation.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Element-wise addition
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Creation functions

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[complex64](tensor.Shape{2, 4, 16, 9}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor filled with random values from the standard normal
// distribution. Complex elements have unit total variance.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// RandnSeeded is like Randn with a reproducible seed.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.RandnSeeded[float32](tensor.Shape{2, 3, 16, 16}, 42, backend)
func RandnSeeded[T DType, B Backend](shape Shape, seed uint64, b B) *Tensor[T, B] {
	return tensor.RandnSeeded[T, B](shape, seed, b)
}

// FillNormal overwrites r with zero-mean Gaussian samples of standard
// deviation std drawn from src (nil uses the global source).
func FillNormal(r *RawTensor, std float64, src rand.Source) {
	tensor.FillNormal(r, std, src)
}

// FillConstant overwrites every element of r with v.
func FillConstant(r *RawTensor, v complex128) {
	tensor.FillConstant(r, v)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	backend := cpu.New()
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions like
// Zeros, Ones, or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw creates a new raw tensor with the given shape, dtype, and device.
//
// This is a low-level function. Most users should use high-level creation functions instead.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Conversion

// Cast converts t to element type U.
//
// Example:
//
//	c := tensor.Cast[complex64](x) // float32 -> complex64
func Cast[U, T DType, B Backend](t *Tensor[T, B]) *Tensor[U, B] {
	return tensor.Cast[U, T, B](t)
}

// RoundHalf rounds v to the nearest value representable in half precision.
func RoundHalf(v float32) float32 {
	return tensor.RoundHalf(v)
}

// Fourier transforms

// RFFTN computes the N-D transform of a real tensor over axes.
// The last listed axis keeps n/2+1 coefficients.
func RFFTN[B Backend](t *Tensor[float32, B], axes []int, norm FFTNorm) *Tensor[complex64, B] {
	return tensor.RFFTN(t, axes, norm)
}

// IRFFTN inverts RFFTN; sizes gives the real output length of each axis.
func IRFFTN[B Backend](t *Tensor[complex64, B], axes, sizes []int, norm FFTNorm) *Tensor[float32, B] {
	return tensor.IRFFTN(t, axes, sizes, norm)
}

// FFTN computes the complex N-D transform over axes.
func FFTN[B Backend](t *Tensor[complex64, B], axes []int, norm FFTNorm) *Tensor[complex64, B] {
	return tensor.FFTN(t, axes, norm)
}

// IFFTN computes the inverse complex N-D transform, cropping or padding
// each axis to sizes.
func IFFTN[B Backend](t *Tensor[complex64, B], axes, sizes []int, norm FFTNorm) *Tensor[complex64, B] {
	return tensor.IFFTN(t, axes, sizes, norm)
}

// Einsum evaluates an explicit-output equation over same-typed operands.
//
// Example:
//
//	y := tensor.Einsum("bixy,ioxy->boxy", x, w)
func Einsum[T DType, B Backend](equation string, operands ...*Tensor[T, B]) *Tensor[T, B] {
	return tensor.Einsum(equation, operands...)
}

// Utility functions

// BroadcastShapes computes the broadcast shape for two shapes following NumPy broadcasting rules.
// Returns the resulting shape and a flag reporting whether any operand needs broadcasting.
//
// Example:
//
//	resultShape, needsBroadcast, err := tensor.BroadcastShapes(
//	    tensor.Shape{4, 1, 1},
//	    tensor.Shape{2, 4, 8, 8},
//	)
//	// resultShape = [2, 4, 8, 8], needsBroadcast = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
