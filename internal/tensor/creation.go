package tensor

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[complex64](Shape{2, 4, 16, 9}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var one T
	switch p := any(&one).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *Half32:
		*p = NewHalf32(1)
	case *complex64:
		*p = 1
	case *complex128:
		*p = 1
	}
	return Full[T, B](shape, one, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1) using the global source.
// For complex types the real and imaginary parts each have variance 1/2, so
// every element has unit variance.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3, 16, 16}, backend)
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	FillNormal(t.raw, 1, nil)
	return t
}

// RandnSeeded is like Randn but draws from a PCG source seeded with seed,
// so the result is reproducible.
func RandnSeeded[T DType, B Backend](shape Shape, seed uint64, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	FillNormal(t.raw, 1, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return t
}

// FillNormal overwrites r with zero-mean Gaussian samples of standard deviation std.
//
// Complex tensors receive circular complex Gaussian samples: real and
// imaginary parts are independent N(0, std²/2). A nil src uses the global
// math/rand/v2 source.
func FillNormal(r *RawTensor, std float64, src rand.Source) {
	componentStd := std
	if r.DType().IsComplex() {
		componentStd = std / math.Sqrt2
	}
	dist := distuv.Normal{Mu: 0, Sigma: componentStd, Src: src}

	switch r.DType() {
	case Float32:
		data := r.AsFloat32()
		for i := range data {
			data[i] = float32(dist.Rand())
		}
	case Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = dist.Rand()
		}
	case Complex32:
		data := r.AsComplex32()
		for i := range data {
			data[i] = NewHalf32(complex(float32(dist.Rand()), float32(dist.Rand())))
		}
	case Complex64:
		data := r.AsComplex64()
		for i := range data {
			data[i] = complex(float32(dist.Rand()), float32(dist.Rand()))
		}
	case Complex128:
		data := r.AsComplex128()
		for i := range data {
			data[i] = complex(dist.Rand(), dist.Rand())
		}
	default:
		panic(fmt.Sprintf("FillNormal: unsupported dtype %s", r.DType()))
	}
}

// FillConstant overwrites every element of r with v, converted to r's dtype.
// Real tensors keep only the real part of v.
func FillConstant(r *RawTensor, v complex128) {
	switch r.DType() {
	case Float32:
		data := r.AsFloat32()
		for i := range data {
			data[i] = float32(real(v))
		}
	case Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = real(v)
		}
	case Complex32:
		data := r.AsComplex32()
		for i := range data {
			data[i] = NewHalf32(complex64(v))
		}
	case Complex64:
		data := r.AsComplex64()
		for i := range data {
			data[i] = complex64(v)
		}
	case Complex128:
		data := r.AsComplex128()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("FillConstant: unsupported dtype %s", r.DType()))
	}
}
