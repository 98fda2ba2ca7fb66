package tensor

import (
	"fmt"

	"github.com/x448/float16"
)

// Half32 is a complex number stored as two IEEE 754 half-precision floats.
// It is the element type of Complex32 tensors.
//
// Go has no native half-precision arithmetic, so kernels widen Half32 to
// complex64, compute, and round the result back.
type Half32 struct {
	Re float16.Float16
	Im float16.Float16
}

// NewHalf32 rounds a complex64 value to half precision.
func NewHalf32(c complex64) Half32 {
	return Half32{
		Re: float16.Fromfloat32(real(c)),
		Im: float16.Fromfloat32(imag(c)),
	}
}

// Complex64 widens the value to complex64 without loss.
func (c Half32) Complex64() complex64 {
	return complex(c.Re.Float32(), c.Im.Float32())
}

// String formats the value like fmt does for complex numbers.
func (c Half32) String() string {
	return fmt.Sprint(c.Complex64())
}

// RoundHalf rounds a float32 to the nearest half-precision value and widens it back.
func RoundHalf(v float32) float32 {
	return float16.Fromfloat32(v).Float32()
}
