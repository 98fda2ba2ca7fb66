package tensor

// RFFTN computes the real-input N-D Fourier transform over the last len(axes) axes.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3, 16, 16}, backend)
//	spec := tensor.RFFTN(x, []int{2, 3}, tensor.NormBackward) // [2, 3, 16, 9] complex64
func RFFTN[B Backend](t *Tensor[float32, B], axes []int, norm FFTNorm) *Tensor[complex64, B] {
	return New[complex64, B](t.backend.RFFTN(t.raw, axes, norm), t.backend)
}

// IRFFTN inverts RFFTN, producing a real tensor with the given per-axis sizes.
func IRFFTN[B Backend](t *Tensor[complex64, B], axes, sizes []int, norm FFTNorm) *Tensor[float32, B] {
	return New[float32, B](t.backend.IRFFTN(t.raw, axes, sizes, norm), t.backend)
}

// FFTN computes the complex N-D Fourier transform over axes.
func FFTN[B Backend](t *Tensor[complex64, B], axes []int, norm FFTNorm) *Tensor[complex64, B] {
	return New[complex64, B](t.backend.FFTN(t.raw, axes, nil, norm), t.backend)
}

// IFFTN inverts FFTN, cropping or zero-padding to sizes when given.
func IFFTN[B Backend](t *Tensor[complex64, B], axes, sizes []int, norm FFTNorm) *Tensor[complex64, B] {
	return New[complex64, B](t.backend.IFFTN(t.raw, axes, sizes, norm), t.backend)
}

// Einsum evaluates an explicit einsum equation over tensors of one element type.
//
// Example:
//
//	y := tensor.Einsum("bixy,ioxy->boxy", x, w)
func Einsum[T DType, B Backend](equation string, operands ...*Tensor[T, B]) *Tensor[T, B] {
	if len(operands) == 0 {
		panic("einsum: at least one operand required")
	}
	raws := make([]*RawTensor, len(operands))
	for i, op := range operands {
		raws[i] = op.raw
	}
	b := operands[0].backend
	return New[T, B](b.Einsum(equation, raws...), b)
}
