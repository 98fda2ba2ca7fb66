package cpu

import (
	"fmt"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Slice copies the window selected by ranges into a new tensor.
// Axes beyond len(ranges) are taken whole.
func (cpu *CPUBackend) Slice(x *tensor.RawTensor, ranges []tensor.Range) *tensor.RawTensor {
	outShape, err := x.Shape().WindowShape(ranges)
	if err != nil {
		panic(fmt.Sprintf("slice: %v", err))
	}
	result := tensor.MustNewRaw(outShape, x.DType(), cpu.device)

	srcStart := make([]int, len(x.Shape()))
	for i, r := range ranges {
		srcStart[i] = r.Start
	}
	copyBlock(result.Data(), result.Strides(), make([]int, len(outShape)),
		x.Data(), x.Strides(), srcStart, outShape, x.DType().Size())
	return result
}

// SetSlice writes src into the window of dst selected by ranges.
// src must have exactly the window's shape and dst's dtype.
func (cpu *CPUBackend) SetSlice(dst *tensor.RawTensor, ranges []tensor.Range, src *tensor.RawTensor) {
	window, err := dst.Shape().WindowShape(ranges)
	if err != nil {
		panic(fmt.Sprintf("set_slice: %v", err))
	}
	if !window.Equal(src.Shape()) {
		panic(fmt.Sprintf("set_slice: source shape %v does not match window %v", src.Shape(), window))
	}
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("set_slice: dtype mismatch %s vs %s", dst.DType(), src.DType()))
	}

	dstStart := make([]int, len(dst.Shape()))
	for i, r := range ranges {
		dstStart[i] = r.Start
	}
	copyBlock(dst.Data(), dst.Strides(), dstStart,
		src.Data(), src.Strides(), make([]int, len(window)), window, dst.DType().Size())
}

// copyBlock copies an extent-shaped block between two row-major buffers.
// Offsets and strides are in elements; elem is the element size in bytes.
func copyBlock(dst []byte, dstStrides, dstStart []int, src []byte, srcStrides, srcStart []int, extent tensor.Shape, elem int) {
	if len(extent) == 0 {
		copy(dst[:elem], src[:elem])
		return
	}
	last := len(extent) - 1
	run := extent[last] * elem

	var rec func(d, dOff, sOff int)
	rec = func(d, dOff, sOff int) {
		if d == last {
			db := (dOff + dstStart[d]) * elem
			sb := (sOff + srcStart[d]) * elem
			copy(dst[db:db+run], src[sb:sb+run])
			return
		}
		for i := 0; i < extent[d]; i++ {
			rec(d+1, dOff+(dstStart[d]+i)*dstStrides[d], sOff+(srcStart[d]+i)*srcStrides[d])
		}
	}
	rec(0, 0, 0)
}

// FFTShift moves the zero-frequency entry of every listed axis to its center.
func (cpu *CPUBackend) FFTShift(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	return cpu.roll(x, axes, func(n int) int { return n / 2 })
}

// IFFTShift undoes FFTShift, including for odd lengths.
func (cpu *CPUBackend) IFFTShift(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	return cpu.roll(x, axes, func(n int) int { return -(n / 2) })
}

func (cpu *CPUBackend) roll(x *tensor.RawTensor, axes []int, shiftOf func(n int) int) *tensor.RawTensor {
	out := x
	for _, a := range normalizeAxes(x.Shape(), axes) {
		out = cpu.rollAxis(out, a, shiftOf(x.Shape()[a]))
	}
	if out == x {
		return x.Clone()
	}
	return out
}

// rollAxis moves element k of every line along axis to (k+shift) mod n.
func (cpu *CPUBackend) rollAxis(x *tensor.RawTensor, axis, shift int) *tensor.RawTensor {
	shape := x.Shape()
	n := shape[axis]
	shift = ((shift % n) + n) % n
	if shift == 0 {
		return x
	}

	_, inner := lineLayout(shape, axis)
	block := inner * x.DType().Size()
	outer := shape.NumElements() / (n * inner)

	result := tensor.MustNewRaw(shape, x.DType(), cpu.device)
	src, dst := x.Data(), result.Data()
	for o := 0; o < outer; o++ {
		for k := 0; k < n; k++ {
			j := (k + shift) % n
			copy(dst[(o*n+j)*block:(o*n+j+1)*block], src[(o*n+k)*block:(o*n+k+1)*block])
		}
	}
	return result
}
