package cpu

import (
	"github.com/born-ml/neuralop/internal/tensor"
)

// broadcastStrides returns the strides that read a tensor of shape in as if
// it had shape out. Missing leading axes and size-1 axes get stride 0, so a
// (out, 1, 1) bias repeats across a (batch, out, h, w) activation.
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	own := in.ComputeStrides()
	lead := len(out) - len(in)
	for k := lead; k < len(out); k++ {
		if in[k-lead] != 1 {
			strides[k] = own[k-lead]
		}
	}
	return strides
}

// sourceIndex maps flat output index i to the flat index of a broadcast
// operand with strides from broadcastStrides.
func sourceIndex(i int, outStrides, srcStrides []int) int {
	idx := 0
	for k, s := range outStrides {
		idx += (i / s) * srcStrides[k]
		i %= s
	}
	return idx
}

// normalizeAxes resolves negative axes and rejects duplicates.
func normalizeAxes(shape tensor.Shape, axes []int) []int {
	out := make([]int, len(axes))
	seen := make(map[int]bool, len(axes))
	for i, a := range axes {
		a = shape.NormalizeAxis(a)
		if seen[a] {
			panic("duplicate axis in transform axes")
		}
		seen[a] = true
		out[i] = a
	}
	return out
}
