package cpu

import (
	"fmt"
	"strings"

	"github.com/born-ml/neuralop/internal/parallel"
	"github.com/born-ml/neuralop/internal/tensor"
)

// Einsum evaluates an explicit-output einsum equation.
//
// Operands are contracted two at a time, always picking the pair whose
// intermediate result is smallest, so factorized weights are never expanded
// to their dense form unless the equation asks for it. All operands must share
// one dtype; Complex32 operands are contracted pairwise with every
// intermediate rounded back to half precision.
func (cpu *CPUBackend) Einsum(equation string, operands ...*tensor.RawTensor) *tensor.RawTensor {
	eq, err := tensor.ParseEquation(equation)
	if err != nil {
		panic(err.Error())
	}
	shapes := make([]tensor.Shape, len(operands))
	for i, op := range operands {
		shapes[i] = op.Shape()
		if op.DType() != operands[0].DType() {
			panic(fmt.Sprintf("einsum: operand %d is %s, operand 0 is %s", i, op.DType(), operands[0].DType()))
		}
	}
	sizes, err := eq.Sizes(shapes)
	if err != nil {
		panic(err.Error())
	}

	outShape := make(tensor.Shape, len(eq.Output))
	for i := 0; i < len(eq.Output); i++ {
		outShape[i] = sizes[eq.Output[i]]
	}
	result := tensor.MustNewRaw(outShape, operands[0].DType(), cpu.device)

	switch operands[0].DType() {
	case tensor.Float32:
		copy(result.AsFloat32(), einsumPath(cpu, eq, sizes, collect(operands, (*tensor.RawTensor).AsFloat32), nil))
	case tensor.Float64:
		copy(result.AsFloat64(), einsumPath(cpu, eq, sizes, collect(operands, (*tensor.RawTensor).AsFloat64), nil))
	case tensor.Complex64:
		copy(result.AsComplex64(), einsumPath(cpu, eq, sizes, collect(operands, (*tensor.RawTensor).AsComplex64), nil))
	case tensor.Complex128:
		copy(result.AsComplex128(), einsumPath(cpu, eq, sizes, collect(operands, (*tensor.RawTensor).AsComplex128), nil))
	case tensor.Complex32:
		data := make([][]complex64, len(operands))
		for i, op := range operands {
			data[i] = widenHalf(op.AsComplex32())
		}
		narrowHalf(result.AsComplex32(), einsumPath(cpu, eq, sizes, data, roundHalf))
	default:
		panic(fmt.Sprintf("einsum: unsupported dtype %s", operands[0].DType()))
	}
	return result
}

func collect[T numeric](operands []*tensor.RawTensor, view func(*tensor.RawTensor) []T) [][]T {
	out := make([][]T, len(operands))
	for i, op := range operands {
		out[i] = view(op)
	}
	return out
}

// roundHalf rounds every intermediate of the half-precision path.
func roundHalf(data []complex64) {
	for i, v := range data {
		data[i] = tensor.NewHalf32(v).Complex64()
	}
}

// term is one operand on the contraction path.
type term[T numeric] struct {
	labels string
	data   []T
}

// einsumPath contracts the operands pairwise until only the output is left.
// round, when non-nil, is applied to every intermediate result.
func einsumPath[T numeric](cpu *CPUBackend, eq *tensor.Equation, sizes map[byte]int, data [][]T, round func([]T)) []T {
	terms := make([]term[T], len(data))
	for i := range data {
		terms[i] = term[T]{labels: eq.Inputs[i], data: data[i]}
	}

	for len(terms) > 2 {
		bi, bj, bestLabels, bestSize := 0, 1, "", -1
		for i := 0; i < len(terms); i++ {
			for j := i + 1; j < len(terms); j++ {
				labels := pairLabels(terms, i, j, eq.Output)
				size := labelVolume(labels, sizes)
				if bestSize < 0 || size < bestSize {
					bi, bj, bestLabels, bestSize = i, j, labels, size
				}
			}
		}

		merged := term[T]{
			labels: bestLabels,
			data:   contract(cpu, terms[bi], &terms[bj], bestLabels, sizes),
		}
		if round != nil {
			round(merged.data)
		}
		rest := make([]term[T], 0, len(terms)-1)
		for k := range terms {
			if k != bi && k != bj {
				rest = append(rest, terms[k])
			}
		}
		terms = append(rest, merged)
	}

	var out []T
	if len(terms) == 2 {
		out = contract(cpu, terms[0], &terms[1], eq.Output, sizes)
	} else {
		out = contract(cpu, terms[0], nil, eq.Output, sizes)
	}
	if round != nil {
		round(out)
	}
	return out
}

// pairLabels returns the labels that survive contracting terms i and j:
// those needed by the output or by any other remaining term.
func pairLabels[T numeric](terms []term[T], i, j int, output string) string {
	needed := func(c byte) bool {
		if strings.IndexByte(output, c) >= 0 {
			return true
		}
		for k := range terms {
			if k != i && k != j && strings.IndexByte(terms[k].labels, c) >= 0 {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	for _, c := range []byte(terms[i].labels + terms[j].labels) {
		if needed(c) && strings.IndexByte(b.String(), c) < 0 {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func labelVolume(labels string, sizes map[byte]int) int {
	v := 1
	for i := 0; i < len(labels); i++ {
		v *= sizes[labels[i]]
	}
	return v
}

// contract computes out[keep] = sum over the other labels of a * b.
// b may be nil, in which case a is only summed and permuted.
func contract[T numeric](cpu *CPUBackend, a term[T], b *term[T], keep string, sizes map[byte]int) []T {
	all := a.labels
	if b != nil {
		all += b.labels
	}
	var summed []byte
	for _, c := range []byte(all) {
		if strings.IndexByte(keep, c) < 0 && !containsByte(summed, c) {
			summed = append(summed, c)
		}
	}

	aStride := labelStrides(a.labels, sizes)
	var bStride map[byte]int
	if b != nil {
		bStride = labelStrides(b.labels, sizes)
	}

	keepDims, keepA, keepB := axisPlan(keep, sizes, aStride, bStride)
	sumDims, sumA, sumB := axisPlan(string(summed), sizes, aStride, bStride)
	sumCount := 1
	for _, d := range sumDims {
		sumCount *= d
	}

	out := make([]T, labelVolume(keep, sizes))
	parallel.ForRange(len(out), func(start, end int) {
		idx := unravel(start, keepDims)
		sumIdx := make([]int, len(sumDims))
		for o := start; o < end; o++ {
			baseA, baseB := 0, 0
			for d, v := range idx {
				baseA += v * keepA[d]
				baseB += v * keepB[d]
			}

			var acc T
			for d := range sumIdx {
				sumIdx[d] = 0
			}
			offA, offB := baseA, baseB
			for s := 0; s < sumCount; s++ {
				if b != nil {
					acc += a.data[offA] * b.data[offB]
				} else {
					acc += a.data[offA]
				}
				// Advance the summation odometer.
				for d := len(sumIdx) - 1; d >= 0; d-- {
					sumIdx[d]++
					offA += sumA[d]
					offB += sumB[d]
					if sumIdx[d] < sumDims[d] {
						break
					}
					offA -= sumA[d] * sumDims[d]
					offB -= sumB[d] * sumDims[d]
					sumIdx[d] = 0
				}
			}
			out[o] = acc

			for d := len(idx) - 1; d >= 0; d-- {
				idx[d]++
				if idx[d] < keepDims[d] {
					break
				}
				idx[d] = 0
			}
		}
	}, cpu.par)
	return out
}

// labelStrides maps each label of an operand to its row-major stride.
func labelStrides(labels string, sizes map[byte]int) map[byte]int {
	strides := make(map[byte]int, len(labels))
	s := 1
	for i := len(labels) - 1; i >= 0; i-- {
		strides[labels[i]] = s
		s *= sizes[labels[i]]
	}
	return strides
}

// axisPlan returns the dims of labels and each operand's stride along them
// (zero when the operand does not carry the label).
func axisPlan(labels string, sizes map[byte]int, aStride, bStride map[byte]int) (dims, sa, sb []int) {
	dims = make([]int, len(labels))
	sa = make([]int, len(labels))
	sb = make([]int, len(labels))
	for i := 0; i < len(labels); i++ {
		c := labels[i]
		dims[i] = sizes[c]
		sa[i] = aStride[c]
		sb[i] = bStride[c]
	}
	return dims, sa, sb
}

func unravel(flat int, dims []int) []int {
	idx := make([]int, len(dims))
	for d := len(dims) - 1; d >= 0; d-- {
		idx[d] = flat % dims[d]
		flat /= dims[d]
	}
	return idx
}

func containsByte(s []byte, c byte) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}
