package factorized

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/born-ml/neuralop/internal/tensor"
)

// CP is a canonical polyadic weight: a sum of R rank-one terms,
// W[i0, ..., in] = sum_r weights[r] * F0[i0, r] * ... * Fn[in, r].
type CP struct {
	shape   tensor.Shape
	rank    int
	weights *tensor.RawTensor   // (R)
	factors []*tensor.RawTensor // (I_k, R)
}

func newCP(shape tensor.Shape, rank int) *CP {
	cp := &CP{
		shape:   shape.Clone(),
		rank:    rank,
		weights: newComplex(tensor.Shape{rank}),
		factors: make([]*tensor.RawTensor, len(shape)),
	}
	for k, d := range shape {
		cp.factors[k] = newComplex(tensor.Shape{d, rank})
	}
	tensor.FillConstant(cp.weights, 1)
	return cp
}

// Kind returns KindCP.
func (cp *CP) Kind() Kind { return KindCP }

// Shape returns the dense shape.
func (cp *CP) Shape() tensor.Shape { return cp.shape }

// Ranks returns (R).
func (cp *CP) Ranks() []int { return []int{cp.rank} }

// Weights returns the rank-weight vector.
func (cp *CP) Weights() *tensor.RawTensor { return cp.weights }

// Factors returns the factor matrices, one per dimension.
func (cp *CP) Factors() []*tensor.RawTensor { return cp.factors }

// Operands returns the weights followed by the factors.
func (cp *CP) Operands() []*tensor.RawTensor {
	return append([]*tensor.RawTensor{cp.weights}, cp.factors...)
}

// ToDense sums the rank-one terms.
func (cp *CP) ToDense(b tensor.Backend) *tensor.RawTensor {
	dims := dimLabels(len(cp.shape))
	r := rankLabels(len(cp.shape), 1)
	terms := []string{r}
	for k := range cp.factors {
		terms = append(terms, dims[k:k+1]+r)
	}
	return b.Einsum(joinTerms(terms, dims), cp.Operands()...)
}

// Window slices the factor rows; the rank-weight vector is shared.
func (cp *CP) Window(b tensor.Backend, ranges []tensor.Range) Tensor {
	out := &CP{
		shape:   cp.shape.Clone(),
		rank:    cp.rank,
		weights: cp.weights,
		factors: slicesClone(cp.factors),
	}
	for k, rg := range ranges {
		out.factors[k] = b.Slice(cp.factors[k], []tensor.Range{rg})
		out.shape[k] = rg.Len()
	}
	return out
}

// Normal sets the rank weights to one and draws every factor with std
// (std/sqrt(R))^(1/n), so reconstructed entries have std about std.
func (cp *CP) Normal(std float64, src rand.Source) {
	tensor.FillConstant(cp.weights, 1)
	factorStd := math.Pow(std/math.Sqrt(float64(cp.rank)), 1/float64(len(cp.factors)))
	for _, f := range cp.factors {
		tensor.FillNormal(f, factorStd, src)
	}
}

// NumParams counts the weights and the factors.
func (cp *CP) NumParams() int { return numElements(cp.Operands()) }

// StateDict names the rank weights and the factors.
func (cp *CP) StateDict(prefix string) map[string]*tensor.RawTensor {
	state := map[string]*tensor.RawTensor{prefix + ".weights": cp.weights}
	for k, f := range cp.factors {
		state[prefix+".factors."+strconv.Itoa(k)] = f
	}
	return state
}

func (cp *CP) sealed() {}

func slicesClone(ts []*tensor.RawTensor) []*tensor.RawTensor {
	return append([]*tensor.RawTensor(nil), ts...)
}
