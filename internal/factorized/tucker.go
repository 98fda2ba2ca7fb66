package factorized

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Tucker is a core tensor multiplied by one factor matrix per dimension,
// W[i0, ..., in] = sum core[r0, ..., rn] * F0[i0, r0] * ... * Fn[in, rn].
type Tucker struct {
	shape   tensor.Shape
	core    *tensor.RawTensor   // (R_0, ..., R_n)
	factors []*tensor.RawTensor // (I_k, R_k)
}

func newTucker(shape tensor.Shape, ranks []int) *Tucker {
	t := &Tucker{
		shape:   shape.Clone(),
		core:    newComplex(tensor.Shape(ranks).Clone()),
		factors: make([]*tensor.RawTensor, len(shape)),
	}
	for k, d := range shape {
		t.factors[k] = newComplex(tensor.Shape{d, ranks[k]})
	}
	return t
}

// Kind returns KindTucker.
func (t *Tucker) Kind() Kind { return KindTucker }

// Shape returns the dense shape.
func (t *Tucker) Shape() tensor.Shape { return t.shape }

// Ranks returns the core shape.
func (t *Tucker) Ranks() []int { return t.core.Shape().Clone() }

// Core returns the core tensor.
func (t *Tucker) Core() *tensor.RawTensor { return t.core }

// Factors returns the factor matrices, one per dimension.
func (t *Tucker) Factors() []*tensor.RawTensor { return t.factors }

// Operands returns the core followed by the factors.
func (t *Tucker) Operands() []*tensor.RawTensor {
	return append([]*tensor.RawTensor{t.core}, t.factors...)
}

// ToDense multiplies the core by every factor.
func (t *Tucker) ToDense(b tensor.Backend) *tensor.RawTensor {
	n := len(t.shape)
	dims := dimLabels(n)
	ranks := rankLabels(n, n)
	terms := []string{ranks}
	for k := 0; k < n; k++ {
		terms = append(terms, dims[k:k+1]+ranks[k:k+1])
	}
	return b.Einsum(joinTerms(terms, dims), t.Operands()...)
}

// Window slices the factor rows; the core is shared.
func (t *Tucker) Window(b tensor.Backend, ranges []tensor.Range) Tensor {
	out := &Tucker{
		shape:   t.shape.Clone(),
		core:    t.core,
		factors: slicesClone(t.factors),
	}
	for k, rg := range ranges {
		out.factors[k] = b.Slice(t.factors[k], []tensor.Range{rg})
		out.shape[k] = rg.Len()
	}
	return out
}

// Normal draws the core and the factors with std
// (std/sqrt(prod R))^(1/(n+1)).
func (t *Tucker) Normal(std float64, src rand.Source) {
	scale := 1.0
	for _, r := range t.core.Shape() {
		scale *= math.Sqrt(float64(r))
	}
	factorStd := math.Pow(std/scale, 1/float64(len(t.factors)+1))

	tensor.FillNormal(t.core, factorStd, src)
	for _, f := range t.factors {
		tensor.FillNormal(f, factorStd, src)
	}
}

// NumParams counts the core and the factors.
func (t *Tucker) NumParams() int { return numElements(t.Operands()) }

// StateDict names the core and the factors.
func (t *Tucker) StateDict(prefix string) map[string]*tensor.RawTensor {
	state := map[string]*tensor.RawTensor{prefix + ".core": t.core}
	for k, f := range t.factors {
		state[prefix+".factors."+strconv.Itoa(k)] = f
	}
	return state
}

func (t *Tucker) sealed() {}
