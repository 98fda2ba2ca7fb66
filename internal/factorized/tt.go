package factorized

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/born-ml/neuralop/internal/tensor"
)

// TT is a tensor-train weight: a chain of 3-index cores linked by rank
// bonds, W[i0, ..., in] = G0[:, i0, :] G1[:, i1, :] ... Gn[:, in, :].
type TT struct {
	shape tensor.Shape
	ranks []int               // (1, R_1, ..., R_{n-1}, 1)
	cores []*tensor.RawTensor // (R_k, I_k, R_{k+1})
}

func newTT(shape tensor.Shape, ranks []int) *TT {
	t := &TT{
		shape: shape.Clone(),
		ranks: append([]int(nil), ranks...),
		cores: make([]*tensor.RawTensor, len(shape)),
	}
	for k, d := range shape {
		t.cores[k] = newComplex(tensor.Shape{ranks[k], d, ranks[k+1]})
	}
	return t
}

// Kind returns KindTT.
func (t *TT) Kind() Kind { return KindTT }

// Shape returns the dense shape.
func (t *TT) Shape() tensor.Shape { return t.shape }

// Ranks returns the bond ranks including the boundary ones.
func (t *TT) Ranks() []int { return append([]int(nil), t.ranks...) }

// Cores returns the train cores.
func (t *TT) Cores() []*tensor.RawTensor { return t.cores }

// Operands returns the cores.
func (t *TT) Operands() []*tensor.RawTensor { return t.cores }

// ToDense multiplies the chain out.
func (t *TT) ToDense(b tensor.Backend) *tensor.RawTensor {
	n := len(t.shape)
	dims := dimLabels(n)
	bonds := rankLabels(n, n+1)
	terms := make([]string, n)
	for k := 0; k < n; k++ {
		terms[k] = bonds[k:k+1] + dims[k:k+1] + bonds[k+1:k+2]
	}
	return b.Einsum(joinTerms(terms, dims), t.cores...)
}

// Window slices the middle axis of every core.
func (t *TT) Window(b tensor.Backend, ranges []tensor.Range) Tensor {
	out := &TT{
		shape: t.shape.Clone(),
		ranks: t.ranks,
		cores: slicesClone(t.cores),
	}
	for k, rg := range ranges {
		out.cores[k] = b.Slice(t.cores[k], []tensor.Range{tensor.FullRange(t.ranks[k]), rg})
		out.shape[k] = rg.Len()
	}
	return out
}

// Normal draws every core with std (std/sqrt(prod R))^(1/n); each entry
// of the train sums prod R paths of n core entries.
func (t *TT) Normal(std float64, src rand.Source) {
	paths := 1.0
	for _, r := range t.ranks {
		paths *= float64(r)
	}
	coreStd := math.Pow(std/math.Sqrt(paths), 1/float64(len(t.cores)))
	for _, c := range t.cores {
		tensor.FillNormal(c, coreStd, src)
	}
}

// NumParams counts the cores.
func (t *TT) NumParams() int { return numElements(t.cores) }

// StateDict names the cores as factors.
func (t *TT) StateDict(prefix string) map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor, len(t.cores))
	for k, c := range t.cores {
		state[prefix+".factors."+strconv.Itoa(k)] = c
	}
	return state
}

func (t *TT) sealed() {}
