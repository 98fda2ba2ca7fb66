package factorized

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Tensor is a complex weight in one of the closed set of representations.
//
// Implementations: *Dense, *CP, *Tucker, *TT.
type Tensor interface {
	// Kind returns the representation.
	Kind() Kind
	// Shape returns the shape of the dense tensor this weight represents.
	Shape() tensor.Shape
	// Ranks returns the resolved ranks: nil for Dense, (R) for CP, the core
	// shape for Tucker and the bond ranks (1, R_1, ..., 1) for TT.
	Ranks() []int
	// Operands returns the stored tensors in contraction order: the weight
	// itself for Dense, weights then factors for CP, core then factors for
	// Tucker, and the cores for TT. They alias the weight's storage.
	Operands() []*tensor.RawTensor
	// ToDense reconstructs the full complex tensor.
	ToDense(b tensor.Backend) *tensor.RawTensor
	// Window returns a weight restricted to ranges along each dimension
	// without reconstructing it. Dimensions beyond len(ranges) stay whole.
	Window(b tensor.Backend, ranges []tensor.Range) Tensor
	// Normal re-initializes the weight in place so the reconstructed tensor
	// has entries of standard deviation about std.
	Normal(std float64, src rand.Source)
	// NumParams returns the number of complex parameters stored.
	NumParams() int
	// StateDict names every stored tensor under prefix.
	StateDict(prefix string) map[string]*tensor.RawTensor

	sealed()
}

// Options controls how New builds a weight.
type Options struct {
	// Rank is the fractional rank: the factorized weight holds about Rank
	// times the parameters of the dense one. Ignored for Dense or when
	// Ranks is set.
	Rank float64

	// Ranks gives explicit ranks: one value for CP, one per mode for Tucker,
	// and the inner bonds (or the full chain) for TT.
	Ranks []int

	// FixedModes lists Tucker modes kept at full rank.
	FixedModes []int
}

// New allocates a zero-valued complex64 weight of the given shape and kind.
// Call Normal to initialize it.
func New(shape tensor.Shape, kind Kind, opts Options) (Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "factorized weight shape")
	}
	if kind != KindDense && len(opts.Ranks) == 0 && opts.Rank <= 0 {
		return nil, errors.Errorf("fractional rank must be positive, got %v", opts.Rank)
	}
	for _, m := range opts.FixedModes {
		if m < 0 || m >= len(shape) {
			return nil, errors.Errorf("fixed mode %d out of range for shape %v", m, shape)
		}
	}

	ranks, err := resolveRanks(kind, shape, opts.Rank, opts.Ranks, opts.FixedModes)
	if err != nil {
		return nil, errors.Wrapf(err, "%s weight of shape %v", kind, shape)
	}

	switch kind {
	case KindDense:
		return &Dense{data: newComplex(shape)}, nil
	case KindCP:
		return newCP(shape, ranks[0]), nil
	case KindTucker:
		return newTucker(shape, ranks), nil
	case KindTT:
		return newTT(shape, ranks), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedRepresentation, "kind %d", int(kind))
	}
}

// LoadStateDict copies tensors saved by StateDict back into w.
// Names, shapes and dtypes must match exactly; nothing is copied otherwise.
func LoadStateDict(w Tensor, prefix string, state map[string]*tensor.RawTensor) error {
	own := w.StateDict(prefix)
	for name, dst := range own {
		src, ok := state[name]
		if !ok {
			return errors.Errorf("missing tensor %q", name)
		}
		if !src.Shape().Equal(dst.Shape()) {
			return errors.Errorf("tensor %q: shape %v, want %v", name, src.Shape(), dst.Shape())
		}
		if src.DType() != dst.DType() {
			return errors.Errorf("tensor %q: dtype %s, want %s", name, src.DType(), dst.DType())
		}
	}
	for name, dst := range own {
		copy(dst.Data(), state[name].Data())
	}
	return nil
}

func newComplex(shape tensor.Shape) *tensor.RawTensor {
	return tensor.MustNewRaw(shape, tensor.Complex64, tensor.CPU)
}

// dimLabels returns one einsum label per dense dimension.
func dimLabels(n int) string {
	return tensor.EinsumSymbols[:n]
}

// rankLabels returns count labels that do not collide with dimLabels(n).
func rankLabels(n, count int) string {
	if n+count > len(tensor.EinsumSymbols) {
		panic(fmt.Sprintf("factorized: %d dims with %d ranks exceed the einsum alphabet", n, count))
	}
	return tensor.EinsumSymbols[n : n+count]
}

func joinTerms(terms []string, out string) string {
	return strings.Join(terms, ",") + "->" + out
}

func numElements(ts []*tensor.RawTensor) int {
	n := 0
	for _, t := range ts {
		n += t.NumElements()
	}
	return n
}
