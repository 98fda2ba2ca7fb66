package nn

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/factorized"
	"github.com/born-ml/neuralop/internal/tensor"
)

// contractFunc multiplies a windowed spectrum x (batch, in, modes...) with a
// windowed weight in frequency space. Weight operands are cast to x's dtype,
// so complex32 spectra run through the backend's half-precision einsum.
type contractFunc func(b tensor.Backend, x *tensor.RawTensor, w factorized.Tensor, separable bool) *tensor.RawTensor

// selectContraction binds the contraction for a layer once at construction.
//
// The reconstructed implementation always rebuilds the dense weight window;
// the factorized implementation contracts with the stored factors.
func selectContraction(impl Implementation, kind factorized.Kind, separable bool) (contractFunc, error) {
	switch impl {
	case ImplementationReconstructed:
		if separable {
			return contractDenseSeparable, nil
		}
		return contractDense, nil

	case ImplementationFactorized:
		switch kind {
		case factorized.KindDense:
			return contractDense, nil
		case factorized.KindTucker:
			return contractTucker, nil
		case factorized.KindTT:
			return contractTT, nil
		case factorized.KindCP:
			return contractCP, nil
		default:
			return nil, errors.Wrapf(factorized.ErrUnsupportedRepresentation,
				"got unexpected factorized weight type %s", kind)
		}

	default:
		return nil, configErrorf("Implementation",
			"got implementation=%q, expected \"reconstructed\" or \"factorized\"", impl)
	}
}

func contractDense(b tensor.Backend, x *tensor.RawTensor, w factorized.Tensor, separable bool) *tensor.RawTensor {
	eq := denseEquation(len(x.Shape()), separable)
	return b.Einsum(eq, x, b.Cast(w.ToDense(b), x.DType()))
}

func contractDenseSeparable(b tensor.Backend, x *tensor.RawTensor, w factorized.Tensor, _ bool) *tensor.RawTensor {
	return b.Mul(x, b.Cast(w.ToDense(b), x.DType()))
}

func contractCP(b tensor.Backend, x *tensor.RawTensor, w factorized.Tensor, separable bool) *tensor.RawTensor {
	return contractOperands(b, cpEquation(len(x.Shape()), separable), x, w)
}

func contractTucker(b tensor.Backend, x *tensor.RawTensor, w factorized.Tensor, separable bool) *tensor.RawTensor {
	return contractOperands(b, tuckerEquation(len(x.Shape()), separable), x, w)
}

func contractTT(b tensor.Backend, x *tensor.RawTensor, w factorized.Tensor, separable bool) *tensor.RawTensor {
	return contractOperands(b, ttEquation(len(x.Shape()), separable), x, w)
}

func contractOperands(b tensor.Backend, eq string, x *tensor.RawTensor, w factorized.Tensor) *tensor.RawTensor {
	ops := w.Operands()
	operands := make([]*tensor.RawTensor, 0, len(ops)+1)
	operands = append(operands, x)
	for _, op := range ops {
		operands = append(operands, b.Cast(op, x.DType()))
	}
	return b.Einsum(eq, operands...)
}

// denseEquation builds "abcd,becd->aecd" (or "abcd,bcd->abcd" when
// separable) for an activation of the given rank.
func denseEquation(order int, separable bool) string {
	syms := tensor.EinsumSymbols
	xSyms := syms[:order]
	weightSyms := xSyms[1:]
	outSyms := xSyms

	if !separable {
		weightSyms = weightSyms[:1] + syms[order:order+1] + weightSyms[1:]
		outSyms = xSyms[:1] + weightSyms[1:]
	}
	return xSyms + "," + weightSyms + "->" + outSyms
}

// cpEquation contracts with the rank weights, the channel factors and one
// factor per mode: "abcd,e,be,fe,ce,de->afcd".
func cpEquation(order int, separable bool) string {
	syms := tensor.EinsumSymbols
	xSyms := syms[:order]
	rankSym := syms[order : order+1]
	outSym := syms[order+1 : order+2]

	outSyms := xSyms
	factorSyms := []string{syms[1:2] + rankSym}
	if !separable {
		outSyms = xSyms[:1] + outSym + xSyms[2:]
		factorSyms = append(factorSyms, outSym+rankSym)
	}
	for _, s := range xSyms[2:] {
		factorSyms = append(factorSyms, string(s)+rankSym)
	}
	return xSyms + "," + rankSym + "," + strings.Join(factorSyms, ",") + "->" + outSyms
}

// tuckerEquation contracts with the core and one factor per weight mode:
// "abcd,fghi,bf,eg,ch,di->aecd" for a 4-D activation.
func tuckerEquation(order int, separable bool) string {
	syms := tensor.EinsumSymbols
	xSyms := syms[:order]
	outSym := syms[order : order+1]

	var coreSyms string
	var factorSyms []string
	outSyms := xSyms
	if separable {
		coreSyms = syms[order+1 : 2*order]
		for k, s := range xSyms[1:] {
			factorSyms = append(factorSyms, string(s)+coreSyms[k:k+1])
		}
	} else {
		coreSyms = syms[order+1 : 2*order+1]
		outSyms = xSyms[:1] + outSym + xSyms[2:]
		factorSyms = []string{syms[1:2] + coreSyms[0:1], outSym + coreSyms[1:2]}
		for k, s := range xSyms[2:] {
			factorSyms = append(factorSyms, string(s)+coreSyms[k+2:k+3])
		}
	}
	return xSyms + "," + coreSyms + "," + strings.Join(factorSyms, ",") + "->" + outSyms
}

// ttEquation walks the activation through the chain of cores linked by bond
// labels: "abcd,fbg,geh,hci,idj->aecd".
func ttEquation(order int, separable bool) string {
	syms := tensor.EinsumSymbols
	xSyms := syms[:order]
	weightSyms := xSyms[1:]
	outSyms := xSyms

	if !separable {
		weightSyms = weightSyms[:1] + syms[order:order+1] + weightSyms[1:]
		outSyms = xSyms[:1] + weightSyms[1:]
	}

	rankSyms := syms[order+1:]
	cores := make([]string, len(weightSyms))
	for k := range weightSyms {
		cores[k] = rankSyms[k:k+1] + weightSyms[k:k+1] + rankSyms[k+1:k+2]
	}
	return xSyms + "," + strings.Join(cores, ",") + "->" + outSyms
}
