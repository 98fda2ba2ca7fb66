// Package factorized stores complex spectral weights either densely or as a
// low-rank decomposition (CP, Tucker, tensor train).
//
// A factorized weight can be reconstructed to its dense form, windowed
// along any of its dimensions without reconstruction, and contracted with
// activations directly through its Operands.
package factorized

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedRepresentation reports a weight representation name that is
// none of dense, cp, tucker or tt.
var ErrUnsupportedRepresentation = errors.New("unsupported factorized representation")

// Kind identifies the algebraic form of a weight.
type Kind int

// Supported weight representations.
const (
	KindDense Kind = iota
	KindCP
	KindTucker
	KindTT
)

// String returns the canonical representation name.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "Dense"
	case KindCP:
		return "CP"
	case KindTucker:
		return "Tucker"
	case KindTT:
		return "TT"
	default:
		return "Unknown"
	}
}

// ParseKind maps a representation name to its Kind.
//
// Matching is case-insensitive on the name's suffix, so "ComplexTucker" and
// "tucker" both select KindTucker. The empty name selects KindDense.
func ParseKind(name string) (Kind, error) {
	lower := strings.ToLower(name)
	switch {
	case lower == "" || strings.HasSuffix(lower, "dense"):
		return KindDense, nil
	case strings.HasSuffix(lower, "tucker"):
		return KindTucker, nil
	case strings.HasSuffix(lower, "tt"):
		return KindTT, nil
	case strings.HasSuffix(lower, "cp"):
		return KindCP, nil
	default:
		return KindDense, errors.Wrapf(ErrUnsupportedRepresentation, "got unexpected factorized weight type %q", name)
	}
}
