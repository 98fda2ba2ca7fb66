package tensor

import (
	"fmt"
	"math"
)

// FFTNorm selects how forward/inverse Fourier transforms are scaled.
// The naming follows the usual numeric-library convention.
type FFTNorm int

const (
	// NormBackward leaves the forward transform unscaled and scales the inverse by 1/n.
	NormBackward FFTNorm = iota
	// NormForward scales the forward transform by 1/n and leaves the inverse unscaled.
	NormForward
	// NormOrtho scales both directions by 1/sqrt(n).
	NormOrtho
)

// ParseFFTNorm converts "backward", "forward" or "ortho" to an FFTNorm.
// The empty string means "backward".
func ParseFFTNorm(s string) (FFTNorm, error) {
	switch s {
	case "", "backward":
		return NormBackward, nil
	case "forward":
		return NormForward, nil
	case "ortho":
		return NormOrtho, nil
	default:
		return NormBackward, fmt.Errorf("unknown fft norm %q (want backward, forward or ortho)", s)
	}
}

// String returns the configuration name of the norm.
func (n FFTNorm) String() string {
	switch n {
	case NormBackward:
		return "backward"
	case NormForward:
		return "forward"
	case NormOrtho:
		return "ortho"
	default:
		return "unknown"
	}
}

// Scale returns the factor applied to a transform over n points.
func (n FFTNorm) Scale(points int, inverse bool) float64 {
	switch n {
	case NormOrtho:
		return 1 / math.Sqrt(float64(points))
	case NormForward:
		if inverse {
			return 1
		}
		return 1 / float64(points)
	default:
		if inverse {
			return 1 / float64(points)
		}
		return 1
	}
}
