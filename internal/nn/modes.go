package nn

import (
	"github.com/born-ml/neuralop/internal/tensor"
)

// adjustModes converts requested mode counts to the counts stored by a layer.
//
// Every axis keeps its requested count except the last axis of real data,
// which stores requested/2 + 1: the real transform keeps only the
// non-negative frequencies of that axis. The function must be applied to raw
// requested counts only; adjusting an already adjusted list shrinks it again.
func adjustModes(requested []int, complexData bool) []int {
	modes := append([]int(nil), requested...)
	if !complexData && len(modes) > 0 {
		last := len(modes) - 1
		modes[last] = modes[last]/2 + 1
	}
	return modes
}

// modeWindow returns the window of length size-start along one spectral axis.
//
// Two-sided axes (centered by the forward shift) drop start/2 entries at the
// front and the rest at the back. The one-sided last axis of a real
// transform only drops entries at the back.
func modeWindow(size, start int, oneSided bool) tensor.Range {
	switch {
	case start == 0:
		return tensor.FullRange(size)
	case oneSided:
		return tensor.Range{Start: 0, Stop: size - start}
	default:
		return tensor.Range{Start: start / 2, Stop: size - (start+1)/2}
	}
}
