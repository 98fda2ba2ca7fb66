package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/neuralop/internal/tensor"
)

// seedMix decorrelates the two PCG words derived from a single seed.
const seedMix = 0x9e3779b97f4a7c15

// AutoInitStd returns the default weight standard deviation
// sqrt(2 / (in_channels + out_channels)).
func AutoInitStd(inChannels, outChannels int) float64 {
	return math.Sqrt(2.0 / float64(inChannels+outChannels))
}

// initSource returns a seeded source, or nil (the global source) for seed 0.
func initSource(seed uint64) rand.Source {
	if seed == 0 {
		return nil
	}
	return rand.NewPCG(seed, seed^seedMix)
}

// normalBias allocates a float32 bias of shape (out, 1, ..., 1) with order
// trailing singleton axes and fills it with N(0, std²) samples.
func normalBias(outChannels, order int, std float64, src rand.Source) *tensor.RawTensor {
	shape := make(tensor.Shape, order+1)
	shape[0] = outChannels
	for k := 1; k <= order; k++ {
		shape[k] = 1
	}
	bias := tensor.MustNewRaw(shape, tensor.Float32, tensor.CPU)
	tensor.FillNormal(bias, std, src)
	return bias
}
