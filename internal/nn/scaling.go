package nn

import (
	"math"
	"slices"
)

// normalizeScaling expands per-site output scaling factors to one ratio per
// spatial axis. A site given as a single ratio applies it to every axis.
func normalizeScaling(factors [][]float64, order int) ([][]float64, error) {
	if factors == nil {
		return nil, nil
	}
	if len(factors) == 0 {
		return nil, configErrorf("OutputScalingFactor", "at least one site is required when set")
	}

	out := make([][]float64, len(factors))
	for site, ratios := range factors {
		switch len(ratios) {
		case 1:
			out[site] = slices.Repeat([]float64{ratios[0]}, order)
		case order:
			out[site] = slices.Clone(ratios)
		default:
			return nil, configErrorf("OutputScalingFactor",
				"site %d: got %d ratios, want 1 or %d", site, len(ratios), order)
		}
		for _, r := range out[site] {
			if !(r > 0) || math.IsInf(r, 0) {
				return nil, configErrorf("OutputScalingFactor", "site %d: ratio %v must be positive", site, r)
			}
		}
	}
	return out, nil
}

// UniformScaling returns scaling factors for sites usage sites that all
// resample every axis by ratio.
func UniformScaling(ratio float64, sites int) [][]float64 {
	out := make([][]float64, sites)
	for i := range out {
		out[i] = []float64{ratio}
	}
	return out
}

// scaledShape returns round(d_k * r_k) for every spatial size, rounding
// halves to even and never going below one sample.
func scaledShape(spatial []int, ratios []float64) []int {
	out := make([]int, len(spatial))
	for k, d := range spatial {
		out[k] = max(1, int(math.RoundToEven(float64(d)*ratios[k])))
	}
	return out
}
