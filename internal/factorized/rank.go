package factorized

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// CPRank resolves a fractional CP rank: the rank whose factors hold about
// ratio times the parameters of the dense tensor.
func CPRank(shape []int, ratio float64) int {
	return max(1, int(math.Round(ratio*float64(prod(shape))/float64(sum(shape)))))
}

// TuckerRanks resolves a fractional Tucker rank to one rank per mode.
//
// Each compressed mode keeps round(I_k * f) components, where f solves
// prod(I)*f^m + (sum of squared compressed dims + sum of squared fixed dims)*f = ratio*prod(I)
// and m is the number of compressed modes. Fixed modes keep their full size.
func TuckerRanks(shape []int, ratio float64, fixedModes []int) []int {
	total := float64(prod(shape))

	var squared, fixedSquared float64
	compressed := 0
	for k, d := range shape {
		if slices.Contains(fixedModes, k) {
			fixedSquared += float64(d * d)
			continue
		}
		squared += float64(d * d)
		compressed++
	}

	f := func(x float64) float64 {
		return total*math.Pow(x, float64(compressed)) + (squared+fixedSquared)*x - ratio*total
	}
	fraction := bisect(f, 0, math.Max(ratio, 1))

	ranks := make([]int, len(shape))
	for k, d := range shape {
		if slices.Contains(fixedModes, k) {
			ranks[k] = d
			continue
		}
		ranks[k] = max(1, int(math.Round(float64(d)*fraction)))
	}
	return ranks
}

// TTRanks resolves a fractional tensor-train rank to the bond ranks
// (R_0, ..., R_n) with R_0 = R_n = 1 and every inner bond equal.
func TTRanks(shape []int, ratio float64) []int {
	n := len(shape)
	ranks := make([]int, n+1)
	ranks[0], ranks[n] = 1, 1
	if n == 1 {
		return ranks
	}

	params := ratio * float64(prod(shape))
	var r float64
	if n == 2 {
		r = params / float64(shape[0]+shape[1])
	} else {
		a := float64(sum(shape[1 : n-1]))
		b := float64(shape[0] + shape[n-1])
		r = (-b + math.Sqrt(b*b+4*a*params)) / (2 * a)
	}
	inner := max(1, int(math.Round(r)))
	for k := 1; k < n; k++ {
		ranks[k] = inner
	}
	return ranks
}

// bisect finds a root of the increasing function f on [lo, hi].
func bisect(f func(float64) float64, lo, hi float64) float64 {
	for range 200 {
		mid := (lo + hi) / 2
		if f(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
		if hi-lo < 1e-12 {
			break
		}
	}
	return (lo + hi) / 2
}

// resolveRanks picks explicit ranks when given, else the fractional rule of kind.
func resolveRanks(kind Kind, shape []int, ratio float64, explicit []int, fixedModes []int) ([]int, error) {
	for _, r := range explicit {
		if r < 1 {
			return nil, errors.Errorf("rank %d must be at least 1", r)
		}
	}

	switch kind {
	case KindCP:
		if len(explicit) > 0 {
			if len(explicit) != 1 {
				return nil, errors.Errorf("cp takes a single rank, got %v", explicit)
			}
			return []int{explicit[0]}, nil
		}
		return []int{CPRank(shape, ratio)}, nil

	case KindTucker:
		if len(explicit) > 0 {
			if len(explicit) != len(shape) {
				return nil, errors.Errorf("tucker needs %d ranks, got %v", len(shape), explicit)
			}
			return slices.Clone(explicit), nil
		}
		return TuckerRanks(shape, ratio, fixedModes), nil

	case KindTT:
		if len(explicit) > 0 {
			// Accept either the inner bonds or the full (1, ..., 1) chain.
			switch len(explicit) {
			case len(shape) - 1:
				return append(append([]int{1}, explicit...), 1), nil
			case len(shape) + 1:
				if explicit[0] != 1 || explicit[len(explicit)-1] != 1 {
					return nil, errors.Errorf("tt boundary ranks must be 1, got %v", explicit)
				}
				return slices.Clone(explicit), nil
			default:
				return nil, errors.Errorf("tt needs %d inner ranks, got %v", len(shape)-1, explicit)
			}
		}
		return TTRanks(shape, ratio), nil

	default:
		return nil, nil
	}
}

func prod(xs []int) int {
	p := 1
	for _, x := range xs {
		p *= x
	}
	return p
}

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}
