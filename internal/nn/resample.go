package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Resample changes the resolution of x along axes in frequency space.
//
// The target size of axis k is outputShape[k] when outputShape is given,
// else round(size * scale), where scale holds one ratio or one per axis.
// The lowest common frequencies are copied between the two grids and the
// rest are zero-filled (upsampling) or dropped (downsampling). Transforms use
// forward normalization, so sample values keep their amplitude.
//
// Real tensors use the real transform with its one-sided last axis; complex
// tensors keep both frequency signs on every axis.
func Resample(b tensor.Backend, x *tensor.RawTensor, scale []float64, axes []int, outputShape []int) *tensor.RawTensor {
	shape := x.Shape()
	if len(axes) == 0 {
		panic("resample: no axes")
	}
	axes = append([]int(nil), axes...)
	for i, a := range axes {
		axes[i] = shape.NormalizeAxis(a)
	}

	newSize := make([]int, len(axes))
	switch {
	case outputShape != nil:
		if len(outputShape) != len(axes) {
			panic(fmt.Sprintf("resample: output shape %v does not match %d axes", outputShape, len(axes)))
		}
		copy(newSize, outputShape)
	case len(scale) == 1 || len(scale) == len(axes):
		for k, a := range axes {
			r := scale[0]
			if len(scale) > 1 {
				r = scale[k]
			}
			newSize[k] = max(1, int(math.RoundToEven(float64(shape[a])*r)))
		}
	default:
		panic(fmt.Sprintf("resample: got %d scale factors for %d axes", len(scale), len(axes)))
	}

	complexData := x.DType().IsComplex()

	var spec *tensor.RawTensor
	if complexData {
		spec = b.FFTN(x, axes, nil, tensor.NormForward)
	} else {
		spec = b.RFFTN(x, axes, tensor.NormForward)
	}

	outFFTShape := spec.Shape().Clone()
	for k, a := range axes {
		outFFTShape[a] = newSize[k]
	}
	if !complexData {
		last := axes[len(axes)-1]
		outFFTShape[last] = newSize[len(newSize)-1]/2 + 1
	}

	out := tensor.MustNewRaw(outFFTShape, spec.DType(), b.Device())
	copyLowModes(b, out, spec, axes, !complexData)

	if complexData {
		return b.IFFTN(out, axes, newSize, tensor.NormForward)
	}
	return b.IRFFTN(out, axes, newSize, tensor.NormForward)
}

// copyLowModes copies every corner block of the frequencies common to src
// and dst. Along two-sided axes the first m/2 and the last ceil(m/2)
// entries are copied; along a one-sided last axis the first m entries.
func copyLowModes(b tensor.Backend, dst, src *tensor.RawTensor, axes []int, oneSidedLast bool) {
	type segment struct{ src, dst tensor.Range }

	ndim := len(src.Shape())
	segments := make([][]segment, ndim)
	for a := 0; a < ndim; a++ {
		segments[a] = []segment{{tensor.FullRange(src.Shape()[a]), tensor.FullRange(dst.Shape()[a])}}
	}

	for k, a := range axes {
		ns, nd := src.Shape()[a], dst.Shape()[a]
		m := min(ns, nd)
		if oneSidedLast && k == len(axes)-1 {
			segments[a] = []segment{{tensor.Range{Start: 0, Stop: m}, tensor.Range{Start: 0, Stop: m}}}
			continue
		}
		pos, neg := m/2, m-m/2
		segments[a] = segments[a][:0]
		if pos > 0 {
			segments[a] = append(segments[a], segment{tensor.Range{Start: 0, Stop: pos}, tensor.Range{Start: 0, Stop: pos}})
		}
		segments[a] = append(segments[a], segment{tensor.Range{Start: ns - neg, Stop: ns}, tensor.Range{Start: nd - neg, Stop: nd}})
	}

	srcRanges := make([]tensor.Range, ndim)
	dstRanges := make([]tensor.Range, ndim)
	var walk func(a int)
	walk = func(a int) {
		if a == ndim {
			b.SetSlice(dst, dstRanges, b.Slice(src, srcRanges))
			return
		}
		for _, s := range segments[a] {
			srcRanges[a], dstRanges[a] = s.src, s.dst
			walk(a + 1)
		}
	}
	walk(0)
}
