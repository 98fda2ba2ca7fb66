package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/neuralop/internal/parallel"
	"github.com/born-ml/neuralop/internal/tensor"
)

// grid is the complex128 working buffer shared by all transforms.
// Every dtype is widened to it on entry and narrowed on exit, so the
// transforms themselves always run in double precision.
type grid struct {
	data  []complex128
	shape tensor.Shape
}

func newGrid(x *tensor.RawTensor) *grid {
	return &grid{data: loadComplex128(x), shape: x.Shape().Clone()}
}

// lineLayout returns the number of lines along axis and the stride between
// consecutive elements of a line.
func lineLayout(shape tensor.Shape, axis int) (lines, inner int) {
	inner = 1
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	return shape.NumElements() / shape[axis], inner
}

// lineBase returns the flat offset of the first element of line l.
func lineBase(l, n, inner int) int {
	return (l/inner)*n*inner + l%inner
}

// resize crops or zero-pads axis at its end to length n.
func (g *grid) resize(axis, n int) {
	old := g.shape[axis]
	if old == n {
		return
	}
	outShape := g.shape.Clone()
	outShape[axis] = n

	_, inner := lineLayout(g.shape, axis)
	outer := g.shape.NumElements() / (old * inner)
	keep := min(old, n)

	out := make([]complex128, outShape.NumElements())
	for o := 0; o < outer; o++ {
		copy(out[o*n*inner:(o*n+keep)*inner], g.data[o*old*inner:(o*old+keep)*inner])
	}
	g.data = out
	g.shape = outShape
}

func (g *grid) scale(f float64) {
	if f == 1 {
		return
	}
	cmplxs.Scale(complex(f, 0), g.data)
}

// transformAxis runs a complex DFT along axis. Lines are independent and
// split across workers, each with its own gonum plan.
func (cpu *CPUBackend) transformAxis(g *grid, axis int, inverse bool) {
	n := g.shape[axis]
	if n == 1 {
		return
	}
	lines, inner := lineLayout(g.shape, axis)

	parallel.ForRange(lines, func(start, end int) {
		plan := fourier.NewCmplxFFT(n)
		in := make([]complex128, n)
		out := make([]complex128, n)
		for l := start; l < end; l++ {
			base := lineBase(l, n, inner)
			for k := 0; k < n; k++ {
				in[k] = g.data[base+k*inner]
			}
			if inverse {
				plan.Sequence(out, in)
			} else {
				plan.Coefficients(out, in)
			}
			for k := 0; k < n; k++ {
				g.data[base+k*inner] = out[k]
			}
		}
	}, cpu.par)
}

// FFTN computes the complex N-D transform over axes.
func (cpu *CPUBackend) FFTN(x *tensor.RawTensor, axes, sizes []int, norm tensor.FFTNorm) *tensor.RawTensor {
	return cpu.complexTransform(x, axes, sizes, norm, false)
}

// IFFTN computes the inverse complex N-D transform over axes.
func (cpu *CPUBackend) IFFTN(x *tensor.RawTensor, axes, sizes []int, norm tensor.FFTNorm) *tensor.RawTensor {
	return cpu.complexTransform(x, axes, sizes, norm, true)
}

func (cpu *CPUBackend) complexTransform(x *tensor.RawTensor, axes, sizes []int, norm tensor.FFTNorm, inverse bool) *tensor.RawTensor {
	axes = normalizeAxes(x.Shape(), axes)
	if sizes != nil && len(sizes) != len(axes) {
		panic(fmt.Sprintf("fft: %d sizes for %d axes", len(sizes), len(axes)))
	}

	g := newGrid(x)
	points := 1
	for k, a := range axes {
		if sizes != nil {
			g.resize(a, sizes[k])
		}
		points *= g.shape[a]
		cpu.transformAxis(g, a, inverse)
	}
	g.scale(norm.Scale(points, inverse))

	result := tensor.MustNewRaw(g.shape, spectrumDType(x.DType()), cpu.device)
	storeComplex128(result, g.data)
	return result
}

// RFFTN transforms a real tensor over axes. The last listed axis is
// transformed first with a real-input plan and keeps n/2+1 coefficients.
func (cpu *CPUBackend) RFFTN(x *tensor.RawTensor, axes []int, norm tensor.FFTNorm) *tensor.RawTensor {
	if x.DType().IsComplex() {
		panic(fmt.Sprintf("rfftn: input must be real, got %s", x.DType()))
	}
	if len(axes) == 0 {
		panic("rfftn: no axes")
	}
	axes = normalizeAxes(x.Shape(), axes)
	last := axes[len(axes)-1]

	src := loadFloat64(x)
	shape := x.Shape()
	n := shape[last]
	m := n/2 + 1

	outShape := shape.Clone()
	outShape[last] = m
	g := &grid{data: make([]complex128, outShape.NumElements()), shape: outShape}

	lines, inner := lineLayout(shape, last)
	parallel.ForRange(lines, func(start, end int) {
		plan := fourier.NewFFT(n)
		seq := make([]float64, n)
		coeff := make([]complex128, m)
		for l := start; l < end; l++ {
			srcBase := lineBase(l, n, inner)
			dstBase := lineBase(l, m, inner)
			for k := 0; k < n; k++ {
				seq[k] = src[srcBase+k*inner]
			}
			if n == 1 {
				coeff[0] = complex(seq[0], 0)
			} else {
				plan.Coefficients(coeff, seq)
			}
			for k := 0; k < m; k++ {
				g.data[dstBase+k*inner] = coeff[k]
			}
		}
	}, cpu.par)

	points := n
	for _, a := range axes[:len(axes)-1] {
		points *= shape[a]
		cpu.transformAxis(g, a, false)
	}
	g.scale(norm.Scale(points, false))

	result := tensor.MustNewRaw(outShape, spectrumDType(x.DType()), cpu.device)
	storeComplex128(result, g.data)
	return result
}

// IRFFTN inverts RFFTN. sizes gives the real output length of every axis;
// each axis is cropped or zero-padded at its end to match before the
// transform, the last one to sizes[last]/2+1 coefficients.
func (cpu *CPUBackend) IRFFTN(x *tensor.RawTensor, axes, sizes []int, norm tensor.FFTNorm) *tensor.RawTensor {
	if len(axes) == 0 {
		panic("irfftn: no axes")
	}
	axes = normalizeAxes(x.Shape(), axes)
	if sizes == nil {
		sizes = make([]int, len(axes))
		for k, a := range axes {
			sizes[k] = x.Shape()[a]
		}
		sizes[len(sizes)-1] = 2 * (x.Shape()[axes[len(axes)-1]] - 1)
	}
	if len(sizes) != len(axes) {
		panic(fmt.Sprintf("irfftn: %d sizes for %d axes", len(sizes), len(axes)))
	}
	last := axes[len(axes)-1]
	n := sizes[len(sizes)-1]
	if n < 1 {
		panic(fmt.Sprintf("irfftn: invalid output length %d", n))
	}
	m := n/2 + 1

	g := newGrid(x)
	points := n
	for k, a := range axes[:len(axes)-1] {
		g.resize(a, sizes[k])
		points *= sizes[k]
		cpu.transformAxis(g, a, true)
	}
	g.resize(last, m)

	outShape := g.shape.Clone()
	outShape[last] = n
	out := make([]float64, outShape.NumElements())

	lines, inner := lineLayout(g.shape, last)
	parallel.ForRange(lines, func(start, end int) {
		plan := fourier.NewFFT(n)
		coeff := make([]complex128, m)
		seq := make([]float64, n)
		for l := start; l < end; l++ {
			srcBase := lineBase(l, m, inner)
			dstBase := lineBase(l, n, inner)
			for k := 0; k < m; k++ {
				coeff[k] = g.data[srcBase+k*inner]
			}
			if n == 1 {
				seq[0] = real(coeff[0])
			} else {
				plan.Sequence(seq, coeff)
			}
			for k := 0; k < n; k++ {
				out[dstBase+k*inner] = seq[k]
			}
		}
	}, cpu.par)

	if f := norm.Scale(points, true); f != 1 {
		floats.Scale(f, out)
	}

	result := tensor.MustNewRaw(outShape, x.DType().RealOf(), cpu.device)
	storeFloat64(result, out)
	return result
}

// spectrumDType is the dtype a transform of dt produces.
func spectrumDType(dt tensor.DataType) tensor.DataType {
	switch dt {
	case tensor.Float64, tensor.Complex128:
		return tensor.Complex128
	case tensor.Complex32:
		return tensor.Complex32
	default:
		return tensor.Complex64
	}
}

func loadFloat64(x *tensor.RawTensor) []float64 {
	switch x.DType() {
	case tensor.Float64:
		return append([]float64(nil), x.AsFloat64()...)
	case tensor.Float32:
		out := make([]float64, x.NumElements())
		for i, v := range x.AsFloat32() {
			out[i] = float64(v)
		}
		return out
	default:
		panic(fmt.Sprintf("expected real dtype, got %s", x.DType()))
	}
}

func storeFloat64(result *tensor.RawTensor, src []float64) {
	switch result.DType() {
	case tensor.Float64:
		copy(result.AsFloat64(), src)
	case tensor.Float32:
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	default:
		panic(fmt.Sprintf("expected real dtype, got %s", result.DType()))
	}
}
