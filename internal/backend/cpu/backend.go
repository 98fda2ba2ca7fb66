// Package cpu implements the CPU backend: broadcasting arithmetic, dtype
// conversion, gonum-backed N-dimensional FFTs and einsum contractions.
package cpu

import (
	"fmt"

	"github.com/born-ml/neuralop/internal/parallel"
	"github.com/born-ml/neuralop/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend using all available cores for independent
// FFT lines and einsum output blocks.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallelism config.
// parallel.Sequential() gives a backend that never spawns goroutines.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, opAdd)
}

// Mul performs element-wise multiplication with NumPy-style broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, opMul)
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opMul
)

func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, op binaryOp) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := tensor.MustNewRaw(outShape, a.DType(), cpu.device)

	switch a.DType() {
	case tensor.Float32:
		binaryBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Float64:
		binaryBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Complex64:
		binaryBroadcast(result.AsComplex64(), a.AsComplex64(), b.AsComplex64(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Complex128:
		binaryBroadcast(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Complex32:
		wa, wb := widenHalf(a.AsComplex32()), widenHalf(b.AsComplex32())
		out := make([]complex64, outShape.NumElements())
		binaryBroadcast(out, wa, wb, outShape, a.Shape(), b.Shape(), op)
		narrowHalf(result.AsComplex32(), out)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

// numeric covers the element types the generic kernels operate on.
type numeric interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

func binaryBroadcast[T numeric](dst, a, b []T, outShape, aShape, bShape tensor.Shape, op binaryOp) {
	if aShape.Equal(bShape) {
		switch op {
		case opAdd:
			for i := range dst {
				dst[i] = a[i] + b[i]
			}
		case opMul:
			for i := range dst {
				dst[i] = a[i] * b[i]
			}
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	for i := range dst {
		x := a[sourceIndex(i, outStrides, aStrides)]
		y := b[sourceIndex(i, outStrides, bStrides)]
		switch op {
		case opAdd:
			dst[i] = x + y
		case opMul:
			dst[i] = x * y
		}
	}
}

func widenHalf(src []tensor.Half32) []complex64 {
	out := make([]complex64, len(src))
	for i, v := range src {
		out[i] = v.Complex64()
	}
	return out
}

func narrowHalf(dst []tensor.Half32, src []complex64) {
	for i, v := range src {
		dst[i] = tensor.NewHalf32(v)
	}
}
