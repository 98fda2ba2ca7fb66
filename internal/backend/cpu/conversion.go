package cpu

import (
	"fmt"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Cast converts the tensor to a different data type.
// Complex to real conversion keeps the real part.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	// No-op if same dtype
	if x.DType() == dtype {
		return x
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	castImpl(result, x)

	return result
}

func castImpl(result, x *tensor.RawTensor) {
	// Hot paths of the spectral layer.
	switch {
	case x.DType() == tensor.Float32 && result.DType() == tensor.Complex64:
		dst := result.AsComplex64()
		for i, v := range x.AsFloat32() {
			dst[i] = complex(v, 0)
		}
		return
	case x.DType() == tensor.Complex64 && result.DType() == tensor.Complex32:
		narrowHalf(result.AsComplex32(), x.AsComplex64())
		return
	case x.DType() == tensor.Complex32 && result.DType() == tensor.Complex64:
		dst := result.AsComplex64()
		for i, v := range x.AsComplex32() {
			dst[i] = v.Complex64()
		}
		return
	}

	storeComplex128(result, loadComplex128(x))
}

// loadComplex128 widens any supported dtype to complex128.
func loadComplex128(x *tensor.RawTensor) []complex128 {
	out := make([]complex128, x.NumElements())
	switch x.DType() {
	case tensor.Float32:
		for i, v := range x.AsFloat32() {
			out[i] = complex(float64(v), 0)
		}
	case tensor.Float64:
		for i, v := range x.AsFloat64() {
			out[i] = complex(v, 0)
		}
	case tensor.Complex32:
		for i, v := range x.AsComplex32() {
			out[i] = complex128(v.Complex64())
		}
	case tensor.Complex64:
		for i, v := range x.AsComplex64() {
			out[i] = complex128(v)
		}
	case tensor.Complex128:
		copy(out, x.AsComplex128())
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %v", x.DType()))
	}
	return out
}

// storeComplex128 narrows src into result's dtype.
func storeComplex128(result *tensor.RawTensor, src []complex128) {
	switch result.DType() {
	case tensor.Float32:
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(real(v))
		}
	case tensor.Float64:
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = real(v)
		}
	case tensor.Complex32:
		dst := result.AsComplex32()
		for i, v := range src {
			dst[i] = tensor.NewHalf32(complex64(v))
		}
	case tensor.Complex64:
		dst := result.AsComplex64()
		for i, v := range src {
			dst[i] = complex64(v)
		}
	case tensor.Complex128:
		copy(result.AsComplex128(), src)
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %v", result.DType()))
	}
}
