// Package tensor provides the core tensor types and operations for the neuralop library.
package tensor

// DType is a constraint for supported tensor data types.
// It uses Go generics to ensure compile-time type safety.
//
// Half32 is the reduced-precision complex element used by the half and
// mixed precision modes of the spectral layers.
type DType interface {
	~float32 | ~float64 | ~complex64 | ~complex128 | Half32
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Complex32
	Complex64
	Complex128
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Complex32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex32:
		return "complex32"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// IsComplex reports whether the data type holds complex values.
func (dt DataType) IsComplex() bool {
	return dt == Complex32 || dt == Complex64 || dt == Complex128
}

// ComplexOf returns the complex type with the same component precision.
// Float32 maps to Complex64 and Float64 to Complex128; complex types map to themselves.
func (dt DataType) ComplexOf() DataType {
	switch dt {
	case Float32:
		return Complex64
	case Float64:
		return Complex128
	default:
		return dt
	}
}

// RealOf returns the real type with the same component precision.
// Complex32 has no real counterpart in the tensor types and maps to Float32.
func (dt DataType) RealOf() DataType {
	switch dt {
	case Complex32, Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case Half32:
		return Complex32
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
