package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// The operation set is what spectral neural operators need: element-wise
// arithmetic with broadcasting, dtype conversion, N-dimensional Fourier
// transforms, frequency shifts, window copies and einsum contractions.
//
// Implementations:
//   - CPU: Pure Go, FFTs via gonum (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting).
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Type conversion. Complex to real keeps the real part.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// FFTN computes the complex N-D transform over axes. sizes (optional,
	// one per axis) crops or zero-pads each axis at its end before the transform.
	FFTN(x *RawTensor, axes, sizes []int, norm FFTNorm) *RawTensor
	// IFFTN is the inverse of FFTN with the same sizes semantics.
	IFFTN(x *RawTensor, axes, sizes []int, norm FFTNorm) *RawTensor
	// RFFTN transforms a real tensor; the last axis keeps n/2+1 coefficients.
	RFFTN(x *RawTensor, axes []int, norm FFTNorm) *RawTensor
	// IRFFTN inverts RFFTN. sizes gives the real output length per axis;
	// when nil the last axis length is 2*(m-1).
	IRFFTN(x *RawTensor, axes, sizes []int, norm FFTNorm) *RawTensor

	// Frequency shifts (zero frequency to the center and back).
	FFTShift(x *RawTensor, axes []int) *RawTensor
	IFFTShift(x *RawTensor, axes []int) *RawTensor

	// Window operations. Axes beyond len(ranges) are taken whole.
	Slice(x *RawTensor, ranges []Range) *RawTensor
	SetSlice(dst *RawTensor, ranges []Range, src *RawTensor)

	// Einsum evaluates an explicit-output equation such as "bixy,ioxy->boxy".
	Einsum(equation string, operands ...*RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
