package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing tensor plumbing.
// Element-wise ops and casts work on same-shape operands; the spectral and
// contraction ops are left to real backends and panic here.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition of same-shape tensors.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y complex128) complex128 { return x + y })
}

// Mul performs element-wise multiplication of same-shape tensors.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y complex128) complex128 { return x * y })
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(x, y complex128) complex128) *RawTensor {
	if !a.Shape().Equal(b.Shape()) || a.DType() != b.DType() {
		panic(fmt.Sprintf("mock: operands %s%v and %s%v differ", a.DType(), a.Shape(), b.DType(), b.Shape()))
	}
	out := MustNewRaw(a.Shape(), a.DType(), CPU)
	for i := 0; i < out.NumElements(); i++ {
		out.setComplex(i, op(a.ComplexAt(i), b.ComplexAt(i)))
	}
	return out
}

// Cast converts element by element through complex128.
func (m *MockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor {
	if x.DType() == dtype {
		return x
	}
	out := MustNewRaw(x.Shape(), dtype, CPU)
	for i := 0; i < out.NumElements(); i++ {
		out.setComplex(i, x.ComplexAt(i))
	}
	return out
}

// FFTN is not supported by the mock.
func (m *MockBackend) FFTN(_ *RawTensor, _, _ []int, _ FFTNorm) *RawTensor {
	panic("mock: FFTN not supported")
}

// IFFTN is not supported by the mock.
func (m *MockBackend) IFFTN(_ *RawTensor, _, _ []int, _ FFTNorm) *RawTensor {
	panic("mock: IFFTN not supported")
}

// RFFTN is not supported by the mock.
func (m *MockBackend) RFFTN(_ *RawTensor, _ []int, _ FFTNorm) *RawTensor {
	panic("mock: RFFTN not supported")
}

// IRFFTN is not supported by the mock.
func (m *MockBackend) IRFFTN(_ *RawTensor, _, _ []int, _ FFTNorm) *RawTensor {
	panic("mock: IRFFTN not supported")
}

// FFTShift is not supported by the mock.
func (m *MockBackend) FFTShift(_ *RawTensor, _ []int) *RawTensor {
	panic("mock: FFTShift not supported")
}

// IFFTShift is not supported by the mock.
func (m *MockBackend) IFFTShift(_ *RawTensor, _ []int) *RawTensor {
	panic("mock: IFFTShift not supported")
}

// Slice is not supported by the mock.
func (m *MockBackend) Slice(_ *RawTensor, _ []Range) *RawTensor {
	panic("mock: Slice not supported")
}

// SetSlice is not supported by the mock.
func (m *MockBackend) SetSlice(_ *RawTensor, _ []Range, _ *RawTensor) {
	panic("mock: SetSlice not supported")
}

// Einsum is not supported by the mock.
func (m *MockBackend) Einsum(_ string, _ ...*RawTensor) *RawTensor {
	panic("mock: Einsum not supported")
}
