package serialization

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/neuralop/internal/tensor"
)

func testStateDict(t *testing.T) map[string]*tensor.RawTensor {
	t.Helper()

	core := tensor.MustNewRaw(tensor.Shape{2, 3}, tensor.Complex64, tensor.CPU)
	for i := range core.AsComplex64() {
		core.AsComplex64()[i] = complex(float32(i), -float32(i)/2)
	}
	factor := tensor.MustNewRaw(tensor.Shape{4, 2}, tensor.Complex128, tensor.CPU)
	for i := range factor.AsComplex128() {
		factor.AsComplex128()[i] = complex(0.25*float64(i), 1)
	}
	bias := tensor.MustNewRaw(tensor.Shape{3, 1, 1}, tensor.Float32, tensor.CPU)
	copy(bias.AsFloat32(), []float32{0.1, 0.2, 0.3})
	scale := tensor.MustNewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	copy(scale.AsFloat64(), []float64{1.5, -2})

	return map[string]*tensor.RawTensor{
		"weight.core":      core,
		"weight.factors.0": factor,
		"bias":             bias,
		"scale":            scale,
	}
}

// TestSafeTensorsRoundTrip tests round-trip: write → read → verify.
func TestSafeTensorsRoundTrip(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "roundtrip.safetensors")
	original := testStateDict(t)

	err := WriteSafeTensors(testFile, original, map[string]string{"format": "neuralop"})
	require.NoError(t, err)

	loaded, metadata, err := ReadSafeTensors(testFile)
	require.NoError(t, err)

	assert.Equal(t, "neuralop", metadata["format"])
	assert.Contains(t, metadata, ChecksumMetadataKey)
	require.Len(t, loaded, len(original))

	for name, want := range original {
		got, ok := loaded[name]
		require.True(t, ok, name)
		assert.Equal(t, want.Shape(), got.Shape(), name)
		assert.Equal(t, want.DType(), got.DType(), name)
		assert.Equal(t, want.Data(), got.Data(), name)
	}
}

// TestSafeTensorsAlphabeticalOrder checks offsets follow sorted names.
func TestSafeTensorsAlphabeticalOrder(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "order.safetensors")
	require.NoError(t, WriteSafeTensors(testFile, testStateDict(t), nil))

	reader, err := NewSafeTensorsReader(testFile, ValidationStrict)
	require.NoError(t, err)
	defer reader.Close()

	names := reader.TensorNames()
	assert.Equal(t, []string{"bias", "scale", "weight.core", "weight.factors.0"}, names)

	var prevEnd int64
	for _, name := range names {
		info, err := reader.TensorInfo(name)
		require.NoError(t, err)
		assert.Equal(t, prevEnd, info.DataOffsets[0], name)
		prevEnd = info.DataOffsets[1]
	}

	info, err := reader.TensorInfo("weight.core")
	require.NoError(t, err)
	assert.Equal(t, SafeTensorsC64, info.DType)
	assert.Equal(t, []int{2, 3}, info.Shape)

	_, err = reader.TensorInfo("missing")
	assert.True(t, errors.Is(err, ErrTensorNotFound))
}

func TestSafeTensorsHeaderLayout(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "layout.safetensors")
	bias := tensor.MustNewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	copy(bias.AsFloat32(), []float32{1, 2})
	require.NoError(t, WriteSafeTensors(testFile, map[string]*tensor.RawTensor{"bias": bias}, nil))

	raw, err := os.ReadFile(testFile)
	require.NoError(t, err)

	headerSize := binary.LittleEndian.Uint64(raw[:8])
	header := raw[8 : 8+headerSize]
	assert.Contains(t, string(header), `"bias":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}`)
	assert.Contains(t, string(header), `"__metadata__"`)
	assert.Len(t, raw, 8+int(headerSize)+8)
}

func TestSafeTensorsUnsupportedDType(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "half.safetensors")
	half := tensor.MustNewRaw(tensor.Shape{2}, tensor.Complex32, tensor.CPU)

	err := WriteSafeTensors(testFile, map[string]*tensor.RawTensor{"weight": half}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDType))
}

func TestSafeTensorsRejectsBadNames(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "names.safetensors")
	bias := tensor.MustNewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)

	err := WriteSafeTensors(testFile, map[string]*tensor.RawTensor{"../bias": bias}, nil)
	assert.True(t, errors.Is(err, ErrInvalidTensorName))
}

func TestSafeTensorsDetectsCorruption(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "corrupt.safetensors")
	require.NoError(t, WriteSafeTensors(testFile, testStateDict(t), nil))

	raw, err := os.ReadFile(testFile)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(testFile, raw, 0o600))

	_, _, err = ReadSafeTensors(testFile)
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
}

func TestSafeTensorsTruncatedFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "truncated.safetensors")
	require.NoError(t, WriteSafeTensors(testFile, testStateDict(t), nil))

	raw, err := os.ReadFile(testFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(testFile, raw[:len(raw)-4], 0o600))

	_, _, err = ReadSafeTensors(testFile)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestSafeTensorsHeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))
	testFile := filepath.Join(t.TempDir(), "huge.safetensors")
	require.NoError(t, os.WriteFile(testFile, buf.Bytes(), 0o600))

	_, err := NewSafeTensorsReader(testFile, ValidationStrict)
	assert.True(t, errors.Is(err, ErrHeaderTooLarge))
}

func TestWriterClosed(t *testing.T) {
	w, err := NewSafeTensorsWriter(filepath.Join(t.TempDir(), "closed.safetensors"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	assert.Error(t, w.WriteStateDict(map[string]*tensor.RawTensor{}, nil))
}
