package serialization

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/tensor"
)

// SafeTensorsReader reads SafeTensors format files.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	headerSize uint64
	dataOffset int64 // Offset where tensor data starts
	dataSize   int64
}

// NewSafeTensorsReader opens path and validates its header at the given level.
func NewSafeTensorsReader(path string, level ValidationLevel) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	r, err := newSafeTensorsReader(file, level)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	return r, nil
}

func newSafeTensorsReader(file *os.File, level ValidationLevel) (*SafeTensorsReader, error) {
	// Read header size (8 bytes, little-endian uint64)
	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, errors.Wrap(err, "failed to parse header JSON")
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}
	dataOffset := int64(8 + headerSize) //nolint:gosec // G115: headerSize is bounded by MaxHeaderSize.
	dataSize := stat.Size() - dataOffset

	if err := ValidateHeader(&header, dataSize, level); err != nil {
		return nil, err
	}

	return &SafeTensorsReader{
		file:       file,
		header:     header,
		headerSize: headerSize,
		dataOffset: dataOffset,
		dataSize:   dataSize,
	}, nil
}

// Close closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns all tensor names in the file, sorted.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, errors.Wrapf(ErrTensorNotFound, "%s", name)
	}
	return &info, nil
}

// ReadTensorData reads raw tensor data for a given tensor name.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	start := info.DataOffsets[0]
	size := info.DataOffsets[1] - start
	if start < 0 || size < 0 || start+size > r.dataSize {
		return nil, errors.Errorf("invalid data offsets for tensor %s: [%d, %d]",
			name, info.DataOffsets[0], info.DataOffsets[1])
	}

	data := make([]byte, size)
	if _, err := r.file.ReadAt(data, r.dataOffset+start); err != nil {
		return nil, errors.Wrapf(err, "failed to read tensor %s", name)
	}
	return data, nil
}

// ReadTensor reads a tensor into a new CPU RawTensor.
func (r *SafeTensorsReader) ReadTensor(name string) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	dtype, err := dataTypeFromSafeTensors(info.DType)
	if err != nil {
		return nil, errors.Wrapf(err, "tensor %s", name)
	}
	raw, err := tensor.NewRaw(tensor.Shape(info.Shape), dtype, tensor.CPU)
	if err != nil {
		return nil, errors.Wrapf(err, "tensor %s", name)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	if len(data) != raw.ByteSize() {
		return nil, &ValidationError{
			Type:    "size_mismatch",
			Tensor:  name,
			Details: "data length does not match shape and dtype",
		}
	}
	copy(raw.Data(), data)
	return raw, nil
}

// VerifyChecksum recomputes the SHA-256 of the data section and compares it
// with the stored metadata entry. Files without the entry pass.
func (r *SafeTensorsReader) VerifyChecksum() error {
	stored, ok := r.header.Metadata[ChecksumMetadataKey]
	if !ok {
		return nil
	}
	want, err := ParseChecksum(stored)
	if err != nil {
		return err
	}
	got, err := ComputeChecksumReader(io.NewSectionReader(r.file, r.dataOffset, r.dataSize))
	if err != nil {
		return errors.Wrap(err, "failed to hash data section")
	}
	return ValidateChecksum(got, want)
}

// ReadSafeTensors loads every tensor of a SafeTensors file with strict
// validation and checksum verification.
func ReadSafeTensors(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	r, err := NewSafeTensorsReader(path, ValidationStrict)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = r.Close() // Best effort close
	}()

	if err := r.VerifyChecksum(); err != nil {
		return nil, nil, errors.Wrap(err, path)
	}

	state := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, name := range r.TensorNames() {
		raw, err := r.ReadTensor(name)
		if err != nil {
			return nil, nil, err
		}
		state[name] = raw
	}
	return state, r.Metadata(), nil
}
