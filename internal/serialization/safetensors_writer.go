package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/tensor"
)

// SafeTensorsWriter writes state dicts in SafeTensors format.
type SafeTensorsWriter struct {
	file   *os.File
	closed bool
}

// NewSafeTensorsWriter creates a new SafeTensors file writer.
func NewSafeTensorsWriter(path string) (*SafeTensorsWriter, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file")
	}

	return &SafeTensorsWriter{
		file:   file,
		closed: false,
	}, nil
}

// WriteSafeTensors writes tensors to a SafeTensors file.
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
//
// Tensors are written in alphabetical order by name.
func WriteSafeTensors(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	writer, err := NewSafeTensorsWriter(path)
	if err != nil {
		return err
	}

	if err := writer.WriteStateDict(tensors, metadata); err != nil {
		_ = writer.Close() // Best effort close
		return err
	}
	return writer.Close()
}

// WriteStateDict writes a state dictionary to the SafeTensors file.
//
// The state dictionary is a map from parameter names to tensors.
// Tensors are written in alphabetical order by name, and the SHA-256 of the
// data section is stored under ChecksumMetadataKey.
func (w *SafeTensorsWriter) WriteStateDict(stateDict map[string]*tensor.RawTensor, metadata map[string]string) error {
	if w.closed {
		return errors.New("writer is closed")
	}

	// Sort tensor names alphabetically (SafeTensors requirement)
	tensorNames := make([]string, 0, len(stateDict))
	for name := range stateDict {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		tensorNames = append(tensorNames, name)
	}
	sort.Strings(tensorNames)

	header := SafeTensorsHeader{
		Metadata: make(map[string]string, len(metadata)+1),
		Tensors:  make(map[string]SafeTensorInfo, len(stateDict)),
	}
	for k, v := range metadata {
		header.Metadata[k] = v
	}

	// Calculate data offsets for each tensor
	hash := sha256.New()
	var currentOffset int64
	for _, name := range tensorNames {
		raw := stateDict[name]
		dtype, err := dtypeToSafeTensors(raw.DType())
		if err != nil {
			return errors.Wrapf(err, "tensor %s", name)
		}
		size := int64(raw.ByteSize())

		header.Tensors[name] = SafeTensorInfo{
			DType:       dtype,
			Shape:       append([]int(nil), raw.Shape()...),
			DataOffsets: [2]int64{currentOffset, currentOffset + size},
		}
		currentOffset += size
		hash.Write(raw.Data())
	}

	var sum [32]byte
	copy(sum[:], hash.Sum(nil))
	header.Metadata[ChecksumMetadataKey] = FormatChecksum(sum)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	// Write header size (8 bytes, little-endian uint64)
	headerSize := uint64(len(headerJSON))
	if err := binary.Write(w.file, binary.LittleEndian, headerSize); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}

	if _, err := w.file.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	// Write tensor data in alphabetical order
	for _, name := range tensorNames {
		if _, err := w.file.Write(stateDict[name].Data()); err != nil {
			return errors.Wrapf(err, "failed to write tensor %s", name)
		}
	}

	return nil
}

// Close closes the writer and the underlying file.
func (w *SafeTensorsWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
