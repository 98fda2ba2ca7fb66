package serialization

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/tensor"
)

// SafeTensorsDType represents supported SafeTensors data types.
type SafeTensorsDType string

// Supported SafeTensors dtypes.
const (
	SafeTensorsF32  SafeTensorsDType = "F32"
	SafeTensorsF64  SafeTensorsDType = "F64"
	SafeTensorsC64  SafeTensorsDType = "C64"
	SafeTensorsC128 SafeTensorsDType = "C128"
)

const metadataKey = "__metadata__"

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON implements custom JSON unmarshaling for SafeTensorsHeader.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	// First parse as generic map
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	// Extract metadata
	if metadataRaw, ok := rawMap[metadataKey]; ok {
		if len(metadataRaw) > MaxMetadataSize {
			return errors.Errorf("metadata of %d bytes exceeds max %d", len(metadataRaw), MaxMetadataSize)
		}
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return errors.Wrap(err, "failed to unmarshal metadata")
		}
	}

	// Extract tensors (everything except __metadata__)
	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == metadataKey {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return errors.Wrapf(err, "failed to unmarshal tensor %s", key)
		}
		h.Tensors[key] = info
	}

	return nil
}

// MarshalJSON writes tensors and metadata as one flat JSON object.
func (h SafeTensorsHeader) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		flat[metadataKey] = h.Metadata
	}
	for name, info := range h.Tensors {
		flat[name] = info
	}
	return json.Marshal(flat)
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (SafeTensorsDType, error) {
	switch dt {
	case tensor.Float32:
		return SafeTensorsF32, nil
	case tensor.Float64:
		return SafeTensorsF64, nil
	case tensor.Complex64:
		return SafeTensorsC64, nil
	case tensor.Complex128:
		return SafeTensorsC128, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedDType, "%s has no SafeTensors encoding", dt)
	}
}

// dataTypeFromSafeTensors converts a SafeTensors dtype to a tensor.DataType.
func dataTypeFromSafeTensors(dtype SafeTensorsDType) (tensor.DataType, error) {
	switch dtype {
	case SafeTensorsF32:
		return tensor.Float32, nil
	case SafeTensorsF64:
		return tensor.Float64, nil
	case SafeTensorsC64:
		return tensor.Complex64, nil
	case SafeTensorsC128:
		return tensor.Complex128, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedDType, "%q", string(dtype))
	}
}
