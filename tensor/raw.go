// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/neuralop/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Typed views via AsFloat32(), AsComplex64(), etc.
//   - Deep copies via Clone()
//
// Most users should use the high-level Tensor[T, B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Complex64, tensor.CPU)
//	data := raw.AsComplex64()
//	clone := raw.Clone()
type RawTensor = tensor.RawTensor

// Range is a half-open index window [Start, Stop) along one axis.
type Range = tensor.Range

// FullRange returns the range covering an axis of the given size.
func FullRange(size int) Range {
	return tensor.FullRange(size)
}
