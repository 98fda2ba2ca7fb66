// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/neuralop/internal/backend/cpu"
	"github.com/born-ml/neuralop/internal/parallel"
	"github.com/born-ml/neuralop/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of every tensor
// operation the spectral layers need, with FFTs from gonum.
type Backend = internalcpu.CPUBackend

// Config controls how the backend spreads work across goroutines.
type Config = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/neuralop/backend/cpu"
//	    "github.com/born-ml/neuralop/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns parallelism settings sized to the machine.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}
