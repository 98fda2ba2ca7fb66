// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/neuralop/internal/nn"
	"github.com/born-ml/neuralop/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all parameters
//
// Modules can be composed to build larger operators:
//
//	up, _ := conv.SubConv(1)
//	model := nn.NewSequential[*cpu.Backend](conv, up)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] = nn.Module[B]

// Stateful is implemented by modules whose parameters can be exported to and
// restored from a flat name -> tensor map. SpectralConv and Sequential are
// Stateful; SubConv views are not, their owner carries the state.
type Stateful = nn.Stateful

// Save writes a module's state dictionary to a SafeTensors file.
//
// Parameters:
//   - module: The module to save
//   - path: File path to write to
//   - metadata: Optional metadata (can be nil)
//
// Example:
//
//	backend := cpu.New()
//	conv, _ := nn.NewSpectralConv(nn.DefaultSpectralConvConfig(3, 4, 8, 8), backend)
//	err := nn.Save(conv, "conv.safetensors", map[string]string{"dataset": "darcy"})
func Save(module Stateful, path string, metadata map[string]string) error {
	ckpt := &nn.Checkpoint{Model: module, Metadata: metadata}
	return ckpt.Save(path)
}

// Load reads a file written by Save into module and returns its metadata.
//
// Example:
//
//	meta, err := nn.Load("conv.safetensors", conv)
func Load(path string, module Stateful) (map[string]string, error) {
	ckpt, err := nn.LoadCheckpoint(path, module)
	if err != nil {
		return nil, err
	}
	return ckpt.Metadata, nil
}
