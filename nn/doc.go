// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the spectral layers of Fourier Neural Operators.
//
// # Overview
//
// This package contains:
//   - Layers: SpectralConv (N-dimensional factorized spectral convolution)
//   - Views: SubConv (one weight shared across usage sites)
//   - Utilities: Sequential, Module interface, Parameter, Resample
//   - Persistence: Save, Load, Checkpoint (SafeTensors files)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/neuralop/backend/cpu"
//	    "github.com/born-ml/neuralop/nn"
//	    "github.com/born-ml/neuralop/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    cfg := nn.DefaultSpectralConvConfig(3, 4, 8, 8)
//	    conv, err := nn.NewSpectralConv(cfg, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    x := tensor.Randn[float32](tensor.Shape{2, 3, 16, 16}, backend)
//	    y := conv.Forward(x) // (2, 4, 16, 16)
//	}
//
// # Weight Representations
//
// The weight may be stored densely or as a low-rank decomposition:
//
//	cfg.Factorization = "tucker"             // "dense", "cp", "tucker", "tt"
//	cfg.Rank = 0.1                           // about 10% of the dense parameters
//	cfg.Implementation = nn.ImplementationFactorized
//
// With ImplementationFactorized the activation is contracted with the
// factors directly; ImplementationReconstructed rebuilds the dense window.
//
// # Resolution
//
// The layer is resolution-independent: any input grid with at least as many
// frequencies as the active modes works, and the output grid may differ from
// the input one:
//
//	cfg.OutputScalingFactor = nn.UniformScaling(2, 1)   // double every axis
//	y := conv.ForwardRaw(x.Raw(), nn.WithOutputShape(48, 48))
//
// # Mode Schedules
//
// The number of active modes can change during training, up to MaxNModes:
//
//	cfg.MaxNModes = []int{16, 9}
//	conv, _ := nn.NewSpectralConv(cfg, backend)
//	_ = conv.SetNModes(4, 4)
//	_ = conv.SetNModes(16, 16)
package nn
