// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu is the reference backend of the neuralop library.
//
// Everything runs in pure Go without CGO. The backend covers the primitives
// a spectral layer needs and nothing more:
//   - real and complex N-D FFTs (gonum dsp/fourier) with crop and zero-pad
//   - fftshift and ifftshift, exact for odd lengths
//   - strided window copies (Slice, SetSlice)
//   - broadcasting Add and Mul
//   - einsum that contracts factorized weights without densifying them
//
// Transforms run in double precision whatever the input dtype. Complex32
// operands are widened for arithmetic and rounded back on output.
//
// # Basic Usage
//
//	backend := cpu.New()
//	conv, err := nn.NewSpectralConv(nn.DefaultSpectralConvConfig(3, 4, 8, 8), backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	x := tensor.Randn[float32](tensor.Shape{2, 3, 16, 16}, backend)
//	y := conv.Forward(x) // (2, 4, 16, 16)
//
// Independent FFT lines and einsum output blocks are split across
// goroutines; NewWithConfig bounds the worker count. Results do not depend
// on the worker count. Only SetSlice writes to an argument, so one backend
// can serve concurrent callers.
package cpu
