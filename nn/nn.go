// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/neuralop/internal/factorized"
	"github.com/born-ml/neuralop/internal/nn"
	"github.com/born-ml/neuralop/tensor"
)

// Spectral convolution

// SpectralConv is an N-dimensional factorized spectral convolution.
type SpectralConv[B tensor.Backend] = nn.SpectralConv[B]

// SpectralConvConfig defines the configuration for a SpectralConv layer.
type SpectralConvConfig = nn.SpectralConvConfig

// DefaultSpectralConvConfig returns a configuration with bias enabled, full
// precision, rank 0.5, a dense weight and backward FFT normalization.
//
// Example:
//
//	cfg := nn.DefaultSpectralConvConfig(3, 4, 8, 8) // in=3, out=4, 8x8 modes
func DefaultSpectralConvConfig(inChannels, outChannels int, nModes ...int) SpectralConvConfig {
	return nn.DefaultSpectralConvConfig(inChannels, outChannels, nModes...)
}

// NewSpectralConv validates cfg and creates an initialized layer.
//
// Example:
//
//	backend := cpu.New()
//	conv, err := nn.NewSpectralConv(nn.DefaultSpectralConvConfig(3, 4, 8, 8), backend)
func NewSpectralConv[B tensor.Backend](cfg SpectralConvConfig, backend B) (*SpectralConv[B], error) {
	return nn.NewSpectralConv(cfg, backend)
}

// SubConv is a view of a SpectralConv bound to one usage site.
type SubConv[B tensor.Backend] = nn.SubConv[B]

// PrecisionMode selects the numeric precision of the frequency-domain path.
type PrecisionMode = nn.PrecisionMode

// Precision modes.
const (
	PrecisionFull  = nn.PrecisionFull
	PrecisionHalf  = nn.PrecisionHalf
	PrecisionMixed = nn.PrecisionMixed
)

// Implementation selects how a factorized weight meets the activation.
type Implementation = nn.Implementation

// Implementations.
const (
	ImplementationReconstructed = nn.ImplementationReconstructed
	ImplementationFactorized    = nn.ImplementationFactorized
)

// ForwardOption adjusts a single forward pass.
type ForwardOption = nn.ForwardOption

// WithOutputShape sets the spatial output shape of one forward pass.
func WithOutputShape(shape ...int) ForwardOption {
	return nn.WithOutputShape(shape...)
}

// WithSite selects the output scaling factor of usage site i.
func WithSite(i int) ForwardOption {
	return nn.WithSite(i)
}

// UniformScaling returns scaling factors for sites usage sites that all
// resample every axis by ratio.
func UniformScaling(ratio float64, sites int) [][]float64 {
	return nn.UniformScaling(ratio, sites)
}

// AutoInitStd returns the default weight std sqrt(2 / (in + out)).
func AutoInitStd(inChannels, outChannels int) float64 {
	return nn.AutoInitStd(inChannels, outChannels)
}

// Resample changes the resolution of x along axes in frequency space.
//
// Example:
//
//	y := nn.Resample(backend, x.Raw(), []float64{2}, []int{2, 3}, nil) // 2x upsampling
func Resample(b tensor.Backend, x *tensor.RawTensor, scale []float64, axes []int, outputShape []int) *tensor.RawTensor {
	return nn.Resample(b, x, scale, axes, outputShape)
}

// Errors

// ErrInvalidConfig is matched (errors.Is) by every configuration error.
var ErrInvalidConfig = nn.ErrInvalidConfig

// ErrUnsupportedRepresentation reports an unknown factorization name.
var ErrUnsupportedRepresentation = factorized.ErrUnsupportedRepresentation

// ConfigError names the configuration field that failed validation.
type ConfigError = nn.ConfigError

// Sequential

// Sequential is a container module that chains multiple modules together.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
//
// Example:
//
//	up, _ := conv.SubConv(1)
//	model := nn.NewSequential[*cpu.Backend](conv, up)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Checkpoints

// Checkpoint is a snapshot of a module's parameters plus string metadata.
type Checkpoint = nn.Checkpoint

// LoadCheckpoint reads a file written by Checkpoint.Save into model.
func LoadCheckpoint(path string, model Stateful) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, model)
}
