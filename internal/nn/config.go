package nn

import (
	"log/slog"

	"github.com/born-ml/neuralop/internal/factorized"
	"github.com/born-ml/neuralop/internal/tensor"
)

// PrecisionMode selects the numeric precision of the frequency-domain path.
type PrecisionMode string

// Supported precision modes.
const (
	// PrecisionFull keeps the spectrum in complex64.
	PrecisionFull PrecisionMode = "full"
	// PrecisionHalf rounds the activation to half precision before the
	// transform and keeps the spectrum in complex32.
	PrecisionHalf PrecisionMode = "half"
	// PrecisionMixed transforms in full precision and downcasts the
	// spectrum to complex32 for the contraction.
	PrecisionMixed PrecisionMode = "mixed"
)

// Implementation selects how a factorized weight meets the activation.
type Implementation string

// Supported implementations.
const (
	// ImplementationReconstructed rebuilds the dense weight window and
	// runs the dense contraction.
	ImplementationReconstructed Implementation = "reconstructed"
	// ImplementationFactorized contracts the activation with the factors
	// directly.
	ImplementationFactorized Implementation = "factorized"
)

// SpectralConvConfig defines the configuration for a SpectralConv layer.
//
// Example:
//
//	cfg := nn.DefaultSpectralConvConfig(3, 4, 8, 8)
//	cfg.Factorization = "tucker"
//	cfg.Implementation = nn.ImplementationFactorized
//	conv, err := nn.NewSpectralConv(cfg, backend)
type SpectralConvConfig struct {
	InChannels  int   // Channels of the input activation
	OutChannels int   // Channels of the output activation
	NModes      []int // Requested Fourier modes per spatial axis (one entry for 1-D)
	MaxNModes   []int // Weight capacity in stored units; defaults to adjusted NModes

	Bias      bool // Add a learned (out, 1, ..., 1) bias after the inverse transform
	Separable bool // Depthwise weights (requires InChannels == OutChannels)

	// OutputScalingFactor holds one ratio list per usage site. Each list has
	// one entry (applied to every axis) or one entry per spatial axis.
	// Nil keeps the input resolution.
	OutputScalingFactor [][]float64

	PrecisionMode PrecisionMode // "full", "half" or "mixed"

	Rank           float64        // Fractional rank for factorized weights
	Ranks          []int          // Explicit ranks; override Rank when set
	Factorization  string         // "", "dense", "cp", "tucker", "tt" (suffix match, case-insensitive)
	Implementation Implementation // "reconstructed" or "factorized"
	FixedRankModes bool           // Keep the input-channel mode at full Tucker rank

	ComplexData bool    // Activations are complex; every axis keeps both frequency signs
	InitStd     float64 // Weight std; 0 selects sqrt(2/(in+out))
	FFTNorm     string  // "backward", "forward" or "ortho"

	Seed   uint64       // Initialization seed; 0 draws from the global source
	Logger *slog.Logger // Debug logging; nil discards
}

// DefaultSpectralConvConfig returns a configuration with bias enabled, full
// precision, rank 0.5, a dense weight, the reconstructed implementation and
// backward FFT normalization.
func DefaultSpectralConvConfig(inChannels, outChannels int, nModes ...int) SpectralConvConfig {
	return SpectralConvConfig{
		InChannels:     inChannels,
		OutChannels:    outChannels,
		NModes:         append([]int(nil), nModes...),
		Bias:           true,
		PrecisionMode:  PrecisionFull,
		Rank:           0.5,
		Implementation: ImplementationReconstructed,
		FFTNorm:        tensor.NormBackward.String(),
	}
}

// Validate checks the configuration without allocating a layer.
//
// Unknown factorization names yield an error wrapping
// factorized.ErrUnsupportedRepresentation; every other problem is a
// *ConfigError.
func (c SpectralConvConfig) Validate() error {
	if c.InChannels <= 0 {
		return configErrorf("InChannels", "must be positive, got %d", c.InChannels)
	}
	if c.OutChannels <= 0 {
		return configErrorf("OutChannels", "must be positive, got %d", c.OutChannels)
	}
	if c.Separable && c.InChannels != c.OutChannels {
		return configErrorf("Separable",
			"to use separable Fourier conv, in_channels must be equal to out_channels, but got in_channels=%d and out_channels=%d",
			c.InChannels, c.OutChannels)
	}

	if len(c.NModes) == 0 {
		return configErrorf("NModes", "at least one spatial axis is required")
	}
	for k, m := range c.NModes {
		if m <= 0 {
			return configErrorf("NModes", "axis %d: mode count must be positive, got %d", k, m)
		}
	}
	if c.MaxNModes != nil {
		if len(c.MaxNModes) != len(c.NModes) {
			return configErrorf("MaxNModes", "got %d axes, want %d", len(c.MaxNModes), len(c.NModes))
		}
		for k, m := range c.MaxNModes {
			if m <= 0 {
				return configErrorf("MaxNModes", "axis %d: capacity must be positive, got %d", k, m)
			}
		}
	}

	if _, err := normalizeScaling(c.OutputScalingFactor, len(c.NModes)); err != nil {
		return err
	}

	switch c.PrecisionMode {
	case PrecisionFull, PrecisionHalf, PrecisionMixed:
	default:
		return configErrorf("PrecisionMode", "got %q, want full, half or mixed", c.PrecisionMode)
	}

	switch c.Implementation {
	case ImplementationReconstructed, ImplementationFactorized:
	default:
		return configErrorf("Implementation", "got %q, want reconstructed or factorized", c.Implementation)
	}

	if _, err := tensor.ParseFFTNorm(c.FFTNorm); err != nil {
		return configErrorf("FFTNorm", "%v", err)
	}

	if c.InitStd < 0 {
		return configErrorf("InitStd", "must be positive (or 0 for auto), got %v", c.InitStd)
	}

	kind, err := factorized.ParseKind(c.Factorization)
	if err != nil {
		return err
	}
	if kind != factorized.KindDense && len(c.Ranks) == 0 && c.Rank <= 0 {
		return configErrorf("Rank", "must be positive for %s weights, got %v", kind, c.Rank)
	}
	for _, r := range c.Ranks {
		if r < 1 {
			return configErrorf("Ranks", "every rank must be at least 1, got %v", c.Ranks)
		}
	}

	return nil
}
