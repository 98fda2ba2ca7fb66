// Package nn implements neural operator layers for the neuralop library.
//
// This package provides the spectral building blocks of Fourier Neural
// Operators:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named complex or real tensors owned by a layer
//   - SpectralConv: N-dimensional factorized spectral convolution
//   - SubConv: Non-owning view of a SpectralConv bound to one usage site
//   - Resample: Frequency-domain resampling of spatial grids
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/neuralop/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all parameters
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given a real input tensor.
	//
	// Spectral layers expect [batch, channels, d_1, ..., d_N].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all parameters of this module.
	//
	// Views that share storage with another module return the owner's
	// parameters.
	Parameters() []*Parameter[B]
}

// Stateful is implemented by modules whose parameters can be exported to and
// restored from a flat name -> tensor map.
type Stateful interface {
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(state map[string]*tensor.RawTensor) error
}

var (
	_ Module[*tensor.MockBackend] = (*SpectralConv[*tensor.MockBackend])(nil)
	_ Module[*tensor.MockBackend] = (*SubConv[*tensor.MockBackend])(nil)
	_ Module[*tensor.MockBackend] = (*Sequential[*tensor.MockBackend])(nil)
	_ Stateful                    = (*SpectralConv[*tensor.MockBackend])(nil)
	_ Stateful                    = (*Sequential[*tensor.MockBackend])(nil)
)
