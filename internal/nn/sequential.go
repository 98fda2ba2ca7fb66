package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. A typical use is a
// stack of spectral convolutions sharing one weight across usage sites:
//
//	up, _ := conv.SubConv(1)
//	model := nn.NewSequential[*cpu.CPUBackend](conv, up)
//	output := model.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input

	for _, module := range s.modules {
		output = module.Forward(output)
	}

	return output
}

// Parameters returns the parameters of every module in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns a map of parameter names to raw tensors.
//
// Parameters are prefixed with their module index (e.g., "0.weight",
// "1.bias"). Modules that do not implement Stateful, such as SubConv views,
// contribute nothing: their owner saves the shared weight.
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)

	for i, module := range s.modules {
		stateful, ok := module.(Stateful)
		if !ok {
			continue
		}
		for name, raw := range stateful.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = raw
		}
	}

	return stateDict
}

// LoadStateDict routes every "<index>.<name>" entry to its module.
func (s *Sequential[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	perModule := make(map[int]map[string]*tensor.RawTensor)
	for key, raw := range state {
		prefix, name, ok := strings.Cut(key, ".")
		index, err := strconv.Atoi(prefix)
		if !ok || err != nil || index < 0 || index >= len(s.modules) {
			return errors.Errorf("sequential: unexpected tensor %q", key)
		}
		if perModule[index] == nil {
			perModule[index] = make(map[string]*tensor.RawTensor)
		}
		perModule[index][name] = raw
	}

	for i, module := range s.modules {
		stateful, ok := module.(Stateful)
		if !ok {
			continue
		}
		if err := stateful.LoadStateDict(perModule[i]); err != nil {
			return errors.Wrapf(err, "sequential module %d", i)
		}
	}
	return nil
}
