package tensor

import (
	"fmt"
	"strings"
)

// EinsumSymbols is the ordered alphabet used to build einsum equations.
const EinsumSymbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Equation is a parsed explicit einsum equation.
//
// Example:
//
//	eq, _ := tensor.ParseEquation("bixy,ioxy->boxy")
//	// eq.Inputs = ["bixy", "ioxy"], eq.Output = "boxy"
type Equation struct {
	Inputs []string
	Output string
}

// ParseEquation parses an explicit einsum equation "in1,in2,...->out".
//
// Every label must be an ASCII letter, repeated labels inside one operand
// are rejected, and each output label must appear in some input.
func ParseEquation(equation string) (*Equation, error) {
	lhs, out, ok := strings.Cut(strings.ReplaceAll(equation, " ", ""), "->")
	if !ok {
		return nil, fmt.Errorf("einsum: equation %q has no explicit output", equation)
	}
	if lhs == "" {
		return nil, fmt.Errorf("einsum: equation %q has no operands", equation)
	}

	inputs := strings.Split(lhs, ",")
	seen := make(map[byte]bool)
	for _, in := range inputs {
		if err := checkLabels(in); err != nil {
			return nil, fmt.Errorf("einsum: %q: %w", equation, err)
		}
		for i := 0; i < len(in); i++ {
			seen[in[i]] = true
		}
	}
	if err := checkLabels(out); err != nil {
		return nil, fmt.Errorf("einsum: %q: %w", equation, err)
	}
	for i := 0; i < len(out); i++ {
		if !seen[out[i]] {
			return nil, fmt.Errorf("einsum: %q: output label %q not in any input", equation, out[i])
		}
	}

	return &Equation{Inputs: inputs, Output: out}, nil
}

func checkLabels(labels string) error {
	var used [128]bool
	for i := 0; i < len(labels); i++ {
		c := labels[i]
		if !isLabel(c) {
			return fmt.Errorf("invalid label %q", c)
		}
		if used[c] {
			return fmt.Errorf("label %q repeated in %q", c, labels)
		}
		used[c] = true
	}
	return nil
}

func isLabel(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Sizes binds every label to its dimension size using the operand shapes.
// It fails when an operand rank does not match its labels or a label is
// bound to two different sizes.
func (e *Equation) Sizes(shapes []Shape) (map[byte]int, error) {
	if len(shapes) != len(e.Inputs) {
		return nil, fmt.Errorf("einsum: %d operands for %d input specs", len(shapes), len(e.Inputs))
	}
	sizes := make(map[byte]int)
	for k, labels := range e.Inputs {
		if len(labels) != len(shapes[k]) {
			return nil, fmt.Errorf("einsum: operand %d has shape %v but labels %q", k, shapes[k], labels)
		}
		for i := 0; i < len(labels); i++ {
			c := labels[i]
			if prev, ok := sizes[c]; ok && prev != shapes[k][i] {
				return nil, fmt.Errorf("einsum: label %q bound to %d and %d", c, prev, shapes[k][i])
			}
			sizes[c] = shapes[k][i]
		}
	}
	return sizes, nil
}

// String rebuilds the equation text.
func (e *Equation) String() string {
	return strings.Join(e.Inputs, ",") + "->" + e.Output
}
