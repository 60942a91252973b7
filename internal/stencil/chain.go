package stencil

import (
	"fmt"

	"stencil-snap/internal/opencv/safe"
)

// Step is one value-in/value-out transform. Every step allocates its own
// output Mat and must not retain the input after returning.
type Step interface {
	Name() string
	Apply(input *safe.Mat) (*safe.Mat, error)
}

// Chain runs steps in order, closing each intermediate once the next step
// has consumed it. The caller's input is never closed.
type Chain struct {
	steps []Step
}

func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

func (c *Chain) Execute(input *safe.Mat) (*safe.Mat, error) {
	current := input

	for _, step := range c.steps {
		result, err := step.Apply(current)
		if err != nil {
			if current != input {
				current.Close()
			}
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		if current != input {
			current.Close()
		}

		current = result
	}

	if current == input {
		return input.Clone()
	}

	return current, nil
}
