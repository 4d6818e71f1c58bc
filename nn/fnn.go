package nn

import (
	"fmt"

	"pinn_lib/nn/layers"

	"gorgonia.org/gorgonia"
)

// FNN is a fully-connected network.
type FNN struct {
	base
	Linears []*layers.Linear
}

// NewFNN builds one Linear per consecutive pair in sizes, e.g.
// []int{2, 32, 32, 1}. Weights use the named initializer and biases zeros.
func NewFNN(g *gorgonia.ExprGraph, sizes []int, activation, initializer string) (*FNN, error) {
	if len(sizes) < 2 {
		return nil, configErrorf("must specify input and output sizes")
	}
	for i, n := range sizes {
		if n <= 0 {
			return nil, configErrorf("layer %d: size must be positive, got %d", i, n)
		}
	}
	act, weightInit, biasInit, err := lookup(activation, initializer)
	if err != nil {
		return nil, err
	}

	f := &FNN{base: newBase(g, "fnn", act, sizes[0], sizes[len(sizes)-1])}
	for i := 1; i < len(sizes); i++ {
		key := fmt.Sprintf("linear%d", i-1)
		l, err := layers.NewLinear(g, sizes[i-1], sizes[i], f.nodeName(key), weightInit, biasInit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		f.Linears = append(f.Linears, l)
		f.track(key, l)
	}
	return f, nil
}

// Forward applies the input transform, activated hidden layers, the
// unactivated output layer and finally the output transform.
func (f *FNN) Forward(inputs *gorgonia.Node) (*gorgonia.Node, error) {
	x, err := f.transformInput(inputs)
	if err != nil {
		return nil, err
	}
	last := len(f.Linears) - 1
	for _, l := range f.Linears[:last] {
		if x, err = l.Forward(x); err != nil {
			return nil, err
		}
		if x, err = f.activation(x); err != nil {
			return nil, err
		}
	}
	if x, err = f.Linears[last].Forward(x); err != nil {
		return nil, err
	}
	return f.transformOutput(inputs, x)
}
