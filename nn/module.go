package nn

import (
	"errors"
	"fmt"

	"pinn_lib/nn/activations"
	"pinn_lib/nn/initializers"
	"pinn_lib/nn/layers"

	"gorgonia.org/gorgonia"
)

// ErrConfig marks invalid network configurations detected at construction.
var ErrConfig = errors.New("invalid network configuration")

// InputTransform maps the network inputs before the first layer.
type InputTransform func(x *gorgonia.Node) (*gorgonia.Node, error)

// OutputTransform maps the raw network outputs. It also receives the
// original, untransformed inputs.
type OutputTransform func(inputs, outputs *gorgonia.Node) (*gorgonia.Node, error)

// Network is the capability shared by FNN and PFNN.
type Network interface {
	// Forward appends the forward computation for x to the network graph.
	Forward(x *gorgonia.Node) (*gorgonia.Node, error)
	Graph() *gorgonia.ExprGraph
	InputSize() int
	OutputSize() int
	Layers() []NamedLayer
	Learnables() gorgonia.Nodes
	NumTrainableParameters() int
	ApplyFeatureTransform(InputTransform)
	ApplyOutputTransform(OutputTransform)
}

// NamedLayer pairs a Linear with its stable key, e.g. "linear1" or "layer2.0".
// Keys do not depend on the graph and are used for weight files.
type NamedLayer struct {
	Name string
	*layers.Linear
}

// base carries the parts both network variants share.
type base struct {
	g          *gorgonia.ExprGraph
	prefix     string
	activation activations.Func
	layers     []NamedLayer

	inputSize, outputSize int

	inputTransform  InputTransform
	outputTransform OutputTransform
}

func newBase(g *gorgonia.ExprGraph, kind string, act activations.Func, in, out int) base {
	// node names must be unique per graph or gorgonia will merge them
	return base{
		g:          g,
		prefix:     fmt.Sprintf("%s%d", kind, len(g.AllNodes())),
		activation: act,
		inputSize:  in,
		outputSize: out,
	}
}

func (b *base) Graph() *gorgonia.ExprGraph { return b.g }

func (b *base) InputSize() int { return b.inputSize }

func (b *base) OutputSize() int { return b.outputSize }

func (b *base) Layers() []NamedLayer { return b.layers }

func (b *base) Learnables() gorgonia.Nodes {
	var ns gorgonia.Nodes
	for _, l := range b.layers {
		ns = append(ns, l.Learnables()...)
	}
	return ns
}

// NumTrainableParameters counts the scalars in every weight and bias.
func (b *base) NumTrainableParameters() int {
	n := 0
	for _, p := range b.Learnables() {
		n += p.Shape().TotalSize()
	}
	return n
}

func (b *base) ApplyFeatureTransform(f InputTransform) { b.inputTransform = f }

func (b *base) ApplyOutputTransform(f OutputTransform) { b.outputTransform = f }

func (b *base) nodeName(key string) string { return b.prefix + "." + key }

func (b *base) track(key string, l *layers.Linear) {
	b.layers = append(b.layers, NamedLayer{Name: key, Linear: l})
}

func (b *base) transformInput(x *gorgonia.Node) (*gorgonia.Node, error) {
	if b.inputTransform == nil {
		return x, nil
	}
	y, err := b.inputTransform(x)
	if err != nil {
		return nil, fmt.Errorf("input transform: %w", err)
	}
	return y, nil
}

func (b *base) transformOutput(inputs, x *gorgonia.Node) (*gorgonia.Node, error) {
	if b.outputTransform == nil {
		return x, nil
	}
	y, err := b.outputTransform(inputs, x)
	if err != nil {
		return nil, fmt.Errorf("output transform: %w", err)
	}
	return y, nil
}

// lookup resolves the registries used at construction. Biases always use zeros.
func lookup(activation, initializer string) (act activations.Func, weightInit, biasInit initializers.Initializer, err error) {
	if act, err = activations.Get(activation); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if weightInit, err = initializers.Get(initializer); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if biasInit, err = initializers.Get("zeros"); err != nil {
		return nil, nil, nil, err
	}
	return act, weightInit, biasInit, nil
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
