package layers

import (
	"fmt"

	"pinn_lib/config"
	"pinn_lib/nn/initializers"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Linear is a fully-connected layer computing x·W + B.
type Linear struct {
	// W has shape (in, out), B has shape (1, out) and is broadcast over the batch.
	W, B *gorgonia.Node

	in, out int
}

// NewLinear(in→out) allocates W and B in g with the global precision and
// fills them with the given initializers before binding them to the graph.
func NewLinear(g *gorgonia.ExprGraph, in, out int, name string, weightInit, biasInit initializers.Initializer) (*Linear, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("linear %s: sizes must be positive, got %d→%d", name, in, out)
	}
	dt := config.Real()

	w := tensor.New(tensor.WithShape(in, out), tensor.Of(dt))
	if err := weightInit(w); err != nil {
		return nil, fmt.Errorf("linear %s: init weight: %w", name, err)
	}
	b := tensor.New(tensor.WithShape(1, out), tensor.Of(dt))
	if err := biasInit(b); err != nil {
		return nil, fmt.Errorf("linear %s: init bias: %w", name, err)
	}

	return &Linear{
		W:   gorgonia.NewMatrix(g, dt, gorgonia.WithShape(in, out), gorgonia.WithName(name+".weight"), gorgonia.WithValue(w)),
		B:   gorgonia.NewMatrix(g, dt, gorgonia.WithShape(1, out), gorgonia.WithName(name+".bias"), gorgonia.WithValue(b)),
		in:  in,
		out: out,
	}, nil
}

// In returns the input width.
func (l *Linear) In() int { return l.in }

// Out returns the output width.
func (l *Linear) Out() int { return l.out }

// Forward expects x of shape (batch, in) and returns (batch, out).
func (l *Linear) Forward(x *gorgonia.Node) (*gorgonia.Node, error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != l.in {
		return nil, fmt.Errorf("linear %s: expected input (batch, %d), got %v", l.W.Name(), l.in, shape)
	}
	xw, err := gorgonia.Mul(x, l.W)
	if err != nil {
		return nil, fmt.Errorf("linear %s: %w", l.W.Name(), err)
	}
	return gorgonia.BroadcastAdd(xw, l.B, nil, []byte{0})
}

// Learnables returns W and B.
func (l *Linear) Learnables() gorgonia.Nodes {
	return gorgonia.Nodes{l.W, l.B}
}
