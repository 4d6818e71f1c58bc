package layers

import (
	"fmt"

	"pinn_lib/nn/initializers"

	"gorgonia.org/gorgonia"
)

// Parallel holds one independent Linear per network output (a branch).
type Parallel struct {
	Branches []*Linear
}

// NewParallel builds len(outs) branches, branch j mapping ins[j]→outs[j].
func NewParallel(g *gorgonia.ExprGraph, ins, outs []int, name string, weightInit, biasInit initializers.Initializer) (*Parallel, error) {
	if len(ins) != len(outs) {
		return nil, fmt.Errorf("parallel %s: %d inputs for %d branches", name, len(ins), len(outs))
	}
	p := &Parallel{Branches: make([]*Linear, len(outs))}
	for j := range outs {
		l, err := NewLinear(g, ins[j], outs[j], fmt.Sprintf("%s.%d", name, j), weightInit, biasInit)
		if err != nil {
			return nil, err
		}
		p.Branches[j] = l
	}
	return p, nil
}

// ForwardShared feeds the same x into every branch.
func (p *Parallel) ForwardShared(x *gorgonia.Node) ([]*gorgonia.Node, error) {
	ys := make([]*gorgonia.Node, len(p.Branches))
	for j, l := range p.Branches {
		y, err := l.Forward(x)
		if err != nil {
			return nil, err
		}
		ys[j] = y
	}
	return ys, nil
}

// ForwardEach feeds xs[j] into branch j.
func (p *Parallel) ForwardEach(xs []*gorgonia.Node) ([]*gorgonia.Node, error) {
	if len(xs) != len(p.Branches) {
		return nil, fmt.Errorf("parallel: got %d inputs for %d branches", len(xs), len(p.Branches))
	}
	ys := make([]*gorgonia.Node, len(p.Branches))
	for j, l := range p.Branches {
		y, err := l.Forward(xs[j])
		if err != nil {
			return nil, err
		}
		ys[j] = y
	}
	return ys, nil
}

// Learnables returns the parameters of every branch in order.
func (p *Parallel) Learnables() gorgonia.Nodes {
	var ns gorgonia.Nodes
	for _, l := range p.Branches {
		ns = append(ns, l.Learnables()...)
	}
	return ns
}
