package nn

import (
	"fmt"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Input binds x as a new input node in the network graph.
func Input(net Network, x *tensor.Dense) (*gorgonia.Node, error) {
	shape := x.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("input must be (batch, features), got shape %v", shape)
	}
	if ps := net.Learnables(); len(ps) > 0 && ps[0].Dtype() != x.Dtype() {
		return nil, fmt.Errorf("input dtype %v does not match network dtype %v", x.Dtype(), ps[0].Dtype())
	}
	g := net.Graph()
	name := fmt.Sprintf("input%d", len(g.AllNodes()))
	return gorgonia.NewMatrix(g, x.Dtype(), gorgonia.WithShape(shape...), gorgonia.WithName(name), gorgonia.WithValue(x)), nil
}

// Evaluate runs the forward pass of net on x and returns a copy of the output.
func Evaluate(net Network, x *tensor.Dense) (*tensor.Dense, error) {
	in, err := Input(net, x)
	if err != nil {
		return nil, err
	}
	out, err := net.Forward(in)
	if err != nil {
		return nil, err
	}

	vm := gorgonia.NewTapeMachine(net.Graph().SubgraphRoots(out))
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	res, ok := out.Value().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("evaluate: unexpected output value %T", out.Value())
	}
	return res.Clone().(*tensor.Dense), nil
}
