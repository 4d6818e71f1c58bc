package nn

import (
	"fmt"

	"pinn_lib/nn/initializers"
	"pinn_lib/nn/layers"

	"gorgonia.org/gorgonia"
)

// stage is one PFNN layer: either a shared Linear or a set of branches.
type stage struct {
	shared   *layers.Linear
	parallel *layers.Parallel
}

// PFNN is a parallel fully-connected network that uses independent
// sub-networks for each network output.
//
// A shared LayerSize is one layer used by all outputs, a branched one holds
// len(branches) sub-layers, each used exclusively by one output. The number
// of branches must equal the number of outputs and branches cannot rejoin.
type PFNN struct {
	base
	stages  []stage
	nOutput int
}

// NewPFNN builds a PFNN from sizes, e.g.
// []LayerSize{Shared(2), Branched(16, 16), Branched(16, 16), Shared(2)}.
func NewPFNN(g *gorgonia.ExprGraph, sizes []LayerSize, activation, initializer string) (*PFNN, error) {
	if len(sizes) < 2 {
		return nil, configErrorf("must specify input and output sizes")
	}
	if sizes[0].IsBranched() {
		return nil, configErrorf("input size must be integer")
	}
	if sizes[len(sizes)-1].IsBranched() {
		return nil, configErrorf("output size must be integer")
	}
	for i, s := range sizes {
		ns := s.branches
		if !s.IsBranched() {
			ns = []int{s.units}
		}
		for _, n := range ns {
			if n <= 0 {
				return nil, configErrorf("layer %d: size %v must be positive", i, s)
			}
		}
	}
	act, weightInit, biasInit, err := lookup(activation, initializer)
	if err != nil {
		return nil, err
	}

	nOutput := sizes[len(sizes)-1].units
	p := &PFNN{base: newBase(g, "pfnn", act, sizes[0].units, nOutput), nOutput: nOutput}

	for i := 1; i < len(sizes)-1; i++ {
		prev, curr := sizes[i-1], sizes[i]
		key := fmt.Sprintf("layer%d", i-1)

		if !curr.IsBranched() {
			// e.g. 64 -> 64
			if prev.IsBranched() {
				return nil, configErrorf("cannot rejoin parallel subnetworks after splitting")
			}
			l, err := layers.NewLinear(g, prev.units, curr.units, p.nodeName(key), weightInit, biasInit)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrConfig, err)
			}
			p.stages = append(p.stages, stage{shared: l})
			p.track(key, l)
			continue
		}

		if len(curr.branches) != nOutput {
			return nil, configErrorf("number of sub-layers should equal number of network outputs")
		}
		ins := prev.branches // e.g. [8, 8, 8] -> [16, 16, 16]
		if !prev.IsBranched() {
			ins = repeat(prev.units, nOutput) // e.g. 64 -> [8, 8, 8]
		}
		if err := p.addParallel(key, ins, curr.branches, weightInit, biasInit); err != nil {
			return nil, err
		}
	}

	// output layers
	key := fmt.Sprintf("layer%d", len(sizes)-2)
	if penult := sizes[len(sizes)-2]; penult.IsBranched() {
		// e.g. [3, 3, 3] -> 3
		if err := p.addParallel(key, penult.branches, repeat(1, nOutput), weightInit, biasInit); err != nil {
			return nil, err
		}
	} else {
		l, err := layers.NewLinear(g, penult.units, nOutput, p.nodeName(key), weightInit, biasInit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		p.stages = append(p.stages, stage{shared: l})
		p.track(key, l)
	}
	return p, nil
}

func (p *PFNN) addParallel(key string, ins, outs []int, weightInit, biasInit initializers.Initializer) error {
	par, err := layers.NewParallel(p.g, ins, outs, p.nodeName(key), weightInit, biasInit)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	p.stages = append(p.stages, stage{parallel: par})
	for j, l := range par.Branches {
		p.track(fmt.Sprintf("%s.%d", key, j), l)
	}
	return nil
}

func repeat(n, times int) []int {
	ns := make([]int, times)
	for i := range ns {
		ns[i] = n
	}
	return ns
}

// Forward mirrors FNN.Forward. Once the network has split, each branch
// carries its own activations; the branch outputs are concatenated along
// the feature axis.
func (p *PFNN) Forward(inputs *gorgonia.Node) (*gorgonia.Node, error) {
	x, err := p.transformInput(inputs)
	if err != nil {
		return nil, err
	}

	var xs []*gorgonia.Node // non-nil once split
	last := len(p.stages) - 1
	for _, st := range p.stages[:last] {
		if st.parallel == nil {
			if x, err = st.shared.Forward(x); err != nil {
				return nil, err
			}
			if x, err = p.activation(x); err != nil {
				return nil, err
			}
			continue
		}

		var ys []*gorgonia.Node
		if xs != nil {
			ys, err = st.parallel.ForwardEach(xs)
		} else {
			ys, err = st.parallel.ForwardShared(x)
		}
		if err != nil {
			return nil, err
		}
		for j := range ys {
			if ys[j], err = p.activation(ys[j]); err != nil {
				return nil, err
			}
		}
		xs = ys
	}

	// output layers
	out := p.stages[last]
	if xs == nil {
		if x, err = out.shared.Forward(x); err != nil {
			return nil, err
		}
		return p.transformOutput(inputs, x)
	}
	ys, err := out.parallel.ForwardEach(xs)
	if err != nil {
		return nil, err
	}
	if len(ys) == 1 {
		x = ys[0]
	} else if x, err = gorgonia.Concat(1, ys...); err != nil {
		return nil, err
	}
	return p.transformOutput(inputs, x)
}

// NumOutputs returns the output width.
func (p *PFNN) NumOutputs() int { return p.nOutput }
