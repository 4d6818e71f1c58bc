package nn

import (
	"fmt"

	"gorgonia.org/gorgonia"
)

// Network kinds accepted by Build.
const (
	KindFNN  = "fnn"
	KindPFNN = "pfnn"
)

// Build constructs an FNN or PFNN in g from a textual layer specification
// such as "[1, 32, 32, 1]" or "[1, [16, 16], 2]".
func Build(g *gorgonia.ExprGraph, kind, layerSizes, activation, initializer string) (Network, error) {
	sizes, err := ParseLayerSizes(layerSizes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	switch kind {
	case KindFNN:
		ns, ok := FlatSizes(sizes)
		if !ok {
			return nil, configErrorf("fnn layer sizes cannot be branched: %s", layerSizes)
		}
		f, err := NewFNN(g, ns, activation, initializer)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindPFNN:
		p, err := NewPFNN(g, sizes, activation, initializer)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, configErrorf("unknown network kind %q", kind)
	}
}
