package nn

import (
	"fmt"

	"gorgonia.org/gorgonia"
)

// MeanSquaredError returns mean((pred - target)²) as a scalar node.
func MeanSquaredError(pred, target *gorgonia.Node) (*gorgonia.Node, error) {
	if !pred.Shape().Eq(target.Shape()) {
		return nil, fmt.Errorf("mse: shape mismatch: %v vs %v", pred.Shape(), target.Shape())
	}
	diff, err := gorgonia.Sub(pred, target)
	if err != nil {
		return nil, err
	}
	sq, err := gorgonia.Square(diff)
	if err != nil {
		return nil, err
	}
	return gorgonia.Mean(sq)
}
