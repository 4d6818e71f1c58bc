package nn

import (
	"fmt"

	ht "pinn_lib/tensor"
	"pinn_lib/utils"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func denseValue(n *gorgonia.Node) (*tensor.Dense, error) {
	d, ok := n.Value().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("%s has no dense value", n.Name())
	}
	return d, nil
}

// ExportWeights copies every layer's parameters into the weights file format.
// Biases are stored as vectors of length out.
func ExportWeights(net Network) (*utils.ModelWeights, error) {
	mw := &utils.ModelWeights{
		Version: utils.WeightsVersion,
		Layers:  make(map[string]utils.LayerWeight, len(net.Layers())),
	}
	for _, l := range net.Layers() {
		w, err := denseValue(l.W)
		if err != nil {
			return nil, err
		}
		b, err := denseValue(l.B)
		if err != nil {
			return nil, err
		}
		wt, err := ht.FromDense(w)
		if err != nil {
			return nil, err
		}
		bt, err := ht.FromDense(b)
		if err != nil {
			return nil, err
		}
		bt.Shape = []int{l.Out()}
		mw.Layers[l.Name] = utils.LayerWeight{
			Weight: utils.TensorToWeightData(l.Name+".weight", wt),
			Bias:   utils.TensorToWeightData(l.Name+".bias", bt),
		}
	}
	return mw, nil
}

// ImportWeights overwrites the parameters of net in place. Every layer of
// net must be present with matching shapes.
func ImportWeights(net Network, mw *utils.ModelWeights) error {
	for _, l := range net.Layers() {
		lw, ok := mw.Layers[l.Name]
		if !ok || lw.Weight == nil || lw.Bias == nil {
			return fmt.Errorf("import weights: layer %s missing", l.Name)
		}
		if err := load(l.W, lw.Weight, []int{l.In(), l.Out()}); err != nil {
			return fmt.Errorf("import weights: %w", err)
		}
		if err := load(l.B, lw.Bias, []int{l.Out()}); err != nil {
			return fmt.Errorf("import weights: %w", err)
		}
	}
	return nil
}

func load(n *gorgonia.Node, wd *utils.WeightData, want []int) error {
	if !tensor.Shape(wd.Shape).Eq(tensor.Shape(want)) {
		return fmt.Errorf("%s: shape %v, want %v", wd.Name, wd.Shape, want)
	}
	t, err := utils.WeightDataToTensor(wd)
	if err != nil {
		return err
	}
	d, err := denseValue(n)
	if err != nil {
		return err
	}
	return t.CopyInto(d)
}
