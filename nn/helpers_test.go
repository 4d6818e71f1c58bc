package nn

import (
	"fmt"
	"math"
	"testing"

	"pinn_lib/config"
	ht "pinn_lib/tensor"
	"pinn_lib/utils"

	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func use64(t *testing.T) {
	t.Helper()
	require.NoError(t, config.SetDefaultFloat("float64"))
	t.Cleanup(func() { _ = config.SetDefaultFloat("float32") })
}

// grid returns a (rows, cols) float64 input with distinct values in [-1, 1].
func grid(rows, cols int) *tensor.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = math.Sin(float64(i) + 0.3)
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(data))
}

func hostOf(t *testing.T, d *tensor.Dense) *ht.Tensor {
	t.Helper()
	h, err := ht.FromDense(d)
	require.NoError(t, err)
	return h
}

// hostLayer applies x·W + b with the weights exported under key.
func hostLayer(t *testing.T, mw *utils.ModelWeights, key string, x *ht.Tensor) *ht.Tensor {
	t.Helper()
	lw, ok := mw.Layers[key]
	require.True(t, ok, "layer %s", key)
	w, err := utils.WeightDataToTensor(lw.Weight)
	require.NoError(t, err)
	b, err := utils.WeightDataToTensor(lw.Bias)
	require.NoError(t, err)
	y, err := ht.MatMul(x, w)
	require.NoError(t, err)
	y, err = ht.AddRow(y, b)
	require.NoError(t, err)
	return y
}

// hostFNN recomputes an FNN forward pass with tanh on host tensors.
func hostFNN(t *testing.T, net Network, x *ht.Tensor) *ht.Tensor {
	t.Helper()
	mw, err := ExportWeights(net)
	require.NoError(t, err)
	n := len(net.Layers())
	for i := 0; i < n; i++ {
		x = hostLayer(t, mw, fmt.Sprintf("linear%d", i), x)
		if i < n-1 {
			x = ht.Apply(x, math.Tanh)
		}
	}
	return x
}

func copyParams(t *testing.T, dst, src *gorgonia.Node) {
	t.Helper()
	copy(dst.Value().Data().([]float64), src.Value().Data().([]float64))
}
