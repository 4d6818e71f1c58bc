package nn

import (
	"testing"

	"pinn_lib/nn/initializers"

	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestPFNNAllSharedMatchesFNN(t *testing.T) {
	use64(t)
	sizes := []int{2, 8, 8, 3}
	fnn, err := NewFNN(gorgonia.NewGraph(), sizes, "tanh", "Glorot normal")
	require.NoError(t, err)
	pfnn, err := NewPFNN(gorgonia.NewGraph(), SharedSizes(sizes...), "tanh", "Glorot normal")
	require.NoError(t, err)

	require.Len(t, pfnn.Layers(), len(fnn.Layers()))
	for i, l := range fnn.Layers() {
		copyParams(t, pfnn.Layers()[i].W, l.W)
		copyParams(t, pfnn.Layers()[i].B, l.B)
	}
	require.Equal(t, fnn.NumTrainableParameters(), pfnn.NumTrainableParameters())

	x := grid(5, 2)
	want, err := Evaluate(fnn, x)
	require.NoError(t, err)
	got, err := Evaluate(pfnn, x)
	require.NoError(t, err)
	require.Equal(t, want.Shape(), got.Shape())
	require.InDeltaSlice(t, want.Data(), got.Data(), 1e-12)
}

func TestPFNNBranchedShapes(t *testing.T) {
	use64(t)
	sizes := []LayerSize{Shared(2), Branched(4, 5, 6), Branched(3, 3, 3), Shared(3)}
	net, err := NewPFNN(gorgonia.NewGraph(), sizes, "tanh", "Glorot normal")
	require.NoError(t, err)
	require.Equal(t, 3, net.NumOutputs())

	// 3 stages of 3 branches each
	require.Len(t, net.Layers(), 9)
	require.Equal(t, "layer0.0", net.Layers()[0].Name)
	require.Equal(t, "layer2.2", net.Layers()[8].Name)
	require.Equal(t, 45+54+12, net.NumTrainableParameters())

	out, err := Evaluate(net, grid(6, 2))
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{6, 3}, out.Shape())
}

func TestPFNNSharedThenBranched(t *testing.T) {
	use64(t)
	sizes := []LayerSize{Shared(1), Shared(8), Branched(4, 4), Shared(2)}
	net, err := NewPFNN(gorgonia.NewGraph(), sizes, "silu", "He uniform")
	require.NoError(t, err)
	out, err := Evaluate(net, grid(3, 1))
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{3, 2}, out.Shape())

	// branches of the first split all read the shared 8-unit layer
	for _, l := range net.Layers()[1:3] {
		require.Equal(t, 8, l.In())
		require.Equal(t, 4, l.Out())
	}
}

func TestPFNNSingleBranch(t *testing.T) {
	use64(t)
	net, err := NewPFNN(gorgonia.NewGraph(), []LayerSize{Shared(1), Branched(4), Shared(1)}, "tanh", "Glorot normal")
	require.NoError(t, err)
	out, err := Evaluate(net, grid(2, 1))
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 1}, out.Shape())
}

func TestPFNNBranchesAreIndependent(t *testing.T) {
	use64(t)
	initializers.Seed(9)
	sizes := []LayerSize{Shared(2), Branched(4, 4), Branched(3, 3), Shared(2)}
	net, err := NewPFNN(gorgonia.NewGraph(), sizes, "tanh", "Glorot normal")
	require.NoError(t, err)

	x := grid(4, 2)
	before, err := Evaluate(net, x)
	require.NoError(t, err)

	// perturb every parameter of the second branch
	for _, l := range net.Layers() {
		if l.Name[len(l.Name)-1] != '1' {
			continue
		}
		for _, p := range l.Learnables() {
			data := p.Value().Data().([]float64)
			for i := range data {
				data[i] += 0.5
			}
		}
	}
	after, err := Evaluate(net, x)
	require.NoError(t, err)

	b, a := before.Data().([]float64), after.Data().([]float64)
	for row := 0; row < 4; row++ {
		require.InDelta(t, b[row*2], a[row*2], 1e-12, "output 0 must not depend on branch 1")
		require.NotEqual(t, b[row*2+1], a[row*2+1], "output 1 must change")
	}
}

func TestPFNNConfigErrors(t *testing.T) {
	cases := []struct {
		name  string
		sizes []LayerSize
		msg   string
	}{
		{"too few sizes", []LayerSize{Shared(2)}, "must specify input and output sizes"},
		{"branched input", []LayerSize{Branched(2, 2), Shared(8), Shared(2)}, "input size must be integer"},
		{"branched output", []LayerSize{Shared(2), Shared(8), Branched(1, 1)}, "output size must be integer"},
		{"sub-layer count", []LayerSize{Shared(2), Branched(4, 4, 4), Shared(2)}, "number of sub-layers should equal number of network outputs"},
		{"empty branch list", []LayerSize{Shared(2), Branched(), Shared(2)}, "number of sub-layers should equal number of network outputs"},
		{"rejoin", []LayerSize{Shared(2), Branched(4, 4), Shared(8), Shared(2)}, "cannot rejoin parallel subnetworks after splitting"},
		{"non-positive branch", []LayerSize{Shared(2), Branched(4, 0), Shared(2)}, "must be positive"},
		{"zero outputs", []LayerSize{Shared(2), Shared(0)}, "must be positive"},
	}
	for _, c := range cases {
		_, err := NewPFNN(gorgonia.NewGraph(), c.sizes, "tanh", "Glorot normal")
		require.ErrorIs(t, err, ErrConfig, c.name)
		require.ErrorContains(t, err, c.msg, c.name)
	}

	_, err := NewPFNN(gorgonia.NewGraph(), SharedSizes(2, 2), "nope", "Glorot normal")
	require.ErrorIs(t, err, ErrConfig)
}

func TestPFNNGradientsReachEveryBranch(t *testing.T) {
	use64(t)
	g := gorgonia.NewGraph()
	sizes := []LayerSize{Shared(1), Branched(3, 3), Shared(2)}
	net, err := NewPFNN(g, sizes, "tanh", "Glorot normal")
	require.NoError(t, err)

	x, err := Input(net, grid(4, 1))
	require.NoError(t, err)
	pred, err := net.Forward(x)
	require.NoError(t, err)
	target := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(4, 2), gorgonia.WithName("target"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(4, 2), tensor.Of(tensor.Float64))))
	loss, err := MeanSquaredError(pred, target)
	require.NoError(t, err)

	grads, err := gorgonia.Grad(loss, net.Learnables()...)
	require.NoError(t, err)
	require.Len(t, grads, len(net.Learnables()))

	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())
	for i, gr := range grads {
		require.NotNil(t, gr.Value(), "grad %d", i)
		require.Equal(t, net.Learnables()[i].Shape(), gr.Shape())
	}
}
