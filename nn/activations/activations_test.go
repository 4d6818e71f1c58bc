package activations

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var sample = []float64{-2, -0.5, 0, 0.5, 2}

func eval64(t *testing.T, f Func, in []float64) []float64 {
	t.Helper()
	g := gorgonia.NewGraph()
	val := tensor.New(tensor.WithShape(1, len(in)), tensor.WithBacking(append([]float64(nil), in...)))
	x := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(1, len(in)), gorgonia.WithName("x"), gorgonia.WithValue(val))
	y, err := f(x)
	require.NoError(t, err)
	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())
	return y.Value().Data().([]float64)
}

func sigmoid(v float64) float64 { return 1 / (1 + math.Exp(-v)) }

func TestActivationValues(t *testing.T) {
	cases := map[string]func(float64) float64{
		"relu":    func(v float64) float64 { return math.Max(v, 0) },
		"tanh":    math.Tanh,
		"sin":     math.Sin,
		"sigmoid": sigmoid,
		"linear":  func(v float64) float64 { return v },
		"silu":    func(v float64) float64 { return v * sigmoid(v) },
		"swish":   func(v float64) float64 { return v * sigmoid(v) },
		"elu": func(v float64) float64 {
			if v > 0 {
				return v
			}
			return math.Expm1(v)
		},
		"selu": func(v float64) float64 {
			if v > 0 {
				return seluScale * v
			}
			return seluScale * seluAlpha * math.Expm1(v)
		},
		"gelu": func(v float64) float64 {
			return 0.5 * v * (1 + math.Tanh(math.Sqrt(2/math.Pi)*(v+0.044715*v*v*v)))
		},
	}
	for name, ref := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Get(name)
			require.NoError(t, err)
			got := eval64(t, f, sample)
			want := make([]float64, len(sample))
			for i, v := range sample {
				want[i] = ref(v)
			}
			require.InDeltaSlice(t, want, got, 1e-9)
		})
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	f, err := Get("  Tanh ")
	require.NoError(t, err)
	require.NotNil(t, f)
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("softsign")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknown))
}

func TestFloat32Input(t *testing.T) {
	f, err := Get("gelu")
	require.NoError(t, err)

	g := gorgonia.NewGraph()
	val := tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float32{-1, 1}))
	x := gorgonia.NewMatrix(g, tensor.Float32, gorgonia.WithShape(1, 2), gorgonia.WithName("x"), gorgonia.WithValue(val))
	y, err := f(x)
	require.NoError(t, err)
	require.Equal(t, tensor.Float32, y.Dtype())

	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())
	got := y.Value().Data().([]float32)
	require.InDelta(t, 0.841192, got[1], 1e-4)
	require.InDelta(t, -0.158808, got[0], 1e-4)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	require.Contains(t, names, "tanh")
	require.IsIncreasing(t, names)
}
