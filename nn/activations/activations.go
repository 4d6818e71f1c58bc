// Package activations maps activation names to elementwise graph functions.
package activations

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Func applies an elementwise nonlinearity to a node.
type Func func(x *gorgonia.Node) (*gorgonia.Node, error)

// ErrUnknown is returned by Get for names missing from the registry.
var ErrUnknown = errors.New("unknown activation")

const (
	seluAlpha = 1.6732632423543772
	seluScale = 1.0507009873554805
)

var supported = map[string]Func{
	"elu":     elu,
	"gelu":    gelu,
	"linear":  linear,
	"relu":    gorgonia.Rectify,
	"selu":    selu,
	"sigmoid": gorgonia.Sigmoid,
	"silu":    silu,
	"sin":     gorgonia.Sin,
	"swish":   silu,
	"tanh":    gorgonia.Tanh,
}

// Get returns the activation registered under name (case-insensitive).
func Get(name string) (Func, error) {
	f, ok := supported[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return f, nil
}

// Names lists the registered activation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(supported))
	for n := range supported {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// scalar builds a constant matching the dtype of x.
func scalar(x *gorgonia.Node, v float64) *gorgonia.Node {
	if x.Dtype() == tensor.Float32 {
		return gorgonia.NewConstant(float32(v))
	}
	return gorgonia.NewConstant(v)
}

func linear(x *gorgonia.Node) (*gorgonia.Node, error) { return x, nil }

// negPart returns min(x, 0).
func negPart(x *gorgonia.Node) (*gorgonia.Node, error) {
	n, err := gorgonia.Neg(x)
	if err != nil {
		return nil, err
	}
	if n, err = gorgonia.Rectify(n); err != nil {
		return nil, err
	}
	return gorgonia.Neg(n)
}

// elu with alpha = 1: relu(x) + expm1(min(x, 0)).
func elu(x *gorgonia.Node) (*gorgonia.Node, error) {
	m, err := negPart(x)
	if err != nil {
		return nil, err
	}
	e, err := gorgonia.Expm1(m)
	if err != nil {
		return nil, err
	}
	p, err := gorgonia.Rectify(x)
	if err != nil {
		return nil, err
	}
	return gorgonia.Add(p, e)
}

func selu(x *gorgonia.Node) (*gorgonia.Node, error) {
	m, err := negPart(x)
	if err != nil {
		return nil, err
	}
	e, err := gorgonia.Expm1(m)
	if err != nil {
		return nil, err
	}
	if e, err = gorgonia.Mul(scalar(x, seluAlpha), e); err != nil {
		return nil, err
	}
	p, err := gorgonia.Rectify(x)
	if err != nil {
		return nil, err
	}
	sum, err := gorgonia.Add(p, e)
	if err != nil {
		return nil, err
	}
	return gorgonia.Mul(scalar(x, seluScale), sum)
}

// gelu uses the tanh approximation:
// 0.5·x·(1 + tanh(sqrt(2/π)·(x + 0.044715·x³))).
func gelu(x *gorgonia.Node) (*gorgonia.Node, error) {
	c, err := gorgonia.Cube(x)
	if err != nil {
		return nil, err
	}
	if c, err = gorgonia.Mul(scalar(x, 0.044715), c); err != nil {
		return nil, err
	}
	inner, err := gorgonia.Add(x, c)
	if err != nil {
		return nil, err
	}
	if inner, err = gorgonia.Mul(scalar(x, math.Sqrt(2/math.Pi)), inner); err != nil {
		return nil, err
	}
	th, err := gorgonia.Tanh(inner)
	if err != nil {
		return nil, err
	}
	if th, err = gorgonia.Add(scalar(x, 1), th); err != nil {
		return nil, err
	}
	prod, err := gorgonia.HadamardProd(x, th)
	if err != nil {
		return nil, err
	}
	return gorgonia.Mul(scalar(x, 0.5), prod)
}

// silu is x·sigmoid(x), also registered as swish.
func silu(x *gorgonia.Node) (*gorgonia.Node, error) {
	s, err := gorgonia.Sigmoid(x)
	if err != nil {
		return nil, err
	}
	return gorgonia.HadamardProd(x, s)
}
