package nn

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// LayerSize is one entry of a PFNN layer specification: either a single
// layer shared by all outputs or one sub-layer per output.
type LayerSize struct {
	units    int
	branches []int
}

// Shared returns a size of n units used by every output.
func Shared(n int) LayerSize { return LayerSize{units: n} }

// Branched returns one sub-layer size per network output.
func Branched(ns ...int) LayerSize {
	return LayerSize{branches: append([]int{}, ns...)}
}

// SharedSizes lifts a plain size list, e.g. the one given to NewFNN.
func SharedSizes(ns ...int) []LayerSize {
	sizes := make([]LayerSize, len(ns))
	for i, n := range ns {
		sizes[i] = Shared(n)
	}
	return sizes
}

// IsBranched reports whether s holds per-output sub-layer sizes.
func (s LayerSize) IsBranched() bool { return s.branches != nil }

// Units returns the shared size; it is zero for branched sizes.
func (s LayerSize) Units() int { return s.units }

// Branches returns the per-output sizes; nil for shared sizes.
func (s LayerSize) Branches() []int { return s.branches }

func (s LayerSize) String() string {
	if !s.IsBranched() {
		return strconv.Itoa(s.units)
	}
	parts := make([]string, len(s.branches))
	for i, n := range s.branches {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FlatSizes returns the plain sizes when no entry is branched.
func FlatSizes(sizes []LayerSize) ([]int, bool) {
	ns := make([]int, len(sizes))
	for i, s := range sizes {
		if s.IsBranched() {
			return nil, false
		}
		ns[i] = s.units
	}
	return ns, true
}

// ParseLayerSizes reads a nested list such as "[2, [16, 16], [16, 16], 2]".
func ParseLayerSizes(s string) ([]LayerSize, error) {
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("layer sizes %q: not a valid list", s)
	}
	root := gjson.Parse(s)
	if !root.IsArray() {
		return nil, fmt.Errorf("layer sizes %q: expected a list", s)
	}

	var (
		sizes []LayerSize
		err   error
	)
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsArray() {
			var n int
			if n, err = intValue(v); err == nil {
				sizes = append(sizes, Shared(n))
			}
			return err == nil
		}
		ns := []int{}
		v.ForEach(func(_, e gjson.Result) bool {
			var n int
			if n, err = intValue(e); err == nil {
				ns = append(ns, n)
			}
			return err == nil
		})
		if err == nil {
			sizes = append(sizes, Branched(ns...))
		}
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("layer sizes %q: %w", s, err)
	}
	return sizes, nil
}

func intValue(v gjson.Result) (int, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%s is not an integer", v.Raw)
	}
	f := v.Float()
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not an integer", v.Raw)
	}
	return int(v.Int()), nil
}
