// Package initializers fills parameter tensors in place.
//
// Fans follow the (in, out) weight layout used by layers.Linear: for a 2-D
// tensor fanIn is the row count and fanOut the column count, a 1-D tensor
// uses its length for both.
package initializers

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Initializer overwrites the contents of t.
type Initializer func(t *tensor.Dense) error

// ErrUnknown is returned by Get for names missing from the registry.
var ErrUnknown = errors.New("unknown initializer")

var (
	srcMu sync.Mutex
	src   rand.Source = rand.NewSource(uint64(time.Now().UnixNano()))
)

// Seed resets the random source shared by all sampling initializers.
func Seed(seed uint64) {
	srcMu.Lock()
	src = rand.NewSource(seed)
	srcMu.Unlock()
}

var supported = map[string]Initializer{
	"glorot normal":  glorotNormal,
	"glorot uniform": glorotUniform,
	"he normal":      heNormal,
	"he uniform":     heUniform,
	"lecun normal":   lecunNormal,
	"lecun uniform":  lecunUniform,
	"orthogonal":     orthogonal,
	"zeros":          zeros,
}

// Get returns the initializer registered under name (case-insensitive),
// e.g. "Glorot normal" or "zeros".
func Get(name string) (Initializer, error) {
	f, ok := supported[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return f, nil
}

// Names lists the registered initializer names in sorted order.
func Names() []string {
	names := make([]string, 0, len(supported))
	for n := range supported {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func fans(t *tensor.Dense) (fanIn, fanOut int, err error) {
	shape := t.Shape()
	switch len(shape) {
	case 1:
		fanIn, fanOut = shape[0], shape[0]
	case 2:
		fanIn, fanOut = shape[0], shape[1]
	default:
		return 0, 0, fmt.Errorf("cannot compute fans for shape %v", shape)
	}
	if fanIn <= 0 || fanOut <= 0 {
		return 0, 0, fmt.Errorf("cannot compute fans for shape %v", shape)
	}
	return fanIn, fanOut, nil
}

// fill writes next() into every element of t.
func fill(t *tensor.Dense, next func() float64) error {
	switch data := t.Data().(type) {
	case []float64:
		for i := range data {
			data[i] = next()
		}
	case []float32:
		for i := range data {
			data[i] = float32(next())
		}
	default:
		return fmt.Errorf("unsupported dtype %v", t.Dtype())
	}
	return nil
}

func normal(t *tensor.Dense, std float64) error {
	srcMu.Lock()
	defer srcMu.Unlock()
	d := distuv.Normal{Mu: 0, Sigma: std, Src: src}
	return fill(t, d.Rand)
}

func uniform(t *tensor.Dense, bound float64) error {
	srcMu.Lock()
	defer srcMu.Unlock()
	d := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	return fill(t, d.Rand)
}

func glorotNormal(t *tensor.Dense) error {
	in, out, err := fans(t)
	if err != nil {
		return err
	}
	return normal(t, math.Sqrt(2/float64(in+out)))
}

func glorotUniform(t *tensor.Dense) error {
	in, out, err := fans(t)
	if err != nil {
		return err
	}
	return uniform(t, math.Sqrt(6/float64(in+out)))
}

func heNormal(t *tensor.Dense) error {
	in, _, err := fans(t)
	if err != nil {
		return err
	}
	return normal(t, math.Sqrt(2/float64(in)))
}

func heUniform(t *tensor.Dense) error {
	in, _, err := fans(t)
	if err != nil {
		return err
	}
	return uniform(t, math.Sqrt(6/float64(in)))
}

func lecunNormal(t *tensor.Dense) error {
	in, _, err := fans(t)
	if err != nil {
		return err
	}
	return normal(t, math.Sqrt(1/float64(in)))
}

func lecunUniform(t *tensor.Dense) error {
	in, _, err := fans(t)
	if err != nil {
		return err
	}
	return uniform(t, math.Sqrt(3/float64(in)))
}

func zeros(t *tensor.Dense) error {
	return fill(t, func() float64 { return 0 })
}

// orthogonal draws a Gaussian matrix and keeps the Q factor of its QR
// decomposition, with column signs fixed by diag(R). Wide matrices are
// factorized transposed so the result has orthonormal rows instead.
func orthogonal(t *tensor.Dense) error {
	shape := t.Shape()
	if len(shape) != 2 {
		return fmt.Errorf("orthogonal initializer needs a 2-D tensor, got shape %v", shape)
	}
	rows, cols := shape[0], shape[1]
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("orthogonal initializer got empty shape %v", shape)
	}
	m, n := rows, cols
	transposed := rows < cols
	if transposed {
		m, n = cols, rows
	}

	gauss := make([]float64, m*n)
	srcMu.Lock()
	d := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	for i := range gauss {
		gauss[i] = d.Rand()
	}
	srcMu.Unlock()

	var qr mat.QR
	qr.Factorize(mat.NewDense(m, n, gauss))
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	vals := make([]float64, rows*cols)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := q.At(i, j)
			if r.At(j, j) < 0 {
				v = -v
			}
			if transposed {
				vals[j*cols+i] = v
			} else {
				vals[i*cols+j] = v
			}
		}
	}
	k := 0
	return fill(t, func() float64 {
		v := vals[k]
		k++
		return v
	})
}
