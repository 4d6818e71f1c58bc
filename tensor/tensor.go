package tensor

import (
	"fmt"

	gt "gorgonia.org/tensor"
)

// Tensor is a simple n-D array backed by a flat []float64. It is the
// host-side form used for weight files, CLI I/O and reference checks.
type Tensor struct {
	Data  []float64
	Shape []int
}

// New allocates a Tensor of given shape (product of dims = len(Data)).
func New(shape ...int) *Tensor {
	total := 1
	for _, d := range shape {
		total *= d
	}
	return &Tensor{
		Data:  make([]float64, total),
		Shape: append([]int(nil), shape...),
	}
}

// NewWithData creates a 1-D tensor from existing data slice.
func NewWithData(data []float64) *Tensor {
	return &Tensor{
		Data:  append([]float64(nil), data...),
		Shape: []int{len(data)},
	}
}

// Linspace returns an (n, 1) column of evenly spaced points in [lo, hi].
func Linspace(lo, hi float64, n int) *Tensor {
	t := New(n, 1)
	if n == 1 {
		t.Data[0] = lo
		return t
	}
	step := (hi - lo) / float64(n-1)
	for i := range t.Data {
		t.Data[i] = lo + float64(i)*step
	}
	return t
}

// FromDense copies a float32 or float64 engine tensor.
func FromDense(d *gt.Dense) (*Tensor, error) {
	out := New(d.Shape()...)
	switch data := d.Data().(type) {
	case []float64:
		copy(out.Data, data)
	case []float32:
		for i, v := range data {
			out.Data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("FromDense: unsupported dtype %v", d.Dtype())
	}
	return out, nil
}

// ToDense converts t into an engine tensor of the given float dtype.
func (t *Tensor) ToDense(dt gt.Dtype) (*gt.Dense, error) {
	switch dt {
	case gt.Float64:
		return gt.New(gt.WithShape(t.Shape...), gt.WithBacking(append([]float64(nil), t.Data...))), nil
	case gt.Float32:
		data := make([]float32, len(t.Data))
		for i, v := range t.Data {
			data[i] = float32(v)
		}
		return gt.New(gt.WithShape(t.Shape...), gt.WithBacking(data)), nil
	default:
		return nil, fmt.Errorf("ToDense: unsupported dtype %v", dt)
	}
}

// CopyInto overwrites the contents of d, which must hold the same number of
// elements.
func (t *Tensor) CopyInto(d *gt.Dense) error {
	if d.Shape().TotalSize() != len(t.Data) {
		return fmt.Errorf("CopyInto: size mismatch: %v vs %v", t.Shape, d.Shape())
	}
	switch data := d.Data().(type) {
	case []float64:
		copy(data, t.Data)
	case []float32:
		for i, v := range t.Data {
			data[i] = float32(v)
		}
	default:
		return fmt.Errorf("CopyInto: unsupported dtype %v", d.Dtype())
	}
	return nil
}

// Add returns a+b (same shape), or error if shapes differ.
func Add(a, b *Tensor) (*Tensor, error) {
	if !sameShape(a.Shape, b.Shape) {
		return nil, fmt.Errorf("shape mismatch: %v vs %v", a.Shape, b.Shape)
	}
	out := New(a.Shape...)
	for i := range a.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out, nil
}

// AddRow adds a 1-D row vector to every row of a 2-D tensor.
func AddRow(a, row *Tensor) (*Tensor, error) {
	if len(a.Shape) != 2 || len(row.Data) != a.Shape[1] {
		return nil, fmt.Errorf("AddRow: cannot add %v to rows of %v", row.Shape, a.Shape)
	}
	out := New(a.Shape...)
	c := a.Shape[1]
	for i := range a.Data {
		out.Data[i] = a.Data[i] + row.Data[i%c]
	}
	return out, nil
}

// MatMul returns a×b (2-D only), or error if dims mismatch.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if len(a.Shape) != 2 || len(b.Shape) != 2 {
		return nil, fmt.Errorf("MatMul requires 2-D tensors, got %v and %v", a.Shape, b.Shape)
	}
	r, k := a.Shape[0], a.Shape[1]
	k2, c := b.Shape[0], b.Shape[1]
	if k != k2 {
		return nil, fmt.Errorf("inner dimensions must match: %d vs %d", k, k2)
	}
	out := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum := 0.0
			for t := 0; t < k; t++ {
				sum += a.Data[i*k+t] * b.Data[t*c+j]
			}
			out.Data[i*c+j] = sum
		}
	}
	return out, nil
}

// Apply returns f applied to each element of a.
func Apply(a *Tensor, f func(float64) float64) *Tensor {
	out := New(a.Shape...)
	for i, v := range a.Data {
		out.Data[i] = f(v)
	}
	return out
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// At returns the element at the given indices.
// For a 2D tensor [r, c], At(i, j) returns the element at row i, column j.
func (t *Tensor) At(indices ...int) float64 {
	return t.Data[t.offset("At", indices)]
}

// Set sets the element at the given indices to the given value.
func (t *Tensor) Set(value float64, indices ...int) {
	t.Data[t.offset("Set", indices)] = value
}

func (t *Tensor) offset(op string, indices []int) int {
	if len(indices) != len(t.Shape) {
		panic(fmt.Sprintf("%s: expected %d indices, got %d", op, len(t.Shape), len(indices)))
	}
	idx := 0
	stride := 1
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < 0 || indices[i] >= t.Shape[i] {
			panic(fmt.Sprintf("%s: index %d out of bounds for dimension %d (shape: %v)", op, indices[i], i, t.Shape))
		}
		idx += indices[i] * stride
		stride *= t.Shape[i]
	}
	return idx
}
