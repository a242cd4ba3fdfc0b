package initwfn

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"os"

	"github.com/viterin/vek/vek32"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Complex holds complex-valued weights as two real-valued tensors of
// the same shape and dtype, one for the real part and one for the
// imaginary part.
type Complex struct {
	Real *tensor.Dense
	Imag *tensor.Dense
}

// newComplex creates a new Complex with the given shape and dtype from
// the float64 real and imaginary parts re and im.
func newComplex(shape []int, dt tensor.Dtype, re, im []float64) *Complex {
	return &Complex{
		Real: newDense(shape, dt, re),
		Imag: newDense(shape, dt, im),
	}
}

// newDense creates a new tensor of the given shape and dtype backed by
// data, converting data to float32 if needed.
func newDense(shape []int, dt tensor.Dtype, data []float64) *tensor.Dense {
	shape = append([]int(nil), shape...)
	if dt == tensor.Float32 {
		return tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(vek32.FromFloat64(data)))
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

// Shape returns the shape of the weights
func (c *Complex) Shape() tensor.Shape {
	return c.Real.Shape().Clone()
}

// Dtype returns the dtype of the weights
func (c *Complex) Dtype() tensor.Dtype {
	return c.Real.Dtype()
}

// Len returns the number of complex weights
func (c *Complex) Len() int {
	return c.Real.Shape().TotalSize()
}

// Float64s returns copies of the real and imaginary parts as float64
// slices in row-major order
func (c *Complex) Float64s() (re, im []float64) {
	return float64s(c.Real), float64s(c.Imag)
}

// Magnitude returns the modulus of each complex weight
func (c *Complex) Magnitude() []float64 {
	re, im := c.Float64s()
	mag := make([]float64, len(re))
	for i := range re {
		mag[i] = math.Hypot(re[i], im[i])
	}
	return mag
}

// Phase returns the argument of each complex weight in [-π, π]
func (c *Complex) Phase() []float64 {
	re, im := c.Float64s()
	phase := make([]float64, len(re))
	for i := range re {
		phase[i] = math.Atan2(im[i], re[i])
	}
	return phase
}

// Params wraps the real and imaginary parts as learnable nodes in the
// computational graph g. The nodes are named name_real and name_imag.
//
// The nodes are bound to the tensors of c, so c should not be modified
// while the graph is in use.
func (c *Complex) Params(g *G.ExprGraph, name string) (re, im *G.Node) {
	shape := c.Shape()
	re = G.NewTensor(g, c.Dtype(), shape.Dims(), G.WithShape(shape...),
		G.WithName(name+"_real"), G.WithValue(c.Real))
	im = G.NewTensor(g, c.Dtype(), shape.Dims(), G.WithShape(shape...),
		G.WithName(name+"_imag"), G.WithValue(c.Imag))
	return re, im
}

// complexGob is the gob representation of Complex. Values are always
// stored as float64, which represents float32 values exactly.
type complexGob struct {
	Shape []int
	Dtype string
	Real  []float64
	Imag  []float64
}

// GobEncode implements the gob.GobEncoder interface
func (c *Complex) GobEncode() ([]byte, error) {
	re, im := c.Float64s()
	enc := complexGob{
		Shape: c.Shape(),
		Dtype: DtypeName(c.Dtype()),
		Real:  re,
		Imag:  im,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(enc); err != nil {
		return nil, fmt.Errorf("gobEncode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (c *Complex) GobDecode(encoded []byte) error {
	var dec complexGob
	if err := gob.NewDecoder(bytes.NewReader(encoded)).Decode(&dec); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}

	dt, err := ParseDtype(dec.Dtype)
	if err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}
	for _, dim := range dec.Shape {
		if dim <= 0 {
			return fmt.Errorf("gobDecode: shape %v has a non-positive "+
				"dimension: %w", dec.Shape, ErrInvalidShape)
		}
	}
	size, err := shapeSize(dec.Shape)
	if err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}
	if len(dec.Shape) < 2 || len(dec.Real) != size || len(dec.Imag) != size {
		return fmt.Errorf("gobDecode: data does not match shape %v: %w",
			dec.Shape, ErrInvalidShape)
	}

	*c = *newComplex(dec.Shape, dt, dec.Real, dec.Imag)
	return nil
}

// Save saves the weights to a file using gob encoding
func (c *Complex) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create weights file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("save: could not encode weights: %w", err)
	}
	return file.Close()
}

// LoadComplex loads weights saved by Complex.Save
func LoadComplex(filename string) (*Complex, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadComplex: could not open weights file: %w",
			err)
	}
	defer file.Close()

	c := &Complex{}
	if err := gob.NewDecoder(file).Decode(c); err != nil {
		return nil, fmt.Errorf("loadComplex: could not decode weights: %w",
			err)
	}
	return c, nil
}

// float64s returns a float64 copy of the data backing t
func float64s(t *tensor.Dense) []float64 {
	switch data := t.Data().(type) {
	case []float64:
		return append([]float64(nil), data...)
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	}
	panic(fmt.Sprintf("float64s: unsupported dtype %v", t.Dtype()))
}
