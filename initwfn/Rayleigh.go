package initwfn

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Rayleigh draws complex-valued weights whose magnitudes follow a
// Rayleigh distribution and whose phases are uniform in [-π, π). The
// scale of the Rayleigh distribution is chosen from the weight shape
// so that the weights satisfy a He or Glorot variance criterion.
//
// The Rayleigh distribution has density
//
//	f(x; σ) = (x/σ²) exp(-x²/(2σ²)),  x ≥ 0
//
// and variance σ²(4-π)/2, so scaling σ by 1/sqrt(factor) preserves
// the variance of activations across layers in the same way that the
// real-valued He and Glorot initializers do.
//
// A Rayleigh owns its random source. Successive calls to Init continue
// drawing from the same stream, and a Rayleigh must not be used by
// multiple goroutines at once.
type Rayleigh struct {
	criterion Criterion
	dtype     tensor.Dtype

	seed   uint64
	seeded bool
	src    rand.Source
}

// Option configures a Rayleigh initializer
type Option func(*Rayleigh)

// WithSeed seeds the random source of the initializer. Any value,
// including 0, is a valid seed.
func WithSeed(seed uint64) Option {
	return func(r *Rayleigh) {
		r.seed = seed
		r.seeded = true
	}
}

// WithSource sets the random source of the initializer. A source takes
// precedence over a seed.
func WithSource(src rand.Source) Option {
	return func(r *Rayleigh) {
		r.src = src
	}
}

// WithCriterion sets the variance criterion, He by default
func WithCriterion(c Criterion) Option {
	return func(r *Rayleigh) {
		r.criterion = c
	}
}

// WithDtype sets the dtype of the returned weights, tensor.Float32 by
// default
func WithDtype(dt tensor.Dtype) Option {
	return func(r *Rayleigh) {
		r.dtype = dt
	}
}

// NewRayleigh returns a new complex Rayleigh weight initializer.
//
// If neither a seed nor a source is given, the initializer is seeded
// from the wall clock. The seed that was used can be retrieved with
// Seed so that the draw can be reproduced later.
func NewRayleigh(opts ...Option) (*Rayleigh, error) {
	r := &Rayleigh{
		criterion: He,
		dtype:     tensor.Float32,
	}
	for _, opt := range opts {
		opt(r)
	}

	if !r.criterion.Valid() {
		return nil, fmt.Errorf("newRayleigh: criterion %q is not one of "+
			"[%v, %v]: %w", string(r.criterion), He, Glorot,
			ErrInvalidCriterion)
	}
	if r.dtype != tensor.Float32 && r.dtype != tensor.Float64 {
		return nil, fmt.Errorf("newRayleigh: cannot create weights of "+
			"type %v: %w", r.dtype, ErrInvalidDtype)
	}

	if r.src != nil {
		r.seed, r.seeded = 0, false
	} else {
		if !r.seeded {
			r.seed = clockSeed()
			r.seeded = true
		}
		r.src = rand.NewSource(r.seed)
	}

	return r, nil
}

// Criterion returns the variance criterion of the initializer
func (r *Rayleigh) Criterion() Criterion {
	return r.criterion
}

// Dtype returns the dtype of weights created by the initializer
func (r *Rayleigh) Dtype() tensor.Dtype {
	return r.dtype
}

// Seed returns the seed of the random source. The second return value
// is false if the random source was supplied with WithSource.
func (r *Rayleigh) Seed() (uint64, bool) {
	return r.seed, r.seeded
}

// Init draws a new set of complex weights with the given shape. The
// shape is interpreted as [nout, nin, *kernel], see FanInOut.
func (r *Rayleigh) Init(shape ...int) (*Complex, error) {
	sigma, err := Sigma(shape, r.criterion)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	size, err := shapeSize(shape)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("init: shape %v has no elements: %w", shape,
			ErrDegenerateShape)
	}

	// A Weibull distribution with shape 2 and scale σ√2 is a Rayleigh
	// distribution with scale σ
	magDist := distuv.Weibull{K: 2, Lambda: sigma * math.Sqrt2, Src: r.src}
	magnitude := make([]float64, size)
	for i := range magnitude {
		magnitude[i] = finiteRand(magDist)
	}

	phaseDist := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: r.src}
	cos := make([]float64, size)
	sin := make([]float64, size)
	for i := range cos {
		sin[i], cos[i] = math.Sincos(phaseDist.Rand())
	}

	re := floats.MulTo(make([]float64, size), magnitude, cos)
	im := floats.MulTo(make([]float64, size), magnitude, sin)

	return newComplex(shape, r.dtype, re, im), nil
}

// Initialize draws complex Rayleigh weights with the given shape. It
// is equivalent to creating a new Rayleigh with opts and calling Init
// once.
func Initialize(shape []int, opts ...Option) (*Complex, error) {
	r, err := NewRayleigh(opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return r.Init(shape...)
}

// clockSeeds counts the initializers seeded from the wall clock
var clockSeeds atomic.Uint64

// clockSeed returns a seed derived from the wall clock. Initializers
// created within the same clock tick still receive distinct seeds.
func clockSeed() uint64 {
	return uint64(time.Now().UnixNano()) + clockSeeds.Add(1)*0x9e3779b97f4a7c15
}

// finiteRand draws from d until a finite value is returned. The
// inverse CDF of the Weibull distribution diverges when the underlying
// uniform draw is exactly 0.
func finiteRand(d distuv.Rander) float64 {
	for {
		if v := d.Rand(); !math.IsInf(v, 0) {
			return v
		}
	}
}
