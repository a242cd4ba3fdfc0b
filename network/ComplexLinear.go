// Package network implements complex-valued neural network layers on
// top of Gorgonia computational graphs.
//
// Complex values are represented by pairs of real nodes, one holding
// the real part and one holding the imaginary part.
package network

import (
	"fmt"

	"github.com/enzokro/chaski/initwfn"
	G "gorgonia.org/gorgonia"
)

// ComplexLinear implements a fully connected layer with complex
// weights and biases. Given an input x of shape (batch, nin) the
// layer computes
//
//	y = act(x Wᵀ + b)
//
// in complex arithmetic, where W has shape (nout, nin) and b has shape
// (1, nout).
type ComplexLinear struct {
	nin, nout int
	init      *initwfn.Complex

	weightsReal, weightsImag *G.Node
	biasReal, biasImag       *G.Node
	act                      *Activation
}

// NewComplexLinear creates a new ComplexLinear layer in the graph g
// with nin input features and nout output features. Weights are drawn
// from init with shape (nout, nin). If bias is true, the layer has a
// complex bias initialized to zero. Node names are prefixed by name,
// which must be unique in g.
func NewComplexLinear(g *G.ExprGraph, name string, nin, nout int,
	init *initwfn.Rayleigh, bias bool, act *Activation) (*ComplexLinear, error) {
	if init == nil {
		return nil, fmt.Errorf("newComplexLinear: nil initializer")
	}

	weights, err := init.Init(nout, nin)
	if err != nil {
		return nil, fmt.Errorf("newComplexLinear: could not initialize "+
			"weights: %w", err)
	}
	wr, wi := weights.Params(g, name+"_weights")

	l := &ComplexLinear{
		nin:         nin,
		nout:        nout,
		init:        weights,
		weightsReal: wr,
		weightsImag: wi,
		act:         act,
	}

	if bias {
		l.biasReal = G.NewMatrix(g, weights.Dtype(), G.WithShape(1, nout),
			G.WithName(name+"_bias_real"), G.WithInit(G.Zeroes()))
		l.biasImag = G.NewMatrix(g, weights.Dtype(), G.WithShape(1, nout),
			G.WithName(name+"_bias_imag"), G.WithInit(G.Zeroes()))
	}

	return l, nil
}

// Fwd adds the forward pass of the layer to the computational graph.
// Both xr and xi must have shape (batch, nin).
func (l *ComplexLinear) Fwd(xr, xi *G.Node) (yr, yi *G.Node, err error) {
	wrT, err := G.Transpose(l.weightsReal)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}
	wiT, err := G.Transpose(l.weightsImag)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}

	// (a + ib)(c + id) = (ac - bd) + i(ad + bc)
	ac, err := G.Mul(xr, wrT)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}
	bd, err := G.Mul(xi, wiT)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}
	ad, err := G.Mul(xr, wiT)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}
	bc, err := G.Mul(xi, wrT)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}

	if yr, err = G.Sub(ac, bd); err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}
	if yi, err = G.Add(ad, bc); err != nil {
		return nil, nil, fmt.Errorf("fwd: %w", err)
	}

	if l.HasBias() {
		// Broadcast the bias to all samples along the batch dimension
		if yr, err = G.BroadcastAdd(yr, l.biasReal, nil, []byte{0}); err != nil {
			return nil, nil, fmt.Errorf("fwd: %w", err)
		}
		if yi, err = G.BroadcastAdd(yi, l.biasImag, nil, []byte{0}); err != nil {
			return nil, nil, fmt.Errorf("fwd: %w", err)
		}
	}

	return l.act.fwd(yr, yi)
}

// In returns the number of input features
func (l *ComplexLinear) In() int {
	return l.nin
}

// Out returns the number of output features
func (l *ComplexLinear) Out() int {
	return l.nout
}

// HasBias returns whether the layer has a bias
func (l *ComplexLinear) HasBias() bool {
	return l.biasReal != nil
}

// Activation returns the activation of the layer
func (l *ComplexLinear) Activation() *Activation {
	return l.act
}

// Weights returns the real and imaginary weight nodes
func (l *ComplexLinear) Weights() (re, im *G.Node) {
	return l.weightsReal, l.weightsImag
}

// Bias returns the real and imaginary bias nodes, which are nil if the
// layer has no bias
func (l *ComplexLinear) Bias() (re, im *G.Node) {
	return l.biasReal, l.biasImag
}

// InitialWeights returns the complex weights the layer was created
// with
func (l *ComplexLinear) InitialWeights() *initwfn.Complex {
	return l.init
}

// Learnables returns the learnable nodes of the layer
func (l *ComplexLinear) Learnables() G.Nodes {
	learnables := G.Nodes{l.weightsReal, l.weightsImag}
	if l.HasBias() {
		learnables = append(learnables, l.biasReal, l.biasImag)
	}
	return learnables
}
