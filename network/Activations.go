package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

type activationType string

const (
	identity  activationType = "identity"
	splitReLU activationType = "splitrelu"
	splitTanH activationType = "splittanh"
	nil_      activationType = "nil"
)

// Activation represents a complex activation function. Split
// activations apply a real activation function to the real and
// imaginary parts independently.
type Activation struct {
	activationType
	f func(x *G.Node) (*G.Node, error)
}

// fwd performs the forward pass of an Activation on the real and
// imaginary parts of its input
func (a *Activation) fwd(re, im *G.Node) (*G.Node, *G.Node, error) {
	if a == nil || a.f == nil {
		return re, im, nil
	}

	re, err := a.f(re)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %v real: %w", a, err)
	}
	im, err = a.f(im)
	if err != nil {
		return nil, nil, fmt.Errorf("fwd: %v imag: %w", a, err)
	}
	return re, im, nil
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == identity
}

// IsNil returns whether an activation is nil
func (a *Activation) IsNil() bool {
	return a.activationType == nil_
}

// GobEncode implements the GobEncoder interface
func (a *Activation) GobEncode() ([]byte, error) {
	return []byte(a.activationType), nil
}

// GobDecode implements the GobDecoder interface
func (a *Activation) GobDecode(encoded []byte) error {
	decoded := activationType(encoded)
	switch decoded {
	case splitReLU:
		*a = *SplitReLU()
	case identity:
		*a = *Identity()
	case splitTanH:
		*a = *SplitTanH()
	case nil_:
		*a = *Nil()
	default:
		return fmt.Errorf("gobdecode: illegal Activation type %q", decoded)
	}
	return nil
}

// Nil returns a nil *Activation
func Nil() *Activation {
	return &Activation{
		activationType: nil_,
		f:              nil,
	}
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
	}
}

// SplitReLU returns an *Activation which applies ReLU to the real and
// imaginary parts separately
func SplitReLU() *Activation {
	return &Activation{
		activationType: splitReLU,
		f:              G.Rectify,
	}
}

// SplitTanH returns an *Activation which applies tanh to the real and
// imaginary parts separately
func SplitTanH() *Activation {
	return &Activation{
		activationType: splitTanH,
		f:              G.Tanh,
	}
}
