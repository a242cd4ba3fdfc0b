package initwfn

import (
	"fmt"
	"math"
)

// FanInOut calculates the number of incoming and outgoing connections
// of a weight tensor with the given shape.
//
// Weight shapes are expected in the format:
//
//	[nout, nin, *kernel]
//
// A linear layer only has the first two dimensions, while an n-D
// convolution gains one kernel dimension per spatial dimension. For
// example, a 2D convolution with a (3, 3) kernel has a weight shape
// of [nout, nin, 3, 3].
//
// Note that output features are listed before input features. This is
// the reverse of the order in which layers are usually constructed,
// e.g. NewComplexLinear(nin, nout). A transposed shape silently swaps
// fanIn and fanOut.
func FanInOut(shape []int) (fanIn, fanOut int, err error) {
	if len(shape) < 2 {
		return 0, 0, fmt.Errorf("fanInOut: cannot compute fan in and fan "+
			"out for tensor with %d < 2 dimensions: %w", len(shape),
			ErrInvalidShape)
	}
	for i, dim := range shape {
		if dim < 0 {
			return 0, 0, fmt.Errorf("fanInOut: dimension %d of shape %v "+
				"is negative: %w", i, shape, ErrInvalidShape)
		}
	}

	// Each neuron of a linear layer only sees itself, otherwise the
	// receptive field is the product of all kernel sizes
	receptiveFieldSize, err := shapeSize(shape[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("fanInOut: %w", err)
	}
	if fanIn, err = shapeSize([]int{shape[1], receptiveFieldSize}); err != nil {
		return 0, 0, fmt.Errorf("fanInOut: %w", err)
	}
	if fanOut, err = shapeSize([]int{shape[0], receptiveFieldSize}); err != nil {
		return 0, 0, fmt.Errorf("fanInOut: %w", err)
	}
	return fanIn, fanOut, nil
}

// shapeSize returns the number of elements of a tensor with the given
// shape. Negative dimensions and element counts which overflow an int
// result in ErrInvalidShape.
func shapeSize(shape []int) (int, error) {
	for i, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("shapeSize: dimension %d of shape %v is "+
				"negative: %w", i, shape, ErrInvalidShape)
		}
		if dim == 0 {
			return 0, nil
		}
	}

	size := 1
	for _, dim := range shape {
		if size > math.MaxInt/dim {
			return 0, fmt.Errorf("shapeSize: number of elements of shape %v "+
				"overflows int: %w", shape, ErrInvalidShape)
		}
		size *= dim
	}
	return size, nil
}
