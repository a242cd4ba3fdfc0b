package initwfn

import (
	"fmt"
	"math"
	"strings"
)

// Criterion describes a variance scaling criterion used to compute the
// scale of the weight distribution from a weight shape.
type Criterion string

// Available criteria
const (
	// He scales the weight variance by 1 / fanIn
	He Criterion = "he"

	// Glorot scales the weight variance by 1 / (fanIn + fanOut)
	Glorot Criterion = "glorot"
)

// ParseCriterion returns the Criterion named by s. Parsing is case
// insensitive.
func ParseCriterion(s string) (Criterion, error) {
	c := Criterion(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("parseCriterion: %q is not one of [%v, %v]: %w",
			s, He, Glorot, ErrInvalidCriterion)
	}
	return c, nil
}

// Valid returns whether c is a known criterion
func (c Criterion) Valid() bool {
	return c == He || c == Glorot
}

// Factor returns the variance normalization factor of the criterion
func (c Criterion) Factor(fanIn, fanOut int) (int, error) {
	switch c {
	case He:
		return fanIn, nil
	case Glorot:
		if fanIn > math.MaxInt-fanOut {
			return 0, fmt.Errorf("factor: fan in %d + fan out %d overflows "+
				"int: %w", fanIn, fanOut, ErrInvalidShape)
		}
		return fanIn + fanOut, nil
	}
	return 0, fmt.Errorf("factor: unknown criterion %q: %w", string(c),
		ErrInvalidCriterion)
}

// String implements the fmt.Stringer interface
func (c Criterion) String() string {
	return string(c)
}

// MarshalText implements the encoding.TextMarshaler interface
func (c Criterion) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshalText: unknown criterion %q: %w",
			string(c), ErrInvalidCriterion)
	}
	return []byte(c), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (c *Criterion) UnmarshalText(text []byte) error {
	parsed, err := ParseCriterion(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Sigma computes the scale of the Rayleigh distribution such that
// complex weights of the given shape satisfy the variance criterion c.
func Sigma(shape []int, c Criterion) (float64, error) {
	fanIn, fanOut, err := FanInOut(shape)
	if err != nil {
		return 0, err
	}

	factor, err := c.Factor(fanIn, fanOut)
	if err != nil {
		return 0, err
	}
	if factor <= 0 {
		return 0, fmt.Errorf("sigma: criterion %v gives factor %d for "+
			"shape %v: %w", c, factor, shape, ErrDegenerateShape)
	}

	sigma := 1.0 / math.Sqrt(float64(factor))
	if math.IsInf(sigma, 0) || math.IsNaN(sigma) {
		return 0, fmt.Errorf("sigma: non-finite sigma for shape %v: %w",
			shape, ErrDegenerateShape)
	}
	return sigma, nil
}
