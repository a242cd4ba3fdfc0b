// Package initwfn implements complex-valued weight initialization for
// complex-valued neural networks. Weights are drawn with a Rayleigh
// distributed magnitude and a uniform phase, scaled by a He or Glorot
// variance criterion computed from the weight shape.
//
// Initializers can be described by a Config so that they can be JSON
// serialized into configuration files.
package initwfn

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorgonia.org/tensor"
)

// Config implements a configuration of a complex Rayleigh weight
// initializer.
//
// Seed is a pointer so that a seed of 0 can be distinguished from no
// seed. If Seed is nil, the initializer is seeded from the wall clock.
// An empty Criterion defaults to He and an empty Dtype defaults to
// float32.
type Config struct {
	Criterion Criterion `json:",omitempty"`
	Seed      *uint64   `json:",omitempty"`
	Dtype     string    `json:",omitempty"`
}

// NewConfig returns a new Config
func NewConfig(c Criterion, seed *uint64, dt tensor.Dtype) Config {
	return Config{
		Criterion: c,
		Seed:      seed,
		Dtype:     DtypeName(dt),
	}
}

// Options returns the Options described by the configuration
func (c Config) Options() ([]Option, error) {
	opts := make([]Option, 0, 3)

	if c.Criterion != "" {
		criterion, err := ParseCriterion(string(c.Criterion))
		if err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		opts = append(opts, WithCriterion(criterion))
	}

	if c.Dtype != "" {
		dt, err := ParseDtype(c.Dtype)
		if err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		opts = append(opts, WithDtype(dt))
	}

	if c.Seed != nil {
		opts = append(opts, WithSeed(*c.Seed))
	}

	return opts, nil
}

// Create returns the initializer described by the configuration
func (c Config) Create() (*Rayleigh, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return NewRayleigh(opts...)
}

// String implements the fmt.Stringer interface
func (c Config) String() string {
	seed := "none"
	if c.Seed != nil {
		seed = fmt.Sprint(*c.Seed)
	}
	return fmt.Sprintf("{Rayleigh Criterion: %v Seed: %v Dtype: %v}",
		c.Criterion, seed, c.Dtype)
}

// UnmarshalJSON implements the json.Unmarshaler interface. The
// criterion and dtype are validated when unmarshalled.
func (c *Config) UnmarshalJSON(data []byte) error {
	type config Config
	var decoded config
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("unmarshalJSON: %w", err)
	}

	if decoded.Dtype != "" {
		if _, err := ParseDtype(decoded.Dtype); err != nil {
			return fmt.Errorf("unmarshalJSON: %w", err)
		}
	}

	*c = Config(decoded)
	return nil
}

// ParseDtype returns the tensor dtype with the given name. Only
// float32 and float64 are supported.
func ParseDtype(name string) (tensor.Dtype, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float32":
		return tensor.Float32, nil
	case "float64":
		return tensor.Float64, nil
	}
	return tensor.Dtype{}, fmt.Errorf("parseDtype: %q is not one of "+
		"[float32, float64]: %w", name, ErrInvalidDtype)
}

// DtypeName returns the name of a supported dtype, as accepted by
// ParseDtype
func DtypeName(dt tensor.Dtype) string {
	switch dt {
	case tensor.Float32:
		return "float32"
	case tensor.Float64:
		return "float64"
	}
	return dt.String()
}
