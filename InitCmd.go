package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/enzokro/chaski/initwfn"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var errNoShape = errors.New("no weight shape specified (use --shape)")

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize complex-valued weights",
		Long: `Init draws complex-valued weights of the given shape. Each weight has a
Rayleigh distributed magnitude and a phase drawn uniformly from [-π, π]. The
Rayleigh scale is 1/sqrt(fan_in) for the He criterion and
1/sqrt(fan_in + fan_out) for the Glorot criterion.

Shapes are given as [out, in, kernel...], so 8,4,3,3 describes a 3x3
convolution from 4 to 8 channels and 8,4 a dense layer from 4 to 8 units.

Examples:
  # Summarize a Glorot initialization
  chaski init --shape 8,4,3,3 --criterion glorot --seed 42

  # Save float64 weights
  chaski init --shape 64,32 --dtype float64 --out weights.gob

  # Use a JSON configuration, overriding its seed
  chaski init --shape 64,32 -c init.json --seed 7

Configuration file example:
  {"Criterion": "glorot", "Seed": 42, "Dtype": "float32"}`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().IntSliceP("shape", "s", nil,
		"Weight shape as [out, in, kernel...], e.g. 8,4,3,3")
	cmd.Flags().String("criterion", "",
		"Variance criterion, one of [he, glorot] (default he)")
	cmd.Flags().Uint64("seed", 0,
		"Random seed (default: seeded from the clock)")
	cmd.Flags().String("dtype", "",
		"Weight dtype, one of [float32, float64] (default float32)")
	cmd.Flags().StringP("config", "c", "", "JSON initializer configuration file")
	cmd.Flags().StringP("out", "o", "", "Write the weights to this gob file")

	return cmd
}

// runInitCmd executes the init command
func runInitCmd(cmd *cobra.Command, _ []string) error {
	shape, err := cmd.Flags().GetIntSlice("shape")
	if err != nil {
		return err
	}
	if len(shape) == 0 {
		return errNoShape
	}

	config, err := buildInitConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)
	logger.Debug("initializer configuration", "config", config.String())

	rayleigh, err := config.Create()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	weights, err := rayleigh.Init(shape...)
	if err != nil {
		return err
	}

	fanIn, fanOut, err := initwfn.FanInOut(shape)
	if err != nil {
		return err
	}
	sigma, err := initwfn.Sigma(shape, rayleigh.Criterion())
	if err != nil {
		return err
	}

	attrs := []any{
		"shape", shape,
		"criterion", rayleigh.Criterion(),
		"dtype", initwfn.DtypeName(rayleigh.Dtype()),
		"fan_in", fanIn,
		"fan_out", fanOut,
		"sigma", sigma,
		"magnitude_mean", stat.Mean(weights.Magnitude(), nil),
	}
	if seed, ok := rayleigh.Seed(); ok {
		attrs = append(attrs, "seed", seed)
	}
	logger.Info("initialized weights", attrs...)

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out != "" {
		if err := weights.Save(out); err != nil {
			return fmt.Errorf("failed to save weights: %w", err)
		}
		logger.Info("saved weights", "file", out)
	}

	return nil
}

// buildInitConfig creates the initializer configuration from the
// configuration file, if any, and the command flags. Flags take
// precedence over the configuration file.
func buildInitConfig(cmd *cobra.Command) (initwfn.Config, error) {
	var config initwfn.Config

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read configuration: %w", err)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse configuration %v: %w",
				path, err)
		}
	}

	if cmd.Flags().Changed("criterion") {
		criterion, err := cmd.Flags().GetString("criterion")
		if err != nil {
			return config, err
		}
		config.Criterion = initwfn.Criterion(criterion)
	}
	if cmd.Flags().Changed("seed") {
		seed, err := cmd.Flags().GetUint64("seed")
		if err != nil {
			return config, err
		}
		config.Seed = &seed
	}
	if cmd.Flags().Changed("dtype") {
		dtype, err := cmd.Flags().GetString("dtype")
		if err != nil {
			return config, err
		}
		config.Dtype = dtype
	}

	return config, nil
}
