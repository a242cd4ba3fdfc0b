package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/enzokro/chaski/initwfn"
	"gorgonia.org/tensor"
)

func TestNewInitCmd(t *testing.T) {
	cmd := NewInitCmd()

	if cmd.Use != "init" {
		t.Errorf("expected use 'init', got %q", cmd.Use)
	}
	for _, name := range []string{"shape", "criterion", "seed", "dtype",
		"config", "out"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %v flag", name)
		}
	}
}

func TestRunInitCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weights.gob")

	_, logs, err := execute(t, "init", "--shape", "8,4,3,3", "--criterion",
		"glorot", "--seed", "42", "--out", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"fan_in=36", "fan_out=72",
		"criterion=glorot", "dtype=float32", "seed=42", "sigma=0.0962",
		"saved weights"} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected log to contain %q, got %q", want, logs)
		}
	}

	saved, err := initwfn.LoadComplex(out)
	if err != nil {
		t.Fatalf("could not load saved weights: %v", err)
	}
	want, err := initwfn.Initialize([]int{8, 4, 3, 3},
		initwfn.WithCriterion(initwfn.Glorot), initwfn.WithSeed(42))
	if err != nil {
		t.Fatal(err)
	}
	assertSameWeights(t, saved, want)
}

func TestRunInitCmdConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "init.json")
	data := []byte(`{"Criterion": "glorot", "Seed": 3, "Dtype": "float64"}`)
	if err := os.WriteFile(config, data, 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "weights.gob")

	// The seed flag overrides the seed of the configuration file
	_, _, err := execute(t, "init", "--shape", "6,5", "-c", config, "--seed",
		"4", "-o", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := initwfn.LoadComplex(out)
	if err != nil {
		t.Fatal(err)
	}
	want, err := initwfn.Initialize([]int{6, 5},
		initwfn.WithCriterion(initwfn.Glorot), initwfn.WithSeed(4),
		initwfn.WithDtype(tensor.Float64))
	if err != nil {
		t.Fatal(err)
	}
	assertSameWeights(t, saved, want)
}

func TestRunInitCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  error
	}{
		{"no shape", []string{"init"}, errNoShape},
		{"bad criterion", []string{"init", "-s", "4,4", "--criterion", "lecun"},
			initwfn.ErrInvalidCriterion},
		{"bad dtype", []string{"init", "-s", "4,4", "--dtype", "int"},
			initwfn.ErrInvalidDtype},
		{"one dimension", []string{"init", "-s", "4"},
			initwfn.ErrInvalidShape},
		{"zero dimension", []string{"init", "-s", "0,4"},
			initwfn.ErrDegenerateShape},
	}

	for _, test := range tests {
		_, _, err := execute(t, test.args...)
		if !errors.Is(err, test.err) {
			t.Errorf("%v: error = %v, want %v", test.name, err, test.err)
		}
	}

	if _, _, err := execute(t, "init", "-s", "4,4", "-c",
		filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing configuration file: expected error")
	}
}

func assertSameWeights(t *testing.T, got, want *initwfn.Complex) {
	t.Helper()

	if !got.Shape().Eq(want.Shape()) || got.Dtype() != want.Dtype() {
		t.Fatalf("weights have shape %v and dtype %v, want %v and %v",
			got.Shape(), got.Dtype(), want.Shape(), want.Dtype())
	}

	gotRe, gotIm := got.Float64s()
	wantRe, wantIm := want.Float64s()
	for i := range wantRe {
		if gotRe[i] != wantRe[i] || gotIm[i] != wantIm[i] {
			t.Fatalf("weight %d = %v+%vi, want %v+%vi", i, gotRe[i], gotIm[i],
				wantRe[i], wantIm[i])
		}
	}
}
