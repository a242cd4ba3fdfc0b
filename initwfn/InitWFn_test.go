package initwfn

import (
	"encoding/json"
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

func TestConfigJSON(t *testing.T) {
	seed := uint64(0)
	config := NewConfig(Glorot, &seed, tensor.Float64)

	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Config
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if decoded.Criterion != Glorot || decoded.Dtype != "float64" {
		t.Errorf("decoded = %v, want %v", decoded, config)
	}
	if decoded.Seed == nil || *decoded.Seed != 0 {
		t.Errorf("decoded seed = %v, want 0", decoded.Seed)
	}
}

func TestConfigUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Config
		wantErr error
	}{
		{
			name: "MixedCase",
			data: `{"Criterion": "GLOROT", "Seed": 42, "Dtype": "Float32"}`,
			want: Config{Criterion: Glorot, Dtype: "Float32"},
		},
		{
			name: "Empty",
			data: `{}`,
			want: Config{},
		},
		{
			name:    "BadCriterion",
			data:    `{"Criterion": "invalid"}`,
			wantErr: ErrInvalidCriterion,
		},
		{
			name:    "BadDtype",
			data:    `{"Criterion": "he", "Dtype": "int32"}`,
			wantErr: ErrInvalidDtype,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var c Config
			err := json.Unmarshal([]byte(test.data), &c)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("unmarshal error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal unexpected error: %v", err)
			}
			if c.Criterion != test.want.Criterion || c.Dtype != test.want.Dtype {
				t.Errorf("unmarshal = %v, want %v", c, test.want)
			}
		})
	}
}

func TestConfigCreate(t *testing.T) {
	seed := uint64(42)
	config := Config{Criterion: Glorot, Seed: &seed, Dtype: "float64"}

	r, err := config.Create()
	if err != nil {
		t.Fatal(err)
	}
	if r.Criterion() != Glorot || r.Dtype() != tensor.Float64 {
		t.Errorf("Create() = (%v, %v), want (%v, %v)", r.Criterion(),
			r.Dtype(), Glorot, tensor.Float64)
	}

	fromConfig, err := r.Init(8, 4, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := Initialize([]int{8, 4, 3, 3}, WithSeed(42),
		WithCriterion(Glorot), WithDtype(tensor.Float64))
	if err != nil {
		t.Fatal(err)
	}

	cRe, cIm := fromConfig.Float64s()
	dRe, dIm := direct.Float64s()
	if !floats.Equal(cRe, dRe) || !floats.Equal(cIm, dIm) {
		t.Error("Config.Create and Initialize produced different weights")
	}

	// Defaults
	r, err = Config{}.Create()
	if err != nil {
		t.Fatal(err)
	}
	if r.Criterion() != He || r.Dtype() != tensor.Float32 {
		t.Errorf("Config{}.Create() = (%v, %v), want (%v, %v)",
			r.Criterion(), r.Dtype(), He, tensor.Float32)
	}

	if _, err := (Config{Dtype: "complex64"}).Create(); !errors.Is(err,
		ErrInvalidDtype) {
		t.Errorf("Create error = %v, want %v", err, ErrInvalidDtype)
	}
}

func TestParseDtype(t *testing.T) {
	for name, want := range map[string]tensor.Dtype{
		"float32": tensor.Float32,
		"FLOAT64": tensor.Float64,
	} {
		dt, err := ParseDtype(name)
		if err != nil || dt != want {
			t.Errorf("ParseDtype(%q) = (%v, %v), want %v", name, dt, err,
				want)
		}
		if got := DtypeName(dt); got != DtypeName(want) {
			t.Errorf("DtypeName(%v) = %q", dt, got)
		}
	}

	if _, err := ParseDtype("float16"); !errors.Is(err, ErrInvalidDtype) {
		t.Errorf("ParseDtype(float16) error = %v, want %v", err,
			ErrInvalidDtype)
	}
}
