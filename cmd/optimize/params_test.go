package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/telemetry"
)

func TestParamVectorSpecs(t *testing.T) {
	pv := NewParamVector(config.Default())

	// Six creation parameters plus breeding for the four animals.
	if pv.Dim() != 10 {
		t.Fatalf("Dim() = %d, want 10", pv.Dim())
	}
	if pv.Specs[0].Name != "grass_creation" || pv.Specs[0].Default != 0.09 {
		t.Errorf("first spec = %+v", pv.Specs[0])
	}
	for _, spec := range pv.Specs {
		if spec.Field == fieldBreeding && spec.Species == components.Grass {
			t.Error("plants have no breeding parameter")
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("param %s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	base := config.Default()
	pv := NewParamVector(base)

	values := pv.DefaultVector()
	values[0] = 5 // above the bound, clamped to the maximum
	cfg := base.Clone()
	if err := pv.ApplyToConfig(cfg, values); err != nil {
		t.Fatalf("ApplyToConfig: %v", err)
	}

	got := pv.ExtractFromConfig(cfg)
	if got[0] != pv.Specs[0].Max {
		t.Errorf("grass creation = %v, want clamped to %v", got[0], pv.Specs[0].Max)
	}
	if cfg.Params(components.Grass).CreationProbability != pv.Specs[0].Max {
		t.Error("derived table not refreshed")
	}
	if base.Params(components.Grass).CreationProbability != 0.09 {
		t.Error("base config modified")
	}
}

func TestComputeQuality(t *testing.T) {
	steady := telemetry.WindowStats{Grass: 10, Rabbit: 20, Snake: 5, Represented: 3}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"warmup only", []telemetry.WindowStats{steady, steady}, 0},
		{"steady", []telemetry.WindowStats{steady, steady, steady, steady}, 0.6*0.5 + 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(tt.windows); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeQuality() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitness(t *testing.T) {
	if got := computeFitness(100, 0); got != -100 {
		t.Errorf("computeFitness(100, 0) = %v, want -100", got)
	}
	if computeFitness(100, 1) >= computeFitness(100, 0) {
		t.Error("quality does not improve fitness")
	}
}
