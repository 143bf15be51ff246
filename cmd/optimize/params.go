package main

import (
	"fmt"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// paramField selects which species probability a parameter drives.
type paramField uint8

const (
	fieldCreation paramField = iota
	fieldBreeding
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Species components.Species
	Field   paramField
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector builds one creation parameter per defined species and one
// breeding parameter per animal, with defaults taken from cfg.
func NewParamVector(cfg *config.Config) *ParamVector {
	pv := &ParamVector{}
	for _, s := range cfg.Derived.SeedOrder {
		p := cfg.Params(s)
		pv.Specs = append(pv.Specs, ParamSpec{
			Name:    fmt.Sprintf("%s_creation", s),
			Species: s,
			Field:   fieldCreation,
			Min:     0.001,
			Max:     0.20,
			Default: p.CreationProbability,
		})
		if p.Kind == components.KindPlant {
			continue
		}
		pv.Specs = append(pv.Specs, ParamSpec{
			Name:    fmt.Sprintf("%s_breeding", s),
			Species: s,
			Field:   fieldBreeding,
			Min:     0.01,
			Max:     0.50,
			Default: p.BreedingProbability,
		})
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and re-resolves it.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		sc := cfg.FindSpecies(spec.Species)
		if sc == nil {
			return fmt.Errorf("parameter %s: species %s not configured", spec.Name, spec.Species)
		}
		switch spec.Field {
		case fieldCreation:
			sc.CreationProbability = clamped[i]
		case fieldBreeding:
			sc.BreedingProbability = clamped[i]
		}
	}
	return cfg.Resolve()
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		p := cfg.Params(spec.Species)
		switch spec.Field {
		case fieldCreation:
			v[i] = p.CreationProbability
		case fieldBreeding:
			v[i] = p.BreedingProbability
		}
	}
	return v
}
