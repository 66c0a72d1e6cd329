// Package main provides CMA-ES tuning for contact spring parameters
// that settle a dropped body quickly without bounce or tangential creep.
package main

import (
	"github.com/mthorley/groundspring/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. The
// shape parameters d0/d1/d2 are locked: they define the material, not
// the numerics, and come from measurement rather than tuning.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "normal_viscosity", Path: "contact.normal_viscosity", Min: 0.05, Max: 2.0, Default: 0.5},
			{Name: "elasticity", Path: "contact.elasticity", Min: 200, Max: 20000, Default: 2000},
			{Name: "viscosity", Path: "contact.viscosity", Min: 5, Max: 500, Default: 89.4427},
			{Name: "sliding_tau", Path: "contact.sliding_tau", Min: 0.001, Max: 0.1, Default: 0.01},
		},
	}
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
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Contact.NormalViscosity = clamped[0]
	cfg.Contact.Elasticity = clamped[1]
	cfg.Contact.Viscosity = clamped[2]
	cfg.Contact.SlidingTau = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Contact.NormalViscosity,
		cfg.Contact.Elasticity,
		cfg.Contact.Viscosity,
		cfg.Contact.SlidingTau,
	}
}
