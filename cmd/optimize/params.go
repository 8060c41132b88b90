// Package main provides CMA-ES optimization for race tuning parameters.
package main

import (
	"github.com/pthm-cable/conerace/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Genetic algorithm
			{Name: "chance_mutation", Path: "genetic.chance_mutation", Min: 0.05, Max: 0.9, Default: 0.3},
			{Name: "chance_crossover", Path: "genetic.chance_crossover", Min: 0.0, Max: 0.9, Default: 0.2},
			{Name: "proportion_kept", Path: "genetic.proportion_kept", Min: 0.05, Max: 0.6, Default: 0.2},
			// Driving
			{Name: "turn_angle", Path: "car.turn_angle", Min: 2.0, Max: 30.0, Default: 10.0},
			{Name: "acceleration", Path: "car.acceleration", Min: 0.05, Max: 1.0, Default: 0.2},
			{Name: "deceleration", Path: "car.deceleration", Min: 0.1, Max: 2.0, Default: 0.5},
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Genetic.ChanceMutation = clamped[0]
	cfg.Genetic.ChanceCrossover = clamped[1]
	cfg.Genetic.ProportionKept = clamped[2]
	cfg.Car.TurnAngle = clamped[3]
	cfg.Car.Acceleration = clamped[4]
	cfg.Car.Deceleration = clamped[5]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Genetic.ChanceMutation,
		cfg.Genetic.ChanceCrossover,
		cfg.Genetic.ProportionKept,
		cfg.Car.TurnAngle,
		cfg.Car.Acceleration,
		cfg.Car.Deceleration,
	}
}
