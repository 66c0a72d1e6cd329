// Package config provides configuration loading and access for the
// contact simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mthorley/groundspring/contact"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Contact   ContactConfig   `yaml:"contact"`
	Friction  FrictionConfig  `yaml:"friction"`
	Sim       SimConfig       `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ContactConfig holds the exponential-spring contact parameters.
type ContactConfig struct {
	D0                 float64 `yaml:"d0"`                  // Normal force curve shift
	D1                 float64 `yaml:"d1"`                  // Normal force scale
	D2                 float64 `yaml:"d2"`                  // Normal force steepness
	NormalViscosity    float64 `yaml:"normal_viscosity"`    // Normal damping, scaled by elastic force
	Elasticity         float64 `yaml:"elasticity"`          // Tangential friction spring stiffness
	Viscosity          float64 `yaml:"viscosity"`           // Tangential friction damping
	SlidingTau         float64 `yaml:"sliding_tau"`         // Sliding state time constant (s)
	SettleVelocity     float64 `yaml:"settle_velocity"`     // Equilibrium speed threshold
	SettleAcceleration float64 `yaml:"settle_acceleration"` // Equilibrium acceleration threshold
	InitialSliding     float64 `yaml:"initial_sliding"`     // Sliding state at t=0
}

// FrictionConfig holds the friction coefficients.
type FrictionConfig struct {
	MuStatic  float64 `yaml:"mu_static"`
	MuKinetic float64 `yaml:"mu_kinetic"`
}

// SimConfig holds the scenario parameters for the host integrator.
type SimConfig struct {
	DT           float64 `yaml:"dt"`             // Integration step (s)
	Duration     float64 `yaml:"duration"`       // Simulated time (s)
	Gravity      float64 `yaml:"gravity"`        // Gravitational acceleration magnitude
	Mass         float64 `yaml:"mass"`           // Body mass (kg)
	PlaneTiltDeg float64 `yaml:"plane_tilt_deg"` // Tilt of the contact plane about the world y-axis
	DropHeight   float64 `yaml:"drop_height"`    // Initial height of the body above the plane
	InitialSpeed float64 `yaml:"initial_speed"`  // Initial tangential speed
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowSec    float64 `yaml:"window_sec"`    // Stats window length in simulated seconds
	SampleEvery  int     `yaml:"sample_every"`  // Record every Nth step (1 = all)
	AnchorPeriod float64 `yaml:"anchor_period"` // Anchor-speed sampling interval (0 = sliding_tau)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Steps        int     // Sim.Duration / Sim.DT
	TiltRad      float64 // Sim.PlaneTiltDeg in radians
	AnchorPeriod float64 // Effective anchor sampling interval
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.ContactParameters().Validate(); err != nil {
		return nil, fmt.Errorf("contact section: %w", err)
	}
	if cfg.Sim.DT <= 0 {
		return nil, fmt.Errorf("sim section: dt must be positive, got %g", cfg.Sim.DT)
	}
	if cfg.Sim.Mass <= 0 {
		return nil, fmt.Errorf("sim section: mass must be positive, got %g", cfg.Sim.Mass)
	}

	cfg.computeDerived()
	return cfg, nil
}

// Recompute refreshes Derived after fields have been overridden in
// place, for callers that edit a loaded config rather than a file.
func (c *Config) Recompute() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Steps = int(c.Sim.Duration / c.Sim.DT)
	c.Derived.TiltRad = c.Sim.PlaneTiltDeg * math.Pi / 180
	c.Derived.AnchorPeriod = c.Telemetry.AnchorPeriod
	if c.Derived.AnchorPeriod <= 0 {
		c.Derived.AnchorPeriod = c.Contact.SlidingTau
	}
	if c.Telemetry.SampleEvery < 1 {
		c.Telemetry.SampleEvery = 1
	}
}

// ContactParameters builds the contact.Parameters described by the
// contact section.
func (c *Config) ContactParameters() contact.Parameters {
	return contact.Parameters{
		D0:                  c.Contact.D0,
		D1:                  c.Contact.D1,
		D2:                  c.Contact.D2,
		NormalViscosity:     c.Contact.NormalViscosity,
		Elasticity:          c.Contact.Elasticity,
		Viscosity:           c.Contact.Viscosity,
		SlidingTimeConstant: c.Contact.SlidingTau,
		SettleVelocity:      c.Contact.SettleVelocity,
		SettleAcceleration:  c.Contact.SettleAcceleration,
	}
}

// FrictionCoefficients builds the contact.Coefficients described by the
// friction section.
func (c *Config) FrictionCoefficients() contact.Coefficients {
	return contact.NewCoefficients(c.Friction.MuStatic, c.Friction.MuKinetic)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
