// Package config provides the simulation's externally tunable
// parameters and their JSON persistence.
package config

import (
	"encoding/json"
	"os"

	"github.com/stellarforge/nbody-core/core/constants"
)

// Config holds the recognized configuration options.
type Config struct {
	MaxBodies int     `json:"maxBodies"` // Hard cap on live bodies
	G         float64 `json:"g"`         // Gravitational constant multiplier
	Theta     float64 `json:"theta"`     // Barnes-Hut opening angle (0 = exact)
	Timescale float64 `json:"timescale"` // Simulated seconds per real second
	Timestep  float64 `json:"timestep"`  // Timescale slider increment
	MassMin   float64 `json:"massMin"`   // Stored and persisted only; body.New floors at constants.MassMin
}

// NewDefault returns a Config populated with the simulation's defaults.
func NewDefault() *Config {
	return &Config{
		MaxBodies: constants.MaxBodies,
		G:         constants.G,
		Theta:     constants.DefaultTheta,
		Timescale: constants.DefaultTimescale,
		Timestep:  constants.DefaultTimestep,
		MassMin:   constants.MassMin,
	}
}

// SaveToFile writes c as indented JSON.
func (c *Config) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadFromFile reads a Config from JSON.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Builder is a fluent builder over Config, defaulted via NewDefault.
type Builder struct {
	config *Config
}

// NewBuilder starts a Builder from the default configuration.
func NewBuilder() *Builder {
	return &Builder{config: NewDefault()}
}

// WithMaxBodies sets the live-body cap.
func (b *Builder) WithMaxBodies(maxBodies int) *Builder {
	b.config.MaxBodies = maxBodies
	return b
}

// WithG sets the gravitational constant multiplier.
func (b *Builder) WithG(g float64) *Builder {
	b.config.G = g
	return b
}

// WithTheta sets the Barnes-Hut opening angle.
func (b *Builder) WithTheta(theta float64) *Builder {
	b.config.Theta = theta
	return b
}

// WithTimescale sets the simulated-seconds-per-real-second factor.
func (b *Builder) WithTimescale(timescale float64) *Builder {
	b.config.Timescale = timescale
	return b
}

// WithTimestep sets the timescale slider increment.
func (b *Builder) WithTimestep(timestep float64) *Builder {
	b.config.Timestep = timestep
	return b
}

// WithMassMin sets the MassMin field. No constructor reads it: body.New
// always floors mass at constants.MassMin.
func (b *Builder) WithMassMin(massMin float64) *Builder {
	b.config.MassMin = massMin
	return b
}

// Build returns the assembled Config.
func (b *Builder) Build() *Config {
	return b.config
}
