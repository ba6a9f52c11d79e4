// Package constants provides the physical and simulation constants
// used across the physics core.
package constants

// Universal gravitational constants.
const (
	// G is the default gravitational constant multiplier used when a
	// caller does not override it.
	G = 1.0

	// Pi is the ratio of a circle's circumference to its diameter,
	// used to derive a body's radius from its mass.
	Pi = 3.14159265358979323846
)

// Astronomical constants, retained for scenario seeding and material
// documentation.
const (
	// SolarMass is a scaled seed mass for "sun"-tagged bodies in test
	// scenarios.
	SolarMass = 1.0e6

	// EarthMass is a scaled seed mass for "earth"-tagged bodies in
	// test scenarios.
	EarthMass = 1.0

	// AstronomicalUnit is a scaled Earth-Sun distance used by test
	// scenario seeding.
	AstronomicalUnit = 100.0
)

// Simulation defaults.
const (
	// MassMin is the floor applied to every body's mass at
	// construction.
	MassMin = 1.0

	// DefaultTheta is the Barnes-Hut opening angle used when a caller
	// does not override it.
	DefaultTheta = 1.0

	// DefaultTimescale is the simulated-seconds-per-real-second
	// factor a freshly constructed Engine starts with.
	DefaultTimescale = 1.0

	// DefaultTimestep is the timescale slider increment.
	DefaultTimestep = 0.1

	// MaxBodies is the hard cap on live bodies in a BodyStore.
	MaxBodies = 20000

	// Epsilon is the smallest octree box radius that is still split;
	// below it, two bodies landing in one leaf are colocated instead.
	Epsilon = 1e-10
)
