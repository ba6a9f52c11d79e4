// Package body provides the point-mass kinematic record the physics
// core operates on.
package body

import (
	"math"

	"github.com/stellarforge/nbody-core/core/constants"
	"github.com/stellarforge/nbody-core/core/vector"
)

// Body is an immutable-in-place point mass: position, velocity, mass,
// a derived radius, and an opaque material tag. Mutation is only safe
// between ticks or during Engine's single-threaded integrate/resolve
// phases; nothing in this package synchronizes access.
type Body struct {
	Position vector.Vec3
	Velocity vector.Vec3
	Mass     float64
	Radius   float64
	Material Material
}

// New builds a Body with mass floored at constants.MassMin and radius
// derived from mass: radius = ∛(3·mass/(4π)).
func New(position, velocity vector.Vec3, mass float64, material Material) Body {
	if mass < constants.MassMin {
		mass = constants.MassMin
	}
	return Body{
		Position: position,
		Velocity: velocity,
		Mass:     mass,
		Radius:   RadiusForMass(mass),
		Material: material,
	}
}

// RadiusForMass derives a sphere's radius from its mass under a unit
// density assumption.
func RadiusForMass(mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	return math.Cbrt(3.0 * mass / (4.0 * constants.Pi))
}

// SetMass updates a body's mass and recomputes its derived radius:
// radius is always derived, so any mutator that changes mass must
// recompute it.
func (b *Body) SetMass(mass float64) {
	b.Mass = mass
	b.Radius = RadiusForMass(mass)
}

// IsTombstone reports whether b has been marked dead by a merge; a
// body with mass 0 denotes a tombstone.
func (b *Body) IsTombstone() bool {
	return b.Mass == 0
}

// Accelerate applies a velocity change over dt.
func (b *Body) Accelerate(dv vector.Vec3, dt float64) {
	b.Velocity = b.Velocity.Add(dv.Scale(dt))
}

// Move applies a position change over dt using the body's current
// velocity. Semi-implicit Euler requires this to run after Accelerate
// within the same tick.
func (b *Body) Move(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}
