package body

import (
	"math"
	"testing"

	"github.com/stellarforge/nbody-core/core/vector"
	"github.com/stretchr/testify/assert"
)

func TestNewFloorsMassAndDerivesRadius(t *testing.T) {
	b := New(vector.Zero, vector.Zero, 0.1, Earth)
	assert.Equal(t, 1.0, b.Mass)
	assert.InDelta(t, RadiusForMass(1.0), b.Radius, 1e-12)
}

func TestRadiusConsistency(t *testing.T) {
	for _, m := range []float64{1, 10, 1e6} {
		want := math.Cbrt(3 * m / (4 * math.Pi))
		assert.InDelta(t, want, RadiusForMass(m), 1e-9)
	}
}

func TestSetMassRecomputesRadius(t *testing.T) {
	b := New(vector.Zero, vector.Zero, 10, Mars)
	b.SetMass(20)
	assert.Equal(t, 20.0, b.Mass)
	assert.InDelta(t, RadiusForMass(20), b.Radius, 1e-12)
}

func TestTombstone(t *testing.T) {
	b := New(vector.Zero, vector.Zero, 10, Mars)
	assert.False(t, b.IsTombstone())
	b.SetMass(0)
	assert.True(t, b.IsTombstone())
}

func TestAccelerateThenMoveIsSemiImplicitEuler(t *testing.T) {
	b := New(vector.New(0, 0, 0), vector.New(1, 0, 0), 10, Earth)
	b.Accelerate(vector.New(0, 1, 0), 2)
	assert.Equal(t, vector.New(1, 2, 0), b.Velocity)

	b.Move(2)
	assert.Equal(t, vector.New(2, 4, 0), b.Position)
}

func TestMaterialStringAndValid(t *testing.T) {
	assert.Equal(t, "sun", Sun.String())
	assert.True(t, Sun.Valid())
	assert.Equal(t, "unknown", Material(-1).String())
	assert.False(t, Material(999).Valid())
}
