package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarforge/nbody-core/core/vector"
	"github.com/stellarforge/nbody-core/physics/body"
)

func TestPushUntilCapacity(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, 1, body.Earth)))
	require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, 1, body.Earth)))
	assert.ErrorIs(t, s.Push(body.New(vector.Zero, vector.Zero, 1, body.Earth)), ErrCapacityExceeded)
	assert.Equal(t, 2, s.Len())
}

func TestMergeConservesMassAndMomentum(t *testing.T) {
	s := New(4)
	require.NoError(t, s.Push(body.New(vector.New(0, 0, 0), vector.New(1, 0, 0), 10, body.Earth)))
	require.NoError(t, s.Push(body.New(vector.New(5, 0, 0), vector.New(-1, 0, 0), 10, body.Mars)))

	preMass := s.TotalMass()
	preMomentum := s.At(0).Velocity.Scale(s.At(0).Mass).Add(s.At(1).Velocity.Scale(s.At(1).Mass))

	s.Merge(0, 1)

	assert.Equal(t, preMass, s.TotalMass())
	assert.Equal(t, preMomentum, s.At(0).Velocity.Scale(s.At(0).Mass))
	assert.True(t, s.At(1).IsTombstone())
	assert.Equal(t, vector.New(2.5, 0, 0), s.At(0).Position)
	assert.Equal(t, vector.New(0, 0, 0), s.At(0).Velocity)
}

func TestMergeBreaksMaterialTieTowardTarget(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, 10, body.Earth)))
	require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, 10, body.Mars)))
	s.Merge(0, 1)
	assert.Equal(t, body.Earth, s.At(0).Material)
}

func TestRemoveDeadCompactsAndIsIdempotent(t *testing.T) {
	s := New(4)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, float64(i+1), body.Earth)))
	}
	s.At(0).SetMass(0)
	s.At(2).SetMass(0)

	s.RemoveDead()
	assert.Equal(t, 2, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.False(t, s.At(i).IsTombstone())
	}

	before := append([]body.Body(nil), s.Bodies()...)
	s.RemoveDead()
	assert.Equal(t, before, s.Bodies())
}

func TestRemoveDeadAllDead(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, 1, body.Earth)))
	require.NoError(t, s.Push(body.New(vector.Zero, vector.Zero, 1, body.Earth)))
	s.At(0).SetMass(0)
	s.At(1).SetMass(0)
	s.RemoveDead()
	assert.Equal(t, 0, s.Len())
}
