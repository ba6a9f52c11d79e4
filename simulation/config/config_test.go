package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultValues(t *testing.T) {
	c := NewDefault()
	assert.Equal(t, 20000, c.MaxBodies)
	assert.Equal(t, 1.0, c.G)
	assert.Equal(t, 1.0, c.Theta)
	assert.Equal(t, 1.0, c.Timescale)
	assert.Equal(t, 0.1, c.Timestep)
	assert.Equal(t, 1.0, c.MassMin)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	c := NewBuilder().WithTheta(0.5).WithG(2).Build()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, c.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestBuilderChaining(t *testing.T) {
	c := NewBuilder().
		WithMaxBodies(100).
		WithG(2).
		WithTheta(0.8).
		WithTimescale(2).
		WithTimestep(0.2).
		WithMassMin(2).
		Build()

	assert.Equal(t, 100, c.MaxBodies)
	assert.Equal(t, 2.0, c.G)
	assert.Equal(t, 0.8, c.Theta)
	assert.Equal(t, 2.0, c.Timescale)
	assert.Equal(t, 0.2, c.Timestep)
	assert.Equal(t, 2.0, c.MassMin)
}
