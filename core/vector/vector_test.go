package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -1, 0.5)

	assert.Equal(t, New(5, 1, 3.5), a.Add(b))
	assert.Equal(t, New(-3, 3, 2.5), a.Sub(b))
}

func TestScaleDot(t *testing.T) {
	a := New(1, 2, 3)
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
	assert.Equal(t, 14.0, a.Dot(a))
}

func TestCross(t *testing.T) {
	x := New(1, 0, 0)
	y := New(0, 1, 0)
	assert.Equal(t, New(0, 0, 1), x.Cross(y))
}

func TestLengthAndNormalize(t *testing.T) {
	v := New(3, 4, 0)
	assert.Equal(t, 5.0, v.Length())
	assert.Equal(t, 25.0, v.LengthSquared())

	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)

	assert.Equal(t, Zero, Zero.Normalize())
}

func TestDistance(t *testing.T) {
	a := New(0, 0, 0)
	b := New(3, 4, 0)
	assert.Equal(t, 5.0, a.Distance(b))
	assert.Equal(t, 25.0, a.DistanceSquared(b))
}

func TestMaxComponent(t *testing.T) {
	assert.Equal(t, 7.0, New(-7, 3, -2).MaxComponent())
}
