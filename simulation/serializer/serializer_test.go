package serializer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarforge/nbody-core/core/vector"
	"github.com/stellarforge/nbody-core/physics/body"
)

func TestRoundTrip(t *testing.T) {
	original := []body.Body{
		body.New(vector.New(1, 2, 3), vector.New(-1, 0, 0.5), 10, body.Earth),
		body.New(vector.New(0, 0, 0), vector.Zero, 1e6, body.Sun),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBodies(&buf, original))

	got, err := ReadBodies(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(original))
	for i := range original {
		assert.Equal(t, original[i], got[i])
	}
}

func TestReadBodiesSkipsBlankLines(t *testing.T) {
	r := strings.NewReader("0 0 0 0 0 0 5 0\n\n1 1 1 0 0 0 5 1\n")
	got, err := ReadBodies(r)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadBodiesRejectsMalformedLine(t *testing.T) {
	r := strings.NewReader("0 0 0 0 0 0 5\n")
	_, err := ReadBodies(r)
	assert.Error(t, err)
}
