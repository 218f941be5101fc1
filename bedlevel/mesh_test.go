package bedlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zethra/wasp/coord"
)

func TestMesh_OffsetZ(t *testing.T) {
	// bed rises 0.3mm in Z for every 1mm of X
	probes := []coord.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 100, Z: 0},
		{X: 100, Y: 0, Z: 30},
		{X: 100, Y: 100, Z: 30},
	}

	mesh, err := NewMesh(probes)
	assert.NoError(t, err)

	ok, z := mesh.OffsetZ(50, 50)
	assert.True(t, ok)
	assert.InDelta(t, 15, z, coord.Epsilon)

	ok, z = mesh.OffsetZ(10, 90)
	assert.True(t, ok)
	assert.InDelta(t, 3, z, coord.Epsilon)

	// outside the probed region there is no offset
	ok, _ = mesh.OffsetZ(-10, 50)
	assert.False(t, ok)
}

func TestMesh_TooFewPoints(t *testing.T) {
	_, err := NewMesh([]coord.Point{{X: 0}, {X: 1}})
	assert.Error(t, err)
}

func TestRelative(t *testing.T) {
	points := Relative(2, []coord.Point{{Z: 2}, {X: 1, Z: 5}})
	assert.Equal(t, []coord.Point{{Z: 0}, {X: 1, Z: 3}}, points)
}
