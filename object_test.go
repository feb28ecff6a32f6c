package holo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelBoundingBoxUnderRotation(t *testing.T) {
	square := NewTriangleMesh([]*Triangle{
		NewTriangleForPoints(Vector{-0.5, -0.5, 0}, Vector{0.5, -0.5, 0}, Vector{0.5, 0.5, 0}),
		NewTriangleForPoints(Vector{-0.5, -0.5, 0}, Vector{0.5, 0.5, 0}, Vector{-0.5, 0.5, 0}),
	})
	tile := NewObjectFromMesh("tile", square)
	tile.Rotation = Vector{0, 0, math.Pi / 4}
	model := NewModel("board", tile)

	box := model.BoundingBox()
	r := math.Sqrt2 / 2
	assert.InDelta(t, -r, box.Min.X, 1e-9)
	assert.InDelta(t, r, box.Max.X, 1e-9)
	assert.InDelta(t, -r, box.Min.Y, 1e-9)
	assert.InDelta(t, r, box.Max.Y, 1e-9)
}

func TestModelBoundingBoxSkipsEmptyChildren(t *testing.T) {
	model := NewModel("board", NewEmptyObject(), NewObjectFromMesh("none", NewTriangleMesh(nil)))
	assert.True(t, model.BoundingBox().Empty())
}
