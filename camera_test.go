package holo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func referenceControls() *OrbitControls {
	cam := NewCamera(35, 1, 0.1, 1000)
	oc := NewOrbitControls(cam)
	oc.MinDistance = 2
	oc.MaxDistance = 6
	oc.MinPolarAngle = 1.1
	oc.MaxPolarAngle = math.Pi / 1.7
	return oc
}

func polarOf(c *Camera) float64 {
	offset := c.Position.Sub(c.Target)
	return math.Acos(offset.Y / offset.Length())
}

func TestOrbitControlsClampDistance(t *testing.T) {
	oc := referenceControls()

	oc.Dolly(10)
	assert.True(t, oc.Update())
	assert.InDelta(t, 6, oc.Camera.Position.Length(), 1e-9)
	assert.InDelta(t, 6, oc.Camera.Position.Z, 1e-9)

	oc.Dolly(0.01)
	oc.Update()
	assert.InDelta(t, 2, oc.Camera.Position.Length(), 1e-9)
}

func TestOrbitControlsClampPolar(t *testing.T) {
	oc := referenceControls()

	oc.Rotate(0, 10)
	oc.Update()
	assert.InDelta(t, 1.1, polarOf(oc.Camera), 1e-9)

	oc.Rotate(0, -10)
	oc.Update()
	assert.InDelta(t, math.Pi/1.7, polarOf(oc.Camera), 1e-9)
	assert.InDelta(t, 5, oc.Camera.Position.Length(), 1e-9)
}

func TestOrbitControlsIdleDoesNotMove(t *testing.T) {
	oc := referenceControls()
	before := oc.Camera.Position
	assert.False(t, oc.Update())
	assert.InDelta(t, before.Z, oc.Camera.Position.Z, 1e-9)
}

func TestOrbitControlsDampingKeepsMoving(t *testing.T) {
	oc := referenceControls()
	oc.EnableDamping = true

	oc.Rotate(1, 0)
	assert.True(t, oc.Update())
	first := oc.Camera.Position
	// no new input, the orbit coasts
	assert.True(t, oc.Update())
	assert.NotEqual(t, first, oc.Camera.Position)
}

func TestLinearDepth(t *testing.T) {
	c := NewCamera(35, 1, 0.1, 1000)
	assert.Equal(t, 1.0, c.LinearDepth(1))
	assert.InDelta(t, 0.1/1000, c.LinearDepth(0), 1e-12)
}

func TestCameraAspect(t *testing.T) {
	c := NewCamera(35, 1, 0.1, 1000)
	c.SetAspect(1920, 1080)
	assert.InDelta(t, 16.0/9, c.Aspect, 1e-12)
	c.SetAspect(0, 100)
	assert.InDelta(t, 16.0/9, c.Aspect, 1e-12)
}
