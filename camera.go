package holo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position Vector
	Target   Vector
	Up       Vector
	Fovy     float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
}

func NewCamera(fovy, aspect, near, far float64) *Camera {
	return &Camera{
		Position: Vector{0, 0, 5},
		Up:       Vector{0, 1, 0},
		Fovy:     fovy,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

func (c *Camera) View() Matrix {
	return LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() Matrix {
	return Perspective(c.Fovy, c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() Matrix {
	return c.Projection().Mul(c.View())
}

// SetAspect updates the aspect ratio from a viewport size.
func (c *Camera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
}

// LinearDepth converts a [0,1] depth-buffer value back to a view distance
// normalized by the far plane.
func (c *Camera) LinearDepth(depth float64) float64 {
	if depth >= 1 {
		return 1
	}
	ndc := depth*2 - 1
	n, f := c.Near, c.Far
	z := 2 * n * f / (f + n - ndc*(f-n))
	return z / f
}

// OrbitControls orbits a camera around its target with optional damping,
// bounded distance and bounded polar angle.
type OrbitControls struct {
	Camera        *Camera
	EnableDamping bool
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64
	MaxPolarAngle float64
	RotateSpeed   float64

	deltaTheta float64
	deltaPhi   float64
	scale      float64
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		DampingFactor: 0.05,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		RotateSpeed:   1,
		scale:         1,
	}
}

// Rotate queues an orbit by azimuth and polar deltas in radians.
func (oc *OrbitControls) Rotate(azimuth, polar float64) {
	oc.deltaTheta -= azimuth * oc.RotateSpeed
	oc.deltaPhi -= polar * oc.RotateSpeed
}

// Dolly queues a distance change; factors above 1 move the camera away.
func (oc *OrbitControls) Dolly(factor float64) {
	if factor > 0 {
		oc.scale *= factor
	}
}

// Update applies pending input to the camera and reports whether it moved.
func (oc *OrbitControls) Update() bool {
	cam := oc.Camera
	offset := cam.Position.Sub(cam.Target)
	r := offset.Length()
	if r == 0 {
		return false
	}
	// polar from +y, azimuth in the xz plane; mgl64's z-up convention is
	// recovered by swapping y and z below
	polar := math.Acos(Clamp(offset.Y/r, -1, 1))
	azimuth := math.Atan2(offset.Z, offset.X)

	if oc.EnableDamping {
		azimuth += oc.deltaTheta * oc.DampingFactor
		polar += oc.deltaPhi * oc.DampingFactor
	} else {
		azimuth += oc.deltaTheta
		polar += oc.deltaPhi
	}
	polar = Clamp(polar, oc.MinPolarAngle, oc.MaxPolarAngle)
	polar = Clamp(polar, 1e-6, math.Pi-1e-6)
	r = Clamp(r*oc.scale, oc.MinDistance, oc.MaxDistance)

	p := mgl64.SphericalToCartesian(r, polar, azimuth)
	next := cam.Target.Add(Vector{p[0], p[2], p[1]})
	moved := next.Sub(cam.Position).Length() > 1e-9
	cam.Position = next

	if oc.EnableDamping {
		oc.deltaTheta *= 1 - oc.DampingFactor
		oc.deltaPhi *= 1 - oc.DampingFactor
	} else {
		oc.deltaTheta = 0
		oc.deltaPhi = 0
	}
	oc.scale = 1
	return moved
}
