package holo

import (
	"math"

	"github.com/fogleman/simplify"
)

type Mesh struct {
	Triangles []*Triangle
	box       *Box
}

func NewTriangleMesh(triangles []*Triangle) *Mesh {
	return &Mesh{Triangles: triangles}
}

func (m *Mesh) dirty() {
	m.box = nil
}

func (m *Mesh) Copy() *Mesh {
	triangles := make([]*Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		c := *t
		triangles[i] = &c
	}
	return NewTriangleMesh(triangles)
}

func (m *Mesh) BoundingBox() Box {
	if m.box == nil {
		box := EmptyBox
		for _, t := range m.Triangles {
			box = box.Extend(t.BoundingBox())
		}
		m.box = &box
	}
	return *m.box
}

func (m *Mesh) Transform(matrix Matrix) {
	for _, t := range m.Triangles {
		t.Transform(matrix)
	}
	m.dirty()
}

func (m *Mesh) FlipFaces() {
	for _, t := range m.Triangles {
		t.Flip()
	}
}

func (m *Mesh) SetColor(c Color) {
	for _, t := range m.Triangles {
		t.SetColor(c)
	}
}

// Simplify decimates the mesh to roughly factor of its triangle count.
// Texture coordinates are dropped and faces get flat normals.
func (m *Mesh) Simplify(factor float64) {
	if factor <= 0 || factor >= 1 || len(m.Triangles) == 0 {
		return
	}
	st := make([]*simplify.Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		v1 := simplify.Vector(t.V1.Position)
		v2 := simplify.Vector(t.V2.Position)
		v3 := simplify.Vector(t.V3.Position)
		st[i] = simplify.NewTriangle(v1, v2, v3)
	}
	sm := simplify.NewMesh(st).Simplify(factor)
	m.Triangles = make([]*Triangle, len(sm.Triangles))
	for i, t := range sm.Triangles {
		m.Triangles[i] = NewTriangleForPoints(Vector(t.V1), Vector(t.V2), Vector(t.V3))
	}
	m.dirty()
}

var EmptyBox = Box{
	Vector{math.Inf(1), math.Inf(1), math.Inf(1)},
	Vector{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
}

type Box struct {
	Min, Max Vector
}

func (a Box) Empty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

func (a Box) Extend(b Box) Box {
	return Box{a.Min.Min(b.Min), a.Max.Max(b.Max)}
}

func (a Box) Center() Vector {
	return a.Min.Add(a.Max).MulScalar(0.5)
}

func (a Box) Size() Vector {
	return a.Max.Sub(a.Min)
}

func (a Box) Corners() [8]Vector {
	lo, hi := a.Min, a.Max
	return [8]Vector{
		{lo.X, lo.Y, lo.Z}, {hi.X, lo.Y, lo.Z}, {lo.X, hi.Y, lo.Z}, {hi.X, hi.Y, lo.Z},
		{lo.X, lo.Y, hi.Z}, {hi.X, lo.Y, hi.Z}, {lo.X, hi.Y, hi.Z}, {hi.X, hi.Y, hi.Z},
	}
}
