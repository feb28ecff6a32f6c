package holo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMeshNotFound is returned when a material binding names a mesh the
// loaded model does not have.
var ErrMeshNotFound = errors.New("holo: mesh not found")

// Object struct for objects
// objects can be passed to the renderer to be rendererd
type Object struct {
	Name     string
	Mesh     *Mesh
	Material Shader
	Texture  Texture
	Color    Color
	Position Vector
	Rotation Vector
	Scale    Vector
	Hidden   bool
}

// NewEmptyObject returns an empty object
func NewEmptyObject() *Object {
	return &Object{Color: White, Scale: Vector{1, 1, 1}}
}

func NewObjectFromMesh(name string, mesh *Mesh) *Object {
	o := NewEmptyObject()
	o.Name = name
	o.Mesh = mesh
	return o
}

// Matrix is the object's local transform.
func (o *Object) Matrix() Matrix {
	return TRS(o.Position, o.Rotation, o.Scale)
}

// SetColor set the color of the mesh
func (o *Object) SetColor(c Color) {
	o.Color = c
	if o.Mesh != nil {
		o.Mesh.SetColor(c)
	}
}

// SetScale sets a uniform scale.
func (o *Object) SetScale(s float64) {
	o.Scale = Vector{s, s, s}
}

// Model is a named group of objects, the unit an asset loader delivers.
type Model struct {
	Name     string
	Position Vector
	Rotation Vector
	Scale    Vector
	Children []*Object
}

func NewModel(name string, children ...*Object) *Model {
	return &Model{Name: name, Scale: Vector{1, 1, 1}, Children: children}
}

func (m *Model) Matrix() Matrix {
	return TRS(m.Position, m.Rotation, m.Scale)
}

func (m *Model) SetScale(s float64) {
	m.Scale = Vector{s, s, s}
}

// Child finds a child by name; names compare case-sensitively.
func (m *Model) Child(name string) *Object {
	for _, c := range m.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (m *Model) ChildNames() []string {
	names := make([]string, len(m.Children))
	for i, c := range m.Children {
		names[i] = c.Name
	}
	return names
}

// BoundingBox is the union of the children's mesh boxes in model space.
func (m *Model) BoundingBox() Box {
	box := EmptyBox
	for _, c := range m.Children {
		if c.Mesh == nil {
			continue
		}
		b := c.Mesh.BoundingBox()
		if b.Empty() {
			continue
		}
		mat := c.Matrix()
		for _, p := range b.Corners() {
			q := mat.MulPosition(p)
			box = box.Extend(Box{q, q})
		}
	}
	return box
}

// Merged flattens the children into one mesh in model space. The child
// meshes are left untouched.
func (m *Model) Merged() *Mesh {
	var all []*Triangle
	for _, c := range m.Children {
		if c.Mesh == nil {
			continue
		}
		mat := c.Matrix()
		for _, t := range c.Mesh.Triangles {
			u := *t
			u.Transform(mat)
			all = append(all, &u)
		}
	}
	return NewTriangleMesh(all)
}

// Simplify decimates every child mesh.
func (m *Model) Simplify(factor float64) {
	for _, c := range m.Children {
		if c.Mesh != nil {
			c.Mesh.Simplify(factor)
		}
	}
}

// AssignMaterials attaches materials to children by mesh name. Every name
// is attempted; the error lists the names the model does not contain.
func (m *Model) AssignMaterials(materials map[string]Shader) error {
	var missing []string
	for name, material := range materials {
		c := m.Child(name)
		if c == nil {
			missing = append(missing, name)
			continue
		}
		c.Material = material
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s (have %s)", ErrMeshNotFound,
			strings.Join(missing, ", "), strings.Join(m.ChildNames(), ", "))
	}
	return nil
}
