package holo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF loads a .gltf or .glb file into a Model with one child per
// mesh-bearing node, named after the node (or its mesh when the node is
// unnamed). A node's world rotation and scale are baked into its mesh and
// its world translation becomes the child's Position, so scaling a child
// pivots about the node origin.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("holo: open gltf %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return modelFromDocument(name, doc)
}

func modelFromDocument(name string, doc *gltf.Document) (*Model, error) {
	model := NewModel(name)

	var visit func(index int, parent mgl64.Mat4) error
	visit = func(index int, parent mgl64.Mat4) error {
		node := doc.Nodes[index]
		world := parent.Mul4(nodeMatrix(node))
		if node.Mesh != nil {
			mesh := doc.Meshes[*node.Mesh]
			triangles, err := readMeshTriangles(doc, mesh)
			if err != nil {
				return err
			}
			if len(triangles) > 0 {
				pivot := world.Col(3).Vec3()
				linear := world
				linear.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
				m := NewTriangleMesh(triangles)
				m.Transform(Matrix(linear))
				childName := node.Name
				if childName == "" {
					childName = mesh.Name
				}
				if childName == "" {
					childName = fmt.Sprintf("node_%d", index)
				}
				child := NewObjectFromMesh(childName, m)
				child.Position = Vector{pivot[0], pivot[1], pivot[2]}
				model.Children = append(model.Children, child)
			}
		}
		for _, c := range node.Children {
			if err := visit(int(c), world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := visit(root, mgl64.Ident4()); err != nil {
			return nil, err
		}
	}

	if len(model.Children) == 0 {
		return nil, fmt.Errorf("holo: gltf %s has no triangles", name)
	}
	return model, nil
}

func rootNodes(doc *gltf.Document) []int {
	var roots []int
	if len(doc.Scenes) > 0 {
		scene := doc.Scenes[0]
		if doc.Scene != nil {
			scene = doc.Scenes[*doc.Scene]
		}
		for _, n := range scene.Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeMatrix(node *gltf.Node) mgl64.Mat4 {
	var zero [16]float64
	identity := [16]float64(mgl64.Ident4())
	if node.Matrix != zero && node.Matrix != identity {
		return mgl64.Mat4(node.Matrix)
	}
	t := node.Translation
	s := node.Scale
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	r := node.Rotation
	rot := mgl64.Ident4()
	if r != [4]float64{} {
		rot = mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize().Mat4()
	}
	return mgl64.Translate3D(t[0], t[1], t[2]).Mul4(rot).Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

func readMeshTriangles(doc *gltf.Document, mesh *gltf.Mesh) ([]*Triangle, error) {
	var allTriangles []*Triangle
	for _, primitive := range mesh.Primitives {
		// We only support Triangles (mode 4)
		if primitive.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := primitive.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, err
		}

		var normals [][3]float32
		if normIdx, ok := primitive.Attributes[gltf.NORMAL]; ok {
			normals, _ = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		}

		var texCoords [][2]float32
		if texIdx, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
			texCoords, _ = modeler.ReadTextureCoord(doc, doc.Accessors[texIdx], nil)
		}

		var indices []uint32
		if primitive.Indices != nil {
			// ReadIndices automatically converts uint8/uint16/uint32 to []uint32
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
			if err != nil {
				return nil, err
			}
		} else {
			indices = make([]uint32, len(positions))
			for k := range indices {
				indices[k] = uint32(k)
			}
		}

		vertex := func(i uint32) Vertex {
			v := Vertex{Color: White}
			if int(i) >= len(positions) {
				return v
			}
			p := positions[i]
			v.Position = Vector{float64(p[0]), float64(p[1]), float64(p[2])}
			if len(normals) > int(i) {
				n := normals[i]
				v.Normal = Vector{float64(n[0]), float64(n[1]), float64(n[2])}
			}
			if len(texCoords) > int(i) {
				// glTF puts the texture origin at the top left
				v.Texture = Vector{float64(texCoords[i][0]), 1 - float64(texCoords[i][1]), 0}
			}
			return v
		}

		for i := 0; i+2 < len(indices); i += 3 {
			t := &Triangle{vertex(indices[i]), vertex(indices[i+1]), vertex(indices[i+2])}
			t.FixNormals()
			allTriangles = append(allTriangles, t)
		}
	}
	return allTriangles, nil
}
