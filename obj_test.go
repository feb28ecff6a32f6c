package holo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helmetOBJ = `# two named parts and a loose face
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1 2 3
o helmet
f 1/1/1 2/2/1 3/3/1 4/4/1
g visor
f -4 -3 -2
`

func TestLoadOBJNamedGroups(t *testing.T) {
	m, err := LoadOBJFromBytes("kylo", []byte(helmetOBJ))
	require.NoError(t, err)

	assert.Equal(t, "kylo", m.Name)
	assert.Equal(t, []string{"kylo", "helmet", "visor"}, m.ChildNames())

	helmet := m.Child("helmet")
	require.NotNil(t, helmet)
	// quads are fanned into two triangles
	assert.Len(t, helmet.Mesh.Triangles, 2)
	tri := helmet.Mesh.Triangles[0]
	assert.Equal(t, Vector{1, 0, 0}, tri.V2.Texture)
	assert.Equal(t, Vector{0, 0, 1}, tri.V1.Normal)

	visor := m.Child("visor")
	require.NotNil(t, visor)
	assert.Equal(t, Vector{0, 0, 0}, visor.Mesh.Triangles[0].V1.Position)
}

func TestLoadOBJErrors(t *testing.T) {
	_, err := LoadOBJFromBytes("bad", []byte("v 0 0 0\nf 1 2 3\n"))
	assert.Error(t, err)

	_, err = LoadOBJFromBytes("bad", []byte("v 0 0\n"))
	assert.Error(t, err)

	_, err = LoadOBJ("testdata/missing.obj")
	assert.Error(t, err)
}

func TestAssignMaterialsByName(t *testing.T) {
	m, err := LoadOBJFromBytes("kylo", []byte(helmetOBJ))
	require.NoError(t, err)

	holo1 := NewHolographicMaterial()
	holo2 := NewHolographicMaterial(WithHologramColor(HexColor("#00ffaa")))
	err = m.AssignMaterials(map[string]Shader{"helmet": holo1, "visor": holo2})
	require.NoError(t, err)
	assert.Same(t, holo1, m.Child("helmet").Material)
	assert.Same(t, holo2, m.Child("visor").Material)
	assert.Nil(t, m.Child("kylo").Material)

	err = m.AssignMaterials(map[string]Shader{"trim": holo1, "helmet": holo2})
	assert.ErrorIs(t, err, ErrMeshNotFound)
	assert.Contains(t, err.Error(), "trim")
	// names that exist are still bound
	assert.Same(t, holo2, m.Child("helmet").Material)
}

func TestLoadModelRejectsUnknownFormat(t *testing.T) {
	_, err := LoadModel("scene.fbx")
	assert.Error(t, err)
}
