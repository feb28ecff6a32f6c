package holo

import (
	"fmt"
	"math"
	"strings"
)

// Shader shader interface
type Shader interface {
	Vertex(Vertex) Vertex
	Fragment(Vertex, *Object) Color
}

// Uniforms are the per-draw inputs the scene hands to a shader before an
// object is rasterized.
type Uniforms struct {
	Model          Matrix
	ViewProjection Matrix
	Eye            Vector
	Light          DirectionalLight
	Ambient        AmbientLight
}

// Binder is implemented by shaders that consume per-draw uniforms.
type Binder interface {
	Bind(u Uniforms)
}

// Stateful is implemented by shaders that choose their own blend, depth and
// cull state instead of inheriting the context defaults.
type Stateful interface {
	DrawState() DrawState
}

type DrawState struct {
	Blend      BlendMode
	DepthTest  bool
	DepthWrite bool
	Cull       Cull
}

type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendNormal
	BlendAdditive
	BlendSubtractive
	BlendMultiply
)

var blendModeNames = map[BlendMode]string{
	BlendNone:        "none",
	BlendNormal:      "normal",
	BlendAdditive:    "additive",
	BlendSubtractive: "subtractive",
	BlendMultiply:    "multiply",
}

func (b BlendMode) String() string {
	if s, ok := blendModeNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BlendMode(%d)", int(b))
}

func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range blendModeNames {
		if name == s {
			return mode, nil
		}
	}
	return BlendNone, fmt.Errorf("holo: unknown blend mode %q", s)
}

type DirectionalLight struct {
	Position  Vector
	Color     Color
	Intensity float64
}

// Direction points from the surface towards the light.
func (l DirectionalLight) Direction() Vector {
	return l.Position.Normalize()
}

type AmbientLight struct {
	Color     Color
	Intensity float64
}

// PhongShader implements Phong shading with an optional texture.
type PhongShader struct {
	Matrix         Matrix
	Model          Matrix
	LightDirection Vector
	CameraPosition Vector
	AmbientColor   Color
	DiffuseColor   Color
	SpecularColor  Color
	SpecularPower  float64
	EnableOutline  bool    // A switch to turn the effect on/off
	OutlineColor   Color   // The color of the outline
	OutlineFactor  float64 // Controls line thickness (lower is thicker)
	normals        Matrix
}

// NewPhongShader f
func NewPhongShader(matrix Matrix, lightDirection, cameraPosition Vector, ambient Color, diffuse Color) *PhongShader {
	return &PhongShader{
		Matrix:         matrix,
		Model:          Identity(),
		LightDirection: lightDirection.Normalize(),
		CameraPosition: cameraPosition,
		AmbientColor:   ambient,
		DiffuseColor:   diffuse,
		SpecularColor:  White,
		SpecularPower:  0,
		OutlineColor:   HexColor("000000"),
		OutlineFactor:  0.05,
		normals:        Identity(),
	}
}

// Bind takes the light rig and camera from the scene.
func (shader *PhongShader) Bind(u Uniforms) {
	shader.Matrix = u.ViewProjection.Mul(u.Model)
	shader.Model = u.Model
	shader.normals = u.Model.NormalMatrix()
	shader.CameraPosition = u.Eye
	shader.LightDirection = u.Light.Direction()
	shader.AmbientColor = u.Ambient.Color.MulScalar(u.Ambient.Intensity).Alpha(1)
	shader.DiffuseColor = u.Light.Color.MulScalar(u.Light.Intensity).Alpha(1)
}

// Vertex f
func (shader *PhongShader) Vertex(v Vertex) Vertex {
	v.Output = shader.Matrix.MulPositionW(v.Position)
	v.Position = shader.Model.MulPosition(v.Position)
	v.Normal = shader.normals.MulDirection(v.Normal)
	return v
}

// Fragment f
func (shader *PhongShader) Fragment(v Vertex, fromObject *Object) Color {
	camera := shader.CameraPosition.Sub(v.Position).Normalize()
	if shader.EnableOutline {
		// If the surface normal is nearly perpendicular to the view direction, it's an edge.
		if math.Abs(camera.Dot(v.Normal)) < shader.OutlineFactor {
			return shader.OutlineColor
		}
	}

	light := shader.AmbientColor
	color := fromObject.Color
	if fromObject.Texture != nil {
		sample := fromObject.Texture.Sample(v.Texture.X, v.Texture.Y)
		if sample.A > 0 {
			color = color.Lerp(sample, sample.A)
		}
	}
	diffuse := math.Max(v.Normal.Dot(shader.LightDirection), 0)
	light = light.Add(shader.DiffuseColor.MulScalar(diffuse))
	if diffuse > 0 && shader.SpecularPower > 0 {
		reflected := shader.LightDirection.Negate().Reflect(v.Normal)
		specular := math.Max(camera.Dot(reflected), 0)
		if specular > 0 {
			specular = math.Pow(specular, shader.SpecularPower)
			light = light.Add(shader.SpecularColor.MulScalar(specular))
		}
	}
	return color.Mul(light).Min(White).Alpha(color.A)
}

// BasicShader draws an unlit texture or flat colour, like the skybox.
type BasicShader struct {
	Matrix Matrix
	Color  Color
	Side   Cull
}

func NewBasicShader(color Color) *BasicShader {
	return &BasicShader{Matrix: Identity(), Color: color, Side: CullBack}
}

func (s *BasicShader) Bind(u Uniforms) {
	s.Matrix = u.ViewProjection.Mul(u.Model)
}

func (s *BasicShader) DrawState() DrawState {
	return DrawState{Blend: BlendNone, DepthTest: true, DepthWrite: true, Cull: s.Side}
}

func (s *BasicShader) Vertex(v Vertex) Vertex {
	v.Output = s.Matrix.MulPositionW(v.Position)
	return v
}

func (s *BasicShader) Fragment(v Vertex, fromObject *Object) Color {
	c := s.Color
	if fromObject != nil && fromObject.Texture != nil {
		c = c.Mul(fromObject.Texture.Sample(v.Texture.X, v.Texture.Y))
	}
	return c
}
