package holo

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/clone"
)

// Renderer draws the base scene into a frame.
type Renderer interface {
	Render(f *Frame)
}

// Scene struct to store all data for a scene
type Scene struct {
	Context  *Context
	Camera   *Camera
	Light    DirectionalLight
	Ambient  AmbientLight
	Sky      *Object
	Models   []*Model
	Objects  []*Object
	Exposure float64
	// Workers bounds rasterizer parallelism; 0 uses every CPU.
	Workers int

	// PixelRatio is the framebuffer pixels per viewport pixel, at most 1.
	PixelRatio float64
	width      int
	height     int
}

// NewScene returns a new scene rendering a width x height viewport.
// Objects without a material are drawn with a Phong shader lit by the
// scene lights.
func NewScene(camera *Camera, width, height int) *Scene {
	s := &Scene{
		Camera:     camera,
		Light:      DirectionalLight{Position: Vector{-20, 20, 50}, Color: White, Intensity: 1},
		Ambient:    AmbientLight{Color: White, Intensity: 1},
		Exposure:   1,
		PixelRatio: 1,
	}
	s.Resize(width, height, 1)
	return s
}

// Resize updates the camera aspect and reallocates the framebuffer. The
// pixel ratio is capped at 1.
func (s *Scene) Resize(width, height int, pixelRatio float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if pixelRatio <= 0 || pixelRatio > 1 {
		pixelRatio = 1
	}
	s.width, s.height, s.PixelRatio = width, height, pixelRatio
	s.Camera.SetAspect(width, height)

	fw, fh := s.FramebufferSize()
	var shader Shader = NewPhongShader(Identity(), s.Light.Position, s.Camera.Position, White, White)
	if s.Context != nil {
		shader = s.Context.Shader
	}
	s.Context = NewContext(fw, fh, shader)
	s.Context.ClearColor = Black
	if s.Workers > 0 {
		s.Context.Workers = s.Workers
	}
}

// Viewport is the size in window pixels.
func (s *Scene) Viewport() (int, int) {
	return s.width, s.height
}

// FramebufferSize is the size in rendered pixels.
func (s *Scene) FramebufferSize() (int, int) {
	w := int(math.Max(1, math.Round(float64(s.width)*s.PixelRatio)))
	h := int(math.Max(1, math.Round(float64(s.height)*s.PixelRatio)))
	return w, h
}

// AddObject adds an object to the scene
func (s *Scene) AddObject(o *Object) {
	s.Objects = append(s.Objects, o)
}

func (s *Scene) AddModel(m *Model) {
	s.Models = append(s.Models, m)
}

type drawItem struct {
	object *Object
	model  Matrix
	depth  float64
}

func transparent(o *Object) bool {
	st, ok := o.Material.(Stateful)
	if !ok {
		return false
	}
	return st.DrawState().Blend != BlendNone
}

// Render draws the sky, then opaque objects in insertion order, then
// transparent objects back to front, and applies exposure.
func (s *Scene) Render(f *Frame) {
	dc := s.Context
	dc.ClearColorBuffer()
	dc.ClearDepthBuffer()

	base := Uniforms{
		ViewProjection: s.Camera.ViewProjection(),
		Eye:            s.Camera.Position,
		Light:          s.Light,
		Ambient:        s.Ambient,
	}

	if s.Sky != nil && !s.Sky.Hidden {
		u := base
		u.Model = s.Sky.Matrix()
		dc.DrawObject(s.Sky, u)
	}

	var opaque, blended []drawItem
	add := func(o *Object, model Matrix) {
		if o == nil || o.Hidden || o.Mesh == nil {
			return
		}
		item := drawItem{object: o, model: model}
		if transparent(o) {
			center := model.MulPosition(o.Mesh.BoundingBox().Center())
			item.depth = center.Sub(s.Camera.Position).Length()
			blended = append(blended, item)
		} else {
			opaque = append(opaque, item)
		}
	}
	for _, o := range s.Objects {
		add(o, o.Matrix())
	}
	for _, m := range s.Models {
		parent := m.Matrix()
		for _, o := range m.Children {
			add(o, parent.Mul(o.Matrix()))
		}
	}
	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].depth > blended[j].depth
	})

	for _, items := range [][]drawItem{opaque, blended} {
		for _, item := range items {
			u := base
			u.Model = item.model
			dc.DrawObject(item.object, u)
		}
	}

	s.resolve(f)
}

func (s *Scene) resolve(f *Frame) {
	dc := s.Context
	img := clone.AsRGBA(dc.ColorBuffer)
	if s.Exposure != 1 {
		exposure := s.Exposure
		img = adjust.Apply(img, func(c color.RGBA) color.RGBA {
			return color.RGBA{
				clamp8(float64(c.R) * exposure),
				clamp8(float64(c.G) * exposure),
				clamp8(float64(c.B) * exposure),
				c.A,
			}
		})
	}
	f.Image = img
	if len(f.Depth) != len(dc.DepthBuffer) {
		f.Depth = make([]float64, len(dc.DepthBuffer))
	}
	for i, z := range dc.DepthBuffer {
		f.Depth[i] = math.Min(z, 1)
	}
}

// RenderImage renders one base frame without effects.
func (s *Scene) RenderImage() image.Image {
	f := &Frame{}
	s.Render(f)
	return f.Image
}

// DrawToWriter renders one base frame and encodes it as PNG.
func (s *Scene) DrawToWriter(writer io.Writer) error {
	return png.Encode(writer, s.RenderImage())
}
