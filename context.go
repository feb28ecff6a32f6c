package holo

import (
	"image"
	"math"
	"runtime"
	"sync"
)

type Face int

const (
	_ Face = iota
	FaceCW
	FaceCCW
)

type Cull int

const (
	_ Cull = iota
	CullNone
	CullFront
	CullBack
)

// Context is the software rasterizer. Draw state set on the context is the
// default; shaders implementing Stateful override it for their own draws.
type Context struct {
	Width        int
	Height       int
	Shader       Shader
	ColorBuffer  *image.NRGBA
	DepthBuffer  []float64
	ClearColor   Color
	ReadDepth    bool
	WriteDepth   bool
	WriteColor   bool
	Blend        BlendMode
	FrontFace    Face
	Cull         Cull
	DepthBias    float64
	Workers      int
	screenMatrix Matrix
}

func NewContext(width, height int, shader Shader) *Context {
	dc := &Context{}
	dc.Width = width
	dc.Height = height
	dc.Shader = shader
	dc.ColorBuffer = image.NewNRGBA(image.Rect(0, 0, width, height))
	dc.DepthBuffer = make([]float64, width*height)
	dc.ClearColor = Transparent
	dc.ReadDepth = true
	dc.WriteDepth = true
	dc.WriteColor = true
	dc.Blend = BlendNormal
	dc.FrontFace = FaceCCW
	dc.Cull = CullBack
	dc.DepthBias = 0
	dc.Workers = runtime.NumCPU()
	dc.screenMatrix = Screen(width, height)
	dc.ClearDepthBuffer()
	return dc
}

func (dc *Context) Image() image.Image {
	return dc.ColorBuffer
}

// ClearColorBufferWith uses fast memory copy to clear the buffer
func (dc *Context) ClearColorBufferWith(c Color) {
	nrgba := c.NRGBA()
	// Create a single row with the color
	row := make([]uint8, dc.Width*4)
	for x := 0; x < dc.Width; x++ {
		i := x * 4
		row[i+0] = nrgba.R
		row[i+1] = nrgba.G
		row[i+2] = nrgba.B
		row[i+3] = nrgba.A
	}
	// Copy row to all rows
	pix := dc.ColorBuffer.Pix
	stride := dc.ColorBuffer.Stride
	for y := 0; y < dc.Height; y++ {
		copy(pix[y*stride:], row)
	}
}

func (dc *Context) ClearColorBuffer() {
	dc.ClearColorBufferWith(dc.ClearColor)
}

func (dc *Context) ClearDepthBuffer() {
	for i := range dc.DepthBuffer {
		dc.DepthBuffer[i] = math.MaxFloat64
	}
}

func edge(a, b, c Vector) float64 {
	return (b.X-c.X)*(a.Y-c.Y) - (b.Y-c.Y)*(a.X-c.X)
}

// drawState is the state in effect for one draw call.
type drawState struct {
	DrawState
	shader Shader
}

// screenTriangle is a clipped, culled triangle ready for rasterization.
type screenTriangle struct {
	v0, v1, v2 Vertex
	s0, s1, s2 Vector
}

// rasterize fills the part of the triangle that falls in rows [band0, band1).
func (dc *Context) rasterize(st *screenTriangle, band0, band1 int, ds *drawState, fromObject *Object) {
	v0, v1, v2 := st.v0, st.v1, st.v2
	s0, s1, s2 := st.s0, st.s1, st.s2
	min := s0.Min(s1.Min(s2)).Floor()
	max := s0.Max(s1.Max(s2)).Ceil()

	x0 := ClampInt(int(min.X), 0, dc.Width-1)
	x1 := ClampInt(int(max.X), 0, dc.Width-1)
	y0 := ClampInt(int(min.Y), band0, band1-1)
	y1 := ClampInt(int(max.Y), band0, band1-1)
	if int(max.Y) < band0 || int(min.Y) >= band1 {
		return
	}

	a01 := s1.Y - s0.Y
	a12 := s2.Y - s1.Y
	a20 := s0.Y - s2.Y

	area := edge(s0, s1, s2)
	if area == 0 {
		return
	}
	ra := 1 / area
	r0 := 1 / v0.Output.W
	r1 := 1 / v1.Output.W
	r2 := 1 / v2.Output.W

	stride := dc.Width
	pix := dc.ColorBuffer.Pix

	for y := y0; y <= y1; y++ {
		// Row starts are evaluated exactly so a pixel never depends on
		// which band it falls in.
		p := Vector{float64(x0) + 0.5, float64(y) + 0.5, 0}
		w0 := edge(s1, s2, p)
		w1 := edge(s2, s0, p)
		w2 := edge(s0, s1, p)
		for x := x0; x <= x1; x++ {
			b0 := w0 * ra
			b1 := w1 * ra
			b2 := w2 * ra

			if b0 >= 0 && b1 >= 0 && b2 >= 0 {
				i := y*stride + x
				z := b0*s0.Z + b1*s1.Z + b2*s2.Z
				bz := z + dc.DepthBias

				// Early depth test
				if !ds.DepthTest || bz <= dc.DepthBuffer[i] {
					b := VectorW{b0 * r0, b1 * r1, b2 * r2, 0}
					b.W = 1 / (b.X + b.Y + b.Z)
					v := InterpolateVertexes(v0, v1, v2, b)

					colorVal := ds.shader.Fragment(v, fromObject)
					if colorVal.A > 0 {
						if ds.DepthWrite {
							dc.DepthBuffer[i] = z
						}
						if dc.WriteColor {
							blendPixel(pix[i*4:i*4+4], colorVal, ds.Blend)
						}
					}
				}
			}
			w0 += a12
			w1 += a20
			w2 += a01
		}
	}
}

// blendPixel composites c over the NRGBA pixel p.
func blendPixel(p []uint8, c Color, mode BlendMode) {
	if mode == BlendNone || (mode == BlendNormal && c.A >= 1) {
		n := c.NRGBA()
		p[0], p[1], p[2], p[3] = n.R, n.G, n.B, n.A
		return
	}
	const d = 255.0
	dst := Color{float64(p[0]) / d, float64(p[1]) / d, float64(p[2]) / d, float64(p[3]) / d}
	src := c.Clamp()
	a := src.A
	var out Color
	switch mode {
	case BlendAdditive:
		out = dst.Add(src.MulScalar(a)).Alpha(dst.A)
	case BlendSubtractive:
		out = dst.Sub(src.MulScalar(a)).Alpha(dst.A)
	case BlendMultiply:
		out = dst.Mul(src).Alpha(dst.A)
	default:
		outA := a + dst.A*(1-a)
		if outA == 0 {
			out = Transparent
			break
		}
		rgb := src.MulScalar(a).Add(dst.MulScalar(dst.A * (1 - a))).MulScalar(1 / outA)
		out = rgb.Alpha(outA)
	}
	n := out.NRGBA()
	p[0], p[1], p[2], p[3] = n.R, n.G, n.B, n.A
}

func (dc *Context) project(v0, v1, v2 Vertex, cull Cull) (screenTriangle, bool) {
	ndc0 := v0.Output.DivScalar(v0.Output.W).Vector()
	ndc1 := v1.Output.DivScalar(v1.Output.W).Vector()
	ndc2 := v2.Output.DivScalar(v2.Output.W).Vector()

	if cull != CullNone {
		area := (ndc1.X-ndc0.X)*(ndc2.Y-ndc0.Y) - (ndc2.X-ndc0.X)*(ndc1.Y-ndc0.Y)
		if dc.FrontFace == FaceCW {
			area = -area
		}
		if cull == CullBack && area <= 0 {
			return screenTriangle{}, false
		}
		if cull == CullFront && area >= 0 {
			return screenTriangle{}, false
		}
	}

	return screenTriangle{
		v0: v0, v1: v1, v2: v2,
		s0: dc.screenMatrix.MulPosition(ndc0),
		s1: dc.screenMatrix.MulPosition(ndc1),
		s2: dc.screenMatrix.MulPosition(ndc2),
	}, true
}

func (dc *Context) shadeTriangle(t *Triangle, ds *drawState) []screenTriangle {
	v1 := ds.shader.Vertex(t.V1)
	v2 := ds.shader.Vertex(t.V2)
	v3 := ds.shader.Vertex(t.V3)

	var out []screenTriangle
	if v1.Outside() || v2.Outside() || v3.Outside() {
		for _, c := range ClipTriangle(&Triangle{v1, v2, v3}) {
			if st, ok := dc.project(c.V1, c.V2, c.V3, ds.Cull); ok {
				out = append(out, st)
			}
		}
		return out
	}
	if st, ok := dc.project(v1, v2, v3, ds.Cull); ok {
		out = append(out, st)
	}
	return out
}

// DrawMesh runs the vertex stage in parallel over triangles, then
// rasterizes in horizontal bands so each pixel is written by one worker in
// submission order. The result depends on neither scheduling nor the band
// layout.
func (dc *Context) DrawMesh(mesh *Mesh, fromObject *Object) {
	dc.drawMesh(mesh, fromObject, dc.resolve(dc.Shader))
}

func (dc *Context) drawMesh(mesh *Mesh, fromObject *Object, ds *drawState) {
	if mesh == nil || len(mesh.Triangles) == 0 || dc.Width == 0 || dc.Height == 0 {
		return
	}
	wn := dc.Workers
	if wn < 1 {
		wn = 1
	}

	shaded := make([][]screenTriangle, len(mesh.Triangles))
	var wg sync.WaitGroup
	wg.Add(wn)
	for wi := 0; wi < wn; wi++ {
		go func(wi int) {
			defer wg.Done()
			for i := wi; i < len(mesh.Triangles); i += wn {
				shaded[i] = dc.shadeTriangle(mesh.Triangles[i], ds)
			}
		}(wi)
	}
	wg.Wait()

	bands := wn
	if bands > dc.Height {
		bands = dc.Height
	}
	wg.Add(bands)
	for bi := 0; bi < bands; bi++ {
		go func(bi int) {
			defer wg.Done()
			y0 := bi * dc.Height / bands
			y1 := (bi + 1) * dc.Height / bands
			for _, sts := range shaded {
				for k := range sts {
					dc.rasterize(&sts[k], y0, y1, ds, fromObject)
				}
			}
		}(bi)
	}
	wg.Wait()
}

func (dc *Context) resolve(shader Shader) *drawState {
	ds := &drawState{
		DrawState: DrawState{
			Blend:      dc.Blend,
			DepthTest:  dc.ReadDepth,
			DepthWrite: dc.WriteDepth,
			Cull:       dc.Cull,
		},
		shader: shader,
	}
	if s, ok := shader.(Stateful); ok {
		ds.DrawState = s.DrawState()
	}
	return ds
}

// DrawObject binds the uniforms to the object's material, falling back to
// the context shader, and draws its mesh.
func (dc *Context) DrawObject(o *Object, u Uniforms) {
	if o == nil || o.Mesh == nil {
		return
	}
	shader := o.Material
	if shader == nil {
		shader = dc.Shader
	}
	if shader == nil {
		return
	}
	if b, ok := shader.(Binder); ok {
		b.Bind(u)
	}
	dc.drawMesh(o.Mesh, o, dc.resolve(shader))
}
