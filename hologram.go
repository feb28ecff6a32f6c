package holo

import (
	"math"

	"github.com/google/uuid"
)

const (
	// scanlineDensity scales screen-space y in [0,1] into scanline units.
	scanlineDensity = 60.0
	// scanlineDepth is how far the scanline trough darkens the surface.
	scanlineDepth = 0.35
	// blinkRate is on/off cycles per second at signalSpeed 1.
	blinkRate = 1.0
	// blinkDuty is the fraction of a blink cycle spent fully on.
	blinkDuty = 0.85
)

// HolographicMaterial is a procedural shader simulating a projected
// hologram: a fresnel rim, scrolling scanlines, optional blinking and
// brightness/opacity scaling over a tint colour.
//
// Parameter writes go to the material's own parameter set and mark it dirty;
// the values the shader reads are refreshed on the next Advance, so a write
// shows up from the next rendered frame on.
type HolographicMaterial struct {
	ID   uuid.UUID
	Name string

	params   HologramParams
	uniforms hologramUniforms
	dirty    bool

	matrix  Matrix
	model   Matrix
	normals Matrix
	eye     Vector
}

type hologramUniforms struct {
	HologramParams
	time  float64
	phase float64
	blink float64
}

// NewHolographicMaterial builds a material from the defaults with opts
// applied on top.
func NewHolographicMaterial(opts ...ParamOption) *HolographicMaterial {
	p := DefaultHologramParams()
	for _, opt := range opts {
		opt(&p)
	}
	return NewHolographicMaterialFromParams(p)
}

func NewHolographicMaterialFromParams(p HologramParams) *HolographicMaterial {
	m := &HolographicMaterial{
		ID:      uuid.New(),
		params:  p,
		matrix:  Identity(),
		model:   Identity(),
		normals: Identity(),
	}
	m.upload()
	return m
}

// Params returns the last written parameter values.
func (m *HolographicMaterial) Params() HologramParams {
	return m.params
}

// Param returns the last written value of p.
func (m *HolographicMaterial) Param(p Param) (any, error) {
	return m.params.Get(p)
}

// SetParameter writes one parameter. Writing the value already held is a
// no-op and does not mark the material dirty.
func (m *HolographicMaterial) SetParameter(p Param, v any) (bool, error) {
	changed, err := m.params.Set(p, v)
	if err != nil {
		return false, err
	}
	if changed {
		m.dirty = true
	}
	return changed, nil
}

// Dirty reports whether parameter writes are waiting for the next Advance.
func (m *HolographicMaterial) Dirty() bool {
	return m.dirty
}

// Time is the elapsed time the shader currently renders at.
func (m *HolographicMaterial) Time() float64 {
	return m.uniforms.time
}

// Advance moves the material to the process-wide elapsed time, in seconds.
// Times earlier than the current one are ignored.
func (m *HolographicMaterial) Advance(elapsed float64) {
	if elapsed > m.uniforms.time {
		m.uniforms.time = elapsed
	}
	if m.dirty {
		m.upload()
		m.dirty = false
		return
	}
	m.animate()
}

func (m *HolographicMaterial) upload() {
	m.uniforms.HologramParams = m.params
	m.animate()
}

func (m *HolographicMaterial) animate() {
	u := &m.uniforms
	u.phase = scanlinePhase(u.SignalSpeed, u.ScanlineSize, u.time)
	u.blink = blinkTerm(u.EnableBlinking, u.SignalSpeed, u.time)
}

// ScanlinePhase is how far the scanlines have scrolled within one period.
func (m *HolographicMaterial) ScanlinePhase() float64 {
	return m.uniforms.phase
}

// Blink is the current blink modulation, always 1 with blinking disabled.
func (m *HolographicMaterial) Blink() float64 {
	return m.uniforms.blink
}

func scanlinePhase(speed, size, t float64) float64 {
	if size <= 0 {
		return 0
	}
	return math.Mod(speed*t, size)
}

func blinkTerm(enabled bool, speed, t float64) float64 {
	if !enabled {
		return 1
	}
	if Fract(t*speed*blinkRate) < blinkDuty {
		return 1
	}
	return Clamp(0.6-speed, 0, 1)
}

func (m *HolographicMaterial) Bind(u Uniforms) {
	m.matrix = u.ViewProjection.Mul(u.Model)
	m.model = u.Model
	m.normals = u.Model.NormalMatrix()
	m.eye = u.Eye
}

func (m *HolographicMaterial) DrawState() DrawState {
	return DrawState{
		Blend:      m.uniforms.BlendMode,
		DepthTest:  m.uniforms.DepthTest,
		DepthWrite: true,
		Cull:       CullBack,
	}
}

func (m *HolographicMaterial) Vertex(v Vertex) Vertex {
	v.Output = m.matrix.MulPositionW(v.Position)
	v.Position = m.model.MulPosition(v.Position)
	v.Normal = m.normals.MulDirection(v.Normal)
	return v
}

func (m *HolographicMaterial) Fragment(v Vertex, _ *Object) Color {
	u := &m.uniforms

	scan := 1.0
	if u.ScanlineSize > 0 && v.Output.W != 0 {
		y := v.Output.Y/v.Output.W*0.5 + 0.5
		scan = 0.5 + 0.5*math.Sin(2*math.Pi*(y*scanlineDensity-u.phase)/u.ScanlineSize)
	}
	glow := u.HologramBrightness * (1 - scanlineDepth + scanlineDepth*scan)
	color := u.HologramColor.MulScalar(glow)

	view := m.eye.Sub(v.Position).Normalize()
	facing := view.Dot(v.Normal) * (1.6 - u.FresnelOpacity/2)
	fresnel := Clamp(u.FresnelAmount-facing, 0, u.FresnelOpacity)

	if u.BlinkFresnelOnly {
		color = color.AddScalar(fresnel * u.blink)
	} else {
		color = color.MulScalar(u.blink).AddScalar(fresnel)
	}
	return color.Alpha(u.HologramOpacity)
}
