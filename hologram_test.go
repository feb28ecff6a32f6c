package holo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHologramParams(t *testing.T) {
	m := NewHolographicMaterial()
	p := m.Params()

	assert.Equal(t, "#00d5ff", p.HologramColor.Hex())
	assert.Equal(t, 0.45, p.FresnelAmount)
	assert.Equal(t, 1.0, p.FresnelOpacity)
	assert.Equal(t, 8.0, p.ScanlineSize)
	assert.Equal(t, 1.0, p.SignalSpeed)
	assert.Equal(t, 1.0, p.HologramOpacity)
	assert.Equal(t, 1.0, p.HologramBrightness)
	assert.True(t, p.EnableBlinking)
	assert.True(t, p.BlinkFresnelOnly)
	assert.Equal(t, BlendNormal, p.BlendMode)
	assert.True(t, p.DepthTest)
	assert.False(t, m.Dirty())
}

func TestOptionsOverrideOnlyTheirField(t *testing.T) {
	m := NewHolographicMaterial(WithScanlineSize(3.7), WithSignalSpeed(0.18))
	p := m.Params()

	assert.Equal(t, 3.7, p.ScanlineSize)
	assert.Equal(t, 0.18, p.SignalSpeed)
	assert.Equal(t, 0.45, p.FresnelAmount)
	assert.True(t, p.EnableBlinking)
}

func TestScanlinePhase(t *testing.T) {
	m := NewHolographicMaterial(WithScanlineSize(3.7), WithSignalSpeed(0.18))
	m.Advance(10)
	assert.InDelta(t, 1.8, m.ScanlinePhase(), 1e-9)

	m = NewHolographicMaterial(WithScanlineSize(2), WithSignalSpeed(1))
	m.Advance(5)
	assert.InDelta(t, 1.0, m.ScanlinePhase(), 1e-9)

	m = NewHolographicMaterial(WithScanlineSize(0))
	m.Advance(5)
	assert.Equal(t, 0.0, m.ScanlinePhase())
}

func TestBlink(t *testing.T) {
	m := NewHolographicMaterial(WithBlinking(false))
	for _, tm := range []float64{0, 0.3, 0.9, 12.95} {
		m.Advance(tm)
		assert.Equal(t, 1.0, m.Blink(), "t=%v", tm)
	}

	m = NewHolographicMaterial(WithSignalSpeed(1))
	m.Advance(0.5)
	assert.Equal(t, 1.0, m.Blink())
	m.Advance(0.9)
	assert.Equal(t, 0.0, m.Blink())

	// slow signals never go fully dark
	m = NewHolographicMaterial(WithSignalSpeed(0.25))
	m.Advance(3.6)
	assert.InDelta(t, 0.35, m.Blink(), 1e-9)
}

func TestAdvanceIsMonotonic(t *testing.T) {
	m := NewHolographicMaterial()
	m.Advance(5)
	m.Advance(3)
	assert.Equal(t, 5.0, m.Time())
}

func TestSetParameterMarksDirty(t *testing.T) {
	m := NewHolographicMaterial(WithSignalSpeed(1))

	changed, err := m.SetParameter(ParamScanlineSize, 2.0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, m.Dirty())
	assert.Equal(t, 2.0, m.Params().ScanlineSize)

	// the shader keeps the old value until the next frame
	m.Advance(3)
	assert.False(t, m.Dirty())
	assert.InDelta(t, 1.0, m.ScanlinePhase(), 1e-9)
}

func TestSetParameterSameValueIsNoop(t *testing.T) {
	m := NewHolographicMaterial()
	changed, err := m.SetParameter(ParamFresnelAmount, 0.45)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, m.Dirty())

	changed, err = m.SetParameter(ParamHologramColor, "#00D5FF")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSetParameterErrors(t *testing.T) {
	m := NewHolographicMaterial()

	_, err := m.SetParameter("glitchAmount", 1.0)
	assert.ErrorIs(t, err, ErrUnknownParam)

	_, err = m.SetParameter(ParamEnableBlinking, 1.0)
	assert.ErrorIs(t, err, ErrParamType)

	_, err = m.SetParameter(ParamFresnelAmount, "lots")
	assert.ErrorIs(t, err, ErrParamType)

	_, err = m.SetParameter(ParamBlendMode, "screen")
	assert.Error(t, err)
	assert.False(t, m.Dirty())
}

func TestSetParameterAcceptsOutOfRange(t *testing.T) {
	m := NewHolographicMaterial()
	_, err := m.SetParameter(ParamHologramOpacity, 7.5)
	require.NoError(t, err)
	_, err = m.SetParameter(ParamScanlineSize, -3)
	require.NoError(t, err)
	assert.Equal(t, 7.5, m.Params().HologramOpacity)
	assert.Equal(t, -3.0, m.Params().ScanlineSize)
}

func TestDrawStateFollowsParams(t *testing.T) {
	m := NewHolographicMaterial(WithBlendMode(BlendAdditive), WithDepthTest(false))
	ds := m.DrawState()
	assert.Equal(t, BlendAdditive, ds.Blend)
	assert.False(t, ds.DepthTest)

	_, err := m.SetParameter(ParamDepthTest, true)
	require.NoError(t, err)
	assert.False(t, m.DrawState().DepthTest)
	m.Advance(0)
	assert.True(t, m.DrawState().DepthTest)
}

func TestFragment(t *testing.T) {
	m := NewHolographicMaterial(WithScanlineSize(0))
	m.Bind(Uniforms{Model: Identity(), ViewProjection: Identity(), Eye: Vector{0, 0, 5}})

	// facing the camera: no fresnel rim
	c := m.Fragment(Vertex{Normal: Vector{0, 0, 1}}, nil)
	want := HexColor("#00d5ff")
	assert.InDelta(t, want.R, c.R, 1e-9)
	assert.InDelta(t, want.G, c.G, 1e-9)
	assert.InDelta(t, want.B, c.B, 1e-9)
	assert.Equal(t, 1.0, c.A)

	// edge-on: full fresnel amount
	c = m.Fragment(Vertex{Normal: Vector{1, 0, 0}}, nil)
	assert.InDelta(t, want.R+0.45, c.R, 1e-9)
	assert.InDelta(t, want.B+0.45, c.B, 1e-9)
}

func TestFragmentOpacityAndBrightness(t *testing.T) {
	m := NewHolographicMaterial(
		WithScanlineSize(0),
		WithHologramOpacity(0.5),
		WithHologramBrightness(2),
		WithHologramColor(Color{0.25, 0.25, 0.25, 1}),
	)
	m.Bind(Uniforms{Model: Identity(), ViewProjection: Identity(), Eye: Vector{0, 0, 5}})
	c := m.Fragment(Vertex{Normal: Vector{0, 0, 1}}, nil)
	assert.InDelta(t, 0.5, c.R, 1e-9)
	assert.Equal(t, 0.5, c.A)
}

func TestTwoMaterialsShareTheClock(t *testing.T) {
	a := NewHolographicMaterial(WithScanlineSize(3.7), WithSignalSpeed(0.18))
	b := NewHolographicMaterial(WithScanlineSize(30), WithSignalSpeed(1))
	for _, m := range []*HolographicMaterial{a, b} {
		m.Advance(10)
	}
	assert.Equal(t, a.Time(), b.Time())
	assert.InDelta(t, 1.8, a.ScanlinePhase(), 1e-9)
	assert.InDelta(t, 10.0, b.ScanlinePhase(), 1e-9)
}
