package holo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Post(e Event) {
	s.events = append(s.events, e)
}

func TestPanelReadsInitialValues(t *testing.T) {
	m := NewHolographicMaterial(WithFresnelAmount(0.7))
	p := NewPanel(m, &recordingSink{}, nil)

	v, ok := p.Get("Fresnel Amount")
	require.True(t, ok)
	assert.Equal(t, 0.7, v)

	v, ok = p.Get("HologramColor")
	require.True(t, ok)
	assert.Equal(t, "#00d5ff", v)

	_, ok = p.Get("Glitch")
	assert.False(t, ok)
	assert.Len(t, p.Bindings(), 9)
}

func TestPanelSetPostsUpdate(t *testing.T) {
	m := NewHolographicMaterial()
	sink := &recordingSink{}
	p := NewPanel(m, sink, nil)

	require.NoError(t, p.Set("Signal Speed", 0.5))
	require.Len(t, sink.events, 1)
	assert.Equal(t, ParamUpdate{Material: m.ID, Param: ParamSignalSpeed, Value: 0.5}, sink.events[0])

	v, _ := p.Get("Signal Speed")
	assert.Equal(t, 0.5, v)
	// the material only changes when the driver applies the update
	assert.Equal(t, 1.0, m.Params().SignalSpeed)
}

func TestPanelClampsAndSnaps(t *testing.T) {
	p := NewPanel(NewHolographicMaterial(), &recordingSink{}, nil)

	require.NoError(t, p.Set("Fresnel Amount", 5.0))
	v, _ := p.Get("Fresnel Amount")
	assert.Equal(t, 2.0, v)

	require.NoError(t, p.Set("Hologram Opacity", -1))
	v, _ = p.Get("Hologram Opacity")
	assert.Equal(t, 0.0, v)

	require.NoError(t, p.Set("Scanline Size", 3.456))
	v, _ = p.Get("Scanline Size")
	assert.Equal(t, 3.46, v)
}

func TestPanelToggleAndColor(t *testing.T) {
	m := NewHolographicMaterial()
	sink := &recordingSink{}
	p := NewPanel(m, sink, nil)

	require.NoError(t, p.Set("Enable Blinking", false))
	require.NoError(t, p.SetColor("HologramColor", "#ff0000"))
	require.Len(t, sink.events, 2)
	assert.Equal(t, false, sink.events[0].(ParamUpdate).Value)
	assert.Equal(t, "#ff0000", sink.events[1].(ParamUpdate).Value)

	v, _ := p.Get("HologramColor")
	assert.Equal(t, "#ff0000", v)
}

func TestPanelRejectsBadWrites(t *testing.T) {
	sink := &recordingSink{}
	p := NewPanel(NewHolographicMaterial(), sink, nil)

	assert.Error(t, p.Set("Glitch", 1.0))
	assert.ErrorIs(t, p.Set("Enable Blinking", "yes"), ErrParamType)
	assert.Error(t, p.SetColor("HologramColor", "teal"))
	assert.Empty(t, sink.events)

	v, _ := p.Get("Enable Blinking")
	assert.Equal(t, true, v)
}

func TestPanelDrivesMaterialThroughDriver(t *testing.T) {
	m := NewHolographicMaterial()
	d := newTestDriver(t, &probeRenderer{}, 0.1)
	d.AddMaterial(m)
	p := NewPanel(m, d, nil)

	require.NoError(t, p.Set("Hologram Brightness", 1.6))
	require.NoError(t, d.Tick())
	assert.Equal(t, 1.6, m.Params().HologramBrightness)
	assert.False(t, m.Dirty())
}
