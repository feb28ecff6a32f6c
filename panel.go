package holo

import (
	"fmt"
	"math"
)

// Binding is one tuning control: a labelled parameter with the range and
// step a slider would offer. Zero Step means no snapping; Min == Max means
// no range.
type Binding struct {
	Label string
	Param Param
	Min   float64
	Max   float64
	Step  float64
}

// DefaultBindings are the controls exposed for a holographic material.
var DefaultBindings = []Binding{
	{Label: "Fresnel Opacity", Param: ParamFresnelOpacity, Min: 0, Max: 1, Step: 0.01},
	{Label: "Fresnel Amount", Param: ParamFresnelAmount, Min: 0, Max: 2, Step: 0.01},
	{Label: "Scanline Size", Param: ParamScanlineSize, Min: 0, Max: 20, Step: 0.01},
	{Label: "Hologram Brightness", Param: ParamHologramBrightness, Min: 0, Max: 2, Step: 0.01},
	{Label: "Signal Speed", Param: ParamSignalSpeed, Min: 0, Max: 2, Step: 0.01},
	{Label: "HologramColor", Param: ParamHologramColor},
	{Label: "Enable Blinking", Param: ParamEnableBlinking},
	{Label: "Blink Fresnel Only", Param: ParamBlinkFresnelOnly},
	{Label: "Hologram Opacity", Param: ParamHologramOpacity, Min: 0, Max: 1, Step: 0.01},
}

// Panel is the tuning surface for one material. It never touches the
// material directly: every write becomes a ParamUpdate posted to the sink,
// and reads return the panel's own record of the last written value.
type Panel struct {
	material *HolographicMaterial
	sink     EventSink
	bindings []Binding
	values   map[string]any
}

func NewPanel(m *HolographicMaterial, sink EventSink, bindings []Binding) *Panel {
	if bindings == nil {
		bindings = DefaultBindings
	}
	p := &Panel{
		material: m,
		sink:     sink,
		bindings: bindings,
		values:   make(map[string]any, len(bindings)),
	}
	params := m.Params()
	for _, b := range bindings {
		v, err := params.Get(b.Param)
		if err != nil {
			continue
		}
		if c, ok := v.(Color); ok {
			v = c.Hex()
		}
		p.values[b.Label] = v
	}
	return p
}

func (p *Panel) Bindings() []Binding {
	return append([]Binding(nil), p.bindings...)
}

func (p *Panel) binding(label string) (Binding, bool) {
	for _, b := range p.bindings {
		if b.Label == label {
			return b, true
		}
	}
	return Binding{}, false
}

// Get returns the last value written through the panel, or the material's
// value when the panel was created.
func (p *Panel) Get(label string) (any, bool) {
	v, ok := p.values[label]
	return v, ok
}

// Set writes a control. Numbers are limited to the control's range and
// snapped to its step, the way a slider would; the material applies the
// value on the next frame.
func (p *Panel) Set(label string, v any) error {
	b, ok := p.binding(label)
	if !ok {
		return fmt.Errorf("holo: no control %q", label)
	}
	if f, err := toFloat(v); err == nil {
		v = b.snap(f)
	}
	// check the type before posting so a bad write fails here
	probe := p.material.Params()
	if _, err := probe.Set(b.Param, v); err != nil {
		return err
	}
	p.values[label] = v
	p.sink.Post(ParamUpdate{Material: p.material.ID, Param: b.Param, Value: v})
	return nil
}

// SetColor writes a "#rrggbb" colour to the colour control.
func (p *Panel) SetColor(label, hex string) error {
	if _, err := ParseHexColor(hex); err != nil {
		return err
	}
	return p.Set(label, hex)
}

func (b Binding) snap(v float64) float64 {
	if b.Max > b.Min {
		v = Clamp(v, b.Min, b.Max)
	}
	if b.Step > 0 {
		v = b.Min + math.Round((v-b.Min)/b.Step)*b.Step
		// keep 0.01 steps printable
		v = math.Round(v*1e9) / 1e9
	}
	return v
}
