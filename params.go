package holo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParam is returned for a parameter name the material does not have.
	ErrUnknownParam = errors.New("holo: unknown parameter")
	// ErrParamType is returned when a value has the wrong Go type for its parameter.
	ErrParamType = errors.New("holo: wrong parameter type")
)

// Param names one field of HologramParams.
type Param string

const (
	ParamHologramColor      Param = "hologramColor"
	ParamFresnelAmount      Param = "fresnelAmount"
	ParamFresnelOpacity     Param = "fresnelOpacity"
	ParamScanlineSize       Param = "scanlineSize"
	ParamSignalSpeed        Param = "signalSpeed"
	ParamHologramOpacity    Param = "hologramOpacity"
	ParamHologramBrightness Param = "hologramBrightness"
	ParamEnableBlinking     Param = "enableBlinking"
	ParamBlinkFresnelOnly   Param = "blinkFresnelOnly"
	ParamBlendMode          Param = "blendMode"
	ParamDepthTest          Param = "depthTest"
)

// Params lists every parameter in declaration order.
var Params = []Param{
	ParamHologramColor,
	ParamFresnelAmount,
	ParamFresnelOpacity,
	ParamScanlineSize,
	ParamSignalSpeed,
	ParamHologramOpacity,
	ParamHologramBrightness,
	ParamEnableBlinking,
	ParamBlinkFresnelOnly,
	ParamBlendMode,
	ParamDepthTest,
}

// HologramParams are the tunable inputs of a HolographicMaterial. No field
// is validated; out of range values render whatever the shader computes.
type HologramParams struct {
	HologramColor      Color
	FresnelAmount      float64
	FresnelOpacity     float64
	ScanlineSize       float64
	SignalSpeed        float64
	HologramOpacity    float64
	HologramBrightness float64
	EnableBlinking     bool
	BlinkFresnelOnly   bool
	BlendMode          BlendMode
	DepthTest          bool
}

func DefaultHologramParams() HologramParams {
	return HologramParams{
		HologramColor:      HexColor("#00d5ff"),
		FresnelAmount:      0.45,
		FresnelOpacity:     1.0,
		ScanlineSize:       8.0,
		SignalSpeed:        1.0,
		HologramOpacity:    1.0,
		HologramBrightness: 1.0,
		EnableBlinking:     true,
		BlinkFresnelOnly:   true,
		BlendMode:          BlendNormal,
		DepthTest:          true,
	}
}

// Get returns the value of p as float64, bool, Color or BlendMode.
func (hp *HologramParams) Get(p Param) (any, error) {
	switch p {
	case ParamHologramColor:
		return hp.HologramColor, nil
	case ParamFresnelAmount:
		return hp.FresnelAmount, nil
	case ParamFresnelOpacity:
		return hp.FresnelOpacity, nil
	case ParamScanlineSize:
		return hp.ScanlineSize, nil
	case ParamSignalSpeed:
		return hp.SignalSpeed, nil
	case ParamHologramOpacity:
		return hp.HologramOpacity, nil
	case ParamHologramBrightness:
		return hp.HologramBrightness, nil
	case ParamEnableBlinking:
		return hp.EnableBlinking, nil
	case ParamBlinkFresnelOnly:
		return hp.BlinkFresnelOnly, nil
	case ParamBlendMode:
		return hp.BlendMode, nil
	case ParamDepthTest:
		return hp.DepthTest, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParam, p)
}

// Set writes v into p and reports whether the stored value changed. Colours
// may be given as Color or a hex string, blend modes as BlendMode or a name,
// and numbers as any float or int type.
func (hp *HologramParams) Set(p Param, v any) (bool, error) {
	switch p {
	case ParamHologramColor:
		c, err := toColor(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", p, err)
		}
		return setField(&hp.HologramColor, c), nil
	case ParamBlendMode:
		m, err := toBlendMode(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", p, err)
		}
		return setField(&hp.BlendMode, m), nil
	case ParamEnableBlinking, ParamBlinkFresnelOnly, ParamDepthTest:
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("%w: %s wants bool, got %T", ErrParamType, p, v)
		}
		switch p {
		case ParamEnableBlinking:
			return setField(&hp.EnableBlinking, b), nil
		case ParamBlinkFresnelOnly:
			return setField(&hp.BlinkFresnelOnly, b), nil
		default:
			return setField(&hp.DepthTest, b), nil
		}
	}

	field := hp.floatField(p)
	if field == nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownParam, p)
	}
	f, err := toFloat(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", p, err)
	}
	return setField(field, f), nil
}

func (hp *HologramParams) floatField(p Param) *float64 {
	switch p {
	case ParamFresnelAmount:
		return &hp.FresnelAmount
	case ParamFresnelOpacity:
		return &hp.FresnelOpacity
	case ParamScanlineSize:
		return &hp.ScanlineSize
	case ParamSignalSpeed:
		return &hp.SignalSpeed
	case ParamHologramOpacity:
		return &hp.HologramOpacity
	case ParamHologramBrightness:
		return &hp.HologramBrightness
	}
	return nil
}

func setField[T comparable](field *T, v T) bool {
	if *field == v {
		return false
	}
	*field = v
	return true
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: want number, got %T", ErrParamType, v)
}

func toColor(v any) (Color, error) {
	switch x := v.(type) {
	case Color:
		return x, nil
	case string:
		return ParseHexColor(x)
	}
	return Color{}, fmt.Errorf("%w: want colour, got %T", ErrParamType, v)
}

func toBlendMode(v any) (BlendMode, error) {
	switch x := v.(type) {
	case BlendMode:
		return x, nil
	case string:
		return ParseBlendMode(x)
	}
	return BlendNone, fmt.Errorf("%w: want blend mode, got %T", ErrParamType, v)
}

// ParamOption overrides one default when constructing a material.
type ParamOption func(*HologramParams)

func WithHologramColor(c Color) ParamOption {
	return func(p *HologramParams) { p.HologramColor = c }
}

func WithFresnelAmount(v float64) ParamOption {
	return func(p *HologramParams) { p.FresnelAmount = v }
}

func WithFresnelOpacity(v float64) ParamOption {
	return func(p *HologramParams) { p.FresnelOpacity = v }
}

func WithScanlineSize(v float64) ParamOption {
	return func(p *HologramParams) { p.ScanlineSize = v }
}

func WithSignalSpeed(v float64) ParamOption {
	return func(p *HologramParams) { p.SignalSpeed = v }
}

func WithHologramOpacity(v float64) ParamOption {
	return func(p *HologramParams) { p.HologramOpacity = v }
}

func WithHologramBrightness(v float64) ParamOption {
	return func(p *HologramParams) { p.HologramBrightness = v }
}

func WithBlinking(enabled bool) ParamOption {
	return func(p *HologramParams) { p.EnableBlinking = enabled }
}

func WithBlinkFresnelOnly(v bool) ParamOption {
	return func(p *HologramParams) { p.BlinkFresnelOnly = v }
}

func WithBlendMode(m BlendMode) ParamOption {
	return func(p *HologramParams) { p.BlendMode = m }
}

func WithDepthTest(v bool) ParamOption {
	return func(p *HologramParams) { p.DepthTest = v }
}
