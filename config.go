package holo

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config describes a whole scene. DefaultConfig is the reference scene; a
// TOML file only needs the keys it changes.
type Config struct {
	Window    WindowConfig              `toml:"window"`
	Camera    CameraConfig              `toml:"camera"`
	Controls  ControlsConfig            `toml:"controls"`
	Lights    LightsConfig              `toml:"lights"`
	Renderer  RendererConfig            `toml:"renderer"`
	Sky       SkyConfig                 `toml:"sky"`
	Model     ModelConfig               `toml:"model"`
	Materials map[string]MaterialConfig `toml:"materials"`
	Meshes    []MeshConfig              `toml:"meshes"`
	Effects   []EffectConfig            `toml:"effects"`
	Panel     PanelConfig               `toml:"panel"`
}

type WindowConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	PixelRatio float64 `toml:"pixel_ratio"`
}

type CameraConfig struct {
	Fov      float64    `toml:"fov"`
	Near     float64    `toml:"near"`
	Far      float64    `toml:"far"`
	Position [3]float64 `toml:"position"`
	Target   [3]float64 `toml:"target"`
}

type ControlsConfig struct {
	Damping       bool    `toml:"damping"`
	DampingFactor float64 `toml:"damping_factor"`
	MinDistance   float64 `toml:"min_distance"`
	MaxDistance   float64 `toml:"max_distance"`
	MinPolarAngle float64 `toml:"min_polar_angle"`
	MaxPolarAngle float64 `toml:"max_polar_angle"`
}

type LightConfig struct {
	Position  [3]float64 `toml:"position"`
	Color     string     `toml:"color"`
	Intensity float64    `toml:"intensity"`
}

type LightsConfig struct {
	Directional LightConfig `toml:"directional"`
	Ambient     LightConfig `toml:"ambient"`
}

type RendererConfig struct {
	Exposure float64 `toml:"exposure"`
	Workers  int     `toml:"workers"`
	// Debug turns on per-frame timing logs.
	Debug bool `toml:"debug"`
}

type SkyConfig struct {
	Enabled        bool    `toml:"enabled"`
	Texture        string  `toml:"texture"`
	FlipY          bool    `toml:"flip_y"`
	Color          string  `toml:"color"`
	Radius         float64 `toml:"radius"`
	WidthSegments  int     `toml:"width_segments"`
	HeightSegments int     `toml:"height_segments"`
	RotationY      float64 `toml:"rotation_y"`
}

type ModelConfig struct {
	Path     string     `toml:"path"`
	Position [3]float64 `toml:"position"`
	Scale    float64    `toml:"scale"`
	// Simplify keeps this fraction of each mesh's triangles; 0 or 1 keeps all.
	Simplify float64 `toml:"simplify"`
	// BobAmplitude moves the model by amplitude*sin(t) around Position.Y.
	BobAmplitude float64 `toml:"bob_amplitude"`
}

// MaterialConfig holds holographic material parameters. Omitted keys keep
// their default values.
type MaterialConfig struct {
	HologramColor      *string  `toml:"hologram_color"`
	FresnelAmount      *float64 `toml:"fresnel_amount"`
	FresnelOpacity     *float64 `toml:"fresnel_opacity"`
	ScanlineSize       *float64 `toml:"scanline_size"`
	SignalSpeed        *float64 `toml:"signal_speed"`
	HologramOpacity    *float64 `toml:"hologram_opacity"`
	HologramBrightness *float64 `toml:"hologram_brightness"`
	EnableBlinking     *bool    `toml:"enable_blinking"`
	BlinkFresnelOnly   *bool    `toml:"blink_fresnel_only"`
	BlendMode          *string  `toml:"blend_mode"`
	DepthTest          *bool    `toml:"depth_test"`
}

// MeshConfig binds a material to a mesh of the loaded model by name.
type MeshConfig struct {
	Name     string   `toml:"name"`
	Material string   `toml:"material"`
	Scale    *float64 `toml:"scale"`
}

// EffectConfig is one pipeline stage. Kind selects the stage; keys a stage
// does not use are ignored and omitted keys keep the stage defaults.
type EffectConfig struct {
	Kind string `toml:"kind"`

	FocusDistance *float64 `toml:"focus_distance"`
	FocusRange    *float64 `toml:"focus_range"`
	FocalLength   *float64 `toml:"focal_length"`
	BokehScale    *float64 `toml:"bokeh_scale"`

	LuminanceThreshold *float64 `toml:"luminance_threshold"`
	LuminanceSmoothing *float64 `toml:"luminance_smoothing"`
	Intensity          *float64 `toml:"intensity"`
	MipmapBlur         *bool    `toml:"mipmap_blur"`
	Radius             *float64 `toml:"radius"`
	Levels             *int     `toml:"levels"`

	Brightness *float64 `toml:"brightness"`
	Contrast   *float64 `toml:"contrast"`

	Preset *string `toml:"preset"`

	Offset   *float64 `toml:"offset"`
	Darkness *float64 `toml:"darkness"`
	Eskil    *bool    `toml:"eskil"`
}

type PanelConfig struct {
	// Material names the material the tuning panel edits.
	Material string `toml:"material"`
}

func ptr[T any](v T) *T { return &v }

// DefaultConfig returns the reference scene.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Width: 800, Height: 600, PixelRatio: 1},
		Camera: CameraConfig{
			Fov:      35,
			Near:     0.1,
			Far:      1000,
			Position: [3]float64{0, 0, 5},
		},
		Controls: ControlsConfig{
			Damping:       true,
			DampingFactor: 0.05,
			MinDistance:   2,
			MaxDistance:   6,
			MinPolarAngle: 1.1,
			MaxPolarAngle: math.Pi / 1.7,
		},
		Lights: LightsConfig{
			Directional: LightConfig{Position: [3]float64{-20, 20, 50}, Color: "#ffffff", Intensity: 1},
			Ambient:     LightConfig{Color: "#ffffff", Intensity: 2.9},
		},
		Renderer: RendererConfig{Exposure: 0.7},
		Sky: SkyConfig{
			Enabled:        true,
			Texture:        "background.jpg",
			FlipY:          true,
			Color:          "#ffffff",
			Radius:         8,
			WidthSegments:  40,
			HeightSegments: 40,
			RotationY:      -1,
		},
		Model: ModelConfig{
			Path:         "kylo_rens_helmet-transformed.glb",
			Position:     [3]float64{0, 0, -1.5},
			Scale:        1.6,
			BobAmplitude: 1 / 8.3,
		},
		Materials: map[string]MaterialConfig{
			"holo1": {
				HologramColor:      ptr("#00d5ff"),
				FresnelAmount:      ptr(0.7),
				ScanlineSize:       ptr(3.7),
				SignalSpeed:        ptr(0.18),
				HologramOpacity:    ptr(0.7),
				HologramBrightness: ptr(1.6),
				BlinkFresnelOnly:   ptr(true),
				BlendMode:          ptr("normal"),
				DepthTest:          ptr(true),
			},
			"holo2": {
				HologramColor:      ptr("#00ffaa"),
				FresnelAmount:      ptr(0.6),
				ScanlineSize:       ptr(30.0),
				SignalSpeed:        ptr(1.0),
				HologramOpacity:    ptr(0.5),
				HologramBrightness: ptr(2.0),
				BlinkFresnelOnly:   ptr(true),
				BlendMode:          ptr("normal"),
				DepthTest:          ptr(false),
			},
		},
		// These names are not read from the helmet asset. Run the debug tool
		// (debug/main.go) on the .glb to list its real mesh names.
		Meshes: []MeshConfig{
			{Name: "helmet", Material: "holo1"},
			{Name: "visor", Material: "holo2", Scale: ptr(0.315)},
			{Name: "trim", Material: "holo1"},
		},
		Effects: []EffectConfig{
			{Kind: string(KindDepthOfField), FocusRange: ptr(0.048), FocalLength: ptr(0.4), BokehScale: ptr(80.0)},
			{Kind: string(KindBloom), LuminanceThreshold: ptr(0.6), Intensity: ptr(1.2), MipmapBlur: ptr(true), Radius: ptr(0.8)},
			{Kind: string(KindBloom), LuminanceThreshold: ptr(0.2), Intensity: ptr(0.6), MipmapBlur: ptr(true), Radius: ptr(1.0)},
			{Kind: string(KindBrightnessContrast), Contrast: ptr(0.2)},
			{Kind: string(KindSMAA)},
			{Kind: string(KindVignette), Darkness: ptr(0.7)},
		},
		Panel: PanelConfig{Material: "holo1"},
	}
}

// LoadConfig reads a TOML scene file over the defaults. Materials, meshes
// and effects replace the default lists as a whole when present. Relative
// asset paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("holo: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("holo: %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Model.Path = resolvePath(dir, cfg.Model.Path)
	cfg.Sky.Texture = resolvePath(dir, cfg.Sky.Texture)
	return cfg, nil
}

// ParseConfig decodes TOML over DefaultConfig. Unknown keys are errors.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	materials, meshes, effects := cfg.Materials, cfg.Meshes, cfg.Effects
	cfg.Materials, cfg.Meshes, cfg.Effects = nil, nil, nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Materials == nil {
		cfg.Materials = materials
	}
	if cfg.Meshes == nil {
		cfg.Meshes = meshes
	}
	if cfg.Effects == nil {
		cfg.Effects = effects
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks references between sections and that every effect can
// be built.
func (c *Config) Validate() error {
	for _, m := range c.Meshes {
		if _, ok := c.Materials[m.Material]; !ok {
			return fmt.Errorf("holo: mesh %q uses unknown material %q", m.Name, m.Material)
		}
	}
	if c.Panel.Material != "" {
		if _, ok := c.Materials[c.Panel.Material]; !ok {
			return fmt.Errorf("holo: panel uses unknown material %q", c.Panel.Material)
		}
	}
	for name, m := range c.Materials {
		if _, err := m.Params(); err != nil {
			return fmt.Errorf("holo: material %q: %w", name, err)
		}
	}
	_, err := c.BuildEffects()
	return err
}

// MaterialNames returns the material names in sorted order.
func (c *Config) MaterialNames() []string {
	names := make([]string, 0, len(c.Materials))
	for name := range c.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildEffects converts the effect list into pipeline stages, in order.
func (c *Config) BuildEffects() ([]Effect, error) {
	effects := make([]Effect, 0, len(c.Effects))
	for i, ec := range c.Effects {
		e, err := ec.Effect()
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		effects = append(effects, e)
	}
	return effects, nil
}

// Params applies the configured values over DefaultHologramParams.
func (mc MaterialConfig) Params() (HologramParams, error) {
	p := DefaultHologramParams()
	if mc.HologramColor != nil {
		c, err := ParseHexColor(*mc.HologramColor)
		if err != nil {
			return p, err
		}
		p.HologramColor = c
	}
	if mc.BlendMode != nil {
		m, err := ParseBlendMode(*mc.BlendMode)
		if err != nil {
			return p, err
		}
		p.BlendMode = m
	}
	setIf(&p.FresnelAmount, mc.FresnelAmount)
	setIf(&p.FresnelOpacity, mc.FresnelOpacity)
	setIf(&p.ScanlineSize, mc.ScanlineSize)
	setIf(&p.SignalSpeed, mc.SignalSpeed)
	setIf(&p.HologramOpacity, mc.HologramOpacity)
	setIf(&p.HologramBrightness, mc.HologramBrightness)
	setIf(&p.EnableBlinking, mc.EnableBlinking)
	setIf(&p.BlinkFresnelOnly, mc.BlinkFresnelOnly)
	setIf(&p.DepthTest, mc.DepthTest)
	return p, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

var smaaPresets = map[string]SMAAPreset{
	"low":    SMAALow,
	"medium": SMAAMedium,
	"high":   SMAAHigh,
	"ultra":  SMAAUltra,
}

// Effect builds the stage named by Kind from its defaults and the set keys.
// An unknown kind returns ErrUnsupportedEffect.
func (ec EffectConfig) Effect() (Effect, error) {
	switch EffectKind(ec.Kind) {
	case KindDepthOfField:
		e := NewDepthOfField()
		setIf(&e.FocusDistance, ec.FocusDistance)
		setIf(&e.FocusRange, ec.FocusRange)
		setIf(&e.FocalLength, ec.FocalLength)
		setIf(&e.BokehScale, ec.BokehScale)
		return e, nil
	case KindBloom:
		e := NewBloom()
		setIf(&e.LuminanceThreshold, ec.LuminanceThreshold)
		setIf(&e.LuminanceSmoothing, ec.LuminanceSmoothing)
		setIf(&e.Intensity, ec.Intensity)
		setIf(&e.MipmapBlur, ec.MipmapBlur)
		setIf(&e.Radius, ec.Radius)
		setIf(&e.Levels, ec.Levels)
		return e, nil
	case KindBrightnessContrast:
		e := BrightnessContrast{}
		setIf(&e.Brightness, ec.Brightness)
		setIf(&e.Contrast, ec.Contrast)
		return e, nil
	case KindSMAA:
		e := NewSMAA()
		if ec.Preset != nil {
			p, ok := smaaPresets[strings.ToLower(*ec.Preset)]
			if !ok {
				return nil, fmt.Errorf("%w: smaa preset %q", ErrUnsupportedEffect, *ec.Preset)
			}
			e.Preset = p
		}
		return e, nil
	case KindVignette:
		e := NewVignette()
		setIf(&e.Offset, ec.Offset)
		setIf(&e.Darkness, ec.Darkness)
		setIf(&e.Eskil, ec.Eskil)
		return e, nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedEffect, ec.Kind)
}

// Override is a command-line parameter write, material.param=value.
type Override struct {
	Material string
	Param    Param
	Value    any
}

// ParseOverride parses "material.param=value". Values that read as a bool
// or a number become one; anything else stays a string, which covers
// colours and blend modes.
func ParseOverride(s string) (Override, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("holo: override %q: want material.param=value", s)
	}
	material, param, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || material == "" || param == "" {
		return Override{}, fmt.Errorf("holo: override %q: want material.param=value", s)
	}
	raw = strings.TrimSpace(raw)
	var v any = raw
	if raw == "true" || raw == "false" {
		v = raw == "true"
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		v = f
	}
	return Override{Material: material, Param: Param(param), Value: v}, nil
}

func vec3(a [3]float64) Vector {
	return Vector{a[0], a[1], a[2]}
}
