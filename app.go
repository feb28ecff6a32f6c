package holo

import (
	"fmt"
	"io"
)

// App is a scene assembled from a Config and ready to drive.
type App struct {
	Config    *Config
	Scene     *Scene
	Camera    *Camera
	Controls  *OrbitControls
	Composer  *Composer
	Driver    *Driver
	Sky       *Object
	Materials map[string]*HolographicMaterial
	Panel     *Panel
}

// NewApp builds the scene, materials, pipeline and driver described by cfg.
// The model is loaded in the background; it appears in the frame after its
// load finishes and is absent if the load fails. Setup errors are returned:
// an effect that cannot be built or a material that cannot be decoded.
func NewApp(cfg *Config, target Target, clock Clock, logger Logger) (*App, error) {
	if logger == nil {
		logger = NewNopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Renderer.Debug {
		logger.SetDebug(true)
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	camera := NewCamera(cfg.Camera.Fov, float64(w)/float64(h), cfg.Camera.Near, cfg.Camera.Far)
	camera.Position = vec3(cfg.Camera.Position)
	camera.Target = vec3(cfg.Camera.Target)

	scene := NewScene(camera, w, h)
	scene.Workers = cfg.Renderer.Workers
	scene.Resize(w, h, cfg.Window.PixelRatio)
	scene.Exposure = cfg.Renderer.Exposure

	var err error
	scene.Light.Position = vec3(cfg.Lights.Directional.Position)
	scene.Light.Intensity = cfg.Lights.Directional.Intensity
	if scene.Light.Color, err = ParseHexColor(cfg.Lights.Directional.Color); err != nil {
		return nil, err
	}
	scene.Ambient.Intensity = cfg.Lights.Ambient.Intensity
	if scene.Ambient.Color, err = ParseHexColor(cfg.Lights.Ambient.Color); err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Scene:     scene,
		Camera:    camera,
		Materials: make(map[string]*HolographicMaterial, len(cfg.Materials)),
	}

	if cfg.Sky.Enabled {
		if app.Sky, err = newSky(cfg.Sky, logger); err != nil {
			return nil, err
		}
		scene.Sky = app.Sky
	}

	for _, name := range cfg.MaterialNames() {
		p, err := cfg.Materials[name].Params()
		if err != nil {
			return nil, fmt.Errorf("holo: material %q: %w", name, err)
		}
		m := NewHolographicMaterialFromParams(p)
		m.Name = name
		app.Materials[name] = m
	}

	effects, err := cfg.BuildEffects()
	if err != nil {
		return nil, err
	}
	if app.Composer, err = NewComposer(scene, camera, target, effects...); err != nil {
		return nil, err
	}

	app.Controls = NewOrbitControls(camera)
	app.Controls.EnableDamping = cfg.Controls.Damping
	app.Controls.DampingFactor = cfg.Controls.DampingFactor
	app.Controls.MinDistance = cfg.Controls.MinDistance
	app.Controls.MaxDistance = cfg.Controls.MaxDistance
	app.Controls.MinPolarAngle = cfg.Controls.MinPolarAngle
	app.Controls.MaxPolarAngle = cfg.Controls.MaxPolarAngle

	app.Driver = NewDriver(scene, app.Controls, app.Composer, clock, logger)
	for _, name := range cfg.MaterialNames() {
		app.Driver.AddMaterial(app.Materials[name])
	}
	if m := app.Materials[cfg.Panel.Material]; m != nil {
		app.Panel = NewPanel(m, app.Driver, DefaultBindings)
	}

	if cfg.Model.Path != "" {
		path, factor := cfg.Model.Path, cfg.Model.Simplify
		app.Driver.Load(path, func() (*Model, error) {
			m, err := LoadModel(path)
			if err != nil {
				return nil, err
			}
			if factor > 0 && factor < 1 {
				m.Simplify(factor)
			}
			return m, nil
		}, app.attachModel)
	}
	return app, nil
}

func newSky(cfg SkyConfig, logger Logger) (*Object, error) {
	color, err := ParseHexColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	sky := NewObjectFromMesh("sky", NewSphere(cfg.Radius, cfg.WidthSegments, cfg.HeightSegments))
	shader := NewBasicShader(color)
	shader.Side = CullFront
	sky.Material = shader
	sky.Rotation.Y = cfg.RotationY
	if cfg.Texture != "" {
		tex, err := LoadTexture(cfg.Texture)
		if err != nil {
			logger.Warnf("sky texture: %v", err)
		} else {
			tex.FlipY = cfg.FlipY
			sky.Texture = tex
		}
	}
	return sky, nil
}

// attachModel places a freshly loaded model, binds the configured materials
// to its meshes by name and starts its bob animation.
func (a *App) attachModel(m *Model) error {
	cfg := a.Config
	m.Position = vec3(cfg.Model.Position)
	if cfg.Model.Scale != 0 {
		m.SetScale(cfg.Model.Scale)
	}
	if cfg.Model.BobAmplitude != 0 {
		a.Driver.AddAnimation(Bob(m, m.Position.Y, cfg.Model.BobAmplitude))
	}

	bindings := make(map[string]Shader, len(cfg.Meshes))
	for _, mc := range cfg.Meshes {
		bindings[mc.Name] = a.Materials[mc.Material]
		if o := m.Child(mc.Name); o != nil && mc.Scale != nil {
			o.SetScale(*mc.Scale)
		}
	}
	return m.AssignMaterials(bindings)
}

// ApplyOverride writes a command-line override to the named material. It
// takes effect like any other parameter write, from the next frame.
func (a *App) ApplyOverride(o Override) error {
	m := a.Materials[o.Material]
	if m == nil {
		return fmt.Errorf("holo: override for unknown material %q", o.Material)
	}
	_, err := m.SetParameter(o.Param, o.Value)
	return err
}

// WriteBaseFrame encodes the scene as PNG without the effect pipeline,
// with the materials at the driver's current time.
func (a *App) WriteBaseFrame(w io.Writer) error {
	for _, m := range a.Materials {
		m.Advance(a.Driver.Elapsed())
	}
	return a.Scene.DrawToWriter(w)
}
