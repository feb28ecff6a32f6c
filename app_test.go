package holo

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appOBJ = `o helmet
v -0.5 -0.5 0
v 0.5 -0.5 0
v 0.5 0.5 0
v -0.5 0.5 0
f 1 2 3 4
o visor
v -0.2 -0.2 0.1
v 0.2 -0.2 0.1
v 0 0.2 0.1
f 5 6 7
o trim
f 1 2 3
`

func smallConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Window = WindowConfig{Width: 24, Height: 16, PixelRatio: 1}
	cfg.Sky.Texture = ""
	cfg.Renderer.Workers = 2

	path := filepath.Join(t.TempDir(), "kylo.obj")
	require.NoError(t, os.WriteFile(path, []byte(appOBJ), 0o644))
	cfg.Model.Path = path
	return cfg
}

func TestAppRendersReferencePipeline(t *testing.T) {
	target := NewImageTarget(0, 0)
	app, err := NewApp(smallConfig(t), target, NewStepClock(1.0/60), nil)
	require.NoError(t, err)
	require.NotNil(t, app.Panel)
	assert.Len(t, app.Composer.Effects(), 6)

	require.NoError(t, app.Driver.WaitLoads(context.Background()))
	require.Len(t, app.Scene.Models, 1)
	model := app.Scene.Models[0]
	assert.Same(t, app.Materials["holo1"], model.Child("helmet").Material)
	assert.Same(t, app.Materials["holo2"], model.Child("visor").Material)
	assert.Same(t, app.Materials["holo1"], model.Child("trim").Material)
	assert.Equal(t, Vector{0.315, 0.315, 0.315}, model.Child("visor").Scale)
	assert.Equal(t, Vector{1.6, 1.6, 1.6}, model.Scale)

	for i := 0; i < 3; i++ {
		require.NoError(t, app.Driver.Tick())
	}
	assert.Equal(t, 3, target.Frames())
	assert.Equal(t, 24, target.Last().Bounds().Dx())
	assert.Equal(t, 16, target.Last().Bounds().Dy())
	assert.InDelta(t, 2.0/60, app.Materials["holo1"].Time(), 1e-12)
}

func TestAppIsDeterministic(t *testing.T) {
	render := func() []uint8 {
		target := NewImageTarget(0, 0)
		app, err := NewApp(smallConfig(t), target, NewStepClock(0.25), nil)
		require.NoError(t, err)
		require.NoError(t, app.Driver.WaitLoads(context.Background()))
		for i := 0; i < 2; i++ {
			require.NoError(t, app.Driver.Tick())
		}
		return target.Last().Pix
	}
	assert.Equal(t, render(), render())
}

func TestAppMissingModelKeepsRunning(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Model.Path = filepath.Join(t.TempDir(), "gone.glb")
	target := NewImageTarget(0, 0)

	app, err := NewApp(cfg, target, NewStepClock(0.1), nil)
	require.NoError(t, err)
	require.NoError(t, app.Driver.WaitLoads(context.Background()))
	assert.Empty(t, app.Scene.Models)
	assert.NoError(t, app.Driver.Tick())
	assert.Equal(t, 1, target.Frames())
}

func TestAppMissingSkyTextureKeepsSky(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Sky.Texture = filepath.Join(t.TempDir(), "background.jpg")

	app, err := NewApp(cfg, nil, NewStepClock(0.1), nil)
	require.NoError(t, err)
	require.NotNil(t, app.Sky)
	assert.Nil(t, app.Sky.Texture)
}

func TestAppLoadsSkyTextureFromURL(t *testing.T) {
	srv := textureServer(t, encodePNG(t, 8, 4, color.NRGBA{10, 20, 30, 255}))
	cfg := smallConfig(t)
	cfg.Sky.Texture = srv.URL + "/background.png"

	app, err := NewApp(cfg, nil, NewStepClock(0.1), nil)
	require.NoError(t, err)
	require.NotNil(t, app.Sky.Texture)
	tex := app.Sky.Texture.(*ImageTexture)
	assert.Equal(t, 8, tex.Width)
	assert.Equal(t, cfg.Sky.FlipY, tex.FlipY)
}

func TestAppWriteBaseFrame(t *testing.T) {
	target := NewImageTarget(0, 0)
	app, err := NewApp(smallConfig(t), target, NewStepClock(0.1), nil)
	require.NoError(t, err)
	require.NoError(t, app.Driver.WaitLoads(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, app.WriteBaseFrame(&buf))
	im, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 24, im.Bounds().Dx())
	assert.Equal(t, 16, im.Bounds().Dy())
	// the pipeline is bypassed
	assert.Zero(t, target.Frames())
}

func TestAppDebugConfigEnablesLogger(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Renderer.Debug = true
	logger := &recordingLogger{}

	_, err := NewApp(cfg, nil, NewStepClock(0.1), logger)
	require.NoError(t, err)
	assert.True(t, logger.DebugEnabled())
}

func TestAppRejectsUnknownEffect(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Effects = append(cfg.Effects, EffectConfig{Kind: "glitch"})
	_, err := NewApp(cfg, nil, nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedEffect)
}

func TestAppApplyOverride(t *testing.T) {
	app, err := NewApp(smallConfig(t), nil, NewStepClock(0.1), nil)
	require.NoError(t, err)

	require.NoError(t, app.ApplyOverride(Override{Material: "holo2", Param: ParamScanlineSize, Value: 4.0}))
	assert.Equal(t, 4.0, app.Materials["holo2"].Params().ScanlineSize)
	assert.Error(t, app.ApplyOverride(Override{Material: "holo9", Param: ParamScanlineSize, Value: 4.0}))
}
