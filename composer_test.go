package holo

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patternRenderer draws a fixed gradient with a bright square in the middle.
type patternRenderer struct {
	width, height int
	calls         int
}

func (r *patternRenderer) Render(f *Frame) {
	r.calls++
	*f = *NewFrame(r.width, r.height)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := color.RGBA{uint8(x * 255 / r.width), uint8(y * 255 / r.height), 90, 255}
			if x > r.width/3 && x < 2*r.width/3 && y > r.height/3 && y < 2*r.height/3 {
				c = color.RGBA{250, 250, 250, 255}
			}
			f.Image.SetRGBA(x, y, c)
			f.Depth[y*r.width+x] = float64(x) / float64(r.width)
		}
	}
}

type failingTarget struct{}

var errPresent = errors.New("display gone")

func (failingTarget) Present(*image.RGBA) error { return errPresent }

type foreignEffect struct{}

func (foreignEffect) Kind() EffectKind      { return "glitch" }
func (foreignEffect) apply(*Frame, *Camera) {}

func testCamera() *Camera {
	return NewCamera(35, 1, 0.1, 1000)
}

func composite(t *testing.T, effects ...Effect) *image.RGBA {
	t.Helper()
	target := NewImageTarget(0, 0)
	c, err := NewComposer(&patternRenderer{width: 48, height: 32}, testCamera(), target, effects...)
	require.NoError(t, err)
	require.NoError(t, c.RenderFrame())
	return target.Last()
}

func TestComposerNoEffectsPassesThrough(t *testing.T) {
	r := &patternRenderer{width: 48, height: 32}
	want := &Frame{}
	r.Render(want)

	got := composite(t)
	assert.Equal(t, want.Image.Pix, got.Pix)
}

func TestComposerIsDeterministic(t *testing.T) {
	stages := func() []Effect {
		return []Effect{
			Bloom{LuminanceThreshold: 0.6, Intensity: 1.2, MipmapBlur: true, Radius: 0.8, Levels: 8},
			Bloom{LuminanceThreshold: 0.2, Intensity: 0.6, MipmapBlur: true, Radius: 1, Levels: 8},
			Vignette{Offset: 0.5, Darkness: 0.7},
		}
	}
	a := composite(t, stages()...)
	b := composite(t, stages()...)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestComposerStageOrderMatters(t *testing.T) {
	bright := BrightnessContrast{Brightness: 0.5}
	vignette := Vignette{Offset: 0.5, Darkness: 0.7}

	a := composite(t, bright, vignette)
	b := composite(t, vignette, bright)
	assert.NotEqual(t, a.Pix, b.Pix)
}

func TestComposerRejectsBadStages(t *testing.T) {
	r := &patternRenderer{width: 8, height: 8}

	_, err := NewComposer(r, testCamera(), nil, NewBloom(), nil)
	assert.ErrorIs(t, err, ErrUnsupportedEffect)

	var missing *Bloom
	_, err = NewComposer(r, testCamera(), nil, missing)
	assert.ErrorIs(t, err, ErrUnsupportedEffect)

	_, err = NewComposer(r, testCamera(), nil, foreignEffect{})
	assert.ErrorIs(t, err, ErrUnsupportedEffect)

	_, err = NewComposer(nil, testCamera(), nil)
	assert.Error(t, err)
}

func TestComposerAcceptsPointerStages(t *testing.T) {
	v := NewVignette()
	c, err := NewComposer(&patternRenderer{width: 8, height: 8}, testCamera(), nil, &v)
	require.NoError(t, err)
	assert.Len(t, c.Effects(), 1)
	assert.NoError(t, c.RenderFrame())
}

func TestComposerKeepsStageParameters(t *testing.T) {
	wild := Bloom{LuminanceThreshold: -4, Intensity: 50, Radius: 3}
	c, err := NewComposer(&patternRenderer{width: 8, height: 8}, testCamera(), nil, wild)
	require.NoError(t, err)
	assert.Equal(t, []Effect{wild}, c.Effects())
}

func TestComposerWrapsPresentError(t *testing.T) {
	c, err := NewComposer(&patternRenderer{width: 8, height: 8}, testCamera(), failingTarget{})
	require.NoError(t, err)
	err = c.RenderFrame()
	assert.ErrorIs(t, err, errPresent)
}

func TestComposerRendersOncePerFrame(t *testing.T) {
	r := &patternRenderer{width: 8, height: 8}
	c, err := NewComposer(r, testCamera(), nil, NewSMAA(), NewVignette())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.RenderFrame())
	}
	assert.Equal(t, 3, r.calls)
}

func TestBloomBrightensAroundHighlights(t *testing.T) {
	base := composite(t)
	bloomed := composite(t, Bloom{LuminanceThreshold: 0.6, Intensity: 1.2, MipmapBlur: true, Radius: 0.8, Levels: 8})

	// just outside the bright square
	x, y := 48/3-1, 32/2
	assert.Greater(t, rgbaAt(bloomed, x, y).R, rgbaAt(base, x, y).R)
}

func TestVignetteDarkensCorners(t *testing.T) {
	base := composite(t)
	out := composite(t, Vignette{Offset: 0.5, Darkness: 0.7})

	assert.Less(t, rgbaAt(out, 0, 31).B, rgbaAt(base, 0, 31).B)
	assert.Equal(t, rgbaAt(base, 24, 16), rgbaAt(out, 24, 16))
}

func TestDepthOfFieldKeepsFocusPlaneSharp(t *testing.T) {
	base := composite(t)
	// depth grows with x; the focus plane sits at the left edge
	out := composite(t, DepthOfField{FocusDistance: 0, FocusRange: 0.5, BokehScale: 80})
	assert.Equal(t, rgbaAt(base, 0, 5), rgbaAt(out, 0, 5))
}

func TestSMAASmoothsHardEdges(t *testing.T) {
	base := composite(t)
	out := composite(t, SMAA{Preset: SMAAHigh})

	// left edge of the bright square
	x, y := 48/3+1, 32/2
	assert.Less(t, rgbaAt(out, x, y).R, rgbaAt(base, x, y).R)
}
