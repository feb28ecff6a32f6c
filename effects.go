package holo

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/nfnt/resize"
)

// EffectKind tags the fixed set of effect stages.
type EffectKind string

const (
	KindDepthOfField       EffectKind = "depth_of_field"
	KindBloom              EffectKind = "bloom"
	KindBrightnessContrast EffectKind = "brightness_contrast"
	KindSMAA               EffectKind = "smaa"
	KindVignette           EffectKind = "vignette"
)

// Effect is one image-space stage. The set of implementations is closed:
// DepthOfField, Bloom, BrightnessContrast, SMAA and Vignette. Parameters are
// used as given, never clamped.
type Effect interface {
	Kind() EffectKind
	apply(f *Frame, cam *Camera)
}

// DepthOfField blurs pixels by their distance from the focus plane.
type DepthOfField struct {
	// FocusDistance is the focus plane as depth normalized by the far plane.
	FocusDistance float64
	// FocusRange is the normalized depth over which blur ramps to full.
	FocusRange float64
	// FocalLength is the older name for FocusRange, used when it is zero.
	FocalLength float64
	// BokehScale scales the blur radius.
	BokehScale float64
}

// bokehRadius converts BokehScale to a Gaussian radius in pixels.
const bokehRadius = 0.05

func NewDepthOfField() DepthOfField {
	return DepthOfField{FocusDistance: 0, FocusRange: 0.1, BokehScale: 1}
}

func (DepthOfField) Kind() EffectKind { return KindDepthOfField }

func (e DepthOfField) apply(f *Frame, cam *Camera) {
	focusRange := e.FocusRange
	if focusRange == 0 {
		focusRange = e.FocalLength
	}
	radius := e.BokehScale * bokehRadius
	if radius <= 0 {
		return
	}
	blurred := blur.Gaussian(f.Image, radius)
	out := image.NewRGBA(f.Image.Bounds())
	mixImages(out, f.Image, blurred, func(x, y int) float64 {
		d := f.DepthAt(x, y)
		if cam != nil {
			d = cam.LinearDepth(d)
		}
		if focusRange == 0 {
			return 1
		}
		return Clamp(math.Abs(d-e.FocusDistance)/focusRange, 0, 1)
	})
	f.Image = out
}

// Bloom extracts pixels above a luminance threshold, blurs them and adds
// them back.
type Bloom struct {
	LuminanceThreshold float64
	LuminanceSmoothing float64
	Intensity          float64
	// MipmapBlur blurs through a chain of half-size images, mixing each
	// level into the one above by Radius.
	MipmapBlur bool
	Radius     float64
	Levels     int
}

func NewBloom() Bloom {
	return Bloom{
		LuminanceThreshold: 0.9,
		LuminanceSmoothing: 0.025,
		Intensity:          1,
		Radius:             0.85,
		Levels:             8,
	}
}

func (Bloom) Kind() EffectKind { return KindBloom }

func (e Bloom) apply(f *Frame, _ *Camera) {
	lo := e.LuminanceThreshold
	hi := e.LuminanceThreshold + e.LuminanceSmoothing
	bright := adjust.Apply(f.Image, func(c color.RGBA) color.RGBA {
		k := Smoothstep(lo, hi, lumaRGBA(c))
		return color.RGBA{
			clamp8(float64(c.R) * k),
			clamp8(float64(c.G) * k),
			clamp8(float64(c.B) * k),
			clamp8(float64(c.A) * k),
		}
	})

	var glow *image.RGBA
	if e.MipmapBlur {
		glow = mipmapBlur(bright, e.Levels, e.Radius)
	} else {
		glow = blur.Gaussian(bright, math.Max(e.Radius, 0)*8)
	}

	intensity := e.Intensity
	glow = adjust.Apply(glow, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			clamp8(float64(c.R) * intensity),
			clamp8(float64(c.G) * intensity),
			clamp8(float64(c.B) * intensity),
			255,
		}
	})
	f.Image = blend.Add(f.Image, glow)
}

func mipmapBlur(src *image.RGBA, levels int, radius float64) *image.RGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	chain := []*image.RGBA{src}
	for i := 0; i < levels; i++ {
		w, h = w/2, h/2
		if w < 2 || h < 2 {
			break
		}
		prev := chain[len(chain)-1]
		down := clone.AsRGBA(resize.Resize(uint(w), uint(h), prev, resize.Bilinear))
		chain = append(chain, blur.Gaussian(down, 1))
	}

	acc := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		b := chain[i].Bounds()
		up := clone.AsRGBA(resize.Resize(uint(b.Dx()), uint(b.Dy()), acc, resize.Bilinear))
		next := image.NewRGBA(b)
		mixImages(next, chain[i], up, func(int, int) float64 { return radius })
		acc = next
	}
	return acc
}

// BrightnessContrast shifts brightness and contrast, each in [-1, 1].
type BrightnessContrast struct {
	Brightness float64
	Contrast   float64
}

func (BrightnessContrast) Kind() EffectKind { return KindBrightnessContrast }

func (e BrightnessContrast) apply(f *Frame, _ *Camera) {
	img := f.Image
	if e.Brightness != 0 {
		img = adjust.Brightness(img, e.Brightness)
	}
	if e.Contrast != 0 {
		img = adjust.Contrast(img, e.Contrast)
	}
	f.Image = img
}

// SMAAPreset selects the edge detection threshold.
type SMAAPreset int

const (
	SMAALow SMAAPreset = iota
	SMAAMedium
	SMAAHigh
	SMAAUltra
)

var smaaThresholds = map[SMAAPreset]float64{
	SMAALow:    0.15,
	SMAAMedium: 0.1,
	SMAAHigh:   0.1,
	SMAAUltra:  0.05,
}

// SMAA smooths aliased edges found by luma contrast against neighbours.
type SMAA struct {
	Preset SMAAPreset
}

func NewSMAA() SMAA {
	return SMAA{Preset: SMAAMedium}
}

func (SMAA) Kind() EffectKind { return KindSMAA }

func (e SMAA) apply(f *Frame, _ *Camera) {
	threshold, ok := smaaThresholds[e.Preset]
	if !ok {
		threshold = smaaThresholds[SMAAMedium]
	}
	src := f.Image
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	luma := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			luma[y*w+x] = lumaRGBA(rgbaAt(src, x, y))
		}
	}
	at := func(x, y int) float64 {
		return luma[ClampInt(y, 0, h-1)*w+ClampInt(x, 0, w-1)]
	}

	out := clone.AsRGBA(src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := at(x, y)
			horizontal := math.Max(math.Abs(l-at(x, y-1)), math.Abs(l-at(x, y+1)))
			vertical := math.Max(math.Abs(l-at(x-1, y)), math.Abs(l-at(x+1, y)))
			if horizontal < threshold && vertical < threshold {
				continue
			}
			// blend across the stronger edge
			var n1, n2 color.RGBA
			if horizontal >= vertical {
				n1, n2 = rgbaAt(src, x, y-1), rgbaAt(src, x, y+1)
			} else {
				n1, n2 = rgbaAt(src, x-1, y), rgbaAt(src, x+1, y)
			}
			c := rgbaAt(src, x, y)
			i := out.PixOffset(b.Min.X+x, b.Min.Y+y)
			out.Pix[i+0] = clamp8(float64(c.R)*0.5 + (float64(n1.R)+float64(n2.R))*0.25)
			out.Pix[i+1] = clamp8(float64(c.G)*0.5 + (float64(n1.G)+float64(n2.G))*0.25)
			out.Pix[i+2] = clamp8(float64(c.B)*0.5 + (float64(n1.B)+float64(n2.B))*0.25)
			out.Pix[i+3] = clamp8(float64(c.A)*0.5 + (float64(n1.A)+float64(n2.A))*0.25)
		}
	}
	f.Image = out
}

// Vignette darkens the image towards its corners.
type Vignette struct {
	Offset   float64
	Darkness float64
	// Eskil selects the alternative falloff that fades towards grey.
	Eskil bool
}

func NewVignette() Vignette {
	return Vignette{Offset: 0.5, Darkness: 0.5}
}

func (Vignette) Kind() EffectKind { return KindVignette }

func (e Vignette) apply(f *Frame, _ *Camera) {
	src := f.Image
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	out := image.NewRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			u := (float64(x) + 0.5) / w
			v := (float64(y) + 0.5) / h
			c := rgbaAt(src, x, y)
			rgb := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
			if e.Eskil {
				du, dv := (u-0.5)*e.Offset, (v-0.5)*e.Offset
				k := du*du + dv*dv
				target := (1 - e.Darkness) * float64(c.A)
				for j := range rgb {
					rgb[j] += (target - rgb[j]) * k
				}
			} else {
				dist := math.Hypot(u-0.5, v-0.5)
				k := Smoothstep(0.8, e.Offset*0.799, dist*(e.Darkness+e.Offset))
				for j := range rgb {
					rgb[j] *= k
				}
			}
			i := out.PixOffset(b.Min.X+x, b.Min.Y+y)
			out.Pix[i+0] = clamp8(rgb[0])
			out.Pix[i+1] = clamp8(rgb[1])
			out.Pix[i+2] = clamp8(rgb[2])
			out.Pix[i+3] = c.A
		}
	}
	f.Image = out
}

func (k EffectKind) String() string {
	return string(k)
}

func describeEffect(e Effect) string {
	if e == nil || isNilPointer(e) {
		return "<nil>"
	}
	return fmt.Sprintf("%s%+v", e.Kind(), e)
}
