package holo

import (
	"image"
	"image/color"
	"math"
)

// Frame is the image travelling down the effect pipeline together with the
// depth buffer of the scene pass. Depth values are in [0,1], 1 meaning empty.
type Frame struct {
	Image *image.RGBA
	Depth []float64
}

func NewFrame(width, height int) *Frame {
	depth := make([]float64, width*height)
	for i := range depth {
		depth[i] = 1
	}
	return &Frame{
		Image: image.NewRGBA(image.Rect(0, 0, width, height)),
		Depth: depth,
	}
}

func (f *Frame) Width() int {
	return f.Image.Bounds().Dx()
}

func (f *Frame) Height() int {
	return f.Image.Bounds().Dy()
}

// DepthAt returns the depth at x, y, clamping to the frame.
func (f *Frame) DepthAt(x, y int) float64 {
	w, h := f.Width(), f.Height()
	if len(f.Depth) != w*h {
		return 1
	}
	return f.Depth[ClampInt(y, 0, h-1)*w+ClampInt(x, 0, w-1)]
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	b := img.Bounds()
	x = ClampInt(x, 0, b.Dx()-1)
	y = ClampInt(y, 0, b.Dy()-1)
	i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := img.Pix[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}

func lumaRGBA(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func clamp8(v float64) uint8 {
	return uint8(Clamp(math.Round(v), 0, 255))
}

// mixImages writes a + (b - a) * t(x, y) into dst; all three share bounds.
func mixImages(dst, a, b *image.RGBA, t func(x, y int) float64) {
	bounds := dst.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			k := t(x, y)
			ca := rgbaAt(a, x, y)
			cb := rgbaAt(b, x, y)
			i := dst.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			dst.Pix[i+0] = clamp8(float64(ca.R) + (float64(cb.R)-float64(ca.R))*k)
			dst.Pix[i+1] = clamp8(float64(ca.G) + (float64(cb.G)-float64(ca.G))*k)
			dst.Pix[i+2] = clamp8(float64(ca.B) + (float64(cb.B)-float64(ca.B))*k)
			dst.Pix[i+3] = clamp8(float64(ca.A) + (float64(cb.A)-float64(ca.A))*k)
		}
	}
}
