package holo

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// Color is a linear, non-premultiplied RGBA colour. Channels may exceed 1
// until they are written to a buffer.
type Color struct {
	R, G, B, A float64
}

// ParseHexColor accepts "#rrggbb", "rrggbb", "#rgb" and "rgb".
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("holo: parse colour %q: %w", s, err)
	}
	return Color{c.R, c.G, c.B, 1}, nil
}

// HexColor is ParseHexColor for literals; an invalid string yields Black.
func HexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		return Black
	}
	return c
}

func MakeColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	const d = 0xffff
	if a == 0 {
		return Transparent
	}
	// RGBA() is premultiplied
	fa := float64(a)
	return Color{float64(r) / fa, float64(g) / fa, float64(b) / fa, fa / d}
}

// Hex formats the colour as "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	cc := c.Clamp()
	return colorful.Color{R: cc.R, G: cc.G, B: cc.B}.Hex()
}

func (c Color) NRGBA() color.NRGBA {
	const d = 0xff
	r := Clamp(c.R, 0, 1)
	g := Clamp(c.G, 0, 1)
	b := Clamp(c.B, 0, 1)
	a := Clamp(c.A, 0, 1)
	return color.NRGBA{
		uint8(math.Round(r * d)),
		uint8(math.Round(g * d)),
		uint8(math.Round(b * d)),
		uint8(math.Round(a * d)),
	}
}

func (c Color) Clamp() Color {
	return Color{Clamp(c.R, 0, 1), Clamp(c.G, 0, 1), Clamp(c.B, 0, 1), Clamp(c.A, 0, 1)}
}

func (c Color) Opaque() bool {
	return c.A >= 1
}

func (c Color) Alpha(a float64) Color {
	return Color{c.R, c.G, c.B, a}
}

func (a Color) Add(b Color) Color {
	return Color{a.R + b.R, a.G + b.G, a.B + b.B, a.A + b.A}
}

// AddScalar adds b to the colour channels, leaving alpha.
func (a Color) AddScalar(b float64) Color {
	return Color{a.R + b, a.G + b, a.B + b, a.A}
}

func (a Color) Sub(b Color) Color {
	return Color{a.R - b.R, a.G - b.G, a.B - b.B, a.A - b.A}
}

func (a Color) Mul(b Color) Color {
	return Color{a.R * b.R, a.G * b.G, a.B * b.B, a.A * b.A}
}

// MulScalar scales the colour channels, leaving alpha.
func (a Color) MulScalar(b float64) Color {
	return Color{a.R * b, a.G * b, a.B * b, a.A}
}

func (a Color) DivScalar(b float64) Color {
	return Color{a.R / b, a.G / b, a.B / b, a.A / b}
}

func (a Color) Min(b Color) Color {
	return Color{math.Min(a.R, b.R), math.Min(a.G, b.G), math.Min(a.B, b.B), math.Min(a.A, b.A)}
}

func (a Color) Max(b Color) Color {
	return Color{math.Max(a.R, b.R), math.Max(a.G, b.G), math.Max(a.B, b.B), math.Max(a.A, b.A)}
}

func (a Color) Lerp(b Color, t float64) Color {
	return a.Add(b.Sub(a).scale(t))
}

// Luminance is the Rec. 709 luma of the colour channels.
func (a Color) Luminance() float64 {
	return 0.2126*a.R + 0.7152*a.G + 0.0722*a.B
}

func (a Color) scale(t float64) Color {
	return Color{a.R * t, a.G * t, a.B * t, a.A * t}
}

func InterpolateColors(c1, c2, c3 Color, b VectorW) Color {
	n := Color{}
	n = n.Add(c1.scale(b.X * b.W))
	n = n.Add(c2.scale(b.Y * b.W))
	n = n.Add(c3.scale(b.Z * b.W))
	return n
}
