package holo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Ensure decoders are present
	_ "image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"
)

type Texture interface {
	Sample(u, v float64) Color
	BilinearSample(u, v float64) Color
}

type ImageTexture struct {
	Width  int
	Height int
	Image  image.Image
	// FlipY samples v from the bottom of the image, the usual UV convention.
	FlipY bool
}

func NewImageTexture(im image.Image) *ImageTexture {
	return &ImageTexture{
		Width:  im.Bounds().Dx(),
		Height: im.Bounds().Dy(),
		Image:  im,
		FlipY:  true,
	}
}

func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	im, _, err := image.Decode(file)
	return im, err
}

// LoadTexture reads a texture from disk, or over HTTP when path is an
// http(s) URL.
func LoadTexture(path string) (*ImageTexture, error) {
	if u, err := url.Parse(path); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return LoadTextureFromURL(path)
	}
	im, err := LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("holo: load texture %s: %w", path, err)
	}
	return NewImageTexture(im), nil
}

func LoadTextureFromURL(url string) (*ImageTexture, error) {
	client := http.Client{
		Timeout: 10 * time.Second, // Prevent hanging
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("holo: fetch texture %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holo: fetch texture %s: status %s", url, resp.Status)
	}
	return TexFromReader(resp.Body)
}

func TexFromBytes(data []byte) (*ImageTexture, error) {
	return TexFromReader(bytes.NewReader(data))
}

func TexFromReader(r io.Reader) (*ImageTexture, error) {
	im, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("holo: decode texture: %w", err)
	}
	return NewImageTexture(im), nil
}

func (t *ImageTexture) coords(u, v float64) (float64, float64) {
	// Wrap coords
	u = Fract(u)
	v = Fract(v)
	if t.FlipY {
		v = 1 - v
	}
	return u * float64(t.Width), v * float64(t.Height)
}

func (t *ImageTexture) at(x, y int) Color {
	x = ClampInt(x, 0, t.Width-1)
	y = ClampInt(y, 0, t.Height-1)
	b := t.Image.Bounds()
	return MakeColor(t.Image.At(b.Min.X+x, b.Min.Y+y))
}

func (t *ImageTexture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Transparent
	}
	x, y := t.coords(u, v)
	return t.at(int(x), int(y))
}

func (t *ImageTexture) BilinearSample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Transparent
	}
	x, y := t.coords(u, v)
	x -= 0.5
	y -= 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)
	c00 := t.at(ix, iy)
	c10 := t.at(ix+1, iy)
	c01 := t.at(ix, iy+1)
	c11 := t.at(ix+1, iy+1)
	top := c00.Lerp(c10, fx)
	bottom := c01.Lerp(c11, fx)
	return top.Lerp(bottom, fy)
}
