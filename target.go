package holo

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/draw"
)

// ImageTarget keeps the latest frame in memory, scaled to the viewport
// when the framebuffer is smaller (pixel ratio below 1).
type ImageTarget struct {
	mu     sync.Mutex
	width  int
	height int
	last   *image.RGBA
	frames int
}

func NewImageTarget(width, height int) *ImageTarget {
	return &ImageTarget{width: width, height: height}
}

// SetSize changes the presentation size; zero keeps the frame size.
func (t *ImageTarget) SetSize(width, height int) {
	t.mu.Lock()
	t.width, t.height = width, height
	t.mu.Unlock()
}

func (t *ImageTarget) Present(img *image.RGBA) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := img.Bounds()
	w, h := t.width, t.height
	if w <= 0 || h <= 0 {
		w, h = b.Dx(), b.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	t.last = dst
	t.frames++
	return nil
}

// Last returns the most recent presented frame, or nil.
func (t *ImageTarget) Last() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Frames counts presented frames.
func (t *ImageTarget) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// PNGTarget writes every frame to Dir using Pattern, which receives the
// frame number.
type PNGTarget struct {
	Dir     string
	Pattern string
	next    int
}

func NewPNGTarget(dir string) *PNGTarget {
	return &PNGTarget{Dir: dir, Pattern: "frame-%04d.png"}
}

func (t *PNGTarget) Present(img *image.RGBA) error {
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(t.Dir, fmt.Sprintf(t.Pattern, t.next))
	t.next++
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
