package holo

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupportedEffect is returned when a pipeline is built with a stage
// this renderer cannot run.
var ErrUnsupportedEffect = errors.New("holo: unsupported effect")

// Target receives each finished frame.
type Target interface {
	Present(img *image.RGBA) error
}

// Composer renders the base scene and runs it through an ordered list of
// effects. The stage list is fixed at construction.
type Composer struct {
	renderer Renderer
	camera   *Camera
	target   Target
	effects  []Effect
	frame    *Frame
}

// NewComposer validates the stage list. A nil or foreign stage fails the
// whole pipeline; no partial pipeline is built.
func NewComposer(renderer Renderer, camera *Camera, target Target, effects ...Effect) (*Composer, error) {
	if renderer == nil {
		return nil, errors.New("holo: composer needs a renderer")
	}
	for i, e := range effects {
		if !supportedEffect(e) {
			return nil, fmt.Errorf("%w: stage %d is %s", ErrUnsupportedEffect, i, describeEffect(e))
		}
	}
	return &Composer{
		renderer: renderer,
		camera:   camera,
		target:   target,
		effects:  append([]Effect(nil), effects...),
		frame:    &Frame{},
	}, nil
}

func supportedEffect(e Effect) bool {
	switch e.(type) {
	case DepthOfField, Bloom, BrightnessContrast, SMAA, Vignette:
		return true
	case *DepthOfField, *Bloom, *BrightnessContrast, *SMAA, *Vignette:
		return e != nil && !isNilPointer(e)
	}
	return false
}

func isNilPointer(e Effect) bool {
	switch v := e.(type) {
	case *DepthOfField:
		return v == nil
	case *Bloom:
		return v == nil
	case *BrightnessContrast:
		return v == nil
	case *SMAA:
		return v == nil
	case *Vignette:
		return v == nil
	}
	return false
}

// Effects returns the stages in execution order.
func (c *Composer) Effects() []Effect {
	return append([]Effect(nil), c.effects...)
}

// RenderFrame runs the base pass and every stage in order, each consuming
// the previous output, and presents the result.
func (c *Composer) RenderFrame() error {
	c.renderer.Render(c.frame)
	for _, e := range c.effects {
		e.apply(c.frame, c.camera)
	}
	if c.target == nil {
		return nil
	}
	if err := c.target.Present(c.frame.Image); err != nil {
		return fmt.Errorf("holo: present frame: %w", err)
	}
	return nil
}

// Frame is the last composited frame.
func (c *Composer) Frame() *Frame {
	return c.frame
}
