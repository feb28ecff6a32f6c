package holo

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the process-wide elapsed time, one reading per frame.
type Clock interface {
	Tick() float64
}

// RealClock reads wall time since construction.
type RealClock struct {
	start time.Time
}

func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

func (c *RealClock) Tick() float64 {
	return time.Since(c.start).Seconds()
}

// StepClock advances by a fixed step per frame, starting at zero. Used for
// offline rendering and tests.
type StepClock struct {
	Step    float64
	elapsed float64
}

func NewStepClock(step float64) *StepClock {
	return &StepClock{Step: step}
}

func (c *StepClock) Tick() float64 {
	t := c.elapsed
	c.elapsed += c.Step
	return t
}

// Scheduler waits for the host's next frame slot.
type Scheduler interface {
	Next(ctx context.Context) error
}

// TickerScheduler paces frames at a fixed rate.
type TickerScheduler struct {
	ticker *time.Ticker
}

func NewTickerScheduler(fps float64) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Duration(float64(time.Second) / fps))}
}

func (s *TickerScheduler) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.ticker.Stop()
		return ctx.Err()
	case <-s.ticker.C:
		return nil
	}
}

// Event is a message for the driver, applied at the start of the next tick.
type Event interface {
	event()
}

// ParamUpdate sets one parameter of the material with the given ID.
type ParamUpdate struct {
	Material uuid.UUID
	Param    Param
	Value    any
}

// Resize reports a new viewport size and device pixel ratio.
type Resize struct {
	Width      int
	Height     int
	PixelRatio float64
}

// OrbitInput carries camera control input gathered since the last frame.
type OrbitInput struct {
	Azimuth float64
	Polar   float64
	Dolly   float64
}

func (ParamUpdate) event() {}
func (Resize) event()      {}
func (OrbitInput) event()  {}

// EventSink accepts driver events from any goroutine.
type EventSink interface {
	Post(e Event)
}

// Animation is a scripted per-frame scene mutation.
type Animation func(elapsed float64)

// Bob moves a model vertically as base + amplitude*sin(elapsed).
func Bob(m *Model, baseY, amplitude float64) Animation {
	return func(elapsed float64) {
		m.Position.Y = baseY + amplitude*math.Sin(elapsed)
	}
}

type DriverState int

const (
	DriverIdle DriverState = iota
	DriverRunning
)

func (s DriverState) String() string {
	if s == DriverRunning {
		return "running"
	}
	return "idle"
}

// Driver runs the frame loop. Everything except Post runs on the goroutine
// calling Tick or Run.
type Driver struct {
	Scene     *Scene
	Controls  *OrbitControls
	Composer  *Composer
	Clock     Clock
	Scheduler Scheduler
	Logger    Logger

	materials  []*HolographicMaterial
	byID       map[uuid.UUID]*HolographicMaterial
	animations []Animation
	loads      []*pendingLoad

	mu    sync.Mutex
	inbox []Event

	state   DriverState
	frames  int
	elapsed float64
}

func NewDriver(scene *Scene, controls *OrbitControls, composer *Composer, clock Clock, logger Logger) *Driver {
	if clock == nil {
		clock = NewRealClock()
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Driver{
		Scene:    scene,
		Controls: controls,
		Composer: composer,
		Clock:    clock,
		Logger:   logger,
		byID:     make(map[uuid.UUID]*HolographicMaterial),
	}
}

// AddMaterial registers a material to be advanced every frame and to
// receive parameter updates addressed to its ID.
func (d *Driver) AddMaterial(m *HolographicMaterial) {
	if _, ok := d.byID[m.ID]; ok {
		return
	}
	d.materials = append(d.materials, m)
	d.byID[m.ID] = m
}

func (d *Driver) Material(id uuid.UUID) *HolographicMaterial {
	return d.byID[id]
}

func (d *Driver) AddAnimation(a Animation) {
	d.animations = append(d.animations, a)
}

// Post queues an event for the next tick. Safe for concurrent use.
func (d *Driver) Post(e Event) {
	d.mu.Lock()
	d.inbox = append(d.inbox, e)
	d.mu.Unlock()
}

func (d *Driver) State() DriverState {
	return d.state
}

func (d *Driver) Frames() int {
	return d.frames
}

// Elapsed is the clock reading of the latest frame.
func (d *Driver) Elapsed() float64 {
	return d.elapsed
}

// Tick runs one whole frame. A present error is returned after the frame
// has otherwise completed.
func (d *Driver) Tick() error {
	d.state = DriverRunning

	d.drain()
	d.pollLoads()

	if d.Controls != nil {
		d.Controls.Update()
	}

	t := d.Clock.Tick()
	d.elapsed = t
	for _, m := range d.materials {
		m.Advance(t)
	}

	var err error
	if d.Composer != nil {
		if d.Logger.DebugEnabled() {
			start := time.Now()
			err = d.Composer.RenderFrame()
			d.Logger.Debugf("frame %d t=%.3f rendered in %s", d.frames, t, time.Since(start))
		} else {
			err = d.Composer.RenderFrame()
		}
	}

	for _, a := range d.animations {
		a(t)
	}
	d.frames++
	return err
}

// Run ticks until ctx is cancelled, pacing frames with the Scheduler.
func (d *Driver) Run(ctx context.Context) error {
	if d.Scheduler == nil {
		d.Scheduler = NewTickerScheduler(60)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Tick(); err != nil {
			d.Logger.Warnf("frame %d: %v", d.frames, err)
		}
		if err := d.Scheduler.Next(ctx); err != nil {
			return err
		}
	}
}

func (d *Driver) drain() {
	d.mu.Lock()
	events := d.inbox
	d.inbox = nil
	d.mu.Unlock()

	for _, e := range events {
		switch ev := e.(type) {
		case ParamUpdate:
			m := d.byID[ev.Material]
			if m == nil {
				d.Logger.Warnf("parameter update for unknown material %s", ev.Material)
				continue
			}
			if _, err := m.SetParameter(ev.Param, ev.Value); err != nil {
				d.Logger.Warnf("material %s: %v", m.Name, err)
			}
		case Resize:
			if d.Scene != nil {
				d.Scene.Resize(ev.Width, ev.Height, ev.PixelRatio)
			}
			if d.Composer != nil {
				if s, ok := d.Composer.target.(interface{ SetSize(int, int) }); ok {
					s.SetSize(ev.Width, ev.Height)
				}
			}
			d.Logger.Debugf("resized to %dx%d", ev.Width, ev.Height)
		case OrbitInput:
			if d.Controls != nil {
				d.Controls.Rotate(ev.Azimuth, ev.Polar)
				if ev.Dolly != 0 {
					d.Controls.Dolly(ev.Dolly)
				}
			}
		}
	}
}
