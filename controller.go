package flurry

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/hajimehoshi/ebiten/v2"
)

// Controller owns a snowfall animation over one drawing surface: the
// snowflake population, the frame clock, the tick loop, the accumulated
// ground layer, and click interaction. All state is mutated synchronously
// inside tick callbacks delivered by the Scheduler; a Controller must be
// driven from a single goroutine.
type Controller struct {
	cfg     CanvasConfig
	surface *ebiten.Image
	width   float64
	height  float64
	// display is the surface's on-screen bounds when it is shown scaled.
	// Zero means clicks map 1:1.
	display Rect

	flakes []*Snowflake
	ground *groundLayer
	rng    *rand.Rand
	noise  *perlin.Perlin

	sched      Scheduler
	cancelTick func()
	paused     bool
	destroyed  bool
	lastTick   time.Time
	now        func() time.Time

	fps fpsCounter
}

// NewController creates a snowfall animation over the given surface and
// starts it: the returned Controller is playing with its first tick already
// scheduled. cfg may be nil for the defaults.
func NewController(surface *ebiten.Image, cfg *CanvasConfig, sched Scheduler) (*Controller, error) {
	if surface == nil {
		return nil, errors.New("flurry: nil drawing surface")
	}
	if sched == nil {
		return nil, errors.New("flurry: nil scheduler")
	}
	eff := DefaultCanvasConfig()
	if cfg != nil {
		eff = cfg.withDefaults()
	}

	b := surface.Bounds()
	c := &Controller{
		cfg:     eff,
		surface: surface,
		width:   float64(b.Dx()),
		height:  float64(b.Dy()),
		sched:   sched,
		now:     time.Now,
	}

	seed := eff.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	if eff.Turbulence != 0 {
		c.noise = perlin.NewPerlin(2, 2, 1, int64(seed))
	}
	c.ground = newGroundLayer(c.rng, eff.Color)
	c.rebuildFlakes()

	c.lastTick = c.now()
	c.schedule()
	return c, nil
}

// rebuildFlakes replaces the whole population at the configured count.
func (c *Controller) rebuildFlakes() {
	c.flakes = make([]*Snowflake, 0, c.cfg.SnowflakeCount)
	for i := 0; i < c.cfg.SnowflakeCount; i++ {
		c.flakes = append(c.flakes, NewSnowflake(&c.cfg.Config, c.rng, c.noise, c.width, c.height))
	}
}

func (c *Controller) schedule() {
	c.cancelTick = c.sched.RequestFrame(c.tick)
}

// tick runs one frame: elapsed time is converted to frame units so motion
// per real second is the same regardless of the achieved callback rate.
func (c *Controller) tick(now time.Time) {
	c.cancelTick = nil
	elapsed := now.Sub(c.lastTick)
	c.lastTick = now
	frameUnits := elapsed.Seconds() * framesPerSecond

	if c.cfg.ShowFPS {
		c.fps.tick(now)
	}
	c.step(frameUnits)
	c.render()

	if !c.paused {
		c.schedule()
	}
}

// step advances every live snowflake and, with accumulation on, freezes the
// ones that reached the ground top, grows the layer, and recycles them so
// the falling population keeps its size.
func (c *Controller) step(frameUnits float64) {
	maxGround := c.cfg.MaxAccumulation * c.height
	for _, s := range c.flakes {
		if s.accumulated {
			continue
		}
		due := s.Advance(c.width, c.height, frameUnits, c.ground.height)
		if due && c.cfg.Accumulate {
			s.MarkAsAccumulated(c.height - c.ground.height)
			c.ground.grow(c.cfg.AccumulationRate, maxGround)
			s.Reset(c.width, c.height)
		}
	}
}

// render clears the surface and repaints the ground layer, the falling
// snowflakes in collection order, and the FPS readout.
func (c *Controller) render() {
	c.surface.Clear()
	if c.cfg.Accumulate {
		c.ground.draw(c.surface, c.width, c.height)
	}
	for _, s := range c.flakes {
		if s.accumulated {
			continue
		}
		s.Draw(c.surface)
	}
	if c.cfg.ShowFPS {
		c.fps.draw(c.surface)
	}
}

// Pause stops the animation and cancels the pending tick. No-op when
// already paused.
func (c *Controller) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
}

// Play resumes a paused animation. The elapsed-time baseline resets to now
// so the pause does not replay as one giant frame. No-op when already
// playing or destroyed.
func (c *Controller) Play() {
	if c.destroyed || !c.paused {
		return
	}
	c.paused = false
	c.lastTick = c.now()
	c.schedule()
}

// Paused reports whether the animation is paused.
func (c *Controller) Paused() bool {
	return c.paused
}

// Destroy stops the animation and releases the population. The Controller
// must not be used afterward.
func (c *Controller) Destroy() {
	c.Pause()
	c.destroyed = true
	c.flakes = nil
}

// Resize informs the controller of a new surface size and swaps in a fresh
// backing image. Snowflake positions are not touched (out-of-bounds flakes
// correct themselves on their next wrap check) and the ground height keeps
// its absolute pixel value even if that transiently exceeds the configured
// cap fraction at the new size.
func (c *Controller) Resize(width, height int) {
	if c.destroyed || width <= 0 || height <= 0 {
		return
	}
	if float64(width) == c.width && float64(height) == c.height {
		return
	}
	c.width = float64(width)
	c.height = float64(height)
	c.surface = ebiten.NewImage(width, height)
}

// UpdateConfig swaps in a new configuration: the ground layer resets and
// the population is rebuilt from scratch at the new count and ranges.
// Existing snowflake state is not preserved. cfg may be nil for defaults.
func (c *Controller) UpdateConfig(cfg *CanvasConfig) {
	if c.destroyed {
		return
	}
	eff := DefaultCanvasConfig()
	if cfg != nil {
		eff = cfg.withDefaults()
	}
	c.cfg = eff
	switch {
	case eff.Turbulence == 0:
		c.noise = nil
	case c.noise == nil:
		c.noise = perlin.NewPerlin(2, 2, 1, int64(c.rng.Uint64()))
	}
	c.ground = newGroundLayer(c.rng, eff.Color)
	c.rebuildFlakes()
}

// SetDisplayBounds tells the controller where the surface appears on
// screen, so Click can compensate when the surface is shown scaled.
func (c *Controller) SetDisplayBounds(r Rect) {
	c.display = r
}

// Click maps a display-space point onto the surface and removes the
// topmost-drawn snowflake under it, if any. At most one snowflake is
// removed per call; removal is stable so draw order is preserved. Reports
// whether a snowflake was removed. No-op unless ClickToRemove is set.
func (c *Controller) Click(x, y float64) bool {
	if c.destroyed || !c.cfg.ClickToRemove {
		return false
	}
	if c.display.Width > 0 && c.display.Height > 0 {
		x = (x - c.display.X) * c.width / c.display.Width
		y = (y - c.display.Y) * c.height / c.display.Height
	}
	// Scan back to front: the last drawn flake is on top.
	for i := len(c.flakes) - 1; i >= 0; i-- {
		if c.flakes[i].ContainsPoint(x, y) {
			c.flakes = append(c.flakes[:i], c.flakes[i+1:]...)
			return true
		}
	}
	return false
}

// Surface returns the backing image the animation renders into. Hosts
// composite it however they like; Resize replaces it.
func (c *Controller) Surface() *ebiten.Image {
	return c.surface
}

// FlakeCount returns the current size of the snowflake population.
func (c *Controller) FlakeCount() int {
	return len(c.flakes)
}

// GroundHeight returns the accumulated layer height in pixels.
func (c *Controller) GroundHeight() float64 {
	return c.ground.height
}
