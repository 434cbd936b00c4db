package flurry

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable makes the window resizable; the snow surface follows the
	// window size.
	Resizable bool
	// Snow configures the animation. Nil uses the defaults.
	Snow *CanvasConfig
	// OnUpdate, when set, runs once per frame after the snow tick, with
	// the Controller. Returning an error stops Run with that error.
	OnUpdate func(c *Controller) error
}

// game adapts a Controller to the ebiten game loop: each Update fires the
// controller's pending scheduled tick and forwards clicks, each Draw blits
// the controller's surface to the screen.
type game struct {
	ctrl     *Controller
	sched    *ManualScheduler
	onUpdate func(c *Controller) error
	w, h     int
}

func (g *game) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.ctrl.Click(float64(mx), float64(my))
	}
	g.sched.Fire(time.Now())
	if g.onUpdate != nil {
		return g.onUpdate(g.ctrl)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.ctrl.Surface(), nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.ctrl.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs a snowfall animation in it until the window
// closes. It blocks for the duration. For full control over the loop and
// compositing, construct a Controller directly instead and drive a
// ManualScheduler from your own ebiten.Game.
func Run(cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "Flurry"
	}
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	sched := &ManualScheduler{}
	surface := ebiten.NewImage(cfg.Width, cfg.Height)
	ctrl, err := NewController(surface, cfg.Snow, sched)
	if err != nil {
		return err
	}
	defer ctrl.Destroy()

	return ebiten.RunGame(&game{
		ctrl:     ctrl,
		sched:    sched,
		onUpdate: cfg.OnUpdate,
		w:        cfg.Width,
		h:        cfg.Height,
	})
}
