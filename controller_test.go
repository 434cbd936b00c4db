package flurry

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// newTestController builds a controller over a fresh surface with a manual
// scheduler and a deterministic seed.
func newTestController(t *testing.T, w, h int, cfg CanvasConfig) (*Controller, *ManualScheduler) {
	t.Helper()
	cfg.Seed = 1
	sched := &ManualScheduler{}
	ctrl, err := NewController(ebiten.NewImage(w, h), &cfg, sched)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl, sched
}

func TestNewControllerNilSurface(t *testing.T) {
	if _, err := NewController(nil, nil, &ManualScheduler{}); err == nil {
		t.Fatal("expected error for nil surface")
	}
}

func TestNewControllerNilScheduler(t *testing.T) {
	if _, err := NewController(ebiten.NewImage(10, 10), nil, nil); err == nil {
		t.Fatal("expected error for nil scheduler")
	}
}

func TestControllerStartsPlaying(t *testing.T) {
	ctrl, sched := newTestController(t, 100, 100, CanvasConfig{})
	if ctrl.Paused() {
		t.Error("controller should start playing")
	}
	if !sched.Pending() {
		t.Error("first tick should be scheduled at construction")
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	ctrl, sched := newTestController(t, 100, 100, CanvasConfig{})

	ctrl.Pause()
	if sched.Pending() {
		t.Error("pause should cancel the pending tick")
	}
	ctrl.Pause() // second pause must be a harmless no-op
	if !ctrl.Paused() {
		t.Error("controller should stay paused")
	}

	// A stale tick must not fire after pause.
	sched.Fire(time.Now())
}

func TestPlayDoesNotDoubleSchedule(t *testing.T) {
	ctrl, sched := newTestController(t, 100, 100, CanvasConfig{})

	ctrl.Pause()
	ctrl.Play()
	if !sched.Pending() {
		t.Fatal("play should schedule a tick")
	}
	ctrl.Play() // already playing: no-op

	// Exactly one tick fires, and it reschedules exactly one more.
	sched.Fire(time.Now())
	if !sched.Pending() {
		t.Error("tick should reschedule itself while playing")
	}
}

func TestPlayResetsElapsedBaseline(t *testing.T) {
	ctrl, _ := newTestController(t, 100, 100, CanvasConfig{})
	ctrl.Pause()

	resume := time.Now().Add(time.Hour)
	ctrl.now = func() time.Time { return resume }
	ctrl.Play()
	if !ctrl.lastTick.Equal(resume) {
		t.Error("play should reset the elapsed-time baseline to now")
	}
}

func TestTickAdvancesSingleFlake(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	cfg.Speed = Range{2, 2}
	cfg.Wind = Range{0.1, 0.1}
	cfg.ChangeFrequency = 1e6
	ctrl, sched := newTestController(t, 42, 42, cfg)

	flake := ctrl.flakes[0]
	y0 := flake.y
	t0 := time.Now()
	ctrl.lastTick = t0

	sched.Fire(t0.Add(100 * time.Millisecond)) // 6 frame units
	assertNear(t, "y displacement", flake.y-y0, 2*6)
	if flake.y > 42 {
		t.Errorf("y = %v, outside wrap bounds", flake.y)
	}
	if !sched.Pending() {
		t.Error("tick should reschedule")
	}
}

func TestAccumulationSaturatesAtCap(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	cfg.Accumulate = true
	cfg.MaxAccumulation = 0.2 // 20 px on a 100 px surface
	cfg.AccumulationRate = 5
	cfg.Radius = Range{2, 2}
	cfg.Speed = Range{1, 1}
	ctrl, _ := newTestController(t, 100, 100, cfg)

	for i := 0; i < 2000; i++ {
		ctrl.step(1)
		if got := ctrl.GroundHeight(); got > 20 {
			t.Fatalf("ground height = %v, exceeds cap 20", got)
		}
	}
	assertNear(t, "saturated ground height", ctrl.GroundHeight(), 20)
}

func TestAccumulationRecyclesFlakes(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 5}
	cfg.Accumulate = true
	cfg.MaxAccumulation = 0.2
	cfg.AccumulationRate = 1
	cfg.Radius = Range{2, 2}
	cfg.Speed = Range{1, 1}
	ctrl, _ := newTestController(t, 100, 100, cfg)

	for i := 0; i < 1000; i++ {
		ctrl.step(1)
	}
	if ctrl.GroundHeight() == 0 {
		t.Fatal("expected accumulation events")
	}
	if got := ctrl.FlakeCount(); got != 5 {
		t.Errorf("population = %d after accumulation, want 5", got)
	}
	for i, s := range ctrl.flakes {
		if s.Accumulated() {
			t.Errorf("flake %d still accumulated; recycled flakes should be falling", i)
		}
	}
}

func TestAccumulationDisabledIgnoresSignal(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 3}
	cfg.Speed = Range{3, 3}
	ctrl, _ := newTestController(t, 100, 100, cfg)

	for i := 0; i < 100; i++ {
		ctrl.step(5)
	}
	assertNear(t, "ground height without accumulation", ctrl.GroundHeight(), 0)
}

func TestClickRemovesTopmostOnly(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 3}
	cfg.ClickToRemove = true
	ctrl, _ := newTestController(t, 100, 100, cfg)

	// Flakes 0 and 2 overlap the click point; 2 draws last, so it is on top.
	bottom, middle, top := ctrl.flakes[0], ctrl.flakes[1], ctrl.flakes[2]
	bottom.x, bottom.y, bottom.radius = 10, 10, 5
	middle.x, middle.y, middle.radius = 80, 80, 5
	top.x, top.y, top.radius = 10, 10, 5

	if !ctrl.Click(12, 13) {
		t.Fatal("click should remove a flake")
	}
	if got := ctrl.FlakeCount(); got != 2 {
		t.Fatalf("population = %d after click, want 2", got)
	}
	// Stable removal: draw order of the survivors is preserved.
	if ctrl.flakes[0] != bottom || ctrl.flakes[1] != middle {
		t.Error("click should remove the topmost match and keep order")
	}
}

func TestClickMissIsNoop(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	cfg.ClickToRemove = true
	ctrl, _ := newTestController(t, 100, 100, cfg)
	ctrl.flakes[0].x, ctrl.flakes[0].y, ctrl.flakes[0].radius = 10, 10, 5

	if ctrl.Click(90, 90) {
		t.Error("click with no match should report false")
	}
	if got := ctrl.FlakeCount(); got != 1 {
		t.Errorf("population = %d, want 1", got)
	}
}

func TestClickDisabled(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	ctrl, _ := newTestController(t, 100, 100, cfg)
	ctrl.flakes[0].x, ctrl.flakes[0].y, ctrl.flakes[0].radius = 10, 10, 5

	if ctrl.Click(10, 10) {
		t.Error("click should be a no-op when ClickToRemove is off")
	}
}

func TestClickMapsDisplayCoordinates(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	cfg.ClickToRemove = true
	ctrl, _ := newTestController(t, 100, 100, cfg)
	ctrl.flakes[0].x, ctrl.flakes[0].y, ctrl.flakes[0].radius = 10, 10, 5

	// Surface shown at 2x: display (24, 26) is backing (12, 13).
	ctrl.SetDisplayBounds(Rect{X: 0, Y: 0, Width: 200, Height: 200})
	if !ctrl.Click(24, 26) {
		t.Error("scaled click should hit the flake")
	}
}

func TestUpdateConfigResetsGroundAndPopulation(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 2}
	cfg.Accumulate = true
	ctrl, _ := newTestController(t, 100, 100, cfg)
	ctrl.ground.grow(10, 20)

	next := CanvasConfig{SnowflakeCount: 7}
	ctrl.UpdateConfig(&next)
	assertNear(t, "ground height after reconfigure", ctrl.GroundHeight(), 0)
	if got := ctrl.FlakeCount(); got != 7 {
		t.Errorf("population = %d after reconfigure, want 7", got)
	}
}

func TestResizeKeepsSimulationState(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	cfg.Accumulate = true
	ctrl, _ := newTestController(t, 100, 100, cfg)
	ctrl.ground.grow(10, 20)
	ctrl.flakes[0].x, ctrl.flakes[0].y = 50, 60

	ctrl.Resize(200, 150)
	b := ctrl.Surface().Bounds()
	if b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("surface = %dx%d after resize, want 200x150", b.Dx(), b.Dy())
	}
	assertNear(t, "ground height after resize", ctrl.GroundHeight(), 10)
	assertNear(t, "flake x after resize", ctrl.flakes[0].x, 50)
	assertNear(t, "flake y after resize", ctrl.flakes[0].y, 60)
}

func TestDestroyIsTerminal(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 1}
	cfg.ClickToRemove = true
	ctrl, sched := newTestController(t, 100, 100, cfg)

	ctrl.Destroy()
	if !ctrl.Paused() {
		t.Error("destroy should pause")
	}
	if sched.Pending() {
		t.Error("destroy should cancel the pending tick")
	}
	if ctrl.FlakeCount() != 0 {
		t.Error("destroy should release the population")
	}
	ctrl.Play()
	if sched.Pending() {
		t.Error("a destroyed controller must not restart")
	}
	if ctrl.Click(10, 10) {
		t.Error("a destroyed controller must not handle clicks")
	}
}

func TestRenderSkipsAccumulatedFlakes(t *testing.T) {
	cfg := CanvasConfig{SnowflakeCount: 2}
	cfg.Accumulate = true
	ctrl, _ := newTestController(t, 100, 100, cfg)
	ctrl.flakes[0].MarkAsAccumulated(95)

	// An accumulated flake is skipped by the advance pass.
	before := ctrl.flakes[0].x
	ctrl.step(5)
	assertNear(t, "accumulated flake x", ctrl.flakes[0].x, before)
	assertNear(t, "accumulated flake y", ctrl.flakes[0].y, 95)
}
