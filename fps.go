package flurry

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsSampleWindow is how often the readout value refreshes.
const fpsSampleWindow = 500 * time.Millisecond

// fpsCounter measures the achieved tick rate over a rolling half-second
// window. Only updated when diagnostics are enabled.
type fpsCounter struct {
	frames     int
	lastSample time.Time
	value      float64
}

// tick records one frame at the given timestamp and refreshes the value
// when the sample window has elapsed.
func (f *fpsCounter) tick(now time.Time) {
	if f.lastSample.IsZero() {
		f.lastSample = now
		return
	}
	f.frames++
	if d := now.Sub(f.lastSample); d >= fpsSampleWindow {
		f.value = float64(f.frames) / d.Seconds()
		f.frames = 0
		f.lastSample = now
	}
}

// draw paints the readout in the top-left corner.
func (f *fpsCounter) draw(dst *ebiten.Image) {
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("FPS: %.1f", f.value), 4, 4)
}
