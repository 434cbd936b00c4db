package flurry

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestGroundGrowClampsAtMax(t *testing.T) {
	g := newGroundLayer(testRng(), ColorWhite)

	g.grow(5, 20)
	g.grow(5, 20)
	g.grow(5, 20)
	g.grow(5, 20)
	assertNear(t, "height after four events", g.height, 20)

	g.grow(5, 20)
	assertNear(t, "height stays at cap", g.height, 20)
}

func TestGroundReset(t *testing.T) {
	g := newGroundLayer(testRng(), ColorWhite)
	g.grow(7, 100)
	g.reset()
	assertNear(t, "height after reset", g.height, 0)
}

func TestGroundStrokeOffsets(t *testing.T) {
	g := newGroundLayer(testRng(), ColorWhite)
	if len(g.strokes) != groundTextureStrokes {
		t.Fatalf("stroke count = %d, want %d", len(g.strokes), groundTextureStrokes)
	}
	for i, f := range g.strokes {
		if f < 0 || f >= 1 {
			t.Errorf("stroke %d offset = %v, want [0, 1)", i, f)
		}
	}
}

func TestGroundDrawAtZeroHeightIsNoop(t *testing.T) {
	g := newGroundLayer(testRng(), ColorWhite)
	// Must not paint (or panic) before any accumulation happened.
	g.draw(ebiten.NewImage(10, 10), 10, 10)
}

func TestGradientVertexPremultiplies(t *testing.T) {
	v := gradientVertex(3, 4, Color{R: 1, G: 0.5, B: 0, A: 0.5})
	assertNear(t, "DstX", float64(v.DstX), 3)
	assertNear(t, "DstY", float64(v.DstY), 4)
	assertNear(t, "ColorR", float64(v.ColorR), 0.5)
	assertNear(t, "ColorG", float64(v.ColorG), 0.25)
	assertNear(t, "ColorB", float64(v.ColorB), 0)
	assertNear(t, "ColorA", float64(v.ColorA), 0.5)
}
