package flurry

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// groundTextureStrokes caps the number of horizontal texture strokes drawn
// across the layer, independent of its height, to bound per-frame cost.
const groundTextureStrokes = 8

// groundMaxAlpha is the gradient opacity at the bottom edge of the layer.
const groundMaxAlpha = 0.9

// groundLayer is the accumulated snow band at the bottom of the surface.
// Height is an absolute pixel quantity owned and mutated only by the
// Controller; snowflakes read it through their Advance call.
type groundLayer struct {
	height float64
	// strokes are fractional offsets within the band, rolled once so the
	// texture stays stable frame to frame.
	strokes [groundTextureStrokes]float64
	color   Color
}

func newGroundLayer(rng *rand.Rand, color Color) *groundLayer {
	g := &groundLayer{color: color}
	for i := range g.strokes {
		g.strokes[i] = rng.Float64()
	}
	return g
}

// grow raises the layer by rate pixels, clamped to max. Height never
// decreases here; only a config rebuild resets it.
func (g *groundLayer) grow(rate, max float64) {
	g.height += rate
	if g.height > max {
		g.height = max
	}
}

func (g *groundLayer) reset() {
	g.height = 0
}

// draw paints the layer as a vertical gradient quad, fully transparent at
// its top edge and opaque toward the bottom, plus thin horizontal strokes
// for a non-flat texture.
func (g *groundLayer) draw(dst *ebiten.Image, width, height float64) {
	if g.height <= 0 {
		return
	}
	top := height - g.height

	// Premultiplied vertex colors over the 1x1 white pixel.
	topColor := g.color
	topColor.A = 0
	bottomColor := g.color
	bottomColor.A = groundMaxAlpha
	verts := []ebiten.Vertex{
		gradientVertex(0, top, topColor),
		gradientVertex(width, top, topColor),
		gradientVertex(0, height, bottomColor),
		gradientVertex(width, height, bottomColor),
	}
	indices := []uint16{0, 1, 2, 1, 3, 2}
	dst.DrawTriangles(verts, indices, WhitePixel, &ebiten.DrawTrianglesOptions{})

	stroke := g.color
	stroke.A = 0.25
	strokeColor := stroke.toRGBA()
	for _, f := range g.strokes {
		y := float32(top + f*g.height)
		vector.StrokeLine(dst, 0, y, float32(width), y, 1, strokeColor, true)
	}
}

func gradientVertex(x, y float64, c Color) ebiten.Vertex {
	a := float32(c.A)
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R) * a,
		ColorG: float32(c.G) * a,
		ColorB: float32(c.B) * a,
		ColorA: a,
	}
}
