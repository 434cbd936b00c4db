package flurry

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is plain white at full opacity.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range.
// Used by Config for every sampled snowflake parameter.
type Range struct {
	Min, Max float64
}

// WhitePixel is a 1x1 white image used for solid fills and gradient quads.
var WhitePixel *ebiten.Image

// discSize is the resolution of the shared disc texture. Circle snowflakes
// are drawn by scaling this texture down to their radius.
const discSize = 64

// disc is a shared anti-aliased white disc, tinted and scaled per snowflake.
var disc *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
	disc = newDiscImage(discSize)
}

// newDiscImage renders an anti-aliased white disc filling a size x size image.
func newDiscImage(size int) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	half := float32(size) / 2
	vector.DrawFilledCircle(img, half, half, half, ColorWhite.toRGBA(), true)
	return img
}

// toRGBA converts a Color to a premultiplied RGBA color.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
