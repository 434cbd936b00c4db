package flurry

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// framesPerSecond is the nominal frame rate frame units are defined against.
// One frame unit is 1/framesPerSecond seconds of wall-clock time.
const framesPerSecond = 60.0

// Per-axis scale applied to the rotation speed when advancing the pseudo-3D
// angles. The asymmetry keeps the three axes visibly out of phase.
const (
	rotation3DFactorX = 0.5
	rotation3DFactorY = 0.3
	rotation3DFactorZ = 1.0
)

// Snowflake is a single simulated snowflake. It owns its motion state and
// knows how to advance, draw, and hit-test itself; population and ground
// bookkeeping belong to the Controller.
type Snowflake struct {
	cfg *Config
	rng *rand.Rand
	// noise is the shared turbulence field, nil when turbulence is off.
	noise *perlin.Perlin

	x, y          float64
	radius        float64
	speed         float64
	wind          float64
	nextSpeed     float64 // target the current speed interpolates toward
	nextWind      float64
	rotation      float64 // planar angle in degrees, [0, 360)
	rotationSpeed float64 // degrees per frame unit
	opacity       float64
	// Independent pseudo-3D axis angles in degrees, [0, 360).
	rotX, rotY, rotZ float64
	// framesSinceRoll counts frame units since the last target re-roll.
	framesSinceRoll float64
	image           *ebiten.Image
	accumulated     bool

	// fade is the spawn fade-in tween; nil when disabled or finished.
	fade      *gween.Tween
	fadeAlpha float64
}

// NewSnowflake creates a snowflake positioned above the visible area, with
// every sampled parameter drawn uniformly from its configured range.
// cfg must already be an effective (defaulted) configuration.
func NewSnowflake(cfg *Config, rng *rand.Rand, noise *perlin.Perlin, width, height float64) *Snowflake {
	s := &Snowflake{
		cfg:           cfg,
		rng:           rng,
		noise:         noise,
		radius:        cfg.Radius.Random(rng),
		speed:         cfg.Speed.Random(rng),
		wind:          cfg.Wind.Random(rng),
		nextSpeed:     cfg.Speed.Random(rng),
		nextWind:      cfg.Wind.Random(rng),
		rotation:      rng.Float64() * 360,
		rotationSpeed: cfg.RotationSpeed.Random(rng),
		opacity:       cfg.Opacity.Random(rng),
		rotX:          rng.Float64() * 360,
		rotY:          rng.Float64() * 360,
		rotZ:          rng.Float64() * 360,
		fadeAlpha:     1,
	}
	s.x = rng.Float64() * width
	s.y = rng.Float64()*height - height
	if len(cfg.Images) > 0 {
		s.image = cfg.Images[rng.IntN(len(cfg.Images))]
	}
	s.startFade()
	return s
}

// Advance steps the snowflake by elapsed frame units and reports whether its
// lower edge has reached the top of the accumulated ground layer. The report
// is advisory: the snowflake never freezes itself, the Controller decides.
func (s *Snowflake) Advance(width, height, frameUnits, groundHeight float64) bool {
	s.rotation = wrapAngle(s.rotation + s.rotationSpeed*frameUnits)
	if s.cfg.Rotation3D {
		s.rotX = wrapAngle(s.rotX + s.rotationSpeed*frameUnits*rotation3DFactorX)
		s.rotY = wrapAngle(s.rotY + s.rotationSpeed*frameUnits*rotation3DFactorY)
		s.rotZ = wrapAngle(s.rotZ + s.rotationSpeed*frameUnits*rotation3DFactorZ)
	}

	// The fraction is deliberately not clamped: a large frame gap can push
	// speed and wind past their targets. Clamping here would change the
	// motion texture on slow hosts.
	t := frameUnits / s.cfg.ChangeFrequency
	s.speed = lerp(s.speed, s.nextSpeed, t)
	s.wind = lerp(s.wind, s.nextWind, t)

	wind := s.wind
	if s.noise != nil && s.cfg.Turbulence != 0 {
		wind += s.cfg.Turbulence *
			s.noise.Noise2D(s.x*s.cfg.TurbulenceScale, s.y*s.cfg.TurbulenceScale)
	}

	s.y += s.speed * frameUnits
	s.x += wind * frameUnits

	s.framesSinceRoll += frameUnits
	if s.framesSinceRoll >= s.cfg.ChangeFrequency {
		s.nextSpeed = s.cfg.Speed.Random(s.rng)
		s.nextWind = s.cfg.Wind.Random(s.rng)
		s.framesSinceRoll = 0
	}

	if s.y > height {
		s.y = -s.radius
	}
	if s.x > width+s.radius {
		s.x = -s.radius
	} else if s.x < -s.radius {
		s.x = width + s.radius
	}

	if s.fade != nil {
		f, done := s.fade.Update(float32(frameUnits) / framesPerSecond)
		s.fadeAlpha = float64(f)
		if done {
			s.fade = nil
			s.fadeAlpha = 1
		}
	}

	return s.y+s.radius >= height-groundHeight
}

// ContainsPoint reports whether (px, py) lies within the snowflake's disc.
func (s *Snowflake) ContainsPoint(px, py float64) bool {
	dx := px - s.x
	dy := py - s.y
	return dx*dx+dy*dy <= s.radius*s.radius
}

// MarkAsAccumulated pins the snowflake at the given y and flags it as part
// of the ground layer. An accumulated snowflake is skipped by the
// Controller's advance and draw passes until Reset.
func (s *Snowflake) MarkAsAccumulated(y float64) {
	s.y = y
	s.accumulated = true
}

// Accumulated reports whether the snowflake is frozen into the ground layer.
func (s *Snowflake) Accumulated() bool {
	return s.accumulated
}

// Reset recycles the snowflake into the falling population: position returns
// to a random spot above the surface, speed, wind, and both targets are
// re-rolled, and the accumulated flag clears. Radius, opacity, and rotation
// state are kept.
func (s *Snowflake) Reset(width, height float64) {
	s.x = s.rng.Float64() * width
	s.y = s.rng.Float64()*height - height
	s.speed = s.cfg.Speed.Random(s.rng)
	s.wind = s.cfg.Wind.Random(s.rng)
	s.nextSpeed = s.cfg.Speed.Random(s.rng)
	s.nextWind = s.cfg.Wind.Random(s.rng)
	s.framesSinceRoll = 0
	s.accumulated = false
	s.startFade()
}

// Draw paints the snowflake in one of three modes: assigned image, pseudo-3D
// disc, or plain disc. An image takes precedence over both disc modes; 3D
// takes precedence over the plain disc.
func (s *Snowflake) Draw(dst *ebiten.Image) {
	alpha := s.opacity * s.fadeAlpha
	if alpha <= 0 {
		return
	}
	switch {
	case s.image != nil:
		s.drawImage(dst, alpha)
	case s.cfg.Rotation3D:
		// A disc's silhouette is unaffected by Z-spin, so only the X and Y
		// angles flatten it.
		s.drawDisc(dst, alpha,
			math.Cos(degToRad(s.rotY)),
			math.Cos(degToRad(s.rotX)))
	default:
		s.drawDisc(dst, alpha, 1, 1)
	}
}

// drawDisc draws the shared disc texture centered at the snowflake, scaled
// to its radius and flattened by (scaleX, scaleY).
func (s *Snowflake) drawDisc(dst *ebiten.Image, alpha, scaleX, scaleY float64) {
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-discSize/2, -discSize/2)
	op.GeoM.Scale(2*s.radius/discSize*scaleX, 2*s.radius/discSize*scaleY)
	op.GeoM.Translate(s.x, s.y)
	c := s.cfg.Color
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), 1)
	op.ColorScale.ScaleAlpha(float32(alpha * c.A))
	dst.DrawImage(disc, op)
}

// drawImage draws the assigned image centered at the snowflake, sized to a
// 2*radius square. With 3D rotation the image flattens by cosine products of
// the (Y,Z) and (X,Z) angle pairs; otherwise it rotates in-plane.
func (s *Snowflake) drawImage(dst *ebiten.Image, alpha float64) {
	b := s.image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-w/2, -h/2)
	if s.cfg.Rotation3D {
		cosZ := math.Cos(degToRad(s.rotZ))
		scaleX := math.Cos(degToRad(s.rotY)) * cosZ
		scaleY := math.Cos(degToRad(s.rotX)) * cosZ
		op.GeoM.Scale(2*s.radius/w*scaleX, 2*s.radius/h*scaleY)
	} else {
		op.GeoM.Scale(2*s.radius/w, 2*s.radius/h)
		op.GeoM.Rotate(degToRad(s.rotation))
	}
	op.GeoM.Translate(s.x, s.y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(s.image, op)
}

// startFade restarts the spawn fade-in tween if the config enables it.
func (s *Snowflake) startFade() {
	if s.cfg.FadeIn > 0 {
		s.fade = gween.New(0, 1, float32(s.cfg.FadeIn), ease.OutQuad)
		s.fadeAlpha = 0
	}
}

// fullTurn is one complete revolution in radians.
const fullTurn = 2 * math.Pi

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg / 360 * fullTurn
}

// wrapAngle wraps an angle in degrees into [0, 360).
func wrapAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// lerp linearly interpolates between a and b by t. t is not clamped.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Random returns a random float64 in [Min, Max) drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
