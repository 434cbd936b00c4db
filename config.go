package flurry

import "github.com/hajimehoshi/ebiten/v2"

// Config controls the appearance and motion of individual snowflakes.
// Zero-valued fields fall back to the defaults from DefaultConfig when a
// Controller is constructed, so the zero Config is the default config.
// The usual path is to start from DefaultConfig (or DefaultCanvasConfig)
// and override individual fields.
type Config struct {
	// Color is the tint of circle snowflakes. Images are drawn untinted.
	Color Color
	// Radius is the range of snowflake radii in pixels.
	Radius Range
	// Speed is the range of vertical speeds in pixels per frame unit
	// (one frame unit is 1/60 of a second).
	Speed Range
	// Wind is the range of horizontal speeds in pixels per frame unit.
	// Negative values drift left.
	Wind Range
	// ChangeFrequency is the number of frame units between re-randomizing
	// a snowflake's target speed and wind. Current speed and wind are
	// interpolated toward the targets over this interval.
	ChangeFrequency float64
	// RotationSpeed is the range of rotation speeds in degrees per frame unit.
	RotationSpeed Range
	// Opacity is the range of snowflake alpha values.
	Opacity Range
	// Rotation3D enables pseudo-3D tumbling: snowflakes are flattened by
	// the cosines of three independently advancing axis angles instead of
	// rotating in-plane.
	Rotation3D bool
	// Images, when non-empty, replaces circle rendering: each snowflake is
	// assigned one image from the pool at random and drawn at 2*radius.
	Images []*ebiten.Image
	// Accumulate enables the ground snow layer. Snowflakes that reach the
	// top of the layer are frozen into it and recycled back to the top of
	// the surface.
	Accumulate bool
	// MaxAccumulation caps the ground layer height as a fraction of the
	// surface height.
	MaxAccumulation float64
	// AccumulationRate is the ground growth in pixels per accumulated flake.
	AccumulationRate float64
	// ClickToRemove enables removing the topmost snowflake under a click.
	ClickToRemove bool
	// FadeIn, when positive, eases a snowflake's opacity from zero to its
	// sampled value over this many seconds after spawn or recycle.
	FadeIn float64
	// Turbulence, when non-zero, offsets each snowflake's wind by smooth
	// Perlin noise sampled at its position, scaled by this strength.
	Turbulence float64
	// TurbulenceScale is the spatial frequency of the turbulence field.
	TurbulenceScale float64
}

// CanvasConfig is the full configuration for a Controller: per-flake
// settings plus surface-level ones.
type CanvasConfig struct {
	Config
	// SnowflakeCount is the size of the falling population.
	SnowflakeCount int
	// ShowFPS paints a frame-rate readout in the top-left corner.
	ShowFPS bool
	// Seed seeds the random source. Zero picks a time-based seed.
	Seed uint64
}

// DefaultConfig returns the default per-flake configuration.
func DefaultConfig() Config {
	return Config{
		Color:            Color{R: 0.87, G: 0.89, B: 0.99, A: 1}, // #dee4fd
		Radius:           Range{0.5, 3.0},
		Speed:            Range{1.0, 3.0},
		Wind:             Range{-0.5, 2.0},
		ChangeFrequency:  200,
		RotationSpeed:    Range{-1.0, 1.0},
		Opacity:          Range{1, 1},
		MaxAccumulation:  0.15,
		AccumulationRate: 0.05,
		TurbulenceScale:  0.01,
	}
}

// DefaultCanvasConfig returns DefaultConfig wrapped with the default
// snowflake count.
func DefaultCanvasConfig() CanvasConfig {
	return CanvasConfig{
		Config:         DefaultConfig(),
		SnowflakeCount: 150,
	}
}

// withDefaults returns the effective configuration: zero-valued fields are
// replaced with their defaults, everything else is kept as-is. This mirrors
// a shallow merge of user overrides over the default table; booleans have
// false defaults so they pass through untouched.
func (c CanvasConfig) withDefaults() CanvasConfig {
	def := DefaultCanvasConfig()
	if c.Color == (Color{}) {
		c.Color = def.Color
	}
	if c.Radius == (Range{}) {
		c.Radius = def.Radius
	}
	if c.Speed == (Range{}) {
		c.Speed = def.Speed
	}
	if c.Wind == (Range{}) {
		c.Wind = def.Wind
	}
	if c.ChangeFrequency == 0 {
		c.ChangeFrequency = def.ChangeFrequency
	}
	if c.RotationSpeed == (Range{}) {
		c.RotationSpeed = def.RotationSpeed
	}
	if c.Opacity == (Range{}) {
		c.Opacity = def.Opacity
	}
	if c.MaxAccumulation == 0 {
		c.MaxAccumulation = def.MaxAccumulation
	}
	if c.AccumulationRate == 0 {
		c.AccumulationRate = def.AccumulationRate
	}
	if c.TurbulenceScale == 0 {
		c.TurbulenceScale = def.TurbulenceScale
	}
	if c.SnowflakeCount <= 0 {
		c.SnowflakeCount = def.SnowflakeCount
	}
	return c
}
