// Package flurry renders a decorative falling-snow animation for
// [Ebitengine].
//
// Flurry simulates a population of snowflakes over a 2D surface: smooth
// wind drift via target-tracking interpolation, planar and pseudo-3D
// rotation, custom snowflake images, a growing accumulated snow layer,
// and click-to-remove interaction.
//
// # Quick start
//
// The simplest way to get snow on screen is [Run], which creates a window
// and game loop for you:
//
//	flurry.Run(flurry.RunConfig{
//		Title: "Let it snow", Width: 800, Height: 600,
//	})
//
// For full control, create a [Controller] over your own surface and drive
// a [ManualScheduler] from your ebiten.Game:
//
//	sched := &flurry.ManualScheduler{}
//	ctrl, err := flurry.NewController(surface, nil, sched)
//	// each Update: sched.Fire(time.Now())
//	// each Draw:   screen.DrawImage(ctrl.Surface(), nil)
//
// # Configuration
//
// [CanvasConfig] holds every tunable: color, radius/speed/wind/opacity
// ranges, rotation, image pools, accumulation, turbulence, and the
// snowflake count. Zero-valued fields take the defaults from
// [DefaultCanvasConfig], so partial configs work like overrides over the
// default table:
//
//	cfg := flurry.DefaultCanvasConfig()
//	cfg.SnowflakeCount = 400
//	cfg.Wind = flurry.Range{Min: -2, Max: 4}
//	cfg.Accumulate = true
//
// Motion integrates in frame units (1/60 s), so the animation advances at
// the same real-time rate whatever frame rate the host achieves.
//
// [Ebitengine]: https://ebitengine.org
package flurry
