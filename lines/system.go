package lines

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
)

// Spring response bases. Per-line variance scales the velocity-delta boost
// up and the momentum boost down (or vice versa), so neighboring lines
// respond to the same flow with different character.
const (
	velocityDeltaBase = 25.0
	momentumBase      = 5.0

	colorDeltaBase    = 15.0
	colorMomentumBase = 4.0
)

// Width/opacity easing edges: flow speeds below the low edge fade a line
// out entirely, speeds above the high edge draw it at full width.
const (
	easeSpeedLow  = 0.05
	easeSpeedHigh = 0.6
)

// varianceNoiseScale spreads the per-line variance hash across the
// basepoint lattice so adjacent lines decorrelate.
const varianceNoiseScale = 12.0

// Variance phase scrolling, mirrored from the noise channel treatment:
// the primary offset advances every frame and rotates through a secondary
// offset past the blend threshold.
const (
	varianceBlendThreshold = 4.0
	varianceBaseOffset     = 0.0015
)

// elapsedWrap bounds the animation clock driving the variance
// perturbation. The perturbation period divides the wrap, so the sine is
// continuous across it.
const elapsedWrap = 1000.0

// VelocitySampler provides flow vectors at normalized [0,1] domain
// coordinates. Implemented by *fluid.Field.
type VelocitySampler interface {
	SampleNorm(u, v float32) (float32, float32)
}

// System owns the line population. The per-line state lives in an ECS
// world; the renderer reads it through Each and never writes back.
type System struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Basepoint, components.Motion, components.Stroke]
	filter *ecs.Filter3[components.Basepoint, components.Motion, components.Stroke]

	grid  *Grid
	noise opensimplex.Noise

	length      float32
	width       float32
	beginOffset float32
	variance    float32
	colorMode   config.ColorMode
	wheel       Wheel
	image       *ImageSampler

	noiseOffset1 float32
	noiseOffset2 float32
	noiseBlend   float32
	elapsed      float32
}

// NewSystem creates the line population for grid. The seed fixes the
// variance hash; the same seed and grid reproduce the same per-line
// behavior exactly.
func NewSystem(grid *Grid, seed int64, cfg *config.Config) *System {
	world := ecs.NewWorld()

	s := &System{
		world:  world,
		mapper: ecs.NewMap3[components.Basepoint, components.Motion, components.Stroke](world),
		filter: ecs.NewFilter3[components.Basepoint, components.Motion, components.Stroke](world),
		noise:  opensimplex.New(seed),
	}
	s.ApplySettings(cfg)
	s.Rebuild(grid)

	return s
}

// ApplySettings takes over line parameters from cfg. Grid spacing changes
// require a Rebuild with a new Grid.
func (s *System) ApplySettings(cfg *config.Config) {
	s.length = float32(cfg.Lines.Length)
	s.width = float32(cfg.Lines.Width)
	s.beginOffset = float32(cfg.Lines.BeginOffset)
	s.variance = float32(cfg.Lines.Variance)
	s.colorMode = cfg.Derived.ColorMode
	s.wheel = WheelForPreset(cfg.Color.Preset)
}

// SetImageSampler installs the reference image used by the image color
// mode. A nil sampler falls back to velocity coloring.
func (s *System) SetImageSampler(img *ImageSampler) {
	s.image = img
}

// Grid returns the current basepoint grid.
func (s *System) Grid() *Grid { return s.grid }

// Count returns the number of lines.
func (s *System) Count() int {
	if s.grid == nil {
		return 0
	}
	return s.grid.LineCount
}

// Rebuild replaces the whole population with fresh lines anchored at the
// given grid's basepoints. Called at init and on every resize.
func (s *System) Rebuild(grid *Grid) {
	// Drain the previous population. Collect first: removing while a
	// query is live is not allowed.
	var stale []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		stale = append(stale, query.Entity())
	}
	for _, e := range stale {
		s.mapper.Remove(e)
	}

	s.grid = grid
	for _, bp := range grid.Basepoints {
		base := bp
		motion := components.Motion{OffsetX: 1e-4, OffsetY: 1e-4}
		stroke := components.Stroke{A: 1}
		s.mapper.NewEntity(&base, &motion, &stroke)
	}
}

// Advance steps every line once by dt against the sampled flow field.
func (s *System) Advance(dt float32, flow VelocitySampler) {
	s.tickVarianceOffsets(dt)

	query := s.filter.Query()
	for query.Next() {
		bp, motion, stroke := query.Get()

		vx, vy := flow.SampleNorm(bp.X, bp.Y)
		speed := float32(math.Sqrt(float64(vx*vx + vy*vy)))

		// Per-line variance, a pure function of the basepoint and the
		// animation clock. vr ranges over [1-variance, 1+variance].
		vr := 1 + s.variance*s.varianceAt(bp.X, bp.Y)
		velocityDelta := velocityDeltaBase * vr
		momentum := momentumBase * (2 - vr)

		targetX := vx * s.length
		targetY := vy * s.length

		motion.VelX = (1-dt*momentum)*motion.VelX + (targetX-motion.OffsetX)*velocityDelta*dt
		motion.VelY = (1-dt*momentum)*motion.VelY + (targetY-motion.OffsetY)*velocityDelta*dt
		motion.OffsetX += dt * motion.VelX
		motion.OffsetY += dt * motion.VelY

		ease := smoothstep(easeSpeedLow, easeSpeedHigh, speed)
		stroke.Width = s.width * ease
		stroke.Opacity = ease

		target := s.targetColor(vx, vy, speed)
		stroke.VelR = (1-dt*colorMomentumBase)*stroke.VelR + (target.R-stroke.R)*colorDeltaBase*dt
		stroke.VelG = (1-dt*colorMomentumBase)*stroke.VelG + (target.G-stroke.G)*colorDeltaBase*dt
		stroke.VelB = (1-dt*colorMomentumBase)*stroke.VelB + (target.B-stroke.B)*colorDeltaBase*dt
		stroke.R += dt * stroke.VelR
		stroke.G += dt * stroke.VelG
		stroke.B += dt * stroke.VelB
		stroke.A = target.A
	}
}

// tickVarianceOffsets scrolls the variance hash phases, with a slow
// perturbation so the drift itself never looks periodic.
func (s *System) tickVarianceOffsets(dt float32) {
	s.elapsed += dt
	if s.elapsed > elapsedWrap {
		s.elapsed -= elapsedWrap
	}

	perturb := 1 + 0.2*float32(math.Sin(float64(0.010*s.elapsed)*2*math.Pi))
	offset := varianceBaseOffset * perturb
	s.noiseOffset1 += offset

	if s.noiseOffset1 > varianceBlendThreshold {
		s.noiseOffset2 += offset
		s.noiseBlend += varianceBaseOffset
	}

	if s.noiseBlend > 1 {
		s.noiseOffset1 = s.noiseOffset2
		s.noiseOffset2 = 0
		s.noiseBlend = 0
	}
}

// varianceAt hashes a basepoint into [-1, 1] via the seeded simplex
// noise, blending two scrolling phases.
func (s *System) varianceAt(x, y float32) float32 {
	nx := float64(x * varianceNoiseScale)
	ny := float64(y * varianceNoiseScale)

	n := s.noise.Eval3(nx, ny, float64(s.noiseOffset1))
	if s.noiseBlend > 0 {
		m := s.noise.Eval3(nx, ny, float64(s.noiseOffset2))
		n += (m - n) * float64(s.noiseBlend)
	}
	return float32(n)
}

// targetColor computes the frame's target color for a line from its
// sampled velocity.
func (s *System) targetColor(vx, vy, speed float32) RGBA {
	switch s.colorMode {
	case config.ColorRing:
		angle := float32(math.Atan2(float64(vy), float64(vx)))
		return s.wheel.Lookup(angle)

	case config.ColorImage:
		if s.image != nil {
			// Remap velocity into UV space centered on the image.
			u := 0.5 + 0.5*clampUnit(vx)
			v := 0.5 + 0.5*clampUnit(vy)
			return s.image.At(u, v)
		}
	}

	// Direct component mapping, also the fallback when no image is
	// loaded. The epsilon keeps the zero-velocity normalization finite.
	inv := 1.0 / (speed + 1e-6)
	return RGBA{
		R: 0.5 + 0.5*vx*inv,
		G: 0.5 + 0.5*vy*inv,
		B: clamp01(speed),
		A: 1,
	}
}

// Each calls fn for every line with a read-only copy of its state.
func (s *System) Each(fn func(bp components.Basepoint, m components.Motion, st components.Stroke)) {
	query := s.filter.Query()
	for query.Next() {
		bp, motion, stroke := query.Get()
		fn(*bp, *motion, *stroke)
	}
}

func clampUnit(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
