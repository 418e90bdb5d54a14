// Package noise generates the curl-noise force field that stirs the fluid.
// Several independently scrolling channels are summed into one shared force
// buffer, so the per-frame cost does not depend on how many lines sample
// the resulting flow.
package noise

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/fluid"
)

// blendThreshold is how far a channel's primary phase scrolls before the
// secondary phase starts blending in. Rotating the phases instead of
// resetting keeps the motion continuous and non-repeating.
const blendThreshold = 1000.0

// curlEpsilon is the central-difference step for the potential derivatives.
const curlEpsilon = 1e-3

// elapsedWrap bounds the animation clock feeding the scale wobble, so the
// sine argument keeps its float32 precision over long runs.
const elapsedWrap = 1000.0

// Channel is one scrolling curl-noise layer.
type Channel struct {
	scale           float32
	multiplier      float32
	offsetIncrement float32

	offset1     float32
	offset2     float32
	blendFactor float32
}

// tick advances the channel phases. The scale wobbles slowly around its
// configured value so the pattern never settles.
func (c *Channel) tick(settings config.NoiseChannelConfig, elapsed float32) {
	c.scale = float32(settings.Scale) * (1.0 + 0.15*float32(math.Sin(float64(0.01*elapsed)*2*math.Pi)))
	c.multiplier = float32(settings.Multiplier)
	c.offsetIncrement = float32(settings.OffsetIncrement)
	c.offset1 += c.offsetIncrement

	if c.offset1 > blendThreshold {
		c.blendFactor += c.offsetIncrement
		c.offset2 += c.offsetIncrement
	}

	// Once fully blended, the secondary phase becomes the primary.
	if c.blendFactor > 1.0 {
		c.offset1 = c.offset2
		c.offset2 = 0
		c.blendFactor = 0
	}
}

// Generator evaluates all channels over the grid and sums them into the
// force buffer consumed by the solver's injection stage.
type Generator struct {
	width, height int

	multiplier float32
	settings   []config.NoiseChannelConfig
	channels   []Channel

	noise   opensimplex.Noise
	force   []float32
	elapsed float32

	disp *fluid.Dispatcher
}

// NewGenerator creates a generator for a width×height force grid. The seed
// fixes both the simplex permutation and the initial channel phases, so a
// given seed always produces the same force history.
func NewGenerator(width, height int, seed int64, cfg *config.Config, disp *fluid.Dispatcher) *Generator {
	g := &Generator{
		width:  width,
		height: height,
		noise:  opensimplex.New(seed),
		force:  make([]float32, 2*width*height),
		disp:   disp,
	}

	rng := rand.New(rand.NewSource(seed))
	g.multiplier = float32(cfg.Noise.Multiplier)
	g.settings = append([]config.NoiseChannelConfig(nil), cfg.Noise.Channels...)
	for _, ch := range g.settings {
		g.channels = append(g.channels, Channel{
			scale:           float32(ch.Scale),
			multiplier:      float32(ch.Multiplier),
			offsetIncrement: float32(ch.OffsetIncrement),
			offset1:         blendThreshold * rng.Float32(),
		})
	}

	return g
}

// ApplySettings takes over new channel parameters while preserving the
// runtime phase state of existing channels.
func (g *Generator) ApplySettings(cfg *config.Config) {
	g.multiplier = float32(cfg.Noise.Multiplier)
	g.settings = append(g.settings[:0], cfg.Noise.Channels...)

	if len(g.settings) < len(g.channels) {
		g.channels = g.channels[:len(g.settings)]
	}
	for len(g.channels) < len(g.settings) {
		ch := g.settings[len(g.channels)]
		g.channels = append(g.channels, Channel{
			scale:           float32(ch.Scale),
			multiplier:      float32(ch.Multiplier),
			offsetIncrement: float32(ch.OffsetIncrement),
		})
	}
}

// Force returns the shared force buffer (2 floats per cell).
func (g *Generator) Force() []float32 { return g.force }

// Generate advances the channel phases by dt and rewrites the force
// buffer. One call per solver step.
func (g *Generator) Generate(dt float32) {
	g.elapsed += dt
	if g.elapsed > elapsedWrap {
		g.elapsed -= elapsedWrap
	}

	for i := range g.channels {
		g.channels[i].tick(g.settings[i], g.elapsed)
	}

	w, h := g.width, g.height
	invW := 1.0 / float32(w-1)
	invH := 1.0 / float32(h-1)

	g.disp.Dispatch(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := float32(y) * invH
			for x := 0; x < w; x++ {
				u := float32(x) * invW

				var fx, fy float32
				for c := range g.channels {
					ch := &g.channels[c]
					cx, cy := g.curl(float64(ch.scale*u), float64(ch.scale*v), float64(ch.offset1))
					if ch.blendFactor > 0 {
						bx, by := g.curl(float64(ch.scale*u), float64(ch.scale*v), float64(ch.offset2))
						t := ch.blendFactor
						cx += (bx - cx) * t
						cy += (by - cy) * t
					}
					fx += ch.multiplier * cx
					fy += ch.multiplier * cy
				}

				i := 2 * (y*w + x)
				g.force[i] = g.multiplier * fx
				g.force[i+1] = g.multiplier * fy
			}
		}
	})
}

// curl returns the divergence-free force derived from the simplex
// potential at (x, y, phase): (∂ψ/∂y, −∂ψ/∂x) by central difference.
func (g *Generator) curl(x, y, phase float64) (float32, float32) {
	dpdy := (g.noise.Eval3(x, y+curlEpsilon, phase) - g.noise.Eval3(x, y-curlEpsilon, phase)) / (2 * curlEpsilon)
	dpdx := (g.noise.Eval3(x+curlEpsilon, y, phase) - g.noise.Eval3(x-curlEpsilon, y, phase)) / (2 * curlEpsilon)
	return float32(dpdy), float32(-dpdx)
}

// Potential evaluates the summed, blended channel potentials at normalized
// domain coordinates. Used by the debug overlay and the preview tool.
func (g *Generator) Potential(u, v float32) float32 {
	var sum float32
	for c := range g.channels {
		ch := &g.channels[c]
		p := g.noise.Eval3(float64(ch.scale*u), float64(ch.scale*v), float64(ch.offset1))
		if ch.blendFactor > 0 {
			q := g.noise.Eval3(float64(ch.scale*u), float64(ch.scale*v), float64(ch.offset2))
			p += (q - p) * float64(ch.blendFactor)
		}
		sum += ch.multiplier * float32(p)
	}
	return g.multiplier * sum
}
