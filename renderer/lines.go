// Package renderer draws the line population and debug field overlays.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/lines"
)

// bodySegments is how many segments the fading body of a line is split
// into. The alpha ramps from zero at the base cutoff to full at the tip.
const bodySegments = 4

// LineRenderer draws the line population to the screen.
type LineRenderer struct {
	width  int32
	height int32

	background  rl.Color
	beginOffset float32
}

// NewLineRenderer creates a renderer for a width×height screen.
func NewLineRenderer(width, height int32, beginOffset float32) *LineRenderer {
	return &LineRenderer{
		width:       width,
		height:      height,
		background:  rl.Color{R: 8, G: 9, B: 14, A: 255},
		beginOffset: beginOffset,
	}
}

// Background returns the clear color the renderer is calibrated against.
// The endpoint caps depend on it.
func (r *LineRenderer) Background() rl.Color {
	return r.background
}

// Resize updates the screen dimensions.
func (r *LineRenderer) Resize(width, height int32) {
	r.width = width
	r.height = height
}

// SetBeginOffset updates the base fade fraction.
func (r *LineRenderer) SetBeginOffset(beginOffset float32) {
	r.beginOffset = beginOffset
}

// Draw renders every line. Lines below a visibility floor are skipped
// entirely rather than drawn at near-zero alpha.
func (r *LineRenderer) Draw(sys *lines.System) {
	w := float32(r.width)
	h := float32(r.height)

	sys.Each(func(bp components.Basepoint, m components.Motion, st components.Stroke) {
		if st.Opacity < 0.01 || st.Width < 0.05 {
			return
		}

		baseX := bp.X * w
		baseY := bp.Y * h
		tipX := baseX + m.OffsetX
		tipY := baseY + m.OffsetY

		body := rl.Color{
			R: colorByte(st.R),
			G: colorByte(st.G),
			B: colorByte(st.B),
			A: colorByte(st.A * st.Opacity),
		}

		// Body: segments from the base cutoff to the tip, alpha ramping
		// up so the line appears to grow out of nothing.
		for i := 0; i < bodySegments; i++ {
			t0 := r.beginOffset + (1-r.beginOffset)*float32(i)/bodySegments
			t1 := r.beginOffset + (1-r.beginOffset)*float32(i+1)/bodySegments

			fade := float32(i+1) / bodySegments
			seg := body
			seg.A = uint8(float32(seg.A) * fade)

			rl.DrawLineEx(
				rl.Vector2{X: baseX + m.OffsetX*t0, Y: baseY + m.OffsetY*t0},
				rl.Vector2{X: baseX + m.OffsetX*t1, Y: baseY + m.OffsetY*t1},
				st.Width,
				seg,
			)
		}

		// Endpoint cap. The cap is drawn over the body tip with normal
		// alpha blending, so its color is solved from the blend equation
		// to land exactly on the body color over the background.
		tip := capColor(body, r.background)
		rl.DrawCircleV(rl.Vector2{X: tipX, Y: tipY}, st.Width*0.5, tip)
	})
}

// capColor inverts the source-over blend: drawing the returned color on
// top of base composites to exactly the body color.
func capColor(body, base rl.Color) rl.Color {
	a := float32(body.A) / 255
	if a < 1e-3 {
		return rl.Blank
	}

	inv := (1 - a)
	solve := func(bodyC, baseC uint8) uint8 {
		v := (float32(bodyC) - inv*float32(baseC)) / a
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}

	return rl.Color{
		R: solve(body.R, base.R),
		G: solve(body.G, base.G),
		B: solve(body.B, base.B),
		A: body.A,
	}
}

func colorByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Unload frees resources.
func (r *LineRenderer) Unload() {
	// Nothing to unload in direct rendering mode
}
