package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// blendOver composites src over dst with straight-alpha source-over
// blending, the way the cap is drawn on screen.
func blendOver(src, dst rl.Color) rl.Color {
	a := float32(src.A) / 255
	mix := func(s, d uint8) uint8 {
		v := a*float32(s) + (1-a)*float32(d)
		return uint8(v + 0.5)
	}
	return rl.Color{R: mix(src.R, dst.R), G: mix(src.G, dst.G), B: mix(src.B, dst.B), A: src.A}
}

func TestCapColorRoundTrip(t *testing.T) {
	base := rl.Color{R: 8, G: 9, B: 14, A: 255}

	tests := []struct {
		name string
		body rl.Color
	}{
		{"opaque body", rl.Color{R: 200, G: 80, B: 40, A: 255}},
		{"half alpha", rl.Color{R: 120, G: 180, B: 220, A: 128}},
		{"dim line", rl.Color{R: 60, G: 60, B: 90, A: 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tip := capColor(tt.body, base)
			got := blendOver(tip, base)

			within := func(a, b uint8) bool {
				d := int(a) - int(b)
				if d < 0 {
					d = -d
				}
				return d <= 2
			}
			if !within(got.R, tt.body.R) || !within(got.G, tt.body.G) || !within(got.B, tt.body.B) {
				t.Errorf("cap %v over base composites to %v, want body %v", tip, got, tt.body)
			}
		})
	}
}

func TestCapColorFullyTransparentBody(t *testing.T) {
	base := rl.Color{R: 8, G: 9, B: 14, A: 255}
	tip := capColor(rl.Color{A: 0}, base)
	if tip != rl.Blank {
		t.Errorf("cap for a transparent body = %v, want blank", tip)
	}
}

func TestCapColorClampsOutOfGamut(t *testing.T) {
	// A bright body over a brighter base would solve to a negative cap
	// channel; the result must clamp instead of wrapping.
	base := rl.Color{R: 250, G: 250, B: 250, A: 255}
	body := rl.Color{R: 10, G: 10, B: 10, A: 64}

	tip := capColor(body, base)
	if tip.R > body.R || tip.G > body.G || tip.B > body.B {
		t.Errorf("out-of-gamut cap %v not clamped toward zero", tip)
	}
}
