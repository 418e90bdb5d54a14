package lines

import (
	"math"
	"testing"
)

func colorsClose(a, b RGBA, tol float32) bool {
	near := func(x, y float32) bool {
		d := x - y
		if d < 0 {
			d = -d
		}
		return d <= tol
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}

func TestWheelLookupExactStops(t *testing.T) {
	w := WheelPlasma
	step := 2 * math.Pi / float64(len(w))

	for i := range w {
		got := w.Lookup(float32(float64(i) * step))
		if !colorsClose(got, w[i], 1e-4) {
			t.Errorf("Lookup at stop %d = %+v, want %+v", i, got, w[i])
		}
	}
}

func TestWheelLookupWraps(t *testing.T) {
	w := WheelPlasma

	at0 := w.Lookup(0)
	at2pi := w.Lookup(2 * math.Pi)
	if !colorsClose(at0, at2pi, 1e-4) {
		t.Errorf("Lookup(2π) = %+v, want Lookup(0) = %+v", at2pi, at0)
	}

	// Negative angles map onto the same ring.
	neg := w.Lookup(-math.Pi / 3)
	pos := w.Lookup(2*math.Pi - math.Pi/3)
	if !colorsClose(neg, pos, 1e-4) {
		t.Errorf("Lookup(-π/3) = %+v, want %+v", neg, pos)
	}
}

func TestWheelLookupInterpolatesBetweenStops(t *testing.T) {
	w := WheelPlasma
	step := float32(2 * math.Pi / float64(len(w)))

	got := w.Lookup(step / 2)
	want := RGBA{
		R: (w[0].R + w[1].R) / 2,
		G: (w[0].G + w[1].G) / 2,
		B: (w[0].B + w[1].B) / 2,
		A: (w[0].A + w[1].A) / 2,
	}
	if !colorsClose(got, want, 1e-3) {
		t.Errorf("midpoint lookup = %+v, want %+v", got, want)
	}
}

func TestWheelForPreset(t *testing.T) {
	tests := []struct {
		name string
		want Wheel
	}{
		{"plasma", WheelPlasma},
		{"poolside", WheelPoolside},
		{"freedom", WheelFreedom},
		{"no-such-preset", WheelPlasma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WheelForPreset(tt.name); got != tt.want {
				t.Errorf("WheelForPreset(%q) returned the wrong wheel", tt.name)
			}
		})
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name    string
		a, b, x float32
		want    float32
	}{
		{"below edge", 0.05, 0.6, 0.0, 0},
		{"at low edge", 0.05, 0.6, 0.05, 0},
		{"at high edge", 0.05, 0.6, 0.6, 1},
		{"above edge", 0.05, 0.6, 2.0, 1},
		{"midpoint", 0.0, 1.0, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := smoothstep(tt.a, tt.b, tt.x)
			d := got - tt.want
			if d < 0 {
				d = -d
			}
			if d > 1e-5 {
				t.Errorf("smoothstep(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.x, got, tt.want)
			}
		})
	}
}

func TestSmoothstepMonotonic(t *testing.T) {
	prev := float32(-1)
	for x := float32(0); x <= 1; x += 0.01 {
		v := smoothstep(0, 1, x)
		if v < prev {
			t.Fatalf("smoothstep decreased at x=%v: %v < %v", x, v, prev)
		}
		prev = v
	}
}
