package lines

import "math"

// RGBA is a straight-alpha color with float components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Wheel is an ordered ring of color stops. Lookup wraps at 2π and
// interpolates linearly between adjacent stops.
type Wheel [6]RGBA

// Lookup returns the wheel color for the given angle in radians. Angles
// are taken modulo 2π; an angle landing exactly on a stop yields that
// stop's color with no interpolation.
func (w Wheel) Lookup(angle float32) RGBA {
	a := math.Mod(float64(angle), 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}

	t := a / (2 * math.Pi) * float64(len(w))
	i0 := int(t)
	if i0 >= len(w) {
		i0 = 0
	}
	i1 := (i0 + 1) % len(w)
	frac := float32(t - float64(i0))

	c0, c1 := w[i0], w[i1]
	return RGBA{
		R: c0.R + (c1.R-c0.R)*frac,
		G: c0.G + (c1.G-c0.G)*frac,
		B: c0.B + (c1.B-c0.B)*frac,
		A: c0.A + (c1.A-c0.A)*frac,
	}
}

// Color wheel presets.
var (
	WheelPlasma = Wheel{
		{60.219 / 255.0, 37.2487 / 255.0, 66.4301 / 255.0, 1.0},
		{170.962 / 255.0, 54.4873 / 255.0, 50.9661 / 255.0, 1.0},
		{230.299 / 255.0, 39.2759 / 255.0, 5.54531 / 255.0, 1.0},
		{242.924 / 255.0, 94.3563 / 255.0, 22.4186 / 255.0, 1.0},
		{242.435 / 255.0, 156.752 / 255.0, 58.9794 / 255.0, 1.0},
		{135.291 / 255.0, 152.793 / 255.0, 182.473 / 255.0, 1.0},
	}

	WheelPoolside = Wheel{
		{76.0 / 255.0, 156.0 / 255.0, 228.0 / 255.0, 1.0},
		{140.0 / 255.0, 204.0 / 255.0, 244.0 / 255.0, 1.0},
		{108.0 / 255.0, 180.0 / 255.0, 236.0 / 255.0, 1.0},
		{188.0 / 255.0, 228.0 / 255.0, 244.0 / 255.0, 1.0},
		{124.0 / 255.0, 220.0 / 255.0, 236.0 / 255.0, 1.0},
		{156.0 / 255.0, 208.0 / 255.0, 236.0 / 255.0, 1.0},
	}

	WheelFreedom = Wheel{
		{0.0, 87.0 / 255.0, 183.0 / 255.0, 1.0},
		{0.0, 87.0 / 255.0, 183.0 / 255.0, 1.0},
		{0.0, 87.0 / 255.0, 183.0 / 255.0, 1.0},
		{1.0, 215.0 / 255.0, 0.0, 1.0},
		{1.0, 215.0 / 255.0, 0.0, 1.0},
		{1.0, 215.0 / 255.0, 0.0, 1.0},
	}
)

// WheelForPreset maps a preset name to its wheel. Unknown names fall back
// to plasma.
func WheelForPreset(name string) Wheel {
	switch name {
	case "poolside":
		return WheelPoolside
	case "freedom":
		return WheelFreedom
	default:
		return WheelPlasma
	}
}

// smoothstep is the usual cubic ease between edges a and b.
func smoothstep(a, b, x float32) float32 {
	if a == b {
		if x < a {
			return 0
		}
		return 1
	}
	t := (x - a) / (b - a)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
