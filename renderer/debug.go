package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// FieldOverlay draws solver fields as full-screen cell grids for debug
// display modes.
type FieldOverlay struct {
	screenWidth  float32
	screenHeight float32
}

// NewFieldOverlay creates an overlay for a width×height screen.
func NewFieldOverlay(width, height int32) *FieldOverlay {
	return &FieldOverlay{
		screenWidth:  float32(width),
		screenHeight: float32(height),
	}
}

// Resize updates the screen dimensions.
func (o *FieldOverlay) Resize(width, height int32) {
	o.screenWidth = float32(width)
	o.screenHeight = float32(height)
}

// DrawVector renders a 2-component field (velocity, noise force) with the
// x component on red and the y component on green, centered at mid-gray.
// scale maps field units to the full color range.
func (o *FieldOverlay) DrawVector(data []float32, gridW, gridH int, scale float32) {
	cellW := o.screenWidth / float32(gridW)
	cellH := o.screenHeight / float32(gridH)

	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			i := y*gridW + x
			vx := data[2*i] * scale
			vy := data[2*i+1] * scale

			color := rl.Color{
				R: signedByte(vx),
				G: signedByte(vy),
				B: 40,
				A: 255,
			}
			rl.DrawRectangle(
				int32(float32(x)*cellW),
				int32(float32(y)*cellH),
				int32(cellW)+1,
				int32(cellH)+1,
				color,
			)
		}
	}
}

// DrawScalar renders a scalar field (pressure, divergence) on a diverging
// scale: negative values blue, positive red, zero black.
func (o *FieldOverlay) DrawScalar(data []float32, gridW, gridH int, scale float32) {
	cellW := o.screenWidth / float32(gridW)
	cellH := o.screenHeight / float32(gridH)

	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			v := data[y*gridW+x] * scale

			var color rl.Color
			if v >= 0 {
				color = rl.Color{R: magByte(v), A: 255}
			} else {
				color = rl.Color{B: magByte(-v), A: 255}
			}
			rl.DrawRectangle(
				int32(float32(x)*cellW),
				int32(float32(y)*cellH),
				int32(cellW)+1,
				int32(cellH)+1,
				color,
			)
		}
	}
}

// signedByte maps [-1, 1] to [0, 255] centered at 127.
func signedByte(v float32) uint8 {
	b := 127 + v*127
	if b < 0 {
		return 0
	}
	if b > 255 {
		return 255
	}
	return uint8(b)
}

// magByte maps [0, 1] to [0, 255].
func magByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
