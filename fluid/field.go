// Package fluid implements the velocity solver: a stable-fluids pipeline of
// advection, diffusion, force injection and pressure projection over a
// fixed-resolution grid of 2D velocity vectors.
package fluid

// Field is a double-buffered grid of 2D vectors stored as a flat
// [vx, vy, vx, vy, ...] slice. Passes read the current buffer, write the
// next buffer, and swap exactly once when the pass has fully completed.
type Field struct {
	width, height int
	bufs          [2][]float32
	cur           int
}

// NewField allocates a zeroed w×h vector field.
func NewField(width, height int) *Field {
	n := 2 * width * height
	return &Field{
		width:  width,
		height: height,
		bufs:   [2][]float32{make([]float32, n), make([]float32, n)},
	}
}

// Width returns the grid width in cells.
func (f *Field) Width() int { return f.width }

// Height returns the grid height in cells.
func (f *Field) Height() int { return f.height }

// Cur returns the current (read) buffer.
func (f *Field) Cur() []float32 { return f.bufs[f.cur] }

// Next returns the next (write) buffer.
func (f *Field) Next() []float32 { return f.bufs[1-f.cur] }

// Swap flips the current/next roles. Call once per completed pass.
func (f *Field) Swap() { f.cur = 1 - f.cur }

// At returns the vector stored at cell (x, y) in the current buffer.
func (f *Field) At(x, y int) (float32, float32) {
	i := 2 * (y*f.width + x)
	b := f.bufs[f.cur]
	return b[i], b[i+1]
}

// Sample bilinearly interpolates the current buffer at grid coordinates
// (x, y), where cell (i, j) sits at coordinate (i, j). Coordinates outside
// the grid clamp to the edge.
func (f *Field) Sample(x, y float32) (float32, float32) {
	return sampleVec2(f.bufs[f.cur], f.width, f.height, x, y)
}

// SampleNorm samples the current buffer at normalized domain coordinates
// (u, v) in [0, 1].
func (f *Field) SampleNorm(u, v float32) (float32, float32) {
	return f.Sample(u*float32(f.width-1), v*float32(f.height-1))
}

// Clear zeroes both buffers.
func (f *Field) Clear() {
	for b := range f.bufs {
		buf := f.bufs[b]
		for i := range buf {
			buf[i] = 0
		}
	}
}

// ScalarField is a double-buffered grid of scalars, used for pressure.
type ScalarField struct {
	width, height int
	bufs          [2][]float32
	cur           int
}

// NewScalarField allocates a zeroed w×h scalar field.
func NewScalarField(width, height int) *ScalarField {
	n := width * height
	return &ScalarField{
		width:  width,
		height: height,
		bufs:   [2][]float32{make([]float32, n), make([]float32, n)},
	}
}

// Cur returns the current (read) buffer.
func (f *ScalarField) Cur() []float32 { return f.bufs[f.cur] }

// Next returns the next (write) buffer.
func (f *ScalarField) Next() []float32 { return f.bufs[1-f.cur] }

// Swap flips the current/next roles.
func (f *ScalarField) Swap() { f.cur = 1 - f.cur }

// Fill sets every cell of both buffers to v.
func (f *ScalarField) Fill(v float32) {
	for b := range f.bufs {
		buf := f.bufs[b]
		for i := range buf {
			buf[i] = v
		}
	}
}

// sampleVec2 bilinearly samples a flat 2-component buffer with
// clamp-to-edge addressing.
func sampleVec2(buf []float32, width, height int, x, y float32) (float32, float32) {
	x = clampf(x, 0, float32(width-1))
	y = clampf(y, 0, float32(height-1))

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > width-1 {
		x1 = width - 1
	}
	if y1 > height-1 {
		y1 = height - 1
	}
	tx := x - float32(x0)
	ty := y - float32(y0)

	i00 := 2 * (y0*width + x0)
	i10 := 2 * (y0*width + x1)
	i01 := 2 * (y1*width + x0)
	i11 := 2 * (y1*width + x1)

	vx0 := buf[i00] + (buf[i10]-buf[i00])*tx
	vx1 := buf[i01] + (buf[i11]-buf[i01])*tx
	vy0 := buf[i00+1] + (buf[i10+1]-buf[i00+1])*tx
	vy1 := buf[i01+1] + (buf[i11+1]-buf[i01+1])*tx

	return vx0 + (vx1-vx0)*ty, vy0 + (vy1-vy0)*ty
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
