// Package lines implements the line population: a fixed lattice of
// basepoints and, per line, an endpoint offset driven by spring dynamics
// against the sampled fluid velocity, plus eased width and color.
package lines

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
)

// referenceColumns is the column count at which the fluid grid starts
// scaling up with the window instead of staying at its base resolution.
const referenceColumns = 171.0

// ScalingRatio relates the basepoint lattice to the fluid grid resolution
// on very wide or tall domains.
type ScalingRatio struct {
	X, Y float32
}

// RoundedX returns the integer fluid-grid multiplier along x.
func (s ScalingRatio) RoundedX() int {
	return int(s.X + 0.5)
}

// RoundedY returns the integer fluid-grid multiplier along y.
func (s ScalingRatio) RoundedY() int {
	return int(s.Y + 0.5)
}

// Grid holds the immutable basepoint lattice for one domain size. A resize
// builds a fresh Grid; basepoints are never migrated.
type Grid struct {
	Width, Height int
	AspectRatio   float32
	Columns, Rows int
	LineCount     int
	ScalingRatio  ScalingRatio
	Basepoints    []components.Basepoint
}

// NewGrid builds the basepoint lattice for a width×height pixel domain.
// Basepoints are in normalized [0,1] coordinates. jitter displaces each
// point by up to that fraction of the lattice spacing, drawn from a
// generator seeded with seed, so the same inputs always produce the same
// layout. A domain too small to fit at least one lattice cell on each
// axis is rejected: a zero column or row count would turn the normalized
// spacing into Inf and poison every basepoint with NaN.
func NewGrid(width, height, gridSpacing int, jitter float64, seed int64) (*Grid, error) {
	w := float32(width)
	h := float32(height)

	columns := float32(int(w / float32(gridSpacing)))
	if columns < 1 {
		return nil, &config.ValidationError{
			Field:  "lines.grid_spacing",
			Value:  gridSpacing,
			Reason: fmt.Sprintf("no lattice fits a %dx%d domain", width, height),
		}
	}
	rows := float32(int((h / w) * columns))
	if rows < 1 {
		return nil, &config.ValidationError{
			Field:  "lines.grid_spacing",
			Value:  gridSpacing,
			Reason: fmt.Sprintf("no lattice fits a %dx%d domain", width, height),
		}
	}
	spacingX := 1.0 / columns
	spacingY := 1.0 / rows

	cols := int(columns) + 1
	rws := int(rows) + 1
	lineCount := cols * rws

	g := &Grid{
		Width:       width,
		Height:      height,
		AspectRatio: w / h,
		Columns:     cols,
		Rows:        rws,
		LineCount:   lineCount,
		ScalingRatio: ScalingRatio{
			X: maxf(float32(cols)/referenceColumns, 1.0),
			Y: maxf(float32(rws)/referenceColumns, 1.0),
		},
		Basepoints: make([]components.Basepoint, 0, lineCount),
	}

	rng := rand.New(rand.NewSource(seed))
	jx := float32(jitter) * spacingX
	jy := float32(jitter) * spacingY

	for v := 0; v < rws; v++ {
		for u := 0; u < cols; u++ {
			x := float32(u) * spacingX
			y := float32(v) * spacingY
			if jitter > 0 {
				x += (rng.Float32()*2 - 1) * jx
				y += (rng.Float32()*2 - 1) * jy
			}
			g.Basepoints = append(g.Basepoints, components.Basepoint{X: x, Y: y})
		}
	}

	return g, nil
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
