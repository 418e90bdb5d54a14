// Package components defines ECS components for the line population.
package components

// Basepoint is a line's immutable anchor in normalized [0,1] domain
// coordinates. Never mutated after creation; resizing regenerates the
// whole population rather than migrating basepoints.
type Basepoint struct {
	X, Y float32
}

// Motion holds the evolving endpoint offset and its velocity, both in
// world units relative to the basepoint.
type Motion struct {
	OffsetX, OffsetY float32
	VelX, VelY       float32
}

// Stroke holds the evolving visual state of a line.
type Stroke struct {
	Width   float32
	Opacity float32

	// Current color and the eased color velocity driving it toward the
	// per-frame target.
	R, G, B, A    float32
	VelR, VelG, VelB float32
}
