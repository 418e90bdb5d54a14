package sim

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/config"
)

// handleInput processes keyboard input.
func (s *Sim) handleInput() {
	s.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		s.paused = !s.paused
	}

	if rl.IsKeyPressed(rl.KeyS) {
		s.settings.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		s.showPerf = !s.showPerf
	}

	// Display mode cycle
	if rl.IsKeyPressed(rl.KeyD) {
		s.displayMode++
		if s.displayMode > config.DisplayDivergence {
			s.displayMode = config.DisplayNormal
		}
	}
}

// handleResize checks for window resize and rebuilds the world for the new
// domain. The fluid state restarts from rest; the line lattice is laid out
// fresh for the new dimensions.
func (s *Sim) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == s.screenWidth && h == s.screenHeight {
		return
	}
	s.Resize(w, h)
}

// Resize rebuilds the simulation for a new domain size.
func (s *Sim) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := s.buildWorld(int(width), int(height)); err != nil {
		// Window shrunk below one lattice cell; keep the old world.
		return
	}
	s.screenWidth = width
	s.screenHeight = height

	if s.lineRenderer != nil {
		s.lineRenderer.Resize(width, height)
	}
	if s.overlay != nil {
		s.overlay.Resize(width, height)
	}
	if s.perfPanel != nil {
		s.perfPanel.SetPosition(width-240, 10)
	}
	if s.solverPanel != nil {
		s.solverPanel.SetPosition(width-240, 130)
	}
}
