package sim

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/ui"
)

// Draw renders one frame: the line population or a debug field overlay,
// then the UI on top.
func (s *Sim) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(s.lineRenderer.Background())

	switch s.displayMode {
	case config.DisplayNoise:
		s.overlay.DrawVector(s.gen.Force(), s.solver.Width(), s.solver.Height(), 4)
	case config.DisplayVelocity:
		s.overlay.DrawVector(s.solver.Velocity().Cur(), s.solver.Width(), s.solver.Height(), 2)
	case config.DisplayPressure:
		s.overlay.DrawScalar(s.solver.Pressure(), s.solver.Width(), s.solver.Height(), 8)
	case config.DisplayDivergence:
		s.overlay.DrawScalar(s.solver.Divergence(), s.solver.Width(), s.solver.Height(), 8)
	default:
		s.lineRenderer.Draw(s.lineSys)
	}

	s.hud.Draw(ui.HUDData{
		Title:        "Drift",
		LineCount:    s.lineSys.Count(),
		GridWidth:    s.solver.Width(),
		GridHeight:   s.solver.Height(),
		Step:         s.step,
		FPS:          rl.GetFPS(),
		Paused:       s.paused,
		DisplayMode:  displayLabel(s.displayMode),
		ScreenWidth:  s.screenWidth,
		ScreenHeight: s.screenHeight,
	})
	s.hud.DrawControls(s.screenWidth, s.screenHeight,
		"[Space] pause  [S] settings  [P] perf  [D] display mode  [F11] fullscreen")

	if s.settings.Draw(s.cfg) {
		s.settingsDirty = true
	}

	if s.showPerf {
		s.perfPanel.Draw(s.perfCollector.Stats())
		s.solverPanel.Draw(s.lastStats)
	}

	rl.EndDrawing()
}

func displayLabel(mode config.DisplayMode) string {
	switch mode {
	case config.DisplayNoise:
		return "noise"
	case config.DisplayVelocity:
		return "velocity"
	case config.DisplayPressure:
		return "pressure"
	case config.DisplayDivergence:
		return "divergence"
	default:
		return "normal"
	}
}
