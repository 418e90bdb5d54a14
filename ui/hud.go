package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	LineCount    int
	GridWidth    int
	GridHeight   int
	Step         int32
	FPS          int32
	Paused       bool
	DisplayMode  string
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Lines: %d | Grid: %dx%d", data.LineCount, data.GridWidth, data.GridHeight),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Step: %d | FPS: %d | Display: %s", data.Step, data.FPS, data.DisplayMode),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the solver phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s", stats.AvgStepDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	phases := []string{
		telemetry.PhaseNoise, telemetry.PhaseAdvect, telemetry.PhaseDiffuse,
		telemetry.PhaseProject, telemetry.PhaseLines, telemetry.PhaseTelemetry,
	}

	for _, phase := range phases {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %6s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// SolverPanel renders the latest window stats.
type SolverPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSolverPanel creates a new solver stats panel.
func NewSolverPanel(x, y, width int32) *SolverPanel {
	return &SolverPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *SolverPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the solver stats panel.
func (s *SolverPanel) Draw(stats telemetry.WindowStats) {
	r := s.renderer
	padding := r.Theme.Padding
	lineHeight := int32(16)

	panelHeight := lineHeight*8 + padding*2
	r.DrawPanel(s.x, s.y, s.width, panelHeight)

	y := s.y + padding

	rl.DrawText("Solver", s.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	w := s.width - padding*2
	y = r.DrawLabelValue(s.x+padding, y, "div pre", fmt.Sprintf("%.4f", stats.DivPreMean), w)
	y = r.DrawLabelValue(s.x+padding, y, "div post", fmt.Sprintf("%.4f", stats.DivPostMean), w)
	y = r.DrawLabelValue(s.x+padding, y, "reduction", fmt.Sprintf("%.3f", stats.DivReduction), w)
	y = r.DrawLabelValue(s.x+padding, y, "speed max", fmt.Sprintf("%.3f", stats.SpeedMax), w)
	y = r.DrawLabelValue(s.x+padding, y, "speed p90", fmt.Sprintf("%.3f", stats.SpeedP90), w)

	if stats.NaNSteps > 0 {
		rl.DrawText(fmt.Sprintf("NaN steps: %d", stats.NaNSteps), s.x+padding, y, 12, rl.Red)
	}
}
