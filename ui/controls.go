package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/config"
)

// SettingsPanel renders the left-side tuning panel. It edits cfg in place
// and reports whether anything changed so the caller can re-validate and
// push the new values into the running systems.
type SettingsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewSettingsPanel creates a new settings panel.
func NewSettingsPanel(x, y, width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (p *SettingsPanel) SetVisible(visible bool) {
	p.visible = visible
}

// IsVisible returns whether the panel is shown.
func (p *SettingsPanel) IsVisible() bool {
	return p.visible
}

// Toggle switches panel visibility.
func (p *SettingsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the panel and applies slider edits to cfg. Returns true
// when any value changed this frame.
func (p *SettingsPanel) Draw(cfg *config.Config) bool {
	if !p.visible {
		return false
	}

	r := p.renderer
	padding := r.Theme.Padding

	panelHeight := int32(470)
	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	x := float32(p.x + padding)
	y := float32(p.y + padding)
	sliderW := float32(p.width - padding*2 - 50)

	rl.DrawText("Settings", int32(x), int32(y), 16, rl.White)
	y += 26

	changed := false

	y = p.header(x, y, "Fluid")
	changed = p.slider(x, &y, sliderW, "Viscosity", "%.1f", &cfg.Fluid.Viscosity, 0.1, 20) || changed
	changed = p.slider(x, &y, sliderW, "Dissipation", "%.2f", &cfg.Fluid.Dissipation, 0, 5) || changed
	changed = p.intSlider(x, &y, sliderW, "Pressure iters", &cfg.Fluid.PressureIterations, 1, 60) || changed

	y = p.header(x, y, "Noise")
	changed = p.slider(x, &y, sliderW, "Multiplier", "%.2f", &cfg.Noise.Multiplier, 0, 1) || changed

	y = p.header(x, y, "Lines")
	changed = p.slider(x, &y, sliderW, "Length", "%.0f", &cfg.Lines.Length, 20, 600) || changed
	changed = p.slider(x, &y, sliderW, "Width", "%.1f", &cfg.Lines.Width, 1, 20) || changed
	changed = p.slider(x, &y, sliderW, "Begin offset", "%.2f", &cfg.Lines.BeginOffset, 0, 1) || changed
	changed = p.slider(x, &y, sliderW, "Variance", "%.2f", &cfg.Lines.Variance, 0, 1) || changed

	y = p.header(x, y, "Color")
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 26}, "Preset: "+presetLabel(cfg.Color.Preset)) {
		cfg.Color.Preset = nextPreset(cfg.Color.Preset)
		changed = true
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 26}, "Mode: "+cfg.Color.Mode) {
		cfg.Color.Mode = nextColorMode(cfg.Color.Mode)
		changed = true
	}
	y += 36

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 26}, "Adv: "+advectionLabel(cfg.Fluid.AdvectionMode)) {
		if cfg.Fluid.AdvectionMode == "single" {
			cfg.Fluid.AdvectionMode = "bidirectional"
		} else {
			cfg.Fluid.AdvectionMode = "single"
		}
		changed = true
	}

	return changed
}

func (p *SettingsPanel) header(x, y float32, title string) float32 {
	rl.DrawText(title, int32(x), int32(y), p.renderer.Theme.HeaderFontSize, p.renderer.Theme.SectionHeader)
	return y + 20
}

// slider draws a labeled SliderBar bound to a config value.
func (p *SettingsPanel) slider(x float32, y *float32, w float32, label, format string, value *float64, min, max float32) bool {
	rl.DrawText(label, int32(x), int32(*y), p.renderer.Theme.FontSize, rl.Gray)
	*y += 14

	cur := float32(*value)
	next := gui.SliderBar(rl.Rectangle{X: x, Y: *y, Width: w, Height: 16}, "", "", cur, min, max)
	rl.DrawText(fmt.Sprintf(format, next), int32(x+w+6), int32(*y+2), p.renderer.Theme.FontSize, rl.LightGray)
	*y += 24

	if next != cur {
		*value = float64(next)
		return true
	}
	return false
}

func (p *SettingsPanel) intSlider(x float32, y *float32, w float32, label string, value *int, min, max int) bool {
	rl.DrawText(label, int32(x), int32(*y), p.renderer.Theme.FontSize, rl.Gray)
	*y += 14

	cur := float32(*value)
	next := gui.SliderBar(rl.Rectangle{X: x, Y: *y, Width: w, Height: 16}, "", "", cur, float32(min), float32(max))
	rl.DrawText(fmt.Sprintf("%d", int(next)), int32(x+w+6), int32(*y+2), p.renderer.Theme.FontSize, rl.LightGray)
	*y += 24

	if int(next) != *value {
		*value = int(next)
		return true
	}
	return false
}

func presetLabel(preset string) string {
	if preset == "" {
		return "plasma"
	}
	return preset
}

func nextPreset(preset string) string {
	switch preset {
	case "", "plasma":
		return "poolside"
	case "poolside":
		return "freedom"
	default:
		return "plasma"
	}
}

func nextColorMode(mode string) string {
	switch mode {
	case "", "velocity":
		return "ring"
	case "ring":
		return "image"
	default:
		return "velocity"
	}
}

func advectionLabel(mode string) string {
	if mode == "single" {
		return "single"
	}
	return "bidirectional"
}
