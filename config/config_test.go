package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("default screen size %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Fluid.Size != 128 {
		t.Errorf("default fluid size = %d, want 128", cfg.Fluid.Size)
	}
	if cfg.Fluid.Timestep <= 0 {
		t.Errorf("default timestep = %v, want positive", cfg.Fluid.Timestep)
	}
	if len(cfg.Noise.Channels) == 0 {
		t.Error("defaults define no noise channels")
	}
	if cfg.Telemetry.StatsWindow <= 0 {
		t.Errorf("default stats window = %v, want positive", cfg.Telemetry.StatsWindow)
	}
}

func TestLoadComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Derived.DT32 != float32(cfg.Fluid.Timestep) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, float32(cfg.Fluid.Timestep))
	}
	if cfg.Derived.AdvectionMode != AdvectBidirectional {
		t.Errorf("derived advection mode = %v, want bidirectional", cfg.Derived.AdvectionMode)
	}
	if cfg.Derived.ColorMode != ColorRing {
		t.Errorf("derived color mode = %v, want ring", cfg.Derived.ColorMode)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	body := "fluid:\n  viscosity: 2.5\nlines:\n  length: 100\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) failed: %v", path, err)
	}

	if cfg.Fluid.Viscosity != 2.5 {
		t.Errorf("viscosity = %v, want 2.5", cfg.Fluid.Viscosity)
	}
	if cfg.Lines.Length != 100 {
		t.Errorf("length = %v, want 100", cfg.Lines.Length)
	}
	// Untouched fields keep their defaults.
	if cfg.Fluid.Size != 128 {
		t.Errorf("fluid size = %d after partial override, want 128", cfg.Fluid.Size)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/config.yaml"); err == nil {
		t.Fatal("Load on a missing path succeeded, want error")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero width", func(c *Config) { c.Screen.Width = 0 }, "screen.width"},
		{"zero height", func(c *Config) { c.Screen.Height = 0 }, "screen.height"},
		{"zero fluid size", func(c *Config) { c.Fluid.Size = 0 }, "fluid.size"},
		{"zero timestep", func(c *Config) { c.Fluid.Timestep = 0 }, "fluid.timestep"},
		{"negative timestep", func(c *Config) { c.Fluid.Timestep = -0.01 }, "fluid.timestep"},
		{"zero viscosity", func(c *Config) { c.Fluid.Viscosity = 0 }, "fluid.viscosity"},
		{"negative dissipation", func(c *Config) { c.Fluid.Dissipation = -1 }, "fluid.dissipation"},
		{"negative diffusion iterations", func(c *Config) { c.Fluid.DiffusionIterations = -1 }, "fluid.diffusion_iterations"},
		{"negative pressure iterations", func(c *Config) { c.Fluid.PressureIterations = -1 }, "fluid.pressure_iterations"},
		{"bad advection mode", func(c *Config) { c.Fluid.AdvectionMode = "sideways" }, "fluid.advection_mode"},
		{"bad pressure mode", func(c *Config) { c.Fluid.PressureMode = "forget" }, "fluid.pressure_mode"},
		{"zero grid spacing", func(c *Config) { c.Lines.GridSpacing = 0 }, "lines.grid_spacing"},
		{"zero line length", func(c *Config) { c.Lines.Length = 0 }, "lines.length"},
		{"zero line width", func(c *Config) { c.Lines.Width = 0 }, "lines.width"},
		{"negative begin offset", func(c *Config) { c.Lines.BeginOffset = -0.1 }, "lines.begin_offset"},
		{"begin offset above one", func(c *Config) { c.Lines.BeginOffset = 1.2 }, "lines.begin_offset"},
		{"variance above one", func(c *Config) { c.Lines.Variance = 1.5 }, "lines.variance"},
		{"negative variance", func(c *Config) { c.Lines.Variance = -0.1 }, "lines.variance"},
		{"bad color mode", func(c *Config) { c.Color.Mode = "rainbow" }, "color.mode"},
		{"bad display mode", func(c *Config) { c.Debug.Display = "matrix" }, "debug.display"},
		{"zero channel scale", func(c *Config) { c.Noise.Channels[0].Scale = 0 }, "noise.channels[0].scale"},
		{"negative channel increment", func(c *Config) { c.Noise.Channels[1].OffsetIncrement = -1 }, "noise.channels[1].offset_increment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load(\"\") failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type %T, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateAcceptsModeSynonyms(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	cfg.Fluid.AdvectionMode = "single"
	cfg.Fluid.PressureMode = "retain"
	cfg.Color.Mode = "image"
	cfg.Debug.Display = "divergence"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate rejected valid modes: %v", err)
	}

	cfg.Rederive()
	if cfg.Derived.AdvectionMode != AdvectSingle {
		t.Errorf("advection mode = %v, want single", cfg.Derived.AdvectionMode)
	}
	if cfg.Derived.PressureMode != PressureRetain {
		t.Errorf("pressure mode = %v, want retain", cfg.Derived.PressureMode)
	}
	if cfg.Derived.ColorMode != ColorImage {
		t.Errorf("color mode = %v, want image", cfg.Derived.ColorMode)
	}
	if cfg.Derived.DisplayMode != DisplayDivergence {
		t.Errorf("display mode = %v, want divergence", cfg.Derived.DisplayMode)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fluid.Viscosity = 3.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if back.Fluid.Viscosity != 3.25 {
		t.Errorf("round-tripped viscosity = %v, want 3.25", back.Fluid.Viscosity)
	}
}
