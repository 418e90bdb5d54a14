// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Lines     LinesConfig     `yaml:"lines"`
	Color     ColorConfig     `yaml:"color"`
	Noise     NoiseConfig     `yaml:"noise"`
	Debug     DebugConfig     `yaml:"debug"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FluidConfig holds velocity solver parameters.
type FluidConfig struct {
	Size                int     `yaml:"size"`                 // Base grid resolution; scaled by aspect ratio
	Timestep            float64 `yaml:"timestep"`             // Fixed solver timestep in seconds
	Viscosity           float64 `yaml:"viscosity"`            // Diffusion strength
	Dissipation         float64 `yaml:"dissipation"`          // Velocity decay per second
	DiffusionIterations int     `yaml:"diffusion_iterations"` // Jacobi iterations for viscosity
	PressureIterations  int     `yaml:"pressure_iterations"`  // Jacobi iterations for the Poisson solve
	AdvectionMode       string  `yaml:"advection_mode"`       // "bidirectional" or "single"
	PressureMode        string  `yaml:"pressure_mode"`        // "clear" or "retain"
	ClearPressure       float64 `yaml:"clear_pressure"`       // Value pressure is cleared to each step
}

// LinesConfig holds line population parameters.
type LinesConfig struct {
	GridSpacing int     `yaml:"grid_spacing"` // Basepoint lattice spacing in pixels
	Length      float64 `yaml:"length"`       // Line length scale
	Width       float64 `yaml:"width"`        // Line width scale
	BeginOffset float64 `yaml:"begin_offset"` // Fraction of the line faded out at the base
	Variance    float64 `yaml:"variance"`     // Per-line individuality, 0 = uniform
	Jitter      float64 `yaml:"jitter"`       // Basepoint jitter as a fraction of spacing
}

// ColorConfig holds line coloring parameters.
type ColorConfig struct {
	Mode      string `yaml:"mode"`       // "velocity", "ring" or "image"
	Preset    string `yaml:"preset"`     // Ring preset: "plasma", "poolside", "freedom"
	ImagePath string `yaml:"image_path"` // Reference image for image mode
}

// NoiseConfig holds curl-noise force parameters.
type NoiseConfig struct {
	Multiplier float64              `yaml:"multiplier"` // Global force multiplier
	Channels   []NoiseChannelConfig `yaml:"channels"`
}

// NoiseChannelConfig holds per-channel noise parameters.
type NoiseChannelConfig struct {
	Scale           float64 `yaml:"scale"`
	Multiplier      float64 `yaml:"multiplier"`
	OffsetIncrement float64 `yaml:"offset_increment"` // Phase advance per step
}

// DebugConfig holds debug display parameters.
type DebugConfig struct {
	Display string `yaml:"display"` // "normal", "noise", "velocity", "pressure", "divergence"
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Aggregation window in seconds
}

// AdvectionMode selects the advection variant.
type AdvectionMode int

const (
	AdvectBidirectional AdvectionMode = iota // forward+reverse correction
	AdvectSingle                             // plain semi-Lagrangian pass
)

// PressureMode selects how pressure is seeded before each solve.
type PressureMode int

const (
	PressureClear PressureMode = iota // clear to a fixed value each step
	PressureRetain
)

// ColorMode selects how line target colors are computed.
type ColorMode int

const (
	ColorVelocity ColorMode = iota // velocity components mapped to RGB
	ColorRing                      // angle lookup into a color wheel
	ColorImage                     // velocity-UV lookup into a reference image
)

// DisplayMode selects what the renderer draws.
type DisplayMode int

const (
	DisplayNormal DisplayMode = iota
	DisplayNoise
	DisplayVelocity
	DisplayPressure
	DisplayDivergence
)

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32 // Fluid.Timestep as float32
	AdvectionMode AdvectionMode
	PressureMode  PressureMode
	ColorMode     ColorMode
	DisplayMode   DisplayMode
}

// ValidationError reports a configuration value that would make the
// simulation numerically unsound. Values are never silently clamped.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that would propagate NaN/Inf through the
// solver or leave the line population empty.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 {
		return &ValidationError{"screen.width", c.Screen.Width, "must be positive"}
	}
	if c.Screen.Height <= 0 {
		return &ValidationError{"screen.height", c.Screen.Height, "must be positive"}
	}
	if c.Fluid.Size <= 0 {
		return &ValidationError{"fluid.size", c.Fluid.Size, "must be positive"}
	}
	if c.Fluid.Timestep <= 0 {
		return &ValidationError{"fluid.timestep", c.Fluid.Timestep, "must be positive"}
	}
	if c.Fluid.Viscosity <= 0 {
		return &ValidationError{"fluid.viscosity", c.Fluid.Viscosity, "must be positive"}
	}
	if c.Fluid.Dissipation < 0 {
		return &ValidationError{"fluid.dissipation", c.Fluid.Dissipation, "must not be negative"}
	}
	if c.Fluid.DiffusionIterations < 0 {
		return &ValidationError{"fluid.diffusion_iterations", c.Fluid.DiffusionIterations, "must not be negative"}
	}
	if c.Fluid.PressureIterations < 0 {
		return &ValidationError{"fluid.pressure_iterations", c.Fluid.PressureIterations, "must not be negative"}
	}
	if _, err := parseAdvectionMode(c.Fluid.AdvectionMode); err != nil {
		return err
	}
	if _, err := parsePressureMode(c.Fluid.PressureMode); err != nil {
		return err
	}
	if c.Lines.GridSpacing <= 0 {
		return &ValidationError{"lines.grid_spacing", c.Lines.GridSpacing, "must be positive"}
	}
	if c.Lines.Length <= 0 {
		return &ValidationError{"lines.length", c.Lines.Length, "must be positive"}
	}
	if c.Lines.Width <= 0 {
		return &ValidationError{"lines.width", c.Lines.Width, "must be positive"}
	}
	if c.Lines.BeginOffset < 0 || c.Lines.BeginOffset > 1 {
		return &ValidationError{"lines.begin_offset", c.Lines.BeginOffset, "must be in [0, 1]"}
	}
	if c.Lines.Variance < 0 || c.Lines.Variance > 1 {
		return &ValidationError{"lines.variance", c.Lines.Variance, "must be in [0, 1]"}
	}
	if _, err := parseColorMode(c.Color.Mode); err != nil {
		return err
	}
	if _, err := parseDisplayMode(c.Debug.Display); err != nil {
		return err
	}
	for i, ch := range c.Noise.Channels {
		if ch.Scale <= 0 {
			return &ValidationError{fmt.Sprintf("noise.channels[%d].scale", i), ch.Scale, "must be positive"}
		}
		if ch.OffsetIncrement < 0 {
			return &ValidationError{fmt.Sprintf("noise.channels[%d].offset_increment", i), ch.OffsetIncrement, "must not be negative"}
		}
	}
	return nil
}

// Rederive recomputes the derived values after an in-place edit of an
// already validated config.
func (c *Config) Rederive() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
// Assumes the config has been validated.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Fluid.Timestep)
	c.Derived.AdvectionMode, _ = parseAdvectionMode(c.Fluid.AdvectionMode)
	c.Derived.PressureMode, _ = parsePressureMode(c.Fluid.PressureMode)
	c.Derived.ColorMode, _ = parseColorMode(c.Color.Mode)
	c.Derived.DisplayMode, _ = parseDisplayMode(c.Debug.Display)
}

func parseAdvectionMode(s string) (AdvectionMode, error) {
	switch s {
	case "", "bidirectional":
		return AdvectBidirectional, nil
	case "single":
		return AdvectSingle, nil
	}
	return 0, &ValidationError{"fluid.advection_mode", s, `must be "bidirectional" or "single"`}
}

func parsePressureMode(s string) (PressureMode, error) {
	switch s {
	case "", "clear":
		return PressureClear, nil
	case "retain":
		return PressureRetain, nil
	}
	return 0, &ValidationError{"fluid.pressure_mode", s, `must be "clear" or "retain"`}
}

func parseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "velocity":
		return ColorVelocity, nil
	case "ring":
		return ColorRing, nil
	case "image":
		return ColorImage, nil
	}
	return 0, &ValidationError{"color.mode", s, `must be "velocity", "ring" or "image"`}
}

func parseDisplayMode(s string) (DisplayMode, error) {
	switch s {
	case "", "normal":
		return DisplayNormal, nil
	case "noise":
		return DisplayNoise, nil
	case "velocity":
		return DisplayVelocity, nil
	case "pressure":
		return DisplayPressure, nil
	case "divergence":
		return DisplayDivergence, nil
	}
	return 0, &ValidationError{"debug.display", s, `must be one of "normal", "noise", "velocity", "pressure", "divergence"`}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
