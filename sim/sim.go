// Package sim owns the frame loop: it drives the fluid solver at a fixed
// timestep, advances the line population once per frame, and wires the
// renderer, UI and telemetry together.
package sim

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/fluid"
	"github.com/pthm-cable/drift/lines"
	"github.com/pthm-cable/drift/noise"
	"github.com/pthm-cable/drift/renderer"
	"github.com/pthm-cable/drift/telemetry"
	"github.com/pthm-cable/drift/ui"
)

// maxFrameTime caps how much simulation time a single frame may owe.
// A long stall (window drag, debugger) degrades to slow motion instead
// of a burst of catch-up steps.
const maxFrameTime = 1.0 / 10.0

// Options configures a simulation instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg *config.Config // working copy, edited by the settings panel

	disp    *fluid.Dispatcher
	solver  *fluid.Solver
	gen     *noise.Generator
	grid    *lines.Grid
	lineSys *lines.System

	lineRenderer *renderer.LineRenderer
	overlay      *renderer.FieldOverlay

	settings    *ui.SettingsPanel
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	solverPanel *ui.SolverPanel

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	lastStats     telemetry.WindowStats
	logStats      bool

	seed        int64
	step        int32
	paused      bool
	showPerf    bool
	displayMode config.DisplayMode

	timestep    float32
	accumulator float32

	screenWidth   int32
	screenHeight  int32
	settingsDirty bool
}

// New creates a simulation from the global config and the given options.
func New(opts Options) (*Sim, error) {
	base := config.Cfg()

	// Work on a copy so UI edits never mutate the global config.
	cfg := *base
	cfg.Derived = base.Derived

	s := &Sim{
		cfg:          &cfg,
		seed:         opts.Seed,
		logStats:     opts.LogStats,
		timestep:     cfg.Derived.DT32,
		displayMode:  cfg.Derived.DisplayMode,
		screenWidth:  int32(cfg.Screen.Width),
		screenHeight: int32(cfg.Screen.Height),
	}

	s.disp = fluid.NewDispatcher()

	if err := s.buildWorld(int(s.screenWidth), int(s.screenHeight)); err != nil {
		return nil, err
	}

	if !opts.Headless {
		s.lineRenderer = renderer.NewLineRenderer(s.screenWidth, s.screenHeight, float32(cfg.Lines.BeginOffset))
		s.overlay = renderer.NewFieldOverlay(s.screenWidth, s.screenHeight)
		s.settings = ui.NewSettingsPanel(10, 100, 290)
		s.hud = ui.NewHUD()
		s.perfPanel = ui.NewPerfPanel(s.screenWidth-240, 10)
		s.solverPanel = ui.NewSolverPanel(s.screenWidth-240, 130, 230)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	s.collector = telemetry.NewCollector(statsWindow, s.timestep)
	s.perfCollector = telemetry.NewPerfCollector(int(1.0 / s.timestep))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.outputManager = om
	if err := s.outputManager.WriteConfig(s.cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	slog.Info("simulation ready",
		"grid_w", s.solver.Width(),
		"grid_h", s.solver.Height(),
		"lines", s.lineSys.Count(),
		"seed", s.seed,
	)

	return s, nil
}

// buildWorld creates the grid, solver, noise generator and line system for
// a domain of the given pixel size. Used at init and on resize.
func (s *Sim) buildWorld(screenW, screenH int) error {
	grid, err := lines.NewGrid(screenW, screenH, s.cfg.Lines.GridSpacing, s.cfg.Lines.Jitter, s.seed)
	if err != nil {
		return err
	}

	fluidW := s.cfg.Fluid.Size * grid.ScalingRatio.RoundedX()
	fluidH := s.cfg.Fluid.Size * grid.ScalingRatio.RoundedY()

	solver, err := fluid.NewSolver(fluidW, fluidH, s.cfg, s.disp)
	if err != nil {
		return err
	}

	s.grid = grid
	s.solver = solver
	s.gen = noise.NewGenerator(fluidW, fluidH, s.seed, s.cfg, s.disp)

	if s.lineSys == nil {
		s.lineSys = lines.NewSystem(grid, s.seed, s.cfg)
		s.loadColorImage()
	} else {
		s.lineSys.Rebuild(grid)
	}

	return nil
}

// loadColorImage loads the reference image for the image color mode, if
// one is configured. Failure falls back to velocity coloring.
func (s *Sim) loadColorImage() {
	if s.cfg.Color.ImagePath == "" {
		return
	}
	img, err := lines.LoadImageSampler(s.cfg.Color.ImagePath)
	if err != nil {
		slog.Warn("failed to load color image", "path", s.cfg.Color.ImagePath, "error", err)
		return
	}
	s.lineSys.SetImageSampler(img)
}

// Update advances the simulation by one frame in graphics mode.
func (s *Sim) Update() {
	s.handleInput()

	if s.paused {
		return
	}

	frameTime := rl.GetFrameTime()
	s.advanceFrame(frameTime)
	s.perfCollector.RecordFrame()
	s.collector.RecordFrame()
}

// UpdateHeadless advances the simulation by one fixed frame without raylib.
func (s *Sim) UpdateHeadless() {
	s.advanceFrame(s.timestep)
}

// advanceFrame runs the fixed-timestep accumulator loop, then advances the
// lines once with the frame delta.
func (s *Sim) advanceFrame(frameTime float32) {
	if frameTime > maxFrameTime {
		frameTime = maxFrameTime
	}

	if s.settingsDirty {
		s.applySettings()
	}

	p := s.perfCollector
	p.StartStep()

	s.accumulator += frameTime
	for s.accumulator >= s.timestep {
		s.solverStep()
		s.accumulator -= s.timestep
	}

	p.StartPhase(telemetry.PhaseLines)
	s.lineSys.Advance(frameTime, s.solver.Velocity())

	p.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	p.EndStep()
}

// solverStep runs one fixed timestep of the fluid simulation. Phase times
// accumulate into the enclosing frame sample.
func (s *Sim) solverStep() {
	p := s.perfCollector

	p.StartPhase(telemetry.PhaseNoise)
	s.gen.Generate(s.timestep)

	s.solver.StepInstrumented(s.timestep, s.gen.Force(), p.StartPhase)

	p.StartPhase(telemetry.PhaseTelemetry)
	pre, post := s.solver.DivergenceNorms()
	speedMax, speedMean := s.solver.SpeedStats()
	s.collector.RecordStep(pre, post, speedMax, speedMean, s.solver.HasNaN())

	s.step++
}

// applySettings validates the panel-edited config and pushes it into the
// running systems at a frame boundary. Invalid edits are rejected whole.
func (s *Sim) applySettings() {
	s.settingsDirty = false

	if err := s.cfg.Validate(); err != nil {
		slog.Warn("rejecting settings change", "error", err)
		return
	}
	s.cfg.Rederive()

	s.solver.ApplySettings(s.cfg)
	s.gen.ApplySettings(s.cfg)
	s.lineSys.ApplySettings(s.cfg)
	if s.cfg.Derived.ColorMode == config.ColorImage {
		s.loadColorImage()
	}
	if s.lineRenderer != nil {
		s.lineRenderer.SetBeginOffset(float32(s.cfg.Lines.BeginOffset))
	}
}

// Step returns the number of completed solver steps.
func (s *Sim) Step() int32 {
	return s.step
}

// Unload releases resources and stops the worker pool.
func (s *Sim) Unload() {
	if s.lineRenderer != nil {
		s.lineRenderer.Unload()
	}
	if s.disp != nil {
		s.disp.Stop()
	}
	if s.outputManager != nil {
		if err := s.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
