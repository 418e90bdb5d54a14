package fluid

import (
	"github.com/pthm-cable/drift/config"
)

// Solver owns the velocity, divergence and pressure fields and advances
// them through the fixed stage order of the stable-fluids method. All
// buffers are allocated up front; nothing allocates per step.
type Solver struct {
	width, height int

	viscosity           float32
	dissipation         float32
	diffusionIterations int
	pressureIterations  int
	advectionMode       config.AdvectionMode
	pressureMode        config.PressureMode
	clearPressure       float32

	velocity   *Field
	forward    []float32 // forward-advected scratch
	reverse    []float32 // reverse-advected scratch
	divergence []float32
	pressure   *ScalarField

	disp *Dispatcher
}

// NewSolver allocates a solver for a width×height grid. Degenerate
// dimensions are rejected here rather than left to surface as NaN later.
func NewSolver(width, height int, cfg *config.Config, disp *Dispatcher) (*Solver, error) {
	if width <= 0 {
		return nil, &config.ValidationError{Field: "fluid grid width", Value: width, Reason: "must be positive"}
	}
	if height <= 0 {
		return nil, &config.ValidationError{Field: "fluid grid height", Value: height, Reason: "must be positive"}
	}

	s := &Solver{
		width:    width,
		height:   height,
		velocity: NewField(width, height),
		forward:  make([]float32, 2*width*height),
		reverse:  make([]float32, 2*width*height),
		divergence: make([]float32, width*height),
		pressure:   NewScalarField(width, height),
		disp:       disp,
	}
	s.ApplySettings(cfg)

	return s, nil
}

// ApplySettings takes over the solver parameters from cfg. Safe to call
// between steps only; grid resolution changes require a new solver.
func (s *Solver) ApplySettings(cfg *config.Config) {
	s.viscosity = float32(cfg.Fluid.Viscosity)
	s.dissipation = float32(cfg.Fluid.Dissipation)
	s.diffusionIterations = cfg.Fluid.DiffusionIterations
	s.pressureIterations = cfg.Fluid.PressureIterations
	s.advectionMode = cfg.Derived.AdvectionMode
	s.pressureMode = cfg.Derived.PressureMode
	s.clearPressure = float32(cfg.Fluid.ClearPressure)
}

// Width returns the grid width in cells.
func (s *Solver) Width() int { return s.width }

// Height returns the grid height in cells.
func (s *Solver) Height() int { return s.height }

// Velocity exposes the velocity field. The renderer and line system read
// it; only the solver writes it.
func (s *Solver) Velocity() *Field { return s.velocity }

// Divergence exposes the scalar divergence field computed by the last step.
func (s *Solver) Divergence() []float32 { return s.divergence }

// Pressure exposes the scalar pressure field computed by the last step.
func (s *Solver) Pressure() []float32 { return s.pressure.Cur() }

// Step advances the velocity field by dt. force is the shared noise force
// buffer (2 floats per cell) added after diffusion; it may be nil to skip
// injection. Stages run strictly in order, each one a completed dispatch
// before the next begins.
func (s *Solver) Step(dt float32, force []float32) {
	s.StepInstrumented(dt, force, func(string) {})
}

// StepInstrumented is Step with a stage callback, invoked with "advect",
// "diffuse" and "project" as each stage group begins. Used for phase
// timing.
func (s *Solver) StepInstrumented(dt float32, force []float32, mark func(stage string)) {
	mark("advect")
	s.advect(dt)

	mark("diffuse")
	s.diffuse(dt)
	if force != nil {
		s.inject(dt, force)
	}

	mark("project")
	s.computeDivergence()
	s.solvePressure()
	s.subtractGradient()
}
