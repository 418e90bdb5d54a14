package sim

import (
	"testing"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
)

func init() {
	config.MustInit("")
}

// newHeadlessSim resets the global config, applies mutate to it, and
// builds a headless simulation from it.
func newHeadlessSim(t *testing.T, mutate func(*config.Config)) *Sim {
	t.Helper()
	config.MustInit("")
	if mutate != nil {
		cfg := config.Cfg()
		mutate(cfg)
		cfg.Rederive()
	}

	s, err := New(Options{Seed: 42, Headless: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(s.Unload)
	return s
}

func TestHeadlessRestStaysAtRest(t *testing.T) {
	s := newHeadlessSim(t, func(cfg *config.Config) {
		cfg.Noise.Multiplier = 0
	})

	if s.solver.Width() != 128 || s.solver.Height() != 128 {
		t.Fatalf("fluid grid = %dx%d, want 128x128 at the default window size",
			s.solver.Width(), s.solver.Height())
	}

	for i := 0; i < 30; i++ {
		s.UpdateHeadless()
	}

	for i, v := range s.solver.Velocity().Cur() {
		if v != 0 {
			t.Fatalf("velocity[%d] = %v with muted noise, want 0", i, v)
		}
	}

	s.lineSys.Each(func(_ components.Basepoint, m components.Motion, st components.Stroke) {
		if m.OffsetX > 0.5 || m.OffsetX < -0.5 || m.OffsetY > 0.5 || m.OffsetY < -0.5 {
			t.Fatalf("line offset (%v, %v) under zero flow, want near rest", m.OffsetX, m.OffsetY)
		}
		if st.Opacity > 1e-3 {
			t.Fatalf("line opacity %v under zero flow, want faded out", st.Opacity)
		}
	})
}

func TestFrameTimeClamped(t *testing.T) {
	s := newHeadlessSim(t, nil)

	// A stalled frame owes at most maxFrameTime of simulation, not the
	// full stall.
	s.advanceFrame(5.0)

	maxSteps := int32(maxFrameTime/s.timestep) + 1
	if s.step > maxSteps {
		t.Errorf("ran %d solver steps for a 5s frame, want at most %d", s.step, maxSteps)
	}
	if s.step == 0 {
		t.Error("clamped frame ran no solver steps at all")
	}
}

func TestInvalidSettingsRejectedWhole(t *testing.T) {
	s := newHeadlessSim(t, nil)

	if s.cfg.Derived.ColorMode != config.ColorRing {
		t.Fatalf("default color mode = %v, want ring", s.cfg.Derived.ColorMode)
	}

	// One valid edit and one invalid edit in the same batch: nothing may
	// be applied.
	s.cfg.Color.Mode = "velocity"
	s.cfg.Fluid.Viscosity = -1
	s.settingsDirty = true
	s.UpdateHeadless()

	if s.cfg.Derived.ColorMode != config.ColorRing {
		t.Errorf("derived color mode = %v after a rejected batch, want ring untouched",
			s.cfg.Derived.ColorMode)
	}

	// Fixing the invalid field lets the whole batch through.
	s.cfg.Fluid.Viscosity = 5
	s.settingsDirty = true
	s.UpdateHeadless()

	if s.cfg.Derived.ColorMode != config.ColorVelocity {
		t.Errorf("derived color mode = %v after a valid batch, want velocity",
			s.cfg.Derived.ColorMode)
	}
}

func TestHeadlessStepCounting(t *testing.T) {
	s := newHeadlessSim(t, nil)

	for i := 0; i < 10; i++ {
		s.UpdateHeadless()
	}

	// One fixed frame per update, one solver step per fixed frame.
	if s.Step() != 10 {
		t.Errorf("Step() = %d after 10 headless updates, want 10", s.Step())
	}
}
