package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowDuration(t *testing.T) {
	tests := []struct {
		name      string
		windowSec float64
		dt        float32
		wantSteps int32
	}{
		{"5s at 60Hz", 5.0, 1.0 / 60.0, 300},
		{"1s at 60Hz", 1.0, 1.0 / 60.0, 60},
		{"window shorter than a step", 0.001, 1.0 / 60.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.windowSec, tt.dt)
			if got := c.WindowDurationSteps(); got != tt.wantSteps {
				t.Errorf("WindowDurationSteps() = %d, want %d", got, tt.wantSteps)
			}
		})
	}
}

func TestShouldFlushBoundary(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0) // 60 steps per window

	if c.ShouldFlush(59) {
		t.Error("ShouldFlush(59) = true before the window elapsed")
	}
	if !c.ShouldFlush(60) {
		t.Error("ShouldFlush(60) = false at the window boundary")
	}

	c.Flush(60, LineSample{})
	if c.ShouldFlush(119) {
		t.Error("ShouldFlush(119) = true in the second window")
	}
	if !c.ShouldFlush(120) {
		t.Error("ShouldFlush(120) = false at the second boundary")
	}
}

func TestFlushAggregates(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	c.RecordStep(1.0, 0.1, 2.0, 1.0, false)
	c.RecordStep(2.0, 0.4, 4.0, 2.0, false)
	c.RecordStep(3.0, 0.3, 3.0, 3.0, true)
	c.RecordFrame()
	c.RecordFrame()

	lines := LineSample{Count: 100, OffsetMean: 5, OffsetMax: 20, OpacityMean: 0.7}
	stats := c.Flush(60, lines)

	if stats.Steps != 3 {
		t.Errorf("Steps = %d, want 3", stats.Steps)
	}
	if stats.Frames != 2 {
		t.Errorf("Frames = %d, want 2", stats.Frames)
	}
	if stats.NaNSteps != 1 {
		t.Errorf("NaNSteps = %d, want 1", stats.NaNSteps)
	}
	if math.Abs(stats.DivPreMean-2.0) > 1e-12 {
		t.Errorf("DivPreMean = %v, want 2.0", stats.DivPreMean)
	}
	if stats.DivPreMax != 3.0 {
		t.Errorf("DivPreMax = %v, want 3.0", stats.DivPreMax)
	}
	if stats.DivPostMax != 0.4 {
		t.Errorf("DivPostMax = %v, want 0.4", stats.DivPostMax)
	}
	if stats.SpeedMax != 4.0 {
		t.Errorf("SpeedMax = %v, want 4.0", stats.SpeedMax)
	}
	if math.Abs(stats.SpeedMean-2.0) > 1e-12 {
		t.Errorf("SpeedMean = %v, want 2.0", stats.SpeedMean)
	}

	// Mean of post/pre ratios: (0.1/1 + 0.4/2 + 0.3/3) / 3 = 0.4/3.
	want := (0.1 + 0.2 + 0.1) / 3
	if math.Abs(stats.DivReduction-want) > 1e-12 {
		t.Errorf("DivReduction = %v, want %v", stats.DivReduction, want)
	}

	if stats.LineCount != 100 || stats.OffsetMax != 20 {
		t.Errorf("line sample not carried through: %+v", stats)
	}
	if stats.WindowStartStep != 0 || stats.WindowEndStep != 60 {
		t.Errorf("window bounds = [%d, %d], want [0, 60]", stats.WindowStartStep, stats.WindowEndStep)
	}
}

func TestFlushResetsBuffers(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	c.RecordStep(1.0, 0.5, 1.0, 1.0, true)
	c.RecordFrame()
	c.Flush(60, LineSample{})

	stats := c.Flush(120, LineSample{})
	if stats.Steps != 0 || stats.Frames != 0 || stats.NaNSteps != 0 {
		t.Errorf("second flush not empty: %+v", stats)
	}
	if stats.DivPreMean != 0 || stats.SpeedMax != 0 || stats.DivReduction != 0 {
		t.Errorf("second flush carried samples over: %+v", stats)
	}
	if stats.WindowStartStep != 60 {
		t.Errorf("WindowStartStep = %d, want 60", stats.WindowStartStep)
	}
}

func TestDivReductionSkipsNearZeroPre(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	// A zero-pre step must not produce a divide-by-zero ratio.
	c.RecordStep(0, 0, 0, 0, false)
	c.RecordStep(2.0, 1.0, 1.0, 1.0, false)

	stats := c.Flush(60, LineSample{})
	if math.Abs(stats.DivReduction-0.5) > 1e-12 {
		t.Errorf("DivReduction = %v, want 0.5 from the single valid step", stats.DivReduction)
	}
}

func TestSummarize(t *testing.T) {
	values := []float64{5, 1, 3, 2, 4}

	mean, p50, p90, max := summarize(values)
	if math.Abs(mean-3.0) > 1e-12 {
		t.Errorf("mean = %v, want 3.0", mean)
	}
	if p50 != 3 {
		t.Errorf("p50 = %v, want 3", p50)
	}
	if p90 != 5 {
		t.Errorf("p90 = %v, want 5", p90)
	}
	if max != 5 {
		t.Errorf("max = %v, want 5", max)
	}

	// summarize must not reorder the caller's slice.
	if values[0] != 5 || values[1] != 1 {
		t.Error("summarize mutated its input")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	mean, p50, p90, max := summarize(nil)
	if mean != 0 || p50 != 0 || p90 != 0 || max != 0 {
		t.Errorf("summarize(nil) = (%v, %v, %v, %v), want zeros", mean, p50, p90, max)
	}
}
