package telemetry

import (
	"gonum.org/v1/gonum/stat"
)

// Collector accumulates per-step solver samples within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationSteps int32
	dt                  float32

	windowStartStep int32

	// Per-step samples for the current window
	divPre    []float64
	divPost   []float64
	speedMax  []float64
	speedMean []float64

	frames   int
	nanSteps int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per solver step (used for step-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	stepsPerWindow := int32(windowDurationSec / float64(dt))
	if stepsPerWindow < 1 {
		stepsPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationSteps: stepsPerWindow,
		dt:                  dt,
	}
}

// RecordStep records one solver step's divergence norms and speed stats.
func (c *Collector) RecordStep(divPre, divPost, speedMax, speedMean float64, hasNaN bool) {
	c.divPre = append(c.divPre, divPre)
	c.divPost = append(c.divPost, divPost)
	c.speedMax = append(c.speedMax, speedMax)
	c.speedMean = append(c.speedMean, speedMean)
	if hasNaN {
		c.nanSteps++
	}
}

// RecordFrame records that a frame was presented during the window.
func (c *Collector) RecordFrame() {
	c.frames++
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(currentStep int32) bool {
	return currentStep-c.windowStartStep >= c.windowDurationSteps
}

// LineSample holds line population values sampled at window end.
type LineSample struct {
	Count       int
	OffsetMean  float64
	OffsetMax   float64
	OpacityMean float64
}

// Flush produces a WindowStats and resets the sample buffers for the next
// window. lines is sampled by the caller at flush time.
func (c *Collector) Flush(currentStep int32, lines LineSample) WindowStats {
	// Mean post/pre divergence ratio over steps where the pre norm is
	// meaningfully nonzero.
	var ratios []float64
	for i := range c.divPre {
		if c.divPre[i] > 1e-12 {
			ratios = append(ratios, c.divPost[i]/c.divPre[i])
		}
	}
	var reduction float64
	if len(ratios) > 0 {
		reduction = stat.Mean(ratios, nil)
	}

	preMean, _, _, preMax := summarize(c.divPre)
	postMean, _, _, postMax := summarize(c.divPost)
	speedMean, speedP50, speedP90, _ := summarize(c.speedMean)
	_, _, _, speedMax := summarize(c.speedMax)

	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * float64(c.dt),
		Steps:           len(c.divPre),
		Frames:          c.frames,

		DivPreMean:   preMean,
		DivPreMax:    preMax,
		DivPostMean:  postMean,
		DivPostMax:   postMax,
		DivReduction: reduction,

		SpeedMax:  speedMax,
		SpeedMean: speedMean,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		LineCount:   lines.Count,
		OffsetMean:  lines.OffsetMean,
		OffsetMax:   lines.OffsetMax,
		OpacityMean: lines.OpacityMean,

		NaNSteps: c.nanSteps,
	}

	c.windowStartStep = currentStep
	c.divPre = c.divPre[:0]
	c.divPost = c.divPost[:0]
	c.speedMax = c.speedMax[:0]
	c.speedMean = c.speedMean[:0]
	c.frames = 0
	c.nanSteps = 0

	return stats
}

// WindowDurationSteps returns the number of solver steps per window.
func (c *Collector) WindowDurationSteps() int32 {
	return c.windowDurationSteps
}
