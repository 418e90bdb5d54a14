package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated solver and line statistics for a time window.
type WindowStats struct {
	WindowStartStep int32   `csv:"-"`
	WindowEndStep   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Steps           int     `csv:"steps"`
	Frames          int     `csv:"frames"`

	// Divergence L2 norms, before and after the pressure projection.
	DivPreMean   float64 `csv:"div_pre_mean"`
	DivPreMax    float64 `csv:"div_pre_max"`
	DivPostMean  float64 `csv:"div_post_mean"`
	DivPostMax   float64 `csv:"div_post_max"`
	DivReduction float64 `csv:"div_reduction"` // mean post/pre ratio

	// Velocity magnitudes sampled per step
	SpeedMax  float64 `csv:"speed_max"`
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Line population, sampled at window end
	LineCount   int     `csv:"lines"`
	OffsetMean  float64 `csv:"offset_mean"`
	OffsetMax   float64 `csv:"offset_max"`
	OpacityMean float64 `csv:"opacity_mean"`

	// Steps in which the velocity field contained NaN/Inf. Always zero
	// under a valid configuration.
	NaNSteps int `csv:"nan_steps"`
}

// summarize computes mean, median, p90 and max of a sample set.
func summarize(values []float64) (mean, p50, p90, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	max = floats.Max(sorted)
	return mean, p50, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartStep)),
		slog.Int("window_end", int(s.WindowEndStep)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("steps", s.Steps),
		slog.Int("frames", s.Frames),
		slog.Float64("div_pre_mean", s.DivPreMean),
		slog.Float64("div_pre_max", s.DivPreMax),
		slog.Float64("div_post_mean", s.DivPostMean),
		slog.Float64("div_post_max", s.DivPostMax),
		slog.Float64("div_reduction", s.DivReduction),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Int("lines", s.LineCount),
		slog.Float64("offset_mean", s.OffsetMean),
		slog.Float64("offset_max", s.OffsetMax),
		slog.Float64("opacity_mean", s.OpacityMean),
		slog.Int("nan_steps", s.NaNSteps),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndStep,
		"sim_time", s.SimTimeSec,
		"steps", s.Steps,
		"frames", s.Frames,
		"div_pre_mean", s.DivPreMean,
		"div_post_mean", s.DivPostMean,
		"div_reduction", s.DivReduction,
		"speed_max", s.SpeedMax,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"lines", s.LineCount,
		"offset_mean", s.OffsetMean,
		"opacity_mean", s.OpacityMean,
		"nan_steps", s.NaNSteps,
	)
}
