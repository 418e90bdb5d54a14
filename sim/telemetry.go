package sim

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes
// the aggregated records out.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush(s.step) {
		return
	}

	stats := s.collector.Flush(s.step, s.sampleLines())
	perfStats := s.perfCollector.Stats()
	s.lastStats = stats

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndStep); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleLines walks the line population once for window-end statistics.
func (s *Sim) sampleLines() telemetry.LineSample {
	var (
		count      int
		offsetSum  float64
		offsetMax  float64
		opacitySum float64
	)

	s.lineSys.Each(func(_ components.Basepoint, m components.Motion, st components.Stroke) {
		count++
		mag := math.Sqrt(float64(m.OffsetX*m.OffsetX + m.OffsetY*m.OffsetY))
		offsetSum += mag
		if mag > offsetMax {
			offsetMax = mag
		}
		opacitySum += float64(st.Opacity)
	})

	sample := telemetry.LineSample{Count: count, OffsetMax: offsetMax}
	if count > 0 {
		sample.OffsetMean = offsetSum / float64(count)
		sample.OpacityMean = opacitySum / float64(count)
	}
	return sample
}
