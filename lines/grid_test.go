package lines

import (
	"errors"
	"testing"

	"github.com/pthm-cable/drift/config"
)

func mustGrid(t *testing.T, width, height, spacing int, jitter float64, seed int64) *Grid {
	t.Helper()
	g, err := NewGrid(width, height, spacing, jitter, seed)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d, %d) failed: %v", width, height, spacing, err)
	}
	return g
}

func TestGridLatticeDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		spacing       int
		wantCols      int
		wantRows      int
	}{
		{"1280x800 spacing 15", 1280, 800, 15, 86, 54},
		{"square spacing 10", 500, 500, 10, 51, 51},
		{"tall window", 400, 800, 20, 21, 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.width, tt.height, tt.spacing, 0, 1)

			if g.Columns != tt.wantCols {
				t.Errorf("Columns = %d, want %d", g.Columns, tt.wantCols)
			}
			if g.Rows != tt.wantRows {
				t.Errorf("Rows = %d, want %d", g.Rows, tt.wantRows)
			}
			if g.LineCount != tt.wantCols*tt.wantRows {
				t.Errorf("LineCount = %d, want %d", g.LineCount, tt.wantCols*tt.wantRows)
			}
			if len(g.Basepoints) != g.LineCount {
				t.Errorf("len(Basepoints) = %d, want %d", len(g.Basepoints), g.LineCount)
			}
		})
	}
}

func TestGridRejectsDomainsSmallerThanSpacing(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		spacing       int
	}{
		{"height below one cell", 1280, 5, 15},
		{"width below one cell", 10, 800, 15},
		{"zero width", 0, 800, 15},
		{"both degenerate", 4, 4, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.width, tt.height, tt.spacing, 0, 1)
			if err == nil {
				t.Fatalf("NewGrid(%d, %d, %d) succeeded with %d basepoints, want error",
					tt.width, tt.height, tt.spacing, g.LineCount)
			}
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error type %T, want *config.ValidationError", err)
			}
		})
	}
}

func TestGridBasepointsFiniteAndNormalized(t *testing.T) {
	g := mustGrid(t, 1280, 800, 15, 0.3, 99)

	for i, bp := range g.Basepoints {
		// NaN fails every comparison, so the range check doubles as a
		// finiteness check.
		if !(bp.X >= -0.1 && bp.X <= 1.1 && bp.Y >= -0.1 && bp.Y <= 1.1) {
			t.Fatalf("basepoint[%d] = (%v, %v) outside unit square", i, bp.X, bp.Y)
		}
	}
}

func TestGridDeterministicForSeed(t *testing.T) {
	a := mustGrid(t, 1280, 800, 15, 0.5, 42)
	b := mustGrid(t, 1280, 800, 15, 0.5, 42)

	for i := range a.Basepoints {
		if a.Basepoints[i] != b.Basepoints[i] {
			t.Fatalf("basepoint[%d] differs for identical inputs", i)
		}
	}
}

func TestGridResizeRoundTrip(t *testing.T) {
	a1 := mustGrid(t, 1280, 800, 15, 0.5, 42)
	_ = mustGrid(t, 640, 480, 15, 0.5, 42)
	a2 := mustGrid(t, 1280, 800, 15, 0.5, 42)

	if a1.LineCount != a2.LineCount {
		t.Fatalf("LineCount changed across round trip: %d vs %d", a1.LineCount, a2.LineCount)
	}
	for i := range a1.Basepoints {
		if a1.Basepoints[i] != a2.Basepoints[i] {
			t.Fatalf("basepoint[%d] differs after resize round trip", i)
		}
	}
}

func TestScalingRatioFloorsAtOne(t *testing.T) {
	g := mustGrid(t, 640, 480, 15, 0, 1)

	if g.ScalingRatio.X < 1 || g.ScalingRatio.Y < 1 {
		t.Errorf("ScalingRatio = (%v, %v), want both >= 1", g.ScalingRatio.X, g.ScalingRatio.Y)
	}
	if g.ScalingRatio.RoundedX() < 1 || g.ScalingRatio.RoundedY() < 1 {
		t.Errorf("rounded ratio below 1")
	}
}

func TestScalingRatioGrowsOnWideDomains(t *testing.T) {
	g := mustGrid(t, 5120, 800, 15, 0, 1)

	if g.ScalingRatio.X <= 1 {
		t.Errorf("ScalingRatio.X = %v on a very wide domain, want > 1", g.ScalingRatio.X)
	}
}
