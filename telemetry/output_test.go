package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/drift/config"
)

func init() {
	config.MustInit("")
}

func TestNilOutputManagerIsSafe(t *testing.T) {
	var om *OutputManager

	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil manager: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil manager: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Errorf("WriteConfig on nil manager: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() on nil manager = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestEmptyDirDisablesOutput(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") failed: %v", err)
	}
	if om != nil {
		t.Error("NewOutputManager(\"\") returned a manager, want nil")
	}
}

func TestTelemetryCSVHeaderWrittenOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndStep: 300, Steps: 300}); err != nil {
		t.Fatalf("first WriteTelemetry: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndStep: 600, Steps: 300}); err != nil {
		t.Fatalf("second WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	text := string(data)

	if strings.Count(text, "window_end") != 1 {
		t.Errorf("header appears %d times, want 1:\n%s", strings.Count(text, "window_end"), text)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2 records:\n%s", len(lines), text)
	}
}

func TestRunDirArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}
	defer om.Close()

	if om.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", om.Dir(), dir)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.WritePerf(PerfStats{FPS: 60}, 300); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s in the run directory: %v", name, err)
		}
	}
}
