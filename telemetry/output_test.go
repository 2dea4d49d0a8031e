package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/swarm/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil manager is safe to use
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close error: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 120, Particles: 10}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 240, Particles: 11}); err != nil {
		t.Fatal(err)
	}

	perf := PerfStats{AvgTick: 2 * time.Millisecond, Particles: 10}
	perf.PhasePct[PhaseDistanceMap] = 70
	perf.PhasePct[PhaseStep] = 25
	if err := om.WritePerf(perf, 120); err != nil {
		t.Fatal(err)
	}

	particles := []ParticleRecord{
		{Tick: 240, Index: 1, X: 1.5, Y: 2.5, Neighbors: 0},
		{Tick: 240, Index: 2, X: 3, Y: 4, Neighbors: 1},
	}
	if err := om.WriteParticles(particles); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	telemetry := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(telemetry) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 rows", len(telemetry))
	}
	if !strings.HasPrefix(telemetry[0], "window_end,sim_time,particles") {
		t.Errorf("unexpected telemetry header: %q", telemetry[0])
	}
	if !strings.HasPrefix(telemetry[2], "240,") {
		t.Errorf("unexpected second row: %q", telemetry[2])
	}

	perfLines := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perfLines) != 2 || !strings.Contains(perfLines[0], "distance_map_pct") {
		t.Errorf("unexpected perf.csv: %v", perfLines)
	}

	particleLines := readLines(t, filepath.Join(dir, "particles.csv"))
	if len(particleLines) != 3 || particleLines[0] != "tick,index,x,y,neighbors" {
		t.Errorf("unexpected particles.csv: %v", particleLines)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{AvgTick: 1500 * time.Microsecond, Particles: 200, ClosePairs: 37.5}
	s.PhasePct[PhaseScramble] = 1
	s.PhasePct[PhaseDistanceMap] = 80
	s.PhasePct[PhaseStep] = 19
	rec := s.ToCSV(42)
	if rec.WindowEnd != 42 || rec.AvgTickUS != 1500 || rec.Particles != 200 || rec.ClosePairs != 37.5 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.DistanceMapPct != 80 || rec.StepPct != 19 || rec.ScramblePct != 1 {
		t.Errorf("phase percentages not mapped: %+v", rec)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
