package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/swarm/telemetry"
)

// flushTelemetry records the tick and, when the stats window is full,
// flushes window stats to the log and the output files.
func (a *Area) flushTelemetry(force float64) {
	if a.collector == nil {
		return
	}
	a.collector.RecordTick(force)
	if !a.collector.ShouldFlush(a.tick) {
		return
	}

	stats := a.collector.Flush(a.tick, a.Sample())

	var perfStats telemetry.PerfStats
	if a.perf != nil {
		perfStats = a.perf.Stats()
	}

	if a.logStats {
		stats.LogStats()
		if a.perf != nil {
			perfStats.LogStats()
		}
	}

	if a.output != nil {
		if err := a.output.WriteTelemetry(stats); err != nil {
			a.log.Error("failed to write telemetry", "error", err)
		}
		if a.perf != nil {
			if err := a.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
				a.log.Error("failed to write perf", "error", err)
			}
		}
	}
}

// Sample collects the swarm state for a stats window.
func (a *Area) Sample() telemetry.Sample {
	s := telemetry.Sample{
		Particles:     a.Len(),
		ClosePairs:    a.distanceMap.Pairs(),
		ScrambleForce: a.scramble.Force(),
		CrowdedLimit:  a.cfg.Particle.CrowdedLimit,
		Neighbors:     make([]float64, 0, a.Len()),
		TargetDist:    make([]float64, 0, a.Len()),
	}

	query := a.particleFilter.Query()
	for query.Next() {
		_, pos, target, _, _, crowding := query.Get()
		s.Neighbors = append(s.Neighbors, float64(crowding.Neighbors))
		s.TargetDist = append(s.TargetDist, r2.Norm(r2.Sub(target.Vec(), pos.Vec())))
	}
	return s
}

// WriteParticles appends the current positions to particles.csv.
func (a *Area) WriteParticles() {
	if a.output == nil {
		return
	}
	records := make([]telemetry.ParticleRecord, 0, a.Len())
	for _, v := range a.Snapshot(nil) {
		records = append(records, telemetry.ParticleRecord{
			Tick:      a.tick,
			Index:     v.Index,
			X:         v.X,
			Y:         v.Y,
			Neighbors: v.Neighbors,
		})
	}
	if err := a.output.WriteParticles(records); err != nil {
		a.log.Error("failed to write particles", "error", err)
	}
}

// LogSummary logs a one-line summary of the area.
func (a *Area) LogSummary(msg string) {
	a.log.Info(msg,
		slog.Int("tick", int(a.tick)),
		slog.Int("particles", a.Len()),
		slog.Float64("scramble_force", a.scramble.Force()),
		slog.Int("close_pairs", a.distanceMap.Pairs()),
	)
}
