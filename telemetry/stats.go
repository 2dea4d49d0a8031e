package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Particles int `csv:"particles"`

	// Events during window
	Spawns        int `csv:"spawns"`
	Scrambles     int `csv:"scrambles"`
	ScrambleTicks int `csv:"scramble_ticks"` // ticks with a non-zero scramble force

	// Swarm shape (sampled at window end)
	ScrambleForce   float64 `csv:"scramble_force"`
	ClosePairs      int     `csv:"close_pairs"`
	NeighborsMean   float64 `csv:"neighbors_mean"`
	NeighborsStd    float64 `csv:"neighbors_std"`
	NeighborsP50    float64 `csv:"neighbors_p50"`
	NeighborsP90    float64 `csv:"neighbors_p90"`
	NeighborsMax    float64 `csv:"neighbors_max"`
	CrowdedFraction float64 `csv:"crowded_fraction"` // share of particles at the crowded limit
	TargetDistMean  float64 `csv:"target_dist_mean"`
	TargetDistP90   float64 `csv:"target_dist_p90"`
}

// Distribution summarizes a set of samples.
type Distribution struct {
	Mean, Std, P50, P90, Max float64
}

// Quantile returns the empirical p-quantile of a sorted slice.
// Returns 0 if the slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Summarize computes mean, population standard deviation, median, p90 and max.
// The input is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  std,
		P50:  Quantile(sorted, 0.5),
		P90:  Quantile(sorted, 0.9),
		Max:  sorted[n-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("spawns", s.Spawns),
		slog.Int("scrambles", s.Scrambles),
		slog.Int("scramble_ticks", s.ScrambleTicks),
		slog.Float64("scramble_force", s.ScrambleForce),
		slog.Int("close_pairs", s.ClosePairs),
		slog.Float64("neighbors_mean", s.NeighborsMean),
		slog.Float64("neighbors_p90", s.NeighborsP90),
		slog.Float64("crowded_fraction", s.CrowdedFraction),
		slog.Float64("target_dist_mean", s.TargetDistMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
