package telemetry

import (
	"log/slog"
	"sort"
	"time"
)

// Phase is one stage of a swarm tick.
type Phase int

// Tick phases in execution order.
const (
	PhaseScramble Phase = iota
	PhaseDistanceMap
	PhaseStep
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"scramble", "distance_map", "step", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// TickSample is the cost of one tick together with the swarm size it ran on.
type TickSample struct {
	Duration   time.Duration
	Phases     [numPhases]time.Duration
	Particles  int
	ClosePairs int
}

// comparisons is the number of pairs the distance map rebuild checked.
func (s TickSample) comparisons() int {
	return s.Particles * (s.Particles - 1) / 2
}

// PerfCollector keeps the last window of tick samples.
type PerfCollector struct {
	now     func() time.Time
	samples []TickSample
	next    int
	count   int

	cur        TickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
// A window below 1 defaults to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		now:     time.Now,
		samples: make([]TickSample, window),
	}
}

// Begin starts timing a tick.
func (p *PerfCollector) Begin() {
	p.tickStart = p.now()
	p.cur = TickSample{}
	p.inPhase = false
}

// Enter closes the running phase, if any, and starts phase.
func (p *PerfCollector) Enter(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// End finishes the tick and records it with the swarm size the tick
// stepped and the close pairs it found.
func (p *PerfCollector) End(particles, closePairs int) {
	now := p.now()
	p.closePhase(now)
	p.cur.Duration = now.Sub(p.tickStart)
	p.cur.Particles = particles
	p.cur.ClosePairs = closePairs

	p.samples[p.next] = p.cur
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordFrame marks a rendered frame in windowed mode.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the collector window.
type PerfStats struct {
	Ticks   int
	AvgTick time.Duration
	P90Tick time.Duration
	MaxTick time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Swarm load averaged over the window
	Particles  float64
	ClosePairs float64

	// Pair checks per second spent in the distance map phase.
	// The rebuild is all-pairs, so this should stay flat as the swarm grows.
	ComparisonsPerSecond float64

	FPS float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}
	s.Ticks = p.count

	ticks := make([]float64, 0, p.count)
	var total, distTime time.Duration
	var comparisons, particles, pairs int
	for _, smp := range p.samples[:p.count] {
		ticks = append(ticks, float64(smp.Duration))
		total += smp.Duration
		s.MaxTick = max(s.MaxTick, smp.Duration)
		for ph, d := range smp.Phases {
			s.PhaseAvg[ph] += d
		}
		distTime += smp.Phases[PhaseDistanceMap]
		comparisons += smp.comparisons()
		particles += smp.Particles
		pairs += smp.ClosePairs
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	for ph := range s.PhaseAvg {
		s.PhaseAvg[ph] /= n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}

	sort.Float64s(ticks)
	s.P90Tick = time.Duration(Quantile(ticks, 0.9))

	s.Particles = float64(particles) / float64(p.count)
	s.ClosePairs = float64(pairs) / float64(p.count)
	if distTime > 0 {
		s.ComparisonsPerSecond = float64(comparisons) / distTime.Seconds()
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p90_tick_us", s.P90Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("particles", s.Particles),
		slog.Float64("close_pairs", s.ClosePairs),
		slog.Float64("comparisons_per_sec", s.ComparisonsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd         int32   `csv:"window_end"`
	AvgTickUS         int64   `csv:"avg_tick_us"`
	P90TickUS         int64   `csv:"p90_tick_us"`
	MaxTickUS         int64   `csv:"max_tick_us"`
	TicksPerSec       float64 `csv:"ticks_per_sec"`
	FPS               float64 `csv:"fps"`
	Particles         float64 `csv:"particles"`
	ClosePairs        float64 `csv:"close_pairs"`
	ComparisonsPerSec float64 `csv:"comparisons_per_sec"`
	ScramblePct       float64 `csv:"scramble_pct"`
	DistanceMapPct    float64 `csv:"distance_map_pct"`
	StepPct           float64 `csv:"step_pct"`
	TelemetryPct      float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:         windowEnd,
		AvgTickUS:         s.AvgTick.Microseconds(),
		P90TickUS:         s.P90Tick.Microseconds(),
		MaxTickUS:         s.MaxTick.Microseconds(),
		TicksPerSec:       s.TicksPerSecond,
		FPS:               s.FPS,
		Particles:         s.Particles,
		ClosePairs:        s.ClosePairs,
		ComparisonsPerSec: s.ComparisonsPerSecond,
		ScramblePct:       s.PhasePct[PhaseScramble],
		DistanceMapPct:    s.PhasePct[PhaseDistanceMap],
		StepPct:           s.PhasePct[PhaseStep],
		TelemetryPct:      s.PhasePct[PhaseTelemetry],
	}
}
