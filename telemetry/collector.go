package telemetry

// Sample is the swarm state handed to Flush at the end of a window.
type Sample struct {
	Particles     int
	ClosePairs    int
	ScrambleForce float64
	Neighbors     []float64 // per-particle neighbor counts
	TargetDist    []float64 // per-particle distance to target
	CrowdedLimit  int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	tickSec             float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns        int
	scrambles     int
	scrambleTicks int
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per window
// tickSec: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, tickSec float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		tickSec:             tickSec,
	}
}

// RecordSpawn records a particle spawn.
func (c *Collector) RecordSpawn() {
	c.spawns++
}

// RecordScramble records a scramble trigger.
func (c *Collector) RecordScramble() {
	c.scrambles++
}

// RecordTick records per-tick state.
func (c *Collector) RecordTick(scrambleForce float64) {
	if scrambleForce > 0 {
		c.scrambleTicks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	neighbors := Summarize(s.Neighbors)
	targetDist := Summarize(s.TargetDist)

	var crowdedFraction float64
	if len(s.Neighbors) > 0 && s.CrowdedLimit > 0 {
		saturated := 0
		for _, n := range s.Neighbors {
			if n >= float64(s.CrowdedLimit) {
				saturated++
			}
		}
		crowdedFraction = float64(saturated) / float64(len(s.Neighbors))
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.tickSec,

		Particles: s.Particles,

		Spawns:        c.spawns,
		Scrambles:     c.scrambles,
		ScrambleTicks: c.scrambleTicks,

		ScrambleForce:   s.ScrambleForce,
		ClosePairs:      s.ClosePairs,
		NeighborsMean:   neighbors.Mean,
		NeighborsStd:    neighbors.Std,
		NeighborsP50:    neighbors.P50,
		NeighborsP90:    neighbors.P90,
		NeighborsMax:    neighbors.Max,
		CrowdedFraction: crowdedFraction,
		TargetDistMean:  targetDist.Mean,
		TargetDistP90:   targetDist.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.scrambles = 0
	c.scrambleTicks = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
