package systems

import "math"

// DefaultScrambleFloor is the force below which a decaying scramble snaps to zero.
const DefaultScrambleFloor = 0.1

// Scramble tracks the outward impulse applied to every particle.
// The force is 0 when idle and decays geometrically once triggered.
type Scramble struct {
	max     float64
	falloff float64
	floor   float64
	force   float64
}

// NewScramble creates an idle scramble controller.
// falloff must be in (0, 1); a non-positive floor falls back to DefaultScrambleFloor.
func NewScramble(max, falloff, floor float64) *Scramble {
	if floor <= 0 {
		floor = DefaultScrambleFloor
	}
	if max < 0 {
		max = 0
	}
	return &Scramble{max: max, falloff: falloff, floor: floor}
}

// Trigger sets the force to its configured maximum.
func (s *Scramble) Trigger() {
	s.force = s.max
}

// Decay advances the force by one tick. Returns the new force.
func (s *Scramble) Decay() float64 {
	if s.force > 0 {
		s.force *= s.falloff
		if s.force < s.floor {
			s.force = 0
		}
	}
	return s.force
}

// Force returns the current force.
func (s *Scramble) Force() float64 { return s.force }

// Active reports whether a scramble is in progress.
func (s *Scramble) Active() bool { return s.force > 0 }

// TicksToRest returns how many Decay calls take a freshly triggered force to 0.
func (s *Scramble) TicksToRest() int {
	if s.max < s.floor {
		if s.max > 0 {
			return 1
		}
		return 0
	}
	n := int(math.Ceil(math.Log(s.floor/s.max) / math.Log(s.falloff)))
	// Exactly hitting the floor does not snap; one more tick is needed.
	if s.max*math.Pow(s.falloff, float64(n)) >= s.floor {
		n++
	}
	return n
}
