package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/swarm/components"
)

// MovementVector returns the attraction toward target scaled by speed.
// While scrambling the direction is inverted and scaled by the scramble force.
func MovementVector(pos, target r2.Vec, speed, scrambleForce float64) r2.Vec {
	if scrambleForce > 0 {
		return vecToward(pos, target, -scrambleForce)
	}
	return vecToward(pos, target, speed)
}

// AversionVector sums the push away from every close neighbor.
// Each neighbor contributes (buffer - dist) / 2 since the neighbor applies the
// opposite half on its own step. Coincident neighbors contribute a random unit
// vector instead. The sum is not normalized.
func AversionVector(pos r2.Vec, neighbors []Neighbor, buffer float64, rng *rand.Rand) r2.Vec {
	var sum r2.Vec
	for _, n := range neighbors {
		if n.Dist == 0 {
			sum = r2.Add(sum, randomUnit(rng))
			continue
		}
		push := (buffer - n.Dist) / 2
		if push <= 0 {
			continue
		}
		sum = r2.Add(sum, vecAway(pos, n.Pos, push))
	}
	return sum
}

// StepParticle advances one particle by one tick using its slice of the
// distance map and the current scramble force.
func StepParticle(
	pos *components.Position,
	target components.Target,
	motion components.Motion,
	bounds components.Bounds,
	crowding *components.Crowding,
	neighbors []Neighbor,
	scrambleForce float64,
	rng *rand.Rand,
) {
	cur := pos.Vec()
	movement := MovementVector(cur, target.Vec(), motion.Speed, scrambleForce)
	aversion := AversionVector(cur, neighbors, motion.BufferDistance, rng)

	next := r2.Add(cur, avgVec(movement, aversion))
	if isFinite(next) {
		pos.Set(bounds.Clamp(next))
	} else {
		pos.Set(bounds.Clamp(cur))
	}

	crowding.Neighbors = len(neighbors)
}
