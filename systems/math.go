package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// vecToward returns a vector of the given length pointing from 'from' to 'to'.
// Coincident points yield the zero vector.
func vecToward(from, to r2.Vec, length float64) r2.Vec {
	d := r2.Sub(to, from)
	mag := r2.Norm(d)
	if mag == 0 {
		return r2.Vec{}
	}
	return r2.Scale(length/mag, d)
}

// vecAway is vecToward with the direction inverted.
func vecAway(from, other r2.Vec, length float64) r2.Vec {
	return vecToward(from, other, -length)
}

// avgVec returns the component-wise mean of a and b.
func avgVec(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}

// randomUnit returns a unit vector in a uniformly random direction.
func randomUnit(rng *rand.Rand) r2.Vec {
	theta := rng.Float64() * 2 * math.Pi
	return r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
}

// distance returns the Euclidean distance between two points.
func distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// isFinite reports whether both components are finite.
func isFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
