// Package components defines ECS components for the swarm.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Particle identifies a particle. Index is unique for the lifetime of the area.
type Particle struct {
	Index uint32
}

// Position represents a particle's position on the surface.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Set overwrites the position from a vector.
func (p *Position) Set(v r2.Vec) {
	p.X = v.X
	p.Y = v.Y
}

// Target is the attractor a particle drifts toward.
type Target struct {
	X, Y float64
}

// Vec returns the target as a vector.
func (t Target) Vec() r2.Vec { return r2.Vec{X: t.X, Y: t.Y} }

// Motion holds per-particle tunables.
type Motion struct {
	Speed          float64 // distance per tick toward the target
	BufferDistance float64 // comfortable separation from neighbors
	CrowdedLimit   int     // neighbor count where crowding saturates
}

// Bounds is the axis-aligned rectangle a particle must stay within.
type Bounds struct {
	Min, Max r2.Vec
}

// Clamp returns v with each axis clamped to the rectangle.
func (b Bounds) Clamp(v r2.Vec) r2.Vec {
	return r2.Vec{
		X: clamp(v.X, b.Min.X, b.Max.X),
		Y: clamp(v.Y, b.Min.Y, b.Max.Y),
	}
}

// Crowding is the neighbor count recorded on the last step. Display only.
type Crowding struct {
	Neighbors int
}

// Ratio returns the crowding in [0, 1], saturating at limit.
func (c Crowding) Ratio(limit int) float64 {
	if limit <= 0 {
		return 0
	}
	n := c.Neighbors
	if n > limit {
		n = limit
	}
	return float64(n) / float64(limit)
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
