// Package systems contains the per-tick swarm kernel: the distance map,
// the scramble controller and the particle step.
package systems

import "gonum.org/v1/gonum/spatial/r2"

// Body is the input to a distance map rebuild.
type Body struct {
	Index uint32
	Pos   r2.Vec
}

// Neighbor is one close pair as seen from one side.
// Pos is the neighbor's position when the map was built.
type Neighbor struct {
	Index uint32
	Dist  float64
	Pos   r2.Vec
}

// DistanceMap maps a particle index to its neighbors strictly within the
// buffer distance. Every indexed particle has an entry, possibly empty.
type DistanceMap map[uint32][]Neighbor

// BuildDistanceMap compares every unordered pair of bodies exactly once and
// records both directions of each pair closer than buffer.
func BuildDistanceMap(bodies []Body, buffer float64) DistanceMap {
	dm := make(DistanceMap, len(bodies))
	for i := range bodies {
		if _, ok := dm[bodies[i].Index]; !ok {
			dm[bodies[i].Index] = []Neighbor{}
		}
	}

	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			d := distance(a.Pos, b.Pos)
			if d < buffer {
				dm[a.Index] = append(dm[a.Index], Neighbor{Index: b.Index, Dist: d, Pos: b.Pos})
				dm[b.Index] = append(dm[b.Index], Neighbor{Index: a.Index, Dist: d, Pos: a.Pos})
			}
		}
	}
	return dm
}

// Pairs returns the number of unordered close pairs in the map.
func (dm DistanceMap) Pairs() int {
	n := 0
	for _, ns := range dm {
		n += len(ns)
	}
	return n / 2
}
