package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/swarm/components"
)

const eps = 1e-4

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func bigBounds() components.Bounds {
	return components.Bounds{Max: r2.Vec{X: 1000, Y: 1000}}
}

func TestMovementVector(t *testing.T) {
	tests := []struct {
		name         string
		pos, target  r2.Vec
		speed, force float64
		want         r2.Vec
	}{
		{"toward target", r2.Vec{}, r2.Vec{X: 10}, 2, 0, r2.Vec{X: 2}},
		{"diagonal", r2.Vec{}, r2.Vec{X: 100, Y: 100}, 1, 0, r2.Vec{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}},
		{"scramble inverts and scales", r2.Vec{}, r2.Vec{X: 10}, 2, 40, r2.Vec{X: -40}},
		{"at target", r2.Vec{X: 5, Y: 5}, r2.Vec{X: 5, Y: 5}, 1, 0, r2.Vec{}},
		{"at target scrambling", r2.Vec{X: 5, Y: 5}, r2.Vec{X: 5, Y: 5}, 1, 80, r2.Vec{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MovementVector(tc.pos, tc.target, tc.speed, tc.force)
			if !near(got, tc.want) {
				t.Errorf("MovementVector = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAversionVectorTwoParticles(t *testing.T) {
	// Two particles 10 apart with a buffer of 20 push each other by 5.
	a := r2.Vec{X: 50, Y: 50}
	b := r2.Vec{X: 60, Y: 50}

	va := AversionVector(a, []Neighbor{{Index: 2, Dist: 10, Pos: b}}, 20, nil)
	vb := AversionVector(b, []Neighbor{{Index: 1, Dist: 10, Pos: a}}, 20, nil)

	if !near(va, r2.Vec{X: -5}) {
		t.Errorf("aversion of a = %v, want (-5, 0)", va)
	}
	if !near(vb, r2.Vec{X: 5}) {
		t.Errorf("aversion of b = %v, want (5, 0)", vb)
	}
	if m := r2.Norm(va); math.Abs(m-5) > eps {
		t.Errorf("aversion magnitude = %v, want 5", m)
	}
}

func TestAversionVectorCompounds(t *testing.T) {
	pos := r2.Vec{X: 50, Y: 50}
	neighbors := []Neighbor{
		{Index: 2, Dist: 10, Pos: r2.Vec{X: 60, Y: 50}},
		{Index: 3, Dist: 10, Pos: r2.Vec{X: 40, Y: 50}},
		{Index: 4, Dist: 4, Pos: r2.Vec{X: 50, Y: 54}},
	}
	got := AversionVector(pos, neighbors, 20, nil)
	// Horizontal pushes cancel; the vertical one is (20-4)/2 = 8 upward.
	if !near(got, r2.Vec{Y: -8}) {
		t.Errorf("aversion = %v, want (0, -8)", got)
	}
}

func TestAversionVectorCoincident(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := r2.Vec{X: 10, Y: 10}
	got := AversionVector(pos, []Neighbor{{Index: 2, Dist: 0, Pos: pos}}, 20, rng)

	if m := r2.Norm(got); math.Abs(m-1) > 1e-9 {
		t.Errorf("coincident nudge magnitude = %v, want 1", m)
	}
	if !isFinite(got) {
		t.Errorf("coincident nudge not finite: %v", got)
	}
}

func TestStepParticleScenario(t *testing.T) {
	pos := components.Position{X: 0, Y: 0}
	crowding := components.Crowding{Neighbors: 3}

	StepParticle(
		&pos,
		components.Target{X: 100, Y: 100},
		components.Motion{Speed: 1, BufferDistance: 20, CrowdedLimit: 8},
		bigBounds(),
		&crowding,
		[]Neighbor{},
		0,
		rand.New(rand.NewSource(1)),
	)

	// Half of the unit step, per the 50/50 average with a zero aversion.
	want := r2.Vec{X: 0.35355, Y: 0.35355}
	if !near(pos.Vec(), want) {
		t.Errorf("position = %v, want %v", pos.Vec(), want)
	}
	if crowding.Neighbors != 0 {
		t.Errorf("neighbors = %d, want 0", crowding.Neighbors)
	}
}

func TestStepParticleZeroDistanceSeparates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	motion := components.Motion{Speed: 1, BufferDistance: 20, CrowdedLimit: 8}
	target := components.Target{X: 500, Y: 500}
	start := r2.Vec{X: 100, Y: 100}

	a := components.Position{X: start.X, Y: start.Y}
	b := components.Position{X: start.X, Y: start.Y}
	var ca, cb components.Crowding

	StepParticle(&a, target, motion, bigBounds(), &ca,
		[]Neighbor{{Index: 2, Dist: 0, Pos: start}}, 0, rng)
	StepParticle(&b, target, motion, bigBounds(), &cb,
		[]Neighbor{{Index: 1, Dist: 0, Pos: start}}, 0, rng)

	if a == b {
		t.Errorf("coincident particles stayed together at %v", a)
	}
	if ca.Neighbors != 1 || cb.Neighbors != 1 {
		t.Errorf("neighbor counts = %d, %d, want 1, 1", ca.Neighbors, cb.Neighbors)
	}
}

func TestStepParticleClamps(t *testing.T) {
	bounds := components.Bounds{Max: r2.Vec{X: 100, Y: 100}}
	motion := components.Motion{Speed: 1, BufferDistance: 20, CrowdedLimit: 8}
	rng := rand.New(rand.NewSource(5))

	// A large scramble pushes a particle near the corner out of bounds.
	pos := components.Position{X: 2, Y: 3}
	var crowding components.Crowding
	StepParticle(&pos, components.Target{X: 50, Y: 50}, motion, bounds, &crowding, nil, 80, rng)

	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("position = %+v, want clamped to (0, 0)", pos)
	}

	pos = components.Position{X: 98, Y: 50}
	StepParticle(&pos, components.Target{X: 50, Y: 50}, motion, bounds, &crowding, nil, 80, rng)
	if pos.X != 100 {
		t.Errorf("x = %v, want clamped to 100", pos.X)
	}
	if math.Abs(pos.Y-50) > eps {
		t.Errorf("y = %v, want unchanged 50", pos.Y)
	}
}

func TestStepParticleStaysAtTarget(t *testing.T) {
	pos := components.Position{X: 50, Y: 50}
	var crowding components.Crowding
	StepParticle(&pos, components.Target{X: 50, Y: 50},
		components.Motion{Speed: 1, BufferDistance: 20, CrowdedLimit: 8},
		bigBounds(), &crowding, nil, 0, nil)

	if pos.X != 50 || pos.Y != 50 {
		t.Errorf("particle at target moved to %+v", pos)
	}
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		t.Error("NaN leaked into position")
	}
}
