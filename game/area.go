// Package game owns the simulation area: the particle set, the per-tick
// orchestration and the clock that drives it.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/systems"
	"github.com/pthm-cable/swarm/telemetry"
)

var (
	// ErrInvalidBounds is returned when the container has no usable area.
	ErrInvalidBounds = errors.New("container bounds must be finite and non-zero")
	// ErrDuplicateIndex is returned when a spawn reuses a live particle index.
	ErrDuplicateIndex = errors.New("particle index already in use")
	// ErrCapacity is returned when the particle set is full.
	ErrCapacity = errors.New("particle capacity reached")
	// ErrInvalidPosition is returned when a spawn position or target is not finite.
	ErrInvalidPosition = errors.New("position must be finite")
)

// Options holds optional collaborators for an Area.
type Options struct {
	Seed      int64                    // used when Rand is nil (0 = time-based)
	Rand      *rand.Rand               // random source for spawns and coincident nudges
	Logger    *slog.Logger             // defaults to slog.Default()
	Perf      *telemetry.PerfCollector // per-tick phase timing
	Collector *telemetry.Collector     // window stats
	Output    *telemetry.OutputManager // CSV output
	LogStats  bool                     // log window stats via slog
}

// TickResult summarizes one completed tick.
type TickResult struct {
	Tick          int32
	Particles     int
	ClosePairs    int
	ScrambleForce float64
}

// ParticleView is the per-particle output read by renderers.
type ParticleView struct {
	Index        uint32
	X, Y         float64
	Neighbors    int
	CrowdedLimit int
}

// Ratio returns the crowding ratio in [0, 1].
func (v ParticleView) Ratio() float64 {
	return components.Crowding{Neighbors: v.Neighbors}.Ratio(v.CrowdedLimit)
}

// Area is the simulation area. It owns the particle set, the container
// bounds, the scramble state and the distance map. An Area is not safe for
// concurrent use; spawns and ticks must come from one goroutine.
type Area struct {
	cfg *config.Config
	rng *rand.Rand
	log *slog.Logger

	world *ecs.World

	particleMapper *ecs.Map6[
		components.Particle,
		components.Position,
		components.Target,
		components.Motion,
		components.Bounds,
		components.Crowding,
	]
	particleFilter *ecs.Filter6[
		components.Particle,
		components.Position,
		components.Target,
		components.Motion,
		components.Bounds,
		components.Crowding,
	]

	posMap *ecs.Map[components.Position]

	entities  map[uint32]ecs.Entity
	nextIndex uint32

	size   r2.Vec
	center r2.Vec

	scramble    *systems.Scramble
	distanceMap systems.DistanceMap
	bodies      []systems.Body

	tick int32

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
}

// NewArea creates an empty area covering a width x height surface.
// The attractor is the surface center.
func NewArea(cfg *config.Config, width, height float64, opts Options) (*Area, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !validExtent(width) || !validExtent(height) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidBounds, width, height)
	}

	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()
	sim := cfg.Simulation

	a := &Area{
		cfg:   cfg,
		rng:   rng,
		log:   logger,
		world: world,
		particleMapper: ecs.NewMap6[
			components.Particle,
			components.Position,
			components.Target,
			components.Motion,
			components.Bounds,
			components.Crowding,
		](world),
		particleFilter: ecs.NewFilter6[
			components.Particle,
			components.Position,
			components.Target,
			components.Motion,
			components.Bounds,
			components.Crowding,
		](world),
		posMap:      ecs.NewMap[components.Position](world),
		entities:    make(map[uint32]ecs.Entity),
		scramble:    systems.NewScramble(sim.MaxScrambleForce, sim.ScrambleFalloff, sim.ScrambleFloor),
		distanceMap: systems.DistanceMap{},
		perf:        opts.Perf,
		collector:   opts.Collector,
		output:      opts.Output,
		logStats:    opts.LogStats,
	}
	a.setSize(width, height)

	return a, nil
}

func validExtent(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finiteVec(v r2.Vec) bool {
	return !math.IsInf(v.X, 0) && !math.IsNaN(v.X) &&
		!math.IsInf(v.Y, 0) && !math.IsNaN(v.Y)
}

func (a *Area) setSize(width, height float64) {
	a.size = r2.Vec{X: width, Y: height}
	a.center = r2.Vec{X: width / 2, Y: height / 2}
}

// bounds returns the clamp rectangle for particles.
func (a *Area) bounds() components.Bounds {
	return components.Bounds{Max: a.size}
}

// SpawnParticle adds one particle at pos drawn toward target.
// The position is clamped into the container.
func (a *Area) SpawnParticle(index uint32, pos, target r2.Vec) error {
	if !finiteVec(pos) || !finiteVec(target) {
		return fmt.Errorf("%w: pos %v target %v", ErrInvalidPosition, pos, target)
	}
	if _, ok := a.entities[index]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateIndex, index)
	}
	if limit := a.cfg.Simulation.MaxParticles; limit > 0 && len(a.entities) >= limit {
		return fmt.Errorf("%w: %d", ErrCapacity, limit)
	}

	bounds := a.bounds()
	start := bounds.Clamp(pos)
	p := &components.Particle{Index: index}
	position := &components.Position{X: start.X, Y: start.Y}
	tgt := &components.Target{X: target.X, Y: target.Y}
	motion := &components.Motion{
		Speed:          a.cfg.Particle.Speed,
		BufferDistance: a.cfg.Simulation.BufferDistance,
		CrowdedLimit:   a.cfg.Particle.CrowdedLimit,
	}
	crowding := &components.Crowding{}

	a.entities[index] = a.particleMapper.NewEntity(p, position, tgt, motion, &bounds, crowding)
	if index >= a.nextIndex {
		a.nextIndex = index + 1
	}

	if a.collector != nil {
		a.collector.RecordSpawn()
	}
	return nil
}

// Spawn adds a particle at pos with the next free index, drawn toward the center.
// Used for pointer spawns.
func (a *Area) Spawn(pos r2.Vec) (uint32, error) {
	index := a.nextIndex
	if err := a.SpawnParticle(index, pos, a.center); err != nil {
		return 0, err
	}
	return index, nil
}

// SpawnRandom adds n particles at random whole-unit positions.
// Stops at the first error (e.g. capacity) and returns how many were added.
func (a *Area) SpawnRandom(n int) (int, error) {
	for i := 0; i < n; i++ {
		pos := r2.Vec{
			X: math.Round(a.rng.Float64() * a.size.X),
			Y: math.Round(a.rng.Float64() * a.size.Y),
		}
		if _, err := a.Spawn(pos); err != nil {
			return i, err
		}
	}
	return n, nil
}

// TriggerScramble sets the scramble force to its configured maximum.
func (a *Area) TriggerScramble() {
	a.scramble.Trigger()
	if a.collector != nil {
		a.collector.RecordScramble()
	}
	a.log.Debug("scramble triggered", "force", a.scramble.Force(), "ticks_to_rest", a.scramble.TicksToRest())
}

// Resize re-centers the area on a new surface size. Every particle's target
// and bounds follow; positions outside the new bounds are clamped.
func (a *Area) Resize(width, height float64) error {
	if !validExtent(width) || !validExtent(height) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidBounds, width, height)
	}
	a.setSize(width, height)
	bounds := a.bounds()

	query := a.particleFilter.Query()
	for query.Next() {
		_, pos, target, _, b, _ := query.Get()
		target.X, target.Y = a.center.X, a.center.Y
		*b = bounds
		pos.Set(bounds.Clamp(pos.Vec()))
	}
	return nil
}

// Tick runs one simulation step: decay the scramble force, rebuild the
// distance map, then step every particle.
func (a *Area) Tick() TickResult {
	a.startTick()

	a.phase(telemetry.PhaseScramble)
	force := a.scramble.Decay()

	a.phase(telemetry.PhaseDistanceMap)
	a.bodies = a.bodies[:0]
	query := a.particleFilter.Query()
	for query.Next() {
		p, pos, _, _, _, _ := query.Get()
		a.bodies = append(a.bodies, systems.Body{Index: p.Index, Pos: pos.Vec()})
	}
	a.distanceMap = systems.BuildDistanceMap(a.bodies, a.cfg.Simulation.BufferDistance)

	a.phase(telemetry.PhaseStep)
	query = a.particleFilter.Query()
	for query.Next() {
		p, pos, target, motion, bounds, crowding := query.Get()
		systems.StepParticle(pos, *target, *motion, *bounds, crowding, a.distanceMap[p.Index], force, a.rng)
	}

	a.tick++
	result := TickResult{
		Tick:          a.tick,
		Particles:     len(a.bodies),
		ClosePairs:    a.distanceMap.Pairs(),
		ScrambleForce: force,
	}

	a.phase(telemetry.PhaseTelemetry)
	a.flushTelemetry(force)

	a.endTick(result)
	return result
}

func (a *Area) startTick() {
	if a.perf != nil {
		a.perf.Begin()
	}
}

func (a *Area) phase(p telemetry.Phase) {
	if a.perf != nil {
		a.perf.Enter(p)
	}
}

func (a *Area) endTick(r TickResult) {
	if a.perf != nil {
		a.perf.End(r.Particles, r.ClosePairs)
	}
}

// Snapshot appends the current per-particle view to dst and returns it.
func (a *Area) Snapshot(dst []ParticleView) []ParticleView {
	dst = dst[:0]
	query := a.particleFilter.Query()
	for query.Next() {
		p, pos, _, motion, _, crowding := query.Get()
		dst = append(dst, ParticleView{
			Index:        p.Index,
			X:            pos.X,
			Y:            pos.Y,
			Neighbors:    crowding.Neighbors,
			CrowdedLimit: motion.CrowdedLimit,
		})
	}
	return dst
}

// Position returns the position of the particle with the given index.
func (a *Area) Position(index uint32) (r2.Vec, bool) {
	e, ok := a.entities[index]
	if !ok || !a.world.Alive(e) {
		return r2.Vec{}, false
	}
	return a.posMap.Get(e).Vec(), true
}

// Neighbors returns the particle's entry in the current distance map.
func (a *Area) Neighbors(index uint32) []systems.Neighbor {
	return a.distanceMap[index]
}

// DistanceMap returns the map built by the last tick. Read-only.
func (a *Area) DistanceMap() systems.DistanceMap { return a.distanceMap }

// Len returns the number of particles.
func (a *Area) Len() int { return len(a.entities) }

// TickCount returns the number of completed ticks.
func (a *Area) TickCount() int32 { return a.tick }

// ScrambleForce returns the current scramble force.
func (a *Area) ScrambleForce() float64 { return a.scramble.Force() }

// Size returns the container size.
func (a *Area) Size() r2.Vec { return a.size }

// Center returns the attractor.
func (a *Area) Center() r2.Vec { return a.center }

// Config returns the configuration the area was built with.
func (a *Area) Config() *config.Config { return a.cfg }
