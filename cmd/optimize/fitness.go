package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/game"
	"github.com/pthm-cable/swarm/telemetry"
)

// Targets describes the swarm behavior the optimizer aims for.
type Targets struct {
	Neighbors     float64 // mean neighbor count once settled
	RecoveryTicks float64 // ticks from a scramble until the swarm has re-gathered
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	targets     Targets
	particles   int
	settleTicks int
	maxRecovery int
	seeds       []int64
	baseConfig  *config.Config

	mu        sync.Mutex
	lastRuns  []runResult
	discarded *slog.Logger
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targets Targets, particles, settleTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targets:     targets,
		particles:   particles,
		settleTicks: settleTicks,
		maxRecovery: settleTicks * 2,
		seeds:       seeds,
		baseConfig:  baseCfg,
		discarded:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// runResult holds the results from a single simulation run.
type runResult struct {
	neighborsMean float64 // mean neighbor count after settling
	recoveryTicks int     // ticks to re-gather after a scramble
	recovered     bool
}

// LastRuns returns the per-seed results of the most recent evaluation.
func (fe *FitnessEvaluator) LastRuns() []runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastRuns
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += fe.computeFitness(r)
	}

	fe.mu.Lock()
	fe.lastRuns = results
	fe.mu.Unlock()

	return total / float64(len(results))
}

// runSimulation settles a random swarm, scrambles it, and times the recovery.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	a, err := game.NewArea(cfg, w, h, game.Options{Seed: seed, Logger: fe.discarded})
	if err != nil {
		return runResult{}
	}
	if _, err := a.SpawnRandom(fe.particles); err != nil {
		return runResult{}
	}

	for i := 0; i < fe.settleTicks; i++ {
		a.Tick()
	}
	settled := a.Sample()
	result := runResult{neighborsMean: telemetry.Summarize(settled.Neighbors).Mean}
	gathered := meanTargetDist(a, settled)

	a.TriggerScramble()
	for i := 1; i <= fe.maxRecovery; i++ {
		a.Tick()
		if a.ScrambleForce() > 0 {
			continue
		}
		if meanTargetDist(a, a.Sample()) <= gathered*1.1+cfg.Simulation.BufferDistance {
			result.recoveryTicks = i
			result.recovered = true
			return result
		}
	}
	result.recoveryTicks = fe.maxRecovery
	return result
}

func meanTargetDist(a *game.Area, s telemetry.Sample) float64 {
	if len(s.TargetDist) == 0 {
		return r2.Norm(a.Center())
	}
	return telemetry.Summarize(s.TargetDist).Mean
}

// computeFitness is the squared relative error against both targets.
// Runs that never recover are penalized.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	nErr := (r.neighborsMean - fe.targets.Neighbors) / math.Max(fe.targets.Neighbors, 1)
	rErr := (float64(r.recoveryTicks) - fe.targets.RecoveryTicks) / math.Max(fe.targets.RecoveryTicks, 1)
	f := nErr*nErr + rErr*rErr
	if !r.recovered {
		f += 1
	}
	return f
}

// copyConfig returns an independent copy of the base config.
// Config holds only value fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}
