package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/game"
	"github.com/pthm-cable/conerace/telemetry"
	"github.com/pthm-cable/conerace/track"
)

// FitnessEvaluator runs headless races and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config
	track       *track.Track

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastSpread     float64 // std-dev of best scores across seeds, most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator. The track is built once and
// shared read-only by every run.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) (*FitnessEvaluator, error) {
	t, err := track.Build(baseCfg.Track, baseCfg.Screen.Width, baseCfg.Screen.Height)
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		track:       t,
		bestFitness: math.Inf(1),
	}, nil
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastSpread returns the spread of per-seed scores from the most recent evaluation.
func (fe *FitnessEvaluator) LastSpread() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSpread
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	bestScore  float64
	hallOfFame *telemetry.HallOfFame
	err        error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean over seeds of the best score reached.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	scores := make([]float64, 0, len(results))
	bestSeedScore := math.Inf(-1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		if r.err != nil {
			// A run that cannot start scores nothing.
			scores = append(scores, 0)
			continue
		}
		scores = append(scores, r.bestScore)
		if r.bestScore > bestSeedScore {
			bestSeedScore = r.bestScore
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	mean, std := stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		std = 0
	}
	fitness := -mean

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastSpread = std
	fe.mu.Unlock()

	return fitness
}

// runSimulation races one seed for the configured number of generations.
// cfg is shared between seeds and only read.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) seedResult {
	g, err := game.NewGameWithOptions(game.Options{
		Seed:   seed,
		Config: cfg,
		Track:  fe.track,
	})
	if err != nil {
		return seedResult{err: err}
	}
	defer g.Close()

	for g.Generation() < fe.generations {
		g.Update()
	}

	return seedResult{
		bestScore:  g.BestScore(),
		hallOfFame: g.HallOfFame(),
	}
}
