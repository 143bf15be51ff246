package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config
	depth      int
	width      int

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. depth and width override the
// field size when positive.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config, depth, width int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxSteps:   maxSteps,
		seeds:      seeds,
		baseConfig: baseCfg,
		depth:      depth,
		width:      width,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalSteps int                     // steps before the field stopped being viable
	windowStats   []telemetry.WindowStats // collected via the stats callback each window
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival steps: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{}
				return
			}
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalSteps, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until the field is no
// longer viable or maxSteps is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return nil, err
	}

	sim, err := game.NewWithOptions(cfg, game.Options{
		Seed:  seed,
		Depth: fe.depth,
		Width: fe.width,
	})
	if err != nil {
		return nil, err
	}
	defer sim.Close()

	result := &runResult{}
	sim.Recorder().SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	result.survivalSteps = sim.Simulate(fe.maxSteps)
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs with
// similar survival.
func computeFitness(survivalSteps int, quality float64) float64 {
	return -(float64(survivalSteps) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightDiversity = 0.6
	qualityWeightStability = 0.4

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores a run in [0, 1] from how many species stayed alive
// and how steady the herbivore and predator populations were.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var diversitySum float64
	herbivores := make([]float64, 0, len(valid))
	predators := make([]float64, 0, len(valid))
	for _, w := range valid {
		diversitySum += float64(w.Represented) / float64(components.NumSpecies)
		herbivores = append(herbivores, float64(w.Herbivores()))
		predators = append(predators, float64(w.Predators()))
	}
	diversityScore := diversitySum / float64(len(valid))

	stabilityScore := 0.0
	if len(valid) >= 2 {
		cvHerb := cv(herbivores)
		cvPred := cv(predators)
		stabilityScore = math.Exp(-(cvHerb*cvHerb + cvPred*cvPred))
	}

	return clamp01(qualityWeightDiversity*diversityScore + qualityWeightStability*stabilityScore)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	mean, std := telemetry.MeanStd(values)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
