package ga

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"time"
)

// GenerationParams configures the evolutionary controller's run.
type GenerationParams struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	EliteSize      int
	TournamentSize int

	// Workers bounds the fitness-evaluation worker pool; <=0 uses
	// runtime.GOMAXPROCS(0).
	Workers int

	// GenerationBudget, when positive, caps the wall-clock time spent per
	// generation; a generation that would exceed it still completes but
	// the controller stops advancing further generations afterward.
	GenerationBudget time.Duration
}

// DefaultGenerationParams mirrors the defaults used when a caller omits hyperparameters.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		PopulationSize: 100,
		Generations:    1000,
		MutationRate:   0.1,
		CrossoverRate:  0.8,
		EliteSize:      20,
		TournamentSize: 5,
	}
}

// DefaultOptimizeParams mirrors the shorter, higher-mutation schedule the
// optimize operation runs by default, distinct from a from-scratch generate.
func DefaultOptimizeParams() GenerationParams {
	return GenerationParams{
		PopulationSize: 50,
		Generations:    500,
		MutationRate:   0.15,
		CrossoverRate:  0.80,
		EliteSize:      20,
		TournamentSize: 5,
	}
}

func (p *GenerationParams) applyDefaults() {
	p.applyDefaultsFrom(DefaultGenerationParams())
}

func (p *GenerationParams) applyOptimizeDefaults() {
	p.applyDefaultsFrom(DefaultOptimizeParams())
}

func (p *GenerationParams) applyDefaultsFrom(defaults GenerationParams) {
	if p.PopulationSize <= 0 {
		p.PopulationSize = defaults.PopulationSize
	}
	if p.Generations <= 0 {
		p.Generations = defaults.Generations
	}
	if p.MutationRate <= 0 {
		p.MutationRate = defaults.MutationRate
	}
	if p.CrossoverRate <= 0 {
		p.CrossoverRate = defaults.CrossoverRate
	}
	if p.EliteSize <= 0 {
		p.EliteSize = defaults.EliteSize
	}
	if p.EliteSize > p.PopulationSize {
		p.EliteSize = p.PopulationSize
	}
	if p.TournamentSize <= 0 {
		p.TournamentSize = defaults.TournamentSize
	}
	if p.Workers <= 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
}

// RunStats reports what happened during a controller run, for callers that
// want to surface progress or early-termination reasons.
type RunStats struct {
	GenerationsRun int
	StoppedEarly   bool
	StopReason     string
}

// evolutionaryController runs the generational GA loop: elitism, tournament
// selection, crossover, mutation, and parallel fitness evaluation.
type evolutionaryController struct {
	idx       *domainIndex
	evaluator *fitnessEvaluator
	rng       *rand.Rand
}

func newEvolutionaryController(idx *domainIndex, evaluator *fitnessEvaluator, rng *rand.Rand) *evolutionaryController {
	return &evolutionaryController{idx: idx, evaluator: evaluator, rng: rng}
}

// Run evolves an initial population for up to params.Generations
// generations, returning the fittest solution found. It stops early when a
// near-perfect conflict-free solution emerges, when ctx is cancelled, or
// when the per-generation wall-clock budget is exhausted.
func (c *evolutionaryController) Run(ctx context.Context, initial []Solution, params GenerationParams) (Solution, RunStats) {
	params.applyDefaults()

	population := c.evaluateAll(initial, params.Workers)
	sortByFitnessDesc(population)

	stats := RunStats{}
	for gen := 0; gen < params.Generations; gen++ {
		select {
		case <-ctx.Done():
			stats.StoppedEarly = true
			stats.StopReason = "cancelled"
			return population[0], stats
		default:
		}

		genStart := time.Now()

		elite := make([]Solution, params.EliteSize)
		copy(elite, population[:params.EliteSize])

		offspring := make([]Solution, 0, params.PopulationSize)
		for len(offspring) < params.PopulationSize-params.EliteSize {
			parent1 := tournamentSelect(c.rng, population, params.TournamentSize)
			parent2 := tournamentSelect(c.rng, population, params.TournamentSize)

			var child1, child2 Solution
			if c.rng.Float64() < params.CrossoverRate {
				child1, child2 = crossover(c.rng, parent1, parent2)
			} else {
				child1, child2 = parent1.Clone(), parent2.Clone()
			}

			if c.rng.Float64() < params.MutationRate {
				child1 = mutate(c.rng, c.idx, child1)
			}
			if c.rng.Float64() < params.MutationRate {
				child2 = mutate(c.rng, c.idx, child2)
			}

			offspring = append(offspring, child1, child2)
		}

		evaluated := c.evaluateAll(offspring, params.Workers)

		next := append(elite, evaluated...)
		if len(next) > params.PopulationSize {
			next = next[:params.PopulationSize]
		}
		sortByFitnessDesc(next)
		population = next
		stats.GenerationsRun = gen + 1

		best := population[0]
		if best.Fitness >= 0.95 && len(best.Conflicts) == 0 {
			stats.StoppedEarly = true
			stats.StopReason = "converged"
			return best, stats
		}

		if params.GenerationBudget > 0 && time.Since(genStart) > params.GenerationBudget {
			stats.StoppedEarly = true
			stats.StopReason = "generation_budget_exceeded"
			return best, stats
		}
	}

	return population[0], stats
}

// evaluateAll scores every solution using a bounded worker pool, writing
// results back by index so ordering is deterministic regardless of which
// worker finishes first.
func (c *evolutionaryController) evaluateAll(solutions []Solution, workers int) []Solution {
	if len(solutions) == 0 {
		return solutions
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(solutions) {
		workers = len(solutions)
	}

	results := make([]Solution, len(solutions))
	jobs := make(chan int)
	done := make(chan struct{})

	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				results[i] = c.evaluator.Evaluate(solutions[i])
			}
			done <- struct{}{}
		}()
	}

	go func() {
		for i := range solutions {
			jobs <- i
		}
		close(jobs)
	}()

	for w := 0; w < workers; w++ {
		<-done
	}

	return results
}

func sortByFitnessDesc(population []Solution) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})
}
