package ga

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Engine is the public entry point for the timetable generator: it wires
// together the domain index, initializer, fitness evaluator, and
// evolutionary controller behind three operations that mirror how the
// generator is actually consumed (generate from scratch, optimize a given
// timetable, or just score one).
type Engine struct{}

// NewEngine constructs a ready-to-use Engine. It carries no state of its
// own; every call is independent and safe to run concurrently.
func NewEngine() *Engine {
	return &Engine{}
}

// GenerateInput bundles everything the generator needs to build a timetable
// from scratch.
type GenerateInput struct {
	Sections     []Section
	Teachers     []Teacher
	Subjects     []Subject
	Rooms        []Room
	SchoolTiming SchoolTiming
	Breaks       []BreakSchedule
	Constraints  Constraints
	Params       GenerationParams
	Seed         int64
}

// GenerateResult is what Generate hands back: the fittest schedule found
// plus bookkeeping about how the run went.
type GenerateResult struct {
	Best  Solution
	Stats RunStats
}

// Generate builds an initial random population from the supplied reference
// data and evolves it for up to Params.Generations generations.
func (e *Engine) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	idx, err := buildDomainIndex(in.Sections, in.Teachers, in.Subjects, in.Rooms, in.SchoolTiming, in.Breaks)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("ga: build domain index: %w", err)
	}

	params := in.Params
	params.applyDefaults()

	rng := rand.New(rand.NewSource(seedOrDefault(in.Seed)))

	gen := newInitializer(idx, in.SchoolTiming.PeriodDurationMin, in.SchoolTiming.TotalPeriods, in.SchoolTiming.StartTime, rng)
	population, err := gen.population(params.PopulationSize)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("ga: build initial population: %w", err)
	}

	evaluator := newFitnessEvaluator(constraintsOrDefault(in.Constraints))
	controller := newEvolutionaryController(idx, evaluator, rng)

	best, stats := controller.Run(ctx, population, params)
	return GenerateResult{Best: best, Stats: stats}, nil
}

// OptimizeInput carries an existing timetable plus the reference data
// needed to re-evaluate and evolve it further.
type OptimizeInput struct {
	Periods      []Period
	Sections     []Section
	Teachers     []Teacher
	Subjects     []Subject
	Rooms        []Room
	SchoolTiming SchoolTiming
	Breaks       []BreakSchedule
	Constraints  Constraints
	Params       GenerationParams
	Seed         int64
}

// OptimizeResult reports the seed schedule's own score alongside whatever
// the controller evolved from a fresh population.
type OptimizeResult struct {
	BaselineFitness float64
	Best            Solution
	Stats           RunStats
}

// Optimize scores the supplied timetable as a baseline, then evolves a
// brand-new random population rather than seeding the run from it — the
// seed schedule anchors the reported baseline fitness but otherwise plays
// no further part in the search.
func (e *Engine) Optimize(ctx context.Context, in OptimizeInput) (OptimizeResult, error) {
	idx, err := buildDomainIndex(in.Sections, in.Teachers, in.Subjects, in.Rooms, in.SchoolTiming, in.Breaks)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("ga: build domain index: %w", err)
	}

	constraints := constraintsOrDefault(in.Constraints)
	evaluator := newFitnessEvaluator(constraints)

	baseline := evaluator.Evaluate(Solution{Periods: in.Periods})

	params := in.Params
	params.applyOptimizeDefaults()

	rng := rand.New(rand.NewSource(seedOrDefault(in.Seed)))

	gen := newInitializer(idx, in.SchoolTiming.PeriodDurationMin, in.SchoolTiming.TotalPeriods, in.SchoolTiming.StartTime, rng)
	population, err := gen.population(params.PopulationSize)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("ga: build initial population: %w", err)
	}

	controller := newEvolutionaryController(idx, evaluator, rng)
	best, stats := controller.Run(ctx, population, params)

	return OptimizeResult{BaselineFitness: baseline.Fitness, Best: best, Stats: stats}, nil
}

// AnalyzeResult is the scored breakdown of a single, already-built
// timetable — no search is performed.
type AnalyzeResult struct {
	Fitness               float64
	DistributionScore     float64
	WorkloadBalanceScore  float64
	Conflicts             []Conflict
	ConflictsByType       map[ConflictType]int
	Statistics            Statistics
}

// Analyze scores a timetable as-is: conflicts, the overall fitness, its
// distribution and workload components broken out individually, and
// summary statistics. No evolution happens here.
func (e *Engine) Analyze(periods []Period, constraints Constraints) AnalyzeResult {
	evaluator := newFitnessEvaluator(constraintsOrDefault(constraints))
	scored := evaluator.Evaluate(Solution{Periods: periods})

	return AnalyzeResult{
		Fitness:              scored.Fitness,
		DistributionScore:    evaluator.distributionScore(periods),
		WorkloadBalanceScore: workloadBalance(periods),
		Conflicts:            scored.Conflicts,
		ConflictsByType:      ConflictsByType(scored.Conflicts),
		Statistics:           BuildStatistics(scored),
	}
}

func seedOrDefault(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func constraintsOrDefault(c Constraints) Constraints {
	if c == (Constraints{}) {
		return DefaultConstraints()
	}
	return c
}
