package ga

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanSolution builds a conflict-free candidate: distinct teachers, rooms,
// and days, so the fitness evaluator scores it at (or above) the
// convergence threshold.
func cleanSolution(teacherID, roomID string, day int) Solution {
	return Solution{Periods: []Period{
		period(day, "08:00", "08:45", "math", teacherID, roomID, "sec-a"),
	}}
}

// conflictedSolution builds a candidate with a real teacher double-booking,
// so it never satisfies the convergence check, which requires zero conflicts
// (its clamped fitness is still 1.0).
func conflictedSolution() Solution {
	return Solution{Periods: []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:00", "08:45", "science", "t1", "r2", "sec-b"),
	}}
}

func TestEvaluateAll_PreservesOrderAcrossWorkers(t *testing.T) {
	idx := buildTestIndex(t)
	evaluator := newFitnessEvaluator(DefaultConstraints())
	controller := newEvolutionaryController(idx, evaluator, rand.New(rand.NewSource(1)))

	solutions := make([]Solution, 20)
	for i := range solutions {
		solutions[i] = Solution{Periods: []Period{
			period(i%7, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		}}
	}

	results := controller.evaluateAll(solutions, 4)
	require.Len(t, results, len(solutions))
	for i, r := range results {
		assert.Equal(t, solutions[i].Periods[0].DayOfWeek, r.Periods[0].DayOfWeek, "result at index %d must correspond to input at the same index", i)
	}
}

func TestRun_StopsEarlyOnConvergence(t *testing.T) {
	idx := buildTestIndex(t)
	evaluator := newFitnessEvaluator(DefaultConstraints())
	controller := newEvolutionaryController(idx, evaluator, rand.New(rand.NewSource(1)))

	initial := []Solution{
		cleanSolution("t1", "r1", 1),
		cleanSolution("t2", "r2", 2),
		cleanSolution("t3", "r3", 3),
		cleanSolution("t4", "r4", 4),
	}

	// elite size equal to population size skips the offspring loop
	// entirely, so the evaluated initial population is exactly what the
	// convergence check inspects.
	params := GenerationParams{PopulationSize: 4, Generations: 50, EliteSize: 4, TournamentSize: 2}
	best, stats := controller.Run(context.Background(), initial, params)

	assert.True(t, stats.StoppedEarly)
	assert.Equal(t, "converged", stats.StopReason)
	assert.Equal(t, 1, stats.GenerationsRun)
	assert.GreaterOrEqual(t, best.Fitness, 0.95)
	assert.Empty(t, best.Conflicts)
}

func TestRun_StopsOnCancellation(t *testing.T) {
	idx := buildTestIndex(t)
	evaluator := newFitnessEvaluator(DefaultConstraints())
	controller := newEvolutionaryController(idx, evaluator, rand.New(rand.NewSource(1)))

	initial := []Solution{conflictedSolution(), conflictedSolution()}
	params := GenerationParams{PopulationSize: 2, Generations: 1000, EliteSize: 1, TournamentSize: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stats := controller.Run(ctx, initial, params)
	assert.True(t, stats.StoppedEarly)
	assert.Equal(t, "cancelled", stats.StopReason)
	assert.Equal(t, 0, stats.GenerationsRun)
}

func TestRun_RespectsGenerationBudget(t *testing.T) {
	idx := buildTestIndex(t)
	evaluator := newFitnessEvaluator(DefaultConstraints())
	controller := newEvolutionaryController(idx, evaluator, rand.New(rand.NewSource(1)))

	initial := []Solution{conflictedSolution(), conflictedSolution()}
	params := GenerationParams{
		PopulationSize:   2,
		Generations:      1000,
		EliteSize:        1,
		TournamentSize:   2,
		GenerationBudget: time.Nanosecond,
	}

	_, stats := controller.Run(context.Background(), initial, params)
	assert.True(t, stats.StoppedEarly)
	assert.Equal(t, "generation_budget_exceeded", stats.StopReason)
	assert.Equal(t, 1, stats.GenerationsRun)
}

func TestApplyDefaults_ClampsEliteSizeToPopulation(t *testing.T) {
	params := GenerationParams{PopulationSize: 3, EliteSize: 10}
	params.applyDefaults()
	assert.Equal(t, 3, params.EliteSize)
}
