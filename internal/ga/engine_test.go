package ga

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerateInput() GenerateInput {
	return GenerateInput{
		Sections: []Section{{ID: "sec-a", SubjectIDs: []string{"math"}}},
		Teachers: []Teacher{{ID: "t1", SubjectIDs: []string{"math"}}},
		Subjects: []Subject{{ID: "math", Name: "Mathematics"}},
		Rooms:    []Room{{ID: "r1", IsAvailable: true}},
		SchoolTiming: SchoolTiming{
			StartTime: "08:00", EndTime: "10:30", PeriodDurationMin: 45, TotalPeriods: 3,
		},
		Constraints: DefaultConstraints(),
		Params: GenerationParams{
			PopulationSize: 6,
			Generations:    5,
			EliteSize:      2,
			TournamentSize: 2,
		},
		Seed: 99,
	}
}

func TestEngineGenerate_ProducesScoredSchedule(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Generate(context.Background(), testGenerateInput())

	require.NoError(t, err)
	assert.NotEmpty(t, result.Best.Periods)
	assert.GreaterOrEqual(t, result.Stats.GenerationsRun, 1)
}

func TestEngineGenerate_IsDeterministicForAFixedSeed(t *testing.T) {
	engine := NewEngine()
	in := testGenerateInput()

	first, err := engine.Generate(context.Background(), in)
	require.NoError(t, err)
	second, err := engine.Generate(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.Best.Fitness, second.Best.Fitness)
}

func TestEngineOptimize_ReportsBaselineSeparatelyFromEvolvedPopulation(t *testing.T) {
	engine := NewEngine()
	in := testGenerateInput()

	seedPeriods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"), // deliberate duplicate/conflict
	}

	result, err := engine.Optimize(context.Background(), OptimizeInput{
		Periods:      seedPeriods,
		Sections:     in.Sections,
		Teachers:     in.Teachers,
		Subjects:     in.Subjects,
		Rooms:        in.Rooms,
		SchoolTiming: in.SchoolTiming,
		Constraints:  in.Constraints,
		Params:       in.Params,
		Seed:         in.Seed,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Best.Periods)
	// baseline reflects the seed schedule's own (poor) conflicts, which need
	// not match whatever the fresh evolved population converges to.
	assert.LessOrEqual(t, result.BaselineFitness, 1.0)
}

func TestEngineAnalyze_ScoresWithoutEvolving(t *testing.T) {
	engine := NewEngine()
	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:00", "08:45", "science", "t1", "r2", "sec-b"),
	}

	result := engine.Analyze(periods, DefaultConstraints())

	assert.NotEmpty(t, result.Conflicts)
	assert.Equal(t, 1, result.ConflictsByType[ConflictTeacherOverlap])
	assert.Equal(t, 2, result.Statistics.TotalSections)
	assert.Equal(t, 1, result.Statistics.TotalTeachers)
	assert.Equal(t, 2, result.Statistics.TotalRooms)
}

func TestConstraintsOrDefault_ZeroValueFallsBackToDefaults(t *testing.T) {
	got := constraintsOrDefault(Constraints{})
	assert.Equal(t, DefaultConstraints(), got)
}

