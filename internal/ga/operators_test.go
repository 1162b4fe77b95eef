package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePopulation() []Solution {
	return []Solution{
		{Periods: []Period{period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a")}, Fitness: 0.2},
		{Periods: []Period{period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a")}, Fitness: 0.9},
		{Periods: []Period{period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a")}, Fitness: 0.5},
	}
}

func TestTournamentSelect_ReturnsFittest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	population := samplePopulation()

	best := tournamentSelect(rng, population, len(population))
	assert.Equal(t, 0.9, best.Fitness)
}

func TestTournamentSelect_CapsAtPopulationSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	population := samplePopulation()

	// tournament size larger than the population must not panic.
	best := tournamentSelect(rng, population, 50)
	assert.Contains(t, []float64{0.2, 0.9, 0.5}, best.Fitness)
}

func TestCrossover_RecombinesParents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p1 := Solution{Periods: []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:45", "09:30", "math", "t1", "r1", "sec-a"),
		period(1, "09:30", "10:15", "math", "t1", "r1", "sec-a"),
	}}
	p2 := Solution{Periods: []Period{
		period(2, "08:00", "08:45", "science", "t2", "r2", "sec-b"),
		period(2, "08:45", "09:30", "science", "t2", "r2", "sec-b"),
		period(2, "09:30", "10:15", "science", "t2", "r2", "sec-b"),
	}}

	c1, c2 := crossover(rng, p1, p2)
	require.Len(t, c1.Periods, 3)
	require.Len(t, c2.Periods, 3)

	// children must contain a mix of both parents' subjects somewhere.
	mixed := false
	for i := range c1.Periods {
		if c1.Periods[i].SubjectID != c1.Periods[0].SubjectID {
			mixed = true
		}
	}
	assert.True(t, mixed)
}

func TestCrossover_TooShortClonesParents(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p1 := Solution{Periods: []Period{period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a")}}
	p2 := Solution{Periods: []Period{period(2, "08:00", "08:45", "science", "t2", "r2", "sec-b")}}

	c1, c2 := crossover(rng, p1, p2)
	assert.Equal(t, p1.Periods, c1.Periods)
	assert.Equal(t, p2.Periods, c2.Periods)
}

func TestMutate_SwapsDistinctSlots(t *testing.T) {
	idx := &domainIndex{
		teachersBySubj: map[string][]Teacher{"math": {{ID: "t1"}, {ID: "t2"}}},
		availableRooms: []Room{{ID: "r1", IsAvailable: true}, {ID: "r2", IsAvailable: true}},
	}
	rng := rand.New(rand.NewSource(3))
	sol := Solution{Periods: []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(2, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
	}}

	mutated := mutate(rng, idx, sol)
	require.Len(t, mutated.Periods, 2)
	assert.Equal(t, 2, mutated.Periods[0].DayOfWeek, "the two slots must have been swapped")
	// original must be untouched (Clone semantics).
	assert.Equal(t, 1, sol.Periods[0].DayOfWeek)
}
