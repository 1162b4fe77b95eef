package ga

import "math/rand"

// tournamentSelect samples tournamentSize distinct candidates (or the whole
// population, if smaller) and returns the fittest one.
func tournamentSelect(rng *rand.Rand, population []Solution, tournamentSize int) Solution {
	n := tournamentSize
	if n > len(population) {
		n = len(population)
	}
	indices := rng.Perm(len(population))[:n]

	best := population[indices[0]]
	for _, i := range indices[1:] {
		if population[i].Fitness > best.Fitness {
			best = population[i]
		}
	}
	return best
}

// crossover performs single-point crossover over the flat period list,
// producing two children that recombine the parents' period assignments.
func crossover(rng *rand.Rand, p1, p2 Solution) (Solution, Solution) {
	minLen := len(p1.Periods)
	if len(p2.Periods) < minLen {
		minLen = len(p2.Periods)
	}
	if minLen < 2 {
		return p1.Clone(), p2.Clone()
	}
	point := 1 + rng.Intn(minLen-1)

	child1Periods := make([]Period, 0, len(p1.Periods))
	child1Periods = append(child1Periods, p1.Periods[:point]...)
	child1Periods = append(child1Periods, p2.Periods[point:]...)

	child2Periods := make([]Period, 0, len(p2.Periods))
	child2Periods = append(child2Periods, p2.Periods[:point]...)
	child2Periods = append(child2Periods, p1.Periods[point:]...)

	return Solution{Periods: child1Periods}, Solution{Periods: child2Periods}
}

// mutate swaps a handful of period slots and independently resamples each
// period's teacher and room with low probability. Subject and section
// assignments are never touched by mutation.
func mutate(rng *rand.Rand, idx *domainIndex, sol Solution) Solution {
	mutated := sol.Clone()

	if len(mutated.Periods) > 1 {
		maxSwaps := len(mutated.Periods) / 2
		if maxSwaps > 5 {
			maxSwaps = 5
		}
		if maxSwaps < 1 {
			maxSwaps = 1
		}
		numSwaps := 1 + rng.Intn(maxSwaps)
		for i := 0; i < numSwaps; i++ {
			pair := rng.Perm(len(mutated.Periods))[:2]
			a, b := pair[0], pair[1]
			mutated.Periods[a], mutated.Periods[b] = mutated.Periods[b], mutated.Periods[a]
		}
	}

	gen := &initializer{idx: idx, rng: rng}
	for i := range mutated.Periods {
		if rng.Float64() < 0.1 {
			mutated.Periods[i].TeacherID = gen.pickTeacher(mutated.Periods[i].SubjectID)
		}
		if rng.Float64() < 0.1 {
			mutated.Periods[i].RoomID = gen.pickRoom()
		}
	}

	return mutated
}
