package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func period(day int, start, end, subject, teacher, room, section string) Period {
	return Period{
		DayOfWeek: day, StartTime: start, EndTime: end,
		SubjectID: subject, TeacherID: teacher, RoomID: room, SectionID: section,
	}
}

func TestDetectTeacherOverlaps(t *testing.T) {
	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:00", "08:45", "science", "t1", "r2", "sec-b"),
	}
	conflicts := detectTeacherOverlaps(periods)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictTeacherOverlap, conflicts[0].Type)
	assert.Equal(t, SeverityError, conflicts[0].Severity)
}

func TestDetectTeacherOverlaps_NoOverlapWhenIntervalsDiffer(t *testing.T) {
	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:45", "09:30", "science", "t1", "r2", "sec-b"),
	}
	assert.Empty(t, detectTeacherOverlaps(periods))
}

func TestDetectRoomDoubleBookings(t *testing.T) {
	periods := []Period{
		period(2, "09:00", "09:45", "math", "t1", "r1", "sec-a"),
		period(2, "09:00", "09:45", "science", "t2", "r1", "sec-b"),
	}
	conflicts := detectRoomDoubleBookings(periods)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictRoomDoubleBooking, conflicts[0].Type)
}

func TestDetectConstraintViolations_MaxPeriodsPerDay(t *testing.T) {
	constraints := DefaultConstraints()
	constraints.MaxPeriodsPerDay = 2

	evaluator := newFitnessEvaluator(constraints)
	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:45", "09:30", "science", "t2", "r2", "sec-a"),
		period(1, "09:30", "10:15", "history", "t3", "r3", "sec-a"),
	}

	conflicts := evaluator.detectConstraintViolations(periods)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictMaxPeriodsViolation, conflicts[0].Type)
	assert.Equal(t, SeverityWarning, conflicts[0].Severity)
}

func TestDetectConstraintViolations_TeacherOverwork(t *testing.T) {
	constraints := DefaultConstraints()
	constraints.MaxTeacherPeriodsPerWeek = 2

	evaluator := newFitnessEvaluator(constraints)
	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(2, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(3, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
	}

	conflicts := evaluator.detectConstraintViolations(periods)
	found := false
	for _, c := range conflicts {
		if c.Type == ConflictTeacherOverwork {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDistributionScore_PenalizesBackToBackDays(t *testing.T) {
	constraints := DefaultConstraints()
	constraints.AvoidBackToBackSubjects = true
	evaluator := newFitnessEvaluator(constraints)

	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(2, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
	}

	score := evaluator.distributionScore(periods)
	assert.Less(t, score, 1.0)
}

func TestDistributionScore_NoPenaltyWhenSpread(t *testing.T) {
	constraints := DefaultConstraints()
	constraints.AvoidBackToBackSubjects = true
	evaluator := newFitnessEvaluator(constraints)

	periods := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(3, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
	}

	score := evaluator.distributionScore(periods)
	assert.Equal(t, 1.0, score)
}

func TestWorkloadBalance_NoTeachersReturnsPerfectScore(t *testing.T) {
	assert.Equal(t, 1.0, workloadBalance(nil))
}

func TestWorkloadBalance_PenalizesUnevenLoad(t *testing.T) {
	even := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:45", "09:30", "math", "t2", "r1", "sec-a"),
	}
	uneven := []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:45", "09:30", "math", "t1", "r1", "sec-a"),
		period(1, "09:30", "10:15", "math", "t1", "r1", "sec-a"),
		period(2, "08:00", "08:45", "math", "t2", "r1", "sec-a"),
	}
	assert.GreaterOrEqual(t, workloadBalance(even), workloadBalance(uneven))
}

func TestEvaluate_PerfectScheduleScoresHigh(t *testing.T) {
	evaluator := newFitnessEvaluator(DefaultConstraints())
	sol := Solution{Periods: []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(3, "08:00", "08:45", "science", "t2", "r2", "sec-a"),
	}}

	scored := evaluator.Evaluate(sol)
	assert.Empty(t, scored.Conflicts)
	assert.InDelta(t, 1.0, scored.Fitness, 0.11)
}

func TestEvaluate_ConflictsReduceFitness(t *testing.T) {
	evaluator := newFitnessEvaluator(DefaultConstraints())
	clean := evaluator.Evaluate(Solution{Periods: []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
	}})
	withOverlap := evaluator.Evaluate(Solution{Periods: []Period{
		period(1, "08:00", "08:45", "math", "t1", "r1", "sec-a"),
		period(1, "08:00", "08:45", "science", "t1", "r1", "sec-b"),
		period(1, "08:00", "08:45", "history", "t1", "r1", "sec-c"),
	}})

	assert.Greater(t, clean.Fitness, withOverlap.Fitness)
	assert.NotEmpty(t, withOverlap.Conflicts)
}
