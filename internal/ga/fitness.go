package ga

import (
	"fmt"
	"math"
	"sort"
)

// fitnessEvaluator scores a Solution and populates its Conflicts slice.
type fitnessEvaluator struct {
	constraints Constraints
}

func newFitnessEvaluator(c Constraints) *fitnessEvaluator {
	return &fitnessEvaluator{constraints: c}
}

// Evaluate computes conflicts and an overall [0,1] fitness score, mutating
// neither the receiver nor the input periods.
func (f *fitnessEvaluator) Evaluate(sol Solution) Solution {
	var conflicts []Conflict
	conflicts = append(conflicts, detectTeacherOverlaps(sol.Periods)...)
	conflicts = append(conflicts, detectRoomDoubleBookings(sol.Periods)...)
	conflicts = append(conflicts, f.detectConstraintViolations(sol.Periods)...)

	score := 1.0
	score -= float64(len(conflicts)) * 0.1
	score += f.distributionScore(sol.Periods) * 0.2
	score += workloadBalance(sol.Periods) * 0.1
	score = math.Max(0, math.Min(1, score))

	sol.Conflicts = conflicts
	sol.Fitness = score
	return sol
}

type scheduleKey struct {
	Day   int
	Start string
	End   string
}

// detectTeacherOverlaps flags when a teacher is booked into two periods
// that share the exact same day/start/end slot.
func detectTeacherOverlaps(periods []Period) []Conflict {
	seen := make(map[string]map[scheduleKey]Period)
	var conflicts []Conflict
	for _, p := range periods {
		if p.TeacherID == "" {
			continue
		}
		key := scheduleKey{p.DayOfWeek, p.StartTime, p.EndTime}
		byKey, ok := seen[p.TeacherID]
		if !ok {
			byKey = make(map[scheduleKey]Period)
			seen[p.TeacherID] = byKey
		}
		if first, exists := byKey[key]; exists {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictTeacherOverlap,
				Severity: SeverityError,
				Message:  fmt.Sprintf("teacher %s is double-booked", p.TeacherID),
				Periods:  []Period{first, p},
			})
		} else {
			byKey[key] = p
		}
	}
	return conflicts
}

// detectRoomDoubleBookings flags when a room is booked into two periods
// that share the exact same day/start/end slot.
func detectRoomDoubleBookings(periods []Period) []Conflict {
	seen := make(map[string]map[scheduleKey]Period)
	var conflicts []Conflict
	for _, p := range periods {
		if p.RoomID == "" {
			continue
		}
		key := scheduleKey{p.DayOfWeek, p.StartTime, p.EndTime}
		byKey, ok := seen[p.RoomID]
		if !ok {
			byKey = make(map[scheduleKey]Period)
			seen[p.RoomID] = byKey
		}
		if first, exists := byKey[key]; exists {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictRoomDoubleBooking,
				Severity: SeverityError,
				Message:  fmt.Sprintf("room %s is double-booked", p.RoomID),
				Periods:  []Period{first, p},
			})
		} else {
			byKey[key] = p
		}
	}
	return conflicts
}

type sectionDay struct {
	SectionID string
	Day       int
}

type teacherDay struct {
	TeacherID string
	Day       int
}

// detectConstraintViolations checks per-section daily load and per-teacher
// daily/weekly load against the configured Constraints. These are warnings,
// not hard errors: they degrade fitness but don't by themselves make a
// solution invalid.
func (f *fitnessEvaluator) detectConstraintViolations(periods []Period) []Conflict {
	var conflicts []Conflict

	bySectionDay := make(map[sectionDay][]Period)
	for _, p := range periods {
		key := sectionDay{p.SectionID, p.DayOfWeek}
		bySectionDay[key] = append(bySectionDay[key], p)
	}
	for key, ps := range bySectionDay {
		if len(ps) > f.constraints.MaxPeriodsPerDay {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictMaxPeriodsViolation,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("section %s has %d periods on day %d", key.SectionID, len(ps), key.Day),
				Periods:  ps,
			})
		}
	}

	byTeacher := make(map[string][]Period)
	for _, p := range periods {
		if p.TeacherID == "" {
			continue
		}
		byTeacher[p.TeacherID] = append(byTeacher[p.TeacherID], p)
	}
	for teacherID, ps := range byTeacher {
		byDay := make(map[teacherDay][]Period)
		for _, p := range ps {
			key := teacherDay{teacherID, p.DayOfWeek}
			byDay[key] = append(byDay[key], p)
		}
		for key, dayPeriods := range byDay {
			if len(dayPeriods) > f.constraints.MaxTeacherPeriodsPerDay {
				conflicts = append(conflicts, Conflict{
					Type:     ConflictTeacherOverwork,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("teacher %s has %d periods on day %d", teacherID, len(dayPeriods), key.Day),
					Periods:  dayPeriods,
				})
			}
		}
		if len(ps) > f.constraints.MaxTeacherPeriodsPerWeek {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictTeacherOverwork,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("teacher %s has %d periods per week", teacherID, len(ps)),
				Periods:  ps,
			})
		}
	}

	return conflicts
}

type sectionSubject struct {
	SectionID string
	SubjectID string
}

// distributionScore rewards spreading a section's occurrences of a subject
// across non-adjacent days. Days are examined in sorted order so the score
// is independent of how crossover/mutation reordered the period slice.
func (f *fitnessEvaluator) distributionScore(periods []Period) float64 {
	score := 1.0
	grouped := make(map[sectionSubject][]int)
	for _, p := range periods {
		key := sectionSubject{p.SectionID, p.SubjectID}
		grouped[key] = append(grouped[key], p.DayOfWeek)
	}
	for _, days := range grouped {
		sort.Ints(days)
		if !f.constraints.AvoidBackToBackSubjects {
			continue
		}
		for i := 0; i < len(days)-1; i++ {
			if abs(days[i]-days[i+1]) == 1 {
				score -= 0.05
			}
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// workloadBalance rewards an even spread of periods across teachers,
// returning 1.0 when no teacher is assigned (nothing to balance).
func workloadBalance(periods []Period) float64 {
	counts := make(map[string]int)
	for _, p := range periods {
		if p.TeacherID == "" {
			continue
		}
		counts[p.TeacherID]++
	}
	if len(counts) == 0 {
		return 1.0
	}

	var sum float64
	loads := make([]float64, 0, len(counts))
	for _, c := range counts {
		loads = append(loads, float64(c))
		sum += float64(c)
	}
	mean := sum / float64(len(loads))

	var variance float64
	for _, l := range loads {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(loads))

	return 1.0 / (1.0 + variance/100.0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
