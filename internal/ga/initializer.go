package ga

import "math/rand"

// maxInitializerSteps bounds the cursor walk per section-day: one 15-minute
// break-skip tick for every 15 minutes in a day, plenty for any real timing
// configuration, so a break schedule that never clears can't loop forever.
const maxInitializerSteps = 24 * 60 / 15

// initializer lays out random but structurally valid candidate timetables:
// one full week of periods per section, walking the school day from its
// start time and skipping any break window it crosses.
type initializer struct {
	idx              *domainIndex
	periodDurationMin int
	totalPeriods     int
	startTime        string
	rng              *rand.Rand
}

func newInitializer(idx *domainIndex, periodDurationMin, totalPeriods int, startTime string, rng *rand.Rand) *initializer {
	return &initializer{
		idx:               idx,
		periodDurationMin: periodDurationMin,
		totalPeriods:      totalPeriods,
		startTime:         startTime,
		rng:               rng,
	}
}

// population builds size random candidate solutions.
func (g *initializer) population(size int) ([]Solution, error) {
	out := make([]Solution, size)
	for i := range out {
		periods, err := g.buildPeriods()
		if err != nil {
			return nil, err
		}
		out[i] = Solution{Periods: periods}
	}
	return out, nil
}

func (g *initializer) buildPeriods() ([]Period, error) {
	var periods []Period
	for _, section := range g.idx.sections {
		subjectIDs := g.idx.subjectsForSection(section)
		if len(subjectIDs) == 0 {
			continue
		}
		for _, day := range g.idx.days {
			current := g.startTime
			periodNum := 1
			emitted := 0
			// Break-skips advance the cursor without counting toward
			// totalPeriods, so bound the walk by clock ticks rather than
			// periods emitted to guard against a break configuration that
			// never lets the cursor clear.
			for step := 0; emitted < g.totalPeriods && step < maxInitializerSteps; step++ {
				currentMin, err := parseClock(current)
				if err != nil {
					return nil, err
				}
				if inBreak(g.idx.breaks, day, currentMin) {
					current, err = addMinutes(current, 15)
					if err != nil {
						return nil, err
					}
					continue
				}

				subjectID := subjectIDs[g.rng.Intn(len(subjectIDs))]
				teacherID := g.pickTeacher(subjectID)
				roomID := g.pickRoom()

				end, err := addMinutes(current, g.periodDurationMin)
				if err != nil {
					return nil, err
				}

				periods = append(periods, Period{
					DayOfWeek:    day,
					PeriodNumber: periodNum,
					StartTime:    current,
					EndTime:      end,
					SubjectID:    subjectID,
					TeacherID:    teacherID,
					RoomID:       roomID,
					SectionID:    section.ID,
				})

				periodNum++
				emitted++
				current = end
			}
		}
	}
	return periods, nil
}

// pickTeacher returns a random teacher eligible for subjectID, or "" if none.
func (g *initializer) pickTeacher(subjectID string) string {
	candidates := g.idx.teachersForSubject(subjectID)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[g.rng.Intn(len(candidates))].ID
}

// pickRoom returns a random available room, or "" if none configured.
func (g *initializer) pickRoom() string {
	if len(g.idx.availableRooms) == 0 {
		return ""
	}
	return g.idx.availableRooms[g.rng.Intn(len(g.idx.availableRooms))].ID
}
