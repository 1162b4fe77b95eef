// Package ga implements the genetic-algorithm timetable engine: building,
// scoring, and evolving candidate school schedules from a pool of sections,
// teachers, subjects, and rooms.
package ga

// Section is a class/cohort that needs a full weekly timetable.
type Section struct {
	ID         string
	SubjectIDs []string // subjects this section studies; empty means "any known subject"
}

// Teacher can teach a set of subjects, or every subject when CanTeachAll is set.
type Teacher struct {
	ID          string
	SubjectIDs  []string
	CanTeachAll bool
}

// Subject is a teachable unit referenced by id from Section/Teacher.
type Subject struct {
	ID   string
	Name string
}

// Room is a physical space a period may be assigned to.
type Room struct {
	ID          string
	IsAvailable bool
}

// SchoolTiming bounds the instructional day.
type SchoolTiming struct {
	StartTime        string // "HH:MM"
	EndTime          string // "HH:MM"
	PeriodDurationMin int
	TotalPeriods     int // periods to lay out per section per school day
	DaysBitmask      int // 0=Sunday..6=Saturday; 0 defaults to Mon-Fri
}

// BreakSchedule names a recurring non-teaching window, e.g. lunch.
type BreakSchedule struct {
	Name      string
	DaysBitmask int
	StartTime string
	EndTime   string
}

// Constraints bounds the quality checks the fitness evaluator applies.
type Constraints struct {
	MaxPeriodsPerDay          int
	MaxConsecutivePeriods     int
	AvoidBackToBackSubjects   bool
	MaxTeacherPeriodsPerDay   int
	MaxTeacherPeriodsPerWeek  int
	LunchBreakRequired        bool
	MinFreePeriodsPerTeacher  int
}

// DefaultConstraints mirrors the defaults used when a caller omits the field.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxPeriodsPerDay:         8,
		MaxConsecutivePeriods:    3,
		AvoidBackToBackSubjects:  true,
		MaxTeacherPeriodsPerDay:  6,
		MaxTeacherPeriodsPerWeek: 25,
		LunchBreakRequired:       true,
		MinFreePeriodsPerTeacher: 2,
	}
}

// Period is a single placed teaching slot.
type Period struct {
	DayOfWeek    int // 0=Sunday..6=Saturday
	PeriodNumber int
	StartTime    string
	EndTime      string
	SubjectID    string
	TeacherID    string // empty means unassigned
	RoomID       string // empty means unassigned
	SectionID    string
}

// ConflictType tags the kind of scheduling defect a Conflict describes.
type ConflictType string

const (
	ConflictTeacherOverlap      ConflictType = "teacher_overlap"
	ConflictRoomDoubleBooking   ConflictType = "room_double_booking"
	ConflictMaxPeriodsViolation ConflictType = "max_periods_violation"
	ConflictTeacherOverwork     ConflictType = "teacher_overwork"
)

// ConflictSeverity classifies how serious a Conflict is.
type ConflictSeverity string

const (
	SeverityError   ConflictSeverity = "error"
	SeverityWarning ConflictSeverity = "warning"
)

// Conflict records a single detected scheduling defect, referencing the
// periods involved so callers can render or resolve it.
type Conflict struct {
	Type     ConflictType
	Severity ConflictSeverity
	Message  string
	Periods  []Period
}

// Solution is one candidate timetable: a flat multiset of periods plus the
// fitness and conflicts computed for it.
type Solution struct {
	Periods   []Period
	Fitness   float64
	Conflicts []Conflict
}

// Clone returns a deep copy safe for independent mutation.
func (s Solution) Clone() Solution {
	periods := make([]Period, len(s.Periods))
	copy(periods, s.Periods)
	conflicts := make([]Conflict, len(s.Conflicts))
	copy(conflicts, s.Conflicts)
	return Solution{Periods: periods, Fitness: s.Fitness, Conflicts: conflicts}
}

// Statistics summarizes a solution for reporting purposes.
type Statistics struct {
	TotalPeriods      int
	ConflictCount     int
	CriticalConflicts int
	TotalSections     int
	TotalTeachers     int
	TotalRooms        int
}

// BuildStatistics derives Statistics from a Solution, counting the distinct
// sections, teachers, and rooms actually referenced by its periods.
func BuildStatistics(s Solution) Statistics {
	stats := Statistics{TotalPeriods: len(s.Periods), ConflictCount: len(s.Conflicts)}
	for _, c := range s.Conflicts {
		if c.Severity == SeverityError {
			stats.CriticalConflicts++
		}
	}

	sections := make(map[string]struct{})
	teachers := make(map[string]struct{})
	rooms := make(map[string]struct{})
	for _, p := range s.Periods {
		sections[p.SectionID] = struct{}{}
		if p.TeacherID != "" {
			teachers[p.TeacherID] = struct{}{}
		}
		if p.RoomID != "" {
			rooms[p.RoomID] = struct{}{}
		}
	}
	stats.TotalSections = len(sections)
	stats.TotalTeachers = len(teachers)
	stats.TotalRooms = len(rooms)

	return stats
}

// ConflictsByType groups a solution's conflicts by their type, for reporting
// breakdowns like "2 teacher_overlap, 1 room_double_booking".
func ConflictsByType(conflicts []Conflict) map[ConflictType]int {
	counts := make(map[ConflictType]int)
	for _, c := range conflicts {
		counts[c.Type]++
	}
	return counts
}
