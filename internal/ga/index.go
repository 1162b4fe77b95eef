package ga

// domainIndex precomputes lookup structures over the generator's reference
// data so the initializer and mutation operators can pick eligible
// teachers/rooms/subjects without rescanning the input slices.
type domainIndex struct {
	sections       []Section
	subjectsByID   map[string]Subject
	allSubjectIDs  []string
	teachersBySubj map[string][]Teacher
	availableRooms []Room
	schoolTiming   SchoolTiming
	breaks         []breakWindow
	days           []int
}

func buildDomainIndex(sections []Section, teachers []Teacher, subjects []Subject, rooms []Room, timing SchoolTiming, breaks []BreakSchedule) (*domainIndex, error) {
	idx := &domainIndex{
		sections:     sections,
		subjectsByID: make(map[string]Subject, len(subjects)),
		schoolTiming: timing,
		days:         decodeWeekdays(timing.DaysBitmask),
	}

	for _, s := range subjects {
		idx.subjectsByID[s.ID] = s
		idx.allSubjectIDs = append(idx.allSubjectIDs, s.ID)
	}

	byAll := make([]Teacher, 0)
	bySubject := make(map[string][]Teacher)
	for _, t := range teachers {
		if t.CanTeachAll {
			byAll = append(byAll, t)
			continue
		}
		for _, subjID := range t.SubjectIDs {
			bySubject[subjID] = append(bySubject[subjID], t)
		}
	}
	idx.teachersBySubj = make(map[string][]Teacher, len(subjects))
	for _, subjID := range idx.allSubjectIDs {
		combined := append([]Teacher{}, bySubject[subjID]...)
		combined = append(combined, byAll...)
		idx.teachersBySubj[subjID] = combined
	}

	for _, r := range rooms {
		if r.IsAvailable {
			idx.availableRooms = append(idx.availableRooms, r)
		}
	}

	for _, b := range breaks {
		start, err := parseClock(b.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(b.EndTime)
		if err != nil {
			return nil, err
		}
		idx.breaks = append(idx.breaks, breakWindow{
			Name:     b.Name,
			Days:     decodeWeekdays(b.DaysBitmask),
			StartMin: start,
			EndMin:   end,
		})
	}

	return idx, nil
}

// subjectsForSection returns the subjects eligible for a section: its own
// declared subjects, or every known subject when the section lists none.
func (idx *domainIndex) subjectsForSection(sec Section) []string {
	if len(sec.SubjectIDs) > 0 {
		return sec.SubjectIDs
	}
	return idx.allSubjectIDs
}

func (idx *domainIndex) teachersForSubject(subjectID string) []Teacher {
	return idx.teachersBySubj[subjectID]
}
