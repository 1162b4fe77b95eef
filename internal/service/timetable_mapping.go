package service

import (
	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/ga"
	"github.com/noah-isme/sma-adp-api/internal/models"
)

func toGASections(in []dto.SectionInput) []ga.Section {
	out := make([]ga.Section, len(in))
	for i, s := range in {
		out[i] = ga.Section{ID: s.ID, SubjectIDs: s.SubjectIDs}
	}
	return out
}

func toGATeachers(in []dto.TeacherInput) []ga.Teacher {
	out := make([]ga.Teacher, len(in))
	for i, t := range in {
		out[i] = ga.Teacher{ID: t.ID, SubjectIDs: t.SubjectIDs, CanTeachAll: t.CanTeachAll}
	}
	return out
}

func toGASubjects(in []dto.SubjectInput) []ga.Subject {
	out := make([]ga.Subject, len(in))
	for i, s := range in {
		out[i] = ga.Subject{ID: s.ID, Name: s.Name}
	}
	return out
}

func toGARooms(in []dto.RoomInput) []ga.Room {
	out := make([]ga.Room, len(in))
	for i, r := range in {
		available := true
		if r.IsAvailable != nil {
			available = *r.IsAvailable
		}
		out[i] = ga.Room{ID: r.ID, IsAvailable: available}
	}
	return out
}

func toGATiming(in dto.SchoolTimingInput) ga.SchoolTiming {
	return ga.SchoolTiming{
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		PeriodDurationMin: in.PeriodDurationMinutes,
		TotalPeriods:      in.TotalPeriods,
		DaysBitmask:       in.SchoolDaysMask,
	}
}

func toGABreaks(in []dto.BreakScheduleInput) []ga.BreakSchedule {
	out := make([]ga.BreakSchedule, len(in))
	for i, b := range in {
		out[i] = ga.BreakSchedule{
			Name:        b.Name,
			DaysBitmask: b.DaysMask,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
		}
	}
	return out
}

func toGAConstraints(in dto.ConstraintsInput) ga.Constraints {
	return ga.Constraints{
		MaxPeriodsPerDay:         in.MaxPeriodsPerDay,
		MaxConsecutivePeriods:    in.MaxConsecutivePeriods,
		AvoidBackToBackSubjects:  in.AvoidBackToBackSubjects,
		MaxTeacherPeriodsPerDay:  in.MaxTeacherPeriodsPerDay,
		MaxTeacherPeriodsPerWeek: in.MaxTeacherPeriodsPerWeek,
		LunchBreakRequired:       in.LunchBreakRequired,
		MinFreePeriodsPerTeacher: in.MinFreePeriodsPerTeacher,
	}
}

func toGAPeriods(in []dto.PeriodDTO) []ga.Period {
	out := make([]ga.Period, len(in))
	for i, p := range in {
		out[i] = ga.Period{
			DayOfWeek:    p.DayOfWeek,
			PeriodNumber: p.PeriodNumber,
			StartTime:    p.StartTime,
			EndTime:      p.EndTime,
			SubjectID:    p.SubjectID,
			TeacherID:    p.TeacherID,
			RoomID:       p.RoomID,
			SectionID:    p.SectionID,
		}
	}
	return out
}

func toPeriodDTOs(in []ga.Period) []dto.PeriodDTO {
	out := make([]dto.PeriodDTO, len(in))
	for i, p := range in {
		out[i] = dto.PeriodDTO{
			DayOfWeek:    p.DayOfWeek,
			PeriodNumber: p.PeriodNumber,
			StartTime:    p.StartTime,
			EndTime:      p.EndTime,
			SubjectID:    p.SubjectID,
			TeacherID:    p.TeacherID,
			RoomID:       p.RoomID,
			SectionID:    p.SectionID,
		}
	}
	return out
}

func toConflictDTOs(in []ga.Conflict) []dto.ConflictDTO {
	out := make([]dto.ConflictDTO, len(in))
	for i, c := range in {
		out[i] = dto.ConflictDTO{
			Type:     string(c.Type),
			Severity: string(c.Severity),
			Message:  c.Message,
			Periods:  toPeriodDTOs(c.Periods),
		}
	}
	return out
}

func toStatisticsDTO(in ga.Statistics) dto.StatisticsDTO {
	return dto.StatisticsDTO{
		TotalPeriods:      in.TotalPeriods,
		ConflictCount:     in.ConflictCount,
		CriticalConflicts: in.CriticalConflicts,
		TotalSections:     in.TotalSections,
		TotalTeachers:     in.TotalTeachers,
		TotalRooms:        in.TotalRooms,
	}
}

func toGeneratedTimetableDTO(sol ga.Solution, stats ga.RunStats, params ga.GenerationParams) dto.GeneratedTimetable {
	statistics := ga.BuildStatistics(sol)
	return dto.GeneratedTimetable{
		Periods:        toPeriodDTOs(sol.Periods),
		FitnessScore:   sol.Fitness,
		Conflicts:      toConflictDTOs(sol.Conflicts),
		Statistics:     toStatisticsDTO(statistics),
		PopulationSize: params.PopulationSize,
		Generations:    params.Generations,
		MutationRate:   params.MutationRate,
		CrossoverRate:  params.CrossoverRate,
		EliteSize:      params.EliteSize,
		GenerationsRun: stats.GenerationsRun,
		StoppedEarly:   stats.StoppedEarly,
		StopReason:     stats.StopReason,
	}
}

func toSemesterScheduleSlots(scheduleID string, periods []dto.PeriodDTO) []models.SemesterScheduleSlot {
	out := make([]models.SemesterScheduleSlot, len(periods))
	for i, p := range periods {
		slot := models.SemesterScheduleSlot{
			SemesterScheduleID: scheduleID,
			DayOfWeek:          p.DayOfWeek,
			PeriodNumber:       p.PeriodNumber,
			StartTime:          p.StartTime,
			EndTime:            p.EndTime,
			SubjectID:          p.SubjectID,
			SectionID:          p.SectionID,
		}
		if p.TeacherID != "" {
			teacherID := p.TeacherID
			slot.TeacherID = &teacherID
		}
		if p.RoomID != "" {
			roomID := p.RoomID
			slot.RoomID = &roomID
		}
		out[i] = slot
	}
	return out
}
