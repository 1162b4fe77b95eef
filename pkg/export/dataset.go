package export

import (
	"strconv"

	"github.com/noah-isme/sma-adp-api/internal/dto"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// PeriodsToDataset flattens a generated timetable's periods into a dataset
// suitable for CSV or PDF rendering, one row per scheduled period.
func PeriodsToDataset(periods []dto.PeriodDTO) Dataset {
	headers := []string{"Day", "Period", "Start", "End", "Subject", "Teacher", "Room", "Section"}
	rows := make([]map[string]string, len(periods))
	for i, p := range periods {
		rows[i] = map[string]string{
			"Day":     weekdayName(p.DayOfWeek),
			"Period":  strconv.Itoa(p.PeriodNumber),
			"Start":   p.StartTime,
			"End":     p.EndTime,
			"Subject": p.SubjectID,
			"Teacher": p.TeacherID,
			"Room":    p.RoomID,
			"Section": p.SectionID,
		}
	}
	return Dataset{Headers: headers, Rows: rows}
}

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func weekdayName(day int) string {
	if day < 0 || day >= len(weekdayNames) {
		return ""
	}
	return weekdayNames[day]
}
