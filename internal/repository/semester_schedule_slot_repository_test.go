package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func newSemesterScheduleSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSemesterScheduleSlotRepositoryUpsertBatch(t *testing.T) {
	db, mock, cleanup := newSemesterScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewSemesterScheduleSlotRepository(db)

	teacher1 := "teacher-1"
	teacher2 := "teacher-2"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semester_schedule_slots")).
		WithArgs(sqlmock.AnyArg(), "sched-1", 1, 1, "07:00", "07:45", "sub-1", &teacher1, sqlmock.AnyArg(), "sec-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semester_schedule_slots")).
		WithArgs(sqlmock.AnyArg(), "sched-1", 1, 2, "07:45", "08:30", "sub-2", &teacher2, sqlmock.AnyArg(), "sec-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slots := []models.SemesterScheduleSlot{
		{
			SemesterScheduleID: "sched-1",
			DayOfWeek:          1,
			PeriodNumber:       1,
			StartTime:          "07:00",
			EndTime:            "07:45",
			SubjectID:          "sub-1",
			TeacherID:          &teacher1,
			SectionID:          "sec-1",
		},
		{
			SemesterScheduleID: "sched-1",
			DayOfWeek:          1,
			PeriodNumber:       2,
			StartTime:          "07:45",
			EndTime:            "08:30",
			SubjectID:          "sub-2",
			TeacherID:          &teacher2,
			SectionID:          "sec-1",
		},
	}

	require.NoError(t, repo.UpsertBatch(context.Background(), nil, slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterScheduleSlotRepositoryListBySchedule(t *testing.T) {
	db, mock, cleanup := newSemesterScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewSemesterScheduleSlotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "semester_schedule_id", "day_of_week", "period_number", "start_time", "end_time", "subject_id", "teacher_id", "room_id", "section_id", "created_at"}).
		AddRow("slot-1", "sched-1", 1, 1, "07:00", "07:45", "sub-1", "teacher-1", nil, "sec-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_schedule_id, day_of_week, period_number, start_time, end_time, subject_id, teacher_id, room_id, section_id, created_at FROM semester_schedule_slots WHERE semester_schedule_id = $1 ORDER BY day_of_week ASC, period_number ASC")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	slots, err := repo.ListBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
