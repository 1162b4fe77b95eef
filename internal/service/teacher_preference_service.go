package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

type teacherPreferenceRepository interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error)
	Upsert(ctx context.Context, pref *models.TeacherPreference) error
}

// UpsertTeacherPreferenceRequest replaces a teacher's load/availability rules.
type UpsertTeacherPreferenceRequest struct {
	MaxLoadPerDay  int      `json:"max_load_per_day" validate:"min=0"`
	MaxLoadPerWeek int      `json:"max_load_per_week" validate:"min=0"`
	Unavailable    []string `json:"unavailable"`
}

// TeacherPreferenceService handles teacher load and availability rules. The
// assignment workflow checks MaxLoadPerWeek against the teacher's assignment
// count for the term; the timetable generator does not read these rules.
type TeacherPreferenceService struct {
	repo      teacherPreferenceRepository
	teachers  teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherPreferenceService creates a new preference service.
func NewTeacherPreferenceService(repo teacherPreferenceRepository, teachers teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherPreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherPreferenceService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// Get returns a teacher's preferences, defaulting to zero-valued (unlimited)
// rules when none have been set yet.
func (s *TeacherPreferenceService) Get(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	pref, err := s.repo.GetByTeacher(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.TeacherPreference{TeacherID: teacherID, Unavailable: types.JSONText("[]")}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preference")
	}
	return pref, nil
}

// Upsert replaces a teacher's preference rules.
func (s *TeacherPreferenceService) Upsert(ctx context.Context, teacherID string, req UpsertTeacherPreferenceRequest) (*models.TeacherPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	unavailable, err := marshalUnavailable(req.Unavailable)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unavailable slots")
	}

	pref := &models.TeacherPreference{
		TeacherID:      teacherID,
		MaxLoadPerDay:  req.MaxLoadPerDay,
		MaxLoadPerWeek: req.MaxLoadPerWeek,
		Unavailable:    unavailable,
	}

	existing, err := s.repo.GetByTeacher(ctx, teacherID)
	if err == nil {
		pref.ID = existing.ID
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preference")
	}

	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save teacher preference")
	}
	return pref, nil
}

func marshalUnavailable(slots []string) (types.JSONText, error) {
	if len(slots) == 0 {
		return types.JSONText("[]"), nil
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}
