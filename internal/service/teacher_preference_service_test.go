package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

type mockTeacherPreferenceRepo struct {
	items map[string]*models.TeacherPreference
}

func (m *mockTeacherPreferenceRepo) GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	if pref, ok := m.items[teacherID]; ok {
		cp := *pref
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherPreferenceRepo) Upsert(ctx context.Context, pref *models.TeacherPreference) error {
	if m.items == nil {
		m.items = make(map[string]*models.TeacherPreference)
	}
	if pref.ID == "" {
		pref.ID = "generated"
	}
	cp := *pref
	m.items[pref.TeacherID] = &cp
	return nil
}

func newPreferenceTeacherRepo(ids ...string) *mockTeacherRepo {
	repo := &mockTeacherRepo{items: make(map[string]*models.Teacher)}
	for _, id := range ids {
		repo.items[id] = &models.Teacher{ID: id, Active: true}
	}
	return repo
}

func TestTeacherPreferenceServiceGetDefaultsWhenUnset(t *testing.T) {
	repo := &mockTeacherPreferenceRepo{}
	teachers := newPreferenceTeacherRepo("t1")
	svc := NewTeacherPreferenceService(repo, teachers, validator.New(), zap.NewNop())

	pref, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", pref.TeacherID)
	assert.Equal(t, 0, pref.MaxLoadPerDay)
}

func TestTeacherPreferenceServiceGetUnknownTeacher(t *testing.T) {
	repo := &mockTeacherPreferenceRepo{}
	teachers := newPreferenceTeacherRepo()
	svc := NewTeacherPreferenceService(repo, teachers, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestTeacherPreferenceServiceUpsertCreatesThenUpdates(t *testing.T) {
	repo := &mockTeacherPreferenceRepo{}
	teachers := newPreferenceTeacherRepo("t1")
	svc := NewTeacherPreferenceService(repo, teachers, validator.New(), zap.NewNop())

	pref, err := svc.Upsert(context.Background(), "t1", UpsertTeacherPreferenceRequest{
		MaxLoadPerDay:  6,
		MaxLoadPerWeek: 24,
		Unavailable:    []string{"MON-08:00-09:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, pref.MaxLoadPerDay)
	firstID := pref.ID
	require.NotEmpty(t, firstID)

	pref, err = svc.Upsert(context.Background(), "t1", UpsertTeacherPreferenceRequest{
		MaxLoadPerDay:  8,
		MaxLoadPerWeek: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, pref.MaxLoadPerDay)
	assert.Equal(t, firstID, pref.ID)
}

func TestTeacherPreferenceServiceUpsertInvalid(t *testing.T) {
	repo := &mockTeacherPreferenceRepo{}
	teachers := newPreferenceTeacherRepo("t1")
	svc := NewTeacherPreferenceService(repo, teachers, validator.New(), zap.NewNop())

	_, err := svc.Upsert(context.Background(), "t1", UpsertTeacherPreferenceRequest{
		MaxLoadPerDay: -1,
	})
	require.Error(t, err)
}
