package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/service"
)

type mockTermRepo struct {
	items  map[string]*models.Term
	active string
}

func (m *mockTermRepo) List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	out := make([]models.Term, 0, len(m.items))
	for _, t := range m.items {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockTermRepo) FindByID(ctx context.Context, id string) (*models.Term, error) {
	if t, ok := m.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTermRepo) FindActive(ctx context.Context) (*models.Term, error) {
	if t, ok := m.items[m.active]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTermRepo) ExistsByYearAndType(ctx context.Context, academicYear string, termType models.TermType, excludeID string) (bool, error) {
	return false, nil
}

func (m *mockTermRepo) Create(ctx context.Context, term *models.Term) error {
	if m.items == nil {
		m.items = make(map[string]*models.Term)
	}
	if term.ID == "" {
		term.ID = "generated"
	}
	cp := *term
	m.items[term.ID] = &cp
	return nil
}

func (m *mockTermRepo) Update(ctx context.Context, term *models.Term) error {
	cp := *term
	m.items[term.ID] = &cp
	return nil
}

func (m *mockTermRepo) SetActive(ctx context.Context, id string) error {
	m.active = id
	return nil
}

func (m *mockTermRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockTermRepo) CountSchedules(ctx context.Context, id string) (int, error) {
	return 0, nil
}

func newTermHandlerForTest(repo *mockTermRepo) *TermHandler {
	svc := service.NewTermService(repo, nil, nil)
	return NewTermHandler(svc)
}

func TestTermHandlerCreateThenGetActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &mockTermRepo{}
	h := newTermHandlerForTest(repo)

	body := `{"name":"Semester 1","type":"SEMESTER","academic_year":"2026/2027","start_date":"2026-07-01T00:00:00Z","end_date":"2026-12-01T00:00:00Z","is_active":true}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/terms", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request, _ = http.NewRequest(http.MethodGet, "/terms/active", nil)

	h.GetActive(c2)
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestTermHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTermHandlerForTest(&mockTermRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/terms", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTermHandlerDeleteActiveRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &mockTermRepo{items: map[string]*models.Term{
		"t1": {ID: "t1", Name: "Sem", IsActive: true, StartDate: time.Now(), EndDate: time.Now().Add(time.Hour)},
	}}
	h := newTermHandlerForTest(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	c.Request, _ = http.NewRequest(http.MethodDelete, "/terms/t1", nil)

	h.Delete(c)
	assert.NotEqual(t, http.StatusNoContent, w.Code)
}

func TestTermHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTermHandlerForTest(&mockTermRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/terms/missing", nil)

	h.Get(c)
	assert.NotEqual(t, http.StatusOK, w.Code)
}
