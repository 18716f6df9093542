package fichas

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFichaRepository struct {
	mock.Mock
}

func (m *MockFichaRepository) PersistFicha(req models.FichaRequest, ownerID int) (*models.Ficha, error) {
	args := m.Called(req, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ficha), args.Error(1)
}

func (m *MockFichaRepository) GetFichas() ([]models.Ficha, error) {
	args := m.Called()
	return args.Get(0).([]models.Ficha), args.Error(1)
}

func (m *MockFichaRepository) GetFicha(id int) (*models.Ficha, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ficha), args.Error(1)
}

func (m *MockFichaRepository) UpdateFicha(id int, req models.FichaRequest, ownerID int) error {
	args := m.Called(id, req, ownerID)
	return args.Error(0)
}

func (m *MockFichaRepository) AssignInstructor(fichaID int, instructorID int, semester string) error {
	args := m.Called(fichaID, instructorID, semester)
	return args.Error(0)
}

func (m *MockFichaRepository) GetInstructors(fichaID int) ([]models.FichaInstructor, error) {
	args := m.Called(fichaID)
	return args.Get(0).([]models.FichaInstructor), args.Error(1)
}

func newFichaContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	return c, recorder
}

func storedFicha() *models.Ficha {
	return &models.Ficha{
		ID:      3,
		Number:  "2855678",
		Program: "Mecatrónica",
		Shift:   "Mañana",
		Status:  "ACTIVO",
		OwnerID: 7,
	}
}

func TestCreateFichaDuplicateNumberIsConflict(t *testing.T) {
	repo := new(MockFichaRepository)
	handler := NewHandler(repo, nil)

	req := models.FichaRequest{Number: "2855678", Program: "Mecatrónica", Shift: "Mañana"}
	repo.On("PersistFicha", req, 0).
		Return(nil, custom_error.WrapDBError("Ya existe una ficha con ese número", "23505")).Once()

	c, recorder := newFichaContext(t, http.MethodPost, "/fichas", req)
	handler.CreateFicha(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	repo.AssertExpectations(t)
}

func TestGetFichaNotFound(t *testing.T) {
	repo := new(MockFichaRepository)
	handler := NewHandler(repo, nil)

	repo.On("GetFicha", 99).Return(nil, custom_error.NewNotFound("ficha", 99)).Once()

	c, recorder := newFichaContext(t, http.MethodGet, "/fichas/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	handler.GetFicha(c)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	repo.AssertExpectations(t)
}

func TestGetFichasReturnsList(t *testing.T) {
	repo := new(MockFichaRepository)
	handler := NewHandler(repo, nil)

	repo.On("GetFichas").Return([]models.Ficha{*storedFicha()}, nil).Once()

	c, recorder := newFichaContext(t, http.MethodGet, "/fichas", nil)
	handler.GetFichas(c)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var fichas []models.Ficha
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &fichas))
	assert.Len(t, fichas, 1)
	assert.Equal(t, "2855678", fichas[0].Number)
}

func TestAssignInstructorRejectsNonInstructor(t *testing.T) {
	repo := new(MockFichaRepository)
	handler := NewHandler(repo, nil)

	repo.On("GetFicha", 3).Return(storedFicha(), nil).Once()
	repo.On("AssignInstructor", 3, 12, "2026-2").
		Return(custom_error.NewValidation("el usuario %d no tiene rol de instructor", 12)).Once()

	c, recorder := newFichaContext(t, http.MethodPost, "/fichas/3/instructores", models.AssignInstructorRequest{
		InstructorID: 12,
		Semester:     "2026-2",
	})
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.AssignInstructor(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	repo.AssertExpectations(t)
}

func TestAssignInstructorDuplicateIsConflict(t *testing.T) {
	repo := new(MockFichaRepository)
	handler := NewHandler(repo, nil)

	repo.On("GetFicha", 3).Return(storedFicha(), nil).Once()
	repo.On("AssignInstructor", 3, 12, "2026-2").
		Return(custom_error.WrapDBError("El instructor ya está asignado a esa ficha para ese semestre", "23505")).Once()

	c, recorder := newFichaContext(t, http.MethodPost, "/fichas/3/instructores", models.AssignInstructorRequest{
		InstructorID: 12,
		Semester:     "2026-2",
	})
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	handler.AssignInstructor(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	repo.AssertExpectations(t)
}
