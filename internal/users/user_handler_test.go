package users

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
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) (*models.User, error) {
	args := m.Called(req, hashedPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes *models.UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func newUserContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
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

func storedUser() *models.User {
	return &models.User{
		ID:       7,
		Name:     "Laura Rodríguez",
		Document: "1098765432",
		Email:    "laura@soy.sena.edu.co",
		Role:     "instructor",
		Status:   "ACTIVO",
	}
}

func TestRegisterUserRejectsUnknownRole(t *testing.T) {
	repo := new(MockUserRepository)

	c, recorder := newUserContext(t, http.MethodPost, "/usuarios", models.CreateUserRequest{
		Name:     "Laura Rodríguez",
		Document: "1098765432",
		Email:    "laura@soy.sena.edu.co",
		Password: "secreta1",
		Role:     "gerente",
	})

	NewHandler(repo, nil).RegisterUser(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Rol inválido")
	repo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestRegisterUserReportsDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("PersistUser", mock.Anything, mock.Anything).
		Return(nil, custom_error.WrapDBError("Ya existe un usuario con ese correo o cédula", "23505"))

	c, recorder := newUserContext(t, http.MethodPost, "/usuarios", models.CreateUserRequest{
		Name:     "Laura Rodríguez",
		Document: "1098765432",
		Email:    "laura@soy.sena.edu.co",
		Password: "secreta1",
		Role:     "instructor",
	})

	NewHandler(repo, nil).RegisterUser(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Ya existe un usuario")
}

func TestGetUserReturnsNotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUser", 99).Return(nil, custom_error.NewNotFound("usuario", 99))

	c, recorder := newUserContext(t, http.MethodGet, "/usuarios/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	NewHandler(repo, nil).GetUser(c)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetUserListReturnsUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUsers").Return([]models.User{*storedUser()}, nil)

	c, recorder := newUserContext(t, http.MethodGet, "/usuarios", nil)

	NewHandler(repo, nil).GetUserList(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "laura@soy.sena.edu.co")
}

func TestUpdateUserRejectsShortPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUser", 7).Return(storedUser(), nil)

	shortPassword := "123"
	c, recorder := newUserContext(t, http.MethodPut, "/usuarios/7", models.UpdateUserRequest{
		Password: &shortPassword,
	})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	NewHandler(repo, nil).UpdateUser(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "al menos 6 caracteres")
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserRejectsUnknownStatus(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUser", 7).Return(storedUser(), nil)

	status := "SUSPENDIDO"
	c, recorder := newUserContext(t, http.MethodPut, "/usuarios/7", models.UpdateUserRequest{
		Status: &status,
	})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	NewHandler(repo, nil).UpdateUser(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "estado inválido")
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserWithoutChangesSkipsPersistence(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUser", 7).Return(storedUser(), nil)

	sameName := "Laura Rodríguez"
	c, recorder := newUserContext(t, http.MethodPut, "/usuarios/7", models.UpdateUserRequest{
		Name: &sameName,
	})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	NewHandler(repo, nil).UpdateUser(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestBuildChangesHashesNewPassword(t *testing.T) {
	newPassword := "secreta1"
	changes, err := buildChanges(&models.UpdateUserRequest{Password: &newPassword}, storedUser())

	assert.NoError(t, err)
	assert.True(t, changes.HasChanges())
	assert.NotNil(t, changes.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*changes.PasswordHash), []byte(newPassword)))
}

func TestBuildChangesIgnoresUnchangedRole(t *testing.T) {
	role := "instructor"
	changes, err := buildChanges(&models.UpdateUserRequest{Role: &role}, storedUser())

	assert.NoError(t, err)
	assert.False(t, changes.HasChanges())
}

func TestListRolesReturnsHierarchy(t *testing.T) {
	c, recorder := newUserContext(t, http.MethodGet, "/roles", nil)

	NewHandler(new(MockUserRepository), nil).ListRoles(c)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var listed []struct {
		Name  string `json:"nombre"`
		Level int    `json:"nivel"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Len(t, listed, 4)
	assert.Equal(t, "instructor", listed[0].Name)
	assert.Equal(t, 1, listed[0].Level)
	assert.Equal(t, "admin", listed[3].Name)
	assert.Equal(t, 4, listed[3].Level)
}
