package reports

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) MostRequestedProducts(limit int) ([]ProductUsageRow, error) {
	args := m.Called(limit)
	return args.Get(0).([]ProductUsageRow), args.Error(1)
}

func (m *MockReportRepository) MostRequestedTools(limit int) ([]ToolUsageRow, error) {
	args := m.Called(limit)
	return args.Get(0).([]ToolUsageRow), args.Error(1)
}

func (m *MockReportRepository) DepletedProducts() ([]DepletedProductRow, error) {
	args := m.Called()
	return args.Get(0).([]DepletedProductRow), args.Error(1)
}

func (m *MockReportRepository) BadConditionTools() ([]BadToolRow, error) {
	args := m.Called()
	return args.Get(0).([]BadToolRow), args.Error(1)
}

func (m *MockReportRepository) RequisitionsPerCoordinator() ([]CoordinatorRow, error) {
	args := m.Called()
	return args.Get(0).([]CoordinatorRow), args.Error(1)
}

func (m *MockReportRepository) RecentProducts(since time.Time) ([]RecentProductRow, error) {
	args := m.Called(since)
	return args.Get(0).([]RecentProductRow), args.Error(1)
}

func (m *MockReportRepository) DispatchesByFicha() ([]FichaDispatchRow, error) {
	args := m.Called()
	return args.Get(0).([]FichaDispatchRow), args.Error(1)
}

func (m *MockReportRepository) DispatchesByAssignee() ([]AssigneeDispatchRow, error) {
	args := m.Called()
	return args.Get(0).([]AssigneeDispatchRow), args.Error(1)
}

func newReportContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	return c, recorder
}

func TestDepletedProductsReturnsJSONByDefault(t *testing.T) {
	repo := new(MockReportRepository)
	repo.On("DepletedProducts").Return([]DepletedProductRow{
		{ProductName: "Tornillos", Code: "PR-010", QuantityCurrent: 1},
	}, nil)

	c, recorder := newReportContext(t, "/reportes/productos-agotados")

	NewHandler(repo).DepletedProducts(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Tornillos")
	assert.Contains(t, recorder.Body.String(), "cantidad_actual")
}

func TestDepletedProductsStreamsExcelWhenRequested(t *testing.T) {
	repo := new(MockReportRepository)
	repo.On("DepletedProducts").Return([]DepletedProductRow{
		{ProductName: "Tornillos", Code: "PR-010", QuantityCurrent: 1},
	}, nil)

	c, recorder := newReportContext(t, "/reportes/productos-agotados?formato=excel")

	NewHandler(repo).DepletedProducts(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(
		t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		recorder.Header().Get("Content-Type"),
	)
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "productos_agotados.xlsx")
	assert.NotZero(t, recorder.Body.Len())
}

func TestMostRequestedProductsAppliesTopLimit(t *testing.T) {
	repo := new(MockReportRepository)
	repo.On("MostRequestedProducts", topRequestedLimit).Return([]ProductUsageRow{
		{ProductName: "Guantes", Total: 42},
	}, nil)

	c, recorder := newReportContext(t, "/reportes/productos-mas-solicitados")

	NewHandler(repo).MostRequestedProducts(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	repo.AssertExpectations(t)
}

func TestRecentProductsFailureIsReported(t *testing.T) {
	repo := new(MockReportRepository)
	repo.On("RecentProducts", mock.Anything).Return([]RecentProductRow(nil), assert.AnError)

	c, recorder := newReportContext(t, "/reportes/productos-nuevos")

	NewHandler(repo).RecentProducts(c)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No se pudo generar el reporte")
}
