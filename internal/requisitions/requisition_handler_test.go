package requisitions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDispatchContext(t *testing.T, requisitionID string, req models.DispatchRequest) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(req)
	assert.NoError(t, err)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPut, "/pedidos/"+requisitionID+"/salida", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: requisitionID}}
	return c, recorder
}

// A dispatch that outruns the warehouse stock is a bad request, the same
// class as any other over-dispatch validation failure.
func TestFulfillRequisitionInsufficientStockReturnsBadRequest(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)

	service := newTestService(mockRepo, mockWithdrawer, &stubNotifier{})
	handler := NewHandler(service, mockRepo, nil)

	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(inProcessRequisition(1, 5, 0), nil).Once()
	mockWithdrawer.On("Withdraw", mock.Anything, 10, 5).
		Return(&custom_error.InsufficientStockError{ProductID: 10, Requested: 5, Available: 2}).Once()

	c, recorder := newDispatchContext(t, "1", models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 5}},
	})

	handler.FulfillRequisition(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	mockRepo.AssertExpectations(t)
	mockWithdrawer.AssertExpectations(t)
}

func TestFulfillRequisitionUnauthorizedIsConflict(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)

	service := newTestService(mockRepo, mockWithdrawer, &stubNotifier{})
	handler := NewHandler(service, mockRepo, nil)

	pending := inProcessRequisition(1, 5, 0)
	pending.Status = metadata.OrderPending.String()
	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(pending, nil).Once()

	c, recorder := newDispatchContext(t, "1", models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 5}},
	})

	handler.FulfillRequisition(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	mockRepo.AssertExpectations(t)
}
