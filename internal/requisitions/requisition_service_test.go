package requisitions

import (
	"testing"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRequisitionRepository struct {
	mock.Mock
}

func (m *MockRequisitionRepository) InsertRequisition(tx *goqu.TxDatabase, req models.RequisitionRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockRequisitionRepository) InsertRequisitionLines(tx *goqu.TxDatabase, requisitionID int, lines []models.RequisitionLineRequest) error {
	args := m.Called(tx, requisitionID, lines)
	return args.Error(0)
}

func (m *MockRequisitionRepository) GetRequisitions() ([]models.Requisition, error) {
	args := m.Called()
	return args.Get(0).([]models.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) GetRequisitionsByCoordinator(coordinatorID int) ([]models.Requisition, error) {
	args := m.Called(coordinatorID)
	return args.Get(0).([]models.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) GetRequisition(id int) (*models.Requisition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) GetRequisitionInTx(tx *goqu.TxDatabase, id int) (*models.Requisition, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) SetAuthorized(id int, signaturePath string) error {
	args := m.Called(id, signaturePath)
	return args.Error(0)
}

func (m *MockRequisitionRepository) AccumulateDispatched(tx *goqu.TxDatabase, requisitionID int, productID int, quantity int) error {
	args := m.Called(tx, requisitionID, productID, quantity)
	return args.Error(0)
}

func (m *MockRequisitionRepository) SetDelivered(tx *goqu.TxDatabase, id int, deliveredAt time.Time) error {
	args := m.Called(tx, id, deliveredAt)
	return args.Error(0)
}

func (m *MockRequisitionRepository) DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error) {
	args := m.Called(tx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockStockWithdrawer struct {
	mock.Mock
}

func (m *MockStockWithdrawer) Withdraw(tx *goqu.TxDatabase, productID int, quantity int) error {
	args := m.Called(tx, productID, quantity)
	return args.Error(0)
}

type stubNotifier struct {
	messages []string
}

func (s *stubNotifier) Broadcast(actorID *int, action string, message string) {
	s.messages = append(s.messages, message)
}

type stubMailer struct{}

func (s *stubMailer) SendRequisitionAuthorized(req *models.Requisition) {}
func (s *stubMailer) SendRequisitionDelivered(req *models.Requisition)  {}

type stubAuditLogger struct{}

func (s *stubAuditLogger) Log(action string, description string, userID *int, data interface{}, item auditlog.Auditable) {
}

func newTestService(rr RequisitionRepository, withdrawer StockWithdrawer, notifier Notifier) *RequisitionService {
	return &RequisitionService{
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
		rr:          rr,
		productRepo: withdrawer,
		notifier:    notifier,
		mailer:      &stubMailer{},
		auditLog:    &stubAuditLogger{},
	}
}

func inProcessRequisition(id int, requested, dispatched int) *models.Requisition {
	return &models.Requisition{
		ID:        id,
		FichaCode: "2855678",
		Status:    metadata.OrderInProcess.String(),
		Lines: []models.RequisitionLine{
			{ProductID: 10, ProductName: "Tornillos", Requested: requested, Dispatched: dispatched},
		},
	}
}

func TestFulfillCompletesRequisition(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)
	notifier := &stubNotifier{}

	service := newTestService(mockRepo, mockWithdrawer, notifier)

	requisition := inProcessRequisition(1, 5, 0)
	delivered := inProcessRequisition(1, 5, 5)
	delivered.Status = metadata.OrderDelivered.String()

	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(requisition, nil).Once()
	mockWithdrawer.On("Withdraw", mock.Anything, 10, 5).Return(nil).Once()
	mockRepo.On("AccumulateDispatched", mock.Anything, 1, 10, 5).Return(nil).Once()
	mockRepo.On("SetDelivered", mock.Anything, 1, mock.Anything).Return(nil).Once()
	mockRepo.On("GetRequisition", 1).Return(delivered, nil).Once()

	result, err := service.Fulfill(1, models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 5}},
	}, 7)

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderDelivered.String(), result.Status)
	assert.Len(t, notifier.messages, 1)

	mockRepo.AssertExpectations(t)
	mockWithdrawer.AssertExpectations(t)
}

func TestFulfillPartialKeepsInProcess(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)

	service := newTestService(mockRepo, mockWithdrawer, &stubNotifier{})

	requisition := inProcessRequisition(1, 5, 0)
	partial := inProcessRequisition(1, 5, 3)

	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(requisition, nil).Once()
	mockWithdrawer.On("Withdraw", mock.Anything, 10, 3).Return(nil).Once()
	mockRepo.On("AccumulateDispatched", mock.Anything, 1, 10, 3).Return(nil).Once()
	mockRepo.On("GetRequisition", 1).Return(partial, nil).Once()

	result, err := service.Fulfill(1, models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 3}},
	}, 7)

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderInProcess.String(), result.Status)

	// SetDelivered must not be called while something is pending.
	mockRepo.AssertNotCalled(t, "SetDelivered", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
	mockWithdrawer.AssertExpectations(t)
}

func TestFulfillRejectsUnauthorizedRequisition(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)

	service := newTestService(mockRepo, mockWithdrawer, &stubNotifier{})

	requisition := inProcessRequisition(1, 5, 0)
	requisition.Status = metadata.OrderPending.String()

	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(requisition, nil).Once()

	_, err := service.Fulfill(1, models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 5}},
	}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ConflictError{}, err)
	mockWithdrawer.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillRejectsOverdispatch(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)

	service := newTestService(mockRepo, mockWithdrawer, &stubNotifier{})

	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(inProcessRequisition(1, 5, 3), nil).Once()

	_, err := service.Fulfill(1, models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 3}},
	}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ValidationError{}, err)
	mockWithdrawer.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillPropagatesInsufficientStock(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)
	mockWithdrawer := new(MockStockWithdrawer)

	service := newTestService(mockRepo, mockWithdrawer, &stubNotifier{})

	stockErr := &custom_error.InsufficientStockError{ProductID: 10, Requested: 5, Available: 2}

	mockRepo.On("GetRequisitionInTx", mock.Anything, 1).Return(inProcessRequisition(1, 5, 0), nil).Once()
	mockWithdrawer.On("Withdraw", mock.Anything, 10, 5).Return(stockErr).Once()

	_, err := service.Fulfill(1, models.DispatchRequest{
		Lines: []models.DispatchLineRequest{{ProductID: 10, Dispatched: 5}},
	}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.InsufficientStockError{}, err)
	mockRepo.AssertNotCalled(t, "AccumulateDispatched", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorizeRejectsAlreadyAuthorized(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)

	service := newTestService(mockRepo, new(MockStockWithdrawer), &stubNotifier{})

	requisition := inProcessRequisition(1, 5, 0)

	mockRepo.On("GetRequisition", 1).Return(requisition, nil).Once()

	_, err := service.Authorize(1, "firma.png", 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "SetAuthorized", mock.Anything, mock.Anything)
}

func TestCreateRequisitionRejectsNonPositiveQuantity(t *testing.T) {
	mockRepo := new(MockRequisitionRepository)

	service := newTestService(mockRepo, new(MockStockWithdrawer), &stubNotifier{})

	_, err := service.CreateRequisition(models.RequisitionRequest{
		FichaCode: "2855678",
		Lines:     []models.RequisitionLineRequest{{ProductID: 10, Requested: 0}},
	}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "InsertRequisition", mock.Anything, mock.Anything)
}
