package loans

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

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) InsertLoan(tx *goqu.TxDatabase, req models.LoanRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) InsertLoanLines(tx *goqu.TxDatabase, loanID int, lines []models.LoanLineRequest) error {
	args := m.Called(tx, loanID, lines)
	return args.Error(0)
}

func (m *MockLoanRepository) GetLoans() ([]models.Loan, error) {
	args := m.Called()
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetLoansByCoordinator(coordinatorID int) ([]models.Loan, error) {
	args := m.Called(coordinatorID)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetLoan(id int) (*models.Loan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetLoanInTx(tx *goqu.TxDatabase, id int) (*models.Loan, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) SetAuthorized(id int, signaturePath string) error {
	args := m.Called(id, signaturePath)
	return args.Error(0)
}

func (m *MockLoanRepository) SetHandedOut(tx *goqu.TxDatabase, id int, at time.Time) error {
	args := m.Called(tx, id, at)
	return args.Error(0)
}

func (m *MockLoanRepository) SetReturned(tx *goqu.TxDatabase, id int, at time.Time) error {
	args := m.Called(tx, id, at)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLineNotes(tx *goqu.TxDatabase, loanID int, toolID int, note string) error {
	args := m.Called(tx, loanID, toolID, note)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error) {
	args := m.Called(tx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockToolStateStore struct {
	mock.Mock
}

func (m *MockToolStateStore) GetToolsByIDs(tx *goqu.TxDatabase, ids []int) ([]models.Tool, error) {
	args := m.Called(tx, ids)
	return args.Get(0).([]models.Tool), args.Error(1)
}

func (m *MockToolStateStore) UpdateToolStatus(tx *goqu.TxDatabase, ids []int, status metadata.ToolStatus) error {
	args := m.Called(tx, ids, status)
	return args.Error(0)
}

type stubNotifier struct {
	messages []string
}

func (s *stubNotifier) Broadcast(actorID *int, action string, message string) {
	s.messages = append(s.messages, message)
}

type stubMailer struct{}

func (s *stubMailer) SendLoanHandout(loan *models.Loan) {}
func (s *stubMailer) SendLoanReturn(loan *models.Loan)  {}

type stubAuditLogger struct{}

func (s *stubAuditLogger) Log(action string, description string, userID *int, data interface{}, item auditlog.Auditable) {
}

func newTestService(lr LoanRepository, toolRepo ToolStateStore, notifier Notifier) *LoanService {
	return &LoanService{
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
		lr:       lr,
		toolRepo: toolRepo,
		notifier: notifier,
		mailer:   &stubMailer{},
		auditLog: &stubAuditLogger{},
	}
}

func loanInState(id int, status metadata.OrderStatus) *models.Loan {
	return &models.Loan{
		ID:        id,
		FichaCode: "2855678",
		Status:    status.String(),
		Lines: []models.LoanLine{
			{ToolID: 4, ToolName: "Taladro", ToolCode: "HT-004"},
		},
	}
}

func availableTools() []models.Tool {
	return []models.Tool{
		{ID: 4, Name: "Taladro", Code: "HT-004", Status: metadata.ToolAvailable.String()},
	}
}

func TestHandOutFlipsToolsToInUse(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)
	notifier := &stubNotifier{}

	service := newTestService(mockRepo, mockTools, notifier)

	delivered := loanInState(1, metadata.OrderDelivered)

	mockRepo.On("GetLoanInTx", mock.Anything, 1).Return(loanInState(1, metadata.OrderInProcess), nil).Once()
	mockTools.On("GetToolsByIDs", mock.Anything, []int{4}).Return(availableTools(), nil).Once()
	mockTools.On("UpdateToolStatus", mock.Anything, []int{4}, metadata.ToolInUse).Return(nil).Once()
	mockRepo.On("SetHandedOut", mock.Anything, 1, mock.Anything).Return(nil).Once()
	mockRepo.On("GetLoan", 1).Return(delivered, nil).Once()

	loan, err := service.HandOut(1, 7)

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderDelivered.String(), loan.Status)
	assert.Len(t, notifier.messages, 1)

	mockRepo.AssertExpectations(t)
	mockTools.AssertExpectations(t)
}

func TestHandOutRejectsUnauthorizedLoan(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)

	service := newTestService(mockRepo, mockTools, &stubNotifier{})

	mockRepo.On("GetLoanInTx", mock.Anything, 1).Return(loanInState(1, metadata.OrderPending), nil).Once()

	_, err := service.HandOut(1, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ConflictError{}, err)
	mockTools.AssertNotCalled(t, "UpdateToolStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandOutRejectsToolAlreadyInUse(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)

	service := newTestService(mockRepo, mockTools, &stubNotifier{})

	busyTools := []models.Tool{
		{ID: 4, Name: "Taladro", Code: "HT-004", Status: metadata.ToolInUse.String()},
	}

	mockRepo.On("GetLoanInTx", mock.Anything, 1).Return(loanInState(1, metadata.OrderInProcess), nil).Once()
	mockTools.On("GetToolsByIDs", mock.Anything, []int{4}).Return(busyTools, nil).Once()

	_, err := service.HandOut(1, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ConflictError{}, err)
	mockTools.AssertNotCalled(t, "UpdateToolStatus", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SetHandedOut", mock.Anything, mock.Anything, mock.Anything)
}

func TestReturnRestoresTools(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)

	service := newTestService(mockRepo, mockTools, &stubNotifier{})

	inUseTools := []models.Tool{
		{ID: 4, Name: "Taladro", Code: "HT-004", Status: metadata.ToolInUse.String()},
	}
	returned := loanInState(1, metadata.OrderReturned)

	mockRepo.On("GetLoanInTx", mock.Anything, 1).Return(loanInState(1, metadata.OrderDelivered), nil).Once()
	mockTools.On("GetToolsByIDs", mock.Anything, []int{4}).Return(inUseTools, nil).Once()
	mockRepo.On("UpdateLineNotes", mock.Anything, 1, 4, "sin novedad").Return(nil).Once()
	mockTools.On("UpdateToolStatus", mock.Anything, []int{4}, metadata.ToolAvailable).Return(nil).Once()
	mockRepo.On("SetReturned", mock.Anything, 1, mock.Anything).Return(nil).Once()
	mockRepo.On("GetLoan", 1).Return(returned, nil).Once()

	loan, err := service.Return(1, models.ReturnRequest{
		Notes: []models.ReturnNoteRequest{{ToolID: 4, Note: "sin novedad"}},
	}, 7)

	assert.NoError(t, err)
	assert.Equal(t, metadata.OrderReturned.String(), loan.Status)

	mockRepo.AssertExpectations(t)
	mockTools.AssertExpectations(t)
}

func TestReturnRejectsLoanNotDelivered(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)

	service := newTestService(mockRepo, mockTools, &stubNotifier{})

	mockRepo.On("GetLoanInTx", mock.Anything, 1).Return(loanInState(1, metadata.OrderInProcess), nil).Once()

	_, err := service.Return(1, models.ReturnRequest{}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ConflictError{}, err)
	mockTools.AssertNotCalled(t, "UpdateToolStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateLoanRejectsDuplicatedTool(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)

	service := newTestService(mockRepo, mockTools, &stubNotifier{})

	_, err := service.CreateLoan(models.LoanRequest{
		FichaCode: "2855678",
		Lines: []models.LoanLineRequest{
			{ToolID: 4},
			{ToolID: 4},
		},
	}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "InsertLoan", mock.Anything, mock.Anything)
}

func TestCreateLoanRejectsUnavailableTool(t *testing.T) {
	mockRepo := new(MockLoanRepository)
	mockTools := new(MockToolStateStore)

	service := newTestService(mockRepo, mockTools, &stubNotifier{})

	inactiveTools := []models.Tool{
		{ID: 4, Name: "Taladro", Code: "HT-004", Status: metadata.ToolInactive.String()},
	}

	mockTools.On("GetToolsByIDs", mock.Anything, []int{4}).Return(inactiveTools, nil).Once()

	_, err := service.CreateLoan(models.LoanRequest{
		FichaCode: "2855678",
		Lines:     []models.LoanLineRequest{{ToolID: 4}},
	}, 7)

	assert.Error(t, err)
	assert.IsType(t, &custom_error.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "InsertLoan", mock.Anything, mock.Anything)
}
