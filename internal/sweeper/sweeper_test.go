package sweeper

import (
	"errors"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUnsignedDeleter struct {
	mock.Mock
}

func (m *MockUnsignedDeleter) DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error) {
	args := m.Called(tx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockExpiredNotificationDeleter struct {
	mock.Mock
}

func (m *MockExpiredNotificationDeleter) DeleteExpired(tx *goqu.TxDatabase, now time.Time) (int64, error) {
	args := m.Called(tx, now)
	return args.Get(0).(int64), args.Error(1)
}

func newTestSweeper(
	requisitionRepo UnsignedDeleter,
	loanRepo UnsignedDeleter,
	notificationRepo ExpiredNotificationDeleter,
	now time.Time,
) *Sweeper {
	return &Sweeper{
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
		requisitionRepo:  requisitionRepo,
		loanRepo:         loanRepo,
		notificationRepo: notificationRepo,
		cron:             cron.New(),
		now:              func() time.Time { return now },
	}
}

func TestRunOnceUsesThreeDayCutoff(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -3)

	requisitionRepo := new(MockUnsignedDeleter)
	loanRepo := new(MockUnsignedDeleter)
	notificationRepo := new(MockExpiredNotificationDeleter)

	requisitionRepo.On("DeleteUnsigned", mock.Anything, cutoff).Return(int64(2), nil).Once()
	loanRepo.On("DeleteUnsigned", mock.Anything, cutoff).Return(int64(1), nil).Once()
	notificationRepo.On("DeleteExpired", mock.Anything, now).Return(int64(4), nil).Once()

	s := newTestSweeper(requisitionRepo, loanRepo, notificationRepo, now)
	s.RunOnce()

	requisitionRepo.AssertExpectations(t)
	loanRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -3)

	requisitionRepo := new(MockUnsignedDeleter)
	loanRepo := new(MockUnsignedDeleter)
	notificationRepo := new(MockExpiredNotificationDeleter)

	// A failing requisition sweep must not stop the loan and notification
	// sweeps.
	requisitionRepo.On("DeleteUnsigned", mock.Anything, cutoff).Return(int64(0), errors.New("db down")).Once()
	loanRepo.On("DeleteUnsigned", mock.Anything, cutoff).Return(int64(0), nil).Once()
	notificationRepo.On("DeleteExpired", mock.Anything, now).Return(int64(0), nil).Once()

	s := newTestSweeper(requisitionRepo, loanRepo, notificationRepo, now)

	assert.NotPanics(t, func() { s.RunOnce() })

	loanRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}
