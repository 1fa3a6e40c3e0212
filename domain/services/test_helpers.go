package services

import (
	"context"
	"testing"

	"chipbot/config"
	"chipbot/domain/entities"
	"chipbot/domain/events"
	"chipbot/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestUser1ID        = int64(100)
	TestUser2ID        = int64(200)
	TestUser1Name      = "user1"
	TestUser2Name      = "user2"
	TestInitialBalance = int64(1000)
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	AccountRepo        *testhelpers.MockAccountRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	EventPublisher     *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		AccountRepo:        &testhelpers.MockAccountRepository{},
		BalanceHistoryRepo: &testhelpers.MockBalanceHistoryRepository{},
		EventPublisher:     &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.AccountRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// MockHelper provides common mock setup patterns
type MockHelper struct {
	mocks *TestMocks
	ctx   context.Context
}

// NewMockHelper creates a new mock helper
func NewMockHelper(mocks *TestMocks) *MockHelper {
	return &MockHelper{
		mocks: mocks,
		ctx:   context.Background(),
	}
}

// ExpectAccountLookup sets up the account repository to return an account
func (h *MockHelper) ExpectAccountLookup(userID int64, account *entities.Account) {
	h.mocks.AccountRepo.On("GetByUserID", mock.Anything, userID).Return(account, nil)
}

// ExpectAccountNotFound sets up the account repository to return no account
func (h *MockHelper) ExpectAccountNotFound(userID int64) {
	h.mocks.AccountRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)
}

// ExpectAccountLock sets up the locked lookup used by balance mutations.
// The returned pointer is shared with the service, so tests can assert on
// the mutated account afterwards.
func (h *MockHelper) ExpectAccountLock(userID int64, account *entities.Account) {
	h.mocks.AccountRepo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(account, nil)
}

// ExpectAccountUpdate sets up the account repository to accept any update
func (h *MockHelper) ExpectAccountUpdate() {
	h.mocks.AccountRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Account")).Return(nil)
}

// ExpectBalanceHistoryRecord sets up the history repository to accept a
// record with the given type and resulting balance
func (h *MockHelper) ExpectBalanceHistoryRecord(userID int64, balanceAfter int64, transactionType entities.TransactionType) {
	h.mocks.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(history *entities.BalanceHistory) bool {
		return history.UserID == userID &&
			history.BalanceAfter == balanceAfter &&
			history.TransactionType == transactionType
	})).Return(nil)
}

// ExpectAnyBalanceHistoryRecord sets up the history repository to accept anything
func (h *MockHelper) ExpectAnyBalanceHistoryRecord() {
	h.mocks.BalanceHistoryRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.BalanceHistory")).Return(nil)
}

// ExpectEventPublish sets up the event publisher for one event type
func (h *MockHelper) ExpectEventPublish(eventType events.EventType) {
	h.mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

// ExpectAnyEventPublish sets up the event publisher to accept anything
func (h *MockHelper) ExpectAnyEventPublish() {
	h.mocks.EventPublisher.On("Publish", mock.Anything).Return(nil)
}

// NewTestAccount builds an account with the given balance and no claims
func NewTestAccount(userID int64, displayName string, balance int64) *entities.Account {
	return &entities.Account{
		UserID:      userID,
		DisplayName: displayName,
		Balance:     balance,
		LastDaily:   entities.NeverClaimed,
		LastWeekly:  entities.NeverClaimed,
		LastMonthly: entities.NeverClaimed,
	}
}

// SetupTestConfig configures the test environment
func SetupTestConfig(t *testing.T) {
	t.Helper()
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)
}
