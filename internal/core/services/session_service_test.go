package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/wishmaker-app/wishmaker_backend/internal/apperrors"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/services"
	"github.com/wishmaker-app/wishmaker_backend/internal/dto"
)

// stubDocumentStore is a channel-instrumented store for exercising the
// session manager's hydration and background-save behavior.
type stubDocumentStore struct {
	mu     sync.Mutex
	doc    map[string]any
	getErr error
	setErr error
	gets   int

	// When set, GetDocument blocks until the channel is closed.
	getGate chan struct{}
	// Every SetDocument call delivers its fields here.
	saves chan map[string]any
}

func newStubDocumentStore() *stubDocumentStore {
	return &stubDocumentStore{saves: make(chan map[string]any, 16)}
}

func (s *stubDocumentStore) GetDocument(ctx context.Context, userID string) (map[string]any, error) {
	s.mu.Lock()
	s.gets++
	gate := s.getGate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.doc == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.doc, nil
}

func (s *stubDocumentStore) SetDocument(ctx context.Context, userID string, fields map[string]any, merge bool) error {
	s.mu.Lock()
	err := s.setErr
	s.mu.Unlock()

	s.saves <- fields
	return err
}

func (s *stubDocumentStore) getCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func (s *stubDocumentStore) awaitSave(t *testing.T) map[string]any {
	t.Helper()
	select {
	case fields := <-s.saves:
		return fields
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background save")
		return nil
	}
}

// --- Test Suite ---
type SessionManagerTestSuite struct {
	suite.Suite
	store   *stubDocumentStore
	manager *services.SessionManager
	ctx     context.Context
}

func (suite *SessionManagerTestSuite) SetupTest() {
	suite.store = newStubDocumentStore()
	syncSvc := services.NewSyncService(suite.store, nil)
	suite.manager = services.NewSessionManager(syncSvc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.ctx = context.Background()
}

func (suite *SessionManagerTestSuite) TestOpen_HydratesFromStore() {
	suite.store.doc = map[string]any{
		"balance": 80.0,
		"wishes": []any{map[string]any{
			"id": "w1", "title": "Bike", "category": "Sport", "description": "Red",
			"price": 100.0, "savedAmount": 20.0, "finalDate": float64(1770000000), "imageURL": "u",
		}},
		"moneyHistory": []any{},
	}

	session, err := suite.manager.Open(suite.ctx, "user-1")

	suite.Require().NoError(err)
	account := session.Account()
	suite.True(decimal.NewFromInt(80).Equal(account.Balance))
	suite.Require().Len(account.Wishes, 1)

	// A second Open returns the same live session, no second load.
	again, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Same(session, again)
}

func (suite *SessionManagerTestSuite) TestOpen_FreshAccountWhenUnstored() {
	session, err := suite.manager.Open(suite.ctx, "new-user")

	suite.Require().NoError(err)
	suite.True(session.Account().Balance.IsZero())
	suite.Empty(session.Account().Wishes)
}

func (suite *SessionManagerTestSuite) TestOpen_LoadFailureSurfaces() {
	suite.store.getErr = errors.New("connection refused")

	_, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().ErrorIs(err, apperrors.ErrPersistenceUnavailable)
}

func (suite *SessionManagerTestSuite) TestOpen_ConcurrentFirstTouchSharesOneLoad() {
	gate := make(chan struct{})
	suite.store.getGate = gate
	suite.store.doc = map[string]any{"balance": 25.0}

	type openResult struct {
		session *services.AccountSession
		err     error
	}
	results := make(chan openResult, 2)
	for i := 0; i < 2; i++ {
		go func() {
			session, err := suite.manager.Open(suite.ctx, "user-1")
			results <- openResult{session, err}
		}()
	}

	// Both openers are parked on the same blocked load; releasing it must
	// hand the one hydrated session to both, never an error.
	time.Sleep(50 * time.Millisecond)
	close(gate)

	first := <-results
	second := <-results
	suite.Require().NoError(first.err)
	suite.Require().NoError(second.err)
	suite.Same(first.session, second.session)
	suite.True(decimal.NewFromInt(25).Equal(first.session.Account().Balance))
	suite.Equal(1, suite.store.getCalls())
}

func (suite *SessionManagerTestSuite) TestOpen_StaleLoadDiscardedAfterClose() {
	gate := make(chan struct{})
	suite.store.getGate = gate
	suite.store.doc = map[string]any{"balance": 500.0}

	results := make(chan error, 1)
	go func() {
		_, err := suite.manager.Open(suite.ctx, "user-1")
		results <- err
	}()

	// Let the Open reach the blocked load, then invalidate its epoch.
	time.Sleep(50 * time.Millisecond)
	suite.manager.Close("user-1")
	close(gate)

	err := <-results
	suite.Require().ErrorIs(err, services.ErrSessionSuperseded)

	// A later Open hydrates cleanly; the stale result never became a session.
	suite.store.mu.Lock()
	suite.store.getGate = nil
	suite.store.doc = map[string]any{"balance": 7.0}
	suite.store.mu.Unlock()

	session, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(7).Equal(session.Account().Balance))
}

func (suite *SessionManagerTestSuite) TestMutationTriggersBackgroundSave() {
	session, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)

	balance, err := session.Deposit(suite.ctx, decimal.NewFromInt(100))
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(100).Equal(balance))

	fields := suite.store.awaitSave(suite.T())
	suite.InDelta(100.0, fields["balance"], 0.001)
}

func (suite *SessionManagerTestSuite) TestSaveFailureKeepsLocalState() {
	session, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.store.setErr = errors.New("write timeout")

	_, err = session.Deposit(suite.ctx, decimal.NewFromInt(50))
	suite.Require().NoError(err)
	suite.store.awaitSave(suite.T())

	// The failed save never rolls the ledger back.
	suite.True(decimal.NewFromInt(50).Equal(session.Account().Balance))
}

func (suite *SessionManagerTestSuite) TestFailedOperationDoesNotSave() {
	session, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)

	_, err = session.Deposit(suite.ctx, decimal.NewFromInt(-1))
	suite.Require().ErrorIs(err, services.ErrInvalidAmount)

	select {
	case <-suite.store.saves:
		suite.Fail("no save should follow a rejected operation")
	case <-time.After(100 * time.Millisecond):
	}
}

func (suite *SessionManagerTestSuite) TestAllocateThroughSession() {
	session, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)

	_, err = session.Deposit(suite.ctx, decimal.NewFromInt(200))
	suite.Require().NoError(err)
	wish, err := session.CreateWish(suite.ctx, dto.CreateWishRequest{
		Title:       "Camera",
		Category:    "Gadgets",
		Description: "Mirrorless",
		Price:       decimal.NewFromInt(150),
		FinalDate:   time.Now().UTC().AddDate(0, 2, 0),
		ImageURL:    "https://img.example/cam.jpg",
	})
	suite.Require().NoError(err)

	resp, err := session.Allocate(suite.ctx, wish.WishID, decimal.NewFromInt(200))
	suite.Require().NoError(err)

	suite.True(decimal.NewFromInt(150).Equal(resp.AppliedAmount))
	suite.True(decimal.NewFromInt(50).Equal(resp.Balance))
	suite.True(decimal.NewFromInt(150).Equal(resp.SavedAmount))
}

func (suite *SessionManagerTestSuite) TestConcurrentDepositsSerialize() {
	session, err := suite.manager.Open(suite.ctx, "user-1")
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, depErr := session.Deposit(suite.ctx, decimal.NewFromInt(5))
			suite.NoError(depErr)
		}()
	}
	wg.Wait()

	account := session.Account()
	suite.True(decimal.NewFromInt(100).Equal(account.Balance))
	suite.Len(account.History, 20)
}

func TestSessionManagerTestSuite(t *testing.T) {
	suite.Run(t, new(SessionManagerTestSuite))
}
