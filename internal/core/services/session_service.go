package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
	"github.com/wishmaker-app/wishmaker_backend/internal/dto"
)

// ErrSessionSuperseded is returned when a hydrating load finished after its
// session had been closed in the meantime; its result is discarded.
var ErrSessionSuperseded = errors.New("session superseded while loading")

// saveTimeout bounds background writes to the document store.
const saveTimeout = 30 * time.Second

// AccountSession is the single logical owner of one user's ledger. All
// operations on a session are serialized by its mutex, the Go rendering of a
// single-consumer task queue: each operation runs to completion before the
// next begins, and no caller ever observes a partially-updated account.
type AccountSession struct {
	userID  string
	manager *SessionManager

	mu     sync.Mutex
	ledger *Ledger
}

// pendingOpen coalesces concurrent hydrations of the same user: the first
// opener runs the load, later openers wait on done and share the outcome.
type pendingOpen struct {
	done    chan struct{}
	session *AccountSession
	err     error
}

// SessionManager hands out hydrated sessions keyed by user ID. Per-user epoch
// counters guard against stale loads: a load that completes after its session
// was closed never applies its result. Concurrent first-touch opens share a
// single load.
type SessionManager struct {
	syncSvc *SyncService
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*AccountSession
	pending  map[string]*pendingOpen
	epochs   map[string]uint64
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(syncSvc *SyncService, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		syncSvc:  syncSvc,
		logger:   logger,
		sessions: make(map[string]*AccountSession),
		pending:  make(map[string]*pendingOpen),
		epochs:   make(map[string]uint64),
	}
}

// Open returns the live session for userID, hydrating a new one from the
// document store when none exists. No ledger operation is permitted before
// hydration completes. When several requests race the first touch, exactly
// one load runs and every opener receives the same session.
func (m *SessionManager) Open(ctx context.Context, userID string) (*AccountSession, error) {
	m.mu.Lock()
	if session, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return session, nil
	}
	if p, ok := m.pending[userID]; ok {
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.session, p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p := &pendingOpen{done: make(chan struct{})}
	m.pending[userID] = p
	epoch := m.epochs[userID]
	m.mu.Unlock()

	account, err := m.syncSvc.Load(ctx, userID)

	m.mu.Lock()
	if m.pending[userID] == p {
		delete(m.pending, userID)
	}
	switch {
	case err != nil:
		p.err = err
	case m.epochs[userID] != epoch:
		// Close raced this load. Never apply a stale result to a
		// subsequently-loaded account.
		if session, ok := m.sessions[userID]; ok {
			p.session = session
		} else {
			p.err = ErrSessionSuperseded
		}
	default:
		session := &AccountSession{
			userID:  userID,
			manager: m,
			ledger:  NewLedger(account),
		}
		m.sessions[userID] = session
		p.session = session
	}
	m.mu.Unlock()

	close(p.done)
	return p.session, p.err
}

// Close drops the session for userID. In-flight loads and saves are
// abandoned; the epoch bump keeps a late load from resurrecting state, and
// clearing the pending entry lets a later Open hydrate fresh.
func (m *SessionManager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epochs[userID]++
	delete(m.sessions, userID)
	delete(m.pending, userID)
}

// persist writes the snapshot in the background. The ledger operation has
// already taken effect locally, so the caller never blocks on this write; a
// failure is logged, not surfaced back into ledger state.
func (s *AccountSession) persist(ctx context.Context, snapshot domain.Account) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	go func() {
		defer cancel()
		if err := s.manager.syncSvc.Save(saveCtx, s.userID, snapshot); err != nil {
			s.manager.logger.Warn("Background save failed; local state remains authoritative",
				slog.String("user_id", s.userID),
				slog.String("error", err.Error()))
		}
	}()
}

// Deposit adds funds to the balance and triggers a background save.
func (s *AccountSession) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	balance, err := s.ledger.Deposit(ctx, amount)
	var snapshot domain.Account
	if err == nil {
		snapshot = s.ledger.Snapshot()
	}
	s.mu.Unlock()

	if err != nil {
		return decimal.Zero, err
	}
	s.persist(ctx, snapshot)
	return balance, nil
}

// CreateWish adds a wish and triggers a background save.
func (s *AccountSession) CreateWish(ctx context.Context, req dto.CreateWishRequest) (*domain.Wish, error) {
	s.mu.Lock()
	wish, err := s.ledger.CreateWish(ctx, req)
	var snapshot domain.Account
	if err == nil {
		snapshot = s.ledger.Snapshot()
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.persist(ctx, snapshot)
	return wish, nil
}

// Allocate moves funds into a wish and triggers a background save.
func (s *AccountSession) Allocate(ctx context.Context, wishID string, amount decimal.Decimal) (dto.AllocateResponse, error) {
	s.mu.Lock()
	applied, err := s.ledger.Allocate(ctx, wishID, amount)
	var resp dto.AllocateResponse
	var snapshot domain.Account
	if err == nil {
		snapshot = s.ledger.Snapshot()
		resp.AppliedAmount = applied
		resp.Balance = snapshot.Balance
		if wish, ok := snapshot.FindWish(wishID); ok {
			resp.SavedAmount = wish.SavedAmount
		}
	}
	s.mu.Unlock()

	if err != nil {
		return dto.AllocateResponse{}, err
	}
	s.persist(ctx, snapshot)
	return resp, nil
}

// EditDeadline replaces a wish's deadline and triggers a background save.
func (s *AccountSession) EditDeadline(ctx context.Context, wishID string, finalDate time.Time) error {
	s.mu.Lock()
	err := s.ledger.EditDeadline(ctx, wishID, finalDate)
	var snapshot domain.Account
	if err == nil {
		snapshot = s.ledger.Snapshot()
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.persist(ctx, snapshot)
	return nil
}

// DeleteWish removes a wish and triggers a background save.
func (s *AccountSession) DeleteWish(ctx context.Context, wishID string) error {
	s.mu.Lock()
	err := s.ledger.DeleteWish(ctx, wishID)
	var snapshot domain.Account
	if err == nil {
		snapshot = s.ledger.Snapshot()
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.persist(ctx, snapshot)
	return nil
}

// SetProfileImageURL stores the profile image handle and triggers a save.
func (s *AccountSession) SetProfileImageURL(ctx context.Context, imageURL string) {
	s.mu.Lock()
	s.ledger.SetProfileImageURL(ctx, imageURL)
	snapshot := s.ledger.Snapshot()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

// Account returns a consistent copy of the whole account.
func (s *AccountSession) Account() domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// History returns the transaction history, newest first.
func (s *AccountSession) History() []domain.MoneyTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.History()
}

// ActiveWishes returns wishes that are neither funded nor expired.
func (s *AccountSession) ActiveWishes() []domain.Wish {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ActiveWishes()
}

// CompletedWishes returns fully funded wishes.
func (s *AccountSession) CompletedWishes() []domain.Wish {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CompletedWishes()
}

// ExpiredWishes returns underfunded wishes past their deadline.
func (s *AccountSession) ExpiredWishes() []domain.Wish {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ExpiredWishes()
}

// Wishes returns the full wish list in insertion order.
func (s *AccountSession) Wishes() []domain.Wish {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Wishes()
}
