package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wishmaker-app/wishmaker_backend/internal/apperrors"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
	portsrepo "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/repositories"
	portssvc "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/services"
	"github.com/wishmaker-app/wishmaker_backend/internal/middleware"
	"github.com/wishmaker-app/wishmaker_backend/internal/utils/mapping"
)

// Document field names, matching the store contract.
const (
	fieldBalance         = "balance"
	fieldWishes          = "wishes"
	fieldMoneyHistory    = "moneyHistory"
	fieldProfileImageURL = "profileImageURL"
)

// SyncService translates the in-memory account to and from the flat document
// snapshot kept in the remote store, and hydrates accounts at session start.
// Local state is truth; the remote document is a lagging replica with
// last-write-wins semantics at document granularity.
type SyncService struct {
	store    portsrepo.DocumentStore
	notifier portssvc.NotificationScheduler
}

// NewSyncService creates a new SyncService.
func NewSyncService(store portsrepo.DocumentStore, notifier portssvc.NotificationScheduler) *SyncService {
	return &SyncService{
		store:    store,
		notifier: notifier,
	}
}

// ToSnapshot produces the document representation of an account. It is a
// pure, total function: it never fails.
func (s *SyncService) ToSnapshot(account domain.Account) map[string]any {
	wishes := make([]any, len(account.Wishes))
	for i, w := range account.Wishes {
		wishes[i] = mapping.ToWishRecord(w)
	}
	history := make([]any, len(account.History))
	for i, t := range account.History {
		history[i] = mapping.ToTransactionRecord(t)
	}
	return map[string]any{
		fieldBalance:         account.Balance.InexactFloat64(),
		fieldWishes:          wishes,
		fieldMoneyHistory:    history,
		fieldProfileImageURL: account.ProfileImageURL,
	}
}

// FromSnapshot reconstructs an account from a document. Malformed wish or
// transaction records are dropped rather than failing the load; a missing
// balance defaults to zero. This function degrades by omission, never errors.
func (s *SyncService) FromSnapshot(doc map[string]any) *domain.Account {
	account := domain.NewAccount()

	if balance, ok := mapping.AsFloat(doc[fieldBalance]); ok {
		account.Balance = decimal.NewFromFloat(balance)
	}
	if imageURL, ok := doc[fieldProfileImageURL].(string); ok {
		account.ProfileImageURL = imageURL
	}
	for _, raw := range asRecordList(doc[fieldWishes]) {
		if wish, ok := mapping.WishFromRecord(raw); ok {
			account.Wishes = append(account.Wishes, wish)
		}
	}
	for _, raw := range asRecordList(doc[fieldMoneyHistory]) {
		if txn, ok := mapping.TransactionFromRecord(raw); ok {
			account.History = append(account.History, txn)
		}
	}
	return account
}

// Load reads the document for userID and reconstructs the account. A missing
// document yields a fresh empty account. On success the loaded wish list is
// handed to the notification collaborator.
func (s *SyncService) Load(ctx context.Context, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.store.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("No stored document, starting fresh account", slog.String("user_id", userID))
			return domain.NewAccount(), nil
		}
		logger.Error("Failed to load account document", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: load for user %s: %v", apperrors.ErrPersistenceUnavailable, userID, err)
	}

	account := s.FromSnapshot(doc)
	logger.Info("Account loaded",
		slog.String("user_id", userID),
		slog.Int("wish_count", len(account.Wishes)),
		slog.Int("transaction_count", len(account.History)))

	if s.notifier != nil {
		s.notifier.ScheduleReminders(ctx, account.Wishes)
	}
	return account, nil
}

// Save writes the account snapshot as a merge write: remote fields not part
// of the snapshot are preserved. Callers treat it as fire-and-forget; a
// failure never rolls back local state.
func (s *SyncService) Save(ctx context.Context, userID string, account domain.Account) error {
	if err := s.store.SetDocument(ctx, userID, s.ToSnapshot(account), true); err != nil {
		return fmt.Errorf("%w: save for user %s: %v", apperrors.ErrPersistenceUnavailable, userID, err)
	}
	return nil
}

// asRecordList normalizes the two shapes a record array shows up in: []any
// from JSON decoding, or []map[string]any when built in memory.
func asRecordList(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		records := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if record, ok := item.(map[string]any); ok {
				records = append(records, record)
			}
		}
		return records
	default:
		return nil
	}
}
