package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
	"github.com/wishmaker-app/wishmaker_backend/internal/dto"
	"github.com/wishmaker-app/wishmaker_backend/internal/middleware"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidWish       = errors.New("wish requires a positive price and non-empty title, category and description")
	ErrWishNotFound      = errors.New("wish not found")
	ErrInsufficientFunds = errors.New("amount exceeds available balance")
	ErrWishAlreadyFunded = errors.New("wish is already fully funded")
)

// Ledger owns one account's in-memory state and is its single point of
// mutation. Every operation either fully applies or leaves the account
// untouched. The ledger itself carries no synchronization: callers guarantee
// that no two operations run concurrently against the same account (the
// session layer serializes them).
type Ledger struct {
	account *domain.Account
}

// NewLedger wraps an account hydrated by the sync layer.
func NewLedger(account *domain.Account) *Ledger {
	if account == nil {
		account = domain.NewAccount()
	}
	return &Ledger{account: account}
}

// Deposit adds amount to the balance and appends a positive history entry.
// Returns the updated balance.
func (l *Ledger) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}

	l.account.Balance = l.account.Balance.Add(amount)
	l.account.History = append(l.account.History, domain.MoneyTransaction{
		TransactionID: uuid.NewString(),
		Amount:        amount,
		Date:          time.Now().UTC(),
	})

	logger.Info("Funds deposited", slog.String("amount", amount.String()), slog.String("balance", l.account.Balance.String()))
	return l.account.Balance, nil
}

// CreateWish allocates a new wish with zero saved amount and appends it to
// the account. Returns the created wish.
func (l *Ledger) CreateWish(ctx context.Context, req dto.CreateWishRequest) (*domain.Wish, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Price.LessThanOrEqual(decimal.Zero) ||
		strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Category) == "" ||
		strings.TrimSpace(req.Description) == "" {
		return nil, ErrInvalidWish
	}

	wish := domain.Wish{
		WishID:      uuid.NewString(),
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		SavedAmount: decimal.Zero,
		FinalDate:   req.FinalDate,
		ImageURL:    req.ImageURL,
	}
	l.account.Wishes = append(l.account.Wishes, wish)

	logger.Info("Wish created", slog.String("wish_id", wish.WishID), slog.String("price", wish.Price.String()))
	return &wish, nil
}

// Allocate moves funds from the balance into a wish. The amount actually
// applied is min(amount, remaining need): the wish is never overfunded, and
// only the applied amount leaves the balance. Returns the applied amount.
func (l *Ledger) Allocate(ctx context.Context, wishID string, amount decimal.Decimal) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	wish, found := l.account.FindWish(wishID)
	if !found {
		return decimal.Zero, fmt.Errorf("%w: ID %s", ErrWishNotFound, wishID)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	if wish.IsFunded() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrWishAlreadyFunded, wish.Title)
	}
	if amount.GreaterThan(l.account.Balance) {
		return decimal.Zero, fmt.Errorf("%w: requested %s, balance %s",
			ErrInsufficientFunds, amount.String(), l.account.Balance.String())
	}

	applied := decimal.Min(amount, wish.RemainingNeed())

	wish.SavedAmount = wish.SavedAmount.Add(applied)
	l.account.Balance = l.account.Balance.Sub(applied)
	l.account.History = append(l.account.History, domain.MoneyTransaction{
		TransactionID: uuid.NewString(),
		Amount:        applied.Neg(),
		Date:          time.Now().UTC(),
		WishTitle:     wish.Title,
	})

	logger.Info("Funds allocated to wish",
		slog.String("wish_id", wishID),
		slog.String("applied", applied.String()),
		slog.String("balance", l.account.Balance.String()))
	return applied, nil
}

// EditDeadline replaces a wish's deadline. Funded wishes may still be edited;
// only a missing wish is an error.
func (l *Ledger) EditDeadline(ctx context.Context, wishID string, finalDate time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	wish, found := l.account.FindWish(wishID)
	if !found {
		return fmt.Errorf("%w: ID %s", ErrWishNotFound, wishID)
	}

	wish.FinalDate = finalDate
	logger.Info("Wish deadline updated", slog.String("wish_id", wishID), slog.Time("final_date", finalDate))
	return nil
}

// DeleteWish removes the wish from the account. Allocated funds are not
// refunded to the balance, and history entries referencing the wish stay
// untouched.
func (l *Ledger) DeleteWish(ctx context.Context, wishID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	for i := range l.account.Wishes {
		if l.account.Wishes[i].WishID == wishID {
			l.account.Wishes = append(l.account.Wishes[:i], l.account.Wishes[i+1:]...)
			logger.Info("Wish deleted", slog.String("wish_id", wishID))
			return nil
		}
	}
	return fmt.Errorf("%w: ID %s", ErrWishNotFound, wishID)
}

// SetProfileImageURL stores the opaque profile image handle.
func (l *Ledger) SetProfileImageURL(ctx context.Context, imageURL string) {
	l.account.ProfileImageURL = imageURL
	middleware.GetLoggerFromCtx(ctx).Info("Profile image updated")
}

// ActiveWishes returns wishes that are neither funded nor expired.
func (l *Ledger) ActiveWishes() []domain.Wish {
	now := time.Now().UTC()
	return l.filterWishes(func(w domain.Wish) bool {
		return !w.IsFunded() && !w.IsExpired(now)
	})
}

// CompletedWishes returns fully funded wishes.
func (l *Ledger) CompletedWishes() []domain.Wish {
	return l.filterWishes(domain.Wish.IsFunded)
}

// ExpiredWishes returns underfunded wishes whose deadline has passed.
func (l *Ledger) ExpiredWishes() []domain.Wish {
	now := time.Now().UTC()
	return l.filterWishes(func(w domain.Wish) bool {
		return w.IsExpired(now)
	})
}

// Wishes returns a copy of the full wish list in insertion order.
func (l *Ledger) Wishes() []domain.Wish {
	return l.filterWishes(func(domain.Wish) bool { return true })
}

// Balance returns the current cash balance.
func (l *Ledger) Balance() decimal.Decimal {
	return l.account.Balance
}

// History returns a copy of the transaction history sorted newest first for
// display; storage order stays insertion order.
func (l *Ledger) History() []domain.MoneyTransaction {
	history := make([]domain.MoneyTransaction, len(l.account.History))
	copy(history, l.account.History)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history
}

// Snapshot returns a deep copy of the account, safe to serialize while the
// ledger keeps mutating the original.
func (l *Ledger) Snapshot() domain.Account {
	return l.account.Clone()
}

func (l *Ledger) filterWishes(keep func(domain.Wish) bool) []domain.Wish {
	result := make([]domain.Wish, 0, len(l.account.Wishes))
	for _, w := range l.account.Wishes {
		if keep(w) {
			result = append(result, w)
		}
	}
	return result
}
