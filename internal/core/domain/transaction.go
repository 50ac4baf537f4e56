package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyTransaction is a single immutable ledger entry. History is append-only:
// entries are never edited or removed, even when the wish they reference is
// later deleted or renamed.
type MoneyTransaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	Amount        decimal.Decimal `json:"amount"`        // Signed: positive = deposit, negative = allocation
	Date          time.Time       `json:"date"`
	WishTitle     string          `json:"wishTitle,omitempty"` // Denormalized label, set only for allocations
}

// IsAllocation reports whether the entry moved money out of the balance into a wish.
func (t MoneyTransaction) IsAllocation() bool {
	return t.Amount.IsNegative()
}
