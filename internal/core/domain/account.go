package domain

import (
	"github.com/shopspring/decimal"
)

// Account is the aggregate root the ledger mutates: the cash balance, the
// wishes it funds, and the transaction history. One Account exists per user
// identity; it is hydrated from the document store at session start and
// mutated only through Ledger operations for the lifetime of the session.
type Account struct {
	Balance         decimal.Decimal    `json:"balance"` // Invariant: never negative
	Wishes          []Wish             `json:"wishes"`  // Unique by WishID, insertion-ordered
	History         []MoneyTransaction `json:"history"` // Append-only, insertion order is canonical
	ProfileImageURL string             `json:"profileImageURL,omitempty"`
}

// NewAccount returns the empty account a user starts with on first registration.
func NewAccount() *Account {
	return &Account{Balance: decimal.Zero}
}

// FindWish returns a pointer into the wish slice for in-place mutation by the
// ledger, or false when no wish carries the given ID.
func (a *Account) FindWish(wishID string) (*Wish, bool) {
	for i := range a.Wishes {
		if a.Wishes[i].WishID == wishID {
			return &a.Wishes[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy safe to hand to a concurrent reader (e.g. an
// in-flight save) while the original keeps being mutated.
func (a *Account) Clone() Account {
	cp := Account{
		Balance:         a.Balance,
		ProfileImageURL: a.ProfileImageURL,
	}
	if a.Wishes != nil {
		cp.Wishes = make([]Wish, len(a.Wishes))
		copy(cp.Wishes, a.Wishes)
	}
	if a.History != nil {
		cp.History = make([]MoneyTransaction, len(a.History))
		copy(cp.History, a.History)
	}
	return cp
}
