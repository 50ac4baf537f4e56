package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wish represents a single savings target the user is putting money toward.
// This is the primary representation used by services.
type Wish struct {
	WishID      string          `json:"wishID"`      // Primary Key (UUID), immutable
	Title       string          `json:"title"`       // User-defined name
	Category    string          `json:"category"`    // Free-text grouping label
	Description string          `json:"description"` // Free-text
	Price       decimal.Decimal `json:"price"`       // Funding target, always > 0
	SavedAmount decimal.Decimal `json:"savedAmount"` // 0 <= SavedAmount <= Price at all times
	FinalDate   time.Time       `json:"finalDate"`   // Deadline; mutable via an explicit edit
	ImageURL    string          `json:"imageURL"`    // Opaque handle from the image-hosting collaborator
}

// IsFunded reports whether the wish has reached its price.
func (w Wish) IsFunded() bool {
	return w.SavedAmount.GreaterThanOrEqual(w.Price)
}

// IsExpired reports whether the deadline passed before the wish was funded.
// A funded wish never counts as expired, regardless of its deadline.
func (w Wish) IsExpired(now time.Time) bool {
	return w.FinalDate.Before(now) && !w.IsFunded()
}

// RemainingNeed returns how much is still missing to fully fund the wish.
// Never negative.
func (w Wish) RemainingNeed() decimal.Decimal {
	need := w.Price.Sub(w.SavedAmount)
	if need.IsNegative() {
		return decimal.Zero
	}
	return need
}

// Progress returns the funded fraction in percent, capped at 100.
func (w Wish) Progress() decimal.Decimal {
	if w.Price.IsZero() {
		return decimal.Zero
	}
	pct := w.SavedAmount.Div(w.Price).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
