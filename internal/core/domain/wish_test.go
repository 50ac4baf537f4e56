package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
)

func TestWish_IsFunded(t *testing.T) {
	tests := []struct {
		name string
		wish domain.Wish
		want bool
	}{
		{
			name: "nothing saved",
			wish: domain.Wish{Price: decimal.NewFromInt(100), SavedAmount: decimal.Zero},
			want: false,
		},
		{
			name: "partially funded",
			wish: domain.Wish{Price: decimal.NewFromInt(100), SavedAmount: decimal.NewFromInt(99)},
			want: false,
		},
		{
			name: "exactly funded",
			wish: domain.Wish{Price: decimal.NewFromInt(100), SavedAmount: decimal.NewFromInt(100)},
			want: true,
		},
		{
			name: "funded with fractional price",
			wish: domain.Wish{Price: decimal.NewFromFloat(49.99), SavedAmount: decimal.NewFromFloat(49.99)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.wish.IsFunded())
		})
	}
}

func TestWish_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		wish domain.Wish
		want bool
	}{
		{
			name: "deadline in the future",
			wish: domain.Wish{
				Price:       decimal.NewFromInt(100),
				SavedAmount: decimal.Zero,
				FinalDate:   now.AddDate(0, 0, 7),
			},
			want: false,
		},
		{
			name: "deadline passed, underfunded",
			wish: domain.Wish{
				Price:       decimal.NewFromInt(100),
				SavedAmount: decimal.NewFromInt(50),
				FinalDate:   now.AddDate(0, 0, -1),
			},
			want: true,
		},
		{
			name: "deadline passed but fully funded",
			wish: domain.Wish{
				Price:       decimal.NewFromInt(100),
				SavedAmount: decimal.NewFromInt(100),
				FinalDate:   now.AddDate(0, 0, -1),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.wish.IsExpired(now))
		})
	}
}

func TestWish_RemainingNeed(t *testing.T) {
	tests := []struct {
		name string
		wish domain.Wish
		want decimal.Decimal
	}{
		{
			name: "untouched wish needs full price",
			wish: domain.Wish{Price: decimal.NewFromInt(150), SavedAmount: decimal.Zero},
			want: decimal.NewFromInt(150),
		},
		{
			name: "partially funded",
			wish: domain.Wish{Price: decimal.NewFromInt(150), SavedAmount: decimal.NewFromInt(100)},
			want: decimal.NewFromInt(50),
		},
		{
			name: "never negative even when over price",
			wish: domain.Wish{Price: decimal.NewFromInt(150), SavedAmount: decimal.NewFromInt(200)},
			want: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.wish.RemainingNeed()),
				"want %s, got %s", tt.want, tt.wish.RemainingNeed())
		})
	}
}

func TestWish_Progress(t *testing.T) {
	tests := []struct {
		name string
		wish domain.Wish
		want decimal.Decimal
	}{
		{
			name: "halfway",
			wish: domain.Wish{Price: decimal.NewFromInt(200), SavedAmount: decimal.NewFromInt(100)},
			want: decimal.NewFromInt(50),
		},
		{
			name: "capped at 100",
			wish: domain.Wish{Price: decimal.NewFromInt(100), SavedAmount: decimal.NewFromInt(150)},
			want: decimal.NewFromInt(100),
		},
		{
			name: "zero price yields zero",
			wish: domain.Wish{Price: decimal.Zero, SavedAmount: decimal.Zero},
			want: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.wish.Progress()),
				"want %s, got %s", tt.want, tt.wish.Progress())
		})
	}
}

func TestAccount_FindWish(t *testing.T) {
	account := domain.NewAccount()
	account.Wishes = append(account.Wishes,
		domain.Wish{WishID: "w1", Title: "Bike"},
		domain.Wish{WishID: "w2", Title: "Laptop"},
	)

	wish, found := account.FindWish("w2")
	assert.True(t, found)
	assert.Equal(t, "Laptop", wish.Title)

	// The returned pointer aliases account state so mutations stick.
	wish.SavedAmount = decimal.NewFromInt(10)
	assert.True(t, decimal.NewFromInt(10).Equal(account.Wishes[1].SavedAmount))

	_, found = account.FindWish("missing")
	assert.False(t, found)
}

func TestAccount_Clone(t *testing.T) {
	account := domain.NewAccount()
	account.Balance = decimal.NewFromInt(75)
	account.ProfileImageURL = "https://img.example/p.jpg"
	account.Wishes = append(account.Wishes, domain.Wish{WishID: "w1", Title: "Bike", Price: decimal.NewFromInt(100)})
	account.History = append(account.History, domain.MoneyTransaction{TransactionID: "t1", Amount: decimal.NewFromInt(75)})

	clone := account.Clone()

	// Mutating the clone must not leak back into the original.
	clone.Wishes[0].Title = "Changed"
	clone.History[0].Amount = decimal.Zero
	clone.Balance = decimal.Zero

	assert.Equal(t, "Bike", account.Wishes[0].Title)
	assert.True(t, decimal.NewFromInt(75).Equal(account.History[0].Amount))
	assert.True(t, decimal.NewFromInt(75).Equal(account.Balance))
	assert.Equal(t, "https://img.example/p.jpg", clone.ProfileImageURL)
}
