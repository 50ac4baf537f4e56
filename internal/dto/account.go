package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
)

// DepositRequest defines the data needed to add funds to the balance.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// DepositResponse returns the balance after a successful deposit.
type DepositResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// AccountResponse summarizes the account for the profile screen.
type AccountResponse struct {
	Balance          decimal.Decimal `json:"balance"`
	ProfileImageURL  string          `json:"profileImageURL,omitempty"`
	WishCount        int             `json:"wishCount"`
	TransactionCount int             `json:"transactionCount"`
}

// TransactionResponse defines the data returned for a single history entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	WishTitle     string          `json:"wishTitle,omitempty"`
}

// ListTransactionsResponse wraps the history listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// UpdateProfileImageRequest carries the opaque URL returned by the image
// hosting collaborator.
type UpdateProfileImageRequest struct {
	ImageURL string `json:"imageURL" binding:"required,url"`
}

// UploadImageResponse returns the durable URL for uploaded image bytes.
type UploadImageResponse struct {
	ImageURL string `json:"imageURL"`
}

// ToTransactionResponse converts a domain transaction to its response DTO.
func ToTransactionResponse(t domain.MoneyTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Amount:        t.Amount,
		Date:          t.Date,
		WishTitle:     t.WishTitle,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.MoneyTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(t)
	}
	return res
}

// ToAccountResponse converts a domain account to its summary DTO.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		Balance:          a.Balance,
		ProfileImageURL:  a.ProfileImageURL,
		WishCount:        len(a.Wishes),
		TransactionCount: len(a.History),
	}
}
