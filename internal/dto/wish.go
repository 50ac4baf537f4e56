package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
)

// CreateWishRequest defines the data needed to create a new wish. The image
// has already been uploaded through the image endpoint; only its URL travels
// here.
type CreateWishRequest struct {
	Title       string          `json:"title" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required,gt=0"`
	FinalDate   time.Time       `json:"finalDate" binding:"required"`
	ImageURL    string          `json:"imageURL" binding:"required,url"`
}

// AllocateRequest defines the data needed to move funds into a wish.
type AllocateRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// AllocateResponse reports the clamped amount that was actually applied.
type AllocateResponse struct {
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	Balance       decimal.Decimal `json:"balance"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
}

// UpdateDeadlineRequest defines the data for an explicit deadline edit.
type UpdateDeadlineRequest struct {
	FinalDate time.Time `json:"finalDate" binding:"required"`
}

// WishResponse defines the data returned for a wish.
type WishResponse struct {
	WishID      string          `json:"wishID"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	SavedAmount decimal.Decimal `json:"savedAmount"`
	FinalDate   time.Time       `json:"finalDate"`
	ImageURL    string          `json:"imageURL"`
	IsFunded    bool            `json:"isFunded"`
	IsExpired   bool            `json:"isExpired"`
}

// ListWishesResponse wraps a wish listing.
type ListWishesResponse struct {
	Wishes []WishResponse `json:"wishes"`
}

// ToWishResponse converts a domain wish to its response DTO.
func ToWishResponse(w domain.Wish, now time.Time) WishResponse {
	return WishResponse{
		WishID:      w.WishID,
		Title:       w.Title,
		Category:    w.Category,
		Description: w.Description,
		Price:       w.Price,
		SavedAmount: w.SavedAmount,
		FinalDate:   w.FinalDate,
		ImageURL:    w.ImageURL,
		IsFunded:    w.IsFunded(),
		IsExpired:   w.IsExpired(now),
	}
}

// ToWishResponses converts a slice of domain wishes.
func ToWishResponses(wishes []domain.Wish, now time.Time) []WishResponse {
	res := make([]WishResponse, len(wishes))
	for i, w := range wishes {
		res[i] = ToWishResponse(w, now)
	}
	return res
}
