// Package mapping converts between domain types and the untyped document
// records stored in the remote document store.
package mapping

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
)

// ToWishRecord converts a domain Wish into its document record form.
// Dates are encoded as numeric epoch seconds.
func ToWishRecord(w domain.Wish) map[string]any {
	return map[string]any{
		"id":          w.WishID,
		"title":       w.Title,
		"category":    w.Category,
		"description": w.Description,
		"price":       w.Price.InexactFloat64(),
		"savedAmount": w.SavedAmount.InexactFloat64(),
		"finalDate":   w.FinalDate.Unix(),
		"imageURL":    w.ImageURL,
	}
}

// WishFromRecord decodes a single wish record. It returns false when any
// required field is missing or mistyped; the caller drops such records
// instead of failing the whole load.
func WishFromRecord(record map[string]any) (domain.Wish, bool) {
	id, ok := asString(record["id"])
	if !ok {
		return domain.Wish{}, false
	}
	title, ok := asString(record["title"])
	if !ok {
		return domain.Wish{}, false
	}
	category, ok := asString(record["category"])
	if !ok {
		return domain.Wish{}, false
	}
	description, ok := asString(record["description"])
	if !ok {
		return domain.Wish{}, false
	}
	price, ok := AsFloat(record["price"])
	if !ok {
		return domain.Wish{}, false
	}
	saved, ok := AsFloat(record["savedAmount"])
	if !ok {
		return domain.Wish{}, false
	}
	finalDate, ok := AsFloat(record["finalDate"])
	if !ok {
		return domain.Wish{}, false
	}
	imageURL, ok := asString(record["imageURL"])
	if !ok {
		return domain.Wish{}, false
	}

	return domain.Wish{
		WishID:      id,
		Title:       title,
		Category:    category,
		Description: description,
		Price:       decimal.NewFromFloat(price),
		SavedAmount: decimal.NewFromFloat(saved),
		FinalDate:   time.Unix(int64(finalDate), 0).UTC(),
		ImageURL:    imageURL,
	}, true
}

// ToTransactionRecord converts a ledger entry into its document record form.
// wishTitle is carried as an optional extra field beyond the store contract.
func ToTransactionRecord(t domain.MoneyTransaction) map[string]any {
	record := map[string]any{
		"id":     t.TransactionID,
		"amount": t.Amount.InexactFloat64(),
		"date":   t.Date.Unix(),
	}
	if t.WishTitle != "" {
		record["wishTitle"] = t.WishTitle
	}
	return record
}

// TransactionFromRecord decodes a single transaction record, returning false
// on any missing required field. wishTitle is optional.
func TransactionFromRecord(record map[string]any) (domain.MoneyTransaction, bool) {
	id, ok := asString(record["id"])
	if !ok {
		return domain.MoneyTransaction{}, false
	}
	amount, ok := AsFloat(record["amount"])
	if !ok {
		return domain.MoneyTransaction{}, false
	}
	date, ok := AsFloat(record["date"])
	if !ok {
		return domain.MoneyTransaction{}, false
	}

	txn := domain.MoneyTransaction{
		TransactionID: id,
		Amount:        decimal.NewFromFloat(amount),
		Date:          time.Unix(int64(date), 0).UTC(),
	}
	if title, ok := asString(record["wishTitle"]); ok {
		txn.WishTitle = title
	}
	return txn, true
}

// asString extracts a string field from an untyped record value.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsFloat extracts a numeric field from an untyped document value. JSON
// decoding yields float64, but records built in memory may carry int or int64
// epoch values, and pgx may surface json.Number depending on scan
// configuration. The snapshot codec shares it for top-level fields.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
