package mapping_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
	"github.com/wishmaker-app/wishmaker_backend/internal/utils/mapping"
)

func TestWishRecordRoundTrip(t *testing.T) {
	wish := domain.Wish{
		WishID:      "w1",
		Title:       "Bike",
		Category:    "Sport",
		Description: "Red one",
		Price:       decimal.NewFromFloat(149.99),
		SavedAmount: decimal.NewFromInt(60),
		FinalDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ImageURL:    "https://img.example/bike.jpg",
	}

	restored, ok := mapping.WishFromRecord(mapping.ToWishRecord(wish))

	require.True(t, ok)
	assert.Equal(t, wish.WishID, restored.WishID)
	assert.Equal(t, wish.Title, restored.Title)
	assert.True(t, wish.Price.Equal(restored.Price))
	assert.True(t, wish.SavedAmount.Equal(restored.SavedAmount))
	assert.True(t, wish.FinalDate.Equal(restored.FinalDate))
	assert.Equal(t, wish.ImageURL, restored.ImageURL)
}

func TestWishFromRecord_MissingField(t *testing.T) {
	record := mapping.ToWishRecord(domain.Wish{
		WishID: "w1", Title: "Bike", Category: "Sport", Description: "Red",
		Price: decimal.NewFromInt(100), FinalDate: time.Now().UTC(),
		ImageURL: "u",
	})

	for _, field := range []string{"id", "title", "category", "description", "price", "savedAmount", "finalDate", "imageURL"} {
		t.Run(field, func(t *testing.T) {
			broken := make(map[string]any, len(record))
			for k, v := range record {
				broken[k] = v
			}
			delete(broken, field)

			_, ok := mapping.WishFromRecord(broken)
			assert.False(t, ok)
		})
	}
}

func TestWishFromRecord_MistypedField(t *testing.T) {
	record := mapping.ToWishRecord(domain.Wish{
		WishID: "w1", Title: "Bike", Category: "Sport", Description: "Red",
		Price: decimal.NewFromInt(100), FinalDate: time.Now().UTC(),
		ImageURL: "u",
	})
	record["price"] = "a lot"

	_, ok := mapping.WishFromRecord(record)
	assert.False(t, ok)
}

func TestTransactionRecordRoundTrip(t *testing.T) {
	txn := domain.MoneyTransaction{
		TransactionID: "t1",
		Amount:        decimal.NewFromFloat(-60.5),
		Date:          time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC),
		WishTitle:     "Bike",
	}

	restored, ok := mapping.TransactionFromRecord(mapping.ToTransactionRecord(txn))

	require.True(t, ok)
	assert.Equal(t, txn.TransactionID, restored.TransactionID)
	assert.True(t, txn.Amount.Equal(restored.Amount))
	assert.True(t, txn.Date.Equal(restored.Date))
	assert.Equal(t, txn.WishTitle, restored.WishTitle)
}

func TestTransactionRecord_WishTitleOptional(t *testing.T) {
	deposit := domain.MoneyTransaction{
		TransactionID: "t1",
		Amount:        decimal.NewFromInt(100),
		Date:          time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	record := mapping.ToTransactionRecord(deposit)
	_, hasTitle := record["wishTitle"]
	assert.False(t, hasTitle)

	restored, ok := mapping.TransactionFromRecord(record)
	require.True(t, ok)
	assert.Empty(t, restored.WishTitle)
}

func TestTransactionFromRecord_RequiredFields(t *testing.T) {
	for _, field := range []string{"id", "amount", "date"} {
		t.Run(field, func(t *testing.T) {
			record := map[string]any{"id": "t1", "amount": 10.0, "date": float64(1760000000)}
			delete(record, field)

			_, ok := mapping.TransactionFromRecord(record)
			assert.False(t, ok)
		})
	}
}

// Records that went through JSON serialization come back with float64 epochs
// and json.Number under UseNumber; both must decode.
func TestRecordsSurviveJSONTransport(t *testing.T) {
	wish := domain.Wish{
		WishID: "w1", Title: "Bike", Category: "Sport", Description: "Red",
		Price: decimal.NewFromInt(100), SavedAmount: decimal.NewFromInt(25),
		FinalDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ImageURL: "u",
	}

	raw, err := json.Marshal(mapping.ToWishRecord(wish))
	require.NoError(t, err)

	var plain map[string]any
	require.NoError(t, json.Unmarshal(raw, &plain))
	restored, ok := mapping.WishFromRecord(plain)
	require.True(t, ok)
	assert.True(t, wish.FinalDate.Equal(restored.FinalDate))

	var numbered map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&numbered))
	restored, ok = mapping.WishFromRecord(numbered)
	require.True(t, ok)
	assert.True(t, wish.Price.Equal(restored.Price))
}
