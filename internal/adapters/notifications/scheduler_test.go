package notifications_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishmaker-app/wishmaker_backend/internal/adapters/notifications"
	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
)

func newTestScheduler() *notifications.Scheduler {
	return notifications.NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func findReminder(reminders []notifications.Reminder, identifier string) (notifications.Reminder, bool) {
	for _, r := range reminders {
		if r.Identifier == identifier {
			return r, true
		}
	}
	return notifications.Reminder{}, false
}

func TestScheduleReminders_MidnightMotivation(t *testing.T) {
	s := newTestScheduler()
	wishes := []domain.Wish{{
		WishID:      "w1",
		Title:       "Bike",
		Price:       decimal.NewFromInt(100),
		SavedAmount: decimal.NewFromInt(25),
		FinalDate:   time.Now().UTC().AddDate(0, 1, 0),
	}}

	s.ScheduleReminders(context.Background(), wishes)

	motivation, ok := findReminder(s.Scheduled(), "midnightWishMotivation")
	require.True(t, ok)
	assert.True(t, motivation.Repeats)
	assert.Contains(t, motivation.Body, `"Bike"`)
	assert.Contains(t, motivation.Body, "25%")
	assert.Contains(t, motivation.Body, "$75")

	// Fires at a midnight boundary in the future.
	assert.Equal(t, 0, motivation.FireAt.Hour())
	assert.True(t, motivation.FireAt.After(time.Now().UTC()))
}

func TestScheduleReminders_NoMotivationWhenAllFunded(t *testing.T) {
	s := newTestScheduler()
	funded := []domain.Wish{{
		WishID:      "w1",
		Title:       "Bike",
		Price:       decimal.NewFromInt(100),
		SavedAmount: decimal.NewFromInt(100),
		FinalDate:   time.Now().UTC().AddDate(0, 1, 0),
	}}

	s.ScheduleReminders(context.Background(), funded)

	_, ok := findReminder(s.Scheduled(), "midnightWishMotivation")
	assert.False(t, ok)
}

func TestScheduleReminders_DueDateReminder(t *testing.T) {
	s := newTestScheduler()
	deadline := time.Now().UTC().AddDate(0, 0, 10)
	wishes := []domain.Wish{{
		WishID:    "w1",
		Title:     "Bike",
		Price:     decimal.NewFromInt(100),
		FinalDate: deadline,
	}}

	s.ScheduleReminders(context.Background(), wishes)

	due, ok := findReminder(s.Scheduled(), "dueReminder_w1")
	require.True(t, ok)
	assert.True(t, deadline.AddDate(0, 0, -1).Equal(due.FireAt))
	assert.False(t, due.Repeats)
	assert.Contains(t, due.Title, `"Bike"`)
}

func TestScheduleReminders_ExpiredWishClearsReminder(t *testing.T) {
	s := newTestScheduler()
	wish := domain.Wish{
		WishID:    "w1",
		Title:     "Bike",
		Price:     decimal.NewFromInt(100),
		FinalDate: time.Now().UTC().AddDate(0, 0, 10),
	}
	s.ScheduleReminders(context.Background(), []domain.Wish{wish})

	// The deadline passes without funding; re-scheduling drops the reminder.
	wish.FinalDate = time.Now().UTC().AddDate(0, 0, -1)
	s.ScheduleReminders(context.Background(), []domain.Wish{wish})

	_, ok := findReminder(s.Scheduled(), "dueReminder_w1")
	assert.False(t, ok)
}

func TestScheduleReminders_RepeatedCallsReplace(t *testing.T) {
	s := newTestScheduler()
	wishes := []domain.Wish{{
		WishID:      "w1",
		Title:       "Bike",
		Price:       decimal.NewFromInt(100),
		SavedAmount: decimal.NewFromInt(25),
		FinalDate:   time.Now().UTC().AddDate(0, 1, 0),
	}}

	s.ScheduleReminders(context.Background(), wishes)
	s.ScheduleReminders(context.Background(), wishes)

	// Stable identifiers: one motivation plus one due reminder, no duplicates.
	assert.Len(t, s.Scheduled(), 2)
}
