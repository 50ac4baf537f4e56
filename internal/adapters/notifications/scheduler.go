// Package notifications implements the local-notification collaborator: it
// turns the current wish list into reminder registrations. Delivery transport
// is out of scope; consumers read the scheduled set.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
	portssvc "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/services"
)

// motivationIdentifier is the fixed identifier of the recurring nightly
// reminder; re-scheduling replaces the previous one (at-most-once).
const motivationIdentifier = "midnightWishMotivation"

// Reminder is one scheduled local notification.
type Reminder struct {
	Identifier string
	Title      string
	Body       string
	FireAt     time.Time
	Repeats    bool
}

// Scheduler keeps the current reminder registrations keyed by identifier.
type Scheduler struct {
	logger *slog.Logger

	mu        sync.Mutex
	scheduled map[string]Reminder
}

// NewScheduler creates a Scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger:    logger,
		scheduled: make(map[string]Reminder),
	}
}

var _ portssvc.NotificationScheduler = (*Scheduler)(nil)

// ScheduleReminders registers the nightly motivation for a random underfunded
// wish plus a due-date reminder one day before each unexpired wish's
// deadline. Identifiers are stable, so repeated calls replace rather than
// duplicate.
func (s *Scheduler) ScheduleReminders(ctx context.Context, wishes []domain.Wish) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduleMidnightMotivation(wishes, now)
	for _, wish := range wishes {
		s.scheduleDueDateReminder(wish, now)
	}
}

func (s *Scheduler) scheduleMidnightMotivation(wishes []domain.Wish, now time.Time) {
	candidates := make([]domain.Wish, 0, len(wishes))
	for _, w := range wishes {
		if !w.IsFunded() {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		delete(s.scheduled, motivationIdentifier)
		return
	}

	wish := candidates[rand.Intn(len(candidates))]
	progress := wish.Progress().Round(0)
	remaining := wish.RemainingNeed().Round(2)

	s.scheduled[motivationIdentifier] = Reminder{
		Identifier: motivationIdentifier,
		Title:      "Keep Going!",
		Body: fmt.Sprintf("%q is %s%% there. You need $%s more. Don't give up!",
			wish.Title, progress.String(), remaining.String()),
		FireAt:  nextMidnight(now),
		Repeats: true,
	}
	s.logger.Debug("Scheduled midnight motivation", slog.String("wish_id", wish.WishID))
}

func (s *Scheduler) scheduleDueDateReminder(wish domain.Wish, now time.Time) {
	identifier := "dueReminder_" + wish.WishID
	if wish.IsExpired(now) {
		delete(s.scheduled, identifier)
		return
	}

	s.scheduled[identifier] = Reminder{
		Identifier: identifier,
		Title:      fmt.Sprintf("%q is almost due!", wish.Title),
		Body:       "Only 1 day left to fulfill this wish. Keep pushing!",
		FireAt:     wish.FinalDate.AddDate(0, 0, -1),
	}
	s.logger.Debug("Scheduled due-date reminder", slog.String("wish_id", wish.WishID))
}

// Scheduled returns a copy of the current reminder registrations.
func (s *Scheduler) Scheduled() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := make([]Reminder, 0, len(s.scheduled))
	for _, r := range s.scheduled {
		reminders = append(reminders, r)
	}
	return reminders
}

// nextMidnight returns the next midnight after now, UTC.
func nextMidnight(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, 1)
}
