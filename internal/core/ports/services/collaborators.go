package services

import (
	"context"

	"github.com/wishmaker-app/wishmaker_backend/internal/core/domain"
)

// NotificationScheduler is the local-notification collaborator. It receives
// the current ordered wish list after every load; schedule-at-most-once
// semantics are its own responsibility. The core consumes no return value.
type NotificationScheduler interface {
	ScheduleReminders(ctx context.Context, wishes []domain.Wish)
}

// ImageStore is the image-hosting collaborator: it accepts raw image bytes
// and returns a durable HTTPS URL. The core only ever stores and forwards the
// returned string; it never fetches or validates image bytes.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}
