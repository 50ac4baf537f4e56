package repositories

import "context"

// DocumentStore is the persistence collaborator contract: a remote document
// store keyed by the authenticated user's identifier. The document is a flat,
// versionless key/value snapshot; the store's write is assumed atomic at the
// document level.
type DocumentStore interface {
	// GetDocument returns the stored document for userID, or
	// apperrors.ErrNotFound when no document exists yet.
	GetDocument(ctx context.Context, userID string) (map[string]any, error)

	// SetDocument writes fields to the document for userID. With merge set,
	// remote fields absent from the write are preserved; otherwise the whole
	// document is replaced.
	SetDocument(ctx context.Context, userID string, fields map[string]any, merge bool) error
}
