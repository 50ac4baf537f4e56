package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishmaker-app/wishmaker_backend/internal/apperrors"
	portsrepo "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/repositories"
)

// PgxDocumentRepository stores one JSONB document per user. Writes are atomic
// at the document level; a merge write preserves remote fields absent from
// the incoming snapshot via jsonb concatenation.
type PgxDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new repository for account documents.
func NewDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentStore {
	return &PgxDocumentRepository{pool: pool}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentStore
var _ portsrepo.DocumentStore = (*PgxDocumentRepository)(nil)

// GetDocument retrieves the document for a user, or apperrors.ErrNotFound.
func (r *PgxDocumentRepository) GetDocument(ctx context.Context, userID string) (map[string]any, error) {
	query := `
		SELECT doc
		FROM account_documents
		WHERE user_id = $1;
	`
	var raw []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document for user %s: %w", userID, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document for user %s: %w", userID, err)
	}
	return doc, nil
}

// SetDocument upserts the document for a user. With merge, top-level fields
// of the stored document that are not present in the write survive.
func (r *PgxDocumentRepository) SetDocument(ctx context.Context, userID string, fields map[string]any, merge bool) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document for user %s: %w", userID, err)
	}

	query := `
		INSERT INTO account_documents (user_id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET doc = account_documents.doc || EXCLUDED.doc, updated_at = now();
	`
	if !merge {
		query = `
			INSERT INTO account_documents (user_id, doc, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id)
			DO UPDATE SET doc = EXCLUDED.doc, updated_at = now();
		`
	}

	if _, err := r.pool.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("failed to set document for user %s: %w", userID, err)
	}
	return nil
}
