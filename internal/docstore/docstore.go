// Package docstore implements the Document Store adapter contract
// (§4.8): query_pending/get_content/update_document over the Document
// record. Grounded on internal/storage's Storage/handlePgxErr shape,
// generalised from sqlc-generated per-table Queries to a hand-written
// pgx query set since no code generator runs in this module.
package docstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/schema"
)

// Store is the adapter boundary the Ingest Use Case and Orchestrator use
// case drive documents through. Implementations must treat update as an
// upsert by doc_id and never destroy a Document.
type Store interface {
	// QueryPending returns documents whose extraction_state is PENDING,
	// optionally capped at limit (limit <= 0 means unlimited).
	QueryPending(ctx context.Context, limit int) ([]schema.Document, error)

	// GetDocument returns a document's current record by doc_id, failing
	// with pkgs/errors.ErrNotFound if doc_id is unknown. Used by the
	// worker to recover a document's immutable fields (source, hash,
	// ingested_at) before rewriting its extraction_state.
	GetDocument(ctx context.Context, docID uuid.UUID) (schema.Document, error)

	// GetContent returns the raw content for a document, failing with
	// pkgs/errors.ErrNotFound if doc_id is unknown.
	GetContent(ctx context.Context, docID uuid.UUID) (string, error)

	// UpdateDocument upserts doc by its DocID, including its content.
	UpdateDocument(ctx context.Context, doc schema.Document, content string) error
}
